package parser

import "sync"

// MaxColumns is the number of column names from A through ZZZ.
const MaxColumns = 26 + 26*26 + 26*26*26

var columnTable struct {
	once    sync.Once
	names   []string
	indices map[string]int
}

func buildColumnTable() {
	letters := make([]string, 26)
	for i := range letters {
		letters[i] = string(rune('A' + i))
	}

	prefixed := func(prefixes []string) []string {
		out := make([]string, 0, len(prefixes)*26)
		for _, p := range prefixes {
			for _, l := range letters {
				out = append(out, p+l)
			}
		}
		return out
	}

	one := letters
	two := prefixed(one)
	three := prefixed(two)

	names := make([]string, 0, MaxColumns)
	names = append(names, one...)
	names = append(names, two...)
	names = append(names, three...)

	indices := make(map[string]int, len(names))
	for i, name := range names {
		indices[name] = i
	}

	columnTable.names = names
	columnTable.indices = indices
}

// ColumnNames returns the ordered column names A..ZZZ.
// The returned slice is shared and must not be modified.
func ColumnNames() []string {
	columnTable.once.Do(buildColumnTable)
	return columnTable.names
}

// ColumnNameToIndex maps column letters to a zero-based index ("A" -> 0).
func ColumnNameToIndex(name string) (int, bool) {
	columnTable.once.Do(buildColumnTable)
	i, ok := columnTable.indices[name]
	return i, ok
}

// IndexToColumnName maps a zero-based index to column letters (0 -> "A").
func IndexToColumnName(index int) (string, bool) {
	names := ColumnNames()
	if index < 0 || index >= len(names) {
		return "", false
	}
	return names[index], true
}
