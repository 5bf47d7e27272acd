package parser

import (
	"fmt"
	"io"
	"strings"
)

// SharedStringsPath is the conventional location of the shared-strings part.
const SharedStringsPath = "xl/sharedStrings.xml"

// SharedStrings is the workbook's shared-string table in document order.
type SharedStrings struct {
	items []string
}

// NewSharedStrings wraps an existing list of strings.
func NewSharedStrings(items ...string) *SharedStrings {
	return &SharedStrings{items: items}
}

// ReadSharedStrings streams the shared-strings part. Each si item becomes
// one entry holding the concatenated text of all its t elements, rich-text
// run markup discarded.
func ReadSharedStrings(src TokenSource) (*SharedStrings, error) {
	result := &SharedStrings{}

	var (
		entry  strings.Builder
		inItem bool
		inText int
	)
	for {
		t, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, NewFormatError(SharedStringsPath, "could not read shared strings", err)
		}

		switch t.Kind {
		case StartElement:
			switch t.Name {
			case "si":
				entry.Reset()
				inItem = true
			case "t":
				inText++
			}
		case EndElement:
			switch t.Name {
			case "si":
				result.items = append(result.items, entry.String())
				inItem = false
			case "t":
				if inText > 0 {
					inText--
				}
			}
		case Text:
			if inItem && inText > 0 {
				entry.WriteString(t.Text)
			}
		}
	}

	return result, nil
}

// Len returns the number of entries.
func (s *SharedStrings) Len() int {
	return len(s.items)
}

// Get returns entry i. An index outside the table is a format error.
func (s *SharedStrings) Get(i int) (string, error) {
	if i < 0 || i >= len(s.items) {
		return "", NewFormatError(SharedStringsPath,
			fmt.Sprintf("shared string index %d out of range (table has %d entries)", i, len(s.items)), nil)
	}
	return s.items[i], nil
}
