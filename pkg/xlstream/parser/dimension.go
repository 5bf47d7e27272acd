package parser

import (
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// rowFromRef returns the row number at the end of a range such as "A1:C10".
func rowFromRef(ref string) int {
	last := ref
	if i := strings.LastIndex(ref, ":"); i >= 0 {
		last = ref[i+1:]
	}
	if _, row, err := excelize.SplitCellName(strings.ReplaceAll(last, "$", "")); err == nil {
		return row
	}

	// Fall back to the trailing digit run.
	end := len(ref)
	start := end
	for start > 0 && ref[start-1] >= '0' && ref[start-1] <= '9' {
		start--
	}
	n, err := strconv.Atoi(ref[start:end])
	if err != nil {
		return 0
	}
	return n
}
