package parser

import (
	"strings"

	"github.com/ukaji3/xlstream-go/pkg/xlstream/models"
	"github.com/xuri/excelize/v2"
)

// ExtractPrintAreas extracts print areas from the workbook's defined names.
// Returns a map of sheet name to list of print areas.
func ExtractPrintAreas(definedNames []DefinedName) map[string][]models.PrintArea {
	result := make(map[string][]models.PrintArea)

	for _, dn := range definedNames {
		if !strings.EqualFold(dn.Name, "_xlnm.Print_Area") {
			continue
		}
		sheetName, areas := parsePrintAreaReference(dn.RefersTo)
		if sheetName != "" && len(areas) > 0 {
			result[sheetName] = append(result[sheetName], areas...)
		}
	}

	return result
}

// parsePrintAreaReference parses a print area reference string.
// Format: 'SheetName'!$A$1:$D$10 or SheetName!$A$1:$D$10
func parsePrintAreaReference(ref string) (string, []models.PrintArea) {
	var areas []models.PrintArea

	var sheetName string
	for _, part := range strings.Split(ref, ",") {
		part = strings.TrimSpace(part)
		idx := strings.LastIndex(part, "!")
		if idx < 0 {
			continue
		}

		if sheetName == "" {
			sheetName = unquoteSheetName(part[:idx])
		}

		if area := parseRangeToArea(part[idx+1:]); area != nil {
			areas = append(areas, *area)
		}
	}

	return sheetName, areas
}

// unquoteSheetName strips the quotes around a sheet name and collapses
// doubled quotes inside it.
func unquoteSheetName(name string) string {
	if len(name) >= 2 && name[0] == '\'' && name[len(name)-1] == '\'' {
		return strings.ReplaceAll(name[1:len(name)-1], "''", "'")
	}
	return name
}

// parseRangeToArea parses a range string like $A$1:$D$10 to PrintArea.
func parseRangeToArea(rangeStr string) *models.PrintArea {
	parts := strings.Split(strings.ReplaceAll(rangeStr, "$", ""), ":")
	if len(parts) != 2 {
		return nil
	}

	startCol, startRow, err := excelize.CellNameToCoordinates(parts[0])
	if err != nil {
		return nil
	}
	endCol, endRow, err := excelize.CellNameToCoordinates(parts[1])
	if err != nil {
		return nil
	}

	return &models.PrintArea{
		R1: startRow,
		C1: startCol,
		R2: endRow,
		C2: endCol,
	}
}

// ClipRows restricts dense rows to a print area. numbers holds the sheet
// row number of each entry of rows (nil means rows[i] is row i+1). Rows the
// sheet leaves out stay out; the numbers of the kept rows are returned
// alongside them.
func ClipRows(rows []models.Row, numbers []int, area models.PrintArea) ([]models.Row, []int) {
	var (
		result []models.Row
		kept   []int
	)
	for i, row := range rows {
		r := rowNumberAt(numbers, i)
		if r < area.R1 || r > area.R2 {
			continue
		}
		clipped := models.Row{}
		for c := area.C1; c <= area.C2 && c <= len(row); c++ {
			clipped = append(clipped, row[c-1])
		}
		result = append(result, clipped)
		kept = append(kept, r)
	}
	return result, kept
}
