package parser

import (
	"fmt"

	"github.com/ukaji3/xlstream-go/pkg/xlstream/models"
)

// TableDetectionParams holds parameters for table detection.
type TableDetectionParams struct {
	DensityMin       float64
	MinNonemptyCells int
}

// DefaultTableParams returns default table detection parameters.
func DefaultTableParams() TableDetectionParams {
	return TableDetectionParams{
		DensityMin:       0.04,
		MinNonemptyCells: 3,
	}
}

// DetectTables detects a table-like region in decoded rows. numbers holds
// the sheet row number of each entry of rows; when it is nil, rows[i] is
// taken as sheet row i+1. Returns cell ranges (e.g., "A1:D10").
func DetectTables(rows []models.Row, numbers []int, params TableDetectionParams) []string {
	minRow, maxRow, minCol, maxCol := findDataBounds(rows, numbers)
	if minRow < 0 {
		return nil
	}

	totalCells := (maxRow - minRow + 1) * (maxCol - minCol + 1)
	nonEmptyCells := countNonEmptyCells(rows, minCol, maxCol)
	if nonEmptyCells < params.MinNonemptyCells {
		return nil
	}

	density := float64(nonEmptyCells) / float64(totalCells)
	if density < params.DensityMin {
		return nil
	}

	startCol, ok1 := IndexToColumnName(minCol)
	endCol, ok2 := IndexToColumnName(maxCol)
	if !ok1 || !ok2 {
		return nil
	}
	return []string{fmt.Sprintf("%s%d:%s%d", startCol, minRow, endCol, maxRow)}
}

// rowNumberAt returns the sheet row number of rows[i].
func rowNumberAt(numbers []int, i int) int {
	if i < len(numbers) {
		return numbers[i]
	}
	return i + 1
}

func isEmpty(v interface{}) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

// findDataBounds finds the bounding box of non-empty cells. Rows are
// 1-based sheet row numbers, columns zero-based indexes.
func findDataBounds(rows []models.Row, numbers []int) (minRow, maxRow, minCol, maxCol int) {
	minRow, maxRow = -1, -1
	minCol, maxCol = -1, -1

	for i, row := range rows {
		rowNum := rowNumberAt(numbers, i)
		for colIdx, cell := range row {
			if isEmpty(cell) {
				continue
			}
			if minRow < 0 || rowNum < minRow {
				minRow = rowNum
			}
			if maxRow < 0 || rowNum > maxRow {
				maxRow = rowNum
			}
			if minCol < 0 || colIdx < minCol {
				minCol = colIdx
			}
			if maxCol < 0 || colIdx > maxCol {
				maxCol = colIdx
			}
		}
	}

	return
}

// countNonEmptyCells counts non-empty cells within the column bounds.
func countNonEmptyCells(rows []models.Row, minCol, maxCol int) int {
	count := 0
	for _, row := range rows {
		for colIdx := minCol; colIdx <= maxCol && colIdx < len(row); colIdx++ {
			if !isEmpty(row[colIdx]) {
				count++
			}
		}
	}
	return count
}
