package xlstream

import (
	"path/filepath"

	"github.com/ukaji3/xlstream-go/pkg/xlstream/models"
	"github.com/ukaji3/xlstream-go/pkg/xlstream/parser"
)

// Extract decodes every sheet of the xlsx file at path.
func Extract(path string, opts Options) (*models.WorkbookData, error) {
	wb, err := Open(path, opts)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	return ExtractWorkbook(wb, filepath.Base(path))
}

// ExtractWorkbook decodes every sheet of an open workbook.
func ExtractWorkbook(wb *Workbook, bookName string) (*models.WorkbookData, error) {
	data := &models.WorkbookData{
		BookName: bookName,
		Sheets:   make([]models.SheetData, 0, len(wb.Sheets())),
	}
	for _, sheet := range wb.Sheets() {
		sd, err := ExtractSheet(sheet)
		if err != nil {
			return nil, err
		}
		data.Sheets = append(data.Sheets, *sd)
	}
	return data, nil
}

// ExtractSheet decodes one sheet. Table candidates and print areas are
// included unless the workbook was opened in light mode.
func ExtractSheet(sheet *Sheet) (*models.SheetData, error) {
	rows, numbers, err := sheet.ReadNumbered()
	if err != nil {
		return nil, err
	}

	if rows == nil {
		rows = []models.Row{}
	}
	sd := &models.SheetData{
		Name:       sheet.Name,
		Rows:       rows,
		RowNumbers: numbers,
	}

	count, known, err := sheet.RowCount()
	if err != nil {
		return nil, err
	}
	if known {
		sd.RowCount = &count
	}

	opts := sheet.workbook.opts
	if opts.ShouldIncludeTables() {
		sd.TableCandidates = parser.DetectTables(rows, numbers, opts.Tables)
	}
	if opts.ShouldIncludePrintAreas() {
		sd.PrintAreas = sheet.workbook.PrintAreas()[sheet.Name]
	}
	return sd, nil
}
