package xlstream

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/ukaji3/xlstream-go/pkg/xlstream/models"
)

const workbookXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"
          xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
  <sheets><sheet name="Sheet1" sheetId="1" r:id="rId1"/></sheets>
</workbook>`

const sharedStringsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" count="2" uniqueCount="2">
  <si><t>x</t></si><si><t>y</t></si>
</sst>`

const stylesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<styleSheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
  <numFmts count="1"><numFmt numFmtId="164" formatCode="yyyy/mm/dd"/></numFmts>
  <cellXfs count="3">
    <xf numFmtId="0"/>
    <xf numFmtId="164" applyNumberFormat="1"/>
    <xf numFmtId="14" applyNumberFormat="1"/>
  </cellXfs>
</styleSheet>`

func worksheetXML(dimension, rows string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">` +
		dimension + `<sheetData>` + rows + `</sheetData></worksheet>`
}

// buildWorkbook zips the given parts into an in-memory xlsx package.
func buildWorkbook(t *testing.T, parts map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range parts {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("Failed to create %s: %v", name, err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close zip: %v", err)
	}
	return buf.Bytes()
}

func openTestWorkbook(t *testing.T, parts map[string]string, opts Options) *Workbook {
	t.Helper()
	data := buildWorkbook(t, parts)
	wb, err := OpenReader(bytes.NewReader(data), int64(len(data)), opts)
	if err != nil {
		t.Fatalf("OpenReader failed: %v", err)
	}
	t.Cleanup(func() { wb.Close() })
	return wb
}

func TestEndToEnd(t *testing.T) {
	wb := openTestWorkbook(t, map[string]string{
		"xl/workbook.xml":      workbookXML,
		"xl/sharedStrings.xml": sharedStringsXML,
		"xl/worksheets/sheet1.xml": worksheetXML(`<dimension ref="A1:B1"/>`,
			`<row r="1"><c r="A1" t="s"><v>0</v></c><c r="B1"><v>3.5</v></c></row>`),
	}, DefaultOptions())

	sheets := wb.Sheets()
	if len(sheets) != 1 {
		t.Fatalf("Expected 1 sheet, got %d", len(sheets))
	}
	sheet := sheets[0]
	if sheet.Name != "Sheet1" || sheet.ID != "1" || sheet.Index != 1 {
		t.Errorf("Unexpected sheet info %+v", sheet.SheetInfo)
	}

	rows, err := sheet.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	expected := []models.Row{{"x", "3.5"}}
	if !reflect.DeepEqual(rows, expected) {
		t.Errorf("Expected %v, got %v", expected, rows)
	}

	count, known, err := sheet.RowCount()
	if err != nil || !known || count != 1 {
		t.Errorf("RowCount = %d, %v, %v, expected 1, true", count, known, err)
	}
}

func TestRowsRestart(t *testing.T) {
	wb := openTestWorkbook(t, map[string]string{
		"xl/workbook.xml":      workbookXML,
		"xl/sharedStrings.xml": sharedStringsXML,
		"xl/worksheets/sheet1.xml": worksheetXML("",
			`<row r="1"><c r="A1" t="s"><v>0</v></c></row>`+
				`<row r="2"><c r="A2" t="s"><v>1</v></c></row>`),
	}, DefaultOptions())
	sheet := wb.Sheets()[0]

	// Stop after the first row, then start over.
	for row, err := range sheet.Rows() {
		if err != nil {
			t.Fatalf("Rows failed: %v", err)
		}
		if row[0] != "x" {
			t.Errorf("Expected x, got %v", row[0])
		}
		break
	}

	if _, known, err := sheet.RowCount(); err != nil || known {
		t.Errorf("Expected unknown row count, got %v, %v", known, err)
	}

	for i := 0; i < 2; i++ {
		rows, err := sheet.ReadAll()
		if err != nil {
			t.Fatalf("ReadAll failed: %v", err)
		}
		expected := []models.Row{{"x"}, {"y"}}
		if !reflect.DeepEqual(rows, expected) {
			t.Errorf("Pass %d: expected %v, got %v", i, expected, rows)
		}
	}
}

func TestMissingStyles(t *testing.T) {
	wb := openTestWorkbook(t, map[string]string{
		"xl/workbook.xml":      workbookXML,
		"xl/sharedStrings.xml": sharedStringsXML,
		"xl/worksheets/sheet1.xml": worksheetXML("",
			`<row r="1"><c r="A1" t="b"><v>1</v></c><c r="B1" t="s"><v>1</v></c><c r="C1" s="1"><v>42</v></c></row>`),
	}, DefaultOptions())

	rows, err := wb.Sheets()[0].ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	expected := []models.Row{{true, "y", "42"}}
	if !reflect.DeepEqual(rows, expected) {
		t.Errorf("Expected %v, got %v", expected, rows)
	}
}

func TestMissingSharedStrings(t *testing.T) {
	wb := openTestWorkbook(t, map[string]string{
		"xl/workbook.xml": workbookXML,
		"xl/worksheets/sheet1.xml": worksheetXML("",
			`<row r="1"><c r="A1" t="s"><v>0</v></c></row>`),
	}, DefaultOptions())

	table, err := wb.SharedStrings()
	if err != nil || table.Len() != 0 {
		t.Fatalf("Expected empty table, got %v, %v", table, err)
	}

	_, err = wb.Sheets()[0].ReadAll()
	if !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("Expected ErrInvalidFormat, got %v", err)
	}
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Errorf("Expected *FormatError, got %T", err)
	}
}

func TestStylesAndOverrides(t *testing.T) {
	parts := map[string]string{
		"xl/workbook.xml": workbookXML,
		"xl/styles.xml":   stylesXML,
		"xl/worksheets/sheet1.xml": worksheetXML("",
			`<row r="1"><c r="A1" s="1"><v>43832</v></c><c r="B1" s="2"><v>43832</v></c><c r="C1"><v>7</v></c></row>`),
	}

	rows, err := openTestWorkbook(t, parts, DefaultOptions()).Sheets()[0].ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	day := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)
	if d, ok := rows[0][0].(time.Time); !ok || !d.Equal(day) {
		t.Errorf("Expected %v, got %v", day, rows[0][0])
	}
	if rows[0][1] != "43832" {
		t.Errorf("Expected unmapped format to stay a string, got %v", rows[0][1])
	}

	opts := DefaultOptions()
	opts.Formats = map[string]models.CellType{
		"mm-dd-yy": models.CellDate,
		"general":  models.CellFloat,
	}
	rows, err = openTestWorkbook(t, parts, opts).Sheets()[0].ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if d, ok := rows[0][1].(time.Time); !ok || !d.Equal(day) {
		t.Errorf("Expected override to yield %v, got %v", day, rows[0][1])
	}
	if rows[0][2] != 7.0 {
		t.Errorf("Expected 7.0, got %v (type: %T)", rows[0][2], rows[0][2])
	}
}

func TestSheetPartFollowsOrdinal(t *testing.T) {
	wb := openTestWorkbook(t, map[string]string{
		"xl/workbook.xml": `<workbook><sheets>
  <sheet name="First" sheetId="9"/>
  <sheet name="Second" sheetId="3"/>
  <sheet name="Ghost" sheetId="1"/>
</sheets></workbook>`,
		"xl/worksheets/sheet1.xml": worksheetXML("", `<row r="1"><c r="A1" t="inlineStr"><is><t>first</t></is></c></row>`),
		"xl/worksheets/sheet2.xml": worksheetXML("", `<row r="1"><c r="A1" t="inlineStr"><is><t>second</t></is></c></row>`),
		"xl/worksheets/sheet3.xml": "",
		"xl/worksheets/sheet9.xml": worksheetXML("", `<row r="1"><c r="A1" t="inlineStr"><is><t>wrong</t></is></c></row>`),
	}, DefaultOptions())

	for name, want := range map[string]string{"First": "first", "Second": "second"} {
		sheet := wb.Sheet(name)
		if sheet == nil {
			t.Fatalf("Sheet %s not found", name)
		}
		rows, err := sheet.ReadAll()
		if err != nil {
			t.Fatalf("ReadAll(%s) failed: %v", name, err)
		}
		if len(rows) != 1 || rows[0][0] != want {
			t.Errorf("Sheet %s: expected %s, got %v", name, want, rows)
		}
	}

	if wb.Sheet("Nope") != nil {
		t.Error("Expected nil for unknown sheet")
	}
}

func TestMissingSheetPart(t *testing.T) {
	wb := openTestWorkbook(t, map[string]string{
		"xl/workbook.xml": workbookXML,
	}, DefaultOptions())
	sheet := wb.Sheets()[0]

	rows, err := sheet.ReadAll()
	if err != nil || len(rows) != 0 {
		t.Errorf("Expected no rows, got %v, %v", rows, err)
	}
	if _, known, err := sheet.RowCount(); err != nil || known {
		t.Errorf("Expected unknown row count, got %v, %v", known, err)
	}
}

func TestInvalidWorkbook(t *testing.T) {
	tests := []struct {
		name  string
		parts map[string]string
	}{
		{"missing descriptor", map[string]string{"xl/styles.xml": stylesXML}},
		{"corrupt descriptor", map[string]string{"xl/workbook.xml": "<workbook><sheets>"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := buildWorkbook(t, tt.parts)
			_, err := OpenReader(bytes.NewReader(data), int64(len(data)), DefaultOptions())
			if !errors.Is(err, ErrInvalidFormat) {
				t.Errorf("Expected ErrInvalidFormat, got %v", err)
			}
		})
	}

	garbage := []byte("not a zip")
	if _, err := OpenReader(bytes.NewReader(garbage), int64(len(garbage)), DefaultOptions()); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("Expected ErrInvalidFormat for non-zip input, got %v", err)
	}
}

func TestCorruptStyles(t *testing.T) {
	wb := openTestWorkbook(t, map[string]string{
		"xl/workbook.xml":          workbookXML,
		"xl/styles.xml":            "<styleSheet><cellXfs>",
		"xl/worksheets/sheet1.xml": worksheetXML("", `<row r="1"><c r="A1"><v>1</v></c></row>`),
	}, DefaultOptions())

	_, err := wb.Sheets()[0].ReadAll()
	if !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("Expected ErrInvalidFormat, got %v", err)
	}
	if err := wb.Preload(); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("Expected Preload to fail, got %v", err)
	}
}

func TestTablesAreMemoized(t *testing.T) {
	wb := openTestWorkbook(t, map[string]string{
		"xl/workbook.xml":      workbookXML,
		"xl/styles.xml":        stylesXML,
		"xl/sharedStrings.xml": sharedStringsXML,
	}, DefaultOptions())

	if err := wb.Preload(); err != nil {
		t.Fatalf("Preload failed: %v", err)
	}
	s1, _ := wb.Styles()
	s2, _ := wb.Styles()
	if s1 != s2 {
		t.Error("Expected the same style table")
	}
	t1, _ := wb.SharedStrings()
	t2, _ := wb.SharedStrings()
	if t1 != t2 || t1.Len() != 2 {
		t.Error("Expected the same shared-string table with 2 entries")
	}
}

func TestPrintAreas(t *testing.T) {
	wb := openTestWorkbook(t, map[string]string{
		"xl/workbook.xml": `<workbook><sheets><sheet name="Sheet1" sheetId="1"/></sheets>
<definedNames><definedName name="_xlnm.Print_Area" localSheetId="0">Sheet1!$A$1:$B$2</definedName></definedNames>
</workbook>`,
	}, DefaultOptions())

	expected := map[string][]models.PrintArea{"Sheet1": {{R1: 1, C1: 1, R2: 2, C2: 2}}}
	if result := wb.PrintAreas(); !reflect.DeepEqual(result, expected) {
		t.Errorf("Expected %v, got %v", expected, result)
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.xlsx"), DefaultOptions())
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("Expected ErrFileNotFound, got %v", err)
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")
	data := buildWorkbook(t, map[string]string{
		"xl/workbook.xml":      workbookXML,
		"xl/sharedStrings.xml": sharedStringsXML,
		"xl/worksheets/sheet1.xml": worksheetXML(`<dimension ref="A1:A1"/>`,
			`<row r="1"><c r="A1" t="s"><v>1</v></c></row>`),
	})
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	wb, err := Open(path, DefaultOptions())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	rows, err := wb.Sheets()[0].ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if !reflect.DeepEqual(rows, []models.Row{{"y"}}) {
		t.Errorf("Expected [[y]], got %v", rows)
	}
	if err := wb.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}
