package parser

import (
	"io"
	"strings"

	"github.com/ukaji3/xlstream-go/pkg/xlstream/models"
)

// WorkbookPath is the conventional location of the workbook descriptor.
const WorkbookPath = "xl/workbook.xml"

// DefinedName is a workbook-level named formula or range.
type DefinedName struct {
	Name     string
	RefersTo string
}

// WorkbookInfo is the content of the workbook descriptor the decoder uses.
type WorkbookInfo struct {
	Sheets       []models.SheetInfo
	DefinedNames []DefinedName
}

// ReadWorkbook lists the sheets of the descriptor in document order,
// numbering them from 1, and collects its defined names.
func ReadWorkbook(src TokenSource) (*WorkbookInfo, error) {
	info := &WorkbookInfo{}

	var (
		name     *DefinedName
		refersTo strings.Builder
	)
	for {
		t, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, NewFormatError(WorkbookPath, "could not read workbook", err)
		}

		switch t.Kind {
		case StartElement:
			switch t.Name {
			case "sheet":
				sheetName, _ := t.Attr("name")
				id, _ := t.Attr("sheetId")
				info.Sheets = append(info.Sheets, models.SheetInfo{
					Name:  sheetName,
					ID:    id,
					Index: len(info.Sheets) + 1,
				})
			case "definedName":
				n, _ := t.Attr("name")
				name = &DefinedName{Name: n}
				refersTo.Reset()
			}
		case Text:
			if name != nil {
				refersTo.WriteString(t.Text)
			}
		case EndElement:
			if t.Name == "definedName" && name != nil {
				name.RefersTo = strings.TrimSpace(refersTo.String())
				info.DefinedNames = append(info.DefinedNames, *name)
				name = nil
			}
		}
	}

	return info, nil
}
