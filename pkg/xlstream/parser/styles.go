package parser

import (
	"io"
	"strconv"
	"strings"

	"github.com/ukaji3/xlstream-go/pkg/xlstream/models"
)

// StylesPath is the conventional location of the styles part.
const StylesPath = "xl/styles.xml"

// builtinNumFormats holds the standard number formats that a workbook may
// reference without declaring them.
var builtinNumFormats = map[int]string{
	0:  "General",
	1:  "0",
	2:  "0.00",
	3:  "#,##0",
	4:  "#,##0.00",
	9:  "0%",
	10: "0.00%",
	11: "0.00E+00",
	12: "# ?/?",
	13: "# ??/??",
	14: "mm-dd-yy",
	15: "d-mmm-yy",
	16: "d-mmm",
	17: "mmm-yy",
	18: "h:mm AM/PM",
	19: "h:mm:ss AM/PM",
	20: "h:mm",
	21: "h:mm:ss",
	22: "m/d/yy h:mm",
	37: "#,##0 ;(#,##0)",
	38: "#,##0 ;[Red](#,##0)",
	39: "#,##0.00;(#,##0.00)",
	40: "#,##0.00;[Red](#,##0.00)",
	45: "mm:ss",
	46: "[h]:mm:ss",
	47: "mmss.0",
	48: "##0.0E+0",
	49: "@",
}

// recognizedFormats maps normalized format codes to the cell type they imply
// when the caller supplies no override.
var recognizedFormats = map[string]models.CellType{
	"yyyy/mm/dd": models.CellDate,
}

// BuiltinFormatCode returns the standard format code for id.
func BuiltinFormatCode(id int) (string, bool) {
	code, ok := builtinNumFormats[id]
	return code, ok
}

// NormalizeFormatCode lowercases code and removes its first backslash.
// Later backslashes are kept.
func NormalizeFormatCode(code string) string {
	return strings.Replace(strings.ToLower(code), `\`, "", 1)
}

// StyleTable maps cell style indices to number formats.
type StyleTable struct {
	numFmts map[int]string
	// cellXfs only holds xf entries that declare numFmtId, so positions
	// drift from style indices after the first entry without one.
	cellXfs []int
}

// EmptyStyleTable returns the table used when a workbook has no styles part.
func EmptyStyleTable() *StyleTable {
	return &StyleTable{numFmts: make(map[int]string)}
}

// ReadStyles builds a StyleTable from the styles part.
func ReadStyles(src TokenSource) (*StyleTable, error) {
	result := EmptyStyleTable()

	isNumFmts := false
	isCellXfs := false
	for {
		t, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, NewFormatError(StylesPath, "could not read styles", err)
		}

		switch t.Kind {
		case StartElement:
			switch t.Name {
			case "numFmts":
				isNumFmts = true
			case "cellXfs":
				isCellXfs = true
			case "numFmt":
				if !isNumFmts {
					continue
				}
				idAttr, hasID := t.Attr("numFmtId")
				code, hasCode := t.Attr("formatCode")
				if hasID && hasCode {
					result.numFmts[leadingInt(idAttr)] = code
				}
			case "xf":
				if !isCellXfs {
					continue
				}
				if idAttr, ok := t.Attr("numFmtId"); ok {
					result.cellXfs = append(result.cellXfs, leadingInt(idAttr))
				}
			}
		case EndElement:
			switch t.Name {
			case "numFmts":
				isNumFmts = false
			case "cellXfs":
				isCellXfs = false
			}
		}
	}

	return result, nil
}

// NumFmtID returns the number format id stored at position styleIndex,
// or 0 (General) when the position is out of range.
func (s *StyleTable) NumFmtID(styleIndex int) int {
	if styleIndex < 0 || styleIndex >= len(s.cellXfs) {
		return 0
	}
	return s.cellXfs[styleIndex]
}

// FormatCode returns the format code for a number format id, preferring
// custom declarations over the standard table.
func (s *StyleTable) FormatCode(numFmtID int) (string, bool) {
	if code, ok := s.numFmts[numFmtID]; ok {
		return code, true
	}
	return BuiltinFormatCode(numFmtID)
}

// Resolve infers the cell type from a cell's t and s attributes.
// overrides maps normalized format codes to caller-defined types and takes
// precedence over the recognized formats. Resolve never fails: anything it
// cannot classify is a string.
func (s *StyleTable) Resolve(typeAttr, styleAttr string, overrides map[string]models.CellType) models.CellType {
	switch typeAttr {
	case "s":
		return models.CellShared
	case "b":
		return models.CellBoolean
	}

	code, ok := s.FormatCode(s.NumFmtID(leadingInt(styleAttr)))
	if !ok {
		return models.CellString
	}

	format := NormalizeFormatCode(code)
	if ct, ok := overrides[format]; ok {
		return ct
	}
	if ct, ok := recognizedFormats[format]; ok {
		return ct
	}
	return models.CellString
}

// leadingInt parses the leading decimal digits of s, yielding 0 when there
// are none. Attribute values such as style indices are read this leniently.
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
