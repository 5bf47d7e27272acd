package parser

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ukaji3/xlstream-go/pkg/xlstream/models"
)

// CellLookup supplies the workbook tables a row stream consults per cell.
// Implementations may build the tables on first use.
type CellLookup interface {
	// CellType resolves a cell's t and s attributes.
	CellType(typeAttr, styleAttr string) (models.CellType, error)
	// SharedString returns entry i of the shared-string table.
	SharedString(i int) (string, error)
}

// Tables is a CellLookup over tables that are already built.
type Tables struct {
	Styles  *StyleTable
	Strings *SharedStrings
	Formats map[string]models.CellType
}

func (t Tables) CellType(typeAttr, styleAttr string) (models.CellType, error) {
	styles := t.Styles
	if styles == nil {
		styles = EmptyStyleTable()
	}
	return styles.Resolve(typeAttr, styleAttr, t.Formats), nil
}

func (t Tables) SharedString(i int) (string, error) {
	if t.Strings == nil {
		return NewSharedStrings().Get(i)
	}
	return t.Strings.Get(i)
}

// SheetPath returns the part name of the sheet at the given 1-based ordinal.
func SheetPath(ordinal int) string {
	return fmt.Sprintf("xl/worksheets/sheet%d.xml", ordinal)
}

// RowReader turns the token stream of a sheet part into dense rows.
type RowReader struct {
	part   string
	src    TokenSource
	lookup CellLookup
	err    error

	cells    map[string]interface{} // column letters -> value, current row only
	rowNum   int                    // sheet row number of the current row
	inRow    bool
	inCell   bool
	column   string
	cellType models.CellType
	valueEl  int // depth of open v/t elements inside the current cell
}

// NewRowReader creates a RowReader over src. part names the sheet part in
// error messages.
func NewRowReader(part string, src TokenSource, lookup CellLookup) *RowReader {
	return &RowReader{
		part:   part,
		src:    src,
		lookup: lookup,
	}
}

// RowNumber returns the 1-based sheet row number of the row last returned
// by Next, taken from the row's r attribute. A row without a usable r
// attribute follows the previous row.
func (r *RowReader) RowNumber() int {
	return r.rowNum
}

// Next returns the next row, or io.EOF once the sheet is exhausted.
// After any error, Next keeps returning that error.
func (r *RowReader) Next() (models.Row, error) {
	if r.err != nil {
		return nil, r.err
	}
	row, err := r.next()
	if err != nil {
		r.err = err
		return nil, err
	}
	return row, nil
}

func (r *RowReader) next() (models.Row, error) {
	for {
		t, err := r.src.Next()
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			return nil, NewFormatError(r.part, "could not read sheet", err)
		}

		switch t.Kind {
		case StartElement:
			if err := r.start(t); err != nil {
				return nil, err
			}
		case EndElement:
			switch t.Name {
			case "row":
				if r.inRow {
					r.inRow = false
					return r.dense(), nil
				}
			case "c":
				r.inCell = false
				r.valueEl = 0
			case "v", "t":
				if r.valueEl > 0 {
					r.valueEl--
				}
			}
		case Text:
			if !r.inCell || r.valueEl == 0 {
				continue
			}
			value, err := parseValue(r.cellType, t.Text, r.lookup)
			if err != nil {
				var fe *FormatError
				if errors.As(err, &fe) {
					return nil, err
				}
				return nil, NewFormatError(r.part, "invalid value in column "+r.column, err)
			}
			r.cells[r.column] = value
		}
	}
}

func (r *RowReader) start(t Token) error {
	switch t.Name {
	case "row":
		r.cells = make(map[string]interface{})
		r.inRow = true
		if ref, ok := t.Attr("r"); ok {
			if n, err := strconv.Atoi(strings.TrimSpace(ref)); err == nil && n > 0 {
				r.rowNum = n
				break
			}
		}
		r.rowNum++
	case "c":
		if !r.inRow {
			return nil
		}
		ref, ok := t.Attr("r")
		if !ok {
			return NewFormatError(r.part, "cell without reference attribute", nil)
		}
		column := strings.TrimRight(ref, "0123456789")
		if _, ok := ColumnNameToIndex(column); !ok {
			return NewFormatError(r.part, fmt.Sprintf("invalid cell reference %q", ref), nil)
		}
		typeAttr, _ := t.Attr("t")
		styleAttr, _ := t.Attr("s")
		ct, err := r.lookup.CellType(typeAttr, styleAttr)
		if err != nil {
			return err
		}
		r.column = column
		r.cellType = ct
		r.inCell = true
		r.valueEl = 0
	case "v", "t":
		if r.inCell {
			r.valueEl++
		}
	}
	return nil
}

// dense materializes the current sparse row into columns 0..max.
func (r *RowReader) dense() models.Row {
	last := -1
	for column := range r.cells {
		if i, _ := ColumnNameToIndex(column); i > last {
			last = i
		}
	}

	row := make(models.Row, last+1)
	names := ColumnNames()
	for i := 0; i <= last; i++ {
		row[i] = r.cells[names[i]]
	}
	return row
}

// ReadRowCount scans a sheet part for its dimension declaration and returns
// the last row number it names. The count is unknown (false) when the sheet
// data starts before any dimension is declared.
func ReadRowCount(part string, src TokenSource) (int, bool, error) {
	for {
		t, err := src.Next()
		if err == io.EOF {
			return 0, false, nil
		}
		if err != nil {
			return 0, false, NewFormatError(part, "could not read sheet dimension", err)
		}
		if t.Kind != StartElement {
			continue
		}
		switch t.Name {
		case "dimension":
			if ref, ok := t.Attr("ref"); ok {
				return rowFromRef(ref), true, nil
			}
		case "sheetData":
			return 0, false, nil
		}
	}
}
