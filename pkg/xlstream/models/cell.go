// Package models defines data structures for streaming spreadsheet decoding.
package models

import "fmt"

// CellType is the semantic type inferred for a cell from its type attribute
// and number format.
type CellType string

const (
	// CellShared marks a cell whose payload is an index into the shared-string table.
	CellShared CellType = "shared"
	// CellBoolean marks a cell holding 0 or 1.
	CellBoolean CellType = "boolean"
	// CellDate marks a serial day count rendered as a calendar date.
	CellDate CellType = "date"
	// CellTime marks a fractional day rendered as a time of day.
	CellTime CellType = "time"
	// CellDateTime marks a serial day count with a time component.
	CellDateTime CellType = "datetime"
	// CellFloat marks a plain number.
	CellFloat CellType = "float"
	// CellString marks text kept as-is. It is the fallback for every
	// format code that is not explicitly mapped.
	CellString CellType = "string"
)

// KnownCellTypes lists the cell types the decoder coerces itself.
var KnownCellTypes = []CellType{
	CellShared, CellBoolean, CellDate, CellTime, CellDateTime, CellFloat, CellString,
}

// Known reports whether c is one of KnownCellTypes. Values of other types
// are passed through as raw text.
func (c CellType) Known() bool {
	for _, k := range KnownCellTypes {
		if c == k {
			return true
		}
	}
	return false
}

// Time is a time of day decoded from a fractional day.
type Time struct {
	Hours   int
	Minutes int
	Seconds int
}

func (t Time) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hours, t.Minutes, t.Seconds)
}

// MarshalText encodes the time as HH:MM:SS.
func (t Time) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Row is a dense row of decoded values indexed by zero-based column.
// Columns without a cell hold nil.
type Row []any
