package models

// SheetInfo identifies a sheet in the workbook descriptor.
type SheetInfo struct {
	// Name is the sheet tab name.
	Name string `json:"name"`
	// ID is the declared sheetId attribute.
	ID string `json:"id"`
	// Index is the 1-based position in the descriptor's sheet list.
	// It, not ID, selects the sheet part.
	Index int `json:"index"`
}

// SheetData represents decoded data for a single sheet.
type SheetData struct {
	// Name is the sheet tab name.
	Name string `json:"name"`
	// RowCount is the row count declared by the sheet dimension (nil if unknown).
	RowCount *int `json:"row_count,omitempty"`
	// Rows contains dense decoded rows in document order.
	Rows []Row `json:"rows"`
	// RowNumbers holds the 1-based sheet row number of each entry of Rows.
	RowNumbers []int `json:"row_numbers,omitempty"`
	// TableCandidates contains cell ranges likely representing tables.
	TableCandidates []string `json:"table_candidates,omitempty"`
	// PrintAreas contains user-defined print areas.
	PrintAreas []PrintArea `json:"print_areas,omitempty"`
}
