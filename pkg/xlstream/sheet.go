package xlstream

import (
	"fmt"
	"io"
	"iter"

	"github.com/ukaji3/xlstream-go/pkg/xlstream/models"
	"github.com/ukaji3/xlstream-go/pkg/xlstream/parser"
)

// Sheet is one worksheet of a Workbook.
type Sheet struct {
	models.SheetInfo

	workbook *Workbook
	file     io.ReadSeekCloser
	opened   bool

	rowCount      int
	rowCountKnown bool
	rowCountRead  bool
}

// Workbook returns the workbook the sheet belongs to.
func (s *Sheet) Workbook() *Workbook {
	return s.workbook
}

// Path returns the part name of the sheet, derived from its ordinal.
func (s *Sheet) Path() string {
	return parser.SheetPath(s.Index)
}

// rewind returns the sheet's stream positioned at its start, opening it on
// first use. It returns nil when the package has no part for the sheet.
func (s *Sheet) rewind() (io.Reader, error) {
	if !s.opened {
		rc, found, err := s.workbook.openPart(s.Path())
		if err != nil {
			return nil, parser.NewFormatError(s.Path(), fmt.Sprintf("could not open sheet %d", s.Index), err)
		}
		s.opened = true
		if !found {
			return nil, nil
		}
		s.file = rc
		return s.file, nil
	}

	if s.file == nil {
		return nil, nil
	}
	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return nil, parser.NewFormatError(s.Path(), fmt.Sprintf("could not rewind sheet %d", s.Index), err)
	}
	return s.file, nil
}

// RowReader starts a fresh pass over the sheet. Readers share the sheet's
// stream, so a new reader invalidates earlier ones.
func (s *Sheet) RowReader() (*parser.RowReader, error) {
	r, err := s.rewind()
	if err != nil {
		return nil, err
	}
	var src parser.TokenSource = parser.NewSliceTokenSource()
	if r != nil {
		src = parser.NewTokenSource(r)
	}
	return parser.NewRowReader(s.Path(), src, s.workbook), nil
}

// Rows returns the sheet's rows as a lazy sequence. Every iteration starts
// a new pass from the beginning of the sheet. Iteration stops after the
// first error.
func (s *Sheet) Rows() iter.Seq2[models.Row, error] {
	return func(yield func(models.Row, error) bool) {
		rr, err := s.RowReader()
		if err != nil {
			yield(nil, err)
			return
		}
		for {
			row, err := rr.Next()
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(row, nil) {
				return
			}
		}
	}
}

// ReadAll decodes every row of the sheet.
func (s *Sheet) ReadAll() ([]models.Row, error) {
	rows, _, err := s.ReadNumbered()
	return rows, err
}

// ReadNumbered decodes every row of the sheet together with the sheet row
// number of each. Rows the sheet leaves out are not filled in, so numbers
// may skip.
func (s *Sheet) ReadNumbered() ([]models.Row, []int, error) {
	rr, err := s.RowReader()
	if err != nil {
		return nil, nil, err
	}

	var (
		rows    []models.Row
		numbers []int
	)
	for {
		row, err := rr.Next()
		if err == io.EOF {
			return rows, numbers, nil
		}
		if err != nil {
			return nil, nil, err
		}
		rows = append(rows, row)
		numbers = append(numbers, rr.RowNumber())
	}
}

// RowCount returns the row count declared by the sheet's dimension.
// known is false when the sheet has no dimension before its data.
func (s *Sheet) RowCount() (count int, known bool, err error) {
	if s.rowCountRead {
		return s.rowCount, s.rowCountKnown, nil
	}

	r, err := s.rewind()
	if err != nil {
		return 0, false, err
	}
	if r != nil {
		count, known, err = parser.ReadRowCount(s.Path(), parser.NewTokenSource(r))
		if err != nil {
			return 0, false, err
		}
	}

	s.rowCount, s.rowCountKnown, s.rowCountRead = count, known, true
	return count, known, nil
}

func (s *Sheet) close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	s.opened = false
	return err
}
