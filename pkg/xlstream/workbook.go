package xlstream

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ukaji3/xlstream-go/pkg/xlstream/archive"
	"github.com/ukaji3/xlstream-go/pkg/xlstream/models"
	"github.com/ukaji3/xlstream-go/pkg/xlstream/parser"
)

// Workbook lists the sheets of a package and owns the style and
// shared-string tables shared by them. The tables are built on first use
// and never change afterwards. A Workbook is not safe for concurrent use;
// call Preload before handing sheets to several goroutines.
type Workbook struct {
	archive archive.Archive
	closer  io.Closer
	opts    Options

	info    *parser.WorkbookInfo
	sheets  []*Sheet
	styles  *parser.StyleTable
	strings *parser.SharedStrings
}

// Open opens the xlsx file at path.
func Open(path string, opts Options) (*Workbook, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}

	z, err := archive.OpenZipFile(path)
	if err != nil {
		return nil, parser.NewFormatError("", "could not open package", err)
	}
	wb, err := New(z, opts)
	if err != nil {
		z.Close()
		return nil, err
	}
	wb.closer = z
	return wb, nil
}

// OpenReader reads an xlsx package of the given size from r.
func OpenReader(r io.ReaderAt, size int64, opts Options) (*Workbook, error) {
	z, err := archive.OpenZipReader(r, size)
	if err != nil {
		return nil, parser.NewFormatError("", "could not open package", err)
	}
	return New(z, opts)
}

// New reads the workbook descriptor through a. The archive is borrowed:
// Close does not close it.
func New(a archive.Archive, opts Options) (*Workbook, error) {
	wb := &Workbook{
		archive: a,
		opts:    opts,
	}

	rc, found, err := wb.openPart(parser.WorkbookPath)
	if err == nil && !found {
		err = archive.ErrEntryNotFound
	}
	if err != nil {
		return nil, parser.NewFormatError(parser.WorkbookPath, "could not open workbook descriptor", err)
	}
	defer rc.Close()

	info, err := parser.ReadWorkbook(parser.NewTokenSource(rc))
	if err != nil {
		return nil, err
	}
	wb.info = info

	for _, si := range info.Sheets {
		wb.sheets = append(wb.sheets, &Sheet{SheetInfo: si, workbook: wb})
	}
	return wb, nil
}

// openPart opens a package entry. A missing entry is reported with
// found=false and no error; other failures are returned unwrapped.
func (wb *Workbook) openPart(name string) (rc io.ReadSeekCloser, found bool, err error) {
	rc, err = wb.archive.Open(name)
	if errors.Is(err, archive.ErrEntryNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return rc, true, nil
}

// Sheets returns the sheets in descriptor order.
func (wb *Workbook) Sheets() []*Sheet {
	return wb.sheets
}

// Sheet returns the sheet with the given name, or nil.
func (wb *Workbook) Sheet(name string) *Sheet {
	for _, s := range wb.sheets {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Styles returns the style table, reading the styles part on first call.
// A workbook without a styles part gets an empty table.
func (wb *Workbook) Styles() (*parser.StyleTable, error) {
	if wb.styles != nil {
		return wb.styles, nil
	}

	rc, found, err := wb.openPart(parser.StylesPath)
	if err != nil {
		return nil, parser.NewFormatError(parser.StylesPath, "could not open styles", err)
	}
	if !found {
		wb.styles = parser.EmptyStyleTable()
		return wb.styles, nil
	}
	defer rc.Close()

	styles, err := parser.ReadStyles(parser.NewTokenSource(rc))
	if err != nil {
		return nil, err
	}
	wb.styles = styles
	return styles, nil
}

// SharedStrings returns the shared-string table, reading it on first call.
// A workbook without a shared-strings part gets an empty table.
func (wb *Workbook) SharedStrings() (*parser.SharedStrings, error) {
	if wb.strings != nil {
		return wb.strings, nil
	}

	rc, found, err := wb.openPart(parser.SharedStringsPath)
	if err != nil {
		return nil, parser.NewFormatError(parser.SharedStringsPath, "could not open shared strings", err)
	}
	if !found {
		wb.strings = parser.NewSharedStrings()
		return wb.strings, nil
	}
	defer rc.Close()

	table, err := parser.ReadSharedStrings(parser.NewTokenSource(rc))
	if err != nil {
		return nil, err
	}
	wb.strings = table
	return table, nil
}

// Preload builds the style and shared-string tables.
func (wb *Workbook) Preload() error {
	if _, err := wb.Styles(); err != nil {
		return err
	}
	_, err := wb.SharedStrings()
	return err
}

// CellType resolves a cell's t and s attributes against the style table
// and the configured format overrides.
func (wb *Workbook) CellType(typeAttr, styleAttr string) (models.CellType, error) {
	styles, err := wb.Styles()
	if err != nil {
		return "", err
	}
	return styles.Resolve(typeAttr, styleAttr, wb.opts.Formats), nil
}

// SharedString returns entry i of the shared-string table.
func (wb *Workbook) SharedString(i int) (string, error) {
	table, err := wb.SharedStrings()
	if err != nil {
		return "", err
	}
	return table.Get(i)
}

// PrintAreas returns the print areas declared in the workbook, keyed by
// sheet name.
func (wb *Workbook) PrintAreas() map[string][]models.PrintArea {
	return parser.ExtractPrintAreas(wb.info.DefinedNames)
}

// Close releases the sheet handles and, for workbooks created by Open,
// the underlying file.
func (wb *Workbook) Close() error {
	var errs []error
	for _, s := range wb.sheets {
		if err := s.close(); err != nil {
			errs = append(errs, err)
		}
	}
	if wb.closer != nil {
		if err := wb.closer.Close(); err != nil {
			errs = append(errs, err)
		}
		wb.closer = nil
	}
	return errors.Join(errs...)
}
