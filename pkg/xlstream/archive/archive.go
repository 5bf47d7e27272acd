// Package archive opens named entries of a spreadsheet package.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// ErrEntryNotFound indicates the package has no entry with the requested name.
var ErrEntryNotFound = errors.New("entry not found")

// Archive opens package entries by their internal path.
type Archive interface {
	// Open returns a stream over the named entry. It returns an error
	// matching ErrEntryNotFound when the entry does not exist.
	Open(name string) (io.ReadSeekCloser, error)
}

// Zip is an Archive over a zip container.
type Zip struct {
	reader *zip.Reader
	closer io.Closer
}

// NewZip wraps an already opened zip reader. Closing the result does not
// close the underlying data.
func NewZip(r *zip.Reader) *Zip {
	return &Zip{reader: r}
}

// OpenZipReader reads a zip container of the given size from r.
func OpenZipReader(r io.ReaderAt, size int64) (*Zip, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, err
	}
	return NewZip(zr), nil
}

// OpenZipFile opens the zip container at path.
func OpenZipFile(path string) (*Zip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	zr, err := zip.NewReader(f, info.Size())
	if err != nil {
		f.Close()
		return nil, err
	}
	return &Zip{reader: zr, closer: f}, nil
}

// Open returns a rewindable stream over the named entry.
func (z *Zip) Open(name string) (io.ReadSeekCloser, error) {
	for _, f := range z.reader.File {
		if f.Name == name {
			e := &entry{file: f}
			if err := e.open(); err != nil {
				return nil, err
			}
			return e, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", name, ErrEntryNotFound)
}

// Close releases the file opened by OpenZipFile.
func (z *Zip) Close() error {
	if z.closer == nil {
		return nil
	}
	return z.closer.Close()
}

// entry is a zip entry stream. Compressed entries cannot seek, so
// rewinding reopens the entry; only Seek(0, io.SeekStart) is supported.
type entry struct {
	file *zip.File
	rc   io.ReadCloser
}

func (e *entry) open() error {
	rc, err := e.file.Open()
	if err != nil {
		return err
	}
	e.rc = rc
	return nil
}

func (e *entry) Read(p []byte) (int, error) {
	if e.rc == nil {
		return 0, fs.ErrClosed
	}
	return e.rc.Read(p)
}

func (e *entry) Seek(offset int64, whence int) (int64, error) {
	if offset != 0 || whence != io.SeekStart {
		return 0, fmt.Errorf("%s: only rewinding to the start is supported", e.file.Name)
	}
	if e.rc != nil {
		e.rc.Close()
		e.rc = nil
	}
	if err := e.open(); err != nil {
		return 0, err
	}
	return 0, nil
}

func (e *entry) Close() error {
	if e.rc == nil {
		return nil
	}
	err := e.rc.Close()
	e.rc = nil
	return err
}
