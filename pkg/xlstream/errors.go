package xlstream

import (
	"errors"

	"github.com/ukaji3/xlstream-go/pkg/xlstream/parser"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidFormat indicates the input file is not a valid xlsx format.
// All decoding failures match it with errors.Is.
var ErrInvalidFormat = parser.ErrInvalidFormat

// FormatError describes a malformed or unreadable package part.
type FormatError = parser.FormatError
