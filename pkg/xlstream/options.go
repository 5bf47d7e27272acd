// Package xlstream decodes xlsx workbooks into typed rows without loading
// whole sheets into memory.
package xlstream

import (
	"fmt"
	"os"

	"github.com/ukaji3/xlstream-go/pkg/xlstream/models"
	"github.com/ukaji3/xlstream-go/pkg/xlstream/parser"
	"gopkg.in/yaml.v3"
)

// Mode represents the extraction mode used by Extract.
type Mode string

const (
	// ModeLight decodes rows only.
	ModeLight Mode = "light"
	// ModeStandard decodes rows, table candidates and print areas.
	ModeStandard Mode = "standard"
)

// Options configures decoding behavior.
type Options struct {
	// Mode specifies the extraction mode for Extract.
	Mode Mode
	// Formats maps normalized format codes (see parser.NormalizeFormatCode)
	// to cell types. Entries take precedence over the built-in mapping.
	// Values outside the known cell types are returned as raw text.
	Formats map[string]models.CellType
	// Tables configures table candidate detection.
	Tables parser.TableDetectionParams
}

// DefaultOptions returns default decoding options.
func DefaultOptions() Options {
	return Options{
		Mode:   ModeStandard,
		Tables: parser.DefaultTableParams(),
	}
}

// ShouldIncludeTables returns whether Extract detects table candidates.
func (o Options) ShouldIncludeTables() bool {
	return o.Mode != ModeLight
}

// ShouldIncludePrintAreas returns whether Extract reports print areas.
func (o Options) ShouldIncludePrintAreas() bool {
	return o.Mode != ModeLight
}

// LoadFormats reads format overrides from a YAML mapping of format code to
// cell type, for example:
//
//	"yyyy-mm-dd": date
//	"h:mm": time
//	"0.00": float
//
// Keys are normalized the same way cell format codes are.
func LoadFormats(path string) (map[string]models.CellType, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse formats %s: %w", path, err)
	}

	formats := make(map[string]models.CellType, len(raw))
	for code, typ := range raw {
		if typ == "" {
			return nil, fmt.Errorf("parse formats %s: empty cell type for %q", path, code)
		}
		formats[parser.NormalizeFormatCode(code)] = models.CellType(typ)
	}
	return formats, nil
}
