// Package output serializes decoded workbook data.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/ukaji3/xlstream-go/pkg/xlstream/models"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// ToJSON serializes a workbook.
func ToJSON(wb *models.WorkbookData, pretty bool) ([]byte, error) {
	return marshal(wb, pretty)
}

// SheetToJSON serializes a single sheet.
func SheetToJSON(sheet *models.SheetData, pretty bool) ([]byte, error) {
	return marshal(sheet, pretty)
}

// PrintAreaViewToJSON serializes a print area view.
func PrintAreaViewToJSON(view *models.PrintAreaView, pretty bool) ([]byte, error) {
	return marshal(view, pretty)
}

func marshal(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

// FormatValue renders a decoded cell value as CSV text.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		if x {
			return "TRUE"
		}
		return "FALSE"
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format(time.DateOnly)
		}
		return x.Format(time.DateTime)
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}

// WriteCSV writes rows as CSV. charset names the output encoding using
// WHATWG labels such as "shift_jis" or "windows-1252"; empty means UTF-8.
func WriteCSV(w io.Writer, rows []models.Row, charset string) error {
	if charset != "" {
		enc, err := htmlindex.Get(charset)
		if err != nil {
			return fmt.Errorf("unsupported encoding %q: %w", charset, err)
		}
		tw := transform.NewWriter(w, enc.NewEncoder())
		if err := writeRecords(tw, rows); err != nil {
			return err
		}
		return tw.Close()
	}
	return writeRecords(w, rows)
}

func writeRecords(w io.Writer, rows []models.Row) error {
	cw := csv.NewWriter(w)
	for _, row := range rows {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = FormatValue(v)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
