// Package main provides the CLI entry point for xlstream-go.
package main

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/ukaji3/xlstream-go/pkg/xlstream"
	"github.com/ukaji3/xlstream-go/pkg/xlstream/models"
	"github.com/ukaji3/xlstream-go/pkg/xlstream/output"
	"github.com/ukaji3/xlstream-go/pkg/xlstream/parser"
)

var (
	outputPath    string
	pretty        bool
	mode          string
	format        string
	sheetName     string
	formatsPath   string
	encoding      string
	sheetsDir     string
	printAreasDir string
	verbose       bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "xlstream [input.xlsx | -]",
		Short: "Decode Excel workbooks into typed rows",
		Long: `xlstream-go streams the sheets of an xlsx workbook and writes
their rows as JSON or CSV. Use "-" to read the workbook from stdin.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         run,
	}

	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	rootCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	rootCmd.Flags().StringVar(&mode, "mode", "standard", "Extraction mode: light, standard")
	rootCmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json, csv")
	rootCmd.Flags().StringVarP(&sheetName, "sheet", "s", "", "Only decode the named sheet (required for csv with several sheets)")
	rootCmd.Flags().StringVar(&formatsPath, "formats", "", "YAML file mapping number format codes to cell types")
	rootCmd.Flags().StringVar(&encoding, "encoding", "", "CSV output encoding, e.g. shift_jis (default: utf-8)")
	rootCmd.Flags().StringVar(&sheetsDir, "sheets-dir", "", "Directory for per-sheet output files")
	rootCmd.Flags().StringVar(&printAreasDir, "print-areas-dir", "", "Directory for per-print-area output files")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log progress to stderr")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	// Parse mode
	var extractMode xlstream.Mode
	switch mode {
	case "light":
		extractMode = xlstream.ModeLight
	case "standard":
		extractMode = xlstream.ModeStandard
	default:
		return fmt.Errorf("invalid mode: %s (must be light or standard)", mode)
	}
	if format != "json" && format != "csv" {
		return fmt.Errorf("invalid format: %s (must be json or csv)", format)
	}

	opts := xlstream.DefaultOptions()
	opts.Mode = extractMode
	if formatsPath != "" {
		formats, err := xlstream.LoadFormats(formatsPath)
		if err != nil {
			return err
		}
		for code, ct := range formats {
			if !ct.Known() {
				logger.Warn("custom cell type, values are kept as raw text", "format", code, "type", string(ct))
			}
		}
		opts.Formats = formats
		logger.Debug("loaded format overrides", "path", formatsPath, "count", len(formats))
	}

	wb, bookName, err := openWorkbook(inputPath, opts)
	if err != nil {
		return err
	}
	defer wb.Close()
	logger.Debug("opened workbook", "book", bookName, "sheets", len(wb.Sheets()))

	data, err := extract(wb, bookName, logger)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	// Write output
	if (sheetsDir == "" && printAreasDir == "") || outputPath != "" {
		out, err := render(data)
		if err != nil {
			return err
		}
		if outputPath != "" {
			if err := os.WriteFile(outputPath, out, 0644); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		} else {
			os.Stdout.Write(out)
		}
	}

	// Write per-sheet files
	if sheetsDir != "" {
		if err := writeSheetFiles(data, sheetsDir); err != nil {
			return fmt.Errorf("failed to write sheet files: %w", err)
		}
	}

	// Write per-print-area files
	if printAreasDir != "" {
		if err := writePrintAreaFiles(data, printAreasDir); err != nil {
			return fmt.Errorf("failed to write print area files: %w", err)
		}
	}

	return nil
}

func openWorkbook(inputPath string, opts xlstream.Options) (*xlstream.Workbook, string, error) {
	if inputPath == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read stdin: %w", err)
		}
		wb, err := xlstream.OpenReader(bytes.NewReader(data), int64(len(data)), opts)
		return wb, "stdin", err
	}

	wb, err := xlstream.Open(inputPath, opts)
	return wb, filepath.Base(inputPath), err
}

func extract(wb *xlstream.Workbook, bookName string, logger *slog.Logger) (*models.WorkbookData, error) {
	if sheetName == "" {
		return xlstream.ExtractWorkbook(wb, bookName)
	}

	sheet := wb.Sheet(sheetName)
	if sheet == nil {
		return nil, fmt.Errorf("sheet not found: %s", sheetName)
	}
	sd, err := xlstream.ExtractSheet(sheet)
	if err != nil {
		return nil, err
	}
	logger.Debug("decoded sheet", "sheet", sheetName, "rows", len(sd.Rows))

	return &models.WorkbookData{
		BookName: bookName,
		Sheets:   []models.SheetData{*sd},
	}, nil
}

func render(data *models.WorkbookData) ([]byte, error) {
	if format == "json" {
		out, err := output.ToJSON(data, pretty)
		if err != nil {
			return nil, fmt.Errorf("serialization failed: %w", err)
		}
		return append(out, '\n'), nil
	}

	if len(data.Sheets) != 1 {
		return nil, fmt.Errorf("csv output needs exactly one sheet, workbook has %d (use --sheet)", len(data.Sheets))
	}
	var buf bytes.Buffer
	if err := output.WriteCSV(&buf, data.Sheets[0].Rows, encoding); err != nil {
		return nil, fmt.Errorf("serialization failed: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheetFiles(wb *models.WorkbookData, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	for _, sheet := range wb.Sheets {
		var (
			data []byte
			ext  string
			err  error
		)
		if format == "csv" {
			var buf bytes.Buffer
			err = output.WriteCSV(&buf, sheet.Rows, encoding)
			data, ext = buf.Bytes(), ".csv"
		} else {
			data, err = output.SheetToJSON(&sheet, pretty)
			ext = ".json"
		}
		if err != nil {
			return err
		}

		filename := filepath.Join(dir, sheet.Name+ext)
		if err := os.WriteFile(filename, data, 0644); err != nil {
			return err
		}
	}

	return nil
}

func writePrintAreaFiles(wb *models.WorkbookData, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	for _, sheet := range wb.Sheets {
		for i, area := range sheet.PrintAreas {
			rows, numbers := parser.ClipRows(sheet.Rows, sheet.RowNumbers, area)
			view := models.PrintAreaView{
				BookName:   wb.BookName,
				SheetName:  sheet.Name,
				Area:       area,
				Rows:       rows,
				RowNumbers: numbers,
			}
			jsonData, err := output.PrintAreaViewToJSON(&view, pretty)
			if err != nil {
				return err
			}

			filename := filepath.Join(dir, fmt.Sprintf("%s_area%d.json", sheet.Name, i+1))
			if err := os.WriteFile(filename, jsonData, 0644); err != nil {
				return err
			}
		}
	}

	return nil
}
