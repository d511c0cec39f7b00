package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/moonandjupiter/consign-tracker/internal/core"
	"github.com/xuri/excelize/v2"
)

// FileSource reads records from a local export: a JSON array, or a CSV or XLSX
// table with a header row.
type FileSource struct {
	path string
}

// NewFileSource returns a source reading path on every fetch.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Name() string { return "file " + s.path }

// Fetch reads and decodes the file. Failures are *core.DataFetchError.
func (s *FileSource) Fetch(ctx context.Context) ([]core.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, &core.DataFetchError{Source: "file", Err: err}
	}
	records, err := ReadFile(s.path)
	if err != nil {
		return nil, &core.DataFetchError{Source: "file", Err: err}
	}
	return records, nil
}

// ReadFile decodes a record file by extension.
func ReadFile(path string) ([]core.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return decodeRecords(f)
	case ".csv":
		return ReadCSV(f)
	case ".xlsx":
		return ReadXLSX(f)
	default:
		return nil, fmt.Errorf("unsupported file type %q", ext)
	}
}

// ReadCSV parses a CSV table whose first row names the record columns.
func ReadCSV(r io.Reader) ([]core.RawRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("CSV file has no header row")
	}
	return rowsToRecords(rows[0], rows[1:])
}

// ReadXLSX parses the first sheet of a workbook whose first row names the
// record columns.
func ReadXLSX(r io.Reader) ([]core.RawRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q has no header row", sheet)
	}
	return rowsToRecords(rows[0], rows[1:])
}
