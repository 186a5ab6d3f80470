package dataprocessing

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Supported dataset file extensions.
const (
	ExtXLSX = ".xlsx"
	ExtCSV  = ".csv"
)

// Table is a header row plus raw data rows.
type Table struct {
	Header []string
	Rows   [][]string
}

// ReadWorkbook reads the first sheet of an xlsx file. Row 1 is the header.
// Cells are read unformatted so number formats cannot change values.
func ReadWorkbook(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return tableFromRows(rows), nil
}

// ReadCSVTable reads a comma-separated file with a header row. A UTF-8 BOM
// is ignored and rows may be ragged.
func ReadCSVTable(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	return tableFromRows(rows), nil
}

func tableFromRows(rows [][]string) *Table {
	if len(rows) == 0 {
		return &Table{}
	}
	return &Table{Header: rows[0], Rows: rows[1:]}
}

// ReadTable dispatches on the file extension.
func ReadTable(path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtXLSX:
		return ReadWorkbook(path)
	case ExtCSV:
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open csv: %w", err)
		}
		defer f.Close()
		return ReadCSVTable(f)
	default:
		return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}
}

// ReadDataset reads path and builds a dataset from it.
func ReadDataset(path string) (*Dataset, error) {
	t, err := ReadTable(path)
	if err != nil {
		return nil, err
	}
	if len(t.Header) == 0 {
		return nil, fmt.Errorf("no header row")
	}
	return NewDataset(path, t.Header, t.Rows), nil
}
