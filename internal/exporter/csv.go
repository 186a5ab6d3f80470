package exporter

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jszwec/csvutil"

	"mpidash/pkg/contracts/domain"
)

// ExportFileName is the download name of a filtered subset.
const ExportFileName = "filtered_projects.csv"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// EncodeProjects writes a header row and one row per record. The header is
// written even when records is empty.
func EncodeProjects(w io.Writer, records []domain.Project, opts WriteOptions) error {
	if opts.BOMPrefix {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)
	if err := enc.EncodeHeader(domain.Project{}); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i := range records {
		if err := enc.Encode(records[i]); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// DecodeProjects reads a file written by EncodeProjects. Empty cells decode
// to nil for nullable fields.
func DecodeProjects(r io.Reader) ([]domain.Project, error) {
	dec, err := csvutil.NewDecoder(newBOMSkipper(r))
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read headers: %w", err)
	}

	var out []domain.Project
	for {
		var p domain.Project
		if err := dec.Decode(&p); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to decode record %d: %w", len(out), err)
		}
		out = append(out, p)
	}
	return out, nil
}

// newBOMSkipper returns a csv.Reader over r that ignores a leading BOM.
func newBOMSkipper(r io.Reader) *csv.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return csv.NewReader(br)
}

// CSVWriter writes exports below a base directory.
type CSVWriter struct {
	baseDir string
	logger  *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(baseDir string, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{
		baseDir: baseDir,
		logger:  logger.With(slog.String("component", "csv_exporter")),
	}
}

// WriteProjects writes records to filePath, creating parent directories.
// It returns the resolved path.
func (w *CSVWriter) WriteProjects(filePath string, records []domain.Project, opts WriteOptions) (string, error) {
	fullPath := w.resolvePath(filePath)

	w.logger.Info("Writing CSV file",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	if err := EncodeProjects(file, records, opts); err != nil {
		file.Close()
		return "", err
	}
	return fullPath, file.Close()
}

// resolvePath keeps absolute paths and places relative ones under baseDir.
func (w *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) || w.baseDir == "" {
		return filePath
	}
	return filepath.Join(w.baseDir, filePath)
}
