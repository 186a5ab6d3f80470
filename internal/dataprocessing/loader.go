package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// DefaultPreferredFiles are tried, in order, before any other workbook.
var DefaultPreferredFiles = []string{"mpi_2024_scored.xlsx", "sample_mpi.xlsx"}

// NoCandidatesMessage is reported when the data directory offers nothing to read.
const NoCandidatesMessage = "No candidates found."

// LoadError collects why each candidate file could not be used.
type LoadError struct {
	Attempts []string
}

func (e *LoadError) Error() string {
	if len(e.Attempts) == 0 {
		return NoCandidatesMessage
	}
	return strings.Join(e.Attempts, "; ")
}

// Loader finds and reads the dataset file.
type Loader struct {
	dir       string
	file      string
	preferred []string
	logger    *slog.Logger
}

// NewLoader creates a loader for dir. file is an explicit override, relative
// to dir unless absolute; preferred defaults to DefaultPreferredFiles.
func NewLoader(dir, file string, preferred []string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	if len(preferred) == 0 {
		preferred = DefaultPreferredFiles
	}
	return &Loader{
		dir:       dir,
		file:      file,
		preferred: preferred,
		logger:    logger.With(slog.String("component", "dataset_loader")),
	}
}

func (l *Loader) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(l.dir, name)
}

// Candidates lists the files Load will try, in order: the override (when it
// names an xlsx or csv file), the preferred names, then every other workbook
// in the directory by name. Office lock files (~$*) are skipped.
func (l *Loader) Candidates() []string {
	var out []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	if l.file != "" {
		ext := strings.ToLower(filepath.Ext(l.file))
		if ext == ExtXLSX || ext == ExtCSV {
			add(l.resolve(l.file))
		}
	}
	for _, name := range l.preferred {
		add(l.resolve(name))
	}

	matches, err := filepath.Glob(filepath.Join(l.dir, "*"+ExtXLSX))
	if err != nil {
		l.logger.Warn("Failed to scan data directory",
			slog.String("dir", l.dir),
			slog.String("error", err.Error()))
		return out
	}
	sort.Strings(matches)
	for _, m := range matches {
		if strings.HasPrefix(filepath.Base(m), "~$") {
			continue
		}
		add(m)
	}
	return out
}

// Load returns the first candidate that reads successfully. When none does,
// the error is a *LoadError describing every attempt.
func (l *Loader) Load(ctx context.Context) (*Dataset, error) {
	start := time.Now()
	loadErr := &LoadError{}
	for _, path := range l.Candidates() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, err := os.Stat(path); err != nil {
			loadErr.Attempts = append(loadErr.Attempts, fmt.Sprintf("missing: %s", path))
			continue
		}
		ds, err := ReadDataset(path)
		if err != nil {
			l.logger.WarnContext(ctx, "Failed to read dataset candidate",
				slog.String("path", path),
				slog.String("error", err.Error()))
			loadErr.Attempts = append(loadErr.Attempts, fmt.Sprintf("error reading %s: %v", path, err))
			continue
		}
		l.logger.InfoContext(ctx, "Dataset loaded",
			slog.String("path", path),
			slog.Int("rows", ds.Len()),
			slog.Int("missing_columns", len(ds.missing)),
			slog.Duration("duration", time.Since(start)))
		return ds, nil
	}
	return nil, loadErr
}
