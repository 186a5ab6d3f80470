package testutil

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestBufferedSlogHandler(t *testing.T) {
	t.Run("captures log records", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("dataset loaded", slog.String("source", "sample_mpi.xlsx"))
		logger.Error("load failed", slog.Int("attempts", 2))

		assert.Equal(t, 2, handler.Count())
		assert.True(t, handler.ContainsMessage("dataset loaded"))
		assert.True(t, handler.ContainsAttr("source", "sample_mpi.xlsx"))
	})

	t.Run("keeps attributes from With", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.With(slog.String("component", "dataset_loader")).Info("loaded")
		AssertLogAttr(t, handler, "component", "dataset_loader")
	})

	t.Run("filters by level", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Debug("debug msg")
		logger.Info("info msg")
		logger.Warn("warn msg")
		logger.Error("error msg")

		assert.Len(t, handler.GetRecordsByLevel(slog.LevelInfo), 1)
		assert.Len(t, handler.GetRecordsByLevel(slog.LevelError), 1)
		AssertLogContains(t, handler, slog.LevelWarn, "warn")
	})

	t.Run("clear", func(t *testing.T) {
		logger, handler := NewTestLogger(t)
		logger.Info("one")
		handler.Clear()
		assert.Equal(t, 0, handler.Count())
		AssertNoErrors(t, handler)
	})
}

func TestWriteProjectsWorkbook(t *testing.T) {
	path := WriteProjectsWorkbook(t, t.TempDir(), "sample_mpi.xlsx", SampleRows())

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, len(SampleRows())+1)
	assert.Equal(t, ProjectHeader, rows[0])
	assert.Equal(t, "sample_mpi.xlsx", filepath.Base(path))
}
