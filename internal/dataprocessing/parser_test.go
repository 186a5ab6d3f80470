package dataprocessing

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// writeWorkbook saves rows to the first sheet of a new workbook at path.
func writeWorkbook(t *testing.T, path string, rows [][]interface{}) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := "Projects"
	require.NoError(t, f.SetSheetName(f.GetSheetName(0), sheet))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	require.NoError(t, f.SaveAs(path))
}

func headerRow() []interface{} {
	out := make([]interface{}, len(RequiredColumns))
	for i, c := range RequiredColumns {
		out[i] = c
	}
	return out
}

// dataRow fills a row in RequiredColumns order from a column map.
func dataRow(values map[string]interface{}) []interface{} {
	out := make([]interface{}, len(RequiredColumns))
	for i, c := range RequiredColumns {
		if v, ok := values[c]; ok {
			out[i] = v
		} else {
			out[i] = ""
		}
	}
	return out
}

func TestReadWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mpi.xlsx")
	writeWorkbook(t, path, [][]interface{}{
		headerRow(),
		dataRow(map[string]interface{}{
			"project": "Cedar LNG", "company": "Haisla", "sector": "Energy",
			"start_year": 2023, "end_year": 2028, "project_cost": 5900.75,
			"blended_prob": 0.816, "cleantech": "no", "latitude_1": 53.9,
		}),
		dataRow(map[string]interface{}{"project": "Blank Cost", "project_cost": "TBD"}),
	})

	table, err := ReadWorkbook(path)
	require.NoError(t, err)
	assert.Equal(t, RequiredColumns, table.Header)
	require.Len(t, table.Rows, 2)

	ds, err := ReadDataset(path)
	require.NoError(t, err)
	assert.Equal(t, path, ds.Source())
	assert.Empty(t, ds.MissingColumns())
	records := ds.Records()
	require.Len(t, records, 2)

	p := records[0]
	assert.Equal(t, "Cedar LNG", p.Project)
	assert.Equal(t, "No", p.Cleantech)
	assert.Equal(t, f64(2023), p.StartYear)
	assert.Equal(t, f64(5900.75), p.ProjectCost)
	assert.Equal(t, i64(5901), p.CostMM)
	assert.Equal(t, f64(0.82), p.BlendedProb2dp)
	assert.Equal(t, f64(53.9), p.Latitude)
	assert.Nil(t, p.Longitude)

	assert.Nil(t, records[1].ProjectCost)
	assert.Nil(t, records[1].CostMM)
}

func TestReadWorkbookErrors(t *testing.T) {
	_, err := ReadWorkbook(filepath.Join(t.TempDir(), "absent.xlsx"))
	assert.Error(t, err)

	bogus := filepath.Join(t.TempDir(), "bogus.xlsx")
	require.NoError(t, os.WriteFile(bogus, []byte("not a zip"), 0o644))
	_, err = ReadDataset(bogus)
	assert.Error(t, err)
}

func TestReadCSVTable(t *testing.T) {
	input := "\xef\xbb\xbfproject,sector,project_cost\nA,Energy,10\nB,Mining\n"
	table, err := ReadCSVTable(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"project", "sector", "project_cost"}, table.Header)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"B", "Mining"}, table.Rows[1])

	ds := NewDataset("mem.csv", table.Header, table.Rows)
	assert.Contains(t, ds.MissingColumns(), ColProvince)
	assert.Contains(t, ds.SchemaMessage(), "Missing required columns: province")
	assert.Equal(t, 2, ds.Len())
}

func TestReadTableUnsupported(t *testing.T) {
	_, err := ReadTable("projects.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}
