package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// ProjectHeader is the full source header in its canonical order.
var ProjectHeader = []string{
	"province", "sector", "group", "cleantech",
	"start_year", "end_year", "project_cost",
	"current_survival", "end_success",
	"start_status", "end_status",
	"latitude_1", "longitude_1",
	"company", "project",
	"blended_prob", "priority_index", "power_ranking",
}

// SampleRows returns four projects in ProjectHeader order:
//
//	Alpha Mine         ON Mining    1200.5  Planning   -> Construction
//	Bay LNG            BC Energy    5900    Permitting -> Construction
//	Prairie Wind       AB Energy     450    Planning   -> Planning
//	Harbour Expansion  NS Transport  800    Planning   -> (blank), not geocoded
func SampleRows() [][]interface{} {
	return [][]interface{}{
		{"ON", "Mining", "Critical Minerals", "yes", 2024, 2029, 1200.5, 1, 0, "Planning", "Construction", 48.4, -89.2, "Northern Metals", "Alpha Mine", 0.62, 2.5, 3},
		{"BC", "Energy", "LNG", "no", 2023, 2028, 5900, 1, 1, "Permitting", "Construction", 53.9, -128.6, "Coastal Gas", "Bay LNG", 0.81, 4.1, 1},
		{"AB", "Energy", "Renewables", "yes", 2025, 2027, 450, 0, 0, "Planning", "Planning", 50.0, -112.8, "Prairie Power", "Prairie Wind", 0.44, 1.2, 2},
		{"NS", "Transport", "Ports", "", 2026, 2031, 800, 1, 0, "Planning", "", "", "", "Port Authority", "Harbour Expansion", 0.55, "", 4},
	}
}

// WriteProjectsWorkbook saves ProjectHeader plus rows as dir/name and
// returns the path.
func WriteProjectsWorkbook(t *testing.T, dir, name string, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	header := make([]interface{}, len(ProjectHeader))
	for i, h := range ProjectHeader {
		header[i] = h
	}
	all := append([][]interface{}{header}, rows...)
	for i, row := range all {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}

	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	return path
}
