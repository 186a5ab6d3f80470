package dataprocessing

import (
	"strings"
)

// Source column names.
const (
	ColProvince        = "province"
	ColSector          = "sector"
	ColGroup           = "group"
	ColCleantech       = "cleantech"
	ColStartYear       = "start_year"
	ColEndYear         = "end_year"
	ColProjectCost     = "project_cost"
	ColCurrentSurvival = "current_survival"
	ColEndSuccess      = "end_success"
	ColStartStatus     = "start_status"
	ColEndStatus       = "end_status"
	ColLatitude        = "latitude_1"
	ColLongitude       = "longitude_1"
	ColCompany         = "company"
	ColProject         = "project"
	ColBlendedProb     = "blended_prob"
	ColPriorityIndex   = "priority_index"
	ColPowerRanking    = "power_ranking"
)

// RequiredColumns is the header a dataset must carry, in declaration order.
var RequiredColumns = []string{
	ColProvince, ColSector, ColGroup, ColCleantech,
	ColStartYear, ColEndYear, ColProjectCost,
	ColCurrentSurvival, ColEndSuccess,
	ColStartStatus, ColEndStatus,
	ColLatitude, ColLongitude,
	ColCompany, ColProject,
	ColBlendedProb, ColPriorityIndex, ColPowerRanking,
}

// columnAliases maps a required column to alternative header spellings.
var columnAliases = map[string][]string{
	ColLatitude:  {"latitude"},
	ColLongitude: {"longitude"},
}

// columnIndex maps trimmed header names to their first position.
type columnIndex map[string]int

func newColumnIndex(header []string) columnIndex {
	idx := make(columnIndex, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if _, seen := idx[name]; !seen {
			idx[name] = i
		}
	}
	return idx
}

// lookup returns the position of a required column, trying its aliases.
func (c columnIndex) lookup(col string) (int, bool) {
	if i, ok := c[col]; ok {
		return i, true
	}
	for _, alias := range columnAliases[col] {
		if i, ok := c[alias]; ok {
			return i, true
		}
	}
	return -1, false
}

// ValidateSchema returns the required columns absent from header, in
// declaration order. An empty result means the header is complete.
func ValidateSchema(header []string) []string {
	idx := newColumnIndex(header)
	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := idx.lookup(col); !ok {
			missing = append(missing, col)
		}
	}
	return missing
}

// SchemaMessage renders a missing-column list for display.
func SchemaMessage(missing []string) string {
	if len(missing) == 0 {
		return ""
	}
	return "Missing required columns: " + strings.Join(missing, ", ")
}
