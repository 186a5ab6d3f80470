package domain

// Project is one row of the Major Projects Inventory after coercion.
//
// Nullable numeric fields are pointers: a nil value means the source cell was
// blank or unparseable, which is different from zero. The *2dp and CostMM
// fields are derived once per dataset snapshot and are never read from input.
//
// The csv tags define the export column order; json tags are the API row keys.
type Project struct {
	Company  string `json:"company" csv:"company"`
	Project  string `json:"project" csv:"project"`
	Province string `json:"province" csv:"province"`
	Sector   string `json:"sector" csv:"sector"`
	Group    string `json:"group" csv:"group"`

	// Cleantech is trimmed and title-cased; normally "Yes" or "No".
	Cleantech string `json:"cleantech" csv:"cleantech"`

	StartYear   *float64 `json:"start_year" csv:"start_year"`
	EndYear     *float64 `json:"end_year" csv:"end_year"`
	ProjectCost *float64 `json:"project_cost" csv:"project_cost"`

	CurrentSurvival int    `json:"current_survival" csv:"current_survival"`
	EndSuccess      int    `json:"end_success" csv:"end_success"`
	StartStatus     string `json:"start_status" csv:"start_status"`
	EndStatus       string `json:"end_status" csv:"end_status"`

	Latitude  *float64 `json:"latitude_1" csv:"latitude_1"`
	Longitude *float64 `json:"longitude_1" csv:"longitude_1"`

	BlendedProb   *float64 `json:"blended_prob" csv:"blended_prob"`
	PriorityIndex *float64 `json:"priority_index" csv:"priority_index"`
	PowerRanking  *float64 `json:"power_ranking" csv:"power_ranking"`

	// Display fields
	CostMM           *int64   `json:"cost_mm" csv:"cost_mm"`
	BlendedProb2dp   *float64 `json:"blended_prob_2dp" csv:"blended_prob_2dp"`
	PriorityIndex2dp *float64 `json:"priority_index_2dp" csv:"priority_index_2dp"`
	PowerRanking2dp  *float64 `json:"power_ranking_2dp" csv:"power_ranking_2dp"`
}

// ProjectColumns lists the record columns in export order.
var ProjectColumns = []string{
	"company", "project", "province", "sector", "group", "cleantech",
	"start_year", "end_year", "project_cost",
	"current_survival", "end_success", "start_status", "end_status",
	"latitude_1", "longitude_1",
	"blended_prob", "priority_index", "power_ranking",
	"cost_mm", "blended_prob_2dp", "priority_index_2dp", "power_ranking_2dp",
}

// HasLocation reports whether both coordinates are present.
func (p Project) HasLocation() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// HoverFields are the descriptive fields shown next to a ranked or mapped project.
type HoverFields struct {
	Company          string   `json:"company"`
	Project          string   `json:"project"`
	Province         string   `json:"province"`
	Sector           string   `json:"sector"`
	Group            string   `json:"group"`
	CostMM           *int64   `json:"cost_mm"`
	BlendedProb2dp   *float64 `json:"blended_prob_2dp"`
	PriorityIndex2dp *float64 `json:"priority_index_2dp"`
	PowerRanking2dp  *float64 `json:"power_ranking_2dp"`
}

// Hover extracts the hover fields of a project.
func (p Project) Hover() HoverFields {
	return HoverFields{
		Company:          p.Company,
		Project:          p.Project,
		Province:         p.Province,
		Sector:           p.Sector,
		Group:            p.Group,
		CostMM:           p.CostMM,
		BlendedProb2dp:   p.BlendedProb2dp,
		PriorityIndex2dp: p.PriorityIndex2dp,
		PowerRanking2dp:  p.PowerRanking2dp,
	}
}
