package domain

// FilteredDataset is the row-oriented result of applying a FilterSpec.
type FilteredDataset struct {
	Source         string    `json:"source"`
	SchemaMessage  string    `json:"schema_message"`
	MissingColumns []string  `json:"missing_columns"`
	Columns        []string  `json:"columns"`
	Rows           []Project `json:"rows"`
	TotalRows      int       `json:"total_rows"`
}

// KPIs are the three headline numbers of a filtered subset.
type KPIs struct {
	TotalProjects     int     `json:"total_projects"`
	TotalInvestment   float64 `json:"total_investment"`
	AvgProbabilityPct int     `json:"avg_probability_pct"`
}

// KPIDisplay holds KPIs formatted for display.
type KPIDisplay struct {
	TotalProjects   string `json:"total_projects"`
	TotalInvestment string `json:"total_investment"`
	AvgProbability  string `json:"avg_probability"`
}

// CrossTabRow is one group of a cross-tabulation. An empty key is the
// missing-value group.
type CrossTabRow struct {
	Keys  []string `json:"keys"`
	Value float64  `json:"value"`
}

// CrossTab is a grouped count or cost sum over one or more dimensions.
type CrossTab struct {
	Dimensions []string      `json:"dimensions"`
	Mode       AggMode       `json:"mode"`
	Rows       []CrossTabRow `json:"rows"`
}

// RankedRow is one entry of a top-N ranking.
type RankedRow struct {
	Rank  int      `json:"rank"`
	Label string   `json:"label"`
	Value *float64 `json:"value"`
	HoverFields
}

// Ranking is a top-N list for a single key.
type Ranking struct {
	Key  RankKey     `json:"key"`
	Rows []RankedRow `json:"rows"`
}

// Quadrants summarise the probability-versus-priority scatter.
type Quadrants struct {
	MeanPriority    *float64 `json:"mean_priority"`
	MeanProbability *float64 `json:"mean_probability"`
	HighProbHighPri int      `json:"high_prob_high_priority"`
	HighProbLowPri  int      `json:"high_prob_low_priority"`
	LowProbHighPri  int      `json:"low_prob_high_priority"`
	LowProbLowPri   int      `json:"low_prob_low_priority"`
}

// ScatterPoint is one plotted project in the ranking scatter.
type ScatterPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	HoverFields
}

// RankingView backs the ranking tab.
type RankingView struct {
	ByScore       Ranking        `json:"by_score"`
	ByProbability Ranking        `json:"by_probability"`
	ByPriority    Ranking        `json:"by_priority"`
	Scatter       []ScatterPoint `json:"scatter"`
	Quadrants     Quadrants      `json:"quadrants"`
}

// SectorView backs the sector tab.
type SectorView struct {
	SectorGroup    CrossTab `json:"sector_group"`
	ProvinceSector CrossTab `json:"province_sector"`
	Cleantech      CrossTab `json:"cleantech"`
}

// HistogramBin is a half-open [Lower, Upper) bin; the last bin is closed.
type HistogramBin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// BoxStats is the five-number summary of a group.
type BoxStats struct {
	Group  string  `json:"group"`
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// TimelineView backs the timeline tab.
type TimelineView struct {
	StartYearSector CrossTab       `json:"start_year_sector"`
	CostHistogram   []HistogramBin `json:"cost_histogram"`
	CostBySector    []BoxStats     `json:"cost_by_sector"`
}

// TransitionEdge is a weighted status transition between two node indices.
type TransitionEdge struct {
	Source int `json:"source"`
	Target int `json:"target"`
	Weight int `json:"weight"`
}

// TransitionGraph is the start-status to end-status flow.
type TransitionGraph struct {
	Nodes []string         `json:"nodes"`
	Edges []TransitionEdge `json:"edges"`
}

// Options are the sidebar choices and slider defaults derived from a dataset.
type Options struct {
	Source        string   `json:"source"`
	SchemaMessage string   `json:"schema_message"`
	Provinces     []string `json:"provinces"`
	Sectors       []string `json:"sectors"`
	Groups        []string `json:"groups"`
	Companies     []string `json:"companies"`
	Projects      []string `json:"projects"`
	Statuses      []string `json:"statuses"`
	Cleantech     []string `json:"cleantech"`
	YearRange     Range    `json:"year_range"`
	CostRange     Range    `json:"cost_range"`
	TopN          int      `json:"top_n"`
	TopNMin       int      `json:"top_n_min"`
	TopNMax       int      `json:"top_n_max"`
	AggMode       AggMode  `json:"agg_mode"`
}
