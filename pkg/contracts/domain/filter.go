package domain

// Range is an inclusive numeric window. JSON form is {"min": a, "max": b}.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max" validate:"gtefield=Min"`
}

// Contains reports whether v lies in [Min, Max].
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// FilterSpec is the user's current filter selection.
// An empty list or nil range places no constraint on its field.
type FilterSpec struct {
	Company       []string `json:"company,omitempty"`
	CompanySelect []string `json:"company_select,omitempty"`
	ProjectSelect []string `json:"project_select,omitempty"`
	Province      []string `json:"province,omitempty"`
	Sector        []string `json:"sector,omitempty"`
	Group         []string `json:"group,omitempty"`

	// Cleantech containing "All" places no constraint.
	Cleantech []string `json:"cleantech,omitempty"`

	// Status matches end_status.
	Status []string `json:"status,omitempty"`

	YearRange *Range `json:"year_range,omitempty"`
	CostRange *Range `json:"cost_range,omitempty"`
}

// CleantechAll disables the cleantech constraint when present in FilterSpec.Cleantech.
const CleantechAll = "All"

// AggMode selects what a cross-tabulation measures.
type AggMode string

const (
	AggCount AggMode = "count"
	AggCost  AggMode = "cost"
)

// RankKey selects the value a top-N ranking is sorted by.
type RankKey string

const (
	RankByScore    RankKey = "score01"
	RankByProb     RankKey = "blended_prob"
	RankByPriority RankKey = "priority_index"
)

const (
	DefaultTopN = 10
	MinTopN     = 5
	MaxTopN     = 20
)

// DashboardRequest carries a filter plus the view parameters every dashboard
// endpoint accepts.
type DashboardRequest struct {
	Filter  FilterSpec `json:"filter"`
	TopN    int        `json:"top_n,omitempty" validate:"omitempty,min=5,max=20"`
	AggMode AggMode    `json:"agg_mode,omitempty" validate:"omitempty,oneof=count cost"`
}

// WithDefaults fills unset view parameters.
func (r DashboardRequest) WithDefaults() DashboardRequest {
	if r.TopN == 0 {
		r.TopN = DefaultTopN
	}
	if r.AggMode == "" {
		r.AggMode = AggCount
	}
	return r
}

// ClampTopN limits n to the supported slider range, using the default for zero.
func ClampTopN(n int) int {
	switch {
	case n == 0:
		return DefaultTopN
	case n < MinTopN:
		return MinTopN
	case n > MaxTopN:
		return MaxTopN
	}
	return n
}
