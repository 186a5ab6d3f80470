package dataprocessing

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/gonum/stat"

	"mpidash/pkg/contracts/domain"
)

// ComputeKPIs returns the headline numbers of a subset. An empty subset
// gives all zeros.
func ComputeKPIs(records []domain.Project) domain.KPIs {
	kpis := domain.KPIs{TotalProjects: len(records)}
	var probs []float64
	for i := range records {
		if c := records[i].ProjectCost; c != nil {
			kpis.TotalInvestment += *c
		}
		if p := records[i].BlendedProb; p != nil {
			probs = append(probs, *p)
		}
	}
	if len(probs) > 0 {
		kpis.AvgProbabilityPct = int(math.RoundToEven(stat.Mean(probs, nil) * 100))
	}
	return kpis
}

// FormatKPIs renders KPIs with thousands separators and a percent sign.
func FormatKPIs(k domain.KPIs) domain.KPIDisplay {
	pr := message.NewPrinter(language.English)
	return domain.KPIDisplay{
		TotalProjects:   pr.Sprintf("%d", k.TotalProjects),
		TotalInvestment: pr.Sprintf("%d", int64(math.RoundToEven(k.TotalInvestment))),
		AvgProbability:  strconv.Itoa(k.AvgProbabilityPct) + "%",
	}
}

// Dimension is a categorical field usable as a grouping key.
type Dimension string

const (
	DimProvince    Dimension = "province"
	DimSector      Dimension = "sector"
	DimGroup       Dimension = "group"
	DimCleantech   Dimension = "cleantech"
	DimStartStatus Dimension = "start_status"
	DimEndStatus   Dimension = "end_status"
	DimStartYear   Dimension = "start_year"
)

// groupKey is one component of a grouping tuple.
type groupKey struct {
	label   string
	num     float64
	numeric bool
	missing bool
}

func (d Dimension) key(p *domain.Project) groupKey {
	var s string
	switch d {
	case DimProvince:
		s = p.Province
	case DimSector:
		s = p.Sector
	case DimGroup:
		s = p.Group
	case DimCleantech:
		s = p.Cleantech
	case DimStartStatus:
		s = p.StartStatus
	case DimEndStatus:
		s = p.EndStatus
	case DimStartYear:
		if p.StartYear == nil {
			return groupKey{numeric: true, missing: true}
		}
		return groupKey{
			label:   strconv.FormatFloat(*p.StartYear, 'f', -1, 64),
			num:     *p.StartYear,
			numeric: true,
		}
	}
	return groupKey{label: s, missing: s == ""}
}

// less orders keys like a sorted groupby: missing last, numbers numerically.
func (k groupKey) less(o groupKey) bool {
	if k.missing != o.missing {
		return o.missing
	}
	if k.numeric {
		return k.num < o.num
	}
	return k.label < o.label
}

// CrossTab groups records by dims and counts them or sums project_cost
// (missing cost counts as 0). The missing value forms its own group with an
// empty label, ordered after every present value.
func CrossTab(records []domain.Project, dims []Dimension, mode domain.AggMode) domain.CrossTab {
	type group struct {
		keys  []groupKey
		value float64
	}
	groups := make(map[string]*group)
	var order []*group

	for i := range records {
		p := &records[i]
		keys := make([]groupKey, len(dims))
		labels := make([]string, len(dims))
		for j, d := range dims {
			keys[j] = d.key(p)
			labels[j] = keys[j].label
			if keys[j].missing {
				labels[j] = "\x00missing"
			}
		}
		id := strings.Join(labels, "\x1f")
		g, ok := groups[id]
		if !ok {
			g = &group{keys: keys}
			groups[id] = g
			order = append(order, g)
		}
		switch mode {
		case domain.AggCost:
			if p.ProjectCost != nil {
				g.value += *p.ProjectCost
			}
		default:
			g.value++
		}
	}

	sort.SliceStable(order, func(a, b int) bool {
		ka, kb := order[a].keys, order[b].keys
		for j := range ka {
			if ka[j].less(kb[j]) {
				return true
			}
			if kb[j].less(ka[j]) {
				return false
			}
		}
		return false
	})

	names := make([]string, len(dims))
	for j, d := range dims {
		names[j] = string(d)
	}
	rows := make([]domain.CrossTabRow, len(order))
	for i, g := range order {
		labels := make([]string, len(g.keys))
		for j, k := range g.keys {
			labels[j] = k.label
		}
		rows[i] = domain.CrossTabRow{Keys: labels, Value: g.value}
	}
	if mode == "" {
		mode = domain.AggCount
	}
	return domain.CrossTab{Dimensions: names, Mode: mode, Rows: rows}
}

// SectorGroup is the sector by group breakdown in the requested mode.
func SectorGroup(records []domain.Project, mode domain.AggMode) domain.CrossTab {
	return CrossTab(records, []Dimension{DimSector, DimGroup}, mode)
}

// ProvinceSector counts projects per province and sector.
func ProvinceSector(records []domain.Project) domain.CrossTab {
	return CrossTab(records, []Dimension{DimProvince, DimSector}, domain.AggCount)
}

// CleantechShare counts projects per cleantech flag.
func CleantechShare(records []domain.Project) domain.CrossTab {
	return CrossTab(records, []Dimension{DimCleantech}, domain.AggCount)
}

// StartYearSector counts projects per start year and sector. Records without
// a start year cannot be placed on a year axis and are dropped.
func StartYearSector(records []domain.Project) domain.CrossTab {
	dated := make([]domain.Project, 0, len(records))
	for _, p := range records {
		if p.StartYear != nil {
			dated = append(dated, p)
		}
	}
	return CrossTab(dated, []Dimension{DimStartYear, DimSector}, domain.AggCount)
}

// labelWidth is the display width of ranking labels.
const labelWidth = 36

// TruncateLabel shortens s to n characters, ending in an ellipsis when cut.
func TruncateLabel(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// rankValues returns the sort value of each record for key.
func rankValues(records []domain.Project, key domain.RankKey) []*float64 {
	values := make([]*float64, len(records))
	switch key {
	case domain.RankByScore:
		raw := make([]*float64, len(records))
		for i := range records {
			raw[i] = records[i].PowerRanking
		}
		for i, s := range NormalizePowerScore(raw) {
			values[i] = &s
		}
	case domain.RankByProb:
		for i := range records {
			values[i] = records[i].BlendedProb2dp
		}
	case domain.RankByPriority:
		for i := range records {
			values[i] = records[i].PriorityIndex
		}
	}
	return values
}

// TopN returns the n best records for key, highest first. Ties keep input
// order and missing values sort after every present value. n is clamped to
// the supported range.
func TopN(records []domain.Project, key domain.RankKey, n int) domain.Ranking {
	n = domain.ClampTopN(n)
	values := rankValues(records, key)

	idx := make([]int, len(records))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		va, vb := values[idx[a]], values[idx[b]]
		if va == nil || vb == nil {
			return va != nil && vb == nil
		}
		return *va > *vb
	})

	if len(idx) > n {
		idx = idx[:n]
	}
	rows := make([]domain.RankedRow, len(idx))
	for rank, i := range idx {
		p := records[i]
		rows[rank] = domain.RankedRow{
			Rank:        rank + 1,
			Label:       TruncateLabel(p.Project, labelWidth),
			Value:       values[i],
			HoverFields: p.Hover(),
		}
	}
	return domain.Ranking{Key: key, Rows: rows}
}

// Scatter returns the projects that have both a priority index and a
// probability, positioned by their two-decimal values.
func Scatter(records []domain.Project) []domain.ScatterPoint {
	points := make([]domain.ScatterPoint, 0, len(records))
	for i := range records {
		p := records[i]
		if p.PriorityIndex2dp == nil || p.BlendedProb2dp == nil {
			continue
		}
		points = append(points, domain.ScatterPoint{
			X:           *p.PriorityIndex2dp,
			Y:           *p.BlendedProb2dp,
			HoverFields: p.Hover(),
		})
	}
	return points
}

func presentValues(values []*float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if v != nil {
			out = append(out, *v)
		}
	}
	return out
}

func meanOf(values []*float64) *float64 {
	xs := presentValues(values)
	if len(xs) == 0 {
		return nil
	}
	m := stat.Mean(xs, nil)
	return &m
}

// ComputeQuadrants places each project with both scores relative to the mean
// priority index and mean probability. A value equal to the mean counts as high.
func ComputeQuadrants(records []domain.Project) domain.Quadrants {
	pri := make([]*float64, len(records))
	prob := make([]*float64, len(records))
	for i := range records {
		pri[i] = records[i].PriorityIndex
		prob[i] = records[i].BlendedProb
	}
	q := domain.Quadrants{MeanPriority: meanOf(pri), MeanProbability: meanOf(prob)}
	if q.MeanPriority == nil || q.MeanProbability == nil {
		return q
	}
	for i := range records {
		if pri[i] == nil || prob[i] == nil {
			continue
		}
		highPri := *pri[i] >= *q.MeanPriority
		highProb := *prob[i] >= *q.MeanProbability
		switch {
		case highProb && highPri:
			q.HighProbHighPri++
		case highProb:
			q.HighProbLowPri++
		case highPri:
			q.LowProbHighPri++
		default:
			q.LowProbLowPri++
		}
	}
	return q
}

// BuildRankingView assembles the three rankings, the scatter and its quadrants.
func BuildRankingView(records []domain.Project, n int) domain.RankingView {
	return domain.RankingView{
		ByScore:       TopN(records, domain.RankByScore, n),
		ByProbability: TopN(records, domain.RankByProb, n),
		ByPriority:    TopN(records, domain.RankByPriority, n),
		Scatter:       Scatter(records),
		Quadrants:     ComputeQuadrants(records),
	}
}

// BuildSectorView assembles the sector tab aggregates.
func BuildSectorView(records []domain.Project, mode domain.AggMode) domain.SectorView {
	return domain.SectorView{
		SectorGroup:    SectorGroup(records, mode),
		ProvinceSector: ProvinceSector(records),
		Cleantech:      CleantechShare(records),
	}
}
