package dataprocessing

import (
	"math"
	"sort"
	"strings"

	"mpidash/pkg/contracts/domain"
)

// Fallback slider bounds for datasets without usable years or costs.
const (
	FallbackMinYear = 2000
	FallbackMaxYear = 2025
	FallbackMinCost = 0.0
	FallbackMaxCost = 1.0
)

// uniqueSorted returns the distinct non-blank values of field, sorted.
func uniqueSorted(records []domain.Project, field func(p *domain.Project) string) []string {
	set := make(map[string]struct{})
	for i := range records {
		v := field(&records[i])
		if strings.TrimSpace(v) == "" {
			continue
		}
		set[v] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func extent(values []*float64) (lo, hi float64, ok bool) {
	for _, v := range values {
		if v == nil {
			continue
		}
		if !ok {
			lo, hi, ok = *v, *v, true
			continue
		}
		lo = math.Min(lo, *v)
		hi = math.Max(hi, *v)
	}
	return lo, hi, ok
}

// yearRange is [min start_year, max end_year] truncated to whole years, with
// fallbacks for either end and for an inverted window.
func yearRange(records []domain.Project) domain.Range {
	starts := make([]*float64, len(records))
	ends := make([]*float64, len(records))
	for i := range records {
		starts[i] = records[i].StartYear
		ends[i] = records[i].EndYear
	}
	lo, hi := float64(FallbackMinYear), float64(FallbackMaxYear)
	if v, _, ok := extent(starts); ok {
		lo = math.Trunc(v)
	}
	if _, v, ok := extent(ends); ok {
		hi = math.Trunc(v)
	}
	if lo > hi {
		lo, hi = FallbackMinYear, FallbackMaxYear
	}
	return domain.Range{Min: lo, Max: hi}
}

func costRange(records []domain.Project) domain.Range {
	costs := make([]*float64, len(records))
	for i := range records {
		costs[i] = records[i].ProjectCost
	}
	lo, hi, ok := extent(costs)
	if !ok || lo > hi {
		return domain.Range{Min: FallbackMinCost, Max: FallbackMaxCost}
	}
	return domain.Range{Min: lo, Max: hi}
}

// BuildOptions derives sidebar choices and slider defaults from a dataset.
func BuildOptions(ds *Dataset) domain.Options {
	records := ds.records
	return domain.Options{
		Source:        ds.source,
		SchemaMessage: ds.SchemaMessage(),
		Provinces:     uniqueSorted(records, func(p *domain.Project) string { return p.Province }),
		Sectors:       uniqueSorted(records, func(p *domain.Project) string { return p.Sector }),
		Groups:        uniqueSorted(records, func(p *domain.Project) string { return p.Group }),
		Companies:     uniqueSorted(records, func(p *domain.Project) string { return p.Company }),
		Projects:      uniqueSorted(records, func(p *domain.Project) string { return p.Project }),
		Statuses:      uniqueSorted(records, func(p *domain.Project) string { return p.EndStatus }),
		Cleantech:     []string{domain.CleantechAll, "Yes", "No"},
		YearRange:     yearRange(records),
		CostRange:     costRange(records),
		TopN:          domain.DefaultTopN,
		TopNMin:       domain.MinTopN,
		TopNMax:       domain.MaxTopN,
		AggMode:       domain.AggCount,
	}
}
