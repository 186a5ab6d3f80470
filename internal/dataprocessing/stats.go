package dataprocessing

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"mpidash/pkg/contracts/domain"
)

// HistogramBins is the bin count of the cost histogram.
const HistogramBins = 30

// Histogram splits [min, max] of values into bins equal-width bins. Bins are
// half-open except the last, which includes max. No values gives no bins.
func Histogram(values []float64, bins int) []domain.HistogramBin {
	if len(values) == 0 || bins < 1 {
		return nil
	}
	x := append([]float64(nil), values...)
	sort.Float64s(x)
	lo, hi := x[0], x[len(x)-1]
	if hi == lo {
		hi = lo + 1
	}

	dividers := make([]float64, bins+1)
	floats.Span(dividers, lo, hi)
	top := dividers[bins]
	// stat.Histogram treats the last divider as exclusive.
	dividers[bins] = math.Nextafter(top, math.Inf(1))
	counts := stat.Histogram(nil, dividers, x, nil)

	out := make([]domain.HistogramBin, bins)
	for i := range out {
		upper := dividers[i+1]
		if i == bins-1 {
			upper = top
		}
		out[i] = domain.HistogramBin{Lower: dividers[i], Upper: upper, Count: int(counts[i])}
	}
	return out
}

// quantile returns the p-quantile of sorted x by linear interpolation
// between closest ranks (the usual box-plot definition).
func quantile(p float64, x []float64) float64 {
	if len(x) == 1 {
		return x[0]
	}
	h := p * float64(len(x)-1)
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= len(x) {
		return x[len(x)-1]
	}
	return x[i] + (h-lo)*(x[i+1]-x[i])
}

// Median returns the median of the present values, or nil when none are.
func Median(values []*float64) *float64 {
	x := presentValues(values)
	if len(x) == 0 {
		return nil
	}
	sort.Float64s(x)
	m := quantile(0.5, x)
	return &m
}

// SummarizeBox returns the five-number summary of values under group.
func SummarizeBox(group string, values []float64) domain.BoxStats {
	x := append([]float64(nil), values...)
	sort.Float64s(x)
	b := domain.BoxStats{Group: group, Count: len(x)}
	if len(x) == 0 {
		return b
	}
	b.Min = x[0]
	b.Q1 = quantile(0.25, x)
	b.Median = quantile(0.5, x)
	b.Q3 = quantile(0.75, x)
	b.Max = x[len(x)-1]
	return b
}

// CostBySector summarises cost_mm per sector, skipping projects without a
// cost. Sectors are ordered by name with the unnamed sector last.
func CostBySector(records []domain.Project) []domain.BoxStats {
	bySector := make(map[string][]float64)
	for i := range records {
		p := &records[i]
		if p.CostMM == nil {
			continue
		}
		bySector[p.Sector] = append(bySector[p.Sector], float64(*p.CostMM))
	}
	sectors := make([]string, 0, len(bySector))
	for s := range bySector {
		sectors = append(sectors, s)
	}
	sort.Slice(sectors, func(a, b int) bool {
		ka := groupKey{label: sectors[a], missing: sectors[a] == ""}
		kb := groupKey{label: sectors[b], missing: sectors[b] == ""}
		return ka.less(kb)
	})
	out := make([]domain.BoxStats, len(sectors))
	for i, s := range sectors {
		out[i] = SummarizeBox(s, bySector[s])
	}
	return out
}

// CostHistogram bins the cost_mm of records into HistogramBins bins.
func CostHistogram(records []domain.Project) []domain.HistogramBin {
	values := make([]float64, 0, len(records))
	for i := range records {
		if c := records[i].CostMM; c != nil {
			values = append(values, float64(*c))
		}
	}
	return Histogram(values, HistogramBins)
}

// BuildTimelineView assembles the timeline tab aggregates.
func BuildTimelineView(records []domain.Project) domain.TimelineView {
	return domain.TimelineView{
		StartYearSector: StartYearSector(records),
		CostHistogram:   CostHistogram(records),
		CostBySector:    CostBySector(records),
	}
}
