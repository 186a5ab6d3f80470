package dataprocessing

import (
	"math"

	"mpidash/pkg/contracts/domain"
)

// roundHalfEven rounds v to the given number of decimals, ties to even.
func roundHalfEven(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.RoundToEven(v*p) / p
}

func round2(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := roundHalfEven(*v, 2)
	return &r
}

// DeriveDisplayFields returns p with cost_mm and the *_2dp fields recomputed
// from the source fields. Applying it twice gives the same result.
func DeriveDisplayFields(p domain.Project) domain.Project {
	p.CostMM = nil
	if p.ProjectCost != nil {
		r := math.RoundToEven(*p.ProjectCost)
		if math.Abs(r) < math.MaxInt64 {
			mm := int64(r)
			p.CostMM = &mm
		}
	}
	p.BlendedProb2dp = round2(p.BlendedProb)
	p.PriorityIndex2dp = round2(p.PriorityIndex)
	p.PowerRanking2dp = round2(p.PowerRanking)
	return p
}
