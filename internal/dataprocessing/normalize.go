package dataprocessing

// ScoreMode is the interpretation chosen for a power-ranking column.
type ScoreMode int

const (
	// ScoreEmpty: no present values.
	ScoreEmpty ScoreMode = iota
	// ScoreUnit: values already lie in [0,1] and pass through.
	ScoreUnit
	// ScoreRank: values look like ranks (1 = best) and are inverted before scaling.
	ScoreRank
	// ScoreValue: values are magnitudes (higher = better) and are min-max scaled.
	ScoreValue
)

func (m ScoreMode) String() string {
	switch m {
	case ScoreEmpty:
		return "empty"
	case ScoreUnit:
		return "unit"
	case ScoreRank:
		return "rank"
	case ScoreValue:
		return "value"
	}
	return "unknown"
}

// rankUniqueFraction and rankCeiling bound the rank heuristic: few distinct
// values, all at least 1 and below 1e7. Columns of repeated magnitudes can be
// misread as ranks; the rule is kept as is so scores stay comparable.
const (
	rankUniqueFraction = 0.5
	rankCeiling        = 1e7
)

type scoreStats struct {
	present  int
	distinct int
	min      float64
	max      float64
}

func summarizeScores(values []*float64) scoreStats {
	var st scoreStats
	seen := make(map[float64]struct{})
	for _, v := range values {
		if v == nil {
			continue
		}
		if st.present == 0 || *v < st.min {
			st.min = *v
		}
		if st.present == 0 || *v > st.max {
			st.max = *v
		}
		st.present++
		seen[*v] = struct{}{}
	}
	st.distinct = len(seen)
	return st
}

// ClassifyScores reports which branch NormalizePowerScore takes for values.
func ClassifyScores(values []*float64) ScoreMode {
	return classify(summarizeScores(values))
}

func classify(st scoreStats) ScoreMode {
	if st.present == 0 {
		return ScoreEmpty
	}
	if st.min >= 0 && st.max <= 1 {
		return ScoreUnit
	}
	uniqueFrac := float64(st.distinct) / float64(st.present)
	if uniqueFrac < rankUniqueFraction && st.min >= 1 && st.max < rankCeiling {
		return ScoreRank
	}
	return ScoreValue
}

// scoreMapper maps one raw value to a [0,1] score. Missing maps to 0.
type scoreMapper func(v *float64) float64

func newScoreMapper(values []*float64) scoreMapper {
	st := summarizeScores(values)
	mode := classify(st)
	lo, hi := st.min, st.max

	switch mode {
	case ScoreEmpty:
		return func(*float64) float64 { return 0 }
	case ScoreUnit:
		return func(v *float64) float64 {
			if v == nil {
				return 0
			}
			return *v
		}
	}

	orient := func(x float64) float64 { return x }
	if mode == ScoreRank {
		// Reflection keeps min and max in place.
		orient = func(x float64) float64 { return hi - x + lo }
	}
	if hi == lo {
		return func(v *float64) float64 {
			if v == nil {
				return 0
			}
			return 1
		}
	}
	return func(v *float64) float64 {
		if v == nil {
			return 0
		}
		return (orient(*v) - lo) / (hi - lo)
	}
}

// NormalizePowerScore maps a power-ranking column onto [0,1] where higher is
// better, detecting whether the column holds ranks or values.
func NormalizePowerScore(values []*float64) []float64 {
	mapper := newScoreMapper(values)
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = mapper(v)
	}
	return out
}
