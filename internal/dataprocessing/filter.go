package dataprocessing

import (
	"slices"

	"mpidash/pkg/contracts/domain"
)

// predicate decides membership of one project.
type predicate func(p *domain.Project) bool

func inSet(values []string, field func(p *domain.Project) string) predicate {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return func(p *domain.Project) bool {
		_, ok := set[field(p)]
		return ok
	}
}

// compileFilter turns spec into the list of active predicates, set
// membership first and numeric windows last.
func compileFilter(spec domain.FilterSpec) []predicate {
	var preds []predicate
	sets := []struct {
		values []string
		field  func(p *domain.Project) string
	}{
		{spec.Company, func(p *domain.Project) string { return p.Company }},
		{spec.CompanySelect, func(p *domain.Project) string { return p.Company }},
		{spec.ProjectSelect, func(p *domain.Project) string { return p.Project }},
		{spec.Province, func(p *domain.Project) string { return p.Province }},
		{spec.Sector, func(p *domain.Project) string { return p.Sector }},
		{spec.Group, func(p *domain.Project) string { return p.Group }},
		{spec.Status, func(p *domain.Project) string { return p.EndStatus }},
	}
	for _, s := range sets {
		if len(s.values) > 0 {
			preds = append(preds, inSet(s.values, s.field))
		}
	}

	if len(spec.Cleantech) > 0 && !slices.Contains(spec.Cleantech, domain.CleantechAll) {
		preds = append(preds, inSet(spec.Cleantech, func(p *domain.Project) string { return p.Cleantech }))
	}

	if yr := spec.YearRange; yr != nil {
		lo, hi := yr.Min, yr.Max
		preds = append(preds, func(p *domain.Project) bool {
			return p.StartYear != nil && p.EndYear != nil &&
				*p.StartYear >= lo && *p.EndYear <= hi
		})
	}

	if cr := spec.CostRange; cr != nil {
		window := *cr
		preds = append(preds, func(p *domain.Project) bool {
			return p.ProjectCost != nil && window.Contains(*p.ProjectCost)
		})
	}
	return preds
}

// Filter returns the projects satisfying every active constraint of spec,
// in input order. The input slice is not modified.
func Filter(records []domain.Project, spec domain.FilterSpec) []domain.Project {
	preds := compileFilter(spec)
	out := make([]domain.Project, 0, len(records))
	for i := range records {
		p := &records[i]
		keep := true
		for _, pred := range preds {
			if !pred(p) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, *p)
		}
	}
	return out
}
