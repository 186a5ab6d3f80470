package dataprocessing

import (
	"mpidash/pkg/contracts/domain"
)

func f64(v float64) *float64 { return &v }

func i64(v int64) *int64 { return &v }

func ptrs(values ...float64) []*float64 {
	out := make([]*float64, len(values))
	for i := range values {
		out[i] = &values[i]
	}
	return out
}

// project builds a derived record with the fields most tests care about.
func project(name, sector string, cost float64) domain.Project {
	return DeriveDisplayFields(domain.Project{
		Company:     name + " Inc",
		Project:     name,
		Sector:      sector,
		ProjectCost: f64(cost),
	})
}
