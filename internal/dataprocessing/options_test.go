package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mpidash/pkg/contracts/domain"
)

func TestBuildOptions(t *testing.T) {
	t.Run("from records", func(t *testing.T) {
		ds := NewDatasetFromProjects("mem", []domain.Project{
			{Province: "ON", Sector: "Energy", Company: "B", Project: "p1", EndStatus: "Planning",
				StartYear: f64(2019.7), EndYear: f64(2031), ProjectCost: f64(12.5)},
			{Province: "AB", Sector: " ", Company: "A", Project: "p2", EndStatus: "",
				StartYear: f64(2022), EndYear: f64(2024), ProjectCost: f64(900)},
			{Province: "ON", Sector: "Mining", Company: "A", Project: "p3"},
		})
		o := BuildOptions(ds)
		assert.Equal(t, "mem", o.Source)
		assert.Equal(t, []string{"AB", "ON"}, o.Provinces)
		assert.Equal(t, []string{"Energy", "Mining"}, o.Sectors)
		assert.Equal(t, []string{"A", "B"}, o.Companies)
		assert.Equal(t, []string{"Planning"}, o.Statuses)
		assert.Equal(t, []string{"All", "Yes", "No"}, o.Cleantech)
		assert.Equal(t, domain.Range{Min: 2019, Max: 2031}, o.YearRange)
		assert.Equal(t, domain.Range{Min: 12.5, Max: 900}, o.CostRange)
		assert.Equal(t, domain.DefaultTopN, o.TopN)
		assert.Equal(t, domain.AggCount, o.AggMode)
	})

	t.Run("fallbacks", func(t *testing.T) {
		o := BuildOptions(EmptyDataset())
		assert.Equal(t, domain.Range{Min: FallbackMinYear, Max: FallbackMaxYear}, o.YearRange)
		assert.Equal(t, domain.Range{Min: FallbackMinCost, Max: FallbackMaxCost}, o.CostRange)
		assert.Empty(t, o.Provinces)
	})

	t.Run("inverted years", func(t *testing.T) {
		ds := NewDatasetFromProjects("mem", []domain.Project{{StartYear: f64(2040), EndYear: f64(2030)}})
		o := BuildOptions(ds)
		assert.Equal(t, domain.Range{Min: FallbackMinYear, Max: FallbackMaxYear}, o.YearRange)
	})
}
