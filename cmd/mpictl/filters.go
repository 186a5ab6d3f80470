package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"mpidash/pkg/contracts/domain"
)

// filterFlags mirrors DashboardRequest on the command line.
type filterFlags struct {
	company       []string
	companySelect []string
	projectSelect []string
	province      []string
	sector        []string
	group         []string
	cleantech     []string
	status        []string

	yearMin, yearMax float64
	costMin, costMax float64

	topN    int
	aggMode string
}

// register adds the filter flags to fs. List flags repeat (--sector A
// --sector B) and never split on commas, since names like "Acme, Inc." are
// common in the dataset.
func (f *filterFlags) register(fs *pflag.FlagSet) {
	fs.StringArrayVar(&f.company, "company", nil, "keep these companies")
	fs.StringArrayVar(&f.companySelect, "company-select", nil, "keep these companies (secondary selector)")
	fs.StringArrayVar(&f.projectSelect, "project", nil, "keep these projects")
	fs.StringArrayVar(&f.province, "province", nil, "keep these provinces")
	fs.StringArrayVar(&f.sector, "sector", nil, "keep these sectors")
	fs.StringArrayVar(&f.group, "group", nil, "keep these groups")
	fs.StringArrayVar(&f.cleantech, "cleantech", nil, "Yes, No or All")
	fs.StringArrayVar(&f.status, "status", nil, "keep these end statuses")
	fs.Float64Var(&f.yearMin, "year-min", 0, "earliest start year")
	fs.Float64Var(&f.yearMax, "year-max", 0, "latest end year")
	fs.Float64Var(&f.costMin, "cost-min", 0, "minimum project cost (CAD$ millions)")
	fs.Float64Var(&f.costMax, "cost-max", 0, "maximum project cost (CAD$ millions)")
	fs.IntVar(&f.topN, "top-n", domain.DefaultTopN, fmt.Sprintf("ranking length (%d-%d)", domain.MinTopN, domain.MaxTopN))
	fs.StringVar(&f.aggMode, "agg-mode", string(domain.AggCount), "cross-tab measure (count or cost)")
}

// request builds the DashboardRequest. A range is only constrained when at
// least one of its bounds was given; the other bound stays open.
func (f *filterFlags) request(cmd *cobra.Command) domain.DashboardRequest {
	flags := cmd.Flags()
	req := domain.DashboardRequest{
		Filter: domain.FilterSpec{
			Company:       f.company,
			CompanySelect: f.companySelect,
			ProjectSelect: f.projectSelect,
			Province:      f.province,
			Sector:        f.sector,
			Group:         f.group,
			Cleantech:     f.cleantech,
			Status:        f.status,
		},
		TopN:    f.topN,
		AggMode: domain.AggMode(f.aggMode),
	}
	req.Filter.YearRange = rangeFlag(flags, "year-min", "year-max", f.yearMin, f.yearMax)
	req.Filter.CostRange = rangeFlag(flags, "cost-min", "cost-max", f.costMin, f.costMax)
	return req
}

func rangeFlag(flags *pflag.FlagSet, minName, maxName string, lo, hi float64) *domain.Range {
	minSet, maxSet := flags.Changed(minName), flags.Changed(maxName)
	if !minSet && !maxSet {
		return nil
	}
	r := domain.Range{Min: lo, Max: hi}
	if !minSet {
		r.Min = -math.MaxFloat64
	}
	if !maxSet {
		r.Max = math.MaxFloat64
	}
	return &r
}
