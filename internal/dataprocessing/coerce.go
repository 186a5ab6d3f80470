package dataprocessing

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"mpidash/pkg/contracts/domain"
)

// thousandsGrouped matches numbers like "1,250" or "-12,000.5".
var thousandsGrouped = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d+)?$`)

// ParseNumber converts a raw cell to a number. Blank, unparseable and
// non-finite cells yield nil; it never fails. Commas are accepted only as
// thousands separators, and hex literals are rejected.
func ParseNumber(raw string) *float64 {
	s := strings.TrimSpace(raw)
	if s == "" || strings.ContainsAny(s, "xX_") {
		return nil
	}
	if strings.Contains(s, ",") {
		if !thousandsGrouped.MatchString(s) {
			return nil
		}
		s = strings.ReplaceAll(s, ",", "")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// parseFlag reads a 0/1 indicator: missing becomes 0 and fractions truncate.
func parseFlag(raw string) int {
	v := ParseNumber(raw)
	if v == nil {
		return 0
	}
	return int(*v)
}

// NormalizeCleantech trims and title-cases a cleantech cell, so "yes",
// " YES " and "Yes" all become "Yes". A blank cell stays "" rather than
// the literal "Nan" the Dash app produced; it matches neither Yes nor No.
func NormalizeCleantech(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	// Casers carry state, so each call gets its own.
	return cases.Title(language.Und).String(s)
}

// Coercer turns raw rows into typed projects for one header layout.
type Coercer struct {
	positions map[string]int
}

// NewCoercer resolves the required columns against header once.
func NewCoercer(header []string) *Coercer {
	idx := newColumnIndex(header)
	positions := make(map[string]int, len(RequiredColumns))
	for _, col := range RequiredColumns {
		if i, ok := idx.lookup(col); ok {
			positions[col] = i
		}
	}
	return &Coercer{positions: positions}
}

// cell returns the raw value of col in cells, or "" when the column is
// absent from the header or the row is short.
func (c *Coercer) cell(cells []string, col string) string {
	i, ok := c.positions[col]
	if !ok || i >= len(cells) {
		return ""
	}
	return cells[i]
}

func (c *Coercer) text(cells []string, col string) string {
	return strings.TrimSpace(c.cell(cells, col))
}

func (c *Coercer) number(cells []string, col string) *float64 {
	return ParseNumber(c.cell(cells, col))
}

// Coerce builds a project from one data row. Display fields are left unset.
func (c *Coercer) Coerce(cells []string) domain.Project {
	return domain.Project{
		Company:         c.text(cells, ColCompany),
		Project:         c.text(cells, ColProject),
		Province:        c.text(cells, ColProvince),
		Sector:          c.text(cells, ColSector),
		Group:           c.text(cells, ColGroup),
		Cleantech:       NormalizeCleantech(c.cell(cells, ColCleantech)),
		StartYear:       c.number(cells, ColStartYear),
		EndYear:         c.number(cells, ColEndYear),
		ProjectCost:     c.number(cells, ColProjectCost),
		CurrentSurvival: parseFlag(c.cell(cells, ColCurrentSurvival)),
		EndSuccess:      parseFlag(c.cell(cells, ColEndSuccess)),
		StartStatus:     c.text(cells, ColStartStatus),
		EndStatus:       c.text(cells, ColEndStatus),
		Latitude:        c.number(cells, ColLatitude),
		Longitude:       c.number(cells, ColLongitude),
		BlendedProb:     c.number(cells, ColBlendedProb),
		PriorityIndex:   c.number(cells, ColPriorityIndex),
		PowerRanking:    c.number(cells, ColPowerRanking),
	}
}
