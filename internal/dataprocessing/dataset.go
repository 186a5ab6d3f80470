package dataprocessing

import (
	"slices"
	"strings"

	"mpidash/pkg/contracts/domain"
)

// Dataset is an immutable snapshot of coerced projects with display fields
// already derived. Construct it with NewDataset or EmptyDataset.
type Dataset struct {
	source  string
	columns []string
	missing []string
	records []domain.Project
}

// NewDataset validates header, coerces every non-blank row and derives
// display fields. Missing columns are recorded, not fatal.
func NewDataset(source string, header []string, rows [][]string) *Dataset {
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}

	coercer := NewCoercer(columns)
	records := make([]domain.Project, 0, len(rows))
	for _, row := range rows {
		if blankRow(row) {
			continue
		}
		records = append(records, DeriveDisplayFields(coercer.Coerce(row)))
	}

	return &Dataset{
		source:  source,
		columns: columns,
		missing: ValidateSchema(columns),
		records: records,
	}
}

// NewDatasetFromProjects wraps already typed projects, rederiving display fields.
func NewDatasetFromProjects(source string, projects []domain.Project) *Dataset {
	records := make([]domain.Project, len(projects))
	for i, p := range projects {
		records[i] = DeriveDisplayFields(p)
	}
	return &Dataset{
		source:  source,
		columns: slices.Clone(RequiredColumns),
		records: records,
	}
}

// EmptyDataset is the fallback used when no source could be loaded.
func EmptyDataset() *Dataset {
	return &Dataset{columns: slices.Clone(RequiredColumns)}
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Source is the path the dataset was read from, empty for the fallback.
func (d *Dataset) Source() string { return d.source }

// Columns returns the header as read.
func (d *Dataset) Columns() []string { return slices.Clone(d.columns) }

// MissingColumns lists required columns absent from the header.
func (d *Dataset) MissingColumns() []string { return slices.Clone(d.missing) }

// SchemaMessage is the display message for missing columns.
func (d *Dataset) SchemaMessage() string { return SchemaMessage(d.missing) }

// Len is the number of records.
func (d *Dataset) Len() int { return len(d.records) }

// Records returns a copy of the records.
func (d *Dataset) Records() []domain.Project { return slices.Clone(d.records) }

// Filter applies spec to the snapshot.
func (d *Dataset) Filter(spec domain.FilterSpec) []domain.Project {
	return Filter(d.records, spec)
}
