// Package exporter writes projects and aggregate tables as CSV.
//
// Project exports use csvutil over the domain.Project csv tags, so the column
// set and order follow the struct: every source column plus the derived
// display fields, no index column. Missing values are written as empty cells.
//
// CrossTab exports write one column per grouping dimension followed by the
// aggregated value.
//
// Example usage:
//
//	w := exporter.NewCSVWriter("/var/lib/mpidash/exports", logger)
//	err := w.WriteProjects("filtered_projects.csv", records, exporter.WriteOptions{})
package exporter
