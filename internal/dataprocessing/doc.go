// Package dataprocessing implements the Filter, Normalize and Aggregate
// pipeline behind the MPI dashboard.
//
// # Loading
//
// A Loader resolves the dataset file (explicit override, preferred names,
// then any workbook in the data directory) and reads it into a Dataset.
// Cells are coerced once at load: numbers tolerate thousands separators,
// blanks become missing, cleantech is normalized to Yes/No. A dataset that
// lacks required columns still loads; its SchemaMessage names what is missing.
//
// # Pipeline
//
//	ds, err := loader.Load(ctx)
//	records := ds.Filter(spec)                  // conjunctive FilterSpec
//	kpis := dataprocessing.ComputeKPIs(records) // headline numbers
//	view := dataprocessing.BuildRankingView(records, 10)
//
// Views never mutate the dataset and accept an empty subset.
//
// Histograms use gonum; map features are built with go-geom.
package dataprocessing
