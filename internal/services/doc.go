// Package services orchestrates the dashboard pipeline for one request:
// load a dataset snapshot, filter it, then build the requested view.
//
// Every call reloads the dataset through its DatasetLoader. Nothing is cached
// between requests, so concurrent callers never share mutable state.
//
// A dataset that cannot be loaded is not an error for the views. The service
// substitutes an empty dataset and reports the load message as the
// schema message, which is what the dashboard shows in place of the charts.
package services
