// Package shared holds helpers used by more than one layer.
//
// The testutil subpackage provides a capturing slog handler and project
// workbook fixtures for package tests.
package shared
