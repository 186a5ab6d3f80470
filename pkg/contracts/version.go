package contracts

import (
	"fmt"
	"runtime"
)

const (
	// Version is the release of the dashboard API and CLI.
	Version = "1.0.0"

	// DataFormatVersion names the dataset layout the loader expects: the
	// 18-column MPI project sheet.
	DataFormatVersion = "mpi-18"

	// APIVersion is the version of the JSON dashboard API.
	APIVersion = "v1"
)

// Set during build using ldflags, e.g.
//
//	-X mpidash/pkg/contracts.GitCommit=$(git rev-parse --short HEAD)
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// VersionInfo contains detailed version information
type VersionInfo struct {
	Version      string `json:"version"`
	BuildTime    string `json:"build_time"`
	GitCommit    string `json:"git_commit"`
	GoVersion    string `json:"go_version"`
	OS           string `json:"os"`
	Architecture string `json:"architecture"`
	DataFormat   string `json:"data_format"`
	APIVersion   string `json:"api_version"`
}

// GetVersionInfo returns detailed version information
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:      Version,
		BuildTime:    BuildTime,
		GitCommit:    GitCommit,
		GoVersion:    runtime.Version(),
		OS:           runtime.GOOS,
		Architecture: runtime.GOARCH,
		DataFormat:   DataFormatVersion,
		APIVersion:   APIVersion,
	}
}

// GetFullVersionString returns a one-line version string for CLI output.
func GetFullVersionString() string {
	info := GetVersionInfo()
	return fmt.Sprintf("%s (built: %s, commit: %s, go: %s, %s/%s)",
		info.Version, info.BuildTime, info.GitCommit, info.GoVersion, info.OS, info.Architecture)
}
