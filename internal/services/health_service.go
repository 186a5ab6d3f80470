package services

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"mpidash/internal/dataprocessing"
	"mpidash/internal/validation"
	"mpidash/pkg/contracts"
)

// CandidateLister reports the dataset files a loader would try.
type CandidateLister interface {
	Candidates() []string
}

// HealthService provides health check functionality
type HealthService struct {
	version   string
	dataDir   string
	files     CandidateLister
	validator *validation.FileValidator
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Runtime   map[string]interface{}   `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Source  string `json:"source,omitempty"`
}

// NewHealthService creates a health service. files may be nil.
func NewHealthService(version, dataDir string, files CandidateLister, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		dataDir:   dataDir,
		files:     files,
		validator: validation.NewFileValidator(logger),
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services: map[string]ServiceHealth{
			"data": hs.checkDataHealth(),
		},
	}
	if status.Services["data"].Status != "ready" {
		status.Status = "degraded"
	}

	hs.logger.DebugContext(ctx, "Health check completed",
		slog.String("status", status.Status))
	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	build := contracts.GetVersionInfo()
	return map[string]interface{}{
		"version":      hs.version,
		"build_time":   build.BuildTime,
		"git_commit":   build.GitCommit,
		"data_format":  build.DataFormat,
		"go_version":   build.GoVersion,
		"os":           build.OS,
		"arch":         build.Architecture,
		"uptime":       time.Since(hs.startTime).Seconds(),
		"start_time":   hs.startTime.Format(time.RFC3339),
		"current_time": time.Now().Format(time.RFC3339),
	}
}

// checkDataHealth looks for the first usable dataset candidate. The
// dashboard still serves without one, so a miss degrades rather than fails.
func (hs *HealthService) checkDataHealth() ServiceHealth {
	if err := hs.validator.ValidateInputDirectory(hs.dataDir); err != nil {
		return ServiceHealth{Status: "not_ready", Message: err.Error()}
	}
	if hs.files == nil {
		return ServiceHealth{Status: "ready"}
	}
	for _, path := range hs.files.Candidates() {
		if err := hs.validator.ValidateDatasetFile(path); err == nil {
			return ServiceHealth{Status: "ready", Source: path}
		}
	}

	workbooks, _ := hs.validator.CountFiles(hs.dataDir, "*"+dataprocessing.ExtXLSX)
	return ServiceHealth{
		Status:  "not_ready",
		Message: fmt.Sprintf("no dataset file found (%d workbooks in %s)", workbooks, hs.dataDir),
	}
}
