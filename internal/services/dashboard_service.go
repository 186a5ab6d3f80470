package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"mpidash/internal/dataprocessing"
	apierrors "mpidash/internal/errors"
	"mpidash/internal/exporter"
	"mpidash/internal/infrastructure"
	"mpidash/pkg/contracts/domain"
)

const tracerName = "mpidash/services"

// DatasetLoader produces a fresh dataset snapshot.
type DatasetLoader interface {
	Load(ctx context.Context) (*dataprocessing.Dataset, error)
}

// Snapshot is the dataset one request works on. LoadMessage is set when the
// source could not be read and Dataset is the empty fallback.
type Snapshot struct {
	Dataset     *dataprocessing.Dataset
	LoadMessage string
}

// SchemaMessage prefers the load failure over schema problems.
func (s Snapshot) SchemaMessage() string {
	if s.LoadMessage != "" {
		return s.LoadMessage
	}
	return s.Dataset.SchemaMessage()
}

// KPIReport carries raw and formatted KPIs for a subset.
type KPIReport struct {
	Source        string            `json:"source"`
	SchemaMessage string            `json:"schema_message"`
	KPIs          domain.KPIs       `json:"kpis"`
	Display       domain.KPIDisplay `json:"display"`
}

// Summary is the CLI's one-shot view: KPIs plus the rankings.
type Summary struct {
	KPIReport
	MatchedRows int                `json:"matched_rows"`
	TotalRows   int                `json:"total_rows"`
	Ranking     domain.RankingView `json:"ranking"`
}

// ValidationReport describes the dataset a loader resolves to.
type ValidationReport struct {
	Source         string   `json:"source"`
	SchemaMessage  string   `json:"schema_message"`
	Columns        []string `json:"columns"`
	MissingColumns []string `json:"missing_columns"`
	Rows           int      `json:"rows"`
}

// DashboardService runs the filter and aggregate pipeline per request.
type DashboardService struct {
	loader   DatasetLoader
	exports  *exporter.CSVWriter
	metrics  *infrastructure.PipelineMetrics
	validate *validator.Validate
	tracer   trace.Tracer
	logger   *slog.Logger
}

// NewDashboardService creates the service. exports and metrics may be nil.
func NewDashboardService(loader DatasetLoader, exports *exporter.CSVWriter, metrics *infrastructure.PipelineMetrics, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &DashboardService{
		loader:   loader,
		exports:  exports,
		metrics:  metrics,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		tracer:   otel.Tracer(tracerName),
		logger:   logger.With(slog.String("component", "dashboard_service")),
	}
}

// Snapshot loads the dataset. A load failure yields the empty dataset and a
// load message; only cancellation is returned as an error.
func (s *DashboardService) Snapshot(ctx context.Context) (Snapshot, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.load")
	defer span.End()

	start := time.Now()
	ds, err := s.loader.Load(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return Snapshot{}, ctx.Err()
		}
		s.metrics.RecordDatasetLoad(ctx, "", 0, time.Since(start), err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.WarnContext(ctx, "Dataset unavailable, using empty dataset",
			slog.String("error", err.Error()))
		return Snapshot{Dataset: dataprocessing.EmptyDataset(), LoadMessage: err.Error()}, nil
	}

	s.metrics.RecordDatasetLoad(ctx, ds.Source(), ds.Len(), time.Since(start), nil)
	span.SetAttributes(
		attribute.String("dataset.source", ds.Source()),
		attribute.Int("dataset.rows", ds.Len()),
	)
	return Snapshot{Dataset: ds}, nil
}

// Prepare validates req and fills unset view parameters.
func (s *DashboardService) Prepare(req domain.DashboardRequest) (domain.DashboardRequest, error) {
	if err := s.validate.Struct(req); err != nil {
		return req, apierrors.NewAppError(apierrors.ErrTypeValidation, err.Error(), ErrInvalidRequest)
	}
	return req.WithDefaults(), nil
}

// subset loads a snapshot and applies the request filter.
func (s *DashboardService) subset(ctx context.Context, view string, req domain.DashboardRequest) (Snapshot, []domain.Project, domain.DashboardRequest, error) {
	req, err := s.Prepare(req)
	if err != nil {
		return Snapshot{}, nil, req, err
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return Snapshot{}, nil, req, err
	}

	_, span := s.tracer.Start(ctx, "dashboard.filter", trace.WithAttributes(attribute.String("view", view)))
	records := snap.Dataset.Filter(req.Filter)
	span.SetAttributes(attribute.Int("filter.matched", len(records)))
	span.End()

	s.metrics.RecordFilter(ctx, view, len(records))
	s.logger.DebugContext(ctx, "Filter applied",
		slog.String("view", view),
		slog.Int("total", snap.Dataset.Len()),
		slog.Int("matched", len(records)))
	return snap, records, req, nil
}

// Options returns the sidebar choices for the current dataset.
func (s *DashboardService) Options(ctx context.Context) (domain.Options, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return domain.Options{}, err
	}
	opts := dataprocessing.BuildOptions(snap.Dataset)
	opts.SchemaMessage = snap.SchemaMessage()
	return opts, nil
}

// Filter returns the filtered rows.
func (s *DashboardService) Filter(ctx context.Context, req domain.DashboardRequest) (domain.FilteredDataset, error) {
	snap, records, _, err := s.subset(ctx, "filter", req)
	if err != nil {
		return domain.FilteredDataset{}, err
	}
	return domain.FilteredDataset{
		Source:         snap.Dataset.Source(),
		SchemaMessage:  snap.SchemaMessage(),
		MissingColumns: snap.Dataset.MissingColumns(),
		Columns:        snap.Dataset.Columns(),
		Rows:           records,
		TotalRows:      snap.Dataset.Len(),
	}, nil
}

// KPIs returns the headline numbers of the filtered subset.
func (s *DashboardService) KPIs(ctx context.Context, req domain.DashboardRequest) (KPIReport, error) {
	snap, records, _, err := s.subset(ctx, "kpis", req)
	if err != nil {
		return KPIReport{}, err
	}
	return kpiReport(snap, records), nil
}

func kpiReport(snap Snapshot, records []domain.Project) KPIReport {
	k := dataprocessing.ComputeKPIs(records)
	return KPIReport{
		Source:        snap.Dataset.Source(),
		SchemaMessage: snap.SchemaMessage(),
		KPIs:          k,
		Display:       dataprocessing.FormatKPIs(k),
	}
}

// Ranking returns the top-N rankings, scatter and quadrant counts.
func (s *DashboardService) Ranking(ctx context.Context, req domain.DashboardRequest) (domain.RankingView, error) {
	_, records, req, err := s.subset(ctx, "ranking", req)
	if err != nil {
		return domain.RankingView{}, err
	}
	return dataprocessing.BuildRankingView(records, req.TopN), nil
}

// Sector returns the sector, province and cleantech cross-tabs.
func (s *DashboardService) Sector(ctx context.Context, req domain.DashboardRequest) (domain.SectorView, error) {
	_, records, req, err := s.subset(ctx, "sector", req)
	if err != nil {
		return domain.SectorView{}, err
	}
	return dataprocessing.BuildSectorView(records, req.AggMode), nil
}

// Timeline returns start-year counts and cost distributions.
func (s *DashboardService) Timeline(ctx context.Context, req domain.DashboardRequest) (domain.TimelineView, error) {
	_, records, _, err := s.subset(ctx, "timeline", req)
	if err != nil {
		return domain.TimelineView{}, err
	}
	return dataprocessing.BuildTimelineView(records), nil
}

// Map returns the GeoJSON layer of geocoded projects.
func (s *DashboardService) Map(ctx context.Context, req domain.DashboardRequest) (dataprocessing.MapLayer, error) {
	_, records, _, err := s.subset(ctx, "map", req)
	if err != nil {
		return dataprocessing.MapLayer{}, err
	}
	return dataprocessing.BuildMapLayer(records), nil
}

// Flow returns the start-status to end-status transition graph.
func (s *DashboardService) Flow(ctx context.Context, req domain.DashboardRequest) (domain.TransitionGraph, error) {
	_, records, _, err := s.subset(ctx, "flow", req)
	if err != nil {
		return domain.TransitionGraph{}, err
	}
	return dataprocessing.BuildTransitionGraph(records), nil
}

// Summary returns KPIs and rankings in one payload.
func (s *DashboardService) Summary(ctx context.Context, req domain.DashboardRequest) (Summary, error) {
	snap, records, req, err := s.subset(ctx, "summary", req)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		KPIReport:   kpiReport(snap, records),
		MatchedRows: len(records),
		TotalRows:   snap.Dataset.Len(),
		Ranking:     dataprocessing.BuildRankingView(records, req.TopN),
	}, nil
}

// ExportCSV writes the filtered subset to w and returns the row count.
func (s *DashboardService) ExportCSV(ctx context.Context, req domain.DashboardRequest, w io.Writer) (int, error) {
	_, records, _, err := s.subset(ctx, "export", req)
	if err != nil {
		return 0, err
	}
	if err := exporter.EncodeProjects(w, records, exporter.WriteOptions{}); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	s.metrics.RecordExport(ctx, len(records))
	return len(records), nil
}

// ExportFile writes the filtered subset below the export directory and
// returns the written path.
func (s *DashboardService) ExportFile(ctx context.Context, req domain.DashboardRequest, name string, opts exporter.WriteOptions) (string, int, error) {
	if s.exports == nil {
		return "", 0, fmt.Errorf("%w: no export directory configured", ErrExportFailed)
	}
	if name == "" {
		name = exporter.ExportFileName
	}
	_, records, _, err := s.subset(ctx, "export", req)
	if err != nil {
		return "", 0, err
	}
	path, err := s.exports.WriteProjects(name, records, opts)
	if err != nil {
		return "", 0, apierrors.NewStorageError("write export", fmt.Errorf("%w: %v", ErrExportFailed, err)).
			WithContext("file", name)
	}
	s.metrics.RecordExport(ctx, len(records))
	return path, len(records), nil
}

// Validate reports what the loader resolves to. The error wraps
// ErrDatasetUnavailable or ErrSchemaIncomplete; the report is filled either way.
func (s *DashboardService) Validate(ctx context.Context) (ValidationReport, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return ValidationReport{}, err
	}
	report := ValidationReport{
		Source:         snap.Dataset.Source(),
		SchemaMessage:  snap.SchemaMessage(),
		Columns:        snap.Dataset.Columns(),
		MissingColumns: snap.Dataset.MissingColumns(),
		Rows:           snap.Dataset.Len(),
	}
	switch {
	case snap.LoadMessage != "":
		return report, apierrors.NewDatasetError("no readable dataset",
			fmt.Errorf("%w: %s", ErrDatasetUnavailable, snap.LoadMessage))
	case len(report.MissingColumns) > 0:
		return report, apierrors.NewParsingError(report.SchemaMessage, ErrSchemaIncomplete).
			WithContext("source", report.Source)
	}
	return report, nil
}

// IsRequestError reports whether err was caused by the caller's input.
func IsRequestError(err error) bool {
	return errors.Is(err, ErrInvalidRequest)
}
