package http

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"mpidash/internal/dataprocessing"
	apierrors "mpidash/internal/errors"
	"mpidash/internal/exporter"
	"mpidash/internal/services"
	"mpidash/pkg/contracts/domain"
)

// DashboardService is the pipeline the handler serves.
type DashboardService interface {
	Options(ctx context.Context) (domain.Options, error)
	Filter(ctx context.Context, req domain.DashboardRequest) (domain.FilteredDataset, error)
	KPIs(ctx context.Context, req domain.DashboardRequest) (services.KPIReport, error)
	Ranking(ctx context.Context, req domain.DashboardRequest) (domain.RankingView, error)
	Sector(ctx context.Context, req domain.DashboardRequest) (domain.SectorView, error)
	Timeline(ctx context.Context, req domain.DashboardRequest) (domain.TimelineView, error)
	Map(ctx context.Context, req domain.DashboardRequest) (dataprocessing.MapLayer, error)
	Flow(ctx context.Context, req domain.DashboardRequest) (domain.TransitionGraph, error)
	ExportCSV(ctx context.Context, req domain.DashboardRequest, w io.Writer) (int, error)
}

// RequestValidator checks decoded request bodies.
type RequestValidator interface {
	ValidateStruct(v interface{}) error
}

// DashboardHandler serves the dashboard views with RFC 7807 errors.
type DashboardHandler struct {
	service      DashboardService
	validator    RequestValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	exportAudit  func(http.Handler) http.Handler
}

// NewDashboardHandler creates a dashboard handler. exportAudit, when set,
// wraps the export route.
func NewDashboardHandler(service DashboardService, validator RequestValidator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler, exportAudit func(http.Handler) http.Handler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		validator:    validator,
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
		exportAudit:  exportAudit,
	}
}

// Routes returns the dashboard routes
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/options", h.GetOptions)

	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Post("/filter", h.PostFilter)
		r.Post("/kpis", h.PostKPIs)
		r.Post("/ranking", h.PostRanking)
		r.Post("/sector", h.PostSector)
		r.Post("/timeline", h.PostTimeline)
		r.Post("/map", h.PostMap)
		r.Post("/flow", h.PostFlow)
	})

	if h.exportAudit != nil {
		r.With(h.exportAudit).Post("/export", h.PostExport)
	} else {
		r.Post("/export", h.PostExport)
	}
	return r
}

// decodeRequest reads a DashboardRequest. An empty body is the zero request.
func (h *DashboardHandler) decodeRequest(r *http.Request) (domain.DashboardRequest, error) {
	var req domain.DashboardRequest
	if r.Body != nil && r.Body != http.NoBody {
		if err := render.DecodeJSON(r.Body, &req); err != nil && !errors.Is(err, io.EOF) {
			return req, err
		}
	}
	if h.validator != nil {
		if err := h.validator.ValidateStruct(req); err != nil {
			return req, err
		}
	}
	return req.WithDefaults(), nil
}

// handleServiceError maps service errors onto API errors.
func (h *DashboardHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case services.IsRequestError(err):
		err = apierrors.InvalidRequestWithError(err)
	case errors.Is(err, services.ErrExportFailed):
		err = apierrors.ExportError(err)
	}
	h.errorHandler.HandleError(w, r, err)
}

// serve decodes the request, runs view and renders its result.
func serve[T any](h *DashboardHandler, w http.ResponseWriter, r *http.Request, view func(context.Context, domain.DashboardRequest) (T, error)) {
	req, err := h.decodeRequest(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	result, err := view(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, result)
}

// GetOptions handles GET /api/dashboard/options
func (h *DashboardHandler) GetOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.service.Options(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, opts)
}

// PostFilter handles POST /api/dashboard/filter
func (h *DashboardHandler) PostFilter(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, h.service.Filter)
}

// PostKPIs handles POST /api/dashboard/kpis
func (h *DashboardHandler) PostKPIs(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, h.service.KPIs)
}

// PostRanking handles POST /api/dashboard/ranking
func (h *DashboardHandler) PostRanking(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, h.service.Ranking)
}

// PostSector handles POST /api/dashboard/sector
func (h *DashboardHandler) PostSector(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, h.service.Sector)
}

// PostTimeline handles POST /api/dashboard/timeline
func (h *DashboardHandler) PostTimeline(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, h.service.Timeline)
}

// PostMap handles POST /api/dashboard/map
func (h *DashboardHandler) PostMap(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, h.service.Map)
}

// PostFlow handles POST /api/dashboard/flow
func (h *DashboardHandler) PostFlow(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, h.service.Flow)
}

// PostExport handles POST /api/dashboard/export. The CSV is buffered so a
// failure can still be reported as a problem response.
func (h *DashboardHandler) PostExport(w http.ResponseWriter, r *http.Request) {
	req, err := h.decodeRequest(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	var buf bytes.Buffer
	rows, err := h.service.ExportCSV(r.Context(), req, &buf)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "CSV export",
		slog.Int("rows", rows),
		slog.Int("bytes", buf.Len()))

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+exporter.ExportFileName+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
