package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mpidash/internal/dataprocessing"
	apierrors "mpidash/internal/errors"
	"mpidash/internal/middleware"
	"mpidash/internal/services"
	"mpidash/internal/shared/testutil"
	"mpidash/pkg/contracts/domain"
)

// MockDashboardService is a mock implementation of DashboardService
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Options(ctx context.Context) (domain.Options, error) {
	args := m.Called()
	return args.Get(0).(domain.Options), args.Error(1)
}

func (m *MockDashboardService) Filter(ctx context.Context, req domain.DashboardRequest) (domain.FilteredDataset, error) {
	args := m.Called(req)
	return args.Get(0).(domain.FilteredDataset), args.Error(1)
}

func (m *MockDashboardService) KPIs(ctx context.Context, req domain.DashboardRequest) (services.KPIReport, error) {
	args := m.Called(req)
	return args.Get(0).(services.KPIReport), args.Error(1)
}

func (m *MockDashboardService) Ranking(ctx context.Context, req domain.DashboardRequest) (domain.RankingView, error) {
	args := m.Called(req)
	return args.Get(0).(domain.RankingView), args.Error(1)
}

func (m *MockDashboardService) Sector(ctx context.Context, req domain.DashboardRequest) (domain.SectorView, error) {
	args := m.Called(req)
	return args.Get(0).(domain.SectorView), args.Error(1)
}

func (m *MockDashboardService) Timeline(ctx context.Context, req domain.DashboardRequest) (domain.TimelineView, error) {
	args := m.Called(req)
	return args.Get(0).(domain.TimelineView), args.Error(1)
}

func (m *MockDashboardService) Map(ctx context.Context, req domain.DashboardRequest) (dataprocessing.MapLayer, error) {
	args := m.Called(req)
	return args.Get(0).(dataprocessing.MapLayer), args.Error(1)
}

func (m *MockDashboardService) Flow(ctx context.Context, req domain.DashboardRequest) (domain.TransitionGraph, error) {
	args := m.Called(req)
	return args.Get(0).(domain.TransitionGraph), args.Error(1)
}

func (m *MockDashboardService) ExportCSV(ctx context.Context, req domain.DashboardRequest, w io.Writer) (int, error) {
	args := m.Called(req)
	if body, ok := args.Get(0).(string); ok && body != "" {
		_, _ = io.WriteString(w, body)
	}
	return args.Int(1), args.Error(2)
}

func newTestRouter(t *testing.T, svc DashboardService) http.Handler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	errHandler := apierrors.NewErrorHandler(logger, false)
	validation := middleware.NewValidationMiddleware(logger, errHandler)
	h := NewDashboardHandler(svc, validation, logger, errHandler, middleware.AuditLog(logger))

	r := chi.NewRouter()
	r.Mount("/api/dashboard", h.Routes())
	return r
}

func defaults() domain.DashboardRequest {
	return domain.DashboardRequest{TopN: domain.DefaultTopN, AggMode: domain.AggCount}
}

func TestDashboardHandler_GetOptions(t *testing.T) {
	svc := new(MockDashboardService)
	svc.On("Options").Return(domain.Options{Source: "data/sample_mpi.xlsx", Provinces: []string{"AB", "ON"}, TopN: 10}, nil)

	rec := httptest.NewRecorder()
	newTestRouter(t, svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard/options", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got domain.Options
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, []string{"AB", "ON"}, got.Provinces)
	svc.AssertExpectations(t)
}

func TestDashboardHandler_Views(t *testing.T) {
	energy := defaults()
	energy.Filter.Sector = []string{"Energy"}

	tests := []struct {
		name     string
		path     string
		body     string
		setup    func(m *MockDashboardService)
		contains string
	}{
		{
			name: "filter",
			path: "/filter",
			body: `{"filter":{"sector":["Energy"]}}`,
			setup: func(m *MockDashboardService) {
				m.On("Filter", energy).Return(domain.FilteredDataset{Source: "x.xlsx", TotalRows: 4, Rows: []domain.Project{{Project: "Bay LNG"}}}, nil)
			},
			contains: `"total_rows":4`,
		},
		{
			name: "kpis with empty body",
			path: "/kpis",
			setup: func(m *MockDashboardService) {
				m.On("KPIs", defaults()).Return(services.KPIReport{KPIs: domain.KPIs{TotalProjects: 3}}, nil)
			},
			contains: `"total_projects":3`,
		},
		{
			name: "ranking top_n passed through",
			path: "/ranking",
			body: `{"top_n":5}`,
			setup: func(m *MockDashboardService) {
				m.On("Ranking", domain.DashboardRequest{TopN: 5, AggMode: domain.AggCount}).Return(domain.RankingView{}, nil)
			},
			contains: `"by_score"`,
		},
		{
			name: "sector cost mode",
			path: "/sector",
			body: `{"agg_mode":"cost"}`,
			setup: func(m *MockDashboardService) {
				m.On("Sector", domain.DashboardRequest{TopN: domain.DefaultTopN, AggMode: domain.AggCost}).
					Return(domain.SectorView{SectorGroup: domain.CrossTab{Mode: domain.AggCost}}, nil)
			},
			contains: `"mode":"cost"`,
		},
		{
			name: "timeline",
			path: "/timeline",
			body: `{}`,
			setup: func(m *MockDashboardService) {
				m.On("Timeline", defaults()).Return(domain.TimelineView{}, nil)
			},
			contains: `"cost_histogram"`,
		},
		{
			name: "map",
			path: "/map",
			body: `{}`,
			setup: func(m *MockDashboardService) {
				m.On("Map", defaults()).Return(dataprocessing.MapLayer{Message: dataprocessing.NoGeocodedMessage}, nil)
			},
			contains: dataprocessing.NoGeocodedMessage,
		},
		{
			name: "flow",
			path: "/flow",
			body: `{}`,
			setup: func(m *MockDashboardService) {
				m.On("Flow", defaults()).Return(domain.TransitionGraph{Nodes: []string{"No data"}}, nil)
			},
			contains: `"nodes":["No data"]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockDashboardService)
			tt.setup(svc)

			req := httptest.NewRequest(http.MethodPost, "/api/dashboard"+tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			newTestRouter(t, svc).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.contains)
			svc.AssertExpectations(t)
		})
	}
}

func TestDashboardHandler_Errors(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setup          func(m *MockDashboardService)
		expectedStatus int
		expectedType   string
	}{
		{
			name:           "top_n out of range",
			body:           `{"top_n":50}`,
			expectedStatus: http.StatusBadRequest,
			expectedType:   apierrors.TypeValidation,
		},
		{
			name:           "unknown agg mode",
			body:           `{"agg_mode":"sum"}`,
			expectedStatus: http.StatusBadRequest,
			expectedType:   apierrors.TypeValidation,
		},
		{
			name:           "inverted cost range",
			body:           `{"filter":{"cost_range":{"min":10,"max":1}}}`,
			expectedStatus: http.StatusBadRequest,
			expectedType:   apierrors.TypeValidation,
		},
		{
			name:           "malformed JSON",
			body:           `{"filter":`,
			expectedStatus: http.StatusBadRequest,
			expectedType:   apierrors.TypeValidation,
		},
		{
			name:           "wrong field type",
			body:           `{"top_n":"ten"}`,
			expectedStatus: http.StatusBadRequest,
			expectedType:   apierrors.TypeValidation,
		},
		{
			name: "service request error",
			body: `{}`,
			setup: func(m *MockDashboardService) {
				m.On("Flow", defaults()).Return(domain.TransitionGraph{}, fmt.Errorf("%w: bad", services.ErrInvalidRequest))
			},
			expectedStatus: http.StatusBadRequest,
			expectedType:   apierrors.TypeValidation,
		},
		{
			name: "unexpected failure",
			body: `{}`,
			setup: func(m *MockDashboardService) {
				m.On("Flow", defaults()).Return(domain.TransitionGraph{}, errors.New("boom"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedType:   apierrors.TypeInternal,
		},
		{
			name: "cancelled",
			body: `{}`,
			setup: func(m *MockDashboardService) {
				m.On("Flow", defaults()).Return(domain.TransitionGraph{}, context.Canceled)
			},
			expectedStatus: http.StatusGatewayTimeout,
			expectedType:   apierrors.TypeTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockDashboardService)
			if tt.setup != nil {
				tt.setup(svc)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/dashboard/flow", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			newTestRouter(t, svc).ServeHTTP(rec, req)

			require.Equal(t, tt.expectedStatus, rec.Code)
			var problem map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
			assert.Equal(t, tt.expectedType, problem["type"])
			assert.Equal(t, "/api/dashboard/flow", problem["instance"])
			svc.AssertExpectations(t)
		})
	}
}

func TestDashboardHandler_Export(t *testing.T) {
	t.Run("csv attachment", func(t *testing.T) {
		svc := new(MockDashboardService)
		svc.On("ExportCSV", defaults()).Return("company,project\nAcme,Pit\n", 1, nil)

		rec := httptest.NewRecorder()
		newTestRouter(t, svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/dashboard/export", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "filtered_projects.csv")
		assert.Equal(t, "company,project\nAcme,Pit\n", rec.Body.String())
	})

	t.Run("export failure", func(t *testing.T) {
		svc := new(MockDashboardService)
		svc.On("ExportCSV", defaults()).Return("", 0, fmt.Errorf("%w: disk", services.ErrExportFailed))

		rec := httptest.NewRecorder()
		newTestRouter(t, svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/dashboard/export", strings.NewReader(`{}`)))

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), apierrors.TypeExport)
		assert.Empty(t, rec.Header().Get("Content-Disposition"))
	})
}
