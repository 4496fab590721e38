package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agencyops/occurrence-engine/internal/baselines"
	"github.com/agencyops/occurrence-engine/internal/config"
	"github.com/agencyops/occurrence-engine/internal/models"
	"github.com/agencyops/occurrence-engine/internal/services"
)

type fixedSource struct {
	occurrences []models.Occurrence
}

func (s fixedSource) FetchOccurrences(context.Context) ([]models.Occurrence, int, error) {
	return s.occurrences, 0, nil
}

func newTestRouter(t *testing.T, occurrences []models.Occurrence) http.Handler {
	t.Helper()
	service := services.NewDashboardService(nil, fixedSource{occurrences: occurrences}, nil, baselines.Default(), time.Minute)
	require.NoError(t, service.Refresh(context.Background()))

	server := NewServer(config.ServerConfig{Address: ":0"}, nil, NewHandler(nil, service))
	return server.httpServer.Handler
}

func apiPopulation() []models.Occurrence {
	created, _ := time.Parse(time.RFC3339, "2026-03-09T06:00:00Z")
	return []models.Occurrence{
		{
			ID: "OC-1", Agency: "0005 Centro", Segment: models.SegmentAA, Equipment: "ATM",
			Vendor: "NCR", Carrier: "TransValores", Status: models.StatusInProgress,
			Severity: models.SeverityCritical, EquipmentState: models.EquipmentInoperative,
			CreatedAt: created, Description: "dispenser jam", Region: "SP",
		},
		{
			ID: "OC-2", Agency: "1234 Paulista", Segment: models.SegmentAB, Equipment: "Cash Recycler",
			Vendor: "Diebold", Status: models.StatusClosed, Severity: models.SeverityLow,
			EquipmentState: models.EquipmentOperational, CreatedAt: created.Add(-50 * time.Hour),
			Description: "cleaned", Region: "SP",
		},
	}
}

func TestOccurrencesEndpoint(t *testing.T) {
	router := newTestRouter(t, apiPopulation())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/occurrences?vendor=NCR", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body occurrencesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Revision)
	require.Len(t, body.Occurrences, 1)
	assert.Equal(t, "OC-1", body.Occurrences[0].ID)
	assert.Equal(t, 1, body.Counters.Total)
}

func TestOccurrencesEndpointRejectsBadFilter(t *testing.T) {
	router := newTestRouter(t, apiPopulation())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/occurrences?severity=urgent", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unknown severity")
}

func TestDashboardEndpoint(t *testing.T) {
	router := newTestRouter(t, apiPopulation())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var view models.DerivedView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, 2, view.Counters.Total)
	assert.NotEmpty(t, view.AgingTable)
	assert.NotEmpty(t, view.Criticality)
}

func TestCriticalityEndpoint(t *testing.T) {
	router := newTestRouter(t, apiPopulation())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/criticality", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body criticalityResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Rows, 2)
	for _, row := range body.Rows {
		assert.GreaterOrEqual(t, row.Score, 0.0)
		assert.LessOrEqual(t, row.Score, 100.0)
	}
}

func TestFilterOptionsEndpoint(t *testing.T) {
	router := newTestRouter(t, apiPopulation())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/filter-options?carrier=TransValores", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var options models.FilterOptions
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &options))
	assert.Equal(t, []string{"NCR"}, options.Vendors)
	assert.NotEmpty(t, options.AgingRanges)
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t, apiPopulation())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "\"status\":\"ok\"")
}

func TestHealthEndpointWithoutSnapshot(t *testing.T) {
	service := services.NewDashboardService(nil, fixedSource{}, nil, baselines.Default(), time.Minute)
	server := NewServer(config.ServerConfig{Address: ":0"}, nil, NewHandler(nil, service))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	server.httpServer.Handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
