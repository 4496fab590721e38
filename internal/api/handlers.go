package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/agencyops/occurrence-engine/internal/filters"
	"github.com/agencyops/occurrence-engine/internal/models"
	"github.com/agencyops/occurrence-engine/internal/services"
)

// Handler serves the dashboard endpoints. Every endpoint accepts the same
// flat filter query parameters; an unknown value in any of them is a 400.
type Handler struct {
	logger  *slog.Logger
	service *services.DashboardService
}

// NewHandler constructs the dashboard HTTP handler.
func NewHandler(logger *slog.Logger, service *services.DashboardService) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service}
}

type occurrencesResponse struct {
	Revision    string                 `json:"revision"`
	Counters    models.SummaryCounters `json:"counters"`
	Occurrences []models.Occurrence    `json:"occurrences"`
}

type criticalityResponse struct {
	Rows []models.CriticalityRow `json:"rows"`
}

// Occurrences returns the filtered occurrence list with its card counters.
func (h *Handler) Occurrences(c *gin.Context) {
	criteria, err := filters.Decode(c.Request.URL.Query())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	revision, occurrences, counters, err := h.service.FilteredOccurrences(criteria)
	if err != nil {
		h.logger.Warn("occurrences request failed", slog.Any("error", err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "data snapshot not ready"})
		return
	}

	c.JSON(http.StatusOK, occurrencesResponse{
		Revision:    revision,
		Counters:    counters,
		Occurrences: occurrences,
	})
}

// Dashboard returns the full derived view for the requested filter state.
func (h *Handler) Dashboard(c *gin.Context) {
	criteria, err := filters.Decode(c.Request.URL.Query())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.service.DashboardView(c.Request.Context(), criteria)
	if err != nil {
		h.logger.Warn("dashboard request failed", slog.Any("error", err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "data snapshot not ready"})
		return
	}

	c.JSON(http.StatusOK, view)
}

// Criticality returns scored equipment groups for the filtered subset.
func (h *Handler) Criticality(c *gin.Context) {
	criteria, err := filters.Decode(c.Request.URL.Query())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rows, err := h.service.CriticalityRows(criteria)
	if err != nil {
		h.logger.Warn("criticality request failed", slog.Any("error", err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "data snapshot not ready"})
		return
	}

	c.JSON(http.StatusOK, criticalityResponse{Rows: rows})
}

// FilterOptions returns the selectable values for each filter control,
// narrowed by the carrier and segment selections in the query string.
func (h *Handler) FilterOptions(c *gin.Context) {
	criteria, err := filters.Decode(c.Request.URL.Query())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.service.FilterOptions(criteria))
}

// Health reports process liveness and snapshot readiness.
func (h *Handler) Health(c *gin.Context) {
	revision, occurrences := h.service.Snapshot()
	status := "ok"
	code := http.StatusOK
	if revision == "" {
		status = "no snapshot"
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":      status,
		"revision":    revision,
		"occurrences": len(occurrences),
		"time":        time.Now().UTC().Format(time.RFC3339),
	})
}
