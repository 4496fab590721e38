package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agencyops/occurrence-engine/internal/baselines"
	"github.com/agencyops/occurrence-engine/internal/cache"
	"github.com/agencyops/occurrence-engine/internal/engine"
	"github.com/agencyops/occurrence-engine/internal/filters"
	"github.com/agencyops/occurrence-engine/internal/metrics"
	"github.com/agencyops/occurrence-engine/internal/models"
	"github.com/agencyops/occurrence-engine/internal/utils"
)

// OccurrenceSource supplies the raw occurrence population. The int result is
// the number of wire records rejected for invalid enumeration values.
type OccurrenceSource interface {
	FetchOccurrences(ctx context.Context) ([]models.Occurrence, int, error)
}

// snapshot is one immutable refresh of the occurrence population. The UUID
// revision keys memoized derived views, so a new snapshot naturally
// invalidates everything computed from the previous one.
type snapshot struct {
	revision          string
	occurrences       []models.Occurrence
	fetchedAt         time.Time
	invalidTimestamps int
}

// DashboardService owns the data snapshot lifecycle and runs the analytics
// engine over it on behalf of the HTTP handlers. The engine itself stays
// pure; everything stateful (snapshot swaps, memoization, instrumentation)
// lives here.
type DashboardService struct {
	logger    *slog.Logger
	source    OccurrenceSource
	cache     cache.Provider
	table     baselines.Table
	viewTTL   time.Duration
	latencies *utils.LatencyTracker
	now       func() time.Time

	mu   sync.RWMutex
	snap snapshot
}

// NewDashboardService constructs the dashboard facade.
func NewDashboardService(logger *slog.Logger, source OccurrenceSource, cacheProvider cache.Provider, table baselines.Table, viewTTL time.Duration) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	if cacheProvider == nil {
		cacheProvider = cache.NoopProvider{}
	}
	return &DashboardService{
		logger:    logger,
		source:    source,
		cache:     cacheProvider,
		table:     table,
		viewTTL:   viewTTL,
		latencies: utils.NewLatencyTracker(1024),
		now:       time.Now,
	}
}

// Refresh fetches a new occurrence snapshot and swaps it in atomically.
func (s *DashboardService) Refresh(ctx context.Context) error {
	if s.source == nil {
		return utils.NewAppError("dashboard.refresh", "occurrence source not configured", nil)
	}

	occurrences, rejected, err := s.source.FetchOccurrences(ctx)
	if err != nil {
		return utils.NewAppError("dashboard.refresh", "fetch occurrences failed", err)
	}

	invalid := 0
	for _, occ := range occurrences {
		if !occ.HasValidCreatedAt() {
			invalid++
		}
	}

	snap := snapshot{
		revision:          uuid.NewString(),
		occurrences:       occurrences,
		fetchedAt:         s.now(),
		invalidTimestamps: invalid,
	}

	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()

	metrics.ObserveSnapshot(len(occurrences), invalid, rejected)
	s.logger.Info("snapshot refreshed",
		slog.String("revision", snap.revision),
		slog.Int("occurrences", len(occurrences)),
		slog.Int("invalid_timestamps", invalid),
		slog.Int("rejected_records", rejected),
	)
	return nil
}

// RunRefreshLoop refreshes on the given interval until the context ends.
func (s *DashboardService) RunRefreshLoop(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Refresh(ctx); err != nil {
				s.logger.Warn("scheduled refresh failed", slog.Any("error", err))
			}
		}
	}
}

// Snapshot returns the current revision and population. The slice is shared
// and must be treated as read-only, which every engine function guarantees.
func (s *DashboardService) Snapshot() (string, []models.Occurrence) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.revision, s.snap.occurrences
}

// DashboardView returns the full derived view for the given filter state,
// memoized per (snapshot revision, encoded filters). Memoization is an
// optimisation only: a cache miss recomputes the identical result.
func (s *DashboardService) DashboardView(ctx context.Context, criteria filters.Criteria) (models.DerivedView, error) {
	revision, occurrences := s.Snapshot()
	if revision == "" {
		return models.DerivedView{}, utils.NewAppError("dashboard.view", "no data snapshot loaded", nil)
	}

	key := "view:" + revision + ":" + filters.Encode(criteria).Encode()
	if cached, err := s.cache.Get(ctx, key); err == nil {
		var view models.DerivedView
		if err := json.Unmarshal(cached, &view); err == nil {
			return view, nil
		}
		_ = s.cache.Del(ctx, key)
	}

	start := time.Now()
	view := engine.BuildView(occurrences, criteria, s.table, s.now())
	duration := time.Since(start)

	metrics.ObserveRecompute(duration, metrics.OutcomeSuccess)
	s.latencies.Observe(duration)
	if count := s.latencies.Count(); count >= 20 && count%20 == 0 {
		s.logger.Info("recompute latency",
			slog.Duration("p95", s.latencies.Percentile(95)),
			slog.Int("samples", count),
		)
	}

	if payload, err := json.Marshal(view); err == nil {
		_ = s.cache.Set(ctx, key, payload, s.viewTTL)
	}
	return view, nil
}

// FilteredOccurrences returns the filtered subset with its card counters.
func (s *DashboardService) FilteredOccurrences(criteria filters.Criteria) (string, []models.Occurrence, models.SummaryCounters, error) {
	revision, occurrences := s.Snapshot()
	if revision == "" {
		return "", nil, models.SummaryCounters{}, utils.NewAppError("dashboard.occurrences", "no data snapshot loaded", nil)
	}

	now := s.now()
	ev := engine.NewEvaluator(occurrences)
	filtered := ev.Filter(occurrences, criteria, now)
	return revision, filtered, engine.Summarize(filtered, ev, now), nil
}

// CriticalityRows returns scored equipment groups for the filtered subset.
func (s *DashboardService) CriticalityRows(criteria filters.Criteria) ([]models.CriticalityRow, error) {
	revision, occurrences := s.Snapshot()
	if revision == "" {
		return nil, utils.NewAppError("dashboard.criticality", "no data snapshot loaded", nil)
	}

	now := s.now()
	ev := engine.NewEvaluator(occurrences)
	filtered := ev.Filter(occurrences, criteria, now)
	return engine.ScoreGroups(filtered, s.table, now), nil
}

// FilterOptions returns the selectable filter values for the current
// population, narrowed by carrier and segment selections where applicable.
func (s *DashboardService) FilterOptions(criteria filters.Criteria) models.FilterOptions {
	_, occurrences := s.Snapshot()
	return engine.BuildFilterOptions(occurrences, criteria.Carriers, criteria.Segments)
}

// LatencyP95 returns the current p95 recompute latency.
func (s *DashboardService) LatencyP95() time.Duration {
	return s.latencies.Percentile(95)
}
