package ingestion

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/mr1hm/go-hazard-map/internal/models"
	"github.com/mr1hm/go-hazard-map/internal/observability"
)

type Trigger string

const (
	TriggerStartup  Trigger = "startup"
	TriggerInterval Trigger = "interval"
	TriggerManual   Trigger = "manual"
)

// Source produces a fresh snapshot on every call.
type Source interface {
	Aggregate(ctx context.Context) *models.DataSnapshot
}

type RefreshResult struct {
	Snapshot *models.DataSnapshot
	Applied  bool
}

// Refresher owns the current snapshot. Refreshes are numbered when they
// start; a finished refresh replaces the current snapshot only if no
// later-started refresh has already done so.
type Refresher struct {
	source   Source
	interval time.Duration
	clock    clockwork.Clock
	metrics  *observability.Metrics

	current atomic.Pointer[models.DataSnapshot]
	issued  atomic.Uint64

	mu      sync.Mutex
	applied uint64

	wg sync.WaitGroup
}

// NewRefresher builds a Refresher; an interval of 0 disables periodic refresh.
func NewRefresher(source Source, interval time.Duration, metrics *observability.Metrics) *Refresher {
	return &Refresher{
		source:   source,
		interval: interval,
		clock:    clockwork.NewRealClock(),
		metrics:  metrics,
	}
}

// Snapshot returns the current snapshot, or an empty one before the first
// refresh has been applied.
func (r *Refresher) Snapshot() *models.DataSnapshot {
	if s := r.current.Load(); s != nil {
		return s
	}
	return models.EmptySnapshot()
}

// Refresh aggregates all sources and publishes the result unless a newer
// refresh got there first or ctx was cancelled mid-way.
func (r *Refresher) Refresh(ctx context.Context, trigger Trigger) RefreshResult {
	seq := r.issued.Add(1)
	start := r.clock.Now()

	snap := r.source.Aggregate(ctx)
	r.metrics.RefreshDuration.Observe(r.clock.Since(start).Seconds())

	applied := false
	if ctx.Err() == nil {
		r.mu.Lock()
		if seq > r.applied {
			r.applied = seq
			r.current.Store(snap)
			applied = true
		}
		r.mu.Unlock()
	}

	result := "applied"
	if !applied {
		result = "stale"
		slog.Info("refresh discarded", "trigger", trigger, "seq", seq)
	} else {
		available := snap.AvailableCategories()
		r.metrics.SnapshotSources.Set(float64(len(available)))
		slog.Info("snapshot refreshed", "trigger", trigger, "seq", seq, "available", available)
	}
	r.metrics.RefreshTotal.WithLabelValues(string(trigger), result).Inc()

	return RefreshResult{Snapshot: r.Snapshot(), Applied: applied}
}

// Start performs the initial refresh in the background and, when an
// interval is set, keeps refreshing until ctx is cancelled.
func (r *Refresher) Start(ctx context.Context) {
	r.wg.Add(1)
	go r.run(ctx)
}

func (r *Refresher) run(ctx context.Context) {
	defer r.wg.Done()

	r.Refresh(ctx, TriggerStartup)
	if r.interval <= 0 {
		return
	}

	slog.Info("starting refresh loop", "interval", r.interval)
	ticker := r.clock.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("refresh loop shutting down")
			return
		case <-ticker.Chan():
			r.Refresh(ctx, TriggerInterval)
		}
	}
}

// Stop waits for the background loop started by Start to exit.
func (r *Refresher) Stop() {
	r.wg.Wait()
	slog.Info("refresher stopped")
}
