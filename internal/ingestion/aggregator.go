package ingestion

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/mr1hm/go-hazard-map/internal/config"
	"github.com/mr1hm/go-hazard-map/internal/models"
	"github.com/mr1hm/go-hazard-map/internal/observability"
	"github.com/mr1hm/go-hazard-map/internal/worker"
)

// Aggregator fetches all five category sources into one snapshot.
type Aggregator struct {
	fetcher Fetcher
	baseURL string
	workers int
	clock   clockwork.Clock
	metrics *observability.Metrics
}

func NewAggregator(cfg *config.Config, fetcher Fetcher, metrics *observability.Metrics) *Aggregator {
	return &Aggregator{
		fetcher: fetcher,
		baseURL: cfg.Source.BaseURL,
		workers: cfg.Worker.Count,
		clock:   clockwork.NewRealClock(),
		metrics: metrics,
	}
}

// Aggregate fetches every source again. Each fetch fills only its own slot,
// so one failing source leaves the rest untouched. Slots not reached before
// ctx is cancelled hold "{}".
func (a *Aggregator) Aggregate(ctx context.Context) *models.DataSnapshot {
	payloads := make([]json.RawMessage, len(models.Categories))
	slots := make([]int, len(models.Categories))
	for i := range slots {
		slots[i] = i
	}

	worker.Run(ctx, a.workers, slots, func(ctx context.Context, i int) {
		c := models.Categories[i]
		start := a.clock.Now()
		p := a.fetcher.Fetch(ctx, c.SourceURL(a.baseURL))
		a.metrics.FetchDuration.WithLabelValues(string(c)).Observe(a.clock.Since(start).Seconds())

		outcome := "ok"
		if isEmpty(p) {
			outcome = "empty"
			slog.Debug("source unavailable", "category", c)
		}
		a.metrics.FetchTotal.WithLabelValues(string(c), outcome).Inc()
		payloads[i] = p
	})

	byCategory := make(map[models.Category]json.RawMessage, len(models.Categories))
	for i, c := range models.Categories {
		byCategory[c] = payloads[i]
	}
	return models.NewSnapshot(byCategory, a.clock.Now())
}

func isEmpty(p json.RawMessage) bool {
	p = bytes.TrimSpace(p)
	return len(p) == 0 || bytes.Equal(p, []byte("{}"))
}
