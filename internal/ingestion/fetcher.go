package ingestion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sony/gobreaker/v2"

	"github.com/mr1hm/go-hazard-map/internal/models"
)

const maxBodyBytes = 32 << 20

// Fetcher retrieves one JSON document. Implementations never fail: any
// problem yields the "{}" sentinel.
type Fetcher interface {
	Fetch(ctx context.Context, url string) json.RawMessage
}

// HTTPFetcher is a Fetcher over HTTP GET with bounded retries and one
// circuit breaker per URL, so a dead source stops costing a full timeout on
// every refresh.
type HTTPFetcher struct {
	client *http.Client

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[json.RawMessage]
}

func NewHTTPFetcher(timeout time.Duration, retryMax int) *HTTPFetcher {
	rC := retryablehttp.NewClient()
	rC.Logger = nil
	rC.RetryMax = retryMax
	rC.RetryWaitMin = 250 * time.Millisecond
	rC.RetryWaitMax = 2 * time.Second
	client := rC.StandardClient()
	client.Timeout = timeout

	return &HTTPFetcher{
		client:   client,
		breakers: make(map[string]*gobreaker.CircuitBreaker[json.RawMessage]),
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) json.RawMessage {
	body, err := f.breaker(url).Execute(func() (json.RawMessage, error) {
		return f.get(ctx, url)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			slog.Debug("fetch skipped, circuit open", "url", url)
		} else {
			slog.Warn("fetch failed", "url", url, "error", err)
		}
		return models.EmptyPayload()
	}
	return body
}

func (f *HTTPFetcher) get(ctx context.Context, url string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json, application/geo+json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error while doing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status code: %d - status: %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("error reading resp.Body: %w", err)
	}
	if len(body) > maxBodyBytes {
		return nil, fmt.Errorf("response body exceeds %d bytes", maxBodyBytes)
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 || !json.Valid(body) {
		return nil, fmt.Errorf("response body is not valid JSON")
	}

	return body, nil
}

func (f *HTTPFetcher) breaker(url string) *gobreaker.CircuitBreaker[json.RawMessage] {
	f.mu.Lock()
	defer f.mu.Unlock()

	if cb, ok := f.breakers[url]; ok {
		return cb
	}
	cb := gobreaker.NewCircuitBreaker[json.RawMessage](gobreaker.Settings{
		Name:        url,
		MaxRequests: 1,
		Interval:    5 * time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})
	f.breakers[url] = cb
	return cb
}
