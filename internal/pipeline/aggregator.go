// Package pipeline fans a query out to every registered provider,
// merges what comes back into one deduplicated, ranked list, and falls
// back to synthetic local activities when everything returns empty.
package pipeline

import (
	"context"
	"sync"
	"time"

	"activity-aggregator/internal/catalog"
	"activity-aggregator/internal/common/logger"
	"activity-aggregator/internal/common/metrics"
	"activity-aggregator/internal/providers"
)

// FallbackSource produces synthetic records when no provider has any.
type FallbackSource interface {
	Generate(q catalog.Query) []catalog.Record
}

// Result is the assembled response body for one aggregation.
type Result struct {
	Events     []catalog.Record `json:"events"`
	TotalCount int              `json:"totalCount"`
	Sources    []string         `json:"sources"`
}

// Aggregator owns the provider set. Provider order is registration
// order; it decides both merge order and dedup tie-breaks.
type Aggregator struct {
	providers []providers.Provider
	fallback  FallbackSource
	logger    logger.Logger
}

func New(providerList []providers.Provider, fallback FallbackSource, log logger.Logger) *Aggregator {
	return &Aggregator{
		providers: providerList,
		fallback:  fallback,
		logger:    log,
	}
}

// Aggregate runs the full pipeline: concurrent fan-out, merge in
// registration order, dedupe, fallback if empty, rank. A provider
// failure never fails the aggregation; the worst case is a fully
// synthetic result.
func (a *Aggregator) Aggregate(ctx context.Context, q catalog.Query, policy RankPolicy) *Result {
	start := time.Now()
	defer func() {
		metrics.AggregationDuration.Observe(time.Since(start).Seconds())
	}()

	results := make([][]catalog.Record, len(a.providers))

	var wg sync.WaitGroup
	for i, p := range a.providers {
		wg.Add(1)
		go func(i int, p providers.Provider) {
			defer wg.Done()
			results[i] = p.Fetch(ctx, q)
		}(i, p)
	}
	wg.Wait()

	var merged []catalog.Record
	for _, batch := range results {
		merged = append(merged, batch...)
	}

	deduped := Dedupe(merged)
	duplicates := len(merged) - len(deduped)

	if len(deduped) == 0 && a.fallback != nil {
		a.logger.Info("all providers empty, generating fallback", map[string]interface{}{
			"city": q.City,
		})
		deduped = a.fallback.Generate(q)
	}

	ranked := Rank(deduped, policy)

	a.logger.Info("aggregation complete", map[string]interface{}{
		"city":       q.City,
		"fetched":    len(merged),
		"duplicates": duplicates,
		"returned":   len(ranked),
		"durationMs": time.Since(start).Milliseconds(),
	})

	return &Result{
		Events:     ranked,
		TotalCount: len(ranked),
		Sources:    distinctSources(ranked),
	}
}

// distinctSources lists contributing sources in first-seen order.
func distinctSources(records []catalog.Record) []string {
	seen := make(map[string]struct{}, 4)
	sources := []string{}
	for _, rec := range records {
		if _, ok := seen[rec.Source]; ok {
			continue
		}
		seen[rec.Source] = struct{}{}
		sources = append(sources, rec.Source)
	}
	return sources
}
