// Package app implements the application layer: the aggregator service that
// fetches metadata from all configured sources, processes it through the
// pipeline, and publishes an immutable queryable snapshot.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/beevik/etree"

	"go.opentelemetry.io/otel/metric"

	"github.com/jsamuelsen11/metadata-aggregator/internal/app/fanout"
	"github.com/jsamuelsen11/metadata-aggregator/internal/dom"
	"github.com/jsamuelsen11/metadata-aggregator/internal/pipeline"
	"github.com/jsamuelsen11/metadata-aggregator/internal/platform/config"
	"github.com/jsamuelsen11/metadata-aggregator/internal/platform/telemetry"
)

// snapshot is one immutable published generation. Items and index are never
// mutated after construction; Query hands out copies of the items.
type snapshot struct {
	items     []*dom.Item
	index     map[string][]*dom.Item
	refreshed time.Time
}

// Aggregator fetches metadata from every configured source, merges and
// processes it, and serves queries from the last good snapshot. A refresh
// failure leaves the previous snapshot in place.
type Aggregator struct {
	cfg     config.AggregatorConfig
	sources []pipeline.Source[*etree.Element]
	proc    *pipeline.Pipeline[*etree.Element]
	merge   pipeline.MergeStrategy[*etree.Element]
	post    []pipeline.Stage[*etree.Element]
	metrics *telemetry.Metrics
	logger  *slog.Logger

	current atomic.Pointer[snapshot]
}

// AggregatorOption configures optional aggregator behavior.
type AggregatorOption func(*Aggregator)

// WithQueryPostProcess sets stages run over every query result before it is
// returned. The stages see copies of the published items, so the snapshot is
// never mutated.
func WithQueryPostProcess(stages ...pipeline.Stage[*etree.Element]) AggregatorOption {
	return func(a *Aggregator) { a.post = stages }
}

// NewAggregator creates an aggregator over the given sources and processing
// pipeline. No snapshot is published until the first successful Refresh.
func NewAggregator(
	cfg config.AggregatorConfig,
	sources []pipeline.Source[*etree.Element],
	proc *pipeline.Pipeline[*etree.Element],
	metrics *telemetry.Metrics,
	logger *slog.Logger,
	opts ...AggregatorOption,
) (*Aggregator, error) {
	if len(sources) == 0 {
		return nil, errors.New("at least one source is required")
	}
	if proc == nil {
		return nil, errors.New("processing pipeline is required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	a := &Aggregator{
		cfg:     cfg,
		sources: sources,
		proc:    proc,
		merge:   pipeline.DeduplicatingItemIDMerge[*etree.Element]{},
		metrics: metrics,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// sourceTags returns the configured tags for a source id. Sources not in the
// config (CLI-built ones) have no tags.
func (a *Aggregator) sourceTags(id string) []string {
	for _, sc := range a.cfg.Sources {
		if sc.ID == id {
			return sc.Tags
		}
	}
	return nil
}

// fetchOne runs a single source under the configured fetch timeout and tags
// every fetched item with the source's configured tags.
func (a *Aggregator) fetchOne(ctx context.Context, src pipeline.Source[*etree.Element]) ([]*dom.Item, error) {
	if a.cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.FetchTimeout)
		defer cancel()
	}

	items, err := src.Execute(ctx)
	if err != nil {
		return nil, err
	}
	for _, tag := range a.sourceTags(src.ID()) {
		for _, item := range items {
			item.Metadata().Add(pipeline.ItemTag{Tag: tag})
		}
	}
	return items, nil
}

// Refresh fetches all sources, merges the results, runs the processing
// pipeline, and publishes a new snapshot. Any source or pipeline failure
// aborts the refresh; the previous snapshot stays published.
func (a *Aggregator) Refresh(ctx context.Context) error {
	start := time.Now()
	err := a.refresh(ctx)

	if a.metrics != nil {
		result := "ok"
		if err != nil {
			result = "error"
		}
		attrs := metric.WithAttributes(telemetry.AttrResult.String(result))
		a.metrics.RefreshDuration.Record(ctx, time.Since(start).Seconds(), attrs)
		a.metrics.RefreshTotal.Add(ctx, 1, attrs)
	}
	return err
}

func (a *Aggregator) refresh(ctx context.Context) error {
	start := time.Now()
	workers := a.cfg.FetchConcurrency
	if workers < 1 {
		workers = 1
	}

	results := fanout.Run(ctx, workers, a.sources,
		func(ctx context.Context, src pipeline.Source[*etree.Element]) ([]*dom.Item, error) {
			return a.fetchOne(ctx, src)
		})

	var errs []error
	collections := make([][]*dom.Item, 0, len(results))
	for i, res := range results {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("source %s: %w", a.sources[i].ID(), res.Err))
			continue
		}
		collections = append(collections, res.Value)
	}
	if len(errs) > 0 {
		return fmt.Errorf("refresh aborted: %w", errors.Join(errs...))
	}

	var items []*dom.Item
	a.merge.Merge(&items, collections...)

	if err := a.proc.Execute(ctx, &items); err != nil {
		return fmt.Errorf("processing: %w", err)
	}

	a.publish(items)
	a.logger.InfoContext(ctx, "published new metadata snapshot",
		slog.Int("items", len(items)),
		slog.Duration("duration", time.Since(start)),
	)
	if a.metrics != nil {
		a.metrics.PublishedItems.Record(ctx, int64(len(items)))
	}
	return nil
}

// publish builds the term index and swaps in the new snapshot.
func (a *Aggregator) publish(items []*dom.Item) {
	index := make(map[string][]*dom.Item)
	for _, item := range items {
		for _, id := range pipeline.MetadataOf[pipeline.ItemID](item.Metadata()) {
			index[id.ID] = append(index[id.ID], item)
		}
		for _, tag := range pipeline.MetadataOf[pipeline.ItemTag](item.Metadata()) {
			index[tag.Tag] = append(index[tag.Tag], item)
		}
	}
	a.current.Store(&snapshot{
		items:     items,
		index:     index,
		refreshed: time.Now(),
	})
}

// Run performs an initial refresh, then refreshes on the configured interval
// until ctx is canceled. The initial refresh failing is not fatal; the
// aggregator stays up and retries on the next tick.
func (a *Aggregator) Run(ctx context.Context) {
	if err := a.Refresh(ctx); err != nil {
		a.logger.ErrorContext(ctx, "failed to refresh metadata",
			slog.String("operation", "Refresh"),
			slog.Any("error", err),
		)
	}

	interval := a.cfg.RefreshInterval
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := a.Refresh(ctx); err != nil {
				a.logger.ErrorContext(ctx, "failed to refresh metadata",
					slog.String("operation", "Refresh"),
					slog.Any("error", err),
				)
			}
		}
	}
}

// Query returns copies of the published items matching every term. Terms
// match item IDs and tags. The first term seeds the result; each further
// term intersects it. An empty term list returns the whole collection.
// Configured post-process stages run over the copies before they are
// returned.
func (a *Aggregator) Query(ctx context.Context, terms []string) ([]*dom.Item, error) {
	snap := a.current.Load()

	if a.metrics != nil {
		result := "ok"
		if snap == nil {
			result = "not_ready"
		}
		a.metrics.QueryTotal.Add(ctx, 1,
			metric.WithAttributes(telemetry.AttrResult.String(result)))
	}
	if snap == nil {
		return nil, ErrNotReady
	}

	for _, term := range terms {
		if term == "" {
			return nil, fmt.Errorf("%w: empty term", ErrInvalidQuery)
		}
	}

	matched := snap.items
	if len(terms) > 0 {
		matched = snap.index[terms[0]]
		for _, term := range terms[1:] {
			matched = intersect(matched, snap.index[term])
			if len(matched) == 0 {
				break
			}
		}
		if len(matched) == 0 {
			return nil, fmt.Errorf("%w: no items match %v", ErrNotFound, terms)
		}
	}

	out := make([]*dom.Item, 0, len(matched))
	for _, item := range matched {
		out = append(out, item.Copy())
	}
	for _, st := range a.post {
		if err := st.Execute(ctx, &out); err != nil {
			return nil, fmt.Errorf("post-processing %s: %w", st.ID(), err)
		}
	}
	return out, nil
}

// intersect keeps the items of a that also appear in b, preserving a's order.
func intersect(a, b []*dom.Item) []*dom.Item {
	in := make(map[*dom.Item]struct{}, len(b))
	for _, item := range b {
		in[item] = struct{}{}
	}
	var out []*dom.Item
	for _, item := range a {
		if _, ok := in[item]; ok {
			out = append(out, item)
		}
	}
	return out
}

// Name implements ports.HealthChecker.
func (a *Aggregator) Name() string { return "aggregator" }

// HealthCheck implements ports.HealthChecker. The aggregator is healthy once
// a snapshot is published and it is not older than two refresh intervals.
func (a *Aggregator) HealthCheck(_ context.Context) error {
	snap := a.current.Load()
	if snap == nil {
		return ErrNotReady
	}
	if a.cfg.RefreshInterval > 0 {
		if age := time.Since(snap.refreshed); age > 2*a.cfg.RefreshInterval {
			return fmt.Errorf("snapshot is stale: last refresh %s ago", age.Round(time.Second))
		}
	}
	return nil
}
