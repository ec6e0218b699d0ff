package worker

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"ntdung/trendworker/internal/analytics"
	"ntdung/trendworker/internal/metrics"
	"ntdung/trendworker/internal/scrape"
	"ntdung/trendworker/logger"
	"ntdung/trendworker/services/publisher"
	"ntdung/trendworker/services/store"
)

// Acquirer is the slice of the acquisition orchestrator the worker needs
type Acquirer interface {
	Acquire(ctx context.Context, rawURL string, platform scrape.Platform, opts scrape.Options) (scrape.Product, error)
}

// SnapshotEvent is the message published after each successful refresh
type SnapshotEvent struct {
	ProductID  string          `json:"product_id"`
	Platform   scrape.Platform `json:"platform"`
	Name       string          `json:"name"`
	Price      int64           `json:"price"`
	SalesCount int64           `json:"sales_count"`
	Rating     float64         `json:"rating"`
	Source     scrape.Strategy `json:"source"`
	CapturedAt time.Time       `json:"captured_at"`
}

// Worker periodically refreshes every active tracked product
type Worker struct {
	ctx            context.Context
	store          store.Store
	acquirer       Acquirer
	publisher      publisher.Publisher
	metrics        *metrics.Registry
	interval       time.Duration
	concurrency    int
	allowSynthetic bool
}

// NewWorker creates a new refresh worker. concurrency caps the number of
// simultaneous requests per platform.
func NewWorker(
	ctx context.Context,
	st store.Store,
	acq Acquirer,
	pub publisher.Publisher,
	reg *metrics.Registry,
	interval time.Duration,
	concurrency int,
	allowSynthetic bool,
) *Worker {
	return &Worker{
		ctx:            ctx,
		store:          st,
		acquirer:       acq,
		publisher:      pub,
		metrics:        reg,
		interval:       interval,
		concurrency:    concurrency,
		allowSynthetic: allowSynthetic,
	}
}

// Start runs refresh passes until the context is cancelled
func (w *Worker) Start() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.RefreshAll()
	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.RefreshAll()
		}
	}
}

// RefreshAll refreshes every active product once, platforms in parallel,
// then trims the streams
func (w *Worker) RefreshAll() {
	log := logger.ForWorker()
	start := time.Now()

	products, err := w.store.ListActive(w.ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to list active products")
		return
	}
	if w.metrics != nil {
		w.metrics.TrackedProducts.Set(float64(len(products)))
	}

	byPlatform := make(map[scrape.Platform][]store.TrackedProduct)
	for _, p := range products {
		byPlatform[p.Platform] = append(byPlatform[p.Platform], p)
	}

	var wg sync.WaitGroup
	for platform, group := range byPlatform {
		wg.Add(1)
		go func(platform scrape.Platform, group []store.TrackedProduct) {
			defer wg.Done()
			w.refreshPlatform(platform, group)
		}(platform, group)
	}
	wg.Wait()

	if err := w.publisher.TrimStreams(); err != nil {
		log.Error().Err(err).Msg("failed to trim streams")
	}

	elapsed := time.Since(start)
	if w.metrics != nil {
		w.metrics.RefreshDuration.Observe(elapsed.Seconds())
	}
	log.Info().
		Int("products", len(products)).
		Dur("elapsed", elapsed).
		Msg("refresh pass finished")
}

// refreshPlatform refreshes one platform's products with bounded
// concurrency
func (w *Worker) refreshPlatform(platform scrape.Platform, group []store.TrackedProduct) {
	sem := make(chan struct{}, w.concurrency)
	var wg sync.WaitGroup
	for _, p := range group {
		wg.Add(1)
		sem <- struct{}{}
		go func(p store.TrackedProduct) {
			defer wg.Done()
			defer func() { <-sem }()
			w.refreshProduct(p)
		}(p)
	}
	wg.Wait()
}

// refreshProduct runs one acquisition and records the result
func (w *Worker) refreshProduct(p store.TrackedProduct) {
	log := logger.ForPlatform(string(p.Platform)).WithField("product_id", p.ID)

	product, err := w.acquirer.Acquire(w.ctx, p.URL, p.Platform, scrape.Options{
		AllowSynthetic: w.allowSynthetic,
	})
	if err != nil {
		if w.metrics != nil {
			w.metrics.Failures.WithLabelValues(string(p.Platform)).Inc()
		}
		log.Warn().Err(err).Msg("refresh failed")
		return
	}
	if w.metrics != nil {
		w.metrics.Acquisitions.WithLabelValues(string(p.Platform), string(product.Source)).Inc()
	}

	now := time.Now()
	snap := analytics.Snapshot{
		ProductID:  p.ID,
		Price:      product.Price,
		SalesCount: product.Sales,
		Rating:     product.Rating,
		CapturedAt: now,
	}
	if err := w.store.UpsertSnapshot(w.ctx, snap); err != nil {
		log.Error().Err(err).Msg("failed to upsert snapshot")
		return
	}
	if w.metrics != nil {
		w.metrics.SnapshotsUpserted.Inc()
	}

	if err := w.store.UpdateCurrent(w.ctx, p.ID, product); err != nil {
		log.Error().Err(err).Msg("failed to update product")
	}

	event := SnapshotEvent{
		ProductID:  p.ID,
		Platform:   p.Platform,
		Name:       product.Name,
		Price:      product.Price,
		SalesCount: product.Sales,
		Rating:     product.Rating,
		Source:     product.Source,
		CapturedAt: now,
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal snapshot event")
		return
	}
	if err := w.publisher.Publish("b64_snapshot", data); err != nil {
		log.Error().Err(err).Msg("failed to publish snapshot event")
	}
}
