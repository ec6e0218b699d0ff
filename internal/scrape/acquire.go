package scrape

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"ntdung/trendworker/helpers"
	"ntdung/trendworker/logger"
	apperr "ntdung/trendworker/pkg/errors"
	"ntdung/trendworker/services/cache"
)

// Options controls one acquisition call
type Options struct {
	// AllowSynthetic permits generated data when every real strategy
	// failed. Deliberate opt-in for development; never set it in the
	// production path.
	AllowSynthetic bool
}

// Acquirer drives the strategy fallback chain for a (url, platform)
// pair: structured endpoint, then document scraping, then optionally
// synthetic data. Strategies run sequentially, never concurrently, so a
// platform never sees duplicate simultaneous requests for one resource.
type Acquirer struct {
	platforms map[Platform]*PlatformConfig
	cache     cache.CacheService
	blockTime time.Duration

	// Strategy funcs are fields so tests can stub one leg of the chain
	structuredFn func(ctx context.Context, cfg *PlatformConfig, id string) (Product, error)
	documentFn   func(ctx context.Context, cfg *PlatformConfig, url string) (Product, error)
	syntheticFn  func(platform Platform) Product
}

// New validates the platform table and builds an acquirer. A malformed
// table is a programmer error and fails construction outright.
// cacheSvc may be nil; then no rate-limit blocking is applied.
func New(table []PlatformConfig, cacheSvc cache.CacheService, blockTime time.Duration) (*Acquirer, error) {
	platforms, err := buildTable(table)
	if err != nil {
		return nil, err
	}

	return &Acquirer{
		platforms: platforms,
		cache:     cacheSvc,
		blockTime: blockTime,
		structuredFn: func(ctx context.Context, cfg *PlatformConfig, id string) (Product, error) {
			return newStructuredExtractor(cfg).Extract(ctx, id)
		},
		documentFn: func(ctx context.Context, cfg *PlatformConfig, url string) (Product, error) {
			return newDocumentExtractor(cfg).Extract(ctx, url)
		},
		syntheticFn: GenerateSynthetic,
	}, nil
}

// Platforms returns the supported platform tags
func (a *Acquirer) Platforms() []Platform {
	tags := make([]Platform, 0, len(a.platforms))
	for tag := range a.platforms {
		tags = append(tags, tag)
	}
	return tags
}

// Locate derives the product identifier from a marketplace URL
func (a *Acquirer) Locate(rawURL string, platform Platform) (string, bool) {
	cfg, ok := a.platforms[platform]
	if !ok {
		return "", false
	}
	return cfg.ExtractID(rawURL)
}

// Acquire runs the fallback chain and returns the first valid product,
// tagged with the strategy that produced it. Per-strategy failures are
// handled here and never escape; only exhaustion of all permitted
// strategies comes back, as an AcquireError. No retries happen within
// one call; retry policy belongs to the caller.
func (a *Acquirer) Acquire(ctx context.Context, rawURL string, platform Platform, opts Options) (Product, error) {
	cfg, ok := a.platforms[platform]
	if !ok {
		return Product{}, apperr.NewConfiguration(fmt.Sprintf("unknown platform %q", platform), nil)
	}

	log := logger.ForPlatform(string(platform))
	var attempts []apperr.Attempt

	// Structured endpoint first; it needs the product identifier
	if id, found := cfg.ExtractID(rawURL); found {
		product, err := a.structuredFn(ctx, cfg, id)
		if err == nil {
			return product, nil
		}
		attempts = append(attempts, attemptFrom(StrategyStructured, err))
		log.Debug().Err(err).Str("url", rawURL).Msg("structured strategy failed")
	} else {
		attempts = append(attempts, apperr.Attempt{
			Strategy: string(StrategyStructured),
			Reason:   apperr.ReasonUnsupported,
			Message:  "no product identifier in url",
		})
	}

	// Document scraping next, unless the platform is cooling off after
	// a rate-limit response
	if a.blocked(platform) {
		attempts = append(attempts, apperr.Attempt{
			Strategy: string(StrategyDocument),
			Reason:   apperr.ReasonTransport,
			Message:  "platform blocked after rate limiting",
		})
	} else {
		product, err := a.documentFn(ctx, cfg, rawURL)
		if err == nil {
			return product, nil
		}
		if errors.Is(err, helpers.ErrRateLimited) {
			a.block(platform)
		}
		attempts = append(attempts, attemptFrom(StrategyDocument, err))
		log.Debug().Err(err).Str("url", rawURL).Msg("document strategy failed")
	}

	if opts.AllowSynthetic {
		log.Warn().Str("url", rawURL).Msg("all real strategies failed, serving synthetic data")
		return a.syntheticFn(platform), nil
	}

	return Product{}, apperr.NewAcquire(string(platform), rawURL, attempts)
}

// attemptFrom condenses a strategy error into its attempt record
func attemptFrom(strategy Strategy, err error) apperr.Attempt {
	var extractErr *apperr.ExtractError
	if errors.As(err, &extractErr) {
		return apperr.Attempt{
			Strategy: string(strategy),
			Reason:   extractErr.Reason,
			Message:  extractErr.Message,
		}
	}
	return apperr.Attempt{
		Strategy: string(strategy),
		Reason:   apperr.ReasonTransport,
		Message:  err.Error(),
	}
}

func blockKey(platform Platform) string {
	return string(platform) + "_rate_limited"
}

func (a *Acquirer) blocked(platform Platform) bool {
	if a.cache == nil {
		return false
	}
	_, err := a.cache.Get(blockKey(platform))
	return err == nil
}

func (a *Acquirer) block(platform Platform) {
	if a.cache == nil {
		return
	}
	seconds := strconv.Itoa(int(a.blockTime / time.Second))
	if err := a.cache.Set(blockKey(platform), []byte(seconds), a.blockTime); err != nil {
		logger.ForPlatform(string(platform)).Warn().Err(err).Msg("failed to set rate-limit block")
	}
}
