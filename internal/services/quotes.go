package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/lexypaul13/DegenTrader-sub000/internal/config"
	"github.com/lexypaul13/DegenTrader-sub000/internal/models"
	"github.com/lexypaul13/DegenTrader-sub000/internal/providers"
	"github.com/lexypaul13/DegenTrader-sub000/pkg/cache"
	"github.com/lexypaul13/DegenTrader-sub000/pkg/logger"
	"github.com/lexypaul13/DegenTrader-sub000/pkg/metrics"
	"github.com/lexypaul13/DegenTrader-sub000/pkg/ratelimiter"
)

// QuoteService serves per-mint price quotes through a TTL cache so repeated
// lookups inside the window never hit the provider twice.
type QuoteService struct {
	provider providers.PriceProvider
	cache    *cache.Cache[models.PriceQuote]
	limiter  *ratelimiter.RateLimiter
	metrics  *metrics.Collector
}

// NewQuoteService creates a quote service with its own cache sized to the
// configured TTL.
func NewQuoteService(
	provider providers.PriceProvider,
	limiter *ratelimiter.RateLimiter,
	collector *metrics.Collector,
	cfg config.CacheConfig,
) *QuoteService {
	return &QuoteService{
		provider: provider,
		cache:    cache.New[models.PriceQuote](cfg.TTL),
		limiter:  limiter,
		metrics:  collector,
	}
}

// GetQuote returns the quote for a mint, served from cache when fresh.
func (qs *QuoteService) GetQuote(ctx context.Context, mint string) (models.PriceQuote, error) {
	if quote, ok := qs.cache.Get(mint); ok {
		qs.metrics.RecordCacheHit()
		return quote, nil
	}
	qs.metrics.RecordCacheMiss()

	if err := qs.limiter.Wait(ctx); err != nil {
		return models.PriceQuote{}, err
	}

	quotes, err := qs.provider.FetchPrices(ctx, []string{mint})
	if err != nil {
		return models.PriceQuote{}, err
	}

	quote, ok := quotes[mint]
	if !ok {
		return models.PriceQuote{}, models.ErrNotFound
	}

	qs.cache.Set(mint, quote)
	logger.GetLogger().Debug("Quote cached",
		zap.String("mint", mint),
		zap.Float64("price", quote.Price),
	)
	return quote, nil
}

// Invalidate drops a mint's cached quote.
func (qs *QuoteService) Invalidate(mint string) {
	qs.cache.Remove(mint)
}

// Stop halts the cache's background sweep.
func (qs *QuoteService) Stop() {
	qs.cache.Stop()
}
