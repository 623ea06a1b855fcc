package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lexypaul13/DegenTrader-sub000/internal/config"
	"github.com/lexypaul13/DegenTrader-sub000/internal/models"
	"github.com/lexypaul13/DegenTrader-sub000/internal/providers"
	"github.com/lexypaul13/DegenTrader-sub000/pkg/logger"
	"github.com/lexypaul13/DegenTrader-sub000/pkg/metrics"
	"github.com/lexypaul13/DegenTrader-sub000/pkg/ratelimiter"
)

// CacheState tracks the trending snapshot lifecycle.
type CacheState string

const (
	CacheStateIdle       CacheState = "idle"
	CacheStateRefreshing CacheState = "refreshing"
	CacheStateReady      CacheState = "ready"
	CacheStateError      CacheState = "error"
)

// refreshCall is a single coalesced provider fetch. Callers joining while it
// is in flight wait on done and observe exactly this call's outcome.
type refreshCall struct {
	done chan struct{}
	err  error
}

// TrendingService owns the periodically refreshed trending-token snapshot
// and serves search and paginated trending queries against it.
type TrendingService struct {
	provider   providers.TrendingProvider
	classifier *MemeCoinClassifier
	limiter    *ratelimiter.RateLimiter
	metrics    *metrics.Collector
	cfg        config.TrendingConfig

	mutex        sync.Mutex
	state        CacheState
	allTokens    []models.Token
	trending     []models.Token
	lastUpdate   time.Time
	lastErr      error
	backgrounded bool
	currentPage  int
	inflight     *refreshCall

	stopCh   chan struct{}
	stopOnce sync.Once
	now      func() time.Time
}

// NewTrendingService creates the trending cache. Start must be called to run
// the background refresh loop.
func NewTrendingService(
	provider providers.TrendingProvider,
	classifier *MemeCoinClassifier,
	limiter *ratelimiter.RateLimiter,
	collector *metrics.Collector,
	cfg config.TrendingConfig,
) *TrendingService {
	return &TrendingService{
		provider:   provider,
		classifier: classifier,
		limiter:    limiter,
		metrics:    collector,
		cfg:        cfg,
		state:      CacheStateIdle,
		stopCh:     make(chan struct{}),
		now:        time.Now,
	}
}

// Initialize fetches the snapshot unless a valid one already exists.
// Concurrent calls while a fetch is in flight await that fetch's outcome.
func (ts *TrendingService) Initialize(ctx context.Context) error {
	if ts.IsValid() {
		ts.metrics.RecordCacheHit()
		return nil
	}
	ts.metrics.RecordCacheMiss()
	return ts.Refresh(ctx)
}

// Refresh performs the provider call, replacing the snapshot wholesale on
// success. A failure leaves the previous snapshot intact and records the
// error. Concurrent refreshes coalesce into one provider call.
func (ts *TrendingService) Refresh(ctx context.Context) error {
	ts.mutex.Lock()
	if call := ts.inflight; call != nil {
		ts.mutex.Unlock()
		select {
		case <-call.done:
			return call.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	call := &refreshCall{done: make(chan struct{})}
	ts.inflight = call
	ts.state = CacheStateRefreshing
	ts.mutex.Unlock()

	call.err = ts.doRefresh(ctx)

	ts.mutex.Lock()
	ts.inflight = nil
	ts.mutex.Unlock()
	close(call.done)

	return call.err
}

func (ts *TrendingService) doRefresh(ctx context.Context) error {
	log := logger.GetLogger()

	if err := ts.limiter.Wait(ctx); err != nil {
		ts.recordFailure(err)
		return err
	}

	start := ts.now()
	tokens, err := ts.provider.FetchTrending(ctx)
	ts.metrics.RecordProviderCall(time.Since(start), err == nil)

	if err != nil {
		log.Warn("Trending fetch failed, keeping previous snapshot", zap.Error(err))
		ts.recordFailure(err)
		return err
	}

	// A cancelled caller must not install a fresh snapshot.
	if err := ctx.Err(); err != nil {
		return err
	}

	filtered := ts.classifier.Filter(tokens)

	ts.mutex.Lock()
	ts.allTokens = tokens
	ts.trending = filtered
	ts.lastUpdate = ts.now()
	ts.lastErr = nil
	ts.state = CacheStateReady
	ts.currentPage = 0
	ts.mutex.Unlock()

	log.Info("Trending snapshot refreshed",
		zap.Int("token_count", len(tokens)),
		zap.Int("trending_count", len(filtered)),
	)
	return nil
}

func (ts *TrendingService) recordFailure(err error) {
	ts.mutex.Lock()
	defer ts.mutex.Unlock()
	ts.lastErr = err
	ts.state = CacheStateError
}

// IsValid reports whether a snapshot exists and is younger than the TTL for
// the current foreground/background state, never exceeding the ceiling.
func (ts *TrendingService) IsValid() bool {
	ts.mutex.Lock()
	defer ts.mutex.Unlock()

	if ts.lastUpdate.IsZero() || len(ts.allTokens) == 0 {
		return false
	}

	ttl := ts.cfg.ForegroundTTL
	if ts.backgrounded {
		ttl = ts.cfg.BackgroundTTL
	}
	if ttl > ts.cfg.MaxTTL {
		ttl = ts.cfg.MaxTTL
	}

	return ts.now().Sub(ts.lastUpdate) < ttl
}

// Search serves a case-insensitive query from the snapshot, initializing it
// first when stale. Exact symbol/name matches order before substring
// matches; ties keep source order; results cap at the configured limit.
func (ts *TrendingService) Search(ctx context.Context, query string) ([]models.Token, error) {
	query = strings.TrimSpace(query)
	if len(query) < ts.cfg.MinQueryLength {
		return []models.Token{}, nil
	}

	if !ts.IsValid() {
		if err := ts.Initialize(ctx); err != nil {
			return nil, err
		}
	}

	ts.mutex.Lock()
	snapshot := ts.allTokens
	ts.mutex.Unlock()

	lowered := strings.ToLower(query)
	exact := make([]models.Token, 0, ts.cfg.SearchLimit)
	partial := make([]models.Token, 0, ts.cfg.SearchLimit)

	for _, token := range snapshot {
		symbol := strings.ToLower(token.Symbol)
		name := strings.ToLower(token.Name)

		switch {
		case symbol == lowered || name == lowered:
			exact = append(exact, token)
		case strings.Contains(symbol, lowered) || strings.Contains(name, lowered):
			partial = append(partial, token)
		}
	}

	results := append(exact, partial...)
	if len(results) > ts.cfg.SearchLimit {
		results = results[:ts.cfg.SearchLimit]
	}
	return results, nil
}

// LoadNextPage serves the next fixed-size page of the trending subset. The
// 1-based page counter caps at the configured maximum.
func (ts *TrendingService) LoadNextPage() models.TrendingPage {
	ts.mutex.Lock()
	defer ts.mutex.Unlock()

	if ts.currentPage >= ts.cfg.MaxPages {
		return models.TrendingPage{
			Tokens:       []models.Token{},
			Page:         ts.currentPage,
			HasMorePages: false,
		}
	}

	ts.currentPage++

	start := (ts.currentPage - 1) * ts.cfg.PageSize
	end := start + ts.cfg.PageSize
	if start > len(ts.trending) {
		start = len(ts.trending)
	}
	if end > len(ts.trending) {
		end = len(ts.trending)
	}

	page := make([]models.Token, end-start)
	copy(page, ts.trending[start:end])

	return models.TrendingPage{
		Tokens:       page,
		Page:         ts.currentPage,
		HasMorePages: len(ts.trending) > end && ts.currentPage < ts.cfg.MaxPages,
	}
}

// ResetPagination rewinds the page counter to the beginning.
func (ts *TrendingService) ResetPagination() {
	ts.mutex.Lock()
	defer ts.mutex.Unlock()
	ts.currentPage = 0
}

// Trending returns a copy of the classifier-filtered subset.
func (ts *TrendingService) Trending() []models.Token {
	ts.mutex.Lock()
	defer ts.mutex.Unlock()

	out := make([]models.Token, len(ts.trending))
	copy(out, ts.trending)
	return out
}

// AllTokens returns a copy of the full snapshot.
func (ts *TrendingService) AllTokens() []models.Token {
	ts.mutex.Lock()
	defer ts.mutex.Unlock()

	out := make([]models.Token, len(ts.allTokens))
	copy(out, ts.allTokens)
	return out
}

// State returns the lifecycle state and last recorded error.
func (ts *TrendingService) State() (CacheState, error) {
	ts.mutex.Lock()
	defer ts.mutex.Unlock()
	return ts.state, ts.lastErr
}

// LastUpdate returns the timestamp of the last successful refresh.
func (ts *TrendingService) LastUpdate() time.Time {
	ts.mutex.Lock()
	defer ts.mutex.Unlock()
	return ts.lastUpdate
}

// SetBackground records the host foreground/background state, widening the
// TTL and pausing the proactive refresh loop while backgrounded.
func (ts *TrendingService) SetBackground(backgrounded bool) {
	ts.mutex.Lock()
	defer ts.mutex.Unlock()
	ts.backgrounded = backgrounded
}

// ClearCache drops the snapshot, timestamp and error. Bound to explicit
// clears and the host's memory-pressure signal.
func (ts *TrendingService) ClearCache() {
	ts.mutex.Lock()
	defer ts.mutex.Unlock()

	ts.allTokens = nil
	ts.trending = nil
	ts.lastUpdate = time.Time{}
	ts.lastErr = nil
	ts.state = CacheStateIdle
	ts.currentPage = 0
}

// Start runs the proactive refresh loop until Stop. Refreshes are skipped
// while the app is backgrounded, independent of the TTL check.
func (ts *TrendingService) Start() {
	go func() {
		ticker := time.NewTicker(ts.cfg.RefreshInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				ts.mutex.Lock()
				skip := ts.backgrounded
				ts.mutex.Unlock()
				if skip {
					continue
				}

				ctx, cancel := context.WithTimeout(context.Background(), ts.cfg.RefreshInterval)
				if err := ts.Refresh(ctx); err != nil {
					logger.GetLogger().Warn("Scheduled trending refresh failed", zap.Error(err))
				}
				cancel()
			case <-ts.stopCh:
				return
			}
		}
	}()
}

// Stop halts the refresh loop. Safe to call more than once.
func (ts *TrendingService) Stop() {
	ts.stopOnce.Do(func() {
		close(ts.stopCh)
	})
}
