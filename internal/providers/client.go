// Package providers implements the outbound price and trending-token
// provider clients the sync layer consumes.
package providers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lexypaul13/DegenTrader-sub000/internal/config"
	"github.com/lexypaul13/DegenTrader-sub000/internal/models"
)

// PriceProvider fetches current quotes for a set of token mint addresses.
type PriceProvider interface {
	FetchPrices(ctx context.Context, addresses []string) (map[string]models.PriceQuote, error)
}

// TrendingProvider fetches the provider's full trending token list.
type TrendingProvider interface {
	FetchTrending(ctx context.Context) ([]models.Token, error)
}

// httpClient wraps the shared HTTP transport with retry and error mapping.
type httpClient struct {
	client *http.Client
	config *config.ProviderConfig
}

func newHTTPClient(cfg *config.ProviderConfig) *httpClient {
	return &httpClient{
		client: &http.Client{Timeout: cfg.Timeout},
		config: cfg,
	}
}

// get performs a GET with retry and linear backoff, mapping failures into
// the provider error taxonomy. The context is checked before every attempt.
func (hc *httpClient) get(ctx context.Context, url string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= hc.config.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		body, err := hc.getOnce(ctx, url)
		if err == nil {
			return body, nil
		}

		// Rate-limit denials are surfaced immediately so callers back off
		// through their own limiter instead of hammering the provider.
		if appErr, ok := err.(*models.AppError); ok && appErr.Code == models.ErrorCodeRateLimitExceeded {
			return nil, err
		}

		lastErr = err
		if attempt < hc.config.MaxRetries {
			timer := time.NewTimer(hc.config.RetryDelay * time.Duration(attempt+1))
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}
	}

	return nil, models.NewProviderError(
		fmt.Sprintf("provider request failed after %d attempts", hc.config.MaxRetries+1),
		lastErr,
	)
}

func (hc *httpClient) getOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, models.NewProviderError("failed to build provider request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := hc.client.Do(req)
	if err != nil {
		return nil, models.NewProviderError("provider unreachable", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, models.ErrRateLimited
	case resp.StatusCode != http.StatusOK:
		return nil, models.NewProviderError(
			fmt.Sprintf("provider returned status %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, models.NewProviderError("failed to read provider response", err)
	}
	return body, nil
}
