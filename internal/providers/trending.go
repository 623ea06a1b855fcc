package providers

import (
	"context"
	"time"

	"github.com/buger/jsonparser"

	"github.com/lexypaul13/DegenTrader-sub000/internal/config"
	"github.com/lexypaul13/DegenTrader-sub000/internal/models"
)

// TrendingClient fetches the trending token list from a Jupiter-style
// token-list API.
type TrendingClient struct {
	http     *httpClient
	endpoint string
}

// NewTrendingClient creates a TrendingClient for the configured endpoint.
func NewTrendingClient(cfg *config.ProviderConfig) *TrendingClient {
	return &TrendingClient{
		http:     newHTTPClient(cfg),
		endpoint: cfg.TrendingEndpoint,
	}
}

// FetchTrending returns the provider's full token list. The response is a
// JSON array of token objects.
func (tc *TrendingClient) FetchTrending(ctx context.Context) ([]models.Token, error) {
	body, err := tc.http.get(ctx, tc.endpoint)
	if err != nil {
		return nil, err
	}

	return decodeTokens(body)
}

func decodeTokens(body []byte) ([]models.Token, error) {
	tokens := make([]models.Token, 0, 64)
	var decodeErr error

	_, err := jsonparser.ArrayEach(body, func(value []byte, _ jsonparser.ValueType, _ int, _ error) {
		if decodeErr != nil {
			return
		}
		token, err := decodeToken(value)
		if err != nil {
			decodeErr = err
			return
		}
		tokens = append(tokens, token)
	})
	if err != nil {
		return nil, models.NewDecodeError("failed to decode trending response", err)
	}
	if decodeErr != nil {
		return nil, models.NewDecodeError("failed to decode trending token entry", decodeErr)
	}

	return tokens, nil
}

func decodeToken(value []byte) (models.Token, error) {
	address, err := jsonparser.GetString(value, "address")
	if err != nil {
		return models.Token{}, err
	}
	symbol, err := jsonparser.GetString(value, "symbol")
	if err != nil {
		return models.Token{}, err
	}
	name, err := jsonparser.GetString(value, "name")
	if err != nil {
		return models.Token{}, err
	}

	token := models.Token{
		Address: address,
		Symbol:  symbol,
		Name:    name,
	}

	// Everything below is optional in the provider contract.
	token.DailyVolume, _ = jsonparser.GetFloat(value, "daily_volume")
	token.MintAuthority, _ = jsonparser.GetString(value, "mint_authority")
	token.LogoURI, _ = jsonparser.GetString(value, "logo_uri")
	token.CoingeckoID, _ = jsonparser.GetString(value, "extensions", "coingeckoId")

	if createdAt, err := jsonparser.GetString(value, "created_at"); err == nil {
		if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
			token.CreatedAt = ts
		}
	}

	_, _ = jsonparser.ArrayEach(value, func(tag []byte, _ jsonparser.ValueType, _ int, _ error) {
		token.Tags = append(token.Tags, string(tag))
	}, "tags")

	return token, nil
}
