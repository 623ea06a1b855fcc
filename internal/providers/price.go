package providers

import (
	"context"
	"fmt"
	"strings"

	"github.com/buger/jsonparser"
	"github.com/gagliardetto/solana-go"

	"github.com/lexypaul13/DegenTrader-sub000/internal/config"
	"github.com/lexypaul13/DegenTrader-sub000/internal/models"
)

// PriceClient fetches quotes from a Jupiter-style price API.
type PriceClient struct {
	http     *httpClient
	endpoint string
}

// NewPriceClient creates a PriceClient for the configured endpoint.
func NewPriceClient(cfg *config.ProviderConfig) *PriceClient {
	return &PriceClient{
		http:     newHTTPClient(cfg),
		endpoint: cfg.PriceEndpoint,
	}
}

// FetchPrices returns a quote per requested mint address. Addresses must be
// valid base58 Solana public keys; the call fails fast on a malformed one
// rather than burning a provider slot.
func (pc *PriceClient) FetchPrices(ctx context.Context, addresses []string) (map[string]models.PriceQuote, error) {
	if len(addresses) == 0 {
		return map[string]models.PriceQuote{}, nil
	}

	for _, address := range addresses {
		if _, err := solana.PublicKeyFromBase58(address); err != nil {
			return nil, models.NewAppErrorWithCause(
				models.ErrorCodeInvalidToken,
				fmt.Sprintf("invalid mint address %q", address),
				err,
			)
		}
	}

	url := fmt.Sprintf("%s?ids=%s", pc.endpoint, strings.Join(addresses, ","))
	body, err := pc.http.get(ctx, url)
	if err != nil {
		return nil, err
	}

	return decodePrices(body)
}

// decodePrices extracts the quote map from a response shaped as
// {"data": {"<mint>": {"price": n, "change_24h": n, "volume_24h": n}}}.
func decodePrices(body []byte) (map[string]models.PriceQuote, error) {
	quotes := make(map[string]models.PriceQuote)

	err := jsonparser.ObjectEach(body, func(key []byte, value []byte, _ jsonparser.ValueType, _ int) error {
		price, err := jsonparser.GetFloat(value, "price")
		if err != nil {
			return fmt.Errorf("quote for %s has no price: %w", key, err)
		}

		// Change and volume are optional in the provider contract.
		change, _ := jsonparser.GetFloat(value, "change_24h")
		volume, _ := jsonparser.GetFloat(value, "volume_24h")

		quotes[string(key)] = models.PriceQuote{
			Price:     price,
			Change24h: change,
			Volume24h: volume,
		}
		return nil
	}, "data")
	if err != nil {
		return nil, models.NewDecodeError("failed to decode price response", err)
	}

	return quotes, nil
}
