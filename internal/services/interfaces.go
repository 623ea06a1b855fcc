package services

import (
	"context"

	"github.com/lexypaul13/DegenTrader-sub000/internal/models"
)

// WalletServiceInterface defines the operations of the wallet ledger
type WalletServiceInterface interface {
	GetBalance(symbol string) float64
	Balances() map[string]float64
	Transactions() []models.Transaction
	Price() models.PriceSnapshot
	Buy(amount float64, symbol string) error
	Sell(amount float64, symbol string) error
	Swap(ctx context.Context, fromSymbol, toSymbol string, fromAmount, toAmount float64) error
	BuyWithFiat(ctx context.Context, fiatAmount float64) (float64, error)
	USDValue(symbol string) float64
	TotalValueUSD() float64
}

// QuoteServiceInterface defines the cached per-mint quote lookup
type QuoteServiceInterface interface {
	GetQuote(ctx context.Context, mint string) (models.PriceQuote, error)
}

// TrendingServiceInterface defines the operations of the trending token cache
type TrendingServiceInterface interface {
	Initialize(ctx context.Context) error
	Refresh(ctx context.Context) error
	Search(ctx context.Context, query string) ([]models.Token, error)
	LoadNextPage() models.TrendingPage
	ResetPagination()
	Trending() []models.Token
	AllTokens() []models.Token
	IsValid() bool
}
