package models

import "time"

// TransactionStatus marks the settlement outcome of a ledger operation.
type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// TransactionSource identifies which operation produced a transaction.
type TransactionSource string

const (
	TransactionSourceBuy  TransactionSource = "buy"
	TransactionSourceSell TransactionSource = "sell"
	TransactionSourceSwap TransactionSource = "swap"
	TransactionSourceFiat TransactionSource = "fiat"
)

// Transaction is an immutable audit record of a completed balance-changing
// operation. Records are append-only and never mutated or removed.
type Transaction struct {
	ID         string            `json:"id"`
	Date       time.Time         `json:"date"`
	FromAsset  string            `json:"from_asset"`
	ToAsset    string            `json:"to_asset"`
	FromAmount float64           `json:"from_amount"`
	ToAmount   float64           `json:"to_amount"`
	Status     TransactionStatus `json:"status"`
	Source     TransactionSource `json:"source"`
}

// WalletState is the durable snapshot of the ledger: the balance map plus
// the newest-first transaction log.
type WalletState struct {
	Balances     map[string]float64 `json:"balances"`
	Transactions []Transaction      `json:"transactions"`
}

// NewWalletState returns an empty, valid ledger state.
func NewWalletState() *WalletState {
	return &WalletState{
		Balances:     make(map[string]float64),
		Transactions: []Transaction{},
	}
}

// PortfolioUpdate is the change notification emitted after every committed
// ledger mutation or price refresh.
type PortfolioUpdate struct {
	Balances      map[string]float64 `json:"balances"`
	Price         PriceSnapshot      `json:"price"`
	TotalValueUSD float64            `json:"total_value_usd"`
	Timestamp     time.Time          `json:"timestamp"`
}

// TradeRequest is the payload for buy and sell endpoints.
type TradeRequest struct {
	Symbol string  `json:"symbol"`
	Amount float64 `json:"amount"`
}

// SwapRequest is the payload for the swap endpoint.
type SwapRequest struct {
	FromSymbol string  `json:"from_symbol"`
	ToSymbol   string  `json:"to_symbol"`
	FromAmount float64 `json:"from_amount"`
	ToAmount   float64 `json:"to_amount"`
}

// FiatPurchaseRequest is the payload for the fiat purchase endpoint.
type FiatPurchaseRequest struct {
	FiatAmount float64 `json:"fiat_amount"`
}

// PortfolioResponse is the read model served for portfolio queries.
type PortfolioResponse struct {
	Balances      map[string]float64 `json:"balances"`
	Price         PriceSnapshot      `json:"price"`
	ChangePercent float64            `json:"change_percent"`
	TotalValueUSD float64            `json:"total_value_usd"`
	Transactions  []Transaction      `json:"transactions"`
}
