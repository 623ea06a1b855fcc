package services

import (
	"context"
	"encoding/json"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lexypaul13/DegenTrader-sub000/internal/config"
	"github.com/lexypaul13/DegenTrader-sub000/internal/models"
	"github.com/lexypaul13/DegenTrader-sub000/internal/providers"
	"github.com/lexypaul13/DegenTrader-sub000/pkg/logger"
	"github.com/lexypaul13/DegenTrader-sub000/pkg/metrics"
	"github.com/lexypaul13/DegenTrader-sub000/pkg/store"
)

// walletStateKey is the storage key the ledger persists under.
const walletStateKey = "wallet_state"

// WalletService is the authoritative in-memory balance and transaction state
// with synchronous durability and asynchronous price refresh. Each mutation
// commits balance change, transaction append and persistence as one unit
// before the next operation observes state.
type WalletService struct {
	priceProvider providers.PriceProvider
	store         store.Store
	metrics       *metrics.Collector
	cfg           config.WalletConfig

	mutex    sync.Mutex
	state    *models.WalletState
	price    models.PriceSnapshot
	onChange func(models.PortfolioUpdate)

	stopCh   chan struct{}
	stopOnce sync.Once
	now      func() time.Time
	newID    func() string
}

// NewWalletService loads persisted state and returns the ledger. Load
// failures are logged and degrade to an empty, valid state.
func NewWalletService(
	priceProvider providers.PriceProvider,
	storage store.Store,
	collector *metrics.Collector,
	cfg config.WalletConfig,
) *WalletService {
	ws := &WalletService{
		priceProvider: priceProvider,
		store:         storage,
		metrics:       collector,
		cfg:           cfg,
		state:         models.NewWalletState(),
		stopCh:        make(chan struct{}),
		now:           time.Now,
		newID:         func() string { return uuid.New().String() },
	}
	ws.load()
	return ws
}

// load restores the ledger from the durable store, once, at construction.
func (ws *WalletService) load() {
	log := logger.GetLogger()

	data, err := ws.store.Load(walletStateKey)
	if err != nil {
		if err != store.ErrKeyNotFound {
			log.Warn("Failed to load wallet state, starting empty", zap.Error(err))
		}
		return
	}

	var state models.WalletState
	if err := json.Unmarshal(data, &state); err != nil {
		log.Warn("Failed to decode wallet state, starting empty", zap.Error(err))
		return
	}
	if state.Balances == nil {
		state.Balances = make(map[string]float64)
	}
	if state.Transactions == nil {
		state.Transactions = []models.Transaction{}
	}

	ws.state = &state
	log.Info("Wallet state loaded",
		zap.Int("asset_count", len(state.Balances)),
		zap.Int("transaction_count", len(state.Transactions)),
	)
}

// persistLocked saves the ledger. Failures are logged and absorbed; the
// in-memory state stays authoritative. Caller holds the mutex.
func (ws *WalletService) persistLocked() {
	data, err := json.Marshal(ws.state)
	if err != nil {
		logger.GetLogger().Error("Failed to encode wallet state", zap.Error(err))
		return
	}
	if err := ws.store.Save(walletStateKey, data); err != nil {
		logger.GetLogger().Error("Failed to persist wallet state", zap.Error(err))
	}
}

// GetBalance returns the balance for a symbol, zero when absent.
func (ws *WalletService) GetBalance(symbol string) float64 {
	ws.mutex.Lock()
	defer ws.mutex.Unlock()
	return ws.state.Balances[symbol]
}

// Balances returns a copy of the balance map.
func (ws *WalletService) Balances() map[string]float64 {
	ws.mutex.Lock()
	defer ws.mutex.Unlock()
	return ws.balancesLocked()
}

func (ws *WalletService) balancesLocked() map[string]float64 {
	out := make(map[string]float64, len(ws.state.Balances))
	for symbol, amount := range ws.state.Balances {
		out[symbol] = amount
	}
	return out
}

// Transactions returns a copy of the newest-first transaction log.
func (ws *WalletService) Transactions() []models.Transaction {
	ws.mutex.Lock()
	defer ws.mutex.Unlock()

	out := make([]models.Transaction, len(ws.state.Transactions))
	copy(out, ws.state.Transactions)
	return out
}

// Price returns the current price snapshot for the tracked asset.
func (ws *WalletService) Price() models.PriceSnapshot {
	ws.mutex.Lock()
	defer ws.mutex.Unlock()
	return ws.price
}

// USDValue returns balance * current price for a symbol.
func (ws *WalletService) USDValue(symbol string) float64 {
	ws.mutex.Lock()
	defer ws.mutex.Unlock()
	return ws.state.Balances[symbol] * ws.price.Price
}

// TotalValueUSD returns the tracked asset's holdings valued at the current
// price. Untracked assets have no quote and contribute nothing.
func (ws *WalletService) TotalValueUSD() float64 {
	ws.mutex.Lock()
	defer ws.mutex.Unlock()
	return ws.totalValueLocked()
}

func (ws *WalletService) totalValueLocked() float64 {
	return ws.state.Balances[ws.cfg.TrackedSymbol] * ws.price.Price
}

// Buy credits a simulated purchase. Always succeeds for positive amounts.
func (ws *WalletService) Buy(amount float64, symbol string) error {
	if amount <= 0 || math.IsNaN(amount) {
		return models.NewInvalidAmountError("buy amount must be greater than zero")
	}

	ws.mutex.Lock()
	ws.state.Balances[symbol] += amount
	ws.appendTransactionLocked(models.Transaction{
		ToAsset:  symbol,
		ToAmount: amount,
		Source:   models.TransactionSourceBuy,
	})
	ws.persistLocked()
	update := ws.updateLocked()
	ws.mutex.Unlock()

	ws.notify(update)
	return nil
}

// Sell debits holdings, failing atomically when they are insufficient.
func (ws *WalletService) Sell(amount float64, symbol string) error {
	if amount <= 0 || math.IsNaN(amount) {
		return models.NewInvalidAmountError("sell amount must be greater than zero")
	}

	ws.mutex.Lock()
	balance := ws.state.Balances[symbol]
	if balance < amount {
		ws.mutex.Unlock()
		return models.NewInsufficientBalanceError(symbol, balance, amount)
	}

	ws.state.Balances[symbol] = balance - amount
	ws.appendTransactionLocked(models.Transaction{
		FromAsset:  symbol,
		FromAmount: amount,
		Source:     models.TransactionSourceSell,
	})
	ws.persistLocked()
	update := ws.updateLocked()
	ws.mutex.Unlock()

	ws.notify(update)
	return nil
}

// Swap debits fromSymbol and credits toSymbol as one atomic transition.
// The settlement delay is a cancellation point: a cancelled caller leaves
// both balances unchanged.
func (ws *WalletService) Swap(ctx context.Context, fromSymbol, toSymbol string, fromAmount, toAmount float64) error {
	fromAmount = math.Abs(fromAmount)
	toAmount = math.Abs(toAmount)
	if fromAmount == 0 || toAmount == 0 || math.IsNaN(fromAmount) || math.IsNaN(toAmount) {
		return models.NewInvalidAmountError("swap amounts must be non-zero numbers")
	}

	// The balance check runs before the simulated settlement so obviously
	// doomed swaps fail fast.
	ws.mutex.Lock()
	balance := ws.state.Balances[fromSymbol]
	ws.mutex.Unlock()
	if balance < fromAmount {
		return models.NewInsufficientBalanceError(fromSymbol, balance, fromAmount)
	}

	if ws.cfg.SwapSettlementDelay > 0 {
		timer := time.NewTimer(ws.cfg.SwapSettlementDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	ws.mutex.Lock()
	// Re-check under the lock: a concurrent operation may have spent the
	// balance during settlement.
	balance = ws.state.Balances[fromSymbol]
	if balance < fromAmount {
		ws.mutex.Unlock()
		return models.NewInsufficientBalanceError(fromSymbol, balance, fromAmount)
	}

	ws.state.Balances[fromSymbol] = balance - fromAmount
	ws.state.Balances[toSymbol] += toAmount
	ws.appendTransactionLocked(models.Transaction{
		FromAsset:  fromSymbol,
		ToAsset:    toSymbol,
		FromAmount: fromAmount,
		ToAmount:   toAmount,
		Source:     models.TransactionSourceSwap,
	})
	ws.persistLocked()
	update := ws.updateLocked()
	ws.mutex.Unlock()

	ws.notify(update)
	return nil
}

// BuyWithFiat refreshes the price and converts a fiat amount into the
// tracked asset. A provider failure fails the whole purchase; no purchase
// ever settles against a stale price. Returns the credited asset amount.
func (ws *WalletService) BuyWithFiat(ctx context.Context, fiatAmount float64) (float64, error) {
	if fiatAmount <= 0 || math.IsNaN(fiatAmount) {
		return 0, models.NewInvalidAmountError("fiat amount must be greater than zero")
	}

	if err := ws.RefreshPrice(ctx); err != nil {
		return 0, models.NewTransactionFailedError(err)
	}

	ws.mutex.Lock()
	price := ws.price.Price
	if price <= 0 {
		ws.mutex.Unlock()
		return 0, models.NewTransactionFailedError(
			models.NewAppError(models.ErrorCodeNotFound, "no price available for tracked asset"))
	}

	assetAmount := fiatAmount / price
	ws.state.Balances[ws.cfg.TrackedSymbol] += assetAmount
	ws.appendTransactionLocked(models.Transaction{
		FromAsset:  "USD",
		ToAsset:    ws.cfg.TrackedSymbol,
		FromAmount: fiatAmount,
		ToAmount:   assetAmount,
		Source:     models.TransactionSourceFiat,
	})
	ws.persistLocked()
	update := ws.updateLocked()
	ws.mutex.Unlock()

	ws.notify(update)
	return assetAmount, nil
}

// RefreshPrice fetches the tracked asset's quote. Success shifts the
// previous/current pair; failure leaves the snapshot untouched.
func (ws *WalletService) RefreshPrice(ctx context.Context) error {
	start := ws.now()
	quotes, err := ws.priceProvider.FetchPrices(ctx, []string{ws.cfg.TrackedMint})
	ws.metrics.RecordProviderCall(time.Since(start), err == nil)
	if err != nil {
		return err
	}

	quote, ok := quotes[ws.cfg.TrackedMint]
	if !ok {
		return models.ErrNotFound
	}

	// A cancelled caller must not shift the price pair.
	if err := ctx.Err(); err != nil {
		return err
	}

	ws.mutex.Lock()
	ws.price.PreviousPrice = ws.price.Price
	ws.price.Price = quote.Price
	ws.price.LastUpdated = ws.now()
	update := ws.updateLocked()
	ws.mutex.Unlock()

	ws.notify(update)
	return nil
}

// appendTransactionLocked stamps and prepends a transaction record.
// Caller holds the mutex.
func (ws *WalletService) appendTransactionLocked(tx models.Transaction) {
	tx.ID = ws.newID()
	tx.Date = ws.now()
	tx.Status = models.TransactionStatusCompleted

	ws.state.Transactions = append([]models.Transaction{tx}, ws.state.Transactions...)
}

func (ws *WalletService) updateLocked() models.PortfolioUpdate {
	return models.PortfolioUpdate{
		Balances:      ws.balancesLocked(),
		Price:         ws.price,
		TotalValueUSD: ws.totalValueLocked(),
		Timestamp:     ws.now(),
	}
}

func (ws *WalletService) notify(update models.PortfolioUpdate) {
	if ws.onChange != nil {
		ws.onChange(update)
	}
}

// OnChange registers the change-notification hook. Set once during wiring,
// before any mutating operation runs.
func (ws *WalletService) OnChange(fn func(models.PortfolioUpdate)) {
	ws.onChange = fn
}

// Start runs the periodic price refresh until Stop. Failures only log; the
// last known price stays visible.
func (ws *WalletService) Start() {
	go func() {
		ticker := time.NewTicker(ws.cfg.PriceRefreshInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), ws.cfg.PriceRefreshInterval)
				if err := ws.RefreshPrice(ctx); err != nil {
					logger.GetLogger().Warn("Scheduled price refresh failed", zap.Error(err))
				}
				cancel()
			case <-ws.stopCh:
				return
			}
		}
	}()
}

// Stop halts the price refresh loop. Safe to call more than once.
func (ws *WalletService) Stop() {
	ws.stopOnce.Do(func() {
		close(ws.stopCh)
	})
}
