package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexypaul13/DegenTrader-sub000/internal/models"
	"github.com/lexypaul13/DegenTrader-sub000/internal/providers"
	"github.com/lexypaul13/DegenTrader-sub000/internal/services"
	"github.com/lexypaul13/DegenTrader-sub000/pkg/store"
)

// MockWalletService implements WalletServiceInterface for testing
type MockWalletService struct {
	balances     map[string]float64
	transactions []models.Transaction
	price        models.PriceSnapshot
	buyErr       error
	sellErr      error
	swapErr      error
	fiatErr      error
}

func NewMockWalletService() *MockWalletService {
	return &MockWalletService{
		balances: make(map[string]float64),
		price:    models.PriceSnapshot{Price: 100, PreviousPrice: 90, LastUpdated: time.Now()},
	}
}

func (m *MockWalletService) GetBalance(symbol string) float64 { return m.balances[symbol] }
func (m *MockWalletService) Balances() map[string]float64     { return m.balances }
func (m *MockWalletService) Transactions() []models.Transaction {
	return m.transactions
}
func (m *MockWalletService) Price() models.PriceSnapshot { return m.price }

func (m *MockWalletService) Buy(amount float64, symbol string) error {
	if m.buyErr != nil {
		return m.buyErr
	}
	m.balances[symbol] += amount
	return nil
}

func (m *MockWalletService) Sell(amount float64, symbol string) error {
	if m.sellErr != nil {
		return m.sellErr
	}
	m.balances[symbol] -= amount
	return nil
}

func (m *MockWalletService) Swap(ctx context.Context, fromSymbol, toSymbol string, fromAmount, toAmount float64) error {
	if m.swapErr != nil {
		return m.swapErr
	}
	m.balances[fromSymbol] -= fromAmount
	m.balances[toSymbol] += toAmount
	return nil
}

func (m *MockWalletService) BuyWithFiat(ctx context.Context, fiatAmount float64) (float64, error) {
	if m.fiatErr != nil {
		return 0, m.fiatErr
	}
	credited := fiatAmount / m.price.Price
	m.balances["SOL"] += credited
	return credited, nil
}

func (m *MockWalletService) USDValue(symbol string) float64 {
	return m.balances[symbol] * m.price.Price
}

func (m *MockWalletService) TotalValueUSD() float64 {
	return m.balances["SOL"] * m.price.Price
}

// MockTrendingService implements TrendingServiceInterface for testing
type MockTrendingService struct {
	tokens     []models.Token
	initErr    error
	refreshErr error
	page       models.TrendingPage
}

func NewMockTrendingService() *MockTrendingService {
	return &MockTrendingService{}
}

func (m *MockTrendingService) Initialize(ctx context.Context) error { return m.initErr }
func (m *MockTrendingService) Refresh(ctx context.Context) error    { return m.refreshErr }

func (m *MockTrendingService) Search(ctx context.Context, query string) ([]models.Token, error) {
	if m.initErr != nil {
		return nil, m.initErr
	}
	if len(query) < 3 {
		return []models.Token{}, nil
	}
	return m.tokens, nil
}

func (m *MockTrendingService) LoadNextPage() models.TrendingPage { return m.page }
func (m *MockTrendingService) ResetPagination()                  {}
func (m *MockTrendingService) Trending() []models.Token          { return m.tokens }
func (m *MockTrendingService) AllTokens() []models.Token         { return m.tokens }
func (m *MockTrendingService) IsValid() bool                     { return m.initErr == nil }

// MockQuoteService implements QuoteServiceInterface for testing
type MockQuoteService struct {
	quotes map[string]models.PriceQuote
	err    error
}

func NewMockQuoteService() *MockQuoteService {
	return &MockQuoteService{quotes: make(map[string]models.PriceQuote)}
}

func (m *MockQuoteService) GetQuote(ctx context.Context, mint string) (models.PriceQuote, error) {
	if m.err != nil {
		return models.PriceQuote{}, m.err
	}
	quote, ok := m.quotes[mint]
	if !ok {
		return models.PriceQuote{}, models.ErrNotFound
	}
	return quote, nil
}

type stubTrendingProvider struct {
	err error
}

func (s *stubTrendingProvider) FetchTrending(ctx context.Context) ([]models.Token, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []models.Token{}, nil
}

var _ providers.TrendingProvider = (*stubTrendingProvider)(nil)

func newTestRouter(wallet *MockWalletService, trending *MockTrendingService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	quotes := NewMockQuoteService()
	quotes.quotes["So11111111111111111111111111111111111111112"] = models.PriceQuote{Price: 150}

	checker := services.NewHealthChecker(store.NewMemoryStore(), &stubTrendingProvider{})
	router := NewRouter(wallet, trending, quotes, NewHealthHandler(checker), NewPortfolioBroadcaster())
	router.SetupRoutes(engine)
	router.SetupHealthRoutes(engine)
	return engine
}

func performRequest(engine *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)
	return recorder
}

func TestGetPortfolio(t *testing.T) {
	wallet := NewMockWalletService()
	wallet.balances["SOL"] = 3
	engine := newTestRouter(wallet, NewMockTrendingService())

	recorder := performRequest(engine, http.MethodGet, "/api/portfolio", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var response models.PortfolioResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, 3.0, response.Balances["SOL"])
	assert.Equal(t, 300.0, response.TotalValueUSD)
	assert.InDelta(t, 11.11, response.ChangePercent, 0.01)
}

func TestBuyEndpoint(t *testing.T) {
	wallet := NewMockWalletService()
	engine := newTestRouter(wallet, NewMockTrendingService())

	recorder := performRequest(engine, http.MethodPost, "/api/trade/buy",
		models.TradeRequest{Symbol: "SOL", Amount: 2})
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, 2.0, wallet.balances["SOL"])
}

func TestBuyEndpointMalformedJSON(t *testing.T) {
	engine := newTestRouter(NewMockWalletService(), NewMockTrendingService())

	req := httptest.NewRequest(http.MethodPost, "/api/trade/buy", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var response models.ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, models.ErrorCodeMalformedJSON, response.Error.Code)
}

func TestBuyEndpointMissingSymbol(t *testing.T) {
	engine := newTestRouter(NewMockWalletService(), NewMockTrendingService())

	recorder := performRequest(engine, http.MethodPost, "/api/trade/buy",
		models.TradeRequest{Amount: 2})
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var response models.ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, models.ErrorCodeInvalidRequest, response.Error.Code)
}

func TestSellEndpointInsufficientBalance(t *testing.T) {
	wallet := NewMockWalletService()
	wallet.sellErr = models.NewInsufficientBalanceError("SOL", 0, 2)
	engine := newTestRouter(wallet, NewMockTrendingService())

	recorder := performRequest(engine, http.MethodPost, "/api/trade/sell",
		models.TradeRequest{Symbol: "SOL", Amount: 2})
	require.Equal(t, http.StatusUnprocessableEntity, recorder.Code)

	var response models.ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, models.ErrorCodeInsufficientBalance, response.Error.Code)
}

func TestSwapEndpoint(t *testing.T) {
	wallet := NewMockWalletService()
	wallet.balances["SOL"] = 10
	engine := newTestRouter(wallet, NewMockTrendingService())

	recorder := performRequest(engine, http.MethodPost, "/api/trade/swap", models.SwapRequest{
		FromSymbol: "SOL",
		ToSymbol:   "BONK",
		FromAmount: 4,
		ToAmount:   120000,
	})
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, 6.0, wallet.balances["SOL"])
	assert.Equal(t, 120000.0, wallet.balances["BONK"])
}

func TestSwapEndpointMissingSymbols(t *testing.T) {
	engine := newTestRouter(NewMockWalletService(), NewMockTrendingService())

	recorder := performRequest(engine, http.MethodPost, "/api/trade/swap",
		models.SwapRequest{FromAmount: 1, ToAmount: 2})
	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestFiatEndpoint(t *testing.T) {
	wallet := NewMockWalletService()
	engine := newTestRouter(wallet, NewMockTrendingService())

	recorder := performRequest(engine, http.MethodPost, "/api/trade/fiat",
		models.FiatPurchaseRequest{FiatAmount: 100})
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, 1.0, wallet.balances["SOL"])
}

func TestFiatEndpointProviderFailure(t *testing.T) {
	wallet := NewMockWalletService()
	wallet.fiatErr = models.NewTransactionFailedError(context.DeadlineExceeded)
	engine := newTestRouter(wallet, NewMockTrendingService())

	recorder := performRequest(engine, http.MethodPost, "/api/trade/fiat",
		models.FiatPurchaseRequest{FiatAmount: 100})
	require.Equal(t, http.StatusBadGateway, recorder.Code)
}

func TestTrendingEndpoint(t *testing.T) {
	trending := NewMockTrendingService()
	trending.tokens = []models.Token{{Address: "a1", Symbol: "PEPE", Name: "Pepe"}}
	engine := newTestRouter(NewMockWalletService(), trending)

	recorder := performRequest(engine, http.MethodGet, "/api/trending", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var response struct {
		Tokens []models.Token `json:"tokens"`
		Count  int            `json:"count"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, 1, response.Count)
	assert.Equal(t, "PEPE", response.Tokens[0].Symbol)
}

func TestTrendingEndpointProviderFailure(t *testing.T) {
	trending := NewMockTrendingService()
	trending.initErr = models.NewProviderError("trending fetch failed", context.DeadlineExceeded)
	engine := newTestRouter(NewMockWalletService(), trending)

	recorder := performRequest(engine, http.MethodGet, "/api/trending", nil)
	require.Equal(t, http.StatusBadGateway, recorder.Code)
}

func TestTrendingPageEndpoint(t *testing.T) {
	trending := NewMockTrendingService()
	trending.page = models.TrendingPage{
		Tokens:       []models.Token{{Address: "a1", Symbol: "PEPE"}},
		Page:         1,
		HasMorePages: true,
	}
	engine := newTestRouter(NewMockWalletService(), trending)

	recorder := performRequest(engine, http.MethodGet, "/api/trending/page", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var page models.TrendingPage
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &page))
	assert.Equal(t, 1, page.Page)
	assert.True(t, page.HasMorePages)
}

func TestSearchEndpoint(t *testing.T) {
	trending := NewMockTrendingService()
	trending.tokens = []models.Token{{Address: "a1", Symbol: "BONK", Name: "Bonk"}}
	engine := newTestRouter(NewMockWalletService(), trending)

	recorder := performRequest(engine, http.MethodGet, "/api/search?q=bonk", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var response models.SearchResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, "bonk", response.Query)
	require.Len(t, response.Tokens, 1)
}

func TestPriceEndpoint(t *testing.T) {
	engine := newTestRouter(NewMockWalletService(), NewMockTrendingService())

	recorder := performRequest(engine, http.MethodGet, "/api/price", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, 100.0, response["price"])
}

func TestTokenPriceEndpoint(t *testing.T) {
	engine := newTestRouter(NewMockWalletService(), NewMockTrendingService())

	recorder := performRequest(engine, http.MethodGet,
		"/api/price/So11111111111111111111111111111111111111112", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, 150.0, response["price"])
}

func TestTokenPriceEndpointUnknownMint(t *testing.T) {
	engine := newTestRouter(NewMockWalletService(), NewMockTrendingService())

	recorder := performRequest(engine, http.MethodGet, "/api/price/UnknownMint111", nil)
	require.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestHealthEndpoints(t *testing.T) {
	engine := newTestRouter(NewMockWalletService(), NewMockTrendingService())

	for _, path := range []string{"/health", "/health/live", "/health/ready", "/health/store"} {
		recorder := performRequest(engine, http.MethodGet, path, nil)
		assert.Equalf(t, http.StatusOK, recorder.Code, "path %s", path)
	}
}
