package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lexypaul13/DegenTrader-sub000/internal/models"
	"github.com/lexypaul13/DegenTrader-sub000/internal/services"
	"github.com/lexypaul13/DegenTrader-sub000/pkg/logger"
)

// WalletHandler handles portfolio and trade HTTP requests
type WalletHandler struct {
	walletService services.WalletServiceInterface
}

// NewWalletHandler creates a new WalletHandler instance
func NewWalletHandler(walletService services.WalletServiceInterface) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
	}
}

// GetPortfolio handles GET /api/portfolio requests
func (h *WalletHandler) GetPortfolio(c *gin.Context) {
	price := h.walletService.Price()
	response := models.PortfolioResponse{
		Balances:      h.walletService.Balances(),
		Transactions:  h.walletService.Transactions(),
		Price:         price,
		ChangePercent: price.ChangePercent(),
		TotalValueUSD: h.walletService.TotalValueUSD(),
	}
	c.JSON(http.StatusOK, response)
}

// Buy handles POST /api/trade/buy requests
func (h *WalletHandler) Buy(c *gin.Context) {
	log := logger.GetLogger().WithContext(c.Request.Context())

	req, ok := bindTradeRequest(c, log)
	if !ok {
		return
	}

	if err := h.walletService.Buy(req.Amount, req.Symbol); err != nil {
		models.HandleError(c, err, log)
		return
	}

	log.Info("Buy completed",
		zap.String("symbol", req.Symbol),
		zap.Float64("amount", req.Amount),
	)
	c.JSON(http.StatusOK, gin.H{
		"symbol":  req.Symbol,
		"amount":  req.Amount,
		"balance": h.walletService.GetBalance(req.Symbol),
	})
}

// Sell handles POST /api/trade/sell requests
func (h *WalletHandler) Sell(c *gin.Context) {
	log := logger.GetLogger().WithContext(c.Request.Context())

	req, ok := bindTradeRequest(c, log)
	if !ok {
		return
	}

	if err := h.walletService.Sell(req.Amount, req.Symbol); err != nil {
		models.HandleError(c, err, log)
		return
	}

	log.Info("Sell completed",
		zap.String("symbol", req.Symbol),
		zap.Float64("amount", req.Amount),
	)
	c.JSON(http.StatusOK, gin.H{
		"symbol":  req.Symbol,
		"amount":  req.Amount,
		"balance": h.walletService.GetBalance(req.Symbol),
	})
}

// Swap handles POST /api/trade/swap requests
func (h *WalletHandler) Swap(c *gin.Context) {
	log := logger.GetLogger().WithContext(c.Request.Context())

	var req models.SwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		models.HandleError(c, models.NewAppErrorWithDetails(
			models.ErrorCodeMalformedJSON,
			"Invalid JSON format",
			err.Error(),
		), log)
		return
	}

	if req.FromSymbol == "" || req.ToSymbol == "" {
		models.HandleError(c, models.NewAppErrorWithDetails(
			models.ErrorCodeInvalidRequest,
			"Invalid swap request",
			"from_symbol and to_symbol are required",
		), log)
		return
	}

	err := h.walletService.Swap(c.Request.Context(), req.FromSymbol, req.ToSymbol, req.FromAmount, req.ToAmount)
	if err != nil {
		models.HandleError(c, err, log)
		return
	}

	log.Info("Swap completed",
		zap.String("from_symbol", req.FromSymbol),
		zap.String("to_symbol", req.ToSymbol),
		zap.Float64("from_amount", req.FromAmount),
		zap.Float64("to_amount", req.ToAmount),
	)
	c.JSON(http.StatusOK, gin.H{
		"from_symbol": req.FromSymbol,
		"to_symbol":   req.ToSymbol,
		"balances":    h.walletService.Balances(),
	})
}

// BuyWithFiat handles POST /api/trade/fiat requests
func (h *WalletHandler) BuyWithFiat(c *gin.Context) {
	log := logger.GetLogger().WithContext(c.Request.Context())

	var req models.FiatPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		models.HandleError(c, models.NewAppErrorWithDetails(
			models.ErrorCodeMalformedJSON,
			"Invalid JSON format",
			err.Error(),
		), log)
		return
	}

	credited, err := h.walletService.BuyWithFiat(c.Request.Context(), req.FiatAmount)
	if err != nil {
		models.HandleError(c, err, log)
		return
	}

	log.Info("Fiat purchase completed",
		zap.Float64("fiat_amount", req.FiatAmount),
		zap.Float64("credited_amount", credited),
	)
	c.JSON(http.StatusOK, gin.H{
		"fiat_amount":     req.FiatAmount,
		"credited_amount": credited,
		"price":           h.walletService.Price(),
	})
}

func bindTradeRequest(c *gin.Context, log *logger.Logger) (models.TradeRequest, bool) {
	var req models.TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		models.HandleError(c, models.NewAppErrorWithDetails(
			models.ErrorCodeMalformedJSON,
			"Invalid JSON format",
			err.Error(),
		), log)
		return req, false
	}
	if req.Symbol == "" {
		models.HandleError(c, models.NewAppErrorWithDetails(
			models.ErrorCodeInvalidRequest,
			"Invalid trade request",
			"symbol is required",
		), log)
		return req, false
	}
	return req, true
}
