package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lexypaul13/DegenTrader-sub000/internal/models"
	"github.com/lexypaul13/DegenTrader-sub000/internal/services"
	"github.com/lexypaul13/DegenTrader-sub000/pkg/logger"
)

// MarketHandler handles trending, search and price HTTP requests
type MarketHandler struct {
	trendingService services.TrendingServiceInterface
	walletService   services.WalletServiceInterface
	quoteService    services.QuoteServiceInterface
}

// NewMarketHandler creates a new MarketHandler instance
func NewMarketHandler(
	trendingService services.TrendingServiceInterface,
	walletService services.WalletServiceInterface,
	quoteService services.QuoteServiceInterface,
) *MarketHandler {
	return &MarketHandler{
		trendingService: trendingService,
		walletService:   walletService,
		quoteService:    quoteService,
	}
}

// GetTrending handles GET /api/trending requests. It serves the cached
// snapshot, fetching one first when none is valid.
func (h *MarketHandler) GetTrending(c *gin.Context) {
	log := logger.GetLogger().WithContext(c.Request.Context())

	if err := h.trendingService.Initialize(c.Request.Context()); err != nil {
		models.HandleError(c, err, log)
		return
	}

	tokens := h.trendingService.Trending()
	c.JSON(http.StatusOK, gin.H{
		"tokens": tokens,
		"count":  len(tokens),
	})
}

// GetTrendingPage handles GET /api/trending/page requests, serving the next
// page of the trending subset.
func (h *MarketHandler) GetTrendingPage(c *gin.Context) {
	log := logger.GetLogger().WithContext(c.Request.Context())

	if err := h.trendingService.Initialize(c.Request.Context()); err != nil {
		models.HandleError(c, err, log)
		return
	}

	c.JSON(http.StatusOK, h.trendingService.LoadNextPage())
}

// ResetTrendingPagination handles POST /api/trending/page/reset requests.
func (h *MarketHandler) ResetTrendingPagination(c *gin.Context) {
	h.trendingService.ResetPagination()
	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}

// RefreshTrending handles POST /api/trending/refresh requests, forcing a
// provider fetch regardless of snapshot freshness.
func (h *MarketHandler) RefreshTrending(c *gin.Context) {
	log := logger.GetLogger().WithContext(c.Request.Context())

	if err := h.trendingService.Refresh(c.Request.Context()); err != nil {
		models.HandleError(c, err, log)
		return
	}

	tokens := h.trendingService.Trending()
	log.Info("Trending refresh requested", zap.Int("trending_count", len(tokens)))
	c.JSON(http.StatusOK, gin.H{
		"tokens": tokens,
		"count":  len(tokens),
	})
}

// Search handles GET /api/search requests
func (h *MarketHandler) Search(c *gin.Context) {
	log := logger.GetLogger().WithContext(c.Request.Context())

	query := c.Query("q")
	results, err := h.trendingService.Search(c.Request.Context(), query)
	if err != nil {
		models.HandleError(c, err, log)
		return
	}

	c.JSON(http.StatusOK, models.SearchResponse{
		Query:  query,
		Tokens: results,
	})
}

// GetTokenPrice handles GET /api/price/:mint requests, serving a cached
// quote for an arbitrary token.
func (h *MarketHandler) GetTokenPrice(c *gin.Context) {
	log := logger.GetLogger().WithContext(c.Request.Context())

	mint := c.Param("mint")
	quote, err := h.quoteService.GetQuote(c.Request.Context(), mint)
	if err != nil {
		models.HandleError(c, err, log)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"mint":       mint,
		"price":      quote.Price,
		"change_24h": quote.Change24h,
		"volume_24h": quote.Volume24h,
	})
}

// GetPrice handles GET /api/price requests, serving the tracked asset's
// current snapshot.
func (h *MarketHandler) GetPrice(c *gin.Context) {
	snapshot := h.walletService.Price()
	c.JSON(http.StatusOK, gin.H{
		"price":          snapshot.Price,
		"previous_price": snapshot.PreviousPrice,
		"change_percent": snapshot.ChangePercent(),
		"last_updated":   snapshot.LastUpdated,
	})
}
