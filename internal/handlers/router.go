package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/lexypaul13/DegenTrader-sub000/internal/services"
)

// Router handles HTTP routing setup
type Router struct {
	walletHandler *WalletHandler
	marketHandler *MarketHandler
	healthHandler *HealthHandler
	broadcaster   *PortfolioBroadcaster
}

// NewRouter creates a new Router instance with all handlers
func NewRouter(
	walletService services.WalletServiceInterface,
	trendingService services.TrendingServiceInterface,
	quoteService services.QuoteServiceInterface,
	healthHandler *HealthHandler,
	broadcaster *PortfolioBroadcaster,
) *Router {
	return &Router{
		walletHandler: NewWalletHandler(walletService),
		marketHandler: NewMarketHandler(trendingService, walletService, quoteService),
		healthHandler: healthHandler,
		broadcaster:   broadcaster,
	}
}

// SetupRoutes configures all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	api := engine.Group("/api")
	{
		api.GET("/portfolio", r.walletHandler.GetPortfolio)
		api.GET("/price", r.marketHandler.GetPrice)
		api.GET("/price/:mint", r.marketHandler.GetTokenPrice)

		trade := api.Group("/trade")
		{
			trade.POST("/buy", r.walletHandler.Buy)
			trade.POST("/sell", r.walletHandler.Sell)
			trade.POST("/swap", r.walletHandler.Swap)
			trade.POST("/fiat", r.walletHandler.BuyWithFiat)
		}

		api.GET("/trending", r.marketHandler.GetTrending)
		api.GET("/trending/page", r.marketHandler.GetTrendingPage)
		api.POST("/trending/page/reset", r.marketHandler.ResetTrendingPagination)
		api.POST("/trending/refresh", r.marketHandler.RefreshTrending)
		api.GET("/search", r.marketHandler.Search)
	}

	if r.broadcaster != nil {
		engine.GET("/ws/portfolio", r.broadcaster.Handle)
	}
}

// SetupHealthRoutes configures health check routes
func (r *Router) SetupHealthRoutes(engine *gin.Engine) {
	health := engine.Group("/health")
	{
		health.GET("", r.healthHandler.GetHealth)
		health.GET("/live", r.healthHandler.GetLiveness)
		health.GET("/ready", r.healthHandler.GetReadiness)
		health.GET("/store", r.healthHandler.GetStoreHealth)
		health.GET("/provider", r.healthHandler.GetProviderHealth)
	}
}
