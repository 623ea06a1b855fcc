package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lexypaul13/DegenTrader-sub000/internal/config"
	"github.com/lexypaul13/DegenTrader-sub000/internal/handlers"
	"github.com/lexypaul13/DegenTrader-sub000/internal/middleware"
	"github.com/lexypaul13/DegenTrader-sub000/internal/providers"
	"github.com/lexypaul13/DegenTrader-sub000/internal/services"
	"github.com/lexypaul13/DegenTrader-sub000/pkg/logger"
	"github.com/lexypaul13/DegenTrader-sub000/pkg/metrics"
	"github.com/lexypaul13/DegenTrader-sub000/pkg/ratelimiter"
	"github.com/lexypaul13/DegenTrader-sub000/pkg/store"
)

// Server represents the main application server
type Server struct {
	httpServer      *http.Server
	config          *config.Config
	storage         store.Store
	walletService   *services.WalletService
	trendingService *services.TrendingService
	quoteService    *services.QuoteService
	rateLimiter     *ratelimiter.RateLimiter
	metrics         *metrics.Collector
	broadcaster     *handlers.PortfolioBroadcaster
	router          *handlers.Router
}

func main() {
	cfg := config.LoadConfig()

	loggerConfig := &logger.Config{
		Level:       cfg.Logging.Level,
		Environment: cfg.Logging.Environment,
		OutputPaths: cfg.Logging.OutputPaths,
	}

	if err := logger.Initialize(loggerConfig); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log := logger.GetLogger()

	log.Info("Starting DegenTrader core server",
		zap.String("host", cfg.Server.Host),
		zap.String("port", cfg.Server.Port),
		zap.String("storage_backend", cfg.Storage.Backend),
		zap.String("price_endpoint", cfg.Provider.PriceEndpoint),
		zap.String("trending_endpoint", cfg.Provider.TrendingEndpoint),
		zap.Int("rate_limit", cfg.RateLimit.RequestsPerWindow),
		zap.String("log_level", cfg.Logging.Level),
	)

	server, err := NewServer(cfg)
	if err != nil {
		log.Fatal("Failed to create server", zap.Error(err))
	}

	if err := server.Start(); err != nil {
		log.Fatal("Server failed to start", zap.Error(err))
	}
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	log := logger.GetLogger()

	log.Info("Initializing server components")

	storage, err := newStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	priceClient := providers.NewPriceClient(&cfg.Provider)
	trendingClient := providers.NewTrendingClient(&cfg.Provider)

	collector := metrics.NewCollector()

	// The provider limiter throttles outbound fetches; inbound requests get
	// their own window so API traffic never starves the refresh loops.
	providerLimiter := ratelimiter.New(cfg.RateLimit.RequestsPerWindow, cfg.RateLimit.WindowSize)
	inboundLimiter := ratelimiter.New(cfg.RateLimit.RequestsPerWindow, cfg.RateLimit.WindowSize)

	classifierCfg := services.DefaultClassifierConfig()
	classifierCfg.Threshold = cfg.Classifier.Threshold
	classifier := services.NewMemeCoinClassifier(classifierCfg)

	trendingService := services.NewTrendingService(trendingClient, classifier, providerLimiter, collector, cfg.Trending)
	walletService := services.NewWalletService(priceClient, storage, collector, cfg.Wallet)
	quoteService := services.NewQuoteService(priceClient, providerLimiter, collector, cfg.Cache)

	broadcaster := handlers.NewPortfolioBroadcaster()
	walletService.OnChange(broadcaster.Broadcast)

	healthChecker := services.NewHealthChecker(storage, trendingClient)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	router := handlers.NewRouter(walletService, trendingService, quoteService, healthHandler, broadcaster)

	log.Info("Server components initialized successfully")

	return &Server{
		config:          cfg,
		storage:         storage,
		walletService:   walletService,
		trendingService: trendingService,
		quoteService:    quoteService,
		rateLimiter:     inboundLimiter,
		metrics:         collector,
		broadcaster:     broadcaster,
		router:          router,
	}, nil
}

// newStore builds the configured durable store backend.
func newStore(cfg *config.Config) (store.Store, error) {
	log := logger.GetLogger()

	switch cfg.Storage.Backend {
	case "redis":
		redisStore := store.NewRedisStore(
			cfg.Storage.RedisAddr,
			cfg.Storage.RedisPassword,
			cfg.Storage.RedisDB,
			cfg.Storage.KeyPrefix,
		)
		if err := redisStore.Ping(context.Background()); err != nil {
			return nil, fmt.Errorf("redis unreachable at %s: %w", cfg.Storage.RedisAddr, err)
		}
		log.Info("Using redis storage", zap.String("addr", cfg.Storage.RedisAddr))
		return redisStore, nil
	case "memory":
		log.Warn("Using in-memory storage, state will not survive restarts")
		return store.NewMemoryStore(), nil
	default:
		fileStore, err := store.NewFileStore(cfg.Storage.FileDir)
		if err != nil {
			return nil, err
		}
		log.Info("Using file storage", zap.String("dir", cfg.Storage.FileDir))
		return fileStore, nil
	}
}

// Start starts the HTTP server with graceful shutdown handling
func (s *Server) Start() error {
	log := logger.GetLogger()

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	s.setupMiddleware(engine)
	s.setupRoutes(engine)

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", s.config.Server.Host, s.config.Server.Port),
		Handler:           engine,
		ReadTimeout:       s.config.Server.ReadTimeout,
		WriteTimeout:      s.config.Server.WriteTimeout,
		IdleTimeout:       s.config.Server.IdleTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	log.Info("HTTP server configured",
		zap.String("address", s.httpServer.Addr),
		zap.Duration("read_timeout", s.config.Server.ReadTimeout),
		zap.Duration("write_timeout", s.config.Server.WriteTimeout),
	)

	// Warm the trending snapshot before serving; a provider outage at boot
	// only logs, the first request will retry.
	warmCtx, cancel := context.WithTimeout(context.Background(), s.config.Provider.Timeout)
	if err := s.trendingService.Initialize(warmCtx); err != nil {
		log.Warn("Initial trending fetch failed", zap.Error(err))
	}
	cancel()

	s.trendingService.Start()
	s.walletService.Start()

	go func() {
		log.Info("Starting HTTP server", zap.String("address", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	return s.waitForShutdown()
}

// setupMiddleware configures the middleware stack
func (s *Server) setupMiddleware(engine *gin.Engine) {
	// Recovery must wrap everything else.
	engine.Use(logger.RecoveryMiddleware())
	engine.Use(logger.LoggingMiddleware())
	engine.Use(middleware.MetricsMiddleware(s.metrics))
	engine.Use(s.corsMiddleware())
	engine.Use(s.rateLimiter.Middleware())
}

// setupRoutes configures all application routes
func (s *Server) setupRoutes(engine *gin.Engine) {
	s.router.SetupHealthRoutes(engine)
	s.router.SetupRoutes(engine)

	engine.GET("/metrics", s.metricsHandler)
	engine.GET("/status", s.statusHandler)
}

// corsMiddleware adds CORS headers
func (s *Server) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// metricsHandler provides the metrics snapshot endpoint
func (s *Server) metricsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":         "degentrader-core",
		"version":         "1.0.0",
		"metrics":         s.metrics.GetMetrics(),
		"cache_hit_ratio": s.metrics.GetCacheHitRatio(),
		"success_rate":    s.metrics.GetSuccessRate(),
		"uptime":          s.metrics.GetUptime().String(),
	})
}

// statusHandler provides detailed status information
func (s *Server) statusHandler(c *gin.Context) {
	trendingState, _ := s.trendingService.State()

	c.JSON(http.StatusOK, gin.H{
		"service":           "degentrader-core",
		"status":            "running",
		"trending_state":    trendingState,
		"trending_valid":    s.trendingService.IsValid(),
		"ws_clients":        s.broadcaster.ClientCount(),
		"rate_limit_remain": s.rateLimiter.Remaining(),
		"uptime":            s.metrics.GetUptime().String(),
		"version":           "1.0.0",
	})
}

// waitForShutdown waits for interrupt signal and performs graceful shutdown
func (s *Server) waitForShutdown() error {
	log := logger.GetLogger()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.Info("Received shutdown signal", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	s.cleanup()

	log.Info("Server gracefully stopped")
	return nil
}

// cleanup stops background loops and disconnects clients
func (s *Server) cleanup() {
	log := logger.GetLogger()

	log.Info("Cleaning up services...")

	if s.trendingService != nil {
		s.trendingService.Stop()
	}
	if s.walletService != nil {
		s.walletService.Stop()
	}
	if s.quoteService != nil {
		s.quoteService.Stop()
	}
	if s.broadcaster != nil {
		s.broadcaster.Close()
	}

	if err := logger.GetLogger().Sync(); err != nil {
		fmt.Printf("Error syncing logger: %v\n", err)
	}

	log.Info("Cleanup completed")
}
