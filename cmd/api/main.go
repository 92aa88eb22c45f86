package main

import (
	"context"

	"github.com/deusex/market-services/auctiongateway/internal/api"
	v1 "github.com/deusex/market-services/auctiongateway/internal/api/v1"
	"github.com/deusex/market-services/auctiongateway/internal/cache"
	"github.com/deusex/market-services/auctiongateway/internal/config"
	"github.com/deusex/market-services/auctiongateway/internal/idempotency"
	"github.com/deusex/market-services/auctiongateway/internal/metrics"
	"github.com/deusex/market-services/auctiongateway/internal/middleware"
	"github.com/deusex/market-services/auctiongateway/internal/service"
	"github.com/deusex/market-services/auctiongateway/pkg/auctionstore"
	"github.com/deusex/market-services/auctiongateway/pkg/httpclient"
	"github.com/deusex/market-services/auctiongateway/pkg/pay"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			zap.NewProduction,
			metrics.NewMetrics,

			NewAuctionStore,
			NewPayGateway,
			cache.NewAuctionCache,
			idempotency.NewManager,

			NewAuctionService,
			NewBidService,
			service.NewTopBidderResolver,
			NewSettlementService,

			v1.NewHandler,
			NewFiberApp,
		),
		fx.Invoke(startServer, runListPoller),
	).Run()
}

func NewAuctionStore(cfg *config.Config) auctionstore.AuctionStore {
	client := httpclient.NewHTTPClient(cfg.AuctionStore.Timeout)
	return auctionstore.NewAuctionStore(cfg.AuctionStore, client)
}

func NewPayGateway(cfg *config.Config) pay.Gateway {
	client := httpclient.NewHTTPClient(cfg.Pay.Timeout)
	return pay.NewGateway(cfg.Pay, client)
}

func NewAuctionService(store auctionstore.AuctionStore, ac *cache.AuctionCache,
	cfg *config.Config, logger *zap.Logger) service.AuctionService {
	return service.NewAuctionService(store, ac, cfg.Polling.ListInterval,
		cfg.Polling.DetailTick, cfg.Polling.Disabled, logger)
}

func NewBidService(auctions service.AuctionService, store auctionstore.AuctionStore,
	logger *zap.Logger, m *metrics.Metrics) service.BidService {
	return service.NewBidService(auctions, store, logger, m)
}

func NewSettlementService(auctions service.AuctionService, resolver service.TopBidderResolver,
	payGW pay.Gateway, keys *idempotency.Manager, cfg *config.Config,
	logger *zap.Logger, m *metrics.Metrics) service.SettlementService {
	return service.NewSettlementService(auctions, resolver, payGW, keys,
		cfg.Settlement.TxScanLimit, logger, m)
}

func NewFiberApp(m *metrics.Metrics, logger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	app.Use(metrics.HTTPMetricsMiddleware(m, logger))
	return app
}

func startServer(app *fiber.App, handler *v1.Handler, cfg *config.Config, logger *zap.Logger, lc fx.Lifecycle) {
	api.SetupRoutes(app, handler)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("starting api", zap.String("port", cfg.API.Port))
			go func() {
				if err := app.Listen(cfg.API.Port); err != nil {
					logger.Error("server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.ShutdownWithContext(ctx)
		},
	})
}

func runListPoller(auctions service.AuctionService, logger *zap.Logger, lc fx.Lifecycle) {
	appCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go auctions.PollList(appCtx)
			logger.Info("auction list poller started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping auction list poller")
			cancel()
			return nil
		},
	})
}
