package api

import (
	v1 "github.com/deusex/market-services/auctiongateway/internal/api/v1"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(app *fiber.App, handler *v1.Handler) {
	app.Get("/ping", handler.Pong)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Get("/v1/auctions", handler.ListAuctions)
	app.Get("/v1/auctions/winning", handler.WinningAuctions)
	app.Get("/v1/auctions/:id", handler.GetAuction)
	app.Post("/v1/auctions/:id/bids", handler.PlaceBid)
	app.Get("/v1/auctions/:id/top-bid", handler.GetTopBid)
	app.Get("/v1/auctions/:id/countdown", handler.Countdown)
	app.Get("/v1/auctions/:id/settlement", handler.SettlementStatus)
	app.Post("/v1/auctions/:id/settlement", handler.Settle)

	app.Get("/v1/pay/transactions", handler.Transactions)
	app.Get("/v1/pay/balance", handler.Balance)
}
