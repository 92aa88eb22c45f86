package service_test

import (
	"sync"
	"time"

	"github.com/deusex/market-services/auctiongateway/internal/cache"
	"github.com/deusex/market-services/auctiongateway/internal/metrics"
	"github.com/deusex/market-services/auctiongateway/internal/mocks"
	"github.com/deusex/market-services/auctiongateway/internal/service"
	"github.com/deusex/market-services/auctiongateway/internal/session"
	"go.uber.org/zap"
)

// Prometheus collectors register globally, so the whole package shares one
// Metrics instance.
var (
	metricsOnce sync.Once
	testMetrics *metrics.Metrics
)

func newTestMetrics() *metrics.Metrics {
	metricsOnce.Do(func() {
		testMetrics = metrics.NewMetrics()
	})
	return testMetrics
}

func newAuctionService(store *mocks.AuctionStore) service.AuctionService {
	return service.NewAuctionService(store, cache.NewAuctionCache(),
		time.Minute, 10*time.Millisecond, true, zap.NewNop())
}

func bidderSession() session.Session {
	return session.Session{UserID: "bidder-1", Token: "token-bidder-1"}
}
