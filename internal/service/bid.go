package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/deusex/market-services/auctiongateway/internal/constants"
	"github.com/deusex/market-services/auctiongateway/internal/metrics"
	"github.com/deusex/market-services/auctiongateway/internal/model"
	"github.com/deusex/market-services/auctiongateway/pkg/auctionstore"
	"go.uber.org/zap"
)

type BidService interface {
	PlaceBid(ctx context.Context, cmd PlaceBidCommand) (model.Bid, error)
}

type bid struct {
	auctions AuctionService
	store    auctionstore.AuctionStore
	logger   *zap.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewBidService(auctions AuctionService, store auctionstore.AuctionStore,
	logger *zap.Logger, m *metrics.Metrics) BidService {
	return &bid{auctions: auctions, store: store, logger: logger, metrics: m, now: time.Now}
}

// PlaceBid validates locally, submits exactly one bid to the store, and
// reconciles the local view afterwards. The local price is never raised
// speculatively: a concurrent bidder may have outbid between validation and
// submission, and only the store arbitrates that race. Each call is a brand
// new bid; retries are re-validated against the latest price rather than
// deduplicated, because an accepted bid must strictly raise the price and a
// replayed amount fails that precondition on its own.
func (b *bid) PlaceBid(ctx context.Context, cmd PlaceBidCommand) (model.Bid, error) {
	if !cmd.Session.Authenticated() {
		return model.Bid{}, NewServiceError(constants.ErrCodeUnauthenticated, ErrUnauthenticated)
	}

	amount, err := strconv.ParseInt(cmd.RawAmount, 10, 64)
	if err != nil || amount <= 0 {
		return model.Bid{}, NewServiceError(constants.ErrCodeInvalidAmount, ErrInvalidAmount)
	}

	auction, err := b.auctions.RefreshAuction(ctx, cmd.Session, cmd.AuctionID)
	if err != nil {
		return model.Bid{}, err
	}

	if auction.Ended(b.now()) {
		return model.Bid{}, NewServiceError(constants.ErrCodeAuctionEnded, ErrAuctionEnded)
	}

	if amount <= auction.CurrentPrice {
		b.metrics.BidsRejected.Inc()
		return model.Bid{}, NewServiceError(constants.ErrCodeBidTooLow,
			BidTooLowError{CurrentPrice: auction.CurrentPrice})
	}

	resp, err := b.store.PlaceBid(ctx, cmd.Session.Token, cmd.AuctionID,
		auctionstore.PlaceBidRequest{BidPrice: amount})
	if err != nil {
		b.metrics.BidsRejected.Inc()
		b.logger.Warn("Bid rejected by store",
			zap.Error(err),
			zap.String("auctionID", cmd.AuctionID),
			zap.String("bidderID", cmd.Session.UserID),
			zap.Int64("amount", amount))
		return model.Bid{}, mapStoreError(err)
	}

	// The accepted bid changed the store-side price; drop local snapshots so
	// the next read re-derives everything from a fresh fetch.
	b.auctions.InvalidateAuction(cmd.AuctionID)
	b.metrics.BidsPlaced.Inc()

	b.logger.Info("Bid placed",
		zap.String("auctionID", cmd.AuctionID),
		zap.String("bidderID", cmd.Session.UserID),
		zap.Int64("amount", amount))

	return model.Bid{
		AuctionID: resp.AuctionID,
		BidderID:  resp.BidderID,
		BidPrice:  resp.BidPrice,
		CreatedAt: resp.CreatedAt,
	}, nil
}

func mapStoreError(err error) error {
	switch {
	case errors.Is(err, auctionstore.ErrUnauthenticated):
		return NewServiceError(constants.ErrCodeUnauthenticated, err)
	case errors.Is(err, auctionstore.ErrAuctionNotFound):
		return NewServiceError(constants.ErrCodeNotFound, err)
	case errors.Is(err, auctionstore.ErrBidRejected), errors.Is(err, auctionstore.ErrValidationFailed):
		return NewServiceError(constants.ErrCodeBidRejected, err)
	default:
		return NewServiceError(constants.ErrCodeStoreUnavailable, err)
	}
}
