package service

import (
	"context"
	"errors"

	"github.com/deusex/market-services/auctiongateway/internal/constants"
	"github.com/deusex/market-services/auctiongateway/internal/model"
	"github.com/deusex/market-services/auctiongateway/internal/session"
	"github.com/deusex/market-services/auctiongateway/pkg/auctionstore"
	"go.uber.org/zap"
)

type TopBidderResolver interface {
	Resolve(ctx context.Context, sess session.Session, auctionID string) (*model.TopBidder, error)
	IsTopBidder(ctx context.Context, sess session.Session, auctionID, userID string) (bool, error)
	WinningAuctions(ctx context.Context, sess session.Session) ([]model.Auction, error)
}

type topBidder struct {
	auctions AuctionService
	store    auctionstore.AuctionStore
	logger   *zap.Logger
}

func NewTopBidderResolver(auctions AuctionService, store auctionstore.AuctionStore,
	logger *zap.Logger) TopBidderResolver {
	return &topBidder{auctions: auctions, store: store, logger: logger}
}

// Resolve returns the current highest bidder, or nil when the auction has no
// accepted bids. Every call hits the store: top-bidder state becomes stale the
// moment a higher bid lands, so it is never cached beyond the query.
func (t *topBidder) Resolve(ctx context.Context, sess session.Session, auctionID string) (*model.TopBidder, error) {
	resp, err := t.store.GetTopBid(ctx, sess.Token, auctionID)
	if err != nil {
		if errors.Is(err, auctionstore.ErrAuctionNotFound) {
			return nil, NewServiceError(constants.ErrCodeNotFound, ErrAuctionNotFound)
		}
		return nil, NewServiceError(constants.ErrCodeStoreUnavailable, err)
	}

	if resp == nil {
		return nil, nil
	}

	return &model.TopBidder{AuctionID: resp.AuctionID, BidderID: resp.BidderID}, nil
}

func (t *topBidder) IsTopBidder(ctx context.Context, sess session.Session, auctionID, userID string) (bool, error) {
	top, err := t.Resolve(ctx, sess, auctionID)
	if err != nil {
		return false, err
	}

	return top != nil && userID == top.BidderID, nil
}

// WinningAuctions lists the auctions where the session user is currently the
// top bidder. Each auction is resolved independently; one auction failing to
// resolve is logged and skipped rather than failing the whole listing.
func (t *topBidder) WinningAuctions(ctx context.Context, sess session.Session) ([]model.Auction, error) {
	if !sess.Authenticated() {
		return nil, NewServiceError(constants.ErrCodeUnauthenticated, ErrUnauthenticated)
	}

	auctions, err := t.auctions.ListAuctions(ctx, sess)
	if err != nil {
		return nil, err
	}

	winning := make([]model.Auction, 0)
	for _, auction := range auctions {
		isTop, err := t.IsTopBidder(ctx, sess, auction.ID, sess.UserID)
		if err != nil {
			t.logger.Warn("Skipping auction in winning listing",
				zap.Error(err),
				zap.String("auctionID", auction.ID))
			continue
		}
		if isTop {
			winning = append(winning, auction)
		}
	}

	return winning, nil
}
