package service

import (
	"context"
	"errors"
	"time"

	"github.com/deusex/market-services/auctiongateway/internal/cache"
	"github.com/deusex/market-services/auctiongateway/internal/constants"
	"github.com/deusex/market-services/auctiongateway/internal/countdown"
	"github.com/deusex/market-services/auctiongateway/internal/model"
	"github.com/deusex/market-services/auctiongateway/internal/session"
	"github.com/deusex/market-services/auctiongateway/pkg/auctionstore"
	"go.uber.org/zap"
)

// AuctionView is the auction snapshot enriched with everything a bid surface
// needs: the advertised minimum, the countdown, and whether bidding is closed.
type AuctionView struct {
	Auction       model.Auction
	MinBidPrice   int64
	RemainingTime string
	IsEnded       bool
}

type AuctionService interface {
	GetAuction(ctx context.Context, sess session.Session, auctionID string) (model.Auction, error)
	RefreshAuction(ctx context.Context, sess session.Session, auctionID string) (model.Auction, error)
	GetAuctionView(ctx context.Context, sess session.Session, auctionID string) (AuctionView, error)
	ListAuctions(ctx context.Context, sess session.Session) ([]model.Auction, error)
	WatchAuction(ctx context.Context, sess session.Session, auctionID string) (*countdown.Ticker, error)
	InvalidateAuction(auctionID string)
	PollList(ctx context.Context)
}

type auction struct {
	store        auctionstore.AuctionStore
	cache        *cache.AuctionCache
	listInterval time.Duration
	detailTick   time.Duration
	disabled     bool
	logger       *zap.Logger
	now          func() time.Time
}

func NewAuctionService(store auctionstore.AuctionStore, ac *cache.AuctionCache,
	listInterval, detailTick time.Duration, pollingDisabled bool, logger *zap.Logger) AuctionService {
	return &auction{
		store:        store,
		cache:        ac,
		listInterval: listInterval,
		detailTick:   detailTick,
		disabled:     pollingDisabled,
		logger:       logger,
		now:          time.Now,
	}
}

// GetAuction serves the cached snapshot when one exists, otherwise fetches
// from the store and commits the result. The commit is generation-checked:
// if the snapshot was invalidated while the fetch was in flight, the fetched
// value is returned to this caller but not cached.
func (a *auction) GetAuction(ctx context.Context, sess session.Session, auctionID string) (model.Auction, error) {
	if cached, ok := a.cache.GetDetail(auctionID); ok {
		return cached, nil
	}

	return a.fetchAuction(ctx, sess, auctionID)
}

// RefreshAuction bypasses the snapshot and reads the store directly. Bid
// validation uses it so the advertised minimum reflects the latest accepted
// bid, not a snapshot taken before a rival raised the price.
func (a *auction) RefreshAuction(ctx context.Context, sess session.Session, auctionID string) (model.Auction, error) {
	a.cache.InvalidateDetail(auctionID)
	return a.fetchAuction(ctx, sess, auctionID)
}

func (a *auction) fetchAuction(ctx context.Context, sess session.Session, auctionID string) (model.Auction, error) {
	gen := a.cache.BeginDetail(auctionID)
	resp, err := a.store.GetAuction(ctx, sess.Token, auctionID)
	if err != nil {
		if errors.Is(err, auctionstore.ErrAuctionNotFound) {
			return model.Auction{}, NewServiceError(constants.ErrCodeNotFound, ErrAuctionNotFound)
		}
		a.logger.Error("Failed to fetch auction",
			zap.Error(err),
			zap.String("auctionID", auctionID))
		return model.Auction{}, NewServiceError(constants.ErrCodeStoreUnavailable, err)
	}

	auc := toAuction(resp)
	a.cache.CompleteDetail(auctionID, gen, auc)
	return auc, nil
}

func (a *auction) GetAuctionView(ctx context.Context, sess session.Session, auctionID string) (AuctionView, error) {
	auc, err := a.GetAuction(ctx, sess, auctionID)
	if err != nil {
		return AuctionView{}, err
	}

	now := a.now()
	return AuctionView{
		Auction:       auc,
		MinBidPrice:   auc.MinBidPrice(),
		RemainingTime: countdown.Format(auc.EndAt, now),
		IsEnded:       auc.Ended(now),
	}, nil
}

func (a *auction) ListAuctions(ctx context.Context, sess session.Session) ([]model.Auction, error) {
	if cached, ok := a.cache.GetList(); ok {
		return cached, nil
	}

	return a.refreshList(ctx, sess.Token)
}

// WatchAuction returns a countdown ticker for the auction's end time at the
// configured detail tick. The ticker runs off the fetched end timestamp and
// wall-clock time only; it never touches the store again.
func (a *auction) WatchAuction(ctx context.Context, sess session.Session, auctionID string) (*countdown.Ticker, error) {
	auc, err := a.GetAuction(ctx, sess, auctionID)
	if err != nil {
		return nil, err
	}

	return countdown.NewTicker(ctx, auc.EndAt, a.detailTick), nil
}

func (a *auction) InvalidateAuction(auctionID string) {
	a.cache.InvalidateDetail(auctionID)
	a.cache.InvalidateList()
}

// PollList refreshes the auction-list snapshot on a fixed interval until the
// context is cancelled. Polling stands in for a push channel; correctness
// never depends on it because every mutation path invalidates explicitly.
func (a *auction) PollList(ctx context.Context) {
	if a.disabled {
		a.logger.Info("auction list polling disabled")
		return
	}

	ticker := time.NewTicker(a.listInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.cache.InvalidateList()
			if _, err := a.refreshList(ctx, ""); err != nil {
				a.logger.Warn("auction list refresh failed", zap.Error(err))
			}
		case <-ctx.Done():
			return
		}
	}
}

func (a *auction) refreshList(ctx context.Context, token string) ([]model.Auction, error) {
	gen := a.cache.BeginList()
	resp, err := a.store.ListAuctions(ctx, token)
	if err != nil {
		return nil, NewServiceError(constants.ErrCodeStoreUnavailable, err)
	}

	auctions := make([]model.Auction, 0, len(resp))
	for _, r := range resp {
		auctions = append(auctions, toAuction(r))
	}
	a.cache.CompleteList(gen, auctions)
	return auctions, nil
}

func toAuction(r auctionstore.AuctionResponse) model.Auction {
	return model.Auction{
		ID:            r.ID,
		ProductID:     r.ProductID,
		OwnerID:       r.OwnerID,
		StartingPrice: r.StartingPrice,
		CurrentPrice:  r.CurrentPrice,
		BidCount:      r.BidCount,
		Status:        model.AuctionStatus(r.Status),
		EndAt:         r.EndAt,
	}
}
