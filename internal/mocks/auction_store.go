package mocks

import (
	"context"

	"github.com/deusex/market-services/auctiongateway/pkg/auctionstore"
	"github.com/stretchr/testify/mock"
)

type AuctionStore struct {
	mock.Mock
}

func (s *AuctionStore) GetAuction(ctx context.Context, token, auctionID string) (auctionstore.AuctionResponse, error) {
	args := s.Called(ctx, token, auctionID)
	return args.Get(0).(auctionstore.AuctionResponse), args.Error(1)
}

func (s *AuctionStore) ListAuctions(ctx context.Context, token string) ([]auctionstore.AuctionResponse, error) {
	args := s.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]auctionstore.AuctionResponse), args.Error(1)
}

func (s *AuctionStore) PlaceBid(ctx context.Context, token, auctionID string, request auctionstore.PlaceBidRequest) (auctionstore.BidResponse, error) {
	args := s.Called(ctx, token, auctionID, request)
	return args.Get(0).(auctionstore.BidResponse), args.Error(1)
}

func (s *AuctionStore) GetTopBid(ctx context.Context, token, auctionID string) (*auctionstore.TopBidResponse, error) {
	args := s.Called(ctx, token, auctionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auctionstore.TopBidResponse), args.Error(1)
}
