package auctionstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/deusex/market-services/auctiongateway/pkg/httpclient"
)

const (
	AuctionEndpoint = "/api/auction"
)

// AuctionStore is the remote source of truth for auction state. Every price
// and bid-count read goes through it; the gateway never mutates those locally.
type AuctionStore interface {
	GetAuction(ctx context.Context, token, auctionID string) (AuctionResponse, error)
	ListAuctions(ctx context.Context, token string) ([]AuctionResponse, error)
	PlaceBid(ctx context.Context, token, auctionID string, request PlaceBidRequest) (BidResponse, error)
	GetTopBid(ctx context.Context, token, auctionID string) (*TopBidResponse, error)
}

type auctionStore struct {
	client httpclient.HTTPClient
	config Config
}

func NewAuctionStore(cfg Config, client httpclient.HTTPClient) AuctionStore {
	return &auctionStore{config: cfg, client: client}
}

func (s *auctionStore) GetAuction(ctx context.Context, token, auctionID string) (AuctionResponse, error) {
	resp, err := s.client.Get(ctx, s.config.BaseURL+AuctionEndpoint+"/"+auctionID, headers(token))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return AuctionResponse{}, ErrTimeout
		}

		return AuctionResponse{}, err
	}

	defer resp.Body.Close()

	if resp.StatusCode == StatusOK {
		var response AuctionResponse
		if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
			return AuctionResponse{}, fmt.Errorf("decoding error: %w", err)
		}

		return response, nil
	}

	return AuctionResponse{}, MapStatusToError(resp.StatusCode)
}

func (s *auctionStore) ListAuctions(ctx context.Context, token string) ([]AuctionResponse, error) {
	resp, err := s.client.Get(ctx, s.config.BaseURL+AuctionEndpoint+"/", headers(token))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}

		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode == StatusOK {
		var response []AuctionResponse
		if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
			return nil, fmt.Errorf("decoding error: %w", err)
		}

		return response, nil
	}

	return nil, MapStatusToError(resp.StatusCode)
}

func (s *auctionStore) PlaceBid(ctx context.Context, token, auctionID string, request PlaceBidRequest) (BidResponse, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(request); err != nil {
		return BidResponse{}, fmt.Errorf("encoding error: %w", err)
	}

	resp, err := s.client.Post(ctx, s.config.BaseURL+AuctionEndpoint+"/"+auctionID+"/bid", &buf, headers(token))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return BidResponse{}, ErrTimeout
		}

		return BidResponse{}, err
	}

	defer resp.Body.Close()

	if resp.StatusCode == StatusOK || resp.StatusCode == StatusCreated {
		var response BidResponse
		if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
			return BidResponse{}, fmt.Errorf("decoding error: %w", err)
		}

		return response, nil
	}

	return BidResponse{}, MapStatusToError(resp.StatusCode)
}

// GetTopBid returns nil when the auction has no accepted bids yet.
func (s *auctionStore) GetTopBid(ctx context.Context, token, auctionID string) (*TopBidResponse, error) {
	resp, err := s.client.Get(ctx, s.config.BaseURL+AuctionEndpoint+"/"+auctionID+"/top-bid", headers(token))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}

		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode == StatusNoContent {
		return nil, nil
	}

	if resp.StatusCode == StatusOK {
		var response TopBidResponse
		if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
			return nil, fmt.Errorf("decoding error: %w", err)
		}

		return &response, nil
	}

	return nil, MapStatusToError(resp.StatusCode)
}

func headers(token string) map[string]string {
	h := map[string]string{
		"Content-Type": "application/json",
	}
	if token != "" {
		h["Authorization"] = "Bearer " + token
	}
	return h
}
