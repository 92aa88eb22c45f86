package pay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/deusex/market-services/auctiongateway/pkg/httpclient"
)

const (
	TransactionsEndpoint = "/api/pay/transactions"
	TransferEndpoint     = "/api/pay/transfer"
	BalanceEndpoint      = "/api/pay/me"
)

// Gateway talks to the pay service. Transfer carries a request key so the pay
// service can collapse duplicate deliveries of the same attempt into one effect.
type Gateway interface {
	GetTransactions(ctx context.Context, token string, query TransactionsQuery) ([]TransactionResponse, error)
	Transfer(ctx context.Context, token string, request TransferRequest) (TransactionResponse, error)
	GetBalance(ctx context.Context, token string) (BalanceResponse, error)
}

type gateway struct {
	client httpclient.HTTPClient
	config Config
}

func NewGateway(cfg Config, client httpclient.HTTPClient) Gateway {
	return &gateway{config: cfg, client: client}
}

func (g *gateway) GetTransactions(ctx context.Context, token string, query TransactionsQuery) ([]TransactionResponse, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(query.Limit))
	params.Set("offset", strconv.Itoa(query.Offset))
	if query.PartnerID != "" {
		params.Set("partner_id", query.PartnerID)
	}

	resp, err := g.client.Get(ctx, g.config.BaseURL+TransactionsEndpoint+"?"+params.Encode(), headers(token))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}

		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode == StatusOK {
		var response []TransactionResponse
		if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
			return nil, fmt.Errorf("decoding error: %w", err)
		}

		return response, nil
	}

	return nil, MapStatusToError(resp.StatusCode)
}

func (g *gateway) Transfer(ctx context.Context, token string, request TransferRequest) (TransactionResponse, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(request); err != nil {
		return TransactionResponse{}, fmt.Errorf("encoding error: %w", err)
	}

	resp, err := g.client.Post(ctx, g.config.BaseURL+TransferEndpoint, &buf, headers(token))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return TransactionResponse{}, ErrTimeout
		}

		return TransactionResponse{}, err
	}

	defer resp.Body.Close()

	if resp.StatusCode == StatusOK || resp.StatusCode == StatusCreated {
		var response TransactionResponse
		if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
			return TransactionResponse{}, fmt.Errorf("decoding error: %w", err)
		}

		return response, nil
	}

	return TransactionResponse{}, MapStatusToError(resp.StatusCode)
}

func (g *gateway) GetBalance(ctx context.Context, token string) (BalanceResponse, error) {
	resp, err := g.client.Get(ctx, g.config.BaseURL+BalanceEndpoint, headers(token))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return BalanceResponse{}, ErrTimeout
		}

		return BalanceResponse{}, err
	}

	defer resp.Body.Close()

	if resp.StatusCode == StatusOK {
		var response BalanceResponse
		if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
			return BalanceResponse{}, fmt.Errorf("decoding error: %w", err)
		}

		return response, nil
	}

	return BalanceResponse{}, MapStatusToError(resp.StatusCode)
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
