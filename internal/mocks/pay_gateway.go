package mocks

import (
	"context"

	"github.com/deusex/market-services/auctiongateway/pkg/pay"
	"github.com/stretchr/testify/mock"
)

type PayGateway struct {
	mock.Mock
}

func (g *PayGateway) GetTransactions(ctx context.Context, token string, query pay.TransactionsQuery) ([]pay.TransactionResponse, error) {
	args := g.Called(ctx, token, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pay.TransactionResponse), args.Error(1)
}

func (g *PayGateway) Transfer(ctx context.Context, token string, request pay.TransferRequest) (pay.TransactionResponse, error) {
	args := g.Called(ctx, token, request)
	return args.Get(0).(pay.TransactionResponse), args.Error(1)
}

func (g *PayGateway) GetBalance(ctx context.Context, token string) (pay.BalanceResponse, error) {
	args := g.Called(ctx, token)
	return args.Get(0).(pay.BalanceResponse), args.Error(1)
}
