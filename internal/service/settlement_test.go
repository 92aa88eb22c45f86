package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/deusex/market-services/auctiongateway/internal/constants"
	"github.com/deusex/market-services/auctiongateway/internal/idempotency"
	"github.com/deusex/market-services/auctiongateway/internal/mocks"
	"github.com/deusex/market-services/auctiongateway/internal/model"
	"github.com/deusex/market-services/auctiongateway/internal/service"
	"github.com/deusex/market-services/auctiongateway/internal/session"
	"github.com/deusex/market-services/auctiongateway/pkg/auctionstore"
	"github.com/deusex/market-services/auctiongateway/pkg/pay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func endedAuction() auctionstore.AuctionResponse {
	return auctionstore.AuctionResponse{
		ID:            "auction-1",
		ProductID:     "product-1",
		OwnerID:       "seller-1",
		StartingPrice: 5000,
		CurrentPrice:  15000,
		BidCount:      7,
		Status:        "ended",
		EndAt:         time.Now().Add(-time.Hour),
	}
}

func settlementTx(amount int64) pay.TransactionResponse {
	return pay.TransactionResponse{
		ID:          "tx-1",
		Type:        "TRANSFER",
		Amount:      amount,
		Description: model.SettlementDescription(amount),
		SenderID:    "bidder-1",
		ReceiverID:  "seller-1",
		Time:        time.Now(),
	}
}

type settlementFixture struct {
	store *mocks.AuctionStore
	payGW *mocks.PayGateway
	keys  *idempotency.Manager
	svc   service.SettlementService
}

func newSettlementFixture() *settlementFixture {
	store := &mocks.AuctionStore{}
	payGW := &mocks.PayGateway{}
	keys := idempotency.NewManager()
	auctions := newAuctionService(store)
	resolver := service.NewTopBidderResolver(auctions, store, zap.NewNop())
	svc := service.NewSettlementService(auctions, resolver, payGW, keys, 50,
		zap.NewNop(), newTestMetrics())
	return &settlementFixture{store: store, payGW: payGW, keys: keys, svc: svc}
}

func (f *settlementFixture) winnerIsTop(sess session.Session) {
	f.store.On("GetTopBid", mock.Anything, sess.Token, "auction-1").
		Return(&auctionstore.TopBidResponse{AuctionID: "auction-1", BidderID: "bidder-1"}, nil)
}

func TestSettlement_Status(t *testing.T) {
	sess := bidderSession()

	t.Run("active auction is ineligible and skips the history scan", func(t *testing.T) {
		f := newSettlementFixture()
		active := endedAuction()
		active.Status = "active"
		active.EndAt = time.Now().Add(time.Hour)
		f.store.On("GetAuction", mock.Anything, sess.Token, "auction-1").Return(active, nil)

		status, err := f.svc.Status(context.Background(), service.SettlementCommand{
			Session: sess, AuctionID: "auction-1",
		})

		assert.NoError(t, err)
		assert.Equal(t, model.SettlementIneligible, status.State)
		f.payGW.AssertNotCalled(t, "GetTransactions", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("non-winner is ineligible", func(t *testing.T) {
		f := newSettlementFixture()
		f.store.On("GetAuction", mock.Anything, sess.Token, "auction-1").Return(endedAuction(), nil)
		f.store.On("GetTopBid", mock.Anything, sess.Token, "auction-1").
			Return(&auctionstore.TopBidResponse{AuctionID: "auction-1", BidderID: "someone-else"}, nil)

		status, err := f.svc.Status(context.Background(), service.SettlementCommand{
			Session: sess, AuctionID: "auction-1",
		})

		assert.NoError(t, err)
		assert.Equal(t, model.SettlementIneligible, status.State)
		f.payGW.AssertNotCalled(t, "GetTransactions", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("seller viewing own auction is ineligible even as top bidder", func(t *testing.T) {
		f := newSettlementFixture()
		sellerSess := session.Session{UserID: "seller-1", Token: "token-seller-1"}
		f.store.On("GetAuction", mock.Anything, sellerSess.Token, "auction-1").Return(endedAuction(), nil)

		status, err := f.svc.Status(context.Background(), service.SettlementCommand{
			Session: sellerSess, AuctionID: "auction-1",
		})

		assert.NoError(t, err)
		assert.Equal(t, model.SettlementIneligible, status.State)
		f.store.AssertNotCalled(t, "GetTopBid", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("winner with no matching transaction is payable", func(t *testing.T) {
		f := newSettlementFixture()
		f.store.On("GetAuction", mock.Anything, sess.Token, "auction-1").Return(endedAuction(), nil)
		f.winnerIsTop(sess)
		f.payGW.On("GetTransactions", mock.Anything, sess.Token,
			pay.TransactionsQuery{PartnerID: "seller-1", Limit: 50}).
			Return([]pay.TransactionResponse{}, nil)

		status, err := f.svc.Status(context.Background(), service.SettlementCommand{
			Session: sess, AuctionID: "auction-1",
		})

		assert.NoError(t, err)
		assert.Equal(t, model.SettlementPayableUnpaid, status.State)
		assert.Equal(t, int64(15000), status.Amount)
	})

	t.Run("existing settlement transaction yields paid on a fresh controller", func(t *testing.T) {
		f := newSettlementFixture()
		f.store.On("GetAuction", mock.Anything, sess.Token, "auction-1").Return(endedAuction(), nil)
		f.winnerIsTop(sess)
		f.payGW.On("GetTransactions", mock.Anything, sess.Token,
			pay.TransactionsQuery{PartnerID: "seller-1", Limit: 50}).
			Return([]pay.TransactionResponse{settlementTx(15000)}, nil)

		status, err := f.svc.Status(context.Background(), service.SettlementCommand{
			Session: sess, AuctionID: "auction-1",
		})

		assert.NoError(t, err)
		assert.Equal(t, model.SettlementPaid, status.State)
	})

	t.Run("marker with different amount does not count as paid", func(t *testing.T) {
		f := newSettlementFixture()
		f.store.On("GetAuction", mock.Anything, sess.Token, "auction-1").Return(endedAuction(), nil)
		f.winnerIsTop(sess)
		f.payGW.On("GetTransactions", mock.Anything, sess.Token,
			pay.TransactionsQuery{PartnerID: "seller-1", Limit: 50}).
			Return([]pay.TransactionResponse{settlementTx(14000)}, nil)

		status, err := f.svc.Status(context.Background(), service.SettlementCommand{
			Session: sess, AuctionID: "auction-1",
		})

		assert.NoError(t, err)
		assert.Equal(t, model.SettlementPayableUnpaid, status.State)
	})
}

func TestSettlement_Settle(t *testing.T) {
	sess := bidderSession()
	cmd := service.SettlementCommand{Session: sess, AuctionID: "auction-1"}

	t.Run("successful settlement transfers final price and rotates the key", func(t *testing.T) {
		f := newSettlementFixture()
		f.store.On("GetAuction", mock.Anything, sess.Token, "auction-1").Return(endedAuction(), nil)
		f.winnerIsTop(sess)
		f.payGW.On("GetTransactions", mock.Anything, sess.Token,
			pay.TransactionsQuery{PartnerID: "seller-1", Limit: 50}).
			Return([]pay.TransactionResponse{}, nil)

		keyBefore := f.keys.Current("auction-1")

		f.payGW.On("Transfer", mock.Anything, sess.Token,
			mock.MatchedBy(func(req pay.TransferRequest) bool {
				return req.Amount == 15000 &&
					req.ReceiveUserID == "seller-1" &&
					req.Description == model.SettlementDescription(15000) &&
					req.RequestKey == keyBefore
			})).
			Return(settlementTx(15000), nil)

		tx, err := f.svc.Settle(context.Background(), cmd)

		assert.NoError(t, err)
		assert.Equal(t, model.TxTypeTransfer, tx.Type)
		assert.Equal(t, int64(15000), tx.Amount)
		assert.NotEqual(t, keyBefore, f.keys.Current("auction-1"),
			"a confirmed success must rotate the request key")

		f.payGW.AssertExpectations(t)
		f.payGW.AssertNumberOfCalls(t, "Transfer", 1)
	})

	t.Run("concurrent settle of the same auction is refused while one is in flight", func(t *testing.T) {
		f := newSettlementFixture()
		f.store.On("GetAuction", mock.Anything, sess.Token, "auction-1").Return(endedAuction(), nil)
		f.winnerIsTop(sess)
		f.payGW.On("GetTransactions", mock.Anything, sess.Token,
			pay.TransactionsQuery{PartnerID: "seller-1", Limit: 50}).
			Return([]pay.TransactionResponse{}, nil)

		transferStarted := make(chan struct{})
		release := make(chan struct{})
		f.payGW.On("Transfer", mock.Anything, sess.Token, mock.Anything).
			Run(func(args mock.Arguments) {
				close(transferStarted)
				<-release
			}).
			Return(settlementTx(15000), nil)

		firstDone := make(chan error, 1)
		go func() {
			_, err := f.svc.Settle(context.Background(), cmd)
			firstDone <- err
		}()

		<-transferStarted

		status, err := f.svc.Status(context.Background(), cmd)
		assert.NoError(t, err)
		assert.Equal(t, model.SettlementPaying, status.State)

		_, err = f.svc.Settle(context.Background(), cmd)
		var serviceErr service.Error
		assert.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, constants.ErrCodeSettlementInFlight, serviceErr.Code)

		close(release)
		assert.NoError(t, <-firstDone)
		f.payGW.AssertNumberOfCalls(t, "Transfer", 1)
	})

	t.Run("pre-submit check short-circuits an already settled auction", func(t *testing.T) {
		f := newSettlementFixture()
		f.store.On("GetAuction", mock.Anything, sess.Token, "auction-1").Return(endedAuction(), nil)
		f.winnerIsTop(sess)
		f.payGW.On("GetTransactions", mock.Anything, sess.Token,
			pay.TransactionsQuery{PartnerID: "seller-1", Limit: 50}).
			Return([]pay.TransactionResponse{settlementTx(15000)}, nil)

		_, err := f.svc.Settle(context.Background(), cmd)

		var serviceErr service.Error
		assert.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, constants.ErrCodeAlreadySettled, serviceErr.Code)
		f.payGW.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("failed transfer keeps the key so the retry collapses server-side", func(t *testing.T) {
		f := newSettlementFixture()
		f.store.On("GetAuction", mock.Anything, sess.Token, "auction-1").Return(endedAuction(), nil)
		f.winnerIsTop(sess)
		f.payGW.On("GetTransactions", mock.Anything, sess.Token,
			pay.TransactionsQuery{PartnerID: "seller-1", Limit: 50}).
			Return([]pay.TransactionResponse{}, nil)

		keyBefore := f.keys.Current("auction-1")

		f.payGW.On("Transfer", mock.Anything, sess.Token, mock.Anything).
			Return(pay.TransactionResponse{}, pay.ErrServerError).Once()

		_, err := f.svc.Settle(context.Background(), cmd)

		var serviceErr service.Error
		assert.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, constants.ErrCodeTransferFailed, serviceErr.Code)
		assert.Equal(t, keyBefore, f.keys.Current("auction-1"),
			"a failure must never rotate the request key")

		// Retry: still payable, and the transfer carries the identical key.
		f.payGW.On("Transfer", mock.Anything, sess.Token,
			mock.MatchedBy(func(req pay.TransferRequest) bool {
				return req.RequestKey == keyBefore
			})).
			Return(settlementTx(15000), nil).Once()

		tx, err := f.svc.Settle(context.Background(), cmd)

		assert.NoError(t, err)
		assert.Equal(t, int64(15000), tx.Amount)
		f.payGW.AssertNumberOfCalls(t, "Transfer", 2)
	})

	t.Run("insufficient balance is surfaced and leaves settlement payable", func(t *testing.T) {
		f := newSettlementFixture()
		f.store.On("GetAuction", mock.Anything, sess.Token, "auction-1").Return(endedAuction(), nil)
		f.winnerIsTop(sess)
		f.payGW.On("GetTransactions", mock.Anything, sess.Token,
			pay.TransactionsQuery{PartnerID: "seller-1", Limit: 50}).
			Return([]pay.TransactionResponse{}, nil)
		f.payGW.On("Transfer", mock.Anything, sess.Token, mock.Anything).
			Return(pay.TransactionResponse{}, pay.ErrInsufficientBalance)

		_, err := f.svc.Settle(context.Background(), cmd)

		var serviceErr service.Error
		assert.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, constants.ErrCodeInsufficientBalance, serviceErr.Code)

		status, err := f.svc.Status(context.Background(), cmd)
		assert.NoError(t, err)
		assert.Equal(t, model.SettlementPayableUnpaid, status.State)
	})

	t.Run("active auction refuses settlement", func(t *testing.T) {
		f := newSettlementFixture()
		active := endedAuction()
		active.Status = "active"
		active.EndAt = time.Now().Add(time.Hour)
		f.store.On("GetAuction", mock.Anything, sess.Token, "auction-1").Return(active, nil)

		_, err := f.svc.Settle(context.Background(), cmd)

		var serviceErr service.Error
		assert.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, constants.ErrCodeSettlementNotAllowed, serviceErr.Code)
		f.payGW.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("seller cannot settle own auction", func(t *testing.T) {
		f := newSettlementFixture()
		sellerSess := session.Session{UserID: "seller-1", Token: "token-seller-1"}
		f.store.On("GetAuction", mock.Anything, sellerSess.Token, "auction-1").Return(endedAuction(), nil)

		_, err := f.svc.Settle(context.Background(), service.SettlementCommand{
			Session: sellerSess, AuctionID: "auction-1",
		})

		var serviceErr service.Error
		assert.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, constants.ErrCodeSettlementNotAllowed, serviceErr.Code)
		f.payGW.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("settling again after success reports already settled", func(t *testing.T) {
		f := newSettlementFixture()
		f.store.On("GetAuction", mock.Anything, sess.Token, "auction-1").Return(endedAuction(), nil)
		f.winnerIsTop(sess)

		// First scan: empty history. After the transfer, the scan sees the
		// created transaction, exactly as the pay service would report it.
		f.payGW.On("GetTransactions", mock.Anything, sess.Token,
			pay.TransactionsQuery{PartnerID: "seller-1", Limit: 50}).
			Return([]pay.TransactionResponse{}, nil).Once()
		f.payGW.On("Transfer", mock.Anything, sess.Token, mock.Anything).
			Return(settlementTx(15000), nil).Once()

		_, err := f.svc.Settle(context.Background(), cmd)
		assert.NoError(t, err)

		f.payGW.On("GetTransactions", mock.Anything, sess.Token,
			pay.TransactionsQuery{PartnerID: "seller-1", Limit: 50}).
			Return([]pay.TransactionResponse{settlementTx(15000)}, nil)

		_, err = f.svc.Settle(context.Background(), cmd)

		var serviceErr service.Error
		assert.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, constants.ErrCodeAlreadySettled, serviceErr.Code)
		f.payGW.AssertNumberOfCalls(t, "Transfer", 1)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		f := newSettlementFixture()

		_, err := f.svc.Settle(context.Background(), service.SettlementCommand{
			Session: session.Session{}, AuctionID: "auction-1",
		})

		var serviceErr service.Error
		assert.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, constants.ErrCodeUnauthenticated, serviceErr.Code)
		f.store.AssertNotCalled(t, "GetAuction", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestSettlement_Transactions(t *testing.T) {
	sess := bidderSession()

	t.Run("passes the partner filter and pagination through", func(t *testing.T) {
		f := newSettlementFixture()
		f.payGW.On("GetTransactions", mock.Anything, sess.Token,
			pay.TransactionsQuery{PartnerID: "seller-1", Limit: 10, Offset: 20}).
			Return([]pay.TransactionResponse{settlementTx(15000)}, nil)

		txs, err := f.svc.Transactions(context.Background(), service.TransactionsQuery{
			Session: sess, PartnerID: "seller-1", Limit: 10, Offset: 20,
		})

		assert.NoError(t, err)
		assert.Len(t, txs, 1)
		assert.Equal(t, model.TxTypeTransfer, txs[0].Type)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		f := newSettlementFixture()

		_, err := f.svc.Transactions(context.Background(), service.TransactionsQuery{})

		var serviceErr service.Error
		assert.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, constants.ErrCodeUnauthenticated, serviceErr.Code)
	})
}

func TestSettlement_Balance(t *testing.T) {
	sess := bidderSession()

	t.Run("passes the balance through", func(t *testing.T) {
		f := newSettlementFixture()
		f.payGW.On("GetBalance", mock.Anything, sess.Token).
			Return(pay.BalanceResponse{UserID: "bidder-1", Balance: 120000}, nil)

		balance, err := f.svc.Balance(context.Background(), sess)

		assert.NoError(t, err)
		assert.Equal(t, "bidder-1", balance.UserID)
		assert.Equal(t, int64(120000), balance.Amount)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		f := newSettlementFixture()

		_, err := f.svc.Balance(context.Background(), session.Session{})

		var serviceErr service.Error
		assert.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, constants.ErrCodeUnauthenticated, serviceErr.Code)
		f.payGW.AssertNotCalled(t, "GetBalance", mock.Anything, mock.Anything)
	})
}
