package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/deusex/market-services/auctiongateway/internal/constants"
	"github.com/deusex/market-services/auctiongateway/internal/idempotency"
	"github.com/deusex/market-services/auctiongateway/internal/metrics"
	"github.com/deusex/market-services/auctiongateway/internal/model"
	"github.com/deusex/market-services/auctiongateway/internal/session"
	"github.com/deusex/market-services/auctiongateway/pkg/pay"
	"go.uber.org/zap"
)

// SettlementStatus describes what the settlement surface may offer for one
// auction: nothing (ineligible), a one-shot pay action, or a paid badge.
type SettlementStatus struct {
	State   model.SettlementState
	Auction model.Auction
	// Amount is the final price the winner owes the seller. Zero while
	// ineligible.
	Amount int64
}

type SettlementService interface {
	Status(ctx context.Context, cmd SettlementCommand) (SettlementStatus, error)
	Settle(ctx context.Context, cmd SettlementCommand) (model.Transaction, error)
	Transactions(ctx context.Context, query TransactionsQuery) ([]model.Transaction, error)
	Balance(ctx context.Context, sess session.Session) (model.Balance, error)
}

type settlement struct {
	auctions  AuctionService
	resolver  TopBidderResolver
	payGW     pay.Gateway
	keys      *idempotency.Manager
	scanLimit int
	logger    *zap.Logger
	metrics   *metrics.Metrics
	now       func() time.Time

	mu       sync.Mutex
	inFlight map[string]bool
}

func NewSettlementService(auctions AuctionService, resolver TopBidderResolver,
	payGW pay.Gateway, keys *idempotency.Manager, scanLimit int,
	logger *zap.Logger, m *metrics.Metrics) SettlementService {
	return &settlement{
		auctions:  auctions,
		resolver:  resolver,
		payGW:     payGW,
		keys:      keys,
		scanLimit: scanLimit,
		logger:    logger,
		metrics:   m,
		now:       time.Now,
		inFlight:  make(map[string]bool),
	}
}

// Status derives the settlement state from remote truth alone. The
// transaction-history scan, not anything this process remembers, decides
// paid-vs-unpaid, so a freshly started gateway (or a reloaded page) cannot
// forget that a settlement already happened.
func (s *settlement) Status(ctx context.Context, cmd SettlementCommand) (SettlementStatus, error) {
	if !cmd.Session.Authenticated() {
		return SettlementStatus{}, NewServiceError(constants.ErrCodeUnauthenticated, ErrUnauthenticated)
	}

	auction, err := s.auctions.RefreshAuction(ctx, cmd.Session, cmd.AuctionID)
	if err != nil {
		return SettlementStatus{}, err
	}

	if !auction.Ended(s.now()) {
		return SettlementStatus{State: model.SettlementIneligible, Auction: auction}, nil
	}

	// The bidder being the seller should be impossible upstream; refuse
	// rather than let a self-transfer through.
	if cmd.Session.UserID == auction.OwnerID {
		return SettlementStatus{State: model.SettlementIneligible, Auction: auction}, nil
	}

	isTop, err := s.resolver.IsTopBidder(ctx, cmd.Session, cmd.AuctionID, cmd.Session.UserID)
	if err != nil {
		return SettlementStatus{}, err
	}
	if !isTop {
		return SettlementStatus{State: model.SettlementIneligible, Auction: auction}, nil
	}

	paid, err := s.alreadyPaid(ctx, cmd, auction)
	if err != nil {
		return SettlementStatus{}, err
	}

	state := model.SettlementPayableUnpaid
	if paid {
		state = model.SettlementPaid
	} else if s.paying(cmd.AuctionID) {
		state = model.SettlementPaying
	}

	return SettlementStatus{State: state, Auction: auction, Amount: auction.CurrentPrice}, nil
}

// Settle performs the one-shot winner-to-seller transfer. The paid pre-check
// runs again here, immediately before submission, as the backstop against a
// second tab (or a second gateway instance) racing the same settlement. A
// race that still slips two transfers past both checks is the pay service's
// to reject; the request key makes retries of one attempt safe, not two
// independent attempts.
func (s *settlement) Settle(ctx context.Context, cmd SettlementCommand) (model.Transaction, error) {
	status, err := s.Status(ctx, cmd)
	if err != nil {
		return model.Transaction{}, err
	}

	switch status.State {
	case model.SettlementPaid:
		return model.Transaction{}, NewServiceError(constants.ErrCodeAlreadySettled, ErrAlreadySettled)
	case model.SettlementIneligible:
		return model.Transaction{}, NewServiceError(constants.ErrCodeSettlementNotAllowed, ErrSettlementNotAllowed)
	case model.SettlementPaying:
		return model.Transaction{}, NewServiceError(constants.ErrCodeSettlementInFlight, ErrSettlementInFlight)
	}

	if !s.begin(cmd.AuctionID) {
		return model.Transaction{}, NewServiceError(constants.ErrCodeSettlementInFlight, ErrSettlementInFlight)
	}
	defer s.end(cmd.AuctionID)

	auction := status.Auction
	amount := auction.CurrentPrice
	requestKey := s.keys.Current(cmd.AuctionID)

	resp, err := s.payGW.Transfer(ctx, cmd.Session.Token, pay.TransferRequest{
		Amount:        amount,
		Description:   model.SettlementDescription(amount),
		RequestKey:    requestKey,
		ReceiveUserID: auction.OwnerID,
	})
	if err != nil {
		// The key is deliberately kept: if this attempt actually landed and
		// only the response was lost, the retry collapses into it.
		s.metrics.SettlementsFailed.Inc()
		s.logger.Error("Settlement transfer failed",
			zap.Error(err),
			zap.String("auctionID", cmd.AuctionID),
			zap.String("payerID", cmd.Session.UserID),
			zap.String("receiverID", auction.OwnerID),
			zap.Int64("amount", amount),
			zap.String("requestKey", requestKey))
		return model.Transaction{}, mapPayError(err)
	}

	// Success is the only rotation site. A later attempt for this auction
	// must never reuse a key that already produced an effect.
	s.keys.Rotate(cmd.AuctionID)
	s.auctions.InvalidateAuction(cmd.AuctionID)
	s.metrics.SettlementsCompleted.Inc()

	s.logger.Info("Settlement completed",
		zap.String("auctionID", cmd.AuctionID),
		zap.String("payerID", cmd.Session.UserID),
		zap.String("receiverID", auction.OwnerID),
		zap.Int64("amount", amount),
		zap.String("transactionID", resp.ID),
		zap.String("requestKey", requestKey))

	return toTransaction(resp), nil
}

// Transactions exposes the payer's transaction history, the same view the
// paid check scans.
func (s *settlement) Transactions(ctx context.Context, query TransactionsQuery) ([]model.Transaction, error) {
	if !query.Session.Authenticated() {
		return nil, NewServiceError(constants.ErrCodeUnauthenticated, ErrUnauthenticated)
	}

	resp, err := s.payGW.GetTransactions(ctx, query.Session.Token, pay.TransactionsQuery{
		PartnerID: query.PartnerID,
		Limit:     query.Limit,
		Offset:    query.Offset,
	})
	if err != nil {
		return nil, mapPayError(err)
	}

	txs := make([]model.Transaction, 0, len(resp))
	for _, r := range resp {
		txs = append(txs, toTransaction(r))
	}
	return txs, nil
}

// Balance reads the caller's current holding. A pre-settlement surface can
// show it, but the transfer itself never trusts it; only the pay service's
// own check rejects an underfunded settlement.
func (s *settlement) Balance(ctx context.Context, sess session.Session) (model.Balance, error) {
	if !sess.Authenticated() {
		return model.Balance{}, NewServiceError(constants.ErrCodeUnauthenticated, ErrUnauthenticated)
	}

	resp, err := s.payGW.GetBalance(ctx, sess.Token)
	if err != nil {
		return model.Balance{}, mapPayError(err)
	}

	return model.Balance{UserID: resp.UserID, Amount: resp.Balance}, nil
}

// alreadyPaid scans the payer's history with the seller for a transfer
// carrying the settlement marker and exactly the final price. Matching on a
// marker substring plus amount is a heuristic: two same-price auctions
// between the same two users are indistinguishable to it. A structured
// settlement reference on the transaction is the eventual fix; until the pay
// service grows one, the scan stays the source of truth.
func (s *settlement) alreadyPaid(ctx context.Context, cmd SettlementCommand, auction model.Auction) (bool, error) {
	resp, err := s.payGW.GetTransactions(ctx, cmd.Session.Token, pay.TransactionsQuery{
		PartnerID: auction.OwnerID,
		Limit:     s.scanLimit,
	})
	if err != nil {
		return false, mapPayError(err)
	}

	for _, r := range resp {
		if toTransaction(r).IsSettlementOf(auction.CurrentPrice) {
			return true, nil
		}
	}
	return false, nil
}

func (s *settlement) begin(auctionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inFlight[auctionID] {
		return false
	}
	s.inFlight[auctionID] = true
	return true
}

func (s *settlement) end(auctionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.inFlight, auctionID)
}

func (s *settlement) paying(auctionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.inFlight[auctionID]
}

func mapPayError(err error) error {
	switch {
	case errors.Is(err, pay.ErrUnauthenticated):
		return NewServiceError(constants.ErrCodeUnauthenticated, err)
	case errors.Is(err, pay.ErrUserNotFound):
		return NewServiceError(constants.ErrCodeNotFound, err)
	case errors.Is(err, pay.ErrInsufficientBalance):
		return NewServiceError(constants.ErrCodeInsufficientBalance, err)
	default:
		return NewServiceError(constants.ErrCodeTransferFailed, err)
	}
}

func toTransaction(r pay.TransactionResponse) model.Transaction {
	return model.Transaction{
		ID:          r.ID,
		Type:        model.TransactionType(r.Type),
		Amount:      r.Amount,
		Description: r.Description,
		SenderID:    r.SenderID,
		ReceiverID:  r.ReceiverID,
		Time:        r.Time,
		RequestKey:  r.RequestKey,
	}
}
