package v1

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/deusex/market-services/auctiongateway/internal/constants"
	"github.com/deusex/market-services/auctiongateway/internal/model"
	"github.com/deusex/market-services/auctiongateway/internal/service"
	"github.com/deusex/market-services/auctiongateway/internal/session"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Handler struct {
	logger      *zap.Logger
	auctions    service.AuctionService
	bids        service.BidService
	resolver    service.TopBidderResolver
	settlements service.SettlementService
}

func NewHandler(logger *zap.Logger, auctions service.AuctionService, bids service.BidService,
	resolver service.TopBidderResolver, settlements service.SettlementService) *Handler {
	return &Handler{
		logger:      logger,
		auctions:    auctions,
		bids:        bids,
		resolver:    resolver,
		settlements: settlements,
	}
}

func (h *Handler) Pong(c *fiber.Ctx) error {
	return c.SendString("pong")
}

func (h *Handler) GetAuction(c *fiber.Ctx) error {
	ctx := c.UserContext()

	view, err := h.auctions.GetAuctionView(ctx, sessionFrom(c), c.Params("id"))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(AuctionViewResponse{
		AuctionResponse: toAuctionResponse(view.Auction),
		MinBidPrice:     view.MinBidPrice,
		RemainingTime:   view.RemainingTime,
		IsEnded:         view.IsEnded,
	})
}

// Countdown streams the auction's formatted remaining time as server-sent
// events until the auction ends or the client disconnects.
func (h *Handler) Countdown(c *fiber.Ctx) error {
	sess := sessionFrom(c)
	auctionID := c.Params("id")

	if _, err := h.auctions.GetAuction(c.UserContext(), sess, auctionID); err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		ticker, err := h.auctions.WatchAuction(ctx, sess, auctionID)
		if err != nil {
			return
		}

		for label := range ticker.C {
			if _, err := fmt.Fprintf(w, "data: %s\n\n", label); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	})

	return nil
}

func (h *Handler) ListAuctions(c *fiber.Ctx) error {
	ctx := c.UserContext()

	auctions, err := h.auctions.ListAuctions(ctx, sessionFrom(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(toAuctionListResponse(auctions))
}

func (h *Handler) PlaceBid(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var request PlaceBidRequest
	if err := c.BodyParser(&request); err != nil {
		h.logger.Warn("Failed to parse body",
			zap.Error(err),
			zap.String("body", string(c.Body())))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"code":    constants.ErrCodeInvalidRequestBody,
			"message": constants.GetErrorMessage(constants.ErrCodeInvalidRequestBody),
		})
	}

	cmd := service.PlaceBidCommand{
		Session:   sessionFrom(c),
		AuctionID: c.Params("id"),
		RawAmount: request.BidPrice,
	}

	bid, err := h.bids.PlaceBid(ctx, cmd)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(BidResponse{
		AuctionID: bid.AuctionID,
		BidderID:  bid.BidderID,
		BidPrice:  bid.BidPrice,
		CreatedAt: bid.CreatedAt.Format(time.RFC3339),
	})
}

func (h *Handler) GetTopBid(c *fiber.Ctx) error {
	ctx := c.UserContext()

	top, err := h.resolver.Resolve(ctx, sessionFrom(c), c.Params("id"))
	if err != nil {
		return err
	}

	if top == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}

	return c.Status(fiber.StatusOK).JSON(TopBidResponse{
		AuctionID: top.AuctionID,
		BidderID:  top.BidderID,
	})
}

func (h *Handler) WinningAuctions(c *fiber.Ctx) error {
	ctx := c.UserContext()

	auctions, err := h.resolver.WinningAuctions(ctx, sessionFrom(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(toAuctionListResponse(auctions))
}

func (h *Handler) SettlementStatus(c *fiber.Ctx) error {
	ctx := c.UserContext()

	cmd := service.SettlementCommand{Session: sessionFrom(c), AuctionID: c.Params("id")}

	status, err := h.settlements.Status(ctx, cmd)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(SettlementStatusResponse{
		AuctionID: status.Auction.ID,
		State:     string(status.State),
		Amount:    status.Amount,
	})
}

func (h *Handler) Settle(c *fiber.Ctx) error {
	ctx := c.UserContext()

	cmd := service.SettlementCommand{Session: sessionFrom(c), AuctionID: c.Params("id")}

	tx, err := h.settlements.Settle(ctx, cmd)
	if err != nil {
		h.logger.Error("Failed to settle auction",
			zap.Error(err),
			zap.String("auctionID", cmd.AuctionID),
			zap.String("userID", cmd.Session.UserID))
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(toTransactionResponse(tx))
}

func (h *Handler) Transactions(c *fiber.Ctx) error {
	ctx := c.UserContext()

	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	query := service.TransactionsQuery{
		Session:   sessionFrom(c),
		PartnerID: c.Query("partner_id"),
		Limit:     limit,
		Offset:    offset,
	}

	txs, err := h.settlements.Transactions(ctx, query)
	if err != nil {
		return err
	}

	resp := TransactionListResponse{Transactions: make([]TransactionResponse, 0, len(txs))}
	for _, tx := range txs {
		resp.Transactions = append(resp.Transactions, toTransactionResponse(tx))
	}
	resp.Total = len(resp.Transactions)

	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *Handler) Balance(c *fiber.Ctx) error {
	ctx := c.UserContext()

	balance, err := h.settlements.Balance(ctx, sessionFrom(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(BalanceResponse{
		UserID:  balance.UserID,
		Balance: balance.Amount,
	})
}

func sessionFrom(c *fiber.Ctx) session.Session {
	return session.FromAuthorization(c.Get(fiber.HeaderAuthorization), c.Get("X-User-ID"))
}

func toAuctionResponse(a model.Auction) AuctionResponse {
	return AuctionResponse{
		ID:            a.ID,
		ProductID:     a.ProductID,
		OwnerID:       a.OwnerID,
		StartingPrice: a.StartingPrice,
		CurrentPrice:  a.CurrentPrice,
		BidCount:      a.BidCount,
		Status:        string(a.Status),
		EndAt:         a.EndAt.Format(time.RFC3339),
	}
}

func toAuctionListResponse(auctions []model.Auction) AuctionListResponse {
	resp := AuctionListResponse{Auctions: make([]AuctionResponse, 0, len(auctions))}
	for _, a := range auctions {
		resp.Auctions = append(resp.Auctions, toAuctionResponse(a))
	}
	resp.Total = len(resp.Auctions)
	return resp
}

func toTransactionResponse(tx model.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          tx.ID,
		Type:        string(tx.Type),
		Amount:      tx.Amount,
		Description: tx.Description,
		SenderID:    tx.SenderID,
		ReceiverID:  tx.ReceiverID,
		Time:        tx.Time.Format(time.RFC3339),
	}
}
