package service

import "github.com/deusex/market-services/auctiongateway/internal/session"

type PlaceBidCommand struct {
	Session   session.Session
	AuctionID string
	// RawAmount is the amount exactly as the user typed it; parsing and
	// validation happen before any network call.
	RawAmount string
}

type SettlementCommand struct {
	Session   session.Session
	AuctionID string
}

type TransactionsQuery struct {
	Session   session.Session
	PartnerID string
	Limit     int
	Offset    int
}
