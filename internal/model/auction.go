package model

import "time"

type AuctionStatus string

const (
	AuctionStatusActive AuctionStatus = "active"
	AuctionStatusEnded  AuctionStatus = "ended"
)

// Auction is the store-owned auction state. CurrentPrice and BidCount are
// only ever updated from a completed store fetch, never locally.
type Auction struct {
	ID            string        `json:"id"`
	ProductID     string        `json:"product_id"`
	OwnerID       string        `json:"owner_id"`
	StartingPrice int64         `json:"starting_price"`
	CurrentPrice  int64         `json:"current_price"`
	BidCount      int           `json:"bid_count"`
	Status        AuctionStatus `json:"status"`
	EndAt         time.Time     `json:"end_at"`
}

// MinBidPrice is the smallest amount the store will accept: one currency
// unit above the current price.
func (a Auction) MinBidPrice() int64 {
	return a.CurrentPrice + 1
}

// Ended reports whether bidding is closed. Either signal is authoritative:
// a store-reported non-active status or a passed end time, whichever is
// observed first. Only the store decides whether a bid is accepted.
func (a Auction) Ended(now time.Time) bool {
	return a.Status != AuctionStatusActive || !a.EndAt.After(now)
}

type Bid struct {
	AuctionID string    `json:"auction_id"`
	BidderID  string    `json:"bidder_id"`
	BidPrice  int64     `json:"bid_price"`
	CreatedAt time.Time `json:"created_at"`
}

// TopBidder is derived from store-reported bid state at query time. It is
// never cached across fetches: a new higher bid invalidates it.
type TopBidder struct {
	AuctionID string `json:"auction_id"`
	BidderID  string `json:"bidder_id"`
}
