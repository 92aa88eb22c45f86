package auctionstore

import "time"

type AuctionResponse struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	OwnerID       string    `json:"owner_id"`
	StartingPrice int64     `json:"starting_price"`
	CurrentPrice  int64     `json:"current_price"`
	BidCount      int       `json:"bid_count"`
	Status        string    `json:"status"`
	EndAt         time.Time `json:"end_at"`
}

type BidResponse struct {
	AuctionID string    `json:"auction_id"`
	BidderID  string    `json:"bidder_id"`
	BidPrice  int64     `json:"bid_price"`
	CreatedAt time.Time `json:"created_at"`
}

type TopBidResponse struct {
	AuctionID string `json:"auction_id"`
	BidderID  string `json:"bidder_id"`
}
