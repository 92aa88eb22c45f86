package auctionstore

type PlaceBidRequest struct {
	BidPrice int64 `json:"bid_price"`
}
