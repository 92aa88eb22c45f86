package v1

type PlaceBidRequest struct {
	BidPrice string `json:"bid_price"`
}
