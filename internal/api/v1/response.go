package v1

type AuctionResponse struct {
	ID            string `json:"id"`
	ProductID     string `json:"product_id"`
	OwnerID       string `json:"owner_id"`
	StartingPrice int64  `json:"starting_price"`
	CurrentPrice  int64  `json:"current_price"`
	BidCount      int    `json:"bid_count"`
	Status        string `json:"status"`
	EndAt         string `json:"end_at"`
}

type AuctionViewResponse struct {
	AuctionResponse
	MinBidPrice   int64  `json:"min_bid_price"`
	RemainingTime string `json:"remaining_time"`
	IsEnded       bool   `json:"is_ended"`
}

type BidResponse struct {
	AuctionID string `json:"auction_id"`
	BidderID  string `json:"bidder_id"`
	BidPrice  int64  `json:"bid_price"`
	CreatedAt string `json:"created_at"`
}

type TopBidResponse struct {
	AuctionID string `json:"auction_id"`
	BidderID  string `json:"bidder_id"`
}

type SettlementStatusResponse struct {
	AuctionID string `json:"auction_id"`
	State     string `json:"state"`
	Amount    int64  `json:"amount,omitempty"`
}

type TransactionResponse struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
	SenderID    string `json:"sender_id"`
	ReceiverID  string `json:"receiver_id"`
	Time        string `json:"time"`
}

type AuctionListResponse struct {
	Auctions []AuctionResponse `json:"auctions"`
	Total    int               `json:"total"`
}

type BalanceResponse struct {
	UserID  string `json:"user_id"`
	Balance int64  `json:"balance"`
}

type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Total        int                   `json:"total"`
}
