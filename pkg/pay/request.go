package pay

type TransferRequest struct {
	Amount        int64  `json:"amount"`
	Description   string `json:"description"`
	RequestKey    string `json:"request_key"`
	ReceiveUserID string `json:"receive_user_id"`
}

type TransactionsQuery struct {
	PartnerID string
	Limit     int
	Offset    int
}
