package constants

const (
	ErrCodeUnauthenticated      = "UNAUTHENTICATED"
	ErrCodeInvalidAmount        = "INVALID_AMOUNT"
	ErrCodeBidTooLow            = "BID_TOO_LOW"
	ErrCodeAuctionEnded         = "AUCTION_ENDED"
	ErrCodeBidRejected          = "BID_REJECTED"
	ErrCodeNotFound             = "NOT_FOUND"
	ErrCodeSettlementNotAllowed = "SETTLEMENT_NOT_ALLOWED"
	ErrCodeAlreadySettled       = "ALREADY_SETTLED"
	ErrCodeSettlementInFlight   = "SETTLEMENT_IN_FLIGHT"
	ErrCodeInsufficientBalance  = "INSUFFICIENT_BALANCE"
	ErrCodeTransferFailed       = "TRANSFER_FAILED"
	ErrCodeStoreUnavailable     = "STORE_UNAVAILABLE"
	ErrCodeInvalidRequestBody   = "INVALID_REQUEST_BODY"
	ErrCodeInternalError        = "INTERNAL_ERROR"
)

const (
	ErrMsgUnauthenticated      = "login required"
	ErrMsgInvalidAmount        = "bid amount must be a positive integer"
	ErrMsgBidTooLow            = "bid must exceed current price"
	ErrMsgAuctionEnded         = "auction has ended"
	ErrMsgBidRejected          = "bid was rejected"
	ErrMsgNotFound             = "not found"
	ErrMsgSettlementNotAllowed = "settlement not allowed"
	ErrMsgAlreadySettled       = "settlement already completed"
	ErrMsgSettlementInFlight   = "settlement already in progress"
	ErrMsgInsufficientBalance  = "insufficient balance"
	ErrMsgTransferFailed       = "transfer failed"
	ErrMsgStoreUnavailable     = "auction store unavailable"
	ErrMsgInvalidRequestBody   = "failed to parse request body"
	ErrMsgInternalError        = "internal server error"
)

var errorMessages = map[string]string{
	ErrCodeUnauthenticated:      ErrMsgUnauthenticated,
	ErrCodeInvalidAmount:        ErrMsgInvalidAmount,
	ErrCodeBidTooLow:            ErrMsgBidTooLow,
	ErrCodeAuctionEnded:         ErrMsgAuctionEnded,
	ErrCodeBidRejected:          ErrMsgBidRejected,
	ErrCodeNotFound:             ErrMsgNotFound,
	ErrCodeSettlementNotAllowed: ErrMsgSettlementNotAllowed,
	ErrCodeAlreadySettled:       ErrMsgAlreadySettled,
	ErrCodeSettlementInFlight:   ErrMsgSettlementInFlight,
	ErrCodeInsufficientBalance:  ErrMsgInsufficientBalance,
	ErrCodeTransferFailed:       ErrMsgTransferFailed,
	ErrCodeStoreUnavailable:     ErrMsgStoreUnavailable,
	ErrCodeInvalidRequestBody:   ErrMsgInvalidRequestBody,
	ErrCodeInternalError:        ErrMsgInternalError,
}

func GetErrorMessage(code string) string {
	if msg, exists := errorMessages[code]; exists {
		return msg
	}
	return ErrMsgInternalError
}

func GetHTTPStatus(code string) int {
	switch code {
	case ErrCodeInvalidRequestBody, ErrCodeInvalidAmount:
		return 400
	case ErrCodeUnauthenticated:
		return 401
	case ErrCodeSettlementNotAllowed:
		return 403
	case ErrCodeNotFound:
		return 404
	case ErrCodeBidTooLow, ErrCodeAuctionEnded, ErrCodeBidRejected,
		ErrCodeAlreadySettled, ErrCodeSettlementInFlight, ErrCodeInsufficientBalance:
		return 409
	case ErrCodeTransferFailed, ErrCodeStoreUnavailable:
		return 502
	case ErrCodeInternalError:
		return 500
	default:
		return 500
	}
}
