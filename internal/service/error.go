package service

import "errors"

var (
	ErrUnauthenticated      = errors.New("UNAUTHENTICATED")
	ErrInvalidAmount        = errors.New("INVALID_AMOUNT")
	ErrBidTooLow            = errors.New("BID_TOO_LOW")
	ErrAuctionEnded         = errors.New("AUCTION_ENDED")
	ErrAuctionNotFound      = errors.New("AUCTION_NOT_FOUND")
	ErrSettlementNotAllowed = errors.New("SETTLEMENT_NOT_ALLOWED")
	ErrAlreadySettled       = errors.New("ALREADY_SETTLED")
	ErrSettlementInFlight   = errors.New("SETTLEMENT_IN_FLIGHT")
)

type Error struct {
	Code  string
	Cause error
}

func NewServiceError(code string, cause error) error {
	return Error{Code: code, Cause: cause}
}

func (e Error) Error() string {
	return e.Cause.Error()
}

func (e Error) Unwrap() error {
	return e.Cause
}

// BidTooLowError carries the price the rejected bid had to exceed so the
// caller can advertise the minimum acceptable amount.
type BidTooLowError struct {
	CurrentPrice int64
}

func (e BidTooLowError) Error() string {
	return "BID_TOO_LOW"
}

func (e BidTooLowError) Is(target error) bool {
	return target == ErrBidTooLow
}
