package auctionstore

import "errors"

const (
	StatusOK                  = 200
	StatusCreated             = 201
	StatusNoContent           = 204
	StatusUnauthorized        = 401
	StatusNotFound            = 404
	StatusConflict            = 409
	StatusUnprocessableEntity = 422
)

const (
	ErrCodeUnauthenticated  = "UNAUTHENTICATED"
	ErrCodeAuctionNotFound  = "AUCTION_NOT_FOUND"
	ErrCodeBidRejected      = "BID_REJECTED"
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeTimeout          = "TIMEOUT"
	ErrCodeServerError      = "SERVER_ERROR"
)

var (
	ErrUnauthenticated  = errors.New(ErrCodeUnauthenticated)
	ErrAuctionNotFound  = errors.New(ErrCodeAuctionNotFound)
	ErrBidRejected      = errors.New(ErrCodeBidRejected)
	ErrValidationFailed = errors.New(ErrCodeValidationFailed)
	ErrTimeout          = errors.New(ErrCodeTimeout)
	ErrServerError      = errors.New(ErrCodeServerError)
)

var statusErrorMap = map[int]error{
	StatusUnauthorized:        ErrUnauthenticated,
	StatusNotFound:            ErrAuctionNotFound,
	StatusConflict:            ErrBidRejected,
	StatusUnprocessableEntity: ErrValidationFailed,
}

func MapStatusToError(statusCode int) error {
	if err, exists := statusErrorMap[statusCode]; exists {
		return err
	}

	return ErrServerError
}
