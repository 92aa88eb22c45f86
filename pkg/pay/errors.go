package pay

import "errors"

const (
	StatusOK                  = 200
	StatusCreated             = 201
	StatusUnauthorized        = 401
	StatusNotFound            = 404
	StatusConflict            = 409
	StatusUnprocessableEntity = 422
)

const (
	ErrCodeUnauthenticated     = "UNAUTHENTICATED"
	ErrCodeUserNotFound        = "USER_NOT_FOUND"
	ErrCodeInsufficientBalance = "INSUFFICIENT_BALANCE"
	ErrCodeValidationFailed    = "VALIDATION_FAILED"
	ErrCodeTimeout             = "TIMEOUT"
	ErrCodeServerError         = "SERVER_ERROR"
)

var (
	ErrUnauthenticated     = errors.New(ErrCodeUnauthenticated)
	ErrUserNotFound        = errors.New(ErrCodeUserNotFound)
	ErrInsufficientBalance = errors.New(ErrCodeInsufficientBalance)
	ErrValidationFailed    = errors.New(ErrCodeValidationFailed)
	ErrTimeout             = errors.New(ErrCodeTimeout)
	ErrServerError         = errors.New(ErrCodeServerError)
)

var statusErrorMap = map[int]error{
	StatusUnauthorized:        ErrUnauthenticated,
	StatusNotFound:            ErrUserNotFound,
	StatusConflict:            ErrInsufficientBalance,
	StatusUnprocessableEntity: ErrValidationFailed,
}

func MapStatusToError(statusCode int) error {
	if err, exists := statusErrorMap[statusCode]; exists {
		return err
	}

	return ErrServerError
}
