package pay_test

import (
	"testing"

	"github.com/deusex/market-services/auctiongateway/pkg/pay"
	"github.com/stretchr/testify/assert"
)

func TestMapStatusToError(t *testing.T) {
	testCases := []struct {
		name          string
		statusCode    int
		expectedError error
	}{
		{name: "Unauthorized", statusCode: 401, expectedError: pay.ErrUnauthenticated},
		{name: "NotFound", statusCode: 404, expectedError: pay.ErrUserNotFound},
		{name: "Conflict", statusCode: 409, expectedError: pay.ErrInsufficientBalance},
		{name: "UnprocessableEntity", statusCode: 422, expectedError: pay.ErrValidationFailed},
		{name: "InternalServerError", statusCode: 500, expectedError: pay.ErrServerError},
		{name: "ServiceUnavailable", statusCode: 503, expectedError: pay.ErrServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expectedError, pay.MapStatusToError(tc.statusCode))
		})
	}
}
