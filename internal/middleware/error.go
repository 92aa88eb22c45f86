package middleware

import (
	"errors"
	"fmt"

	"github.com/deusex/market-services/auctiongateway/internal/constants"
	"github.com/deusex/market-services/auctiongateway/internal/model"
	"github.com/deusex/market-services/auctiongateway/internal/service"
	"github.com/gofiber/fiber/v2"
)

func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var serviceErr service.Error
		if errors.As(err, &serviceErr) {
			return handleServiceError(c, serviceErr)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{
				"code":    constants.ErrCodeInternalError,
				"message": fiberErr.Message,
			})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"code":    constants.ErrCodeInternalError,
			"message": constants.GetErrorMessage(constants.ErrCodeInternalError),
		})
	}
}

func handleServiceError(c *fiber.Ctx, err service.Error) error {
	errorCode := err.Code

	status := constants.GetHTTPStatus(errorCode)
	if status == 500 && err.Code != constants.ErrCodeInternalError {
		errorCode = constants.ErrCodeInternalError
	}

	message := constants.GetErrorMessage(errorCode)

	var tooLow service.BidTooLowError
	if errors.As(err.Cause, &tooLow) {
		message = fmt.Sprintf("%s (current: %s)", message, model.FormatWon(tooLow.CurrentPrice))
		return c.Status(status).JSON(fiber.Map{
			"code":          errorCode,
			"message":       message,
			"current_price": tooLow.CurrentPrice,
			"min_bid_price": tooLow.CurrentPrice + 1,
		})
	}

	return c.Status(status).JSON(fiber.Map{
		"code":    errorCode,
		"message": message,
	})
}
