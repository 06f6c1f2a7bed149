package devapi

import (
	"errors"

	"github.com/Behyna/sms-scheduler/internal/constants"
	"github.com/Behyna/sms-scheduler/internal/query"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var errorCodes = []struct {
	err  error
	code string
}{
	{ErrMessageNotFound, constants.ErrCodeMessageNotFound},
	{ErrNotCancelable, constants.ErrCodeNotCancelable},
	{ErrInvalidTransition, constants.ErrCodeInvalidTransition},
	{query.ErrInvalidFilter, constants.ErrCodeInvalidFilter},
	{errInvalidBody, constants.ErrCodeInvalidRequestBody},
}

// ErrorHandler renders every error as {"detail": ..., "code": ...}.
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(ErrorResponse{Detail: fiberErr.Message})
		}

		code := errorCode(err)
		if code == constants.ErrCodeInternalError {
			logger.Error("Unhandled request error",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err))
		}

		return c.Status(constants.GetHTTPStatus(code)).JSON(ErrorResponse{
			Detail: constants.GetErrorMessage(code),
			Code:   code,
		})
	}
}

func errorCode(err error) string {
	for _, candidate := range errorCodes {
		if errors.Is(err, candidate.err) {
			return candidate.code
		}
	}
	return constants.ErrCodeInternalError
}
