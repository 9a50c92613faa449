package middleware

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/facefx/internal/domain"
)

// ErrorBody is the JSON shape of every error response
type ErrorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Detail    string `json:"detail,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// detailer is implemented by causes that carry a reason safe to show the client,
// such as the message returned by the vision service
type detailer interface {
	Detail() string
}

// ErrorDetail returns the client-facing reason wrapped in err, if any
func ErrorDetail(err error) string {
	var d detailer
	if errors.As(err, &d) {
		return d.Detail()
	}
	return ""
}

func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		requestID := RequestID(c)

		// Fiber errors: 404 route, 405, 413 body limit
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{
				"error": ErrorBody{
					Code:      "HTTP_ERROR",
					Message:   fiberErr.Message,
					RequestID: requestID,
				},
			})
		}

		var appErr *domain.AppError
		if errors.As(err, &appErr) {
			if appErr.StatusCode >= 500 {
				logger.Error("request failed",
					slog.String("request_id", requestID),
					slog.String("code", appErr.Code),
					slog.String("path", c.Path()),
					slog.Any("error", err),
				)
			}

			return c.Status(appErr.StatusCode).JSON(fiber.Map{
				"error": ErrorBody{
					Code:      appErr.Code,
					Message:   appErr.Message,
					Detail:    ErrorDetail(appErr.Err),
					RequestID: requestID,
				},
			})
		}

		logger.Error("unhandled error",
			slog.String("request_id", requestID),
			slog.Any("error", err),
			slog.String("path", c.Path()),
		)

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": ErrorBody{
				Code:      domain.ErrInternal.Code,
				Message:   domain.ErrInternal.Message,
				RequestID: requestID,
			},
		})
	}
}
