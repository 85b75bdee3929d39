package fiber

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"github.com/lborres/userapi"
	"github.com/lborres/userapi/pkg/logging"
)

const (
	detailNotFound = "User not found"
	detailInternal = "internal server error"
)

// handleUserError maps user errors to appropriate HTTP responses
func handleUserError(c fiber.Ctx, err error) error {
	status := mapErrorToStatus(err)
	body := userapi.ErrorResponse{Detail: errorDetail(err, status)}

	var verr *userapi.ValidationError
	if errors.As(err, &verr) {
		body.Errors = verr.Fields
	}

	if status >= http.StatusInternalServerError {
		logging.FromContext(c.Context()).Error().Err(err).Int("status", status).Msg("request failed")
	}

	return c.Status(status).JSON(body)
}

// mapErrorToStatus maps userapi error types to HTTP status codes
func mapErrorToStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var verr *userapi.ValidationError
	var ferr *fiber.Error

	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity

	case errors.Is(err, userapi.ErrInvalidID),
		errors.Is(err, userapi.ErrInvalidBody):
		return http.StatusBadRequest

	case errors.Is(err, userapi.ErrUserNotFound):
		return http.StatusNotFound

	case errors.As(err, &ferr):
		return ferr.Code

	default:
		return http.StatusInternalServerError
	}
}

// errorDetail returns the client facing message. Internal causes are never exposed.
func errorDetail(err error, status int) string {
	switch {
	case errors.Is(err, userapi.ErrCreationFailed):
		return userapi.ErrCreationFailed.Error()
	case status >= http.StatusInternalServerError:
		return detailInternal
	case errors.Is(err, userapi.ErrUserNotFound):
		return detailNotFound
	case errors.Is(err, userapi.ErrInvalidID):
		return userapi.ErrInvalidID.Error()
	case errors.Is(err, userapi.ErrInvalidBody):
		return userapi.ErrInvalidBody.Error()
	default:
		return err.Error()
	}
}

// ErrorHandler renders errors that escape the handlers, such as unknown
// routes, unsupported methods or recovered panics, as {"detail": ...}.
func ErrorHandler(c fiber.Ctx, err error) error {
	status := mapErrorToStatus(err)

	detail := detailInternal
	var ferr *fiber.Error
	if errors.As(err, &ferr) && status < http.StatusInternalServerError {
		detail = ferr.Message
	} else if status < http.StatusInternalServerError {
		detail = errorDetail(err, status)
	}

	if status >= http.StatusInternalServerError {
		logging.FromContext(c.Context()).Error().Err(err).Int("status", status).Msg("unhandled error")
	}

	return c.Status(status).JSON(userapi.ErrorResponse{Detail: detail})
}
