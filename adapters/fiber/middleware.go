package fiber

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/lborres/userapi/pkg/logging"
)

type requestIDKey struct{}

// correlation tags the request with a fresh UUID. The id and a logger
// carrying it travel in the request context; the id is echoed in the
// X-Request-ID response header once the chain has run.
func (a *Adapter) correlation(c fiber.Ctx) error {
	requestID := uuid.NewString()

	ctx, logger := logging.WithRequestID(c.Context(), a.logger, requestID)
	c.SetContext(ctx)
	c.Locals(requestIDKey{}, requestID)

	start := time.Now()
	err := c.Next()

	c.Set(fiber.HeaderXRequestID, requestID)

	status := c.Response().StatusCode()
	if err != nil {
		status = mapErrorToStatus(err)
	}
	logger.Info().
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", status).
		Dur("latency", time.Since(start)).
		Msg("http_request")

	return err
}

// RequestID returns the correlation id assigned to the current request
func RequestID(c fiber.Ctx) string {
	id, _ := c.Locals(requestIDKey{}).(string)
	return id
}

func logPanic(c fiber.Ctx, e any) {
	logging.FromContext(c.Context()).Error().
		Interface("panic", e).
		Str("path", c.Path()).
		Msg("recovered from panic")
}
