package fiber

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lborres/userapi/pkg/logging"
)

// Requirement: The correlation id is readable by handlers through RequestID
// and through the request context logger, and matches the response header.
func TestCorrelation_ExposesIDToHandlers(t *testing.T) {
	// Arrange
	app := NewApp()
	adapter := New(app, WithLogger(zerolog.New(io.Discard)))
	app.Use(adapter.correlation)

	var seenID string
	var ctxLogged bool
	app.Get("/whoami", func(c fiber.Ctx) error {
		seenID = RequestID(c)
		ctxLogged = logging.FromContext(c.Context()).GetLevel() != zerolog.Disabled
		return c.SendStatus(http.StatusNoContent)
	})

	// Act
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/whoami", nil), fiber.TestConfig{
		Timeout:       5 * time.Second,
		FailOnTimeout: true,
	})
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	// Assert
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status should be 204; got %d", resp.StatusCode)
	}
	if _, err := uuid.Parse(seenID); err != nil {
		t.Errorf("RequestID should be a UUID; got %q", seenID)
	}
	if got := resp.Header.Get(fiber.HeaderXRequestID); got != seenID {
		t.Errorf("X-Request-ID should match the handler id %q; got %q", seenID, got)
	}
	if !ctxLogged {
		t.Error("request context should carry a logger")
	}
}
