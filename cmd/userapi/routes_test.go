package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/lborres/userapi"
	fiberadapter "github.com/lborres/userapi/adapters/fiber"
	"github.com/lborres/userapi/adapters/memory"
	"github.com/lborres/userapi/services"
)

// Requirement: The routes listing shows every endpoint under the base path
// with its operation id, body model and documented status codes.
func TestPrintRoutes(t *testing.T) {
	// Arrange
	endpoints, err := registeredEndpoints()
	if err != nil {
		t.Fatalf("registeredEndpoints: %v", err)
	}

	// Act
	var buf bytes.Buffer
	if err := printRoutes(&buf, "/api", endpoints); err != nil {
		t.Fatalf("printRoutes: %v", err)
	}

	// Assert
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != len(endpoints)+1 {
		t.Fatalf("printRoutes should print a header and %d rows; got %d lines:\n%s", len(endpoints), len(lines), buf.String())
	}

	rows := make(map[string][]string)
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		rows[fields[2]] = fields
	}

	tests := []struct {
		opID       string
		wantMethod string
		wantPath   string
		wantBody   string
		wantStatus string
	}{
		{services.OpCreateUser, "POST", "/api/users", "core.CreateUserInput", "201,400,422"},
		{services.OpListUsers, "GET", "/api/users", "-", "200"},
		{services.OpUpdateUser, "PUT", "/api/users/:id", "core.UpdateUserInput", "200,400,404,422"},
		{services.OpDeleteUser, "DELETE", "/api/users/:id", "-", "200,400,404"},
		{services.OpHealthcheck, "GET", "/api/healthcheck", "-", "200,503"},
		{opVersion, "GET", "/api/version", "-", "200"},
	}

	for _, test := range tests {
		test := test // capture range variable
		t.Run(test.opID, func(t *testing.T) {
			fields, ok := rows[test.opID]
			if !ok {
				t.Fatalf("printRoutes should list %s", test.opID)
			}
			got := strings.Join(fields[:5], " ")
			want := strings.Join([]string{test.wantMethod, test.wantPath, test.opID, test.wantBody, test.wantStatus}, " ")
			if got != want {
				t.Errorf("row should be %q; got %q", want, got)
			}
		})
	}
}

// Requirement: serve mounts the version route beside the user endpoints.
func TestVersionRoute_Mounted(t *testing.T) {
	// Arrange
	app := fiberadapter.NewApp()
	_, err := userapi.New(userapi.Config{
		Storage:  memory.New(),
		HTTP:     fiberadapter.New(app, fiberadapter.WithRoutes(extraRoutes()...)),
		BasePath: "/api",
	})
	if err != nil {
		t.Fatalf("userapi.New: %v", err)
	}

	// Act
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/version", nil), fiber.TestConfig{
		Timeout:       5 * time.Second,
		FailOnTimeout: true,
	})
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	// Assert
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status should be 200; got %d", resp.StatusCode)
	}
	if resp.Header.Get(fiber.HeaderXRequestID) == "" {
		t.Error("version responses should carry X-Request-ID")
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var body map[string]string
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("body should be JSON: %v (%s)", err, raw)
	}
	if body["version"] != Version {
		t.Errorf("version should be %q; got %q", Version, body["version"])
	}
}
