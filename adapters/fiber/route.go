package fiber

import (
	"fmt"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/lborres/userapi"
	"github.com/lborres/userapi/services"
)

type Adapter struct {
	app         *fiber.App
	logger      zerolog.Logger
	disableCORS bool
	routes      []Route
}

// Route is an extra endpoint mounted beside the user endpoints
type Route struct {
	Endpoint userapi.Endpoint
	Handler  fiber.Handler
}

var _ userapi.HTTPAdapter = (*Adapter)(nil)

type Option func(*Adapter)

// WithLogger sets the base logger request loggers are derived from
func WithLogger(logger zerolog.Logger) Option {
	return func(a *Adapter) {
		a.logger = logger
	}
}

// WithoutCORS skips the permissive CORS middleware
func WithoutCORS() Option {
	return func(a *Adapter) {
		a.disableCORS = true
	}
}

// WithRoutes mounts extra routes under the same base path and middleware.
// A METHOD:PATH or operation id already taken makes RegisterRoutes fail.
func WithRoutes(routes ...Route) Option {
	return func(a *Adapter) {
		a.routes = append(a.routes, routes...)
	}
}

func New(app *fiber.App, opts ...Option) *Adapter {
	a := &Adapter{
		app:    app,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewApp returns a fiber app that renders framework errors as JSON and
// validates bound request bodies against their struct tags.
func NewApp() *fiber.App {
	return fiber.New(fiber.Config{
		AppName:         "userapi",
		ErrorHandler:    ErrorHandler,
		StructValidator: userapi.NewValidator(),
	})
}

func (a *Adapter) RegisterRoutes(users userapi.UserHandler, basePath string) error {
	handlers := map[string]fiber.Handler{
		services.OpCreateUser:  handleCreateUser(users),
		services.OpListUsers:   handleListUsers(users),
		services.OpGetUser:     handleGetUser(users),
		services.OpUpdateUser:  handleUpdateUser(users),
		services.OpDeleteUser:  handleDeleteUser(users),
		services.OpHealthcheck: handleHealthcheck(users),
	}

	registry := services.NewEndpointRegistry()
	if err := a.registerExtraRoutes(registry, handlers); err != nil {
		return err
	}

	// Correlation runs first so every response, including recovered
	// panics and CORS preflights, carries X-Request-ID.
	a.app.Use(a.correlation)
	a.app.Use(recover.New(recover.Config{
		EnableStackTrace:  true,
		StackTraceHandler: logPanic,
	}))

	if !a.disableCORS {
		a.app.Use(cors.New(cors.Config{
			// WARN: every origin, method and header is allowed, with credentials.
			// WARN: Restrict this in production
			AllowOriginsFunc: func(string) bool { return true },
			AllowMethods: []string{
				fiber.MethodGet,
				fiber.MethodPost,
				fiber.MethodPut,
				fiber.MethodPatch,
				fiber.MethodDelete,
				fiber.MethodHead,
				fiber.MethodOptions,
			},
			AllowCredentials: true,
			ExposeHeaders:    []string{fiber.HeaderXRequestID},
		}))
	}

	var router fiber.Router = a.app
	if basePath != "" {
		router = a.app.Group(basePath)
	}

	for _, ep := range registry.Endpoints() {
		handler, ok := handlers[ep.Metadata.OperationID]
		if !ok {
			return fmt.Errorf("no fiber handler for operation %q", ep.Metadata.OperationID)
		}
		router.Add([]string{ep.Method}, ep.Path, handler)
	}

	return nil
}

// registerExtraRoutes adds the WithRoutes endpoints to registry as one batch
// and their handlers to handlers. Nothing is added when any route is rejected.
func (a *Adapter) registerExtraRoutes(registry *services.EndpointRegistry, handlers map[string]fiber.Handler) error {
	if len(a.routes) == 0 {
		return nil
	}

	endpoints := make([]userapi.Endpoint, 0, len(a.routes))
	extra := make(map[string]fiber.Handler, len(a.routes))
	for _, r := range a.routes {
		opID := r.Endpoint.Metadata.OperationID
		switch {
		case opID == "":
			return fmt.Errorf("route %s %s has no operation id", r.Endpoint.Method, r.Endpoint.Path)
		case r.Handler == nil:
			return fmt.Errorf("route %s %s has no handler", r.Endpoint.Method, r.Endpoint.Path)
		}
		if _, taken := handlers[opID]; taken {
			return fmt.Errorf("operation id %q already registered", opID)
		}
		if _, taken := extra[opID]; taken {
			return fmt.Errorf("operation id %q already registered", opID)
		}
		extra[opID] = r.Handler
		endpoints = append(endpoints, r.Endpoint)
	}

	if err := registry.RegisterPlugin(endpoints); err != nil {
		return err
	}

	for opID, handler := range extra {
		handlers[opID] = handler
	}
	return nil
}
