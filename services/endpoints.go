package services

import (
	"fmt"
	"net/http"

	"github.com/lborres/userapi/core"
)

// Operation ids adapters use to attach their framework handlers
const (
	OpCreateUser  = "createUser"
	OpListUsers   = "listUsers"
	OpGetUser     = "getUser"
	OpUpdateUser  = "updateUser"
	OpDeleteUser  = "deleteUser"
	OpHealthcheck = "healthcheck"
)

// BaseEndpoints returns framework-agnostic endpoint definitions
// for the user resource and the health check.
//
// Path parameters use the ":name" form understood by fiber, gin and echo.
func BaseEndpoints() []core.Endpoint {
	return []core.Endpoint{
		{
			Path:   "/users",
			Method: http.MethodPost,
			Metadata: core.EndpointMetadata{
				OperationID: OpCreateUser,
				Description: "Create a user",
				RequestBody: core.CreateUserInput{},
				Responses: map[int]interface{}{
					http.StatusCreated:             core.UserView{},
					http.StatusBadRequest:          core.ErrorResponse{},
					http.StatusUnprocessableEntity: core.ErrorResponse{},
				},
			},
		},
		{
			Path:   "/users",
			Method: http.MethodGet,
			Metadata: core.EndpointMetadata{
				OperationID: OpListUsers,
				Description: "List up to 100 users in store order",
				Responses: map[int]interface{}{
					http.StatusOK: []core.UserView{},
				},
			},
		},
		{
			Path:   "/users/:id",
			Method: http.MethodGet,
			Metadata: core.EndpointMetadata{
				OperationID: OpGetUser,
				Description: "Get a user by id",
				Responses: map[int]interface{}{
					http.StatusOK:         core.UserView{},
					http.StatusBadRequest: core.ErrorResponse{},
					http.StatusNotFound:   core.ErrorResponse{},
				},
			},
		},
		{
			Path:   "/users/:id",
			Method: http.MethodPut,
			Metadata: core.EndpointMetadata{
				OperationID: OpUpdateUser,
				Description: "Apply a partial update to a user",
				RequestBody: core.UpdateUserInput{},
				Responses: map[int]interface{}{
					http.StatusOK:                  core.UserView{},
					http.StatusBadRequest:          core.ErrorResponse{},
					http.StatusNotFound:            core.ErrorResponse{},
					http.StatusUnprocessableEntity: core.ErrorResponse{},
				},
			},
		},
		{
			Path:   "/users/:id",
			Method: http.MethodDelete,
			Metadata: core.EndpointMetadata{
				OperationID: OpDeleteUser,
				Description: "Delete a user",
				Responses: map[int]interface{}{
					http.StatusOK:         map[string]string{"status": "deleted"},
					http.StatusBadRequest: core.ErrorResponse{},
					http.StatusNotFound:   core.ErrorResponse{},
				},
			},
		},
		{
			Path:   "/healthcheck",
			Method: http.MethodGet,
			Metadata: core.EndpointMetadata{
				OperationID: OpHealthcheck,
				Description: "Report service health, pinging the store when deep=1",
				Responses: map[int]interface{}{
					http.StatusOK:                 map[string]string{"status": "ok"},
					http.StatusServiceUnavailable: map[string]string{"status": "unavailable"},
				},
			},
		},
	}
}

// EndpointRegistry manages a collection of framework-agnostic endpoints
// and handles conflict detection for duplicate METHOD:PATH combinations.
type EndpointRegistry struct {
	// endpoints stores all registered endpoints keyed by "METHOD:PATH"
	endpoints map[string]*core.Endpoint
	// order keeps registration order so adapters mount routes deterministically
	order []string
}

// NewEndpointRegistry creates a new registry with all base endpoints
// pre-registered.
func NewEndpointRegistry() *EndpointRegistry {
	reg := &EndpointRegistry{
		endpoints: make(map[string]*core.Endpoint),
	}

	for _, ep := range BaseEndpoints() {
		ep := ep
		// base endpoints are unique by construction
		_ = reg.register(&ep)
	}

	return reg
}

func endpointKey(ep *core.Endpoint) string {
	return fmt.Sprintf("%s:%s", ep.Method, ep.Path)
}

// register adds a single endpoint to the registry with conflict detection.
func (r *EndpointRegistry) register(ep *core.Endpoint) error {
	key := endpointKey(ep)

	if _, exists := r.endpoints[key]; exists {
		return fmt.Errorf("endpoint conflict: %s %s already registered", ep.Method, ep.Path)
	}

	r.endpoints[key] = ep
	r.order = append(r.order, key)
	return nil
}

// RegisterPlugin registers additional endpoints. If any of them conflicts with
// a registered endpoint or with another one in the batch, none are registered.
func (r *EndpointRegistry) RegisterPlugin(endpoints []core.Endpoint) error {
	seen := make(map[string]bool)
	for i := range endpoints {
		ep := &endpoints[i]
		key := endpointKey(ep)

		if _, exists := r.endpoints[key]; exists {
			return fmt.Errorf("plugin endpoint conflict: %s %s already registered", ep.Method, ep.Path)
		}
		if seen[key] {
			return fmt.Errorf("plugin contains duplicate endpoint: %s %s", ep.Method, ep.Path)
		}
		seen[key] = true
	}

	for i := range endpoints {
		ep := endpoints[i]
		_ = r.register(&ep)
	}

	return nil
}

// Endpoints returns all registered endpoints in registration order
func (r *EndpointRegistry) Endpoints() []*core.Endpoint {
	result := make([]*core.Endpoint, 0, len(r.order))
	for _, key := range r.order {
		result = append(result, r.endpoints[key])
	}
	return result
}
