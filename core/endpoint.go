package core

type Endpoint struct {
	Path     string
	Method   string
	Metadata EndpointMetadata
}

// EndpointMetadata documents an endpoint. Adapters attach handlers by
// OperationID; the rest is printed by `userapi routes`.
type EndpointMetadata struct {
	OperationID string
	Description string
	RequestBody interface{} // JSON body model, nil when the endpoint takes none
	Responses   map[int]interface{}
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Detail string       `json:"detail"`
	Errors []FieldError `json:"errors,omitempty"`
}
