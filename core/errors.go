package core

import (
	"errors"
	"fmt"
	"strings"
)

// User errors
var (
	ErrUserNotFound       = errors.New("user not found")                  // 404 Not Found
	ErrCreationFailed     = errors.New("creation failed")                 // 500
	ErrInconsistentRecord = errors.New("stored user document is invalid") // 500
)

// Validation errors (client input)
var (
	ErrInvalidID   = errors.New("invalid user id")      // 400
	ErrInvalidBody = errors.New("invalid request body") // 400
)

// Config errors (server-side configuration)
var (
	ErrStorageRequired     = errors.New("storage adapter is required") // 500
	ErrHTTPAdapterRequired = errors.New("http adapter is required")    // 500
	ErrUnsupportedStorage  = errors.New("unsupported storage uri")     // 500
)

// FieldError describes one failed validation rule
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// ValidationError is returned when client input breaks the user model rules. // 422
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}

	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		rule := f.Rule
		if f.Param != "" {
			rule = fmt.Sprintf("%s=%s", f.Rule, f.Param)
		}
		parts = append(parts, fmt.Sprintf("%s (%s)", f.Field, rule))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}
