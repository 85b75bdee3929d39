package userapi

import (
	"github.com/rs/zerolog"

	"github.com/lborres/userapi/core"
	"github.com/lborres/userapi/pkg/crypto"
	"github.com/lborres/userapi/services"
)

// interfaces
type (
	UserStorage = core.UserStorage
	UserHandler = core.UserHandler
	HTTPAdapter = core.HTTPAdapter

	PasswordHandler = crypto.PasswordHandler
)

// structs
type (
	App    = core.App
	Config = core.Config
)

type (
	User            = core.User
	UserPatch       = core.UserPatch
	UserView        = core.UserView
	CreateUserInput = core.CreateUserInput
	UpdateUserInput = core.UpdateUserInput
	ValidationError = core.ValidationError
	FieldError      = core.FieldError
	ErrorResponse   = core.ErrorResponse

	Endpoint         = core.Endpoint
	EndpointMetadata = core.EndpointMetadata
)

const (
	defaultBasePath = ""
)

// Constructors & helpers (convenience re-exports)
var (
	NewArgon2    = crypto.NewArgon2
	NewValidator = core.NewValidator
)

var (
	ErrUserNotFound       = core.ErrUserNotFound
	ErrCreationFailed     = core.ErrCreationFailed
	ErrInconsistentRecord = core.ErrInconsistentRecord
)

var (
	ErrInvalidID   = core.ErrInvalidID
	ErrInvalidBody = core.ErrInvalidBody
)

var (
	ErrStorageRequired     = core.ErrStorageRequired
	ErrHTTPAdapterRequired = core.ErrHTTPAdapterRequired
	ErrUnsupportedStorage  = core.ErrUnsupportedStorage
)

// New assembles the user service from an injected store and HTTP adapter
// and registers its routes.
func New(config Config) (*App, error) {
	if config.Storage == nil {
		return nil, ErrStorageRequired
	}
	if config.HTTP == nil {
		return nil, ErrHTTPAdapterRequired
	}

	// Set Defaults

	passwordHasher := config.PasswordHasher
	if passwordHasher == nil {
		passwordHasher = crypto.NewArgon2()
	}

	logger := config.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	basePath := config.BasePath
	if basePath == "" {
		basePath = defaultBasePath
	}

	users := services.NewUserService(config.Storage, passwordHasher, config.ListLimit)

	app := &App{
		Users:    users,
		Storage:  config.Storage,
		Logger:   logger,
		BasePath: basePath,
	}

	if err := config.HTTP.RegisterRoutes(users, basePath); err != nil {
		return nil, err
	}

	logger.Debug().Str("base_path", basePath).Msg("user routes registered")

	return app, nil
}
