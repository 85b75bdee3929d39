package core

import (
	"github.com/rs/zerolog"

	"github.com/lborres/userapi/pkg/crypto"
)

type Config struct {
	Storage UserStorage

	HTTP HTTPAdapter

	// Optional config
	PasswordHasher crypto.PasswordHandler
	Logger         *zerolog.Logger
	BasePath       string
	ListLimit      int // 1..100, anything else means 100
}

type App struct {
	Users    UserHandler
	Storage  UserStorage
	Logger   *zerolog.Logger
	BasePath string
}
