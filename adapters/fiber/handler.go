package fiber

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/lborres/userapi"
	"github.com/lborres/userapi/pkg/logging"
)

const healthTimeout = 2 * time.Second

// handleCreateUser returns a handler for POST /users
func handleCreateUser(users userapi.UserHandler) fiber.Handler {
	return func(c fiber.Ctx) error {
		var input userapi.CreateUserInput
		if err := bindJSON(c, &input); err != nil {
			return handleUserError(c, err)
		}

		view, err := users.CreateUser(c.Context(), input)
		if err != nil {
			return handleUserError(c, err)
		}

		return c.Status(http.StatusCreated).JSON(view)
	}
}

// handleListUsers returns a handler for GET /users
func handleListUsers(users userapi.UserHandler) fiber.Handler {
	return func(c fiber.Ctx) error {
		views, err := users.ListUsers(c.Context())
		if err != nil {
			return handleUserError(c, err)
		}

		return c.Status(http.StatusOK).JSON(views)
	}
}

// handleGetUser returns a handler for GET /users/:id
func handleGetUser(users userapi.UserHandler) fiber.Handler {
	return func(c fiber.Ctx) error {
		view, err := users.GetUser(c.Context(), c.Params("id"))
		if err != nil {
			return handleUserError(c, err)
		}

		return c.Status(http.StatusOK).JSON(view)
	}
}

// handleUpdateUser returns a handler for PUT /users/:id
func handleUpdateUser(users userapi.UserHandler) fiber.Handler {
	return func(c fiber.Ctx) error {
		var input userapi.UpdateUserInput
		if err := bindJSON(c, &input); err != nil {
			return handleUserError(c, err)
		}

		view, err := users.UpdateUser(c.Context(), c.Params("id"), input)
		if err != nil {
			return handleUserError(c, err)
		}

		return c.Status(http.StatusOK).JSON(view)
	}
}

// handleDeleteUser returns a handler for DELETE /users/:id
func handleDeleteUser(users userapi.UserHandler) fiber.Handler {
	return func(c fiber.Ctx) error {
		if err := users.DeleteUser(c.Context(), c.Params("id")); err != nil {
			return handleUserError(c, err)
		}

		return c.Status(http.StatusOK).JSON(map[string]string{
			"status": "deleted",
		})
	}
}

// handleHealthcheck returns a handler for GET /healthcheck.
// With deep=1 the store is pinged as well.
func handleHealthcheck(users userapi.UserHandler) fiber.Handler {
	return func(c fiber.Ctx) error {
		deep := c.Query("deep")
		if deep != "1" && deep != "true" {
			return c.Status(http.StatusOK).JSON(map[string]string{"status": "ok"})
		}

		ctx, cancel := context.WithTimeout(c.Context(), healthTimeout)
		defer cancel()

		if err := users.Health(ctx); err != nil {
			logging.FromContext(c.Context()).Warn().Err(err).Msg("store ping failed")
			return c.Status(http.StatusServiceUnavailable).JSON(map[string]string{"status": "unavailable"})
		}
		return c.Status(http.StatusOK).JSON(map[string]string{"status": "ok"})
	}
}

// bindJSON decodes the request body into out. Decoding failures become
// ErrInvalidBody; validation errors from an app level StructValidator pass through.
func bindJSON(c fiber.Ctx, out any) error {
	err := c.Bind().JSON(out)
	if err == nil {
		return nil
	}

	var verr *userapi.ValidationError
	if errors.As(err, &verr) {
		return err
	}
	return fmt.Errorf("%w: %v", userapi.ErrInvalidBody, err)
}
