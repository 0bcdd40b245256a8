package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"

	"go-diamond-ledger/internal/apperr"
	"go-diamond-ledger/internal/middleware"
	"go-diamond-ledger/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func ok(c *fiber.Ctx, status int, message string, data any) error {
	body := fiber.Map{"success": true, "message": message}
	if data != nil {
		body["data"] = data
	}
	return c.Status(status).JSON(body)
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "message": message})
}

// respondError maps a service error to its status. Unclassified errors are
// logged and hidden from the caller.
func respondError(c *fiber.Ctx, module, funcName string, err error) error {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return fail(c, fiber.StatusBadRequest, apperr.Message(err))
	case errors.Is(err, apperr.ErrNotFound):
		return fail(c, fiber.StatusNotFound, apperr.Message(err))
	case errors.Is(err, apperr.ErrForbidden):
		return fail(c, fiber.StatusForbidden, apperr.Message(err))
	case errors.Is(err, apperr.ErrUnauthenticated):
		return fail(c, fiber.StatusUnauthorized, apperr.Message(err))
	case errors.Is(err, apperr.ErrConflict):
		return fail(c, fiber.StatusConflict, apperr.Message(err))
	}
	logger.LogError(logger.Get(), module, funcName, c.Method()+" "+c.Path(), nil, err)
	return fail(c, fiber.StatusInternalServerError, "Internal server error")
}

// parseBody decodes the JSON body, rejecting keys the target does not declare.
func parseBody(c *fiber.Ctx, out any) error {
	body := c.Body()
	if len(bytes.TrimSpace(body)) == 0 {
		return apperr.Validation("Request body is required")
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return apperr.Validation("Invalid request body: %s", err.Error())
	}
	return nil
}

// parseLooseBody decodes the JSON body the way fiber does, ignoring unknown keys.
func parseLooseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperr.Validation("Invalid JSON")
	}
	return nil
}

func paramID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperr.Validation("Invalid %s", name)
	}
	return id, nil
}

func queryUUID(c *fiber.Ctx, key string) (*uuid.UUID, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperr.Validation("Invalid %s", key)
	}
	return &id, nil
}

func queryInt(c *fiber.Ctx, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, apperr.Validation("Invalid %s", key)
	}
	return n, nil
}

func currentUser(c *fiber.Ctx) uuid.UUID {
	return middleware.UserID(c)
}

func parseUUIDField(raw, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.Validation("Invalid %s", name)
	}
	return id, nil
}
