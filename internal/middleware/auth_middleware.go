package middleware

import (
	"context"
	"errors"
	"strings"

	"go-diamond-ledger/internal/apperr"
	"go-diamond-ledger/internal/model"
	"go-diamond-ledger/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// CookieName is the session cookie set at login.
const CookieName = "jwt"

// Locals keys set by RequireAuth.
const (
	LocalUserID   = "user_id"
	LocalUserName = "user_name"
	LocalUserRole = "user_role"
)

// Authenticator resolves a session token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

// RequireAuth reads the session from the jwt cookie, or from an
// "Authorization: Bearer" header, and stores the user in Locals.
func RequireAuth(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(CookieName)
		if token == "" {
			token = bearerToken(c.Get(fiber.HeaderAuthorization))
		}
		if token == "" {
			return deny(c, fiber.StatusUnauthorized, "Not authorized, no token")
		}

		user, err := auth.Authenticate(c.UserContext(), token)
		if err != nil {
			if errors.Is(err, apperr.ErrUnauthenticated) {
				return deny(c, fiber.StatusUnauthorized, apperr.Message(err))
			}
			logger.LogError(logger.Get(), "middleware", "RequireAuth", "authenticate", nil, err)
			return deny(c, fiber.StatusInternalServerError, "Internal server error")
		}

		c.Locals(LocalUserID, user.ID)
		c.Locals(LocalUserName, user.UserName)
		c.Locals(LocalUserRole, user.Role)
		return c.Next()
	}
}

// RequireRole lets the request through when the user has one of roles.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(LocalUserRole).(string)
		if !ok {
			return deny(c, fiber.StatusForbidden, "No role found")
		}
		for _, r := range roles {
			if r == role {
				return c.Next()
			}
		}
		return deny(c, fiber.StatusForbidden, "Forbidden: requires one of "+strings.Join(roles, ", ")+" roles")
	}
}

// UserID returns the authenticated user's id, or uuid.Nil outside RequireAuth.
func UserID(c *fiber.Ctx) uuid.UUID {
	id, _ := c.Locals(LocalUserID).(uuid.UUID)
	return id
}

func bearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

func deny(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "message": message})
}
