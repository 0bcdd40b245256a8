package handler

import (
	"time"

	"go-diamond-ledger/internal/middleware"
	"go-diamond-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService  service.AuthService
	ttl          time.Duration
	cookieSecure bool
}

func NewAuthHandler(authService service.AuthService, ttl time.Duration, cookieSecure bool) *AuthHandler {
	return &AuthHandler{authService: authService, ttl: ttl, cookieSecure: cookieSecure}
}

// SignUp creates an account and starts a session
// POST /api/auth/signup
func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var req service.SignUpRequest
	if err := parseLooseBody(c, &req); err != nil {
		return respondError(c, "handler.auth", "SignUp", err)
	}
	res, err := h.authService.SignUp(c.UserContext(), req)
	if err != nil {
		return respondError(c, "handler.auth", "SignUp", err)
	}
	h.setSession(c, res.Token, h.ttl)
	return ok(c, fiber.StatusCreated, "User registered", res)
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req service.LoginRequest
	if err := parseLooseBody(c, &req); err != nil {
		return respondError(c, "handler.auth", "Login", err)
	}
	res, err := h.authService.Login(c.UserContext(), req)
	if err != nil {
		return respondError(c, "handler.auth", "Login", err)
	}
	h.setSession(c, res.Token, h.ttl)
	return ok(c, fiber.StatusOK, "Logged in", res)
}

// Logout clears the cookie and, for a known session, revokes it server-side
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token := c.Cookies(middleware.CookieName)
	if token != "" {
		if user, err := h.authService.Authenticate(c.UserContext(), token); err == nil {
			if err := h.authService.Logout(c.UserContext(), user.ID); err != nil {
				return respondError(c, "handler.auth", "Logout", err)
			}
		}
	}
	h.setSession(c, "", -time.Hour)
	return ok(c, fiber.StatusOK, "Logged out", nil)
}

// Me GET /api/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := h.authService.Me(c.UserContext(), currentUser(c))
	if err != nil {
		return respondError(c, "handler.auth", "Me", err)
	}
	return ok(c, fiber.StatusOK, "User fetched", user)
}

// Users GET /api/auth/users
func (h *AuthHandler) Users(c *fiber.Ctx) error {
	users, err := h.authService.Users(c.UserContext())
	if err != nil {
		return respondError(c, "handler.auth", "Users", err)
	}
	return ok(c, fiber.StatusOK, "Users fetched", users)
}

func (h *AuthHandler) setSession(c *fiber.Ctx, token string, ttl time.Duration) {
	sameSite := fiber.CookieSameSiteLaxMode
	if h.cookieSecure {
		sameSite = fiber.CookieSameSiteNoneMode
	}
	c.Cookie(&fiber.Cookie{
		Name:     middleware.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: sameSite,
	})
}
