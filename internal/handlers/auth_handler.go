package handlers

import (
	"errors"
	"time"

	"github.com/ahmetcoskunkizilkaya/nexo/internal/config"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/dto"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/services"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/validation"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
	validator   *validation.Validator
	cfg         *config.Config
}

func NewAuthHandler(authService *services.AuthService, validator *validation.Validator, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, validator: validator, cfg: cfg}
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := parseBody(c, h.validator, &req); err != nil {
		return serviceError(c, err)
	}

	resp, err := h.authService.Signup(c.UserContext(), &req)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return errorJSON(c, fiber.StatusConflict, err.Error())
		}
		return serviceError(c, err)
	}

	h.setSession(c, resp)
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, h.validator, &req); err != nil {
		return serviceError(c, err)
	}

	resp, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return errorJSON(c, fiber.StatusUnauthorized, err.Error())
		}
		return serviceError(c, err)
	}

	h.setSession(c, resp)
	return c.JSON(resp)
}

// Refresh takes the refresh token from the body, falling back to the
// session cookie.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
		}
	}
	token := req.RefreshToken
	if token == "" {
		token = c.Cookies(middleware.RefreshCookie)
	}

	resp, err := h.authService.Refresh(c.UserContext(), token)
	if err != nil {
		if errors.Is(err, services.ErrInvalidToken) || errors.Is(err, services.ErrUserNotFound) {
			h.clearSession(c)
			return errorJSON(c, fiber.StatusUnauthorized, services.ErrInvalidToken.Error())
		}
		return serviceError(c, err)
	}

	h.setSession(c, resp)
	return c.JSON(resp)
}

// Signout revokes the refresh cookie, clears both cookies and sends the
// browser back to the login page.
func (h *AuthHandler) Signout(c *fiber.Ctx) error {
	if err := h.authService.Signout(c.UserContext(), c.Cookies(middleware.RefreshCookie)); err != nil {
		return serviceError(c, err)
	}
	h.clearSession(c)
	return c.Redirect("/login", fiber.StatusFound)
}

func (h *AuthHandler) setSession(c *fiber.Ctx, resp *dto.AuthResponse) {
	c.Cookie(h.cookie(middleware.AccessCookie, resp.AccessToken, time.Now().Add(h.cfg.JWTAccessExpiry)))
	c.Cookie(h.cookie(middleware.RefreshCookie, resp.RefreshToken, time.Now().Add(h.cfg.JWTRefreshExpiry)))
}

func (h *AuthHandler) clearSession(c *fiber.Ctx) {
	expired := time.Unix(0, 0)
	c.Cookie(h.cookie(middleware.AccessCookie, "", expired))
	c.Cookie(h.cookie(middleware.RefreshCookie, "", expired))
}

func (h *AuthHandler) cookie(name, value string, expires time.Time) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}
