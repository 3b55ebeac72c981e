package middleware

import (
	"errors"
	"strings"

	"github.com/ahmetcoskunkizilkaya/nexo/internal/config"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/dto"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	AccessCookie  = "nexo_access"
	RefreshCookie = "nexo_refresh"
)

var ErrNoSession = errors.New("no valid session")

// SessionRequired accepts the access token from the Authorization header or
// the access cookie. Browsers without a session are sent to the login page.
func SessionRequired(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:  jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		TokenLookup: "header:Authorization,cookie:" + AccessCookie,
		AuthScheme:  "Bearer",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if WantsHTML(c) {
				return c.Redirect("/login", fiber.StatusFound)
			}
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Unauthorized: invalid or expired token",
			})
		},
	})
}

// UserID returns the account id carried in the session token's sub claim.
func UserID(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return uuid.Nil, ErrNoSession
	}
	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return uuid.Nil, ErrNoSession
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, ErrNoSession
	}
	return id, nil
}

func WantsHTML(c *fiber.Ctx) bool {
	return strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMETextHTML)
}
