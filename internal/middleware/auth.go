package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/golang-jwt/jwt/v5"

	"github.com/adskipper/adskipper-go/internal/service"
)

// Fiber locals keys set by the auth middleware.
const (
	LocalUserID   = "userID"
	LocalUsername = "username"
)

// RequireAuth resolves the bearer token to a user identity or rejects the
// request. Missing credentials are 401; present-but-unusable ones are 403,
// with expiry called out so a client can prompt for re-login.
func RequireAuth(auth *service.AuthService) fiber.Handler {
	return func(c fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return ErrorResponse(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		}

		claims, err := auth.VerifyToken(token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return ErrorResponse(c, fiber.StatusForbidden, "TOKEN_EXPIRED", "Session expired, please log in again")
			}
			return ErrorResponse(c, fiber.StatusForbidden, "TOKEN_INVALID", "Invalid token, please log in again")
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalUsername, claims.Username)
		return c.Next()
	}
}

// OptionalAuth resolves an identity when a valid bearer token is present and
// proceeds anonymously otherwise. Used by read-only endpoints where identity
// only personalizes the response.
func OptionalAuth(auth *service.AuthService) fiber.Handler {
	return func(c fiber.Ctx) error {
		if token := bearerToken(c); token != "" {
			if claims, err := auth.VerifyToken(token); err == nil {
				c.Locals(LocalUserID, claims.UserID)
				c.Locals(LocalUsername, claims.Username)
			}
		}
		return c.Next()
	}
}

// UserID returns the authenticated user id from fiber locals, or nil for
// anonymous requests.
func UserID(c fiber.Ctx) *int64 {
	if v, ok := c.Locals(LocalUserID).(int64); ok {
		return &v
	}
	return nil
}

func bearerToken(c fiber.Ctx) string {
	header := c.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
