package serverutils

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const UsernameLocal = "username"

type IdentityConfig struct {
	// Header is set by the host runtime in front of the service
	Header string
	// JWTSecret, when set, also accepts a bearer token carrying a "username" claim
	JWTSecret string
}

// IdentityMiddleware reads the ambient user identity. It never authenticates:
// a request without identity reaches the handler with an empty username.
func IdentityMiddleware(cfg IdentityConfig) fiber.Handler {
	if cfg.Header == "" {
		cfg.Header = "X-Remote-User"
	}

	return func(ctx *fiber.Ctx) error {
		username := strings.TrimSpace(ctx.Get(cfg.Header))

		authHeader := ctx.Get("Authorization")
		if username == "" && cfg.JWTSecret != "" && len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			token, err := jwt.Parse(authHeader[7:], func(t *jwt.Token) (interface{}, error) {
				return []byte(cfg.JWTSecret), nil
			}, jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
			if err != nil || !token.Valid {
				return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
			}
			if claims, ok := token.Claims.(jwt.MapClaims); ok {
				if name, ok := claims["username"].(string); ok {
					username = strings.TrimSpace(name)
				}
			}
		}

		ctx.Locals(UsernameLocal, username)
		return ctx.Next()
	}
}

// Username returns the identity stored by IdentityMiddleware
func Username(ctx *fiber.Ctx) string {
	name, _ := ctx.Locals(UsernameLocal).(string)
	return name
}
