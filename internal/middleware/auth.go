package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/farmlink/internal/common"
	"github.com/example/farmlink/internal/config"
	"github.com/example/farmlink/internal/models"
	"github.com/example/farmlink/internal/utils"
)

const (
	userContextKey = "currentUserID"
	roleContextKey = "currentUserRole"
)

// AuthMiddleware validates Bearer tokens and loads the authenticated identity
// into the request context.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return common.New(common.KindUnauthenticated, "missing authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return common.New(common.KindUnauthenticated, "invalid authorization header")
		}

		userID, role, err := utils.ParseToken(cfg.JWTSecret, parts[1])
		if err != nil {
			switch err {
			case utils.ErrTokenExpired:
				return common.New(common.KindUnauthenticated, "token expired")
			case utils.ErrTokenMalformed:
				return common.New(common.KindUnauthenticated, "malformed token")
			default:
				return common.New(common.KindUnauthenticated, "invalid token")
			}
		}

		c.Locals(userContextKey, userID)
		c.Locals(roleContextKey, models.Role(role))
		return c.Next()
	}
}

// RequireRoles rejects authenticated requests whose role is not in the allow
// list. Must be registered after AuthMiddleware.
func RequireRoles(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := GetCurrentRole(c)
		if !ok {
			return common.New(common.KindUnauthenticated, "unauthorized")
		}

		for _, allowed := range roles {
			if role == allowed {
				return c.Next()
			}
		}

		return common.New(common.KindForbidden, "insufficient permissions")
	}
}

// GetCurrentUserID extracts the authenticated user ID from context.
func GetCurrentUserID(c *fiber.Ctx) (uuid.UUID, bool) {
	value := c.Locals(userContextKey)
	if value == nil {
		return uuid.Nil, false
	}

	if id, ok := value.(uuid.UUID); ok {
		return id, true
	}

	return uuid.Nil, false
}

// GetCurrentRole extracts the authenticated role from context.
func GetCurrentRole(c *fiber.Ctx) (models.Role, bool) {
	value := c.Locals(roleContextKey)
	if value == nil {
		return "", false
	}

	if role, ok := value.(models.Role); ok {
		return role, true
	}

	return "", false
}
