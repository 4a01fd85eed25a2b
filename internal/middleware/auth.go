package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nick19y/PizzApp-sub001/internal/config"
	"github.com/nick19y/PizzApp-sub001/internal/models"
	"github.com/nick19y/PizzApp-sub001/internal/utils"
)

const (
	userContextKey  = "currentUserID"
	tokenContextKey = "currentTokenID"
)

// AuthMiddleware validates bearer tokens and loads the authenticated user ID
// into context. A token must both verify against the JWT secret and still
// have its server-side record; logout deletes the record, revoking the token.
func AuthMiddleware(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header")
		}

		userID, tokenID, err := utils.ParseToken(cfg.JWTSecret, parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		var record models.AuthToken
		if err := db.First(&record, "id = ? AND user_id = ?", tokenID, userID).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "token revoked")
		}
		if record.ExpiresAt.Before(time.Now()) {
			return fiber.NewError(fiber.StatusUnauthorized, "token expired")
		}

		c.Locals(userContextKey, userID)
		c.Locals(tokenContextKey, tokenID)
		return c.Next()
	}
}

// RequireAdmin restricts a route to users with the admin role. Must run
// after AuthMiddleware.
func RequireAdmin(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := GetCurrentUserID(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		}

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		}
		if !user.IsAdmin() {
			return fiber.NewError(fiber.StatusForbidden, "admin access required")
		}

		return c.Next()
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

// GetCurrentTokenID extracts the bearer token's ID (jti) from context.
func GetCurrentTokenID(c *fiber.Ctx) (uuid.UUID, bool) {
	value := c.Locals(tokenContextKey)
	if value == nil {
		return uuid.Nil, false
	}

	if id, ok := value.(uuid.UUID); ok {
		return id, true
	}

	return uuid.Nil, false
}
