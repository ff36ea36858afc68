// middleware/auth.go
package middleware

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"teamhub/models"
	"teamhub/services"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the bearer token payload. It names the caller only; the role is
// read from the database on every request.
type Claims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

// RoleLookup resolves a user's stored role.
type RoleLookup interface {
	CurrentRole(ctx context.Context, userID uint) (models.Role, error)
}

// GenerateToken signs an HS256 token for userID valid for ttl.
func GenerateToken(secret string, userID uint, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken verifies signature and expiry and returns the claims.
func ParseToken(secret, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// NewAuth returns a handler that requires a valid bearer token and stores
// the caller's id and current role in Locals. Tokens of deleted users are
// rejected.
func NewAuth(secret string, roles RoleLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"success": false, "error": "Missing authorization header"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(401).JSON(fiber.Map{"success": false, "error": "Invalid authorization header format"})
		}

		claims, err := ParseToken(secret, parts[1])
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"success": false, "error": "Invalid or expired token"})
		}

		role, err := roles.CurrentRole(c.UserContext(), claims.UserID)
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(401).JSON(fiber.Map{"success": false, "error": "User no longer exists"})
		}
		if err != nil {
			return err
		}

		c.Locals("userId", claims.UserID)
		c.Locals("role", role)
		return c.Next()
	}
}

// RequireAdmin must run after NewAuth.
func RequireAdmin(c *fiber.Ctx) error {
	if role, _ := c.Locals("role").(models.Role); role != models.RoleAdmin {
		return c.Status(403).JSON(fiber.Map{"success": false, "error": "Access denied. Admin privileges required."})
	}
	return c.Next()
}

func GetUserID(c *fiber.Ctx) (uint, error) {
	userID := c.Locals("userId")
	if userID == nil {
		return 0, fiber.NewError(401, "User not authenticated")
	}

	if id, ok := userID.(uint); ok {
		return id, nil
	}

	if id, ok := userID.(float64); ok {
		return uint(id), nil
	}

	return 0, fiber.NewError(401, "Invalid user ID format")
}
