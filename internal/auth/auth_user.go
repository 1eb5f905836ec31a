package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"taskhub/internal/model"
)

// ContextKey is where the echo-jwt middleware stores the parsed token.
const ContextKey = "user"

// AuthUser is the authenticated requester of a use case.
type AuthUser struct {
	UserID uint
	Email  string
	Role   model.UserRole
}

// IsAdmin reports whether the requester has the admin role.
func (u AuthUser) IsAdmin() bool {
	return u.Role == model.UserRoleAdmin
}

// NewClaims is the echo-jwt NewClaimsFunc producing our Claims type.
func NewClaims(echo.Context) jwt.Claims {
	return new(Claims)
}

// FromClaims converts validated claims into the requester.
func FromClaims(c *Claims) AuthUser {
	return AuthUser{UserID: c.UserID, Email: c.Email, Role: c.Role}
}

// FromContext reads the requester that echo-jwt placed in the context.
func FromContext(c echo.Context) (AuthUser, error) {
	token, ok := c.Get(ContextKey).(*jwt.Token)
	if !ok || token == nil {
		return AuthUser{}, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.UserID == 0 {
		return AuthUser{}, ErrInvalidToken
	}
	return FromClaims(claims), nil
}
