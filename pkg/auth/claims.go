package auth

import "github.com/golang-jwt/jwt/v5"

const RoleAdmin = "admin"

// AccessTokenClaims are the JWT claims carried by back-office tokens.
type AccessTokenClaims struct {
	AdminID string `json:"admin_id"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the claims grant back-office access.
func (c *AccessTokenClaims) IsAdmin() bool {
	return c != nil && c.Role == RoleAdmin
}
