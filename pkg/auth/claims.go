package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// AdminClaims mirrors the token the backend issues on admin login.
type AdminClaims struct {
	UserID string `json:"id"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
