package auth

import "github.com/golang-jwt/jwt/v5"

// Authenticator issues and checks staff tokens for the admin routes.
type Authenticator interface {
	GenerateToken(subject, role string) (string, error)
	ValidateToken(token string) (*jwt.Token, error)
}

const (
	RoleStaff = "staff"
	RoleAdmin = "admin"
)
