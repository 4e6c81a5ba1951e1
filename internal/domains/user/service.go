package user

import (
	"context"
)

// Service is the business contract of the user service
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	GetByID(ctx context.Context, id int64) (*UserDTO, error)

	// ValidateToken never fails for a bad token, it reports Valid=false.
	// Errors are infrastructure failures only.
	ValidateToken(ctx context.Context, token string) (*ValidateResponse, error)
}

// TokenManager issues and checks bearer tokens (pkg/jwt.Manager)
type TokenManager interface {
	GenerateToken(userID int64, email, role string) (string, error)
	ValidateToken(token string) bool
	ExtractEmail(token string) (string, error)
}
