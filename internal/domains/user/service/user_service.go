package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"book-marketplace/internal/domains/user"
	"book-marketplace/pkg/logger"
)

// userService implements user.Service
type userService struct {
	repo       user.Repository
	tokens     user.TokenManager
	bcryptCost int
}

// NewUserService - a cost outside bcrypt's range falls back to the default
func NewUserService(repo user.Repository, tokens user.TokenManager, bcryptCost int) user.Service {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &userService{
		repo:       repo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

// ========================================
// AUTHENTICATION
// ========================================

func (s *userService) Register(ctx context.Context, req user.RegisterRequest) (*user.AuthResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, user.ErrEmailAlreadyExists
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	newUser := &user.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(passwordHash),
		Role:         req.Role,
	}
	if err := s.repo.Create(ctx, newUser); err != nil {
		return nil, err
	}

	logger.Info("user registered", map[string]interface{}{
		"user_id": newUser.ID,
		"role":    newUser.Role,
	})
	return s.authResponse(newUser)
}

// Login hides whether the email or the password was wrong
func (s *userService) Login(ctx context.Context, req user.LoginRequest) (*user.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, user.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, user.ErrInvalidCredentials
	}

	return s.authResponse(u)
}

func (s *userService) authResponse(u *user.User) (*user.AuthResponse, error) {
	token, err := s.tokens.GenerateToken(u.ID, u.Email, u.Role.String())
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &user.AuthResponse{
		Token: token,
		User:  u.ToDTO(),
	}, nil
}

// ========================================
// QUERIES
// ========================================

func (s *userService) GetByID(ctx context.Context, id int64) (*user.UserDTO, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := u.ToDTO()
	return &dto, nil
}

func (s *userService) ValidateToken(ctx context.Context, token string) (*user.ValidateResponse, error) {
	invalid := &user.ValidateResponse{Valid: false}

	if !s.tokens.ValidateToken(token) {
		return invalid, nil
	}
	email, err := s.tokens.ExtractEmail(token)
	if err != nil {
		return invalid, nil
	}

	u, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, user.ErrUserNotFound) {
		return invalid, nil
	}
	if err != nil {
		return nil, err
	}

	dto := u.ToDTO()
	return &user.ValidateResponse{Valid: true, User: &dto}, nil
}
