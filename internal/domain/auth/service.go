package auth

import (
	"context"
	"time"

	"leafbook/internal/core/apperror"
	"leafbook/internal/core/id"
	"leafbook/pkg/logger"
)

// Service provides login and user management.
type Service struct {
	repo   Repository
	issuer *TokenIssuer
}

// NewService creates a new auth service.
func NewService(repo Repository, issuer *TokenIssuer) *Service {
	return &Service{
		repo:   repo,
		issuer: issuer,
	}
}

// LoginResult carries the issued token.
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      *User     `json:"user"`
}

// Login verifies credentials and issues a token. Wrong email and wrong
// password produce the same error.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewUnauthorized("invalid credentials")
		}
		return nil, err
	}

	if !u.IsActive || !u.CheckPassword(password) {
		return nil, apperror.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.issuer.Issue(u)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "user logged in", "user_id", u.ID, "email", u.Email)

	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      u,
	}, nil
}

// Register creates a new user account.
func (s *Service) Register(ctx context.Context, email, name, password string) (*User, error) {
	u, err := NewUser(email, name, password)
	if err != nil {
		return nil, err
	}

	if err := u.Validate(ctx); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	logger.Info(ctx, "user registered", "user_id", u.ID, "email", u.Email)
	return u, nil
}

// GetByID retrieves a user account.
func (s *Service) GetByID(ctx context.Context, userID id.ID) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}

// Verify validates a bearer token and returns its claims.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	return s.issuer.Verify(tokenString)
}
