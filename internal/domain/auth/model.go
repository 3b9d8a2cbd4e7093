// Package auth provides user accounts and JWT-based authentication for
// the API.
package auth

import (
	"context"
	"regexp"

	"golang.org/x/crypto/bcrypt"

	"leafbook/internal/core/apperror"
	"leafbook/internal/core/entity"
)

var emailRE = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// User is an operator account.
type User struct {
	entity.BaseRecord

	Email        string `db:"email" json:"email"`
	Name         string `db:"name" json:"name"`
	PasswordHash string `db:"password_hash" json:"-"`
	IsActive     bool   `db:"is_active" json:"isActive"`
}

// NewUser creates an active user with a bcrypt-hashed password.
func NewUser(email, name, password string) (*User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	return &User{
		BaseRecord:   entity.NewBaseRecord(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		IsActive:     true,
	}, nil
}

// Validate implements entity.Validatable.
func (u *User) Validate(ctx context.Context) error {
	if !emailRE.MatchString(u.Email) {
		return apperror.NewValidation("invalid email").
			WithDetail("field", "email")
	}
	if u.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if u.PasswordHash == "" {
		return apperror.NewValidation("password is required").
			WithDetail("field", "password")
	}
	return nil
}

// CheckPassword compares a candidate password against the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", apperror.NewValidation("password must be at least 8 characters").
			WithDetail("field", "password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
