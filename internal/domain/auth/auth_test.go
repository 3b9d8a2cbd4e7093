package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leafbook/internal/core/apperror"
	"leafbook/internal/core/id"
)

type fakeUserRepo struct {
	users map[string]*User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, u *User) error {
	if _, exists := r.users[u.Email]; exists {
		return apperror.NewDuplicate("user", "email", u.Email)
	}
	r.users[u.Email] = u
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, userID id.ID) (*User, error) {
	for _, u := range r.users {
		if u.ID == userID {
			return u, nil
		}
	}
	return nil, apperror.NewNotFound("users", userID.String())
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, apperror.NewNotFound("users", email)
	}
	return u, nil
}

func TestNewUserHashesPassword(t *testing.T) {
	u, err := NewUser("ops@leafbook.local", "Ops", "longenough1")
	require.NoError(t, err)

	assert.NotEqual(t, "longenough1", u.PasswordHash)
	assert.True(t, u.CheckPassword("longenough1"))
	assert.False(t, u.CheckPassword("wrong"))
}

func TestNewUserRejectsShortPassword(t *testing.T) {
	_, err := NewUser("ops@leafbook.local", "Ops", "short")
	require.Error(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	u, err := NewUser("ops@leafbook.local", "Ops", "longenough1")
	require.NoError(t, err)

	token, expiresAt, err := issuer.Issue(u)
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID.String(), claims.Subject)
	assert.Equal(t, u.Email, claims.Email)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("secret-a", time.Hour)
	other := NewTokenIssuer("secret-b", time.Hour)

	u, err := NewUser("ops@leafbook.local", "Ops", "longenough1")
	require.NoError(t, err)

	token, _, err := issuer.Issue(u)
	require.NoError(t, err)

	_, err = other.Verify(token)
	require.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", -time.Minute)

	u, err := NewUser("ops@leafbook.local", "Ops", "longenough1")
	require.NoError(t, err)

	token, _, err := issuer.Issue(u)
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	require.Error(t, err)
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, NewTokenIssuer("test-secret", time.Hour))

	_, err := svc.Register(context.Background(), "ops@leafbook.local", "Ops", "longenough1")
	require.NoError(t, err)

	result, err := svc.Login(context.Background(), "ops@leafbook.local", "longenough1")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)

	// Wrong password and unknown email produce the same error
	_, wrongPass := svc.Login(context.Background(), "ops@leafbook.local", "badpassword")
	_, wrongEmail := svc.Login(context.Background(), "nobody@leafbook.local", "longenough1")
	require.Error(t, wrongPass)
	require.Error(t, wrongEmail)
	assert.Equal(t, wrongPass.Error(), wrongEmail.Error())
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, NewTokenIssuer("test-secret", time.Hour))

	u, err := svc.Register(context.Background(), "ops@leafbook.local", "Ops", "longenough1")
	require.NoError(t, err)
	u.IsActive = false

	_, err = svc.Login(context.Background(), "ops@leafbook.local", "longenough1")
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
}
