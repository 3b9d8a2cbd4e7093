package appctx

import (
	"context"
)

// UserContext contains the authenticated user's identity.
// Written by the auth middleware, read by services for audit fields
// (e.g. process_status_history.changed_by).
type UserContext struct {
	UserID string
	Email  string
	Name   string
}

type userContextKey struct{}

// WithUser adds UserContext to context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns UserContext from context or nil.
func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userContextKey{}).(*UserContext); ok {
		return v
	}
	return nil
}

// GetUserEmail returns the authenticated user's email or "system"
// when the operation runs outside a request (migrations, seeds).
func GetUserEmail(ctx context.Context) string {
	if u := GetUser(ctx); u != nil && u.Email != "" {
		return u.Email
	}
	return "system"
}
