package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/GreedyKomodoDragon/Kontroler/internal/client"
)

// Roles known to the backend, most privileged first
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

// AuthState describes who is making a request
type AuthState interface {
	IsAuthenticated() bool
	Username() string
	Role() string
}

// State is a resolved AuthState
type State struct {
	authenticated bool
	username      string
	role          string
}

// Anonymous is the state of a caller without a valid session
var Anonymous = State{}

// NewState returns an authenticated state
func NewState(username, role string) State {
	return State{authenticated: true, username: username, role: role}
}

func (s State) IsAuthenticated() bool { return s.authenticated }
func (s State) Username() string      { return s.username }
func (s State) Role() string          { return s.role }

// HasRole reports whether state is authenticated with one of roles
func HasRole(state AuthState, roles ...string) bool {
	if state == nil || !state.IsAuthenticated() {
		return false
	}
	for _, role := range roles {
		if state.Role() == role {
			return true
		}
	}
	return false
}

// Checker resolves a session token into an AuthState
type Checker interface {
	Check(ctx context.Context, token string) (AuthState, error)
}

// BackendChecker asks the backend's auth endpoint about a token
type BackendChecker struct {
	client client.Client
}

// NewBackendChecker creates a Checker backed by the Kontroler backend
func NewBackendChecker(c client.Client) *BackendChecker {
	return &BackendChecker{client: c}
}

// Check returns Anonymous for a missing or rejected token. Other failures
// are returned as errors.
func (b *BackendChecker) Check(ctx context.Context, token string) (AuthState, error) {
	if token == "" {
		return Anonymous, nil
	}

	check, err := b.client.CheckAuth(client.WithToken(ctx, token))
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && (apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden) {
			return Anonymous, nil
		}
		return Anonymous, fmt.Errorf("failed to check session: %w", err)
	}

	return NewState(check.Username, check.Role), nil
}
