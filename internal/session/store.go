package session

import (
	"context"
	"errors"
	"time"

	"github.com/GreedyKomodoDragon/Kontroler/pkg/models"
	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned for unknown or expired sessions
	ErrNotFound = errors.New("session not found")
	// ErrConflict is returned by Save when the session was saved by someone
	// else since it was loaded
	ErrConflict = errors.New("session was modified concurrently")
)

// DefaultTTL is how long an untouched authoring session is kept
const DefaultTTL = 24 * time.Hour

// Session is one in-progress DAG authoring form
type Session struct {
	ID        string            `json:"id"`
	Owner     string            `json:"owner"`
	Form      models.DagFormObj `json:"form"`
	UpdatedAt time.Time         `json:"updatedAt"`
	// Version counts saves; Save only succeeds against the version it was loaded at
	Version int64 `json:"version"`
}

// New starts a session for owner with a fresh unguessable id
func New(owner string, form models.DagFormObj) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Owner:     owner,
		Form:      form,
		UpdatedAt: time.Now(),
	}
}

// Store keeps authoring sessions between requests. Save bumps Version and
// fails with ErrConflict when the stored copy has moved on.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}
