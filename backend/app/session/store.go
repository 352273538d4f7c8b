package session

import (
	"context"
	"errors"
	"postboard/backend/app/models"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session not found")

// Session is the server-held record behind a session cookie.
type Session struct {
	ID        string      `json:"id"`
	UserID    uint        `json:"uid"`
	Role      models.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

func (s *Session) Authenticated() bool { return s != nil && s.UserID != 0 }

func (s *Session) IsAdmin() bool { return s.Authenticated() && s.Role == models.RoleAdmin }

// Store maps opaque session ids to Session records.
// Destroy of an unknown id is not an error.
type Store interface {
	Create(ctx context.Context, userID uint, role models.Role) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	Destroy(ctx context.Context, id string) error
}

func newSession(userID uint, role models.Role) *Session {
	return &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Role:      role,
		CreatedAt: time.Now(),
	}
}
