package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/sunless-engine/pkg/sunlesscv"
)

// SessionRecord is the persisted form of one adventure session.
type SessionRecord struct {
	ID        uuid.UUID              `json:"id"`
	Game      sunlesscv.GameSnapshot `json:"game"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// Storage defines session persistence. Load returns nil, nil when the
// session does not exist or has expired.
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Session operations
	SaveSession(ctx context.Context, rec *SessionRecord) error
	LoadSession(ctx context.Context, id uuid.UUID) (*SessionRecord, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error
}
