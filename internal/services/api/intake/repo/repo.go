// Package repo persists intake sessions
package repo

import (
	"context"

	"taxintake/internal/services/api/intake/domain"

	"github.com/google/uuid"
)

// Repo reads and writes sessions
type Repo interface {
	Create(ctx context.Context, s domain.Session) error
	// Get returns a NotFound error for an unknown id
	Get(ctx context.Context, id uuid.UUID) (domain.Session, error)
	// Lock is Get that holds the row until the enclosing Atomic returns
	Lock(ctx context.Context, id uuid.UUID) (domain.Session, error)
	Update(ctx context.Context, s domain.Session) error
}

// Store is a Repo that can run several calls as one unit. fn returning an
// error discards its writes
type Store interface {
	Repo
	Atomic(ctx context.Context, fn func(Repo) error) error
}
