package repository

import (
	"context"

	"github.com/reelist/reelist-api/internal/domain/entity"
)

// UserRepository defines the interface for account persistence.
// GetByEmail matches the email exactly (case-sensitive); it returns
// (nil, nil) when no row exists so callers can distinguish "absent"
// from a store failure.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}
