package repository

import (
	"context"
	"strings"

	"github.com/reelist/reelist-api/internal/domain/entity"
)

// MovieFilter narrows ListByOwner results. Both fields are optional:
// Name matches as a case-insensitive substring, Genre as a
// case-insensitive exact value. Empty fields match everything.
type MovieFilter struct {
	Name  string
	Genre string
}

// IsZero reports whether the filter matches every movie.
func (f MovieFilter) IsZero() bool {
	return f.Name == "" && f.Genre == ""
}

// Matches applies the filter to a single movie. The SQL implementation
// composes the same predicates server-side; this form exists so the
// semantics stay testable without a database.
func (f MovieFilter) Matches(m *entity.Movie) bool {
	if f.Name != "" && !strings.Contains(strings.ToLower(m.Name), strings.ToLower(f.Name)) {
		return false
	}
	if f.Genre != "" && !strings.EqualFold(m.Genre, f.Genre) {
		return false
	}
	return true
}

// MovieRepository defines the interface for watchlist persistence.
// The owner-conditional mutations (UpdateOwned, DeleteOwned) match on
// both id and owner in a single statement and report whether a row was
// touched, so the ownership check and the write cannot be interleaved.
type MovieRepository interface {
	Create(ctx context.Context, m *entity.Movie) error
	GetByID(ctx context.Context, id string) (*entity.Movie, error)
	ListByOwner(ctx context.Context, ownerID string, f MovieFilter) ([]*entity.Movie, error)
	UpdateOwned(ctx context.Context, m *entity.Movie) (bool, error)
	DeleteOwned(ctx context.Context, id, ownerID string) (bool, error)
}
