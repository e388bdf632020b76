package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reelist/reelist-api/internal/domain/entity"
	"github.com/reelist/reelist-api/internal/domain/repository"
)

type MovieRepository struct {
	pool *pgxpool.Pool
}

func NewMovieRepository(pool *pgxpool.Pool) *MovieRepository {
	return &MovieRepository{pool: pool}
}

func (r *MovieRepository) Create(ctx context.Context, m *entity.Movie) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO movies (name, description, link, genre, poster_url, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, m.Name, m.Description, m.Link, m.Genre, m.PosterURL, m.UserID)

	return row.Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
}

func (r *MovieRepository) GetByID(ctx context.Context, id string) (*entity.Movie, error) {
	m := &entity.Movie{}
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, description, link, genre, poster_url, user_id, created_at, updated_at
		FROM movies
		WHERE id = $1
	`, id)

	if err := row.Scan(&m.ID, &m.Name, &m.Description, &m.Link, &m.Genre,
		&m.PosterURL, &m.UserID, &m.CreatedAt, &m.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

// ListByOwner composes the same predicates as repository.MovieFilter in
// SQL: ILIKE substring on name, case-insensitive equality on genre.
// Rows come back in insertion order.
func (r *MovieRepository) ListByOwner(ctx context.Context, ownerID string, f repository.MovieFilter) ([]*entity.Movie, error) {
	q := `
		SELECT id, name, description, link, genre, poster_url, user_id, created_at, updated_at
		FROM movies
		WHERE user_id = $1`
	args := []any{ownerID}
	if f.Name != "" {
		args = append(args, "%"+f.Name+"%")
		q += ` AND name ILIKE $2`
	}
	if f.Genre != "" {
		args = append(args, f.Genre)
		if f.Name != "" {
			q += ` AND LOWER(genre) = LOWER($3)`
		} else {
			q += ` AND LOWER(genre) = LOWER($2)`
		}
	}
	q += ` ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Movie
	for rows.Next() {
		m := &entity.Movie{}
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.Link, &m.Genre,
			&m.PosterURL, &m.UserID, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// UpdateOwned writes the record only when it still belongs to m.UserID.
// Matching id and owner in the statement itself closes the gap between
// the service's ownership check and the write.
func (r *MovieRepository) UpdateOwned(ctx context.Context, m *entity.Movie) (bool, error) {
	m.UpdatedAt = time.Now()
	res, err := r.pool.Exec(ctx, `
		UPDATE movies
		SET name = $1, description = $2, link = $3, genre = $4, poster_url = $5, updated_at = $6
		WHERE id = $7 AND user_id = $8
	`, m.Name, m.Description, m.Link, m.Genre, m.PosterURL, m.UpdatedAt, m.ID, m.UserID)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

func (r *MovieRepository) DeleteOwned(ctx context.Context, id, ownerID string) (bool, error) {
	res, err := r.pool.Exec(ctx, `
		DELETE FROM movies
		WHERE id = $1 AND user_id = $2
	`, id, ownerID)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

var _ repository.MovieRepository = (*MovieRepository)(nil)
