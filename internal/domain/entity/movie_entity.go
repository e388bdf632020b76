package entity

import "time"

// Movie is one watchlist record, owned by exactly one User via UserID.
// Link, Genre and PosterURL are optional; PosterURL is only ever set
// through the poster upload gateway.
type Movie struct {
	ID          string
	Name        string
	Description string
	Link        string
	Genre       string
	PosterURL   string
	UserID      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
