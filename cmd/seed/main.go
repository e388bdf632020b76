package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/reelist/reelist-api/config"
	"github.com/reelist/reelist-api/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "demo@reelist.dev"
	password := "password123"
	username := "demoUser"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET username = EXCLUDED.username
		RETURNING id
	`, username, email, hash).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s username=%s password=%s\n", id, email, username, password)

	movies := []struct {
		name, description, link, genre string
	}{
		{"The Matrix", "A hacker discovers reality is a simulation", "https://www.imdb.com/title/tt0133093/", "scifi"},
		{"The Matrix Reloaded", "Neo and the rebels fight on", "https://www.imdb.com/title/tt0234215/", "scifi"},
		{"Up", "A widower flies his house to South America", "https://www.imdb.com/title/tt1049413/", "comedy"},
	}
	for _, m := range movies {
		if _, err := db.Exec(`
			INSERT INTO movies (name, description, link, genre, user_id)
			VALUES ($1, $2, $3, $4, $5)
		`, m.name, m.description, m.link, m.genre, id); err != nil {
			log.Fatalf("failed to seed movie %q: %v", m.name, err)
		}
	}
	fmt.Printf("seeded %d movies for %s\n", len(movies), email)
}
