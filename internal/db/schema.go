package db

import "fmt"

// schema holds the DDL executed at startup, in order. Statements are
// idempotent so repeated boots are safe.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		bio TEXT,
		avatar_url TEXT,
		birth_date DATE,
		is_admin BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS production_companies (
		id UUID PRIMARY KEY,
		tmdb_id BIGINT UNIQUE,
		name TEXT NOT NULL,
		logo_path TEXT NOT NULL DEFAULT '',
		origin_country TEXT NOT NULL DEFAULT '',
		homepage TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL DEFAULT 'ADMIN',
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_companies_source ON production_companies (source)`,

	`CREATE TABLE IF NOT EXISTS films (
		id UUID PRIMARY KEY,
		tmdb_id BIGINT UNIQUE,
		titre TEXT NOT NULL,
		titre_original TEXT NOT NULL DEFAULT '',
		overview TEXT NOT NULL DEFAULT '',
		release_date DATE,
		runtime INTEGER CHECK (runtime >= 0),
		poster_path TEXT NOT NULL DEFAULT '',
		backdrop_path TEXT NOT NULL DEFAULT '',
		vote_average DOUBLE PRECISION,
		vote_count INTEGER,
		popularity DOUBLE PRECISION,
		original_language TEXT NOT NULL DEFAULT '',
		adult BOOLEAN NOT NULL DEFAULT FALSE,
		statut TEXT NOT NULL DEFAULT 'n/a',
		imported_from_tmdb BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_films_statut ON films (statut)`,
	`CREATE INDEX IF NOT EXISTS idx_films_imported ON films (imported_from_tmdb)`,

	// Set semantics: the composite key forbids duplicate links. Company
	// deletion is additionally guarded at the application boundary.
	`CREATE TABLE IF NOT EXISTS film_companies (
		film_id UUID NOT NULL REFERENCES films(id) ON DELETE CASCADE,
		company_id UUID NOT NULL REFERENCES production_companies(id) ON DELETE RESTRICT,
		PRIMARY KEY (film_id, company_id)
	)`,

	`CREATE TABLE IF NOT EXISTS film_ratings (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		film_id UUID NOT NULL REFERENCES films(id) ON DELETE CASCADE,
		value SMALLINT NOT NULL CHECK (value BETWEEN 1 AND 5),
		review TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (user_id, film_id)
	)`,

	`CREATE TABLE IF NOT EXISTS company_ratings (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		company_id UUID NOT NULL REFERENCES production_companies(id) ON DELETE CASCADE,
		value SMALLINT NOT NULL CHECK (value BETWEEN 1 AND 5),
		review TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (user_id, company_id)
	)`,

	`CREATE TABLE IF NOT EXISTS favorites (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		film_id UUID NOT NULL REFERENCES films(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (user_id, film_id)
	)`,
}

// Migrate applies the embedded schema.
func Migrate(database *DB) error {
	for i, stmt := range schema {
		if _, err := database.Exec(stmt); err != nil {
			return fmt.Errorf("migration statement %d failed: %w", i, err)
		}
	}
	return nil
}
