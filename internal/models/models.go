package models

import (
	"time"

	"github.com/google/uuid"
)

// ──────────────────── Enums ────────────────────

// CompanySource tags where a production company row came from.
type CompanySource string

const (
	SourceAdmin CompanySource = "ADMIN"
	SourceTMDB  CompanySource = "TMDB"
)

// Film statut values. The column is free-form; these are the values the
// application itself writes.
const (
	StatutDefault  = "n/a"
	StatutArchived = "archived"
)

// Rating bounds for films and companies.
const (
	RatingMin = 1
	RatingMax = 5
)

// ──────────────────── User ────────────────────

type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Username     string     `json:"username" db:"username"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Bio          *string    `json:"bio,omitempty" db:"bio"`
	AvatarURL    *string    `json:"avatar_url,omitempty" db:"avatar_url"`
	BirthDate    *time.Time `json:"birth_date,omitempty" db:"birth_date"`
	IsAdmin      bool       `json:"is_admin" db:"is_admin"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// ──────────────────── ProductionCompany ────────────────────

type ProductionCompany struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	TMDBID        *int64        `json:"tmdb_id" db:"tmdb_id"`
	Name          string        `json:"name" db:"name"`
	LogoPath      string        `json:"logo_path" db:"logo_path"`
	OriginCountry string        `json:"origin_country" db:"origin_country"`
	Homepage      string        `json:"homepage" db:"homepage"`
	Source        CompanySource `json:"source" db:"source"`
	FilmCount     int           `json:"film_count" db:"-"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
}

// ──────────────────── Film ────────────────────

type Film struct {
	ID               uuid.UUID            `json:"id" db:"id"`
	TMDBID           *int64               `json:"tmdb_id" db:"tmdb_id"`
	Titre            string               `json:"titre" db:"titre"`
	TitreOriginal    string               `json:"titre_original" db:"titre_original"`
	Overview         string               `json:"overview" db:"overview"`
	ReleaseDate      *time.Time           `json:"release_date,omitempty" db:"release_date"`
	Runtime          *int                 `json:"runtime,omitempty" db:"runtime"`
	PosterPath       string               `json:"poster_path" db:"poster_path"`
	BackdropPath     string               `json:"backdrop_path" db:"backdrop_path"`
	VoteAverage      *float64             `json:"vote_average,omitempty" db:"vote_average"`
	VoteCount        *int                 `json:"vote_count,omitempty" db:"vote_count"`
	Popularity       *float64             `json:"popularity,omitempty" db:"popularity"`
	OriginalLanguage string               `json:"original_language" db:"original_language"`
	Adult            bool                 `json:"adult" db:"adult"`
	Statut           string               `json:"statut" db:"statut"`
	ImportedFromTMDB bool                 `json:"imported_from_tmdb" db:"imported_from_tmdb"`
	Companies        []*ProductionCompany `json:"production_companies,omitempty" db:"-"`
	CreatedAt        time.Time            `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at" db:"updated_at"`
}

// ──────────────────── Ratings ────────────────────

type FilmRating struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	FilmID    uuid.UUID `json:"film_id" db:"film_id"`
	Value     int       `json:"value" db:"value"`
	Review    string    `json:"review" db:"review"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type CompanyRating struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	CompanyID uuid.UUID `json:"company_id" db:"company_id"`
	Value     int       `json:"value" db:"value"`
	Review    string    `json:"review" db:"review"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ValidRating reports whether v is inside the 1-5 rating scale.
func ValidRating(v int) bool {
	return v >= RatingMin && v <= RatingMax
}

// ──────────────────── Favorite ────────────────────

type Favorite struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	FilmID    uuid.UUID `json:"film_id" db:"film_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
