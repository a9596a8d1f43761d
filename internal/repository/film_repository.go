package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mdelacroix/cinetheque/internal/models"
)

var ErrNotFound = fmt.Errorf("not found")

type FilmRepository struct {
	db *sql.DB
}

func NewFilmRepository(db *sql.DB) *FilmRepository {
	return &FilmRepository{db: db}
}

const filmColumns = `f.id, f.tmdb_id, f.titre, f.titre_original, f.overview, f.release_date,
	f.runtime, f.poster_path, f.backdrop_path, f.vote_average, f.vote_count, f.popularity,
	f.original_language, f.adult, f.statut, f.imported_from_tmdb, f.created_at, f.updated_at`

func scanFilm(row interface{ Scan(...interface{}) error }) (*models.Film, error) {
	f := &models.Film{}
	err := row.Scan(&f.ID, &f.TMDBID, &f.Titre, &f.TitreOriginal, &f.Overview, &f.ReleaseDate,
		&f.Runtime, &f.PosterPath, &f.BackdropPath, &f.VoteAverage, &f.VoteCount, &f.Popularity,
		&f.OriginalLanguage, &f.Adult, &f.Statut, &f.ImportedFromTMDB, &f.CreatedAt, &f.UpdatedAt)
	return f, err
}

func (r *FilmRepository) Create(f *models.Film) error {
	if f.Statut == "" {
		f.Statut = models.StatutDefault
	}
	query := `INSERT INTO films (id, tmdb_id, titre, titre_original, overview, release_date,
		runtime, poster_path, backdrop_path, vote_average, vote_count, popularity,
		original_language, adult, statut, imported_from_tmdb)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING created_at, updated_at`
	return r.db.QueryRow(query, f.ID, f.TMDBID, f.Titre, f.TitreOriginal, f.Overview,
		f.ReleaseDate, f.Runtime, f.PosterPath, f.BackdropPath, f.VoteAverage, f.VoteCount,
		f.Popularity, f.OriginalLanguage, f.Adult, f.Statut, f.ImportedFromTMDB).
		Scan(&f.CreatedAt, &f.UpdatedAt)
}

func (r *FilmRepository) GetByID(id uuid.UUID) (*models.Film, error) {
	query := `SELECT ` + filmColumns + ` FROM films f WHERE f.id = $1`
	f, err := scanFilm(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	companies, err := r.GetCompanies(id)
	if err != nil {
		return nil, err
	}
	f.Companies = companies
	return f, nil
}

// FilmFilter narrows and orders film listings.
type FilmFilter struct {
	Statut   string
	Imported *bool
	Adult    *bool
	Search   string
	OrderBy  string
	Limit    int
	Offset   int
}

// filmOrderColumns whitelists user-supplied ordering.
var filmOrderColumns = map[string]string{
	"created_at":   "f.created_at DESC",
	"release_date": "f.release_date DESC NULLS LAST",
	"vote_average": "f.vote_average DESC NULLS LAST",
	"popularity":   "f.popularity DESC NULLS LAST",
}

func (filter FilmFilter) where() (string, []interface{}) {
	var conds []string
	var args []interface{}
	argIdx := 1

	if filter.Statut != "" {
		conds = append(conds, fmt.Sprintf("LOWER(f.statut) = LOWER($%d)", argIdx))
		args = append(args, filter.Statut)
		argIdx++
	}
	if filter.Imported != nil {
		conds = append(conds, fmt.Sprintf("f.imported_from_tmdb = $%d", argIdx))
		args = append(args, *filter.Imported)
		argIdx++
	}
	if filter.Adult != nil {
		conds = append(conds, fmt.Sprintf("f.adult = $%d", argIdx))
		args = append(args, *filter.Adult)
		argIdx++
	}
	if filter.Search != "" {
		conds = append(conds, fmt.Sprintf("(f.titre ILIKE $%d OR f.titre_original ILIKE $%d OR f.overview ILIKE $%d)", argIdx, argIdx, argIdx))
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *FilmRepository) List(filter FilmFilter) ([]*models.Film, error) {
	where, args := filter.where()

	order, ok := filmOrderColumns[filter.OrderBy]
	if !ok {
		order = filmOrderColumns["created_at"]
	}

	query := `SELECT ` + filmColumns + ` FROM films f` + where +
		fmt.Sprintf(` ORDER BY %s LIMIT $%d OFFSET $%d`, order, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var films []*models.Film
	for rows.Next() {
		f, err := scanFilm(rows)
		if err != nil {
			return nil, err
		}
		films = append(films, f)
	}
	return films, rows.Err()
}

func (r *FilmRepository) Count(filter FilmFilter) (int, error) {
	where, args := filter.where()
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM films f`+where, args...).Scan(&count)
	return count, err
}

func (r *FilmRepository) Update(f *models.Film) error {
	query := `UPDATE films SET tmdb_id=$1, titre=$2, titre_original=$3, overview=$4,
		release_date=$5, runtime=$6, poster_path=$7, backdrop_path=$8, vote_average=$9,
		vote_count=$10, popularity=$11, original_language=$12, adult=$13, statut=$14,
		updated_at=CURRENT_TIMESTAMP WHERE id=$15`
	result, err := r.db.Exec(query, f.TMDBID, f.Titre, f.TitreOriginal, f.Overview,
		f.ReleaseDate, f.Runtime, f.PosterPath, f.BackdropPath, f.VoteAverage,
		f.VoteCount, f.Popularity, f.OriginalLanguage, f.Adult, f.Statut, f.ID)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStatut updates only the lifecycle status ("archive" uses this).
func (r *FilmRepository) SetStatut(id uuid.UUID, statut string) error {
	result, err := r.db.Exec(
		`UPDATE films SET statut=$1, updated_at=CURRENT_TIMESTAMP WHERE id=$2`, statut, id)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a film; ratings, favorites and company links cascade.
func (r *FilmRepository) Delete(id uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM films WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *FilmRepository) LinkCompany(filmID, companyID uuid.UUID) error {
	_, err := r.db.Exec(
		`INSERT INTO film_companies (film_id, company_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		filmID, companyID)
	return err
}

func (r *FilmRepository) UnlinkCompany(filmID, companyID uuid.UUID) error {
	_, err := r.db.Exec(
		`DELETE FROM film_companies WHERE film_id=$1 AND company_id=$2`, filmID, companyID)
	return err
}

func (r *FilmRepository) GetCompanies(filmID uuid.UUID) ([]*models.ProductionCompany, error) {
	query := `SELECT c.id, c.tmdb_id, c.name, c.logo_path, c.origin_country, c.homepage,
		c.source, c.created_at, c.updated_at
		FROM production_companies c
		JOIN film_companies fc ON c.id = fc.company_id
		WHERE fc.film_id = $1 ORDER BY c.name`
	rows, err := r.db.Query(query, filmID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []*models.ProductionCompany
	for rows.Next() {
		c := &models.ProductionCompany{}
		if err := rows.Scan(&c.ID, &c.TMDBID, &c.Name, &c.LogoPath, &c.OriginCountry,
			&c.Homepage, &c.Source, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

// ListFavorites returns the films a user marked as favorite, most recent first.
func (r *FilmRepository) ListFavorites(userID uuid.UUID) ([]*models.Film, error) {
	query := `SELECT ` + filmColumns + ` FROM films f
		JOIN favorites fav ON fav.film_id = f.id
		WHERE fav.user_id = $1 ORDER BY fav.created_at DESC`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var films []*models.Film
	for rows.Next() {
		f, err := scanFilm(rows)
		if err != nil {
			return nil, err
		}
		films = append(films, f)
	}
	return films, rows.Err()
}
