package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/mdelacroix/cinetheque/internal/models"
)

// ErrCompanyHasFilms guards company deletion: a company referenced by at
// least one film cannot be removed.
var ErrCompanyHasFilms = fmt.Errorf("company has associated films")

type CompanyRepository struct {
	db *sql.DB
}

func NewCompanyRepository(db *sql.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

const companyColumns = `c.id, c.tmdb_id, c.name, c.logo_path, c.origin_country, c.homepage,
	c.source, c.created_at, c.updated_at,
	COALESCE((SELECT COUNT(*) FROM film_companies fc WHERE fc.company_id = c.id), 0) AS film_count`

func scanCompany(row interface{ Scan(...interface{}) error }) (*models.ProductionCompany, error) {
	c := &models.ProductionCompany{}
	err := row.Scan(&c.ID, &c.TMDBID, &c.Name, &c.LogoPath, &c.OriginCountry, &c.Homepage,
		&c.Source, &c.CreatedAt, &c.UpdatedAt, &c.FilmCount)
	return c, err
}

func (r *CompanyRepository) Create(c *models.ProductionCompany) error {
	if c.Source == "" {
		c.Source = models.SourceAdmin
	}
	query := `INSERT INTO production_companies (id, tmdb_id, name, logo_path, origin_country, homepage, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at, updated_at`
	return r.db.QueryRow(query, c.ID, c.TMDBID, c.Name, c.LogoPath,
		c.OriginCountry, c.Homepage, c.Source).Scan(&c.CreatedAt, &c.UpdatedAt)
}

func (r *CompanyRepository) GetByID(id uuid.UUID) (*models.ProductionCompany, error) {
	query := `SELECT ` + companyColumns + ` FROM production_companies c WHERE c.id = $1`
	c, err := scanCompany(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return c, err
}

func (r *CompanyRepository) List(source, search string, limit, offset int) ([]*models.ProductionCompany, error) {
	query := `SELECT ` + companyColumns + ` FROM production_companies c`
	var args []interface{}
	argIdx := 1
	var conds []string
	if source != "" {
		conds = append(conds, fmt.Sprintf("LOWER(c.source) = LOWER($%d)", argIdx))
		args = append(args, source)
		argIdx++
	}
	if search != "" {
		conds = append(conds, fmt.Sprintf("(c.name ILIKE $%d OR c.origin_country ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+search+"%")
		argIdx++
	}
	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += fmt.Sprintf(" ORDER BY c.name LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []*models.ProductionCompany
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

func (r *CompanyRepository) Update(c *models.ProductionCompany) error {
	query := `UPDATE production_companies SET tmdb_id=$1, name=$2, logo_path=$3,
		origin_country=$4, homepage=$5, updated_at=CURRENT_TIMESTAMP WHERE id=$6`
	result, err := r.db.Exec(query, c.TMDBID, c.Name, c.LogoPath, c.OriginCountry, c.Homepage, c.ID)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete refuses to remove a company that still has linked films. The check
// lives here, not only in the database, so callers get a distinct error.
func (r *CompanyRepository) Delete(id uuid.UUID) error {
	count, err := r.FilmCount(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCompanyHasFilms
	}

	result, err := r.db.Exec(`DELETE FROM production_companies WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CompanyRepository) FilmCount(id uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM film_companies WHERE company_id = $1`, id).Scan(&count)
	return count, err
}
