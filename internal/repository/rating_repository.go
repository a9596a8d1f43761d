package repository

import (
	"database/sql"

	"github.com/google/uuid"

	"github.com/mdelacroix/cinetheque/internal/models"
)

type RatingRepository struct {
	db *sql.DB
}

func NewRatingRepository(db *sql.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// UpsertFilmRating creates or replaces the (user, film) rating. The returned
// bool reports whether a new row was created.
func (r *RatingRepository) UpsertFilmRating(userID, filmID uuid.UUID, value int, review string) (*models.FilmRating, bool, error) {
	rating := &models.FilmRating{UserID: userID, FilmID: filmID, Value: value, Review: review}

	err := r.db.QueryRow(
		`SELECT id FROM film_ratings WHERE user_id=$1 AND film_id=$2`, userID, filmID,
	).Scan(&rating.ID)

	switch err {
	case nil:
		err = r.db.QueryRow(
			`UPDATE film_ratings SET value=$1, review=$2, updated_at=CURRENT_TIMESTAMP
			WHERE id=$3 RETURNING created_at, updated_at`,
			value, review, rating.ID).Scan(&rating.CreatedAt, &rating.UpdatedAt)
		return rating, false, err

	case sql.ErrNoRows:
		rating.ID = uuid.New()
		err = r.db.QueryRow(
			`INSERT INTO film_ratings (id, user_id, film_id, value, review)
			VALUES ($1, $2, $3, $4, $5) RETURNING created_at, updated_at`,
			rating.ID, userID, filmID, value, review).Scan(&rating.CreatedAt, &rating.UpdatedAt)
		return rating, true, err

	default:
		return nil, false, err
	}
}

func (r *RatingRepository) ListFilmRatings(filmID uuid.UUID) ([]*models.FilmRating, error) {
	rows, err := r.db.Query(
		`SELECT id, user_id, film_id, value, review, created_at, updated_at
		FROM film_ratings WHERE film_id=$1 ORDER BY created_at DESC`, filmID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ratings []*models.FilmRating
	for rows.Next() {
		rt := &models.FilmRating{}
		if err := rows.Scan(&rt.ID, &rt.UserID, &rt.FilmID, &rt.Value, &rt.Review,
			&rt.CreatedAt, &rt.UpdatedAt); err != nil {
			return nil, err
		}
		ratings = append(ratings, rt)
	}
	return ratings, rows.Err()
}

// UpsertCompanyRating mirrors UpsertFilmRating for production companies.
func (r *RatingRepository) UpsertCompanyRating(userID, companyID uuid.UUID, value int, review string) (*models.CompanyRating, bool, error) {
	rating := &models.CompanyRating{UserID: userID, CompanyID: companyID, Value: value, Review: review}

	err := r.db.QueryRow(
		`SELECT id FROM company_ratings WHERE user_id=$1 AND company_id=$2`, userID, companyID,
	).Scan(&rating.ID)

	switch err {
	case nil:
		err = r.db.QueryRow(
			`UPDATE company_ratings SET value=$1, review=$2
			WHERE id=$3 RETURNING created_at`,
			value, review, rating.ID).Scan(&rating.CreatedAt)
		return rating, false, err

	case sql.ErrNoRows:
		rating.ID = uuid.New()
		err = r.db.QueryRow(
			`INSERT INTO company_ratings (id, user_id, company_id, value, review)
			VALUES ($1, $2, $3, $4, $5) RETURNING created_at`,
			rating.ID, userID, companyID, value, review).Scan(&rating.CreatedAt)
		return rating, true, err

	default:
		return nil, false, err
	}
}

func (r *RatingRepository) ListCompanyRatings(companyID uuid.UUID) ([]*models.CompanyRating, error) {
	rows, err := r.db.Query(
		`SELECT id, user_id, company_id, value, review, created_at
		FROM company_ratings WHERE company_id=$1 ORDER BY created_at DESC`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ratings []*models.CompanyRating
	for rows.Next() {
		rt := &models.CompanyRating{}
		if err := rows.Scan(&rt.ID, &rt.UserID, &rt.CompanyID, &rt.Value, &rt.Review,
			&rt.CreatedAt); err != nil {
			return nil, err
		}
		ratings = append(ratings, rt)
	}
	return ratings, rows.Err()
}
