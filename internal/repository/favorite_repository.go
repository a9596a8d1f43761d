package repository

import (
	"database/sql"

	"github.com/google/uuid"

	"github.com/mdelacroix/cinetheque/internal/models"
)

type FavoriteRepository struct {
	db *sql.DB
}

func NewFavoriteRepository(db *sql.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Add marks a film as favorite. Adding twice is not an error; the returned
// bool reports whether the marker was newly created.
func (r *FavoriteRepository) Add(userID, filmID uuid.UUID) (*models.Favorite, bool, error) {
	fav := &models.Favorite{UserID: userID, FilmID: filmID}

	err := r.db.QueryRow(
		`SELECT id, created_at FROM favorites WHERE user_id=$1 AND film_id=$2`,
		userID, filmID).Scan(&fav.ID, &fav.CreatedAt)
	if err == nil {
		return fav, false, nil
	}
	if err != sql.ErrNoRows {
		return nil, false, err
	}

	fav.ID = uuid.New()
	err = r.db.QueryRow(
		`INSERT INTO favorites (id, user_id, film_id) VALUES ($1, $2, $3)
		ON CONFLICT (user_id, film_id) DO NOTHING RETURNING created_at`,
		fav.ID, userID, filmID).Scan(&fav.CreatedAt)
	if err == sql.ErrNoRows {
		// Lost a race with a concurrent insert; fetch the winner.
		err = r.db.QueryRow(
			`SELECT id, created_at FROM favorites WHERE user_id=$1 AND film_id=$2`,
			userID, filmID).Scan(&fav.ID, &fav.CreatedAt)
		return fav, false, err
	}
	if err != nil {
		return nil, false, err
	}
	return fav, true, nil
}

// Remove deletes the favorite marker; the bool reports whether one existed.
func (r *FavoriteRepository) Remove(userID, filmID uuid.UUID) (bool, error) {
	result, err := r.db.Exec(
		`DELETE FROM favorites WHERE user_id=$1 AND film_id=$2`, userID, filmID)
	if err != nil {
		return false, err
	}
	n, _ := result.RowsAffected()
	return n > 0, nil
}

func (r *FavoriteRepository) Check(userID, filmID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM favorites WHERE user_id=$1 AND film_id=$2)`,
		userID, filmID).Scan(&exists)
	return exists, err
}
