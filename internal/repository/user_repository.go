package repository

import (
	"database/sql"

	"github.com/google/uuid"

	"github.com/mdelacroix/cinetheque/internal/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, username, email, password_hash, bio, avatar_url, birth_date, is_admin, created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Bio, &u.AvatarURL,
		&u.BirthDate, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (r *UserRepository) Create(u *models.User) error {
	query := `INSERT INTO users (id, username, email, password_hash, bio, avatar_url, birth_date, is_admin)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING created_at, updated_at`
	return r.db.QueryRow(query, u.ID, u.Username, u.Email, u.PasswordHash,
		u.Bio, u.AvatarURL, u.BirthDate, u.IsAdmin).Scan(&u.CreatedAt, &u.UpdatedAt)
}

func (r *UserRepository) GetByID(id uuid.UUID) (*models.User, error) {
	u, err := scanUser(r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return u, err
}

func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return u, err
}

func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return u, err
}

func (r *UserRepository) Update(u *models.User) error {
	query := `UPDATE users SET email=$1, bio=$2, avatar_url=$3, birth_date=$4,
		updated_at=CURRENT_TIMESTAMP WHERE id=$5`
	result, err := r.db.Exec(query, u.Email, u.Bio, u.AvatarURL, u.BirthDate, u.ID)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
