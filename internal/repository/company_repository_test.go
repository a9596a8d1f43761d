package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompanyDeleteRefusedWithLinkedFilms(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := uuid.New()
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM film_companies").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	repo := NewCompanyRepository(db)
	err = repo.Delete(id)

	assert.ErrorIs(t, err, ErrCompanyHasFilms)
	// No DELETE expectation was registered: the guard must short-circuit.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompanyDeleteWithoutFilms(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := uuid.New()
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM film_companies").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("DELETE FROM production_companies").
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewCompanyRepository(db)
	assert.NoError(t, repo.Delete(id))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompanyDeleteNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := uuid.New()
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM film_companies").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("DELETE FROM production_companies").
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewCompanyRepository(db)
	assert.ErrorIs(t, repo.Delete(id), ErrNotFound)
}
