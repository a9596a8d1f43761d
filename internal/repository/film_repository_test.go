package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdelacroix/cinetheque/internal/models"
)

func TestSetStatutArchivesFilm(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := uuid.New()
	mock.ExpectExec("UPDATE films SET statut").
		WithArgs(models.StatutArchived, id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewFilmRepository(db)
	assert.NoError(t, repo.SetStatut(id, models.StatutArchived))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetStatutNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := uuid.New()
	mock.ExpectExec("UPDATE films SET statut").
		WithArgs(models.StatutArchived, id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewFilmRepository(db)
	assert.ErrorIs(t, repo.SetStatut(id, models.StatutArchived), ErrNotFound)
}

func TestFilmFilterWhere(t *testing.T) {
	imported := true
	filter := FilmFilter{Statut: "published", Imported: &imported, Search: "incep"}

	where, args := filter.where()
	assert.Contains(t, where, "LOWER(f.statut)")
	assert.Contains(t, where, "f.imported_from_tmdb = $2")
	assert.Contains(t, where, "ILIKE $3")
	assert.Equal(t, []interface{}{"published", true, "%incep%"}, args)
}

func TestFilmFilterWhereEmpty(t *testing.T) {
	where, args := FilmFilter{}.where()
	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestFilmOrderByWhitelist(t *testing.T) {
	_, ok := filmOrderColumns["popularity"]
	assert.True(t, ok)
	_, ok = filmOrderColumns["; DROP TABLE films"]
	assert.False(t, ok)
}
