package importer

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdelacroix/cinetheque/internal/models"
	"github.com/mdelacroix/cinetheque/internal/tmdb"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func inceptionDetail() *tmdb.MovieDetail {
	runtime := 148
	vote := 8.4
	return &tmdb.MovieDetail{
		ID:            27205,
		Title:         "Inception",
		OriginalTitle: "Inception",
		Overview:      "A thief who steals corporate secrets.",
		ReleaseDate:   "2010-07-16",
		Runtime:       &runtime,
		VoteAverage:   &vote,
		Status:        "Released",
		ProductionCompanies: []tmdb.Company{
			{ID: 923, Name: "Legendary Pictures", OriginCountry: "US"},
		},
	}
}

func TestReconcileCreatesFilmAndLinksCompany(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM films WHERE tmdb_id").
		WithArgs(int64(27205)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO films").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT id FROM production_companies WHERE tmdb_id").
		WithArgs(int64(923)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO production_companies").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO film_companies").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	engine := NewEngine(db, testLogger())
	res, err := engine.Reconcile(context.Background(), inceptionDetail())
	require.NoError(t, err)

	assert.True(t, res.Created)
	assert.Equal(t, 1, res.CompaniesLinked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReconcileUpdatesExistingFilm(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	filmID := uuid.New()
	companyID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM films WHERE tmdb_id").
		WithArgs(int64(27205)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(filmID.String()))
	mock.ExpectExec("UPDATE films SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT id FROM production_companies WHERE tmdb_id").
		WithArgs(int64(923)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(companyID.String()))
	mock.ExpectExec("UPDATE production_companies SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO film_companies").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	engine := NewEngine(db, testLogger())
	res, err := engine.Reconcile(context.Background(), inceptionDetail())
	require.NoError(t, err)

	assert.False(t, res.Created, "second reconciliation reports updated, not created")
	assert.Equal(t, filmID, res.FilmID)
	assert.Equal(t, 1, res.CompaniesLinked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The link insert uses ON CONFLICT DO NOTHING and the engine never issues a
// DELETE on film_companies: links established outside of import survive a
// reconciliation whose payload does not mention them.
func TestReconcileNeverRemovesLinks(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	filmID := uuid.New()
	companyID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM films WHERE tmdb_id").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(filmID.String()))
	mock.ExpectExec("UPDATE films SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT id FROM production_companies WHERE tmdb_id").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(companyID.String()))
	mock.ExpectExec("UPDATE production_companies SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO film_companies").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	engine := NewEngine(db, testLogger())
	_, err = engine.Reconcile(context.Background(), inceptionDetail())
	require.NoError(t, err)

	// ExpectationsWereMet fails on any statement not listed above, which
	// includes any DELETE against film_companies.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReconcileRetriesOnceOnUniqueConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	detail := inceptionDetail()
	detail.ProductionCompanies = nil
	filmID := uuid.New()

	// First attempt: the insert loses the race with a concurrent importer.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM films WHERE tmdb_id").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO films").
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	// Second attempt: the row now exists; the update path wins.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM films WHERE tmdb_id").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(filmID.String()))
	mock.ExpectExec("UPDATE films SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	engine := NewEngine(db, testLogger())
	res, err := engine.Reconcile(context.Background(), detail)
	require.NoError(t, err)

	assert.False(t, res.Created)
	assert.Equal(t, filmID, res.FilmID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReconcileUnresolvedConflictIsPersistenceError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	detail := inceptionDetail()
	detail.ProductionCompanies = nil

	for i := 0; i < 2; i++ {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id FROM films WHERE tmdb_id").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectExec("INSERT INTO films").
			WillReturnError(&pq.Error{Code: "23505"})
		mock.ExpectRollback()
	}

	engine := NewEngine(db, testLogger())
	_, err = engine.Reconcile(context.Background(), detail)

	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, int64(27205), pe.TMDBID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReconcileRejectsMissingID(t *testing.T) {
	engine := NewEngine(nil, testLogger())

	_, err := engine.Reconcile(context.Background(), &tmdb.MovieDetail{Title: "No ID"})
	assert.True(t, errors.Is(err, ErrMissingID))

	_, err = engine.Reconcile(context.Background(), nil)
	assert.True(t, errors.Is(err, ErrMissingID))
}

func TestNewFilmRecordAbsencePolicy(t *testing.T) {
	rec := newFilmRecord(&tmdb.MovieDetail{ID: 1})

	assert.Equal(t, "", rec.Titre)
	assert.Equal(t, "", rec.Overview)
	assert.Nil(t, rec.ReleaseDate)
	assert.Nil(t, rec.Runtime)
	assert.Nil(t, rec.VoteAverage)
	assert.Equal(t, models.StatutDefault, rec.Statut)
}

func TestNewFilmRecordFieldMapping(t *testing.T) {
	rec := newFilmRecord(inceptionDetail())

	assert.Equal(t, "Inception", rec.Titre)
	require.NotNil(t, rec.ReleaseDate)
	assert.Equal(t, time.Date(2010, 7, 16, 0, 0, 0, 0, time.UTC), *rec.ReleaseDate)
	require.NotNil(t, rec.Runtime)
	assert.Equal(t, 148, *rec.Runtime)
	assert.Equal(t, "Released", rec.Statut)
}

func TestNewFilmRecordDiscardsBadValues(t *testing.T) {
	badRuntime := -3
	rec := newFilmRecord(&tmdb.MovieDetail{
		ID:          1,
		ReleaseDate: "not-a-date",
		Runtime:     &badRuntime,
	})

	assert.Nil(t, rec.ReleaseDate)
	assert.Nil(t, rec.Runtime)
}
