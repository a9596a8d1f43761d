package importer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/mdelacroix/cinetheque/internal/models"
	"github.com/mdelacroix/cinetheque/internal/tmdb"
)

// ErrMissingID rejects a record with no external identifier. Callers skip the
// record; it never aborts a batch.
var ErrMissingID = errors.New("importer: record has no TMDB id")

// PersistenceError reports a storage invariant violation that survived the
// one-retry race handling. It is fatal to the import run.
type PersistenceError struct {
	TMDBID int64
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("importer: persistence failure for TMDB id %d: %v", e.TMDBID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Result reports what one reconciliation did.
type Result struct {
	FilmID          uuid.UUID
	Created         bool
	CompaniesLinked int
}

// Engine merges one TMDB movie detail record into the local catalog. All
// writes for one record happen in a single transaction.
type Engine struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewEngine(db *sql.DB, log *logrus.Logger) *Engine {
	return &Engine{db: db, log: log}
}

// Reconcile finds-or-creates the film by TMDB id, merges every mapped field,
// finds-or-creates each listed company and ensures the film↔company links.
// A unique-tmdb_id conflict means a concurrent importer just created the row;
// the whole record is retried once before the failure is treated as fatal.
func (e *Engine) Reconcile(ctx context.Context, detail *tmdb.MovieDetail) (*Result, error) {
	if detail == nil || detail.ID == 0 {
		return nil, ErrMissingID
	}

	res, err := e.reconcileOnce(ctx, detail)
	if err == nil {
		return res, nil
	}
	if !isUniqueViolation(err) {
		return nil, err
	}

	e.log.WithField("tmdb_id", detail.ID).Warn("importer: unique conflict, retrying record once")
	res, err = e.reconcileOnce(ctx, detail)
	if err == nil {
		return res, nil
	}
	if isUniqueViolation(err) {
		return nil, &PersistenceError{TMDBID: detail.ID, Err: err}
	}
	return nil, err
}

func (e *Engine) reconcileOnce(ctx context.Context, detail *tmdb.MovieDetail) (*Result, error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	filmID, created, err := upsertFilm(ctx, tx, detail)
	if err != nil {
		return nil, err
	}

	linked := 0
	for _, c := range detail.ProductionCompanies {
		if c.ID == 0 {
			e.log.WithField("tmdb_id", detail.ID).Warn("importer: skipping company without TMDB id")
			continue
		}
		companyID, err := upsertCompany(ctx, tx, &c)
		if err != nil {
			return nil, err
		}
		// Union policy: add missing links, never remove links the payload
		// does not mention.
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO film_companies (film_id, company_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			filmID, companyID); err != nil {
			return nil, fmt.Errorf("link company %d: %w", c.ID, err)
		}
		linked++
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &Result{FilmID: filmID, Created: created, CompaniesLinked: linked}, nil
}

// filmRecord is the explicit field-by-field mapping of a detail payload onto
// film columns. Absent external values become the column's empty
// representation (empty string, NULL), never "leave as-is".
type filmRecord struct {
	Titre            string
	TitreOriginal    string
	Overview         string
	ReleaseDate      *time.Time
	Runtime          *int
	PosterPath       string
	BackdropPath     string
	VoteAverage      *float64
	VoteCount        *int
	Popularity       *float64
	OriginalLanguage string
	Adult            bool
	Statut           string
}

func newFilmRecord(d *tmdb.MovieDetail) filmRecord {
	rec := filmRecord{
		Titre:            d.Title,
		TitreOriginal:    d.OriginalTitle,
		Overview:         d.Overview,
		ReleaseDate:      parseReleaseDate(d.ReleaseDate),
		Runtime:          d.Runtime,
		PosterPath:       d.PosterPath,
		BackdropPath:     d.BackdropPath,
		VoteAverage:      d.VoteAverage,
		VoteCount:        d.VoteCount,
		Popularity:       d.Popularity,
		OriginalLanguage: d.OriginalLanguage,
		Adult:            d.Adult,
		Statut:           d.Status,
	}
	if rec.Runtime != nil && *rec.Runtime < 0 {
		rec.Runtime = nil
	}
	if rec.Statut == "" {
		rec.Statut = models.StatutDefault
	}
	return rec
}

func parseReleaseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}

func upsertFilm(ctx context.Context, tx *sql.Tx, detail *tmdb.MovieDetail) (uuid.UUID, bool, error) {
	rec := newFilmRecord(detail)

	var id uuid.UUID
	err := tx.QueryRowContext(ctx, `SELECT id FROM films WHERE tmdb_id = $1`, detail.ID).Scan(&id)
	switch err {
	case nil:
		// imported_from_tmdb is forced true even for rows a human edited
		// locally: importing always marks provenance.
		_, err = tx.ExecContext(ctx, `
			UPDATE films SET titre=$1, titre_original=$2, overview=$3, release_date=$4,
				runtime=$5, poster_path=$6, backdrop_path=$7, vote_average=$8,
				vote_count=$9, popularity=$10, original_language=$11, adult=$12,
				statut=$13, imported_from_tmdb=TRUE, updated_at=CURRENT_TIMESTAMP
			WHERE id = $14`,
			rec.Titre, rec.TitreOriginal, rec.Overview, rec.ReleaseDate,
			rec.Runtime, rec.PosterPath, rec.BackdropPath, rec.VoteAverage,
			rec.VoteCount, rec.Popularity, rec.OriginalLanguage, rec.Adult,
			rec.Statut, id)
		if err != nil {
			return uuid.Nil, false, fmt.Errorf("update film %d: %w", detail.ID, err)
		}
		return id, false, nil

	case sql.ErrNoRows:
		id = uuid.New()
		_, err = tx.ExecContext(ctx, `
			INSERT INTO films (id, tmdb_id, titre, titre_original, overview, release_date,
				runtime, poster_path, backdrop_path, vote_average, vote_count, popularity,
				original_language, adult, statut, imported_from_tmdb)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, TRUE)`,
			id, detail.ID, rec.Titre, rec.TitreOriginal, rec.Overview, rec.ReleaseDate,
			rec.Runtime, rec.PosterPath, rec.BackdropPath, rec.VoteAverage, rec.VoteCount,
			rec.Popularity, rec.OriginalLanguage, rec.Adult, rec.Statut)
		if err != nil {
			return uuid.Nil, false, fmt.Errorf("insert film %d: %w", detail.ID, err)
		}
		return id, true, nil

	default:
		return uuid.Nil, false, fmt.Errorf("lookup film %d: %w", detail.ID, err)
	}
}

func upsertCompany(ctx context.Context, tx *sql.Tx, c *tmdb.Company) (uuid.UUID, error) {
	var id uuid.UUID
	err := tx.QueryRowContext(ctx, `SELECT id FROM production_companies WHERE tmdb_id = $1`, c.ID).Scan(&id)
	switch err {
	case nil:
		_, err = tx.ExecContext(ctx, `
			UPDATE production_companies SET name=$1, logo_path=$2, origin_country=$3,
				source=$4, updated_at=CURRENT_TIMESTAMP
			WHERE id = $5`,
			c.Name, c.LogoPath, c.OriginCountry, models.SourceTMDB, id)
		if err != nil {
			return uuid.Nil, fmt.Errorf("update company %d: %w", c.ID, err)
		}
		return id, nil

	case sql.ErrNoRows:
		id = uuid.New()
		_, err = tx.ExecContext(ctx, `
			INSERT INTO production_companies (id, tmdb_id, name, logo_path, origin_country, source)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			id, c.ID, c.Name, c.LogoPath, c.OriginCountry, models.SourceTMDB)
		if err != nil {
			return uuid.Nil, fmt.Errorf("insert company %d: %w", c.ID, err)
		}
		return id, nil

	default:
		return uuid.Nil, fmt.Errorf("lookup company %d: %w", c.ID, err)
	}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
