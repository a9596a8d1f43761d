package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/mdelacroix/cinetheque/internal/tmdb"
)

// Catalog is the read contract of the external movie catalog.
type Catalog interface {
	FetchPopularMovies(ctx context.Context, pageCount int) ([]tmdb.Movie, error)
	FetchMovieDetails(ctx context.Context, tmdbID int64) (*tmdb.MovieDetail, error)
	Close()
}

// Reconciler merges one detail record into the local catalog.
type Reconciler interface {
	Reconcile(ctx context.Context, detail *tmdb.MovieDetail) (*Result, error)
}

// Summary is the outcome of one import run.
type Summary struct {
	Created      int `json:"created"`
	Updated      int `json:"updated"`
	CompanyLinks int `json:"company_links"`
	Candidates   int `json:"candidates"`
}

// Orchestrator drives a full import run across pages and records. It owns the
// catalog client for the duration of the run and releases it exactly once,
// whatever way the run terminates.
type Orchestrator struct {
	catalog Catalog
	engine  Reconciler
	log     *logrus.Logger
}

func NewOrchestrator(catalog Catalog, engine Reconciler, log *logrus.Logger) *Orchestrator {
	return &Orchestrator{catalog: catalog, engine: engine, log: log}
}

// Run imports pageCount pages of popular movies. Per-record failures are
// logged and skipped; only a PersistenceError aborts the run.
func (o *Orchestrator) Run(ctx context.Context, pageCount int) (*Summary, error) {
	defer o.catalog.Close()

	if pageCount < 1 {
		return nil, fmt.Errorf("importer: page count must be positive, got %d", pageCount)
	}

	movies, err := o.catalog.FetchPopularMovies(ctx, pageCount)
	if err != nil {
		return nil, fmt.Errorf("fetch popular movies: %w", err)
	}
	o.log.WithFields(logrus.Fields{
		"movies": len(movies),
		"pages":  pageCount,
	}).Info("importer: candidates fetched")

	summary := &Summary{Candidates: len(movies)}
	for _, movie := range movies {
		if movie.ID == 0 {
			o.log.WithField("titre", movie.Title).Warn("importer: skipping record without TMDB id")
			continue
		}

		recLog := o.log.WithField("tmdb_id", movie.ID)

		detail, err := o.catalog.FetchMovieDetails(ctx, movie.ID)
		if err != nil {
			// One bad upstream record must not abort the batch.
			recLog.WithError(err).Error("importer: detail fetch failed, skipping record")
			continue
		}
		if detail == nil {
			recLog.Info("importer: details not found, skipping record")
			continue
		}

		res, err := o.engine.Reconcile(ctx, detail)
		if err != nil {
			var pe *PersistenceError
			if errors.As(err, &pe) {
				// Data-layer integrity cannot be assumed sound afterward.
				return summary, err
			}
			recLog.WithError(err).Error("importer: reconcile failed, skipping record")
			continue
		}

		if res.Created {
			summary.Created++
		} else {
			summary.Updated++
		}
		summary.CompanyLinks += res.CompaniesLinked

		recLog.WithFields(logrus.Fields{
			"created":   res.Created,
			"companies": res.CompaniesLinked,
		}).Info("importer: record reconciled")
	}

	o.log.WithFields(logrus.Fields{
		"created":       summary.Created,
		"updated":       summary.Updated,
		"company_links": summary.CompanyLinks,
		"candidates":    summary.Candidates,
	}).Info("importer: run finished")
	return summary, nil
}
