package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mdelacroix/cinetheque/internal/cache"
	"github.com/mdelacroix/cinetheque/internal/config"
	"github.com/mdelacroix/cinetheque/internal/db"
	"github.com/mdelacroix/cinetheque/internal/importer"
	"github.com/mdelacroix/cinetheque/internal/logger"
	"github.com/mdelacroix/cinetheque/internal/tmdb"
)

// cinetheque-import runs one synchronous TMDB import:
//
//	cinetheque-import -pages 2
func main() {
	pages := flag.Int("pages", 1, "number of popular-movie pages to import")
	flag.Parse()

	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	if *pages < 1 {
		fmt.Fprintln(os.Stderr, "pages must be a positive integer")
		os.Exit(2)
	}

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		log.WithError(err).Fatal("migration failed")
	}

	var detailCache tmdb.Cache
	if redisCache, err := cache.New(cfg.RedisAddr, cfg.RedisPassword, log); err == nil {
		detailCache = redisCache
		defer redisCache.Close()
	} else {
		log.WithError(err).Warn("redis unavailable, TMDB detail cache disabled")
	}

	client, err := tmdb.NewClient(cfg.TMDBBaseURL, cfg.TMDBAPIToken, detailCache, log)
	if err != nil {
		log.WithError(err).Fatal("tmdb client configuration error")
	}

	engine := importer.NewEngine(database.DB, log)
	orch := importer.NewOrchestrator(client, engine, log)

	summary, err := orch.Run(context.Background(), *pages)
	if err != nil {
		log.WithError(err).Fatal("import run failed")
	}

	fmt.Printf("import finished: %d created, %d updated, %d company links (%d candidates)\n",
		summary.Created, summary.Updated, summary.CompanyLinks, summary.Candidates)
}
