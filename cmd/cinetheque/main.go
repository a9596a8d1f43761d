package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/mdelacroix/cinetheque/internal/api"
	"github.com/mdelacroix/cinetheque/internal/cache"
	"github.com/mdelacroix/cinetheque/internal/config"
	"github.com/mdelacroix/cinetheque/internal/db"
	"github.com/mdelacroix/cinetheque/internal/jobs"
	"github.com/mdelacroix/cinetheque/internal/logger"
	"github.com/mdelacroix/cinetheque/internal/scheduler"
	"github.com/mdelacroix/cinetheque/internal/tmdb"
	"github.com/mdelacroix/cinetheque/internal/version"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	log.WithField("version", version.String()).Info("cinetheque starting")

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		log.WithError(err).Fatal("migration failed")
	}

	var detailCache tmdb.Cache
	redisCache, err := cache.New(cfg.RedisAddr, cfg.RedisPassword, log)
	if err != nil {
		log.WithError(err).Warn("redis unavailable, TMDB detail cache disabled")
	} else {
		detailCache = redisCache
		defer redisCache.Close()
	}

	queue := jobs.NewQueue(cfg.RedisAddr, cfg.RedisPassword, log)
	queue.RegisterHandler(jobs.TaskImportMovies, jobs.NewImportHandler(database.DB, cfg, detailCache, log))
	if err := queue.Start(); err != nil {
		log.WithError(err).Fatal("job queue failed to start")
	}
	defer queue.Stop()

	if cfg.ImportSchedule != "" {
		sched := scheduler.New(queue, log)
		if err := sched.ScheduleImport(cfg.ImportSchedule, cfg.ImportPages); err != nil {
			log.WithError(err).Fatal("invalid IMPORT_SCHEDULE")
		}
		sched.Start()
		defer sched.Stop()
	}

	srv := api.NewServer(cfg, database, queue, log)
	httpServer := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Port),
		Handler:      srv,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	httpServer.Shutdown(ctx)
}
