package jobs

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/mdelacroix/cinetheque/internal/config"
	"github.com/mdelacroix/cinetheque/internal/importer"
	"github.com/mdelacroix/cinetheque/internal/tmdb"
)

// ImportPayload parametrizes one asynchronous import run.
type ImportPayload struct {
	Pages int `json:"pages"`
}

// ImportHandler runs a full TMDB import when an import:movies task fires.
// It builds a fresh catalog client per run; the orchestrator releases it.
type ImportHandler struct {
	db    *sql.DB
	cfg   *config.Config
	cache tmdb.Cache
	log   *logrus.Logger
}

func NewImportHandler(db *sql.DB, cfg *config.Config, cache tmdb.Cache, log *logrus.Logger) *ImportHandler {
	return &ImportHandler{db: db, cfg: cfg, cache: cache, log: log}
}

func (h *ImportHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload ImportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if payload.Pages < 1 {
		payload.Pages = 1
	}

	client, err := tmdb.NewClient(h.cfg.TMDBBaseURL, h.cfg.TMDBAPIToken, h.cache, h.log)
	if err != nil {
		return fmt.Errorf("build tmdb client: %w", err)
	}

	engine := importer.NewEngine(h.db, h.log)
	orch := importer.NewOrchestrator(client, engine, h.log)

	summary, err := orch.Run(ctx, payload.Pages)
	if err != nil {
		return fmt.Errorf("import run: %w", err)
	}

	h.log.WithFields(logrus.Fields{
		"created":       summary.Created,
		"updated":       summary.Updated,
		"company_links": summary.CompanyLinks,
	}).Info("jobs: import task finished")
	return nil
}
