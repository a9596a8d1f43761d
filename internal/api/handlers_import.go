package api

import (
	"net/http"

	"github.com/mdelacroix/cinetheque/internal/httputil"
	"github.com/mdelacroix/cinetheque/internal/jobs"
)

type ImportRequest struct {
	Pages int `json:"pages"`
}

// handleTriggerImport enqueues an asynchronous TMDB import run.
func (s *Server) handleTriggerImport(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if req.Pages < 1 {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "pages must be a positive integer")
		return
	}

	taskID, err := s.queue.Enqueue(jobs.TaskImportMovies, jobs.ImportPayload{Pages: req.Pages})
	if err != nil {
		httputil.WriteError(w, http.StatusServiceUnavailable, "QUEUE_UNAVAILABLE", "could not enqueue import")
		return
	}

	s.log.WithField("task_id", taskID).Info("api: import run enqueued")
	httputil.WriteJSON(w, http.StatusAccepted, map[string]interface{}{
		"task_id": taskID,
		"pages":   req.Pages,
	})
}
