package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/mdelacroix/cinetheque/internal/auth"
	"github.com/mdelacroix/cinetheque/internal/httputil"
	"github.com/mdelacroix/cinetheque/internal/models"
	"github.com/mdelacroix/cinetheque/internal/repository"
)

// ──────────────────── Film CRUD ────────────────────

func (s *Server) handleListFilms(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	filter := repository.FilmFilter{
		Statut:   q.Get("statut"),
		Imported: boolParam(q.Get("imported_from_tmdb")),
		Adult:    boolParam(q.Get("adult")),
		Search:   q.Get("search"),
		OrderBy:  q.Get("order_by"),
		Limit:    limit,
		Offset:   offset,
	}

	films, err := s.filmRepo.List(filter)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	total, err := s.filmRepo.Count(filter)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	if films == nil {
		films = []*models.Film{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"results": films,
		"count":   total,
	})
}

func (s *Server) handleGetFilm(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid film id")
		return
	}
	film, err := s.filmRepo.GetByID(id)
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "film not found")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, film)
}

type FilmRequest struct {
	TMDBID           *int64      `json:"tmdb_id"`
	Titre            string      `json:"titre"`
	TitreOriginal    string      `json:"titre_original"`
	Overview         string      `json:"overview"`
	ReleaseDate      *string     `json:"release_date"`
	Runtime          *int        `json:"runtime"`
	PosterPath       string      `json:"poster_path"`
	BackdropPath     string      `json:"backdrop_path"`
	OriginalLanguage string      `json:"original_language"`
	Adult            bool        `json:"adult"`
	Statut           string      `json:"statut"`
	CompanyIDs       []uuid.UUID `json:"production_companies_ids"`
}

func (req *FilmRequest) apply(f *models.Film) string {
	if req.Titre == "" {
		return "titre is required"
	}
	if req.Runtime != nil && *req.Runtime < 0 {
		return "runtime must be non-negative"
	}
	f.TMDBID = req.TMDBID
	f.Titre = req.Titre
	f.TitreOriginal = req.TitreOriginal
	f.Overview = req.Overview
	f.Runtime = req.Runtime
	f.PosterPath = req.PosterPath
	f.BackdropPath = req.BackdropPath
	f.OriginalLanguage = req.OriginalLanguage
	f.Adult = req.Adult
	f.Statut = req.Statut
	if f.Statut == "" {
		f.Statut = models.StatutDefault
	}
	f.ReleaseDate = nil
	if req.ReleaseDate != nil && *req.ReleaseDate != "" {
		t, err := time.Parse("2006-01-02", *req.ReleaseDate)
		if err != nil {
			return "release_date must be YYYY-MM-DD"
		}
		f.ReleaseDate = &t
	}
	return ""
}

func (s *Server) handleCreateFilm(w http.ResponseWriter, r *http.Request) {
	var req FilmRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	film := &models.Film{ID: uuid.New()}
	if msg := req.apply(film); msg != "" {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", msg)
		return
	}

	if err := s.filmRepo.Create(film); err != nil {
		httputil.WriteError(w, http.StatusConflict, "CONFLICT", "could not create film (duplicate tmdb_id?)")
		return
	}
	for _, companyID := range req.CompanyIDs {
		if err := s.filmRepo.LinkCompany(film.ID, companyID); err != nil {
			httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "unknown production company id")
			return
		}
	}
	created, err := s.filmRepo.GetByID(film.ID)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateFilm(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid film id")
		return
	}
	film, err := s.filmRepo.GetByID(id)
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "film not found")
		return
	}

	var req FilmRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if msg := req.apply(film); msg != "" {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", msg)
		return
	}

	if err := s.filmRepo.Update(film); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	if req.CompanyIDs != nil {
		for _, companyID := range req.CompanyIDs {
			if err := s.filmRepo.LinkCompany(id, companyID); err != nil {
				httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "unknown production company id")
				return
			}
		}
	}
	updated, err := s.filmRepo.GetByID(id)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteFilm(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid film id")
		return
	}
	if err := s.filmRepo.Delete(id); err != nil {
		httputil.WriteStorageError(w, err, "film")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleArchiveFilm(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid film id")
		return
	}
	if err := s.filmRepo.SetStatut(id, models.StatutArchived); err != nil {
		httputil.WriteStorageError(w, err, "film")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"detail": "film archived"})
}

// ──────────────────── Ratings & favorites ────────────────────

type RateRequest struct {
	Value  int    `json:"value"`
	Review string `json:"review"`
}

func (s *Server) handleRateFilm(w http.ResponseWriter, r *http.Request) {
	userData := auth.UserFromContext(r.Context())
	filmID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid film id")
		return
	}
	if _, err := s.filmRepo.GetByID(filmID); err != nil {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "film not found")
		return
	}

	var req RateRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if !models.ValidRating(req.Value) {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "value must be between 1 and 5")
		return
	}

	rating, created, err := s.ratingRepo.UpsertFilmRating(userData.UserID, filmID, req.Value, req.Review)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	httputil.WriteJSON(w, status, rating)
}

func (s *Server) handleListFilmRatings(w http.ResponseWriter, r *http.Request) {
	filmID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid film id")
		return
	}
	ratings, err := s.ratingRepo.ListFilmRatings(filmID)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	if ratings == nil {
		ratings = []*models.FilmRating{}
	}
	httputil.WriteJSON(w, http.StatusOK, ratings)
}

func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	userData := auth.UserFromContext(r.Context())
	filmID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid film id")
		return
	}
	if _, err := s.filmRepo.GetByID(filmID); err != nil {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "film not found")
		return
	}

	fav, created, err := s.favoriteRepo.Add(userData.UserID, filmID)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	httputil.WriteJSON(w, status, fav)
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	userData := auth.UserFromContext(r.Context())
	filmID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid film id")
		return
	}
	removed, err := s.favoriteRepo.Remove(userData.UserID, filmID)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	if !removed {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "favorite not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCheckFavorite(w http.ResponseWriter, r *http.Request) {
	userData := auth.UserFromContext(r.Context())
	filmID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid film id")
		return
	}
	favorite, err := s.favoriteRepo.Check(userData.UserID, filmID)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"favorite": favorite})
}

func (s *Server) handleUnlinkCompany(w http.ResponseWriter, r *http.Request) {
	filmID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid film id")
		return
	}
	companyID, err := uuid.Parse(r.PathValue("companyId"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid company id")
		return
	}
	if err := s.filmRepo.UnlinkCompany(filmID, companyID); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMyFavorites(w http.ResponseWriter, r *http.Request) {
	userData := auth.UserFromContext(r.Context())
	films, err := s.filmRepo.ListFavorites(userData.UserID)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	if films == nil {
		films = []*models.Film{}
	}
	httputil.WriteJSON(w, http.StatusOK, films)
}

func boolParam(v string) *bool {
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil
	}
	return &b
}
