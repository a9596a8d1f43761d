package api

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/mdelacroix/cinetheque/internal/auth"
	"github.com/mdelacroix/cinetheque/internal/httputil"
	"github.com/mdelacroix/cinetheque/internal/models"
)

// ──────────────────── Production Company Handlers ────────────────────

func (s *Server) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	companies, err := s.companyRepo.List(q.Get("source"), q.Get("search"), limit, offset)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	if companies == nil {
		companies = []*models.ProductionCompany{}
	}
	httputil.WriteJSON(w, http.StatusOK, companies)
}

func (s *Server) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid company id")
		return
	}
	company, err := s.companyRepo.GetByID(id)
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "company not found")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, company)
}

type CompanyRequest struct {
	TMDBID        *int64 `json:"tmdb_id"`
	Name          string `json:"name"`
	LogoPath      string `json:"logo_path"`
	OriginCountry string `json:"origin_country"`
	Homepage      string `json:"homepage"`
}

func (s *Server) handleCreateCompany(w http.ResponseWriter, r *http.Request) {
	var req CompanyRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if req.Name == "" {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "name is required")
		return
	}

	// Companies created through the API are admin-curated; imports set TMDB.
	company := &models.ProductionCompany{
		ID:            uuid.New(),
		TMDBID:        req.TMDBID,
		Name:          req.Name,
		LogoPath:      req.LogoPath,
		OriginCountry: req.OriginCountry,
		Homepage:      req.Homepage,
		Source:        models.SourceAdmin,
	}
	if err := s.companyRepo.Create(company); err != nil {
		httputil.WriteError(w, http.StatusConflict, "CONFLICT", "could not create company (duplicate tmdb_id?)")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, company)
}

func (s *Server) handleUpdateCompany(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid company id")
		return
	}
	company, err := s.companyRepo.GetByID(id)
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "company not found")
		return
	}

	var req CompanyRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if req.Name == "" {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "name is required")
		return
	}

	company.TMDBID = req.TMDBID
	company.Name = req.Name
	company.LogoPath = req.LogoPath
	company.OriginCountry = req.OriginCountry
	company.Homepage = req.Homepage

	if err := s.companyRepo.Update(company); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, company)
}

func (s *Server) handleDeleteCompany(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid company id")
		return
	}
	if err := s.companyRepo.Delete(id); err != nil {
		httputil.WriteStorageError(w, err, "company")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRateCompany(w http.ResponseWriter, r *http.Request) {
	userData := auth.UserFromContext(r.Context())
	companyID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid company id")
		return
	}
	if _, err := s.companyRepo.GetByID(companyID); err != nil {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "company not found")
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

	rating, created, err := s.ratingRepo.UpsertCompanyRating(userData.UserID, companyID, req.Value, req.Review)
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

func (s *Server) handleListCompanyRatings(w http.ResponseWriter, r *http.Request) {
	companyID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid company id")
		return
	}
	ratings, err := s.ratingRepo.ListCompanyRatings(companyID)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	if ratings == nil {
		ratings = []*models.CompanyRating{}
	}
	httputil.WriteJSON(w, http.StatusOK, ratings)
}
