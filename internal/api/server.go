package api

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/mdelacroix/cinetheque/internal/auth"
	"github.com/mdelacroix/cinetheque/internal/config"
	"github.com/mdelacroix/cinetheque/internal/db"
	"github.com/mdelacroix/cinetheque/internal/httputil"
	"github.com/mdelacroix/cinetheque/internal/jobs"
	"github.com/mdelacroix/cinetheque/internal/repository"
)

type Server struct {
	config       *config.Config
	db           *db.DB
	log          *logrus.Logger
	auth         *auth.Auth
	mw           *auth.Middleware
	userRepo     *repository.UserRepository
	filmRepo     *repository.FilmRepository
	companyRepo  *repository.CompanyRepository
	ratingRepo   *repository.RatingRepository
	favoriteRepo *repository.FavoriteRepository
	queue        *jobs.Queue
	router       *http.ServeMux
}

func NewServer(cfg *config.Config, database *db.DB, queue *jobs.Queue, log *logrus.Logger) *Server {
	authService := auth.New(cfg.JWTSecret, cfg.JWTExpiresIn)

	s := &Server{
		config:       cfg,
		db:           database,
		log:          log,
		auth:         authService,
		mw:           auth.NewMiddleware(authService),
		userRepo:     repository.NewUserRepository(database.DB),
		filmRepo:     repository.NewFilmRepository(database.DB),
		companyRepo:  repository.NewCompanyRepository(database.DB),
		ratingRepo:   repository.NewRatingRepository(database.DB),
		favoriteRepo: repository.NewFavoriteRepository(database.DB),
		queue:        queue,
		router:       http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.HandleFunc("GET /api/v1/health", s.handleHealth)

	// Auth
	s.router.HandleFunc("POST /api/v1/auth/register", s.handleRegister)
	s.router.HandleFunc("POST /api/v1/auth/login", s.handleLogin)
	s.router.HandleFunc("GET /api/v1/auth/profile", s.mw.RequireAuth(s.handleGetProfile))
	s.router.HandleFunc("PUT /api/v1/auth/profile", s.mw.RequireAuth(s.handleUpdateProfile))

	// Films: reads are public, writes require auth
	s.router.HandleFunc("GET /api/v1/films", s.handleListFilms)
	s.router.HandleFunc("GET /api/v1/films/favorites", s.mw.RequireAuth(s.handleMyFavorites))
	s.router.HandleFunc("GET /api/v1/films/{id}", s.handleGetFilm)
	s.router.HandleFunc("POST /api/v1/films", s.mw.RequireAuth(s.handleCreateFilm))
	s.router.HandleFunc("PUT /api/v1/films/{id}", s.mw.RequireAuth(s.handleUpdateFilm))
	s.router.HandleFunc("DELETE /api/v1/films/{id}", s.mw.RequireAuth(s.handleDeleteFilm))
	s.router.HandleFunc("POST /api/v1/films/{id}/archive", s.mw.RequireAuth(s.handleArchiveFilm))
	s.router.HandleFunc("POST /api/v1/films/{id}/rate", s.mw.RequireAuth(s.handleRateFilm))
	s.router.HandleFunc("GET /api/v1/films/{id}/ratings", s.handleListFilmRatings)
	s.router.HandleFunc("GET /api/v1/films/{id}/favorite", s.mw.RequireAuth(s.handleCheckFavorite))
	s.router.HandleFunc("POST /api/v1/films/{id}/favorite", s.mw.RequireAuth(s.handleAddFavorite))
	s.router.HandleFunc("DELETE /api/v1/films/{id}/favorite", s.mw.RequireAuth(s.handleRemoveFavorite))
	s.router.HandleFunc("DELETE /api/v1/films/{id}/companies/{companyId}", s.mw.RequireAuth(s.handleUnlinkCompany))

	// Production companies
	s.router.HandleFunc("GET /api/v1/companies", s.handleListCompanies)
	s.router.HandleFunc("GET /api/v1/companies/{id}", s.handleGetCompany)
	s.router.HandleFunc("POST /api/v1/companies", s.mw.RequireAuth(s.handleCreateCompany))
	s.router.HandleFunc("PUT /api/v1/companies/{id}", s.mw.RequireAuth(s.handleUpdateCompany))
	s.router.HandleFunc("DELETE /api/v1/companies/{id}", s.mw.RequireAuth(s.handleDeleteCompany))
	s.router.HandleFunc("POST /api/v1/companies/{id}/rate", s.mw.RequireAuth(s.handleRateCompany))
	s.router.HandleFunc("GET /api/v1/companies/{id}/ratings", s.handleListCompanyRatings)

	// Import
	s.router.HandleFunc("POST /api/v1/import", s.mw.RequireAdmin(s.handleTriggerImport))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
