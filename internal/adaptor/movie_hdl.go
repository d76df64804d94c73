package adaptor

import (
	"net/http"
	"strings"

	"movie-theater/internal/dto/request"
	"movie-theater/internal/usecase"
	"movie-theater/pkg/middleware"
	"movie-theater/pkg/utils"

	"go.uber.org/zap"
)

type MovieHandler struct {
	service usecase.MovieService
	log     *zap.Logger
}

func NewMovieHandler(service usecase.MovieService, log *zap.Logger) *MovieHandler {
	return &MovieHandler{
		service: service,
		log:     log.With(zap.String("handler", "movie")),
	}
}

// Home handles GET /api/home
func (h *MovieHandler) Home(w http.ResponseWriter, r *http.Request) {
	home, err := h.service.Home(r.Context())
	if err != nil {
		respondError(w, h.log, err, "home")
		return
	}

	utils.ResponseSuccess(w, "success", home)
}

// ListMovies handles GET /api/movies?search=&genre_id=&status=&page=
func (h *MovieHandler) ListMovies(w http.ResponseWriter, r *http.Request) {
	// page size dari site settings
	perPage := middleware.SettingsFromContext(r.Context()).MoviesPerPage
	req := movieListFromQuery(r, perPage)

	movies, err := h.service.ListMovies(r.Context(), req)
	if err != nil {
		respondError(w, h.log, err, "list movies")
		return
	}

	utils.ResponseSuccess(w, "success", movies)
}

// GetMovie handles GET /api/movies/{id}. Signed-in viewers also get their
// own review and booking count.
func (h *MovieHandler) GetMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var viewer *usecase.Actor
	if actor, ok := actorFrom(r); ok {
		viewer = &actor
	}

	movie, err := h.service.GetMovie(r.Context(), viewer, id)
	if err != nil {
		respondError(w, h.log, err, "get movie")
		return
	}

	utils.ResponseSuccess(w, "success", movie)
}

// ==================== ADMIN METHODS ====================

// AdminListMovies handles GET /api/admin/movies
func (h *MovieHandler) AdminListMovies(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	movies, err := h.service.AdminListMovies(r.Context(), actor, movieListFromQuery(r, defaultPerPage))
	if err != nil {
		respondError(w, h.log, err, "admin list movies")
		return
	}

	utils.ResponseSuccess(w, "success", movies)
}

// CreateMovie handles POST /api/admin/movies
func (h *MovieHandler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req request.MovieRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	movie, err := h.service.CreateMovie(r.Context(), actor, &req)
	if err != nil {
		respondError(w, h.log, err, "create movie")
		return
	}

	utils.ResponseCreated(w, "Movie created", movie)
}

// UpdateMovie handles PUT /api/admin/movies/{id}
func (h *MovieHandler) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var req request.MovieRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	movie, err := h.service.UpdateMovie(r.Context(), actor, id, &req)
	if err != nil {
		respondError(w, h.log, err, "update movie")
		return
	}

	utils.ResponseSuccess(w, "Movie updated", movie)
}

// DeleteMovie handles DELETE /api/admin/movies/{id}
func (h *MovieHandler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteMovie(r.Context(), actor, id); err != nil {
		respondError(w, h.log, err, "delete movie")
		return
	}

	utils.ResponseSuccess(w, "Movie deleted", nil)
}

// ==================== HELPER METHODS ====================

func movieListFromQuery(r *http.Request, perPage int) *request.MovieListRequest {
	query := r.URL.Query()
	return &request.MovieListRequest{
		PaginatedRequest: pageFromQuery(r, perPage),
		Search:           strings.TrimSpace(query.Get("search")),
		GenreID:          query.Get("genre_id"),
		Status:           query.Get("status"),
	}
}
