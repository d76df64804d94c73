package wire

import (
	"movie-theater/internal/adaptor"
	"movie-theater/internal/data/repository"
	"movie-theater/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireMovie(
	r chi.Router,
	movieHandler *adaptor.MovieHandler,
	genreHandler *adaptor.GenreHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// Session opsional: detail movie menampilkan review milik user
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalAuth(repo.Session, repo.Account, log))
		r.Use(middleware.Maintenance(log))

		r.Get("/api/home", movieHandler.Home)
		r.Get("/api/movies", movieHandler.ListMovies)
		r.Get("/api/movies/{id}", movieHandler.GetMovie)
		r.Get("/api/genres", genreHandler.ListGenres)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/movies", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.Account, log))
		r.Use(middleware.Admin(log))

		r.Get("/", movieHandler.AdminListMovies)
		r.Post("/", movieHandler.CreateMovie)
		r.Put("/{id}", movieHandler.UpdateMovie)
		r.Delete("/{id}", movieHandler.DeleteMovie)
	})

	r.Route("/api/admin/genres", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.Account, log))
		r.Use(middleware.Admin(log))

		r.Get("/", genreHandler.ListGenres)
		r.Post("/", genreHandler.CreateGenre)
		r.Put("/{id}", genreHandler.UpdateGenre)
		r.Delete("/{id}", genreHandler.DeleteGenre)
	})
}
