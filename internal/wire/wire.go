// internal/wire/wire.go
package wire

import (
	"net/http"

	"movie-theater/internal/adaptor"
	"movie-theater/internal/data/repository"
	"movie-theater/internal/usecase"
	"movie-theater/pkg/cache"
	"movie-theater/pkg/metrics"
	"movie-theater/pkg/middleware"
	"movie-theater/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App menyimpan semua dependencies
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring menginisialisasi semua dependencies
func Wiring(repo *repository.Repository, config *utils.Config, c cache.Cache, m *metrics.Metrics, logger *zap.Logger) *App {
	service := usecase.NewService(repo, config, c, m, logger)
	handler := adaptor.NewHandler(service, logger)

	return &App{
		Router:  setupRouter(handler, service, repo, m, logger),
		Service: service,
	}
}

// setupRouter konfigurasi Chi router
func setupRouter(
	handler *adaptor.Handler,
	service *usecase.Service,
	repo *repository.Repository,
	m *metrics.Metrics,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(m.Middleware)

	// Health check & metrics, tidak tergantung site settings
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseSuccess(w, "OK", nil)
	})
	r.Handle("/metrics", m.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.SiteSettings(service.Setting, logger))

		wireAuth(r, handler.Auth, repo, logger)
		wireAccount(r, handler.Account, repo, logger)
		wireMovie(r, handler.Movie, handler.Genre, repo, logger)
		wireBooking(r, handler.Booking, repo, logger)
		wireReview(r, handler.Review, repo, logger)
		wireAdmin(r, handler.Setting, handler.Dashboard, repo, logger)
	})

	return r
}
