package wire

import (
	"movie-theater/internal/adaptor"
	"movie-theater/internal/data/repository"
	"movie-theater/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAccount(
	r chi.Router,
	accountHandler *adaptor.AccountHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES ====================
	r.Route("/api/profile", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.Account, log))
		r.Use(middleware.Maintenance(log))

		r.Get("/", accountHandler.GetProfile)
		r.Put("/", accountHandler.UpdateProfile)
		r.Put("/password", accountHandler.ChangePassword)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/users", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.Account, log))
		r.Use(middleware.Admin(log))

		r.Get("/", accountHandler.ListAccounts)
		r.Post("/", accountHandler.CreateAccount)
		r.Put("/{id}", accountHandler.UpdateAccount)
		r.Delete("/{id}", accountHandler.DeleteAccount)
	})
}
