package wire

import (
	"movie-theater/internal/adaptor"
	"movie-theater/internal/data/repository"
	"movie-theater/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// Auth tetap jalan saat maintenance supaya admin bisa login
	r.Post("/api/auth/register", authHandler.Register)
	r.Post("/api/auth/login", authHandler.Login)

	// ==================== PROTECTED ROUTES ====================
	r.With(middleware.AuthSession(repo.Session, repo.Account, log)).Post("/api/auth/logout", authHandler.Logout)
}
