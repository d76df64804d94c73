package wire

import (
	"movie-theater/internal/adaptor"
	"movie-theater/internal/data/repository"
	"movie-theater/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAdmin(
	r chi.Router,
	settingHandler *adaptor.SettingHandler,
	dashboardHandler *adaptor.DashboardHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== ADMIN ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.Account, log))
		r.Use(middleware.Admin(log))

		r.Get("/api/admin/dashboard", dashboardHandler.Dashboard)
		r.Get("/api/admin/settings", settingHandler.Overview)
		r.Put("/api/admin/settings", settingHandler.UpdateSettings)
	})
}
