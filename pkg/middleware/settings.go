package middleware

import (
	"context"
	"net/http"

	"movie-theater/internal/data/entity"
	"movie-theater/pkg/utils"

	"go.uber.org/zap"
)

// SettingsProvider loads the site settings row
type SettingsProvider interface {
	GetSettings(ctx context.Context) (*entity.SiteSetting, error)
}

// SiteSettings loads the settings once per request and stores them in the
// request context.
func SiteSettings(provider SettingsProvider, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			settings, err := provider.GetSettings(r.Context())
			if err != nil {
				logger.Error("Failed to load site settings", zap.Error(err), zap.String("path", r.URL.Path))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			ctx := utils.SetSettingsContext(r.Context(), *settings)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SettingsFromContext returns the request's settings, or the defaults when
// SiteSettings did not run.
func SettingsFromContext(ctx context.Context) entity.SiteSetting {
	if s, ok := utils.GetSettingsFromContext(ctx).(entity.SiteSetting); ok {
		return s
	}
	return entity.DefaultSiteSetting()
}

// Maintenance answers 503 while maintenance mode is on. Admins pass.
func Maintenance(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !SettingsFromContext(r.Context()).MaintenanceMode {
				next.ServeHTTP(w, r)
				return
			}

			if role, _ := utils.GetRoleFromContext(r.Context()); entity.Role(role) == entity.RoleAdmin {
				next.ServeHTTP(w, r)
				return
			}

			logger.Debug("Request blocked by maintenance mode", zap.String("path", r.URL.Path))
			w.Header().Set("Retry-After", "300")
			utils.ResponseServiceUnavailable(w, "Site is under maintenance. Please try again later.")
		})
	}
}
