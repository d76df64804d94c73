package wire

import (
	"movie-theater/internal/adaptor"
	"movie-theater/internal/data/repository"
	"movie-theater/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireReview(
	r chi.Router,
	reviewHandler *adaptor.ReviewHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.With(
		middleware.OptionalAuth(repo.Session, repo.Account, log),
		middleware.Maintenance(log),
	).Get("/api/movies/{id}/reviews", reviewHandler.MovieReviews)

	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.Account, log))
		r.Use(middleware.Maintenance(log))

		r.Post("/api/movies/{id}/reviews", reviewHandler.UpsertReview)
		r.Get("/api/reviews", reviewHandler.MyReviews)
		r.Delete("/api/reviews/{id}", reviewHandler.DeleteOwnReview)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/reviews", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.Account, log))
		r.Use(middleware.Admin(log))

		r.Get("/", reviewHandler.ListReviews)
		r.Post("/{id}/approve", reviewHandler.ApproveReview)
		r.Post("/{id}/reject", reviewHandler.RejectReview)
		r.Delete("/{id}", reviewHandler.DeleteReview)
	})
}
