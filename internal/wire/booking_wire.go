package wire

import (
	"movie-theater/internal/adaptor"
	"movie-theater/internal/data/repository"
	"movie-theater/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.Account, log))
		r.Use(middleware.Maintenance(log))

		// POST /api/movies/{id}/bookings - Book seats for a movie
		r.Post("/api/movies/{id}/bookings", bookingHandler.CreateBooking)

		// GET /api/bookings - Booking history (user's own bookings)
		r.Get("/api/bookings", bookingHandler.MyBookings)
		r.Get("/api/bookings/{id}", bookingHandler.GetBooking)
		r.Post("/api/bookings/{id}/cancel", bookingHandler.CancelBooking)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/bookings", func(r chi.Router) {
		// Require both authentication AND admin role
		r.Use(middleware.AuthSession(repo.Session, repo.Account, log))
		r.Use(middleware.Admin(log))

		r.Get("/", bookingHandler.ListBookings)
		r.Get("/{id}", bookingHandler.GetBooking)
		r.Put("/{id}/status", bookingHandler.UpdateBookingStatus)
	})
}
