package response

import (
	"time"

	"movie-theater/internal/data/entity"
)

type BookingResponse struct {
	ID            string               `json:"id"`
	UserID        string               `json:"user_id"`
	Username      string               `json:"username,omitempty"`
	MovieID       string               `json:"movie_id"`
	MovieTitle    string               `json:"movie_title,omitempty"`
	ShowDate      string               `json:"show_date"`
	ShowTime      string               `json:"show_time"`
	Seats         int                  `json:"seats"`
	TotalPrice    float64              `json:"total_price"`
	Status        entity.BookingStatus `json:"status"`
	PaymentMethod string               `json:"payment_method"`
	CreatedAt     time.Time            `json:"created_at"`
}

// Helper converters
func BookingToResponse(booking *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:            booking.ID.String(),
		UserID:        booking.UserID.String(),
		Username:      booking.Username,
		MovieID:       booking.MovieID.String(),
		MovieTitle:    booking.MovieTitle,
		ShowDate:      booking.ShowDate.Format("2006-01-02"),
		ShowTime:      booking.ShowTime,
		Seats:         booking.Seats,
		TotalPrice:    booking.TotalPrice,
		Status:        booking.Status,
		PaymentMethod: booking.PaymentMethod,
		CreatedAt:     booking.CreatedAt,
	}
}

func BookingsToResponse(bookings []*entity.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, BookingToResponse(b))
	}
	return out
}
