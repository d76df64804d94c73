package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled:
		return true
	}
	return false
}

type Booking struct {
	Base
	UserID        uuid.UUID     `db:"user_id"`
	MovieID       uuid.UUID     `db:"movie_id"`
	ShowDate      time.Time     `db:"show_date"`
	ShowTime      string        `db:"show_time"` // HH:MM
	Seats         int           `db:"seats"`
	TotalPrice    float64       `db:"total_price"`
	Status        BookingStatus `db:"status"`
	PaymentMethod string        `db:"payment_method"`

	// joined, read-only
	Username   string `db:"username"`
	MovieTitle string `db:"movie_title"`
}
