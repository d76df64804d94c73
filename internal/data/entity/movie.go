package entity

import (
	"time"

	"github.com/google/uuid"
)

type MovieStatus string

const (
	MovieStatusNowShowing MovieStatus = "now_showing"
	MovieStatusComingSoon MovieStatus = "coming_soon"
	MovieStatusArchived   MovieStatus = "archived"
)

func (s MovieStatus) Valid() bool {
	switch s {
	case MovieStatusNowShowing, MovieStatusComingSoon, MovieStatusArchived:
		return true
	}
	return false
}

type Movie struct {
	Base
	Title          string      `db:"title"`
	Description    string      `db:"description"`
	GenreID        *uuid.UUID  `db:"genre_id"`
	Duration       int         `db:"duration"` // minutes
	ReleaseDate    time.Time   `db:"release_date"`
	Director       string      `db:"director"`
	Cast           string      `db:"cast"`
	PosterURL      string      `db:"poster_url"`
	TrailerURL     string      `db:"trailer_url"`
	Status         MovieStatus `db:"status"`
	TicketPrice    float64     `db:"ticket_price"`
	AvailableSeats int         `db:"available_seats"`
	Rating         float64     `db:"rating"` // derived from approved reviews

	// joined, read-only
	GenreName *string `db:"genre_name"`
}
