package entity

import (
	"github.com/google/uuid"
)

type Review struct {
	Base
	UserID     uuid.UUID `db:"user_id"`
	MovieID    uuid.UUID `db:"movie_id"`
	Rating     int       `db:"rating"` // 1-5
	Comment    string    `db:"comment"`
	IsApproved bool      `db:"is_approved"`

	// joined, read-only
	Username   string `db:"username"`
	MovieTitle string `db:"movie_title"`
}
