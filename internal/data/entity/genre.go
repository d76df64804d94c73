package entity

import "github.com/google/uuid"

type Genre struct {
	Base
	Name        string `db:"name"`
	Description string `db:"description"`
}

// GenreCount is one row of the movies-per-genre breakdown
type GenreCount struct {
	GenreID uuid.UUID `db:"genre_id"`
	Name    string    `db:"name"`
	Movies  int64     `db:"movies"`
}
