package request

type MovieRequest struct {
	Title          string  `json:"title" validate:"required,min=1,max=200"`
	Description    string  `json:"description"`
	GenreID        *string `json:"genre_id,omitempty" validate:"omitempty,uuid"`
	Duration       int     `json:"duration" validate:"required,min=1,max=999"`
	ReleaseDate    string  `json:"release_date" validate:"required,datetime=2006-01-02"`
	Director       string  `json:"director" validate:"max=100"`
	Cast           string  `json:"cast"`
	PosterURL      string  `json:"poster_url" validate:"omitempty,url"`
	TrailerURL     string  `json:"trailer_url" validate:"omitempty,url"`
	Status         string  `json:"status" validate:"required,oneof=now_showing coming_soon archived"`
	TicketPrice    float64 `json:"ticket_price" validate:"gte=0"`
	AvailableSeats int     `json:"available_seats" validate:"gte=0"`
}

// MovieListRequest is read from the query string
type MovieListRequest struct {
	PaginatedRequest
	Search  string `json:"search" validate:"max=100"`
	GenreID string `json:"genre_id" validate:"omitempty,uuid"`
	Status  string `json:"status" validate:"omitempty,oneof=now_showing coming_soon archived all"`
}
