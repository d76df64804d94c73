package response

import (
	"time"

	"movie-theater/internal/data/entity"
)

type MovieResponse struct {
	ID             string             `json:"id"`
	Title          string             `json:"title"`
	Description    string             `json:"description,omitempty"`
	GenreID        *string            `json:"genre_id"`
	Genre          *string            `json:"genre"`
	Duration       int                `json:"duration"`
	ReleaseDate    string             `json:"release_date"`
	Director       string             `json:"director,omitempty"`
	Cast           string             `json:"cast,omitempty"`
	PosterURL      string             `json:"poster_url,omitempty"`
	TrailerURL     string             `json:"trailer_url,omitempty"`
	Status         entity.MovieStatus `json:"status"`
	TicketPrice    float64            `json:"ticket_price"`
	AvailableSeats int                `json:"available_seats"`
	Rating         float64            `json:"rating"`
	IsBookable     bool               `json:"is_bookable"`
	CreatedAt      time.Time          `json:"created_at"`
}

type MovieDetailResponse struct {
	MovieResponse
	ReviewCount int64            `json:"review_count"`
	Reviews     []ReviewResponse `json:"reviews"`
	UserReview  *ReviewResponse  `json:"user_review,omitempty"`
}

type HomeResponse struct {
	NowShowing []MovieResponse `json:"now_showing"`
	ComingSoon []MovieResponse `json:"coming_soon"`
	Genres     []GenreResponse `json:"genres"`
}

// Helper converters
func MovieToResponse(movie *entity.Movie) MovieResponse {
	resp := MovieResponse{
		ID:             movie.ID.String(),
		Title:          movie.Title,
		Description:    movie.Description,
		Genre:          movie.GenreName,
		Duration:       movie.Duration,
		ReleaseDate:    movie.ReleaseDate.Format("2006-01-02"),
		Director:       movie.Director,
		Cast:           movie.Cast,
		PosterURL:      movie.PosterURL,
		TrailerURL:     movie.TrailerURL,
		Status:         movie.Status,
		TicketPrice:    movie.TicketPrice,
		AvailableSeats: movie.AvailableSeats,
		Rating:         movie.Rating,
		IsBookable:     movie.Status == entity.MovieStatusNowShowing && movie.AvailableSeats > 0,
		CreatedAt:      movie.CreatedAt,
	}

	if movie.GenreID != nil {
		id := movie.GenreID.String()
		resp.GenreID = &id
	}

	return resp
}

func MoviesToResponse(movies []*entity.Movie) []MovieResponse {
	out := make([]MovieResponse, 0, len(movies))
	for _, m := range movies {
		out = append(out, MovieToResponse(m))
	}
	return out
}
