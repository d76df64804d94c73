package response

type DashboardResponse struct {
	Totals             DashboardTotals   `json:"totals"`
	Growth             DashboardGrowth   `json:"growth"`
	Activity           []ActivityBucket  `json:"activity"`
	MoviesPerGenre     []GenreMovieCount `json:"movies_per_genre"`
	RatingDistribution []RatingBucket    `json:"rating_distribution"`
	RecentMovies       []MovieResponse   `json:"recent_movies"`
	RecentReviews      []ReviewResponse  `json:"recent_reviews"`
	RecentBookings     []BookingResponse `json:"recent_bookings"`
}

type DashboardTotals struct {
	Movies          int64 `json:"movies"`
	Users           int64 `json:"users"`
	Bookings        int64 `json:"bookings"`
	Reviews         int64 `json:"reviews"`
	PendingBookings int64 `json:"pending_bookings"`
}

// DashboardGrowth holds percent change of the last 30 days against the 30 before
type DashboardGrowth struct {
	Movies  float64 `json:"movies"`
	Users   float64 `json:"users"`
	Reviews float64 `json:"reviews"`
}

type ActivityBucket struct {
	Label    string `json:"label"`
	Bookings int64  `json:"bookings"`
	Reviews  int64  `json:"reviews"`
}

type GenreMovieCount struct {
	Genre  string `json:"genre"`
	Movies int64  `json:"movies"`
}

type RatingBucket struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}
