package adaptor

import (
	"movie-theater/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Auth      *AuthHandler
	Account   *AccountHandler
	Movie     *MovieHandler
	Genre     *GenreHandler
	Booking   *BookingHandler
	Review    *ReviewHandler
	Setting   *SettingHandler
	Dashboard *DashboardHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:      NewAuthHandler(service.Auth, log),
		Account:   NewAccountHandler(service.Account, log),
		Movie:     NewMovieHandler(service.Movie, log),
		Genre:     NewGenreHandler(service.Genre, log),
		Booking:   NewBookingHandler(service.Booking, log),
		Review:    NewReviewHandler(service.Review, log),
		Setting:   NewSettingHandler(service.Setting, log),
		Dashboard: NewDashboardHandler(service.Dashboard, log),
	}
}
