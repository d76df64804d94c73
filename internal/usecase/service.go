package usecase

import (
	"time"

	"movie-theater/internal/data/repository"
	"movie-theater/pkg/cache"
	"movie-theater/pkg/metrics"
	"movie-theater/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth      AuthService
	Account   AccountService
	Movie     MovieService
	Genre     GenreService
	Booking   BookingService
	Review    ReviewService
	Setting   SettingService
	Dashboard DashboardService
}

func NewService(repo *repository.Repository, config *utils.Config, c cache.Cache, m *metrics.Metrics, log *zap.Logger) *Service {
	settingsTTL := time.Duration(config.Redis.SettingsTTLSecs) * time.Second

	return &Service{
		Auth:      NewAuthService(repo, config, log),
		Account:   NewAccountService(repo, m, log),
		Movie:     NewMovieService(repo, log),
		Genre:     NewGenreService(repo, log),
		Booking:   NewBookingService(repo, m, log),
		Review:    NewReviewService(repo, m, log),
		Setting:   NewSettingService(repo, c, settingsTTL, log),
		Dashboard: NewDashboardService(repo, log),
	}
}
