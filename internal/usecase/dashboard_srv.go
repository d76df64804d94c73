package usecase

import (
	"context"
	"fmt"
	"time"

	"movie-theater/internal/data/repository"
	"movie-theater/internal/dto/response"

	"go.uber.org/zap"
)

const (
	growthWindow    = 30 * 24 * time.Hour
	activityBuckets = 6
	recentLimit     = 5
)

type DashboardService interface {
	Dashboard(ctx context.Context, actor Actor, now time.Time) (*response.DashboardResponse, error)
}

type dashboardService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewDashboardService(repo *repository.Repository, log *zap.Logger) DashboardService {
	return &dashboardService{
		repo: repo,
		log:  log.With(zap.String("service", "dashboard")),
	}
}

// Dashboard builds the admin overview. All windows are 30 days long and
// anchored at now.
func (s *dashboardService) Dashboard(ctx context.Context, actor Actor, now time.Time) (*response.DashboardResponse, error) {
	if err := RequireAdmin(actor); err != nil {
		return nil, err
	}

	totals, err := s.repo.Stats.Totals(ctx)
	if err != nil {
		return nil, err
	}

	dash := &response.DashboardResponse{
		Totals: response.DashboardTotals{
			Movies:          totals.Movies,
			Users:           totals.Users,
			Bookings:        totals.Bookings,
			Reviews:         totals.Reviews,
			PendingBookings: totals.PendingBookings,
		},
	}

	// 1. Growth
	if dash.Growth.Movies, err = s.growth(ctx, repository.StatMovies, now); err != nil {
		return nil, err
	}
	if dash.Growth.Users, err = s.growth(ctx, repository.StatUsers, now); err != nil {
		return nil, err
	}
	if dash.Growth.Reviews, err = s.growth(ctx, repository.StatReviews, now); err != nil {
		return nil, err
	}

	// 2. Activity
	for _, w := range activityWindows(now) {
		bookings, err := s.repo.Stats.CountCreatedBetween(ctx, repository.StatBookings, w.from, w.to)
		if err != nil {
			return nil, err
		}
		reviews, err := s.repo.Stats.CountCreatedBetween(ctx, repository.StatReviews, w.from, w.to)
		if err != nil {
			return nil, err
		}
		dash.Activity = append(dash.Activity, response.ActivityBucket{
			Label:    w.from.Format("Jan"),
			Bookings: bookings,
			Reviews:  reviews,
		})
	}

	// 3. Breakdown
	genres, err := s.repo.Stats.MoviesPerGenre(ctx)
	if err != nil {
		return nil, err
	}
	dash.MoviesPerGenre = make([]response.GenreMovieCount, 0, len(genres))
	for _, g := range genres {
		if g.Movies == 0 {
			continue
		}
		dash.MoviesPerGenre = append(dash.MoviesPerGenre, response.GenreMovieCount{Genre: g.Name, Movies: g.Movies})
	}

	dist, err := s.repo.Stats.RatingDistribution(ctx)
	if err != nil {
		return nil, err
	}
	dash.RatingDistribution = ratingBuckets(dist)

	// 4. Recent activity
	movies, err := s.repo.Movie.FindAll(ctx, repository.MovieFilter{OrderBy: repository.OrderCreatedDesc}, recentLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("recent movies: %w", err)
	}
	reviews, err := s.repo.Review.FindAll(ctx, repository.ReviewFilter{}, recentLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("recent reviews: %w", err)
	}
	bookings, err := s.repo.Booking.FindAll(ctx, repository.BookingFilter{}, recentLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("recent bookings: %w", err)
	}

	dash.RecentMovies = response.MoviesToResponse(movies)
	dash.RecentReviews = response.ReviewsToResponse(reviews)
	dash.RecentBookings = response.BookingsToResponse(bookings)

	return dash, nil
}

// ==================== HELPER METHODS ====================

func (s *dashboardService) growth(ctx context.Context, subject repository.StatSubject, now time.Time) (float64, error) {
	current, err := s.repo.Stats.CountCreatedBetween(ctx, subject, now.Add(-growthWindow), now)
	if err != nil {
		return 0, err
	}
	previous, err := s.repo.Stats.CountCreatedBetween(ctx, subject, now.Add(-2*growthWindow), now.Add(-growthWindow))
	if err != nil {
		return 0, err
	}
	return growthPercent(current, previous), nil
}

type window struct {
	from, to time.Time
}

// activityWindows returns activityBuckets windows anchored at now-i*30d for
// i = activityBuckets-1..0, oldest first. The last one is the empty [now, now)
// bucket labelled with the current month.
func activityWindows(now time.Time) []window {
	out := make([]window, 0, activityBuckets)
	for i := activityBuckets - 1; i >= 0; i-- {
		from := now.Add(-time.Duration(i) * growthWindow)
		to := now
		if i > 0 {
			to = from.Add(growthWindow)
		}
		out = append(out, window{from: from, to: to})
	}
	return out
}

func ratingBuckets(dist map[int]int64) []response.RatingBucket {
	out := make([]response.RatingBucket, 0, 5)
	for stars := 1; stars <= 5; stars++ {
		label := fmt.Sprintf("%d Stars", stars)
		if stars == 1 {
			label = "1 Star"
		}
		out = append(out, response.RatingBucket{Label: label, Count: dist[stars]})
	}
	return out
}
