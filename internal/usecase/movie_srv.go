package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"movie-theater/internal/data/entity"
	"movie-theater/internal/data/repository"
	"movie-theater/internal/dto/request"
	"movie-theater/internal/dto/response"
	"movie-theater/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	homeNowShowingLimit = 6
	homeComingSoonLimit = 3
	detailReviewLimit   = 50
)

type MovieService interface {
	// Public
	Home(ctx context.Context) (*response.HomeResponse, error)
	ListMovies(ctx context.Context, req *request.MovieListRequest) (*response.PaginatedResponse[response.MovieResponse], error)
	GetMovie(ctx context.Context, viewer *Actor, id uuid.UUID) (*response.MovieDetailResponse, error)

	// Admin
	AdminListMovies(ctx context.Context, actor Actor, req *request.MovieListRequest) (*response.PaginatedResponse[response.MovieResponse], error)
	CreateMovie(ctx context.Context, actor Actor, req *request.MovieRequest) (*response.MovieResponse, error)
	UpdateMovie(ctx context.Context, actor Actor, id uuid.UUID, req *request.MovieRequest) (*response.MovieResponse, error)
	DeleteMovie(ctx context.Context, actor Actor, id uuid.UUID) error
}

type movieService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewMovieService(
	repo *repository.Repository,
	log *zap.Logger,
) MovieService {
	return &movieService{
		repo: repo,
		log:  log.With(zap.String("service", "movie")),
	}
}

func (s *movieService) Home(ctx context.Context) (*response.HomeResponse, error) {
	nowShowing := entity.MovieStatusNowShowing
	latest, err := s.repo.Movie.FindAll(ctx, repository.MovieFilter{
		Status:  &nowShowing,
		OrderBy: repository.OrderCreatedDesc,
	}, homeNowShowingLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("home now showing: %w", err)
	}

	comingSoon := entity.MovieStatusComingSoon
	upcoming, err := s.repo.Movie.FindAll(ctx, repository.MovieFilter{
		Status:  &comingSoon,
		OrderBy: repository.OrderReleaseAsc,
	}, homeComingSoonLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("home coming soon: %w", err)
	}

	genres, err := s.repo.Genre.FindAll(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("home genres: %w", err)
	}

	return &response.HomeResponse{
		NowShowing: response.MoviesToResponse(latest),
		ComingSoon: response.MoviesToResponse(upcoming),
		Genres:     response.GenresToResponse(genres),
	}, nil
}

// ListMovies is the public catalog. Without an explicit status only
// now-showing movies are listed.
func (s *movieService) ListMovies(ctx context.Context, req *request.MovieListRequest) (*response.PaginatedResponse[response.MovieResponse], error) {
	filter, err := s.buildFilter(req, repository.SearchCatalog)
	if err != nil {
		return nil, err
	}

	if req.Status == "" {
		status := entity.MovieStatusNowShowing
		filter.Status = &status
	}

	return s.list(ctx, filter, req.PaginatedRequest)
}

func (s *movieService) AdminListMovies(ctx context.Context, actor Actor, req *request.MovieListRequest) (*response.PaginatedResponse[response.MovieResponse], error) {
	if err := RequireAdmin(actor); err != nil {
		return nil, err
	}

	filter, err := s.buildFilter(req, repository.SearchAdmin)
	if err != nil {
		return nil, err
	}
	filter.OrderBy = repository.OrderCreatedDesc

	return s.list(ctx, filter, req.PaginatedRequest)
}

// GetMovie returns the movie with its approved reviews. Admins also see
// reviews waiting for approval. viewer is nil for anonymous requests.
func (s *movieService) GetMovie(ctx context.Context, viewer *Actor, id uuid.UUID) (*response.MovieDetailResponse, error) {
	movie, err := s.repo.Movie.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, notFound("movie", id)
	}

	filter := repository.ReviewFilter{MovieID: &movie.ID}
	if viewer == nil || !viewer.IsAdmin() {
		approved := true
		filter.Approved = &approved
	}

	reviews, err := s.repo.Review.FindAll(ctx, filter, detailReviewLimit, 0)
	if err != nil {
		return nil, err
	}

	count, err := s.repo.Review.CountAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	detail := &response.MovieDetailResponse{
		MovieResponse: response.MovieToResponse(movie),
		ReviewCount:   count,
		Reviews:       response.ReviewsToResponse(reviews),
	}

	if viewer != nil {
		own, err := s.repo.Review.FindByUserAndMovie(ctx, viewer.ID, movie.ID)
		if err != nil {
			return nil, err
		}
		if own != nil {
			r := response.ReviewToResponse(own)
			detail.UserReview = &r
		}
	}

	return detail, nil
}

func (s *movieService) CreateMovie(ctx context.Context, actor Actor, req *request.MovieRequest) (*response.MovieResponse, error) {
	if err := RequireAdmin(actor); err != nil {
		return nil, err
	}

	now := time.Now()
	movie := &entity.Movie{
		Base: entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
	}
	if err := s.applyRequest(ctx, movie, req); err != nil {
		return nil, err
	}

	if err := s.repo.Movie.Create(ctx, movie); err != nil {
		return nil, err
	}

	s.log.Info("Movie created",
		zap.String("movie_id", movie.ID.String()),
		zap.String("title", movie.Title),
		zap.String("admin_id", actor.ID.String()))

	resp := response.MovieToResponse(movie)
	return &resp, nil
}

func (s *movieService) UpdateMovie(ctx context.Context, actor Actor, id uuid.UUID, req *request.MovieRequest) (*response.MovieResponse, error) {
	if err := RequireAdmin(actor); err != nil {
		return nil, err
	}

	var movie *entity.Movie
	err := s.repo.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		movie, err = s.repo.Movie.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if movie == nil {
			return notFound("movie", id)
		}

		if err := s.applyRequest(ctx, movie, req); err != nil {
			return err
		}
		movie.UpdatedAt = time.Now()

		return s.repo.Movie.Update(ctx, movie)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Movie updated", zap.String("movie_id", movie.ID.String()), zap.String("admin_id", actor.ID.String()))

	resp := response.MovieToResponse(movie)
	return &resp, nil
}

// DeleteMovie also removes the movie's bookings and reviews
func (s *movieService) DeleteMovie(ctx context.Context, actor Actor, id uuid.UUID) error {
	if err := RequireAdmin(actor); err != nil {
		return err
	}

	movie, err := s.repo.Movie.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if movie == nil {
		return notFound("movie", id)
	}

	if err := s.repo.Movie.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("Movie deleted",
		zap.String("movie_id", id.String()),
		zap.String("title", movie.Title),
		zap.String("admin_id", actor.ID.String()))
	return nil
}

// ==================== HELPER METHODS ====================

func (s *movieService) list(ctx context.Context, filter repository.MovieFilter, page request.PaginatedRequest) (*response.PaginatedResponse[response.MovieResponse], error) {
	movies, err := s.repo.Movie.FindAll(ctx, filter, page.Limit(), page.Offset())
	if err != nil {
		s.log.Error("Failed to get movies", zap.Error(err), zap.Int("page", page.Page))
		return nil, fmt.Errorf("get movies: %w", err)
	}

	total, err := s.repo.Movie.CountAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count movies: %w", err)
	}

	return response.NewPaginatedResponse(response.MoviesToResponse(movies), page.Page, page.Limit(), total), nil
}

func (s *movieService) buildFilter(req *request.MovieListRequest, scope repository.SearchScope) (repository.MovieFilter, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return repository.MovieFilter{}, validationError(errs)
	}

	filter := repository.MovieFilter{
		Search: strings.TrimSpace(req.Search),
		Scope:  scope,
	}

	if req.GenreID != "" {
		genreID, err := uuid.Parse(req.GenreID)
		if err != nil {
			return filter, fmt.Errorf("%w: genre_id: Must be a valid UUID", ErrValidation)
		}
		filter.GenreID = &genreID
	}

	if req.Status != "" && req.Status != "all" {
		status := entity.MovieStatus(req.Status)
		filter.Status = &status
	}

	return filter, nil
}

// applyRequest validates req and copies it onto movie. Rating is left alone.
func (s *movieService) applyRequest(ctx context.Context, movie *entity.Movie, req *request.MovieRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return validationError(errs)
	}

	releaseDate, err := time.Parse("2006-01-02", req.ReleaseDate)
	if err != nil {
		return fmt.Errorf("%w: release_date: %v", ErrValidation, err)
	}

	var genreID *uuid.UUID
	var genreName *string
	if req.GenreID != nil && *req.GenreID != "" {
		id, err := uuid.Parse(*req.GenreID)
		if err != nil {
			return fmt.Errorf("%w: genre_id: Must be a valid UUID", ErrValidation)
		}
		genre, err := s.repo.Genre.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if genre == nil {
			return notFound("genre", id)
		}
		genreID = &genre.ID
		genreName = &genre.Name
	}

	movie.Title = strings.TrimSpace(req.Title)
	movie.Description = req.Description
	movie.GenreID = genreID
	movie.GenreName = genreName
	movie.Duration = req.Duration
	movie.ReleaseDate = releaseDate
	movie.Director = req.Director
	movie.Cast = req.Cast
	movie.PosterURL = req.PosterURL
	movie.TrailerURL = req.TrailerURL
	movie.Status = entity.MovieStatus(req.Status)
	movie.TicketPrice = roundMoney(req.TicketPrice)
	movie.AvailableSeats = req.AvailableSeats

	return nil
}
