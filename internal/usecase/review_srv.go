package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"movie-theater/internal/data/entity"
	"movie-theater/internal/data/repository"
	"movie-theater/internal/dto/request"
	"movie-theater/internal/dto/response"
	"movie-theater/pkg/metrics"
	"movie-theater/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Review events reported to metrics
const (
	reviewSubmitted = "submitted"
	reviewUpdated   = "updated"
	reviewApproved  = "approved"
	reviewRejected  = "rejected"
	reviewDeleted   = "deleted"
)

type ReviewService interface {
	// Public endpoints
	MovieReviews(ctx context.Context, movieID uuid.UUID, page request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error)

	// User endpoints (butuh auth)
	UpsertReview(ctx context.Context, actor Actor, movieID uuid.UUID, req *request.ReviewRequest, settings entity.SiteSetting) (*response.ReviewResponse, error)
	DeleteOwnReview(ctx context.Context, actor Actor, reviewID uuid.UUID) error
	MyReviews(ctx context.Context, actor Actor, page request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error)

	// Admin endpoints
	ListReviews(ctx context.Context, actor Actor, approved *bool, page request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error)
	ApproveReview(ctx context.Context, actor Actor, reviewID uuid.UUID) (*response.ReviewResponse, error)
	RejectReview(ctx context.Context, actor Actor, reviewID uuid.UUID) (*response.ReviewResponse, error)
	DeleteReview(ctx context.Context, actor Actor, reviewID uuid.UUID) error

	// RecomputeAllRatings rebuilds every movie rating and reports the ones that changed
	RecomputeAllRatings(ctx context.Context) ([]response.RatingUpdate, error)
}

type reviewService struct {
	repo    *repository.Repository
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewReviewService(repo *repository.Repository, m *metrics.Metrics, log *zap.Logger) ReviewService {
	return &reviewService{
		repo:    repo,
		metrics: m,
		log:     log.With(zap.String("service", "review")),
	}
}

func (s *reviewService) MovieReviews(ctx context.Context, movieID uuid.UUID, page request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	movie, err := s.repo.Movie.FindByID(ctx, movieID)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, notFound("movie", movieID)
	}

	approved := true
	return s.list(ctx, repository.ReviewFilter{MovieID: &movieID, Approved: &approved}, page)
}

// UpsertReview creates the caller's review of a movie or edits it in place
// when one exists. The movie rating is recomputed before commit.
func (s *reviewService) UpsertReview(ctx context.Context, actor Actor, movieID uuid.UUID, req *request.ReviewRequest, settings entity.SiteSetting) (*response.ReviewResponse, error) {
	if !settings.EnableReviews {
		return nil, ErrReviewsDisabled
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Review validation failed", zap.Any("errors", errs))
		return nil, validationError(errs)
	}

	approved := !settings.RequireReviewApproval
	comment := strings.TrimSpace(req.Comment)
	event := reviewSubmitted

	var review *entity.Review
	err := s.repo.Tx.WithinTx(ctx, func(ctx context.Context) error {
		// 1. Lock movie row, recomputations serialize on it
		movie, err := s.repo.Movie.FindByIDForUpdate(ctx, movieID)
		if err != nil {
			return err
		}
		if movie == nil {
			return notFound("movie", movieID)
		}

		// 2. Edit existing review or create new
		existing, err := s.repo.Review.FindByUserAndMovie(ctx, actor.ID, movieID)
		if err != nil {
			return err
		}

		now := time.Now()
		if existing != nil {
			existing.Rating = req.Rating
			existing.Comment = comment
			existing.IsApproved = approved
			existing.UpdatedAt = now
			if err := s.repo.Review.Update(ctx, existing); err != nil {
				return err
			}
			review = existing
			event = reviewUpdated
		} else {
			review = &entity.Review{
				Base:       entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
				UserID:     actor.ID,
				MovieID:    movieID,
				Rating:     req.Rating,
				Comment:    comment,
				IsApproved: approved,
			}
			if err := s.repo.Review.Create(ctx, review); err != nil {
				if errors.Is(err, repository.ErrDuplicate) {
					return fmt.Errorf("%w: review for this movie", ErrConflict)
				}
				return err
			}
		}
		review.MovieTitle = movie.Title

		// 3. Recompute rating
		_, _, err = s.recompute(ctx, movieID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ReviewEvent(event)
	s.log.Info("Review saved",
		zap.String("review_id", review.ID.String()),
		zap.String("user_id", actor.ID.String()),
		zap.String("movie_id", movieID.String()),
		zap.Int("rating", review.Rating),
		zap.Bool("approved", review.IsApproved))

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) DeleteOwnReview(ctx context.Context, actor Actor, reviewID uuid.UUID) error {
	return s.delete(ctx, reviewID, func(review *entity.Review) error {
		if review.UserID != actor.ID {
			return fmt.Errorf("%w: review %s belongs to another user", ErrForbidden, reviewID)
		}
		return nil
	})
}

func (s *reviewService) MyReviews(ctx context.Context, actor Actor, page request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	return s.list(ctx, repository.ReviewFilter{UserID: &actor.ID}, page)
}

func (s *reviewService) ListReviews(ctx context.Context, actor Actor, approved *bool, page request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	if err := RequireAdmin(actor); err != nil {
		return nil, err
	}
	return s.list(ctx, repository.ReviewFilter{Approved: approved}, page)
}

func (s *reviewService) ApproveReview(ctx context.Context, actor Actor, reviewID uuid.UUID) (*response.ReviewResponse, error) {
	if err := RequireAdmin(actor); err != nil {
		return nil, err
	}
	return s.setApproval(ctx, actor, reviewID, true)
}

func (s *reviewService) RejectReview(ctx context.Context, actor Actor, reviewID uuid.UUID) (*response.ReviewResponse, error) {
	if err := RequireAdmin(actor); err != nil {
		return nil, err
	}
	return s.setApproval(ctx, actor, reviewID, false)
}

func (s *reviewService) DeleteReview(ctx context.Context, actor Actor, reviewID uuid.UUID) error {
	if err := RequireAdmin(actor); err != nil {
		return err
	}
	return s.delete(ctx, reviewID, nil)
}

func (s *reviewService) RecomputeAllRatings(ctx context.Context) ([]response.RatingUpdate, error) {
	ids, err := s.repo.Movie.FindAllIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}

	updates := make([]response.RatingUpdate, 0)
	for _, id := range ids {
		var oldRating, newRating float64
		err := s.repo.Tx.WithinTx(ctx, func(ctx context.Context) error {
			var err error
			oldRating, newRating, err = s.recompute(ctx, id)
			return err
		})
		if err != nil {
			// movie removed since the id scan
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return updates, fmt.Errorf("recompute rating of %s: %w", id, err)
		}

		if oldRating != newRating {
			updates = append(updates, response.RatingUpdate{
				MovieID:   id.String(),
				OldRating: oldRating,
				NewRating: newRating,
			})
		}
	}

	s.log.Info("Ratings recomputed",
		zap.Int("movies", len(ids)),
		zap.Int("changed", len(updates)))

	return updates, nil
}

// ==================== HELPER METHODS ====================

func (s *reviewService) recompute(ctx context.Context, movieID uuid.UUID) (float64, float64, error) {
	return recomputeRating(ctx, s.repo, s.metrics, s.log, movieID)
}

// recomputeRating stores round(mean(approved), 1), or 0 without approved
// reviews, and returns the old and new rating. It must run inside a
// transaction. Every path that removes or moderates reviews ends here.
func recomputeRating(ctx context.Context, repo *repository.Repository, m *metrics.Metrics, log *zap.Logger, movieID uuid.UUID) (float64, float64, error) {
	movie, err := repo.Movie.FindByIDForUpdate(ctx, movieID)
	if err != nil {
		return 0, 0, err
	}
	if movie == nil {
		return 0, 0, notFound("movie", movieID)
	}

	avg, count, err := repo.Review.GetApprovedStats(ctx, movieID)
	if err != nil {
		return 0, 0, err
	}

	rating := ratingFromStats(avg, count)
	if rating != movie.Rating {
		if err := repo.Movie.UpdateRating(ctx, movieID, rating); err != nil {
			return 0, 0, err
		}
	}

	m.RatingRecomputed()
	log.Debug("Movie rating recomputed",
		zap.String("movie_id", movieID.String()),
		zap.Int64("approved_reviews", count),
		zap.Float64("rating", rating))

	return movie.Rating, rating, nil
}

func (s *reviewService) setApproval(ctx context.Context, actor Actor, reviewID uuid.UUID, approved bool) (*response.ReviewResponse, error) {
	var review *entity.Review
	err := s.repo.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		review, err = s.findReview(ctx, reviewID)
		if err != nil {
			return err
		}

		// movie dulu, urutan lock sama dengan UpsertReview
		if _, err := s.repo.Movie.FindByIDForUpdate(ctx, review.MovieID); err != nil {
			return err
		}
		// baca ulang, bisa sudah dihapus sebelum lock didapat
		if review, err = s.findReview(ctx, reviewID); err != nil {
			return err
		}

		review.IsApproved = approved
		review.UpdatedAt = time.Now()
		if err := s.repo.Review.Update(ctx, review); err != nil {
			return err
		}

		_, _, err = s.recompute(ctx, review.MovieID)
		return err
	})
	if err != nil {
		return nil, err
	}

	event := reviewApproved
	if !approved {
		event = reviewRejected
	}
	s.metrics.ReviewEvent(event)
	s.log.Info("Review moderated",
		zap.String("review_id", reviewID.String()),
		zap.String("event", event),
		zap.String("admin_id", actor.ID.String()))

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

// delete removes a review and recomputes the rating of the movie it
// belonged to. check runs on the loaded review before anything changes.
func (s *reviewService) delete(ctx context.Context, reviewID uuid.UUID, check func(*entity.Review) error) error {
	err := s.repo.Tx.WithinTx(ctx, func(ctx context.Context) error {
		review, err := s.findReview(ctx, reviewID)
		if err != nil {
			return err
		}

		movieID := review.MovieID
		if _, err := s.repo.Movie.FindByIDForUpdate(ctx, movieID); err != nil {
			return err
		}
		if review, err = s.findReview(ctx, reviewID); err != nil {
			return err
		}
		if check != nil {
			if err := check(review); err != nil {
				return err
			}
		}

		if err := s.repo.Review.Delete(ctx, review.ID); err != nil {
			return err
		}

		_, _, err = s.recompute(ctx, movieID)
		return err
	})
	if err != nil {
		return err
	}

	s.metrics.ReviewEvent(reviewDeleted)
	s.log.Info("Review deleted", zap.String("review_id", reviewID.String()))
	return nil
}

func (s *reviewService) findReview(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	review, err := s.repo.Review.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, notFound("review", id)
	}
	return review, nil
}

func (s *reviewService) list(ctx context.Context, filter repository.ReviewFilter, page request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	reviews, err := s.repo.Review.FindAll(ctx, filter, page.Limit(), page.Offset())
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	total, err := s.repo.Review.CountAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count reviews: %w", err)
	}

	return response.NewPaginatedResponse(response.ReviewsToResponse(reviews), page.Page, page.Limit(), total), nil
}
