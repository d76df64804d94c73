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
	"movie-theater/pkg/metrics"
	"movie-theater/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	// User endpoints (butuh auth)
	CreateBooking(ctx context.Context, actor Actor, movieID uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	CancelOwnBooking(ctx context.Context, actor Actor, bookingID uuid.UUID) (*response.BookingResponse, error)
	MyBookings(ctx context.Context, actor Actor, page request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	GetBooking(ctx context.Context, actor Actor, bookingID uuid.UUID) (*response.BookingResponse, error)

	// Admin endpoints
	ListBookings(ctx context.Context, actor Actor, status string, page request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	UpdateBookingStatus(ctx context.Context, actor Actor, bookingID uuid.UUID, req *request.UpdateBookingStatusRequest) (*response.BookingResponse, error)
}

type bookingService struct {
	repo    *repository.Repository
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewBookingService(repo *repository.Repository, m *metrics.Metrics, log *zap.Logger) BookingService {
	return &bookingService{
		repo:    repo,
		metrics: m,
		log:     log.With(zap.String("service", "booking")),
	}
}

// CreateBooking reserves seats on a now-showing movie. The movie row stays
// locked from the availability check until the booking row is written.
func (s *bookingService) CreateBooking(ctx context.Context, actor Actor, movieID uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if req.Seats < 1 {
		return nil, fmt.Errorf("%w: at least one seat must be booked", ErrInsufficientInventory)
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, validationError(errs)
	}

	showDate, err := time.Parse("2006-01-02", req.ShowDate)
	if err != nil {
		return nil, fmt.Errorf("%w: show_date: %v", ErrValidation, err)
	}
	showTime, err := time.Parse("15:04", req.ShowTime)
	if err != nil {
		return nil, fmt.Errorf("%w: show_time: %v", ErrValidation, err)
	}

	var booking *entity.Booking
	err = s.repo.Tx.WithinTx(ctx, func(ctx context.Context) error {
		// 1. Lock movie row
		movie, err := s.repo.Movie.FindByIDForUpdate(ctx, movieID)
		if err != nil {
			return err
		}
		if movie == nil {
			return notFound("movie", movieID)
		}

		// 2. Cek kursi
		if req.Seats > movie.AvailableSeats {
			return fmt.Errorf("%w: requested %d, available %d", ErrInsufficientInventory, req.Seats, movie.AvailableSeats)
		}

		// 3. Decrement inventory
		reserved, err := s.repo.Movie.ReserveSeats(ctx, movie.ID, req.Seats)
		if err != nil {
			return err
		}
		if !reserved {
			return fmt.Errorf("%w: requested %d", ErrInsufficientInventory, req.Seats)
		}

		// 4. Create booking with the price snapshot
		now := time.Now()
		booking = &entity.Booking{
			Base:          entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
			UserID:        actor.ID,
			MovieID:       movie.ID,
			ShowDate:      showDate,
			ShowTime:      showTime.Format("15:04"),
			Seats:         req.Seats,
			TotalPrice:    roundMoney(movie.TicketPrice * float64(req.Seats)),
			Status:        entity.BookingStatusConfirmed,
			PaymentMethod: strings.TrimSpace(req.PaymentMethod),
			MovieTitle:    movie.Title,
		}

		return s.repo.Booking.Create(ctx, booking)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.BookingCreated(booking.Seats)
	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("user_id", actor.ID.String()),
		zap.String("movie_id", movieID.String()),
		zap.Int("seats", booking.Seats),
		zap.Float64("total_price", booking.TotalPrice))

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) CancelOwnBooking(ctx context.Context, actor Actor, bookingID uuid.UUID) (*response.BookingResponse, error) {
	var booking *entity.Booking
	err := s.repo.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		booking, err = s.findBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking.UserID != actor.ID {
			return fmt.Errorf("%w: booking %s belongs to another user", ErrForbidden, bookingID)
		}
		if booking.Status == entity.BookingStatusCancelled {
			return fmt.Errorf("%w: booking is already cancelled", ErrInvalidTransition)
		}

		return s.cancel(ctx, booking)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Booking cancelled by owner",
		zap.String("booking_id", bookingID.String()),
		zap.String("user_id", actor.ID.String()))

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) MyBookings(ctx context.Context, actor Actor, page request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	return s.list(ctx, repository.BookingFilter{UserID: &actor.ID}, page)
}

// GetBooking is available to the owner and to admins
func (s *bookingService) GetBooking(ctx context.Context, actor Actor, bookingID uuid.UUID) (*response.BookingResponse, error) {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != actor.ID && !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: booking %s belongs to another user", ErrForbidden, bookingID)
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) ListBookings(ctx context.Context, actor Actor, status string, page request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	if err := RequireAdmin(actor); err != nil {
		return nil, err
	}

	filter := repository.BookingFilter{}
	if status != "" {
		st := entity.BookingStatus(status)
		if !st.Valid() {
			return nil, fmt.Errorf("%w: status: Must be one of: pending, confirmed, cancelled", ErrValidation)
		}
		filter.Status = &st
	}

	return s.list(ctx, filter, page)
}

// UpdateBookingStatus moves a booking between statuses. Cancelling returns
// its seats exactly once; a cancelled booking cannot be reopened.
func (s *bookingService) UpdateBookingStatus(ctx context.Context, actor Actor, bookingID uuid.UUID, req *request.UpdateBookingStatusRequest) (*response.BookingResponse, error) {
	if err := RequireAdmin(actor); err != nil {
		return nil, err
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}
	newStatus := entity.BookingStatus(req.Status)

	var booking *entity.Booking
	err := s.repo.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		booking, err = s.findBooking(ctx, bookingID)
		if err != nil {
			return err
		}

		if newStatus == entity.BookingStatusCancelled {
			return s.cancel(ctx, booking)
		}

		// seats were already released, reopening would double count them
		if booking.Status == entity.BookingStatusCancelled {
			return fmt.Errorf("%w: cancelled booking cannot become %s", ErrInvalidTransition, newStatus)
		}
		if booking.Status == newStatus {
			return nil
		}

		if err := s.repo.Booking.UpdateStatus(ctx, booking.ID, newStatus); err != nil {
			return err
		}
		booking.Status = newStatus
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Booking status updated",
		zap.String("booking_id", bookingID.String()),
		zap.String("status", string(booking.Status)),
		zap.String("admin_id", actor.ID.String()))

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

// ==================== HELPER METHODS ====================

// cancel flips the booking to cancelled and restores its seats. Only the
// call that actually changed the row restores inventory.
func (s *bookingService) cancel(ctx context.Context, booking *entity.Booking) error {
	changed, err := s.repo.Booking.MarkCancelled(ctx, booking.ID)
	if err != nil {
		return err
	}

	booking.Status = entity.BookingStatusCancelled
	if !changed {
		s.log.Debug("Booking already cancelled", zap.String("booking_id", booking.ID.String()))
		return nil
	}

	if err := s.repo.Movie.ReleaseSeats(ctx, booking.MovieID, booking.Seats); err != nil {
		return err
	}

	s.metrics.BookingCancelled(booking.Seats)
	return nil
}

func (s *bookingService) findBooking(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, notFound("booking", id)
	}
	return booking, nil
}

func (s *bookingService) list(ctx context.Context, filter repository.BookingFilter, page request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	bookings, err := s.repo.Booking.FindAll(ctx, filter, page.Limit(), page.Offset())
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	total, err := s.repo.Booking.CountAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}

	return response.NewPaginatedResponse(response.BookingsToResponse(bookings), page.Page, page.Limit(), total), nil
}
