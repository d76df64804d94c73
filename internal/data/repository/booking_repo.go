package repository

import (
	"context"
	"fmt"
	"strings"

	"movie-theater/internal/data/entity"
	"movie-theater/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingFilter struct {
	UserID *uuid.UUID
	Status *entity.BookingStatus
}

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindAll(ctx context.Context, filter BookingFilter, limit, offset int) ([]*entity.Booking, error)
	CountAll(ctx context.Context, filter BookingFilter) (int64, error)

	// Business queries
	UpdateStatus(ctx context.Context, bookingID uuid.UUID, status entity.BookingStatus) error
	MarkCancelled(ctx context.Context, bookingID uuid.UUID) (bool, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingSelect = `
	SELECT b.id, b.user_id, b.movie_id, b.show_date, to_char(b.show_time, 'HH24:MI'),
	       b.seats, b.total_price, b.status, b.payment_method, b.created_at, b.updated_at,
	       a.username, m.title
	FROM bookings b
	JOIN accounts a ON a.id = b.user_id
	JOIN movies m ON m.id = b.movie_id
`

func scanBooking(row scanner) (*entity.Booking, error) {
	var b entity.Booking
	err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.MovieID,
		&b.ShowDate,
		&b.ShowTime,
		&b.Seats,
		&b.TotalPrice,
		&b.Status,
		&b.PaymentMethod,
		&b.CreatedAt,
		&b.UpdatedAt,
		&b.Username,
		&b.MovieTitle,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, user_id, movie_id, show_date, show_time, seats,
		                      total_price, status, payment_method, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5::text::time, $6, $7, $8, $9, $10, $11)
	`

	_, err := database.Conn(ctx, r.db).Exec(ctx, query,
		booking.ID,
		booking.UserID,
		booking.MovieID,
		booking.ShowDate,
		booking.ShowTime,
		booking.Seats,
		booking.TotalPrice,
		booking.Status,
		booking.PaymentMethod,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("user_id", booking.UserID.String()),
			zap.String("movie_id", booking.MovieID.String()),
		)
		return fmt.Errorf("create booking: %w", err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	booking, err := scanBooking(database.Conn(ctx, r.db).QueryRow(ctx, bookingSelect+` WHERE b.id = $1`, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id, err)
	}

	return booking, nil
}

func (f BookingFilter) buildWhere() (string, []any) {
	var conds []string
	args := []any{}

	if f.UserID != nil {
		args = append(args, *f.UserID)
		conds = append(conds, fmt.Sprintf("b.user_id = $%d", len(args)))
	}
	if f.Status != nil && *f.Status != "" {
		args = append(args, *f.Status)
		conds = append(conds, fmt.Sprintf("b.status = $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// FindAll returns bookings newest first
func (r *bookingRepository) FindAll(ctx context.Context, filter BookingFilter, limit, offset int) ([]*entity.Booking, error) {
	where, args := filter.buildWhere()
	query := bookingSelect + where +
		fmt.Sprintf(" ORDER BY b.created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list bookings", zap.Error(err))
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}

	return bookings, nil
}

func (r *bookingRepository) CountAll(ctx context.Context, filter BookingFilter) (int64, error) {
	where, args := filter.buildWhere()

	var total int64
	if err := database.Conn(ctx, r.db).QueryRow(ctx, `SELECT COUNT(*) FROM bookings b`+where, args...).Scan(&total); err != nil {
		r.log.Error("Failed to count bookings", zap.Error(err))
		return 0, fmt.Errorf("count bookings: %w", err)
	}
	return total, nil
}

// UpdateStatus sets a non-cancelled status. Cancellation goes through MarkCancelled.
func (r *bookingRepository) UpdateStatus(ctx context.Context, bookingID uuid.UUID, status entity.BookingStatus) error {
	query := `
		UPDATE bookings
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query, bookingID, status)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update booking status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update booking %s: %w", bookingID, pgx.ErrNoRows)
	}

	return nil
}

// MarkCancelled flips the booking to cancelled and reports whether this call
// did it. A booking that is already cancelled is left alone and yields false.
func (r *bookingRepository) MarkCancelled(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	query := `
		UPDATE bookings
		SET status = 'cancelled', updated_at = NOW()
		WHERE id = $1 AND status <> 'cancelled'
	`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to cancel booking",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return false, fmt.Errorf("cancel booking %s: %w", bookingID, err)
	}

	return result.RowsAffected() == 1, nil
}
