package repository

import (
	"errors"

	"movie-theater/pkg/database"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// ErrDuplicate is returned when an insert or update hits a unique constraint
var ErrDuplicate = errors.New("duplicate record")

type Repository struct {
	Account AccountRepository
	Session SessionRepository
	Genre   GenreRepository
	Movie   MovieRepository
	Booking BookingRepository
	Review  ReviewRepository
	Setting SettingRepository
	Stats   StatsRepository

	// Tx groups repository calls into one database transaction
	Tx database.Transactor
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Account: NewAccountRepository(db, log),
		Session: NewSessionRepository(db, log),
		Genre:   NewGenreRepository(db, log),
		Movie:   NewMovieRepository(db, log),
		Booking: NewBookingRepository(db, log),
		Review:  NewReviewRepository(db, log),
		Setting: NewSettingRepository(db, log),
		Stats:   NewStatsRepository(db, log),
		Tx:      database.NewTransactor(db),
	}
}

// scanner is satisfied by both pgx.Row and pgx.Rows
type scanner interface {
	Scan(dest ...any) error
}

// isUniqueViolation reports a unique constraint failure (SQLSTATE 23505)
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
