package repository

import (
	"context"
	"fmt"
	"time"

	"movie-theater/internal/data/entity"
	"movie-theater/pkg/database"

	"go.uber.org/zap"
)

// StatSubject names a table counted by the dashboard
type StatSubject string

const (
	StatMovies   StatSubject = "movies"
	StatUsers    StatSubject = "users"
	StatReviews  StatSubject = "reviews"
	StatBookings StatSubject = "bookings"
)

// statSources maps subjects to fixed SQL fragments; no caller input reaches the query text
var statSources = map[StatSubject]string{
	StatMovies:   `SELECT COUNT(*) FROM movies WHERE created_at >= $1 AND created_at < $2`,
	StatUsers:    `SELECT COUNT(*) FROM accounts WHERE role = 'user' AND created_at >= $1 AND created_at < $2`,
	StatReviews:  `SELECT COUNT(*) FROM reviews WHERE created_at >= $1 AND created_at < $2`,
	StatBookings: `SELECT COUNT(*) FROM bookings WHERE created_at >= $1 AND created_at < $2`,
}

type StatsRepository interface {
	Totals(ctx context.Context) (*entity.Totals, error)
	CountCreatedBetween(ctx context.Context, subject StatSubject, from, to time.Time) (int64, error)
	MoviesPerGenre(ctx context.Context) ([]entity.GenreCount, error)
	RatingDistribution(ctx context.Context) (map[int]int64, error)
}

type statsRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewStatsRepository(db database.PgxIface, log *zap.Logger) StatsRepository {
	return &statsRepository{
		db:  db,
		log: log.With(zap.String("repository", "stats")),
	}
}

func (r *statsRepository) Totals(ctx context.Context) (*entity.Totals, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM movies),
			(SELECT COUNT(*) FROM accounts WHERE role = 'user'),
			(SELECT COUNT(*) FROM accounts WHERE role = 'admin'),
			(SELECT COUNT(*) FROM genres),
			(SELECT COUNT(*) FROM bookings),
			(SELECT COUNT(*) FROM bookings WHERE status = 'pending'),
			(SELECT COUNT(*) FROM reviews)
	`

	var t entity.Totals
	err := database.Conn(ctx, r.db).QueryRow(ctx, query).Scan(
		&t.Movies,
		&t.Users,
		&t.Admins,
		&t.Genres,
		&t.Bookings,
		&t.PendingBookings,
		&t.Reviews,
	)
	if err != nil {
		r.log.Error("Failed to load totals", zap.Error(err))
		return nil, fmt.Errorf("load totals: %w", err)
	}

	return &t, nil
}

// CountCreatedBetween counts rows with from <= created_at < to
func (r *statsRepository) CountCreatedBetween(ctx context.Context, subject StatSubject, from, to time.Time) (int64, error) {
	query, ok := statSources[subject]
	if !ok {
		return 0, fmt.Errorf("unknown stat subject %q", subject)
	}

	var total int64
	if err := database.Conn(ctx, r.db).QueryRow(ctx, query, from, to).Scan(&total); err != nil {
		r.log.Error("Failed to count created rows",
			zap.Error(err),
			zap.String("subject", string(subject)),
		)
		return 0, fmt.Errorf("count %s created between %s and %s: %w", subject, from.Format(time.RFC3339), to.Format(time.RFC3339), err)
	}

	return total, nil
}

// MoviesPerGenre lists genres that have at least one movie
func (r *statsRepository) MoviesPerGenre(ctx context.Context) ([]entity.GenreCount, error) {
	query := `
		SELECT g.id, g.name, COUNT(m.id) AS movies
		FROM genres g
		JOIN movies m ON m.genre_id = g.id
		GROUP BY g.id, g.name
		ORDER BY movies DESC, g.name
	`

	rows, err := database.Conn(ctx, r.db).Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to count movies per genre", zap.Error(err))
		return nil, fmt.Errorf("movies per genre: %w", err)
	}
	defer rows.Close()

	var counts []entity.GenreCount
	for rows.Next() {
		var c entity.GenreCount
		if err := rows.Scan(&c.GenreID, &c.Name, &c.Movies); err != nil {
			return nil, fmt.Errorf("scan genre count: %w", err)
		}
		counts = append(counts, c)
	}

	return counts, rows.Err()
}

// RatingDistribution counts reviews per star value
func (r *statsRepository) RatingDistribution(ctx context.Context) (map[int]int64, error) {
	rows, err := database.Conn(ctx, r.db).Query(ctx, `SELECT rating, COUNT(*) FROM reviews GROUP BY rating`)
	if err != nil {
		r.log.Error("Failed to load rating distribution", zap.Error(err))
		return nil, fmt.Errorf("rating distribution: %w", err)
	}
	defer rows.Close()

	dist := make(map[int]int64, 5)
	for rows.Next() {
		var rating int
		var count int64
		if err := rows.Scan(&rating, &count); err != nil {
			return nil, fmt.Errorf("scan rating bucket: %w", err)
		}
		dist[rating] = count
	}

	return dist, rows.Err()
}
