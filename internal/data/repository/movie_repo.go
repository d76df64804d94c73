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

// SearchScope picks the columns a free-text movie search runs over
type SearchScope int

const (
	// SearchCatalog matches title, director and cast
	SearchCatalog SearchScope = iota
	// SearchAdmin matches title, director, genre name and description
	SearchAdmin
)

type MovieOrder int

const (
	OrderReleaseDesc MovieOrder = iota
	OrderReleaseAsc
	OrderCreatedDesc
)

type MovieFilter struct {
	Search  string
	Scope   SearchScope
	GenreID *uuid.UUID
	Status  *entity.MovieStatus
	OrderBy MovieOrder
}

type MovieRepository interface {
	// CRUD Movie
	Create(ctx context.Context, movie *entity.Movie) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Movie, error)
	Update(ctx context.Context, movie *entity.Movie) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindAll(ctx context.Context, filter MovieFilter, limit, offset int) ([]*entity.Movie, error)
	CountAll(ctx context.Context, filter MovieFilter) (int64, error)
	FindAllIDs(ctx context.Context) ([]uuid.UUID, error)

	// Ledger
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Movie, error)
	ReserveSeats(ctx context.Context, id uuid.UUID, seats int) (bool, error)
	ReleaseSeats(ctx context.Context, id uuid.UUID, seats int) error
	UpdateRating(ctx context.Context, id uuid.UUID, rating float64) error
}

type movieRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewMovieRepository(db database.PgxIface, log *zap.Logger) MovieRepository {
	return &movieRepository{
		db:  db,
		log: log.With(zap.String("repository", "movie")),
	}
}

const movieSelect = `
	SELECT m.id, m.title, m.description, m.genre_id, m.duration, m.release_date,
	       m.director, m."cast", m.poster_url, m.trailer_url, m.status,
	       m.ticket_price, m.available_seats, m.rating, m.created_at, m.updated_at,
	       g.name
	FROM movies m
	LEFT JOIN genres g ON g.id = m.genre_id
`

func scanMovie(row scanner) (*entity.Movie, error) {
	var movie entity.Movie
	err := row.Scan(
		&movie.ID,
		&movie.Title,
		&movie.Description,
		&movie.GenreID,
		&movie.Duration,
		&movie.ReleaseDate,
		&movie.Director,
		&movie.Cast,
		&movie.PosterURL,
		&movie.TrailerURL,
		&movie.Status,
		&movie.TicketPrice,
		&movie.AvailableSeats,
		&movie.Rating,
		&movie.CreatedAt,
		&movie.UpdatedAt,
		&movie.GenreName,
	)
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

func (r *movieRepository) Create(ctx context.Context, movie *entity.Movie) error {
	query := `
		INSERT INTO movies (id, title, description, genre_id, duration, release_date,
		                    director, "cast", poster_url, trailer_url, status,
		                    ticket_price, available_seats, rating, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := database.Conn(ctx, r.db).Exec(ctx, query,
		movie.ID,
		movie.Title,
		movie.Description,
		movie.GenreID,
		movie.Duration,
		movie.ReleaseDate,
		movie.Director,
		movie.Cast,
		movie.PosterURL,
		movie.TrailerURL,
		movie.Status,
		movie.TicketPrice,
		movie.AvailableSeats,
		movie.Rating,
		movie.CreatedAt,
		movie.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create movie",
			zap.Error(err),
			zap.String("title", movie.Title),
		)
		return fmt.Errorf("failed to create movie: %w", err)
	}

	return nil
}

func (r *movieRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Movie, error) {
	return r.findByID(ctx, id, false)
}

// FindByIDForUpdate locks the movie row until the surrounding transaction ends
func (r *movieRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Movie, error) {
	return r.findByID(ctx, id, true)
}

func (r *movieRepository) findByID(ctx context.Context, id uuid.UUID, lock bool) (*entity.Movie, error) {
	query := movieSelect + ` WHERE m.id = $1`
	if lock {
		query += ` FOR UPDATE OF m`
	}

	movie, err := scanMovie(database.Conn(ctx, r.db).QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find movie by ID",
			zap.Error(err),
			zap.String("movie_id", id.String()),
			zap.Bool("lock", lock),
		)
		return nil, fmt.Errorf("failed to find movie: %w", err)
	}

	return movie, nil
}

// buildWhere renders the filter as a WHERE clause starting at placeholder $1
func (f MovieFilter) buildWhere() (string, []any) {
	var conds []string
	args := []any{}
	argCount := 1

	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		cols := []string{"m.title", "m.director", `m."cast"`}
		if f.Scope == SearchAdmin {
			cols = []string{"m.title", "m.director", "g.name", "m.description"}
		}
		parts := make([]string, len(cols))
		for i, col := range cols {
			parts[i] = fmt.Sprintf("%s ILIKE $%d", col, argCount)
		}
		conds = append(conds, "("+strings.Join(parts, " OR ")+")")
		args = append(args, pattern)
		argCount++
	}

	if f.GenreID != nil {
		conds = append(conds, fmt.Sprintf("m.genre_id = $%d", argCount))
		args = append(args, *f.GenreID)
		argCount++
	}

	if f.Status != nil && *f.Status != "" {
		conds = append(conds, fmt.Sprintf("m.status = $%d", argCount))
		args = append(args, *f.Status)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (f MovieFilter) orderClause() string {
	switch f.OrderBy {
	case OrderReleaseAsc:
		return " ORDER BY m.release_date ASC, m.created_at ASC"
	case OrderCreatedDesc:
		return " ORDER BY m.created_at DESC"
	default:
		return " ORDER BY m.release_date DESC, m.created_at DESC"
	}
}

func (r *movieRepository) FindAll(ctx context.Context, filter MovieFilter, limit, offset int) ([]*entity.Movie, error) {
	where, args := filter.buildWhere()

	var queryBuilder strings.Builder
	queryBuilder.WriteString(movieSelect)
	queryBuilder.WriteString(where)
	queryBuilder.WriteString(filter.orderClause())
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2))
	args = append(args, limit, offset)

	rows, err := database.Conn(ctx, r.db).Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		r.log.Error("Failed to find all movies",
			zap.Error(err),
			zap.Int("offset", offset),
			zap.Int("limit", limit),
		)
		return nil, fmt.Errorf("failed to find movies: %w", err)
	}
	defer rows.Close()

	var movies []*entity.Movie
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			r.log.Error("Failed to scan movie row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan movie: %w", err)
		}
		movies = append(movies, movie)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	r.log.Debug("Movies found",
		zap.Int("count", len(movies)),
		zap.Int("offset", offset),
		zap.Int("limit", limit),
	)

	return movies, nil
}

func (r *movieRepository) CountAll(ctx context.Context, filter MovieFilter) (int64, error) {
	where, args := filter.buildWhere()
	query := `SELECT COUNT(*) FROM movies m LEFT JOIN genres g ON g.id = m.genre_id` + where

	var total int64
	if err := database.Conn(ctx, r.db).QueryRow(ctx, query, args...).Scan(&total); err != nil {
		r.log.Error("Failed to count movies", zap.Error(err))
		return 0, fmt.Errorf("failed to count movies: %w", err)
	}

	return total, nil
}

func (r *movieRepository) FindAllIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := database.Conn(ctx, r.db).Query(ctx, `SELECT id FROM movies ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list movie ids: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan movie id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Update writes the editable catalog fields. Rating is owned by the review ledger
// and is left untouched.
func (r *movieRepository) Update(ctx context.Context, movie *entity.Movie) error {
	query := `
		UPDATE movies
		SET title = $2, description = $3, genre_id = $4, duration = $5, release_date = $6,
		    director = $7, "cast" = $8, poster_url = $9, trailer_url = $10, status = $11,
		    ticket_price = $12, available_seats = $13, updated_at = $14
		WHERE id = $1
	`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query,
		movie.ID,
		movie.Title,
		movie.Description,
		movie.GenreID,
		movie.Duration,
		movie.ReleaseDate,
		movie.Director,
		movie.Cast,
		movie.PosterURL,
		movie.TrailerURL,
		movie.Status,
		movie.TicketPrice,
		movie.AvailableSeats,
		movie.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update movie",
			zap.Error(err),
			zap.String("movie_id", movie.ID.String()),
		)
		return fmt.Errorf("failed to update movie: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update movie %s: %w", movie.ID, pgx.ErrNoRows)
	}

	return nil
}

// Delete removes the movie together with its bookings and reviews
func (r *movieRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := database.Conn(ctx, r.db).Exec(ctx, `DELETE FROM movies WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete movie",
			zap.Error(err),
			zap.String("movie_id", id.String()),
		)
		return fmt.Errorf("failed to delete movie: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete movie %s: %w", id, pgx.ErrNoRows)
	}

	r.log.Info("Movie deleted", zap.String("movie_id", id.String()))
	return nil
}

// ReserveSeats decrements inventory only when enough seats remain.
// It reports false, without error, when the guard rejected the update.
func (r *movieRepository) ReserveSeats(ctx context.Context, id uuid.UUID, seats int) (bool, error) {
	query := `
		UPDATE movies
		SET available_seats = available_seats - $2, updated_at = NOW()
		WHERE id = $1 AND available_seats >= $2
	`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query, id, seats)
	if err != nil {
		r.log.Error("Failed to reserve seats",
			zap.Error(err),
			zap.String("movie_id", id.String()),
			zap.Int("seats", seats),
		)
		return false, fmt.Errorf("reserve %d seats on %s: %w", seats, id, err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *movieRepository) ReleaseSeats(ctx context.Context, id uuid.UUID, seats int) error {
	query := `
		UPDATE movies
		SET available_seats = available_seats + $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query, id, seats)
	if err != nil {
		r.log.Error("Failed to release seats",
			zap.Error(err),
			zap.String("movie_id", id.String()),
			zap.Int("seats", seats),
		)
		return fmt.Errorf("release %d seats on %s: %w", seats, id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("release seats on %s: %w", id, pgx.ErrNoRows)
	}

	return nil
}

func (r *movieRepository) UpdateRating(ctx context.Context, id uuid.UUID, rating float64) error {
	query := `UPDATE movies SET rating = $2, updated_at = NOW() WHERE id = $1`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query, id, rating)
	if err != nil {
		r.log.Error("Failed to update movie rating",
			zap.Error(err),
			zap.String("movie_id", id.String()),
			zap.Float64("new_rating", rating),
		)
		return fmt.Errorf("failed to update rating: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update rating of %s: %w", id, pgx.ErrNoRows)
	}

	return nil
}
