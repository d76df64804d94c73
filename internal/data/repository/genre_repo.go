package repository

import (
	"context"
	"fmt"

	"movie-theater/internal/data/entity"
	"movie-theater/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type GenreRepository interface {
	Create(ctx context.Context, genre *entity.Genre) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Genre, error)
	FindByName(ctx context.Context, name string) (*entity.Genre, error)
	FindAll(ctx context.Context, search string) ([]*entity.Genre, error)
	Update(ctx context.Context, genre *entity.Genre) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type genreRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewGenreRepository(db database.PgxIface, log *zap.Logger) GenreRepository {
	return &genreRepository{
		db:  db,
		log: log.With(zap.String("repository", "genre")),
	}
}

func scanGenre(row scanner) (*entity.Genre, error) {
	var genre entity.Genre
	if err := row.Scan(&genre.ID, &genre.Name, &genre.Description, &genre.CreatedAt, &genre.UpdatedAt); err != nil {
		return nil, err
	}
	return &genre, nil
}

func (r *genreRepository) Create(ctx context.Context, genre *entity.Genre) error {
	query := `
		INSERT INTO genres (id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := database.Conn(ctx, r.db).Exec(ctx, query,
		genre.ID, genre.Name, genre.Description, genre.CreatedAt, genre.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create genre %q: %w", genre.Name, ErrDuplicate)
		}
		r.log.Error("Failed to create genre", zap.Error(err), zap.String("name", genre.Name))
		return fmt.Errorf("create genre %q: %w", genre.Name, err)
	}

	return nil
}

func (r *genreRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Genre, error) {
	query := `SELECT id, name, description, created_at, updated_at FROM genres WHERE id = $1`

	genre, err := scanGenre(database.Conn(ctx, r.db).QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find genre by ID",
			zap.Error(err),
			zap.String("genre_id", id.String()),
		)
		return nil, fmt.Errorf("find genre by id: %w", err)
	}

	return genre, nil
}

// FindByName matches case-insensitively
func (r *genreRepository) FindByName(ctx context.Context, name string) (*entity.Genre, error) {
	query := `SELECT id, name, description, created_at, updated_at FROM genres WHERE LOWER(name) = LOWER($1)`

	genre, err := scanGenre(database.Conn(ctx, r.db).QueryRow(ctx, query, name))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find genre by name: %w", err)
	}

	return genre, nil
}

// FindAll returns genres ordered by name, optionally filtered by a name substring
func (r *genreRepository) FindAll(ctx context.Context, search string) ([]*entity.Genre, error) {
	query := `SELECT id, name, description, created_at, updated_at FROM genres`
	args := []any{}

	if search != "" {
		query += ` WHERE name ILIKE $1`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY name`

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list genres", zap.Error(err))
		return nil, fmt.Errorf("list genres: %w", err)
	}
	defer rows.Close()

	var genres []*entity.Genre
	for rows.Next() {
		genre, err := scanGenre(rows)
		if err != nil {
			return nil, fmt.Errorf("scan genre: %w", err)
		}
		genres = append(genres, genre)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate genres: %w", err)
	}

	return genres, nil
}

func (r *genreRepository) Update(ctx context.Context, genre *entity.Genre) error {
	query := `UPDATE genres SET name = $2, description = $3, updated_at = $4 WHERE id = $1`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query,
		genre.ID, genre.Name, genre.Description, genre.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("update genre %q: %w", genre.Name, ErrDuplicate)
		}
		r.log.Error("Failed to update genre", zap.Error(err), zap.String("genre_id", genre.ID.String()))
		return fmt.Errorf("update genre %s: %w", genre.ID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update genre %s: %w", genre.ID, pgx.ErrNoRows)
	}

	return nil
}

// Delete removes the genre; movies keep existing with genre_id set to NULL
func (r *genreRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := database.Conn(ctx, r.db).Exec(ctx, `DELETE FROM genres WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete genre", zap.Error(err), zap.String("genre_id", id.String()))
		return fmt.Errorf("delete genre %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete genre %s: %w", id, pgx.ErrNoRows)
	}

	r.log.Info("Genre deleted", zap.String("genre_id", id.String()))
	return nil
}
