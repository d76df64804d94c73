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
	"movie-theater/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type GenreService interface {
	ListGenres(ctx context.Context, search string) ([]response.GenreResponse, error)
	CreateGenre(ctx context.Context, actor Actor, req *request.GenreRequest) (*response.GenreResponse, error)
	UpdateGenre(ctx context.Context, actor Actor, id uuid.UUID, req *request.GenreRequest) (*response.GenreResponse, error)
	DeleteGenre(ctx context.Context, actor Actor, id uuid.UUID) error
}

type genreService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewGenreService(repo *repository.Repository, log *zap.Logger) GenreService {
	return &genreService{
		repo: repo,
		log:  log.With(zap.String("service", "genre")),
	}
}

func (s *genreService) ListGenres(ctx context.Context, search string) ([]response.GenreResponse, error) {
	genres, err := s.repo.Genre.FindAll(ctx, strings.TrimSpace(search))
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	return response.GenresToResponse(genres), nil
}

func (s *genreService) CreateGenre(ctx context.Context, actor Actor, req *request.GenreRequest) (*response.GenreResponse, error) {
	if err := RequireAdmin(actor); err != nil {
		return nil, err
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	name := strings.TrimSpace(req.Name)
	if err := s.ensureNameFree(ctx, uuid.Nil, name); err != nil {
		return nil, err
	}

	now := time.Now()
	genre := &entity.Genre{
		Base:        entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Name:        name,
		Description: strings.TrimSpace(req.Description),
	}

	if err := s.repo.Genre.Create(ctx, genre); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: genre %q", ErrConflict, name)
		}
		return nil, err
	}

	s.log.Info("Genre created", zap.String("genre_id", genre.ID.String()), zap.String("name", genre.Name))

	resp := response.GenreToResponse(genre)
	return &resp, nil
}

func (s *genreService) UpdateGenre(ctx context.Context, actor Actor, id uuid.UUID, req *request.GenreRequest) (*response.GenreResponse, error) {
	if err := RequireAdmin(actor); err != nil {
		return nil, err
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	genre, err := s.repo.Genre.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if genre == nil {
		return nil, notFound("genre", id)
	}

	name := strings.TrimSpace(req.Name)
	if err := s.ensureNameFree(ctx, genre.ID, name); err != nil {
		return nil, err
	}

	genre.Name = name
	genre.Description = strings.TrimSpace(req.Description)
	genre.UpdatedAt = time.Now()

	if err := s.repo.Genre.Update(ctx, genre); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: genre %q", ErrConflict, name)
		}
		return nil, err
	}

	s.log.Info("Genre updated", zap.String("genre_id", genre.ID.String()))

	resp := response.GenreToResponse(genre)
	return &resp, nil
}

// DeleteGenre keeps the genre's movies, with their genre cleared
func (s *genreService) DeleteGenre(ctx context.Context, actor Actor, id uuid.UUID) error {
	if err := RequireAdmin(actor); err != nil {
		return err
	}

	genre, err := s.repo.Genre.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if genre == nil {
		return notFound("genre", id)
	}

	if err := s.repo.Genre.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("Genre deleted", zap.String("genre_id", id.String()), zap.String("name", genre.Name))
	return nil
}

func (s *genreService) ensureNameFree(ctx context.Context, self uuid.UUID, name string) error {
	existing, err := s.repo.Genre.FindByName(ctx, name)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != self {
		return fmt.Errorf("%w: genre %q", ErrConflict, name)
	}
	return nil
}
