package repository

import (
	"context"
	"fmt"

	"movie-theater/internal/data/entity"
	"movie-theater/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type SettingRepository interface {
	// Get returns nil, nil when the row has not been created yet
	Get(ctx context.Context) (*entity.SiteSetting, error)
	CreateIfMissing(ctx context.Context, defaults entity.SiteSetting) error
	Update(ctx context.Context, setting *entity.SiteSetting) error
}

type settingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSettingRepository(db database.PgxIface, log *zap.Logger) SettingRepository {
	return &settingRepository{
		db:  db,
		log: log.With(zap.String("repository", "setting")),
	}
}

func (r *settingRepository) Get(ctx context.Context) (*entity.SiteSetting, error) {
	query := `
		SELECT site_name, enable_reviews, require_review_approval, movies_per_page,
		       maintenance_mode, updated_at
		FROM site_settings
		WHERE id = 1
	`

	var s entity.SiteSetting
	err := database.Conn(ctx, r.db).QueryRow(ctx, query).Scan(
		&s.SiteName,
		&s.EnableReviews,
		&s.RequireReviewApproval,
		&s.MoviesPerPage,
		&s.MaintenanceMode,
		&s.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to load site settings", zap.Error(err))
		return nil, fmt.Errorf("load site settings: %w", err)
	}

	return &s, nil
}

// CreateIfMissing inserts the singleton row; concurrent callers race safely
func (r *settingRepository) CreateIfMissing(ctx context.Context, defaults entity.SiteSetting) error {
	query := `
		INSERT INTO site_settings (id, site_name, enable_reviews, require_review_approval,
		                           movies_per_page, maintenance_mode, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, NOW())
		ON CONFLICT (id) DO NOTHING
	`

	_, err := database.Conn(ctx, r.db).Exec(ctx, query,
		defaults.SiteName,
		defaults.EnableReviews,
		defaults.RequireReviewApproval,
		defaults.MoviesPerPage,
		defaults.MaintenanceMode,
	)
	if err != nil {
		r.log.Error("Failed to create site settings", zap.Error(err))
		return fmt.Errorf("create site settings: %w", err)
	}

	return nil
}

func (r *settingRepository) Update(ctx context.Context, setting *entity.SiteSetting) error {
	query := `
		UPDATE site_settings
		SET site_name = $1, enable_reviews = $2, require_review_approval = $3,
		    movies_per_page = $4, maintenance_mode = $5, updated_at = $6
		WHERE id = 1
	`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query,
		setting.SiteName,
		setting.EnableReviews,
		setting.RequireReviewApproval,
		setting.MoviesPerPage,
		setting.MaintenanceMode,
		setting.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update site settings", zap.Error(err))
		return fmt.Errorf("update site settings: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update site settings: %w", pgx.ErrNoRows)
	}

	return nil
}
