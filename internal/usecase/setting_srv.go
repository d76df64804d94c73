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
	"movie-theater/pkg/cache"
	"movie-theater/pkg/utils"

	"go.uber.org/zap"
)

const settingsCacheKey = "site_settings"

type SettingService interface {
	// GetSettings always returns a row, creating the defaults on first use
	GetSettings(ctx context.Context) (*entity.SiteSetting, error)
	UpdateSettings(ctx context.Context, actor Actor, req *request.UpdateSettingsRequest) (*entity.SiteSetting, error)
	Overview(ctx context.Context, actor Actor) (*response.SettingsOverviewResponse, error)
}

type settingService struct {
	repo  *repository.Repository
	cache cache.Cache
	ttl   time.Duration
	log   *zap.Logger
}

func NewSettingService(repo *repository.Repository, c cache.Cache, ttl time.Duration, log *zap.Logger) SettingService {
	if c == nil {
		c = cache.Noop{}
	}
	return &settingService{
		repo:  repo,
		cache: c,
		ttl:   ttl,
		log:   log.With(zap.String("service", "setting")),
	}
}

func (s *settingService) GetSettings(ctx context.Context) (*entity.SiteSetting, error) {
	var cached entity.SiteSetting
	hit, err := s.cache.Get(ctx, settingsCacheKey, &cached)
	if err != nil {
		// cache trouble degrades to a database read
		s.log.Warn("Settings cache read failed", zap.Error(err))
	}
	if hit {
		return &cached, nil
	}

	setting, err := s.repo.Setting.Get(ctx)
	if err != nil {
		return nil, err
	}

	if setting == nil {
		if err := s.repo.Setting.CreateIfMissing(ctx, entity.DefaultSiteSetting()); err != nil {
			return nil, err
		}
		setting, err = s.repo.Setting.Get(ctx)
		if err != nil {
			return nil, err
		}
		if setting == nil {
			return nil, fmt.Errorf("site settings missing after insert")
		}
		s.log.Info("Default site settings created")
	}

	if err := s.cache.Set(ctx, settingsCacheKey, setting, s.ttl); err != nil {
		s.log.Warn("Settings cache write failed", zap.Error(err))
	}

	return setting, nil
}

func (s *settingService) UpdateSettings(ctx context.Context, actor Actor, req *request.UpdateSettingsRequest) (*entity.SiteSetting, error) {
	if err := RequireAdmin(actor); err != nil {
		return nil, err
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	current, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	updated := *current
	if req.SiteName != nil {
		name := strings.TrimSpace(*req.SiteName)
		if name == "" {
			return nil, fmt.Errorf("%w: site_name: This field is required", ErrValidation)
		}
		updated.SiteName = name
	}
	if req.EnableReviews != nil {
		updated.EnableReviews = *req.EnableReviews
	}
	if req.RequireReviewApproval != nil {
		updated.RequireReviewApproval = *req.RequireReviewApproval
	}
	if req.MoviesPerPage != nil {
		updated.MoviesPerPage = *req.MoviesPerPage
	}
	if req.MaintenanceMode != nil {
		updated.MaintenanceMode = *req.MaintenanceMode
	}
	updated.UpdatedAt = time.Now()

	if err := s.repo.Setting.Update(ctx, &updated); err != nil {
		return nil, err
	}

	if err := s.cache.Delete(ctx, settingsCacheKey); err != nil {
		s.log.Warn("Settings cache invalidation failed", zap.Error(err))
	}

	s.log.Info("Site settings updated",
		zap.String("admin_id", actor.ID.String()),
		zap.Bool("maintenance_mode", updated.MaintenanceMode),
		zap.Bool("enable_reviews", updated.EnableReviews),
		zap.Bool("require_review_approval", updated.RequireReviewApproval))

	return &updated, nil
}

func (s *settingService) Overview(ctx context.Context, actor Actor) (*response.SettingsOverviewResponse, error) {
	if err := RequireAdmin(actor); err != nil {
		return nil, err
	}

	setting, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	totals, err := s.repo.Stats.Totals(ctx)
	if err != nil {
		return nil, err
	}

	return &response.SettingsOverviewResponse{
		Settings: *setting,
		Totals:   response.TotalsToResponse(totals),
	}, nil
}
