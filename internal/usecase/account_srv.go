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

type AccountService interface {
	// Profile (pemilik akun)
	GetProfile(ctx context.Context, actor Actor) (*response.AccountResponse, error)
	UpdateProfile(ctx context.Context, actor Actor, req *request.UpdateProfileRequest) (*response.AccountResponse, error)
	ChangePassword(ctx context.Context, actor Actor, req *request.ChangePasswordRequest) error

	// Admin
	ListAccounts(ctx context.Context, actor Actor, page request.PaginatedRequest) (*response.PaginatedResponse[response.AccountResponse], error)
	CreateAccount(ctx context.Context, actor Actor, req *request.AccountRequest) (*response.AccountResponse, error)
	UpdateAccount(ctx context.Context, actor Actor, id uuid.UUID, req *request.AccountUpdateRequest) (*response.AccountResponse, error)
	DeleteAccount(ctx context.Context, actor Actor, id uuid.UUID) error

	// EnsureAdmin seeds an admin account when the username is free
	EnsureAdmin(ctx context.Context, username, email, password string) (bool, error)
}

type accountService struct {
	repo    *repository.Repository
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewAccountService(repo *repository.Repository, m *metrics.Metrics, log *zap.Logger) AccountService {
	return &accountService{
		repo:    repo,
		metrics: m,
		log:     log.With(zap.String("service", "account")),
	}
}

func (s *accountService) GetProfile(ctx context.Context, actor Actor) (*response.AccountResponse, error) {
	account, err := s.findAccount(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	resp := response.AccountToResponse(account)
	return &resp, nil
}

func (s *accountService) UpdateProfile(ctx context.Context, actor Actor, req *request.UpdateProfileRequest) (*response.AccountResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	account, err := s.findAccount(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	email := strings.TrimSpace(req.Email)
	if err := ensureAccountUnique(ctx, s.repo.Account, account.ID, "", email); err != nil {
		return nil, err
	}

	account.Email = email
	account.UpdatedAt = time.Now()
	if err := s.save(ctx, account); err != nil {
		return nil, err
	}

	s.log.Info("Profile updated", zap.String("user_id", account.ID.String()))

	resp := response.AccountToResponse(account)
	return &resp, nil
}

// ChangePassword also revokes every session of the account
func (s *accountService) ChangePassword(ctx context.Context, actor Actor, req *request.ChangePasswordRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return validationError(errs)
	}

	account, err := s.findAccount(ctx, actor.ID)
	if err != nil {
		return err
	}

	if !utils.CheckPasswordHash(req.OldPassword, account.PasswordHash) {
		return fmt.Errorf("%w: old_password: Current password is incorrect", ErrValidation)
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.repo.Tx.WithinTx(ctx, func(ctx context.Context) error {
		account.PasswordHash = hashed
		account.UpdatedAt = time.Now()
		if err := s.save(ctx, account); err != nil {
			return err
		}

		if err := s.repo.Session.RevokeAllUserSessions(ctx, account.ID); err != nil {
			return err
		}

		s.log.Info("Password changed", zap.String("user_id", account.ID.String()))
		return nil
	})
}

func (s *accountService) ListAccounts(ctx context.Context, actor Actor, page request.PaginatedRequest) (*response.PaginatedResponse[response.AccountResponse], error) {
	if err := RequireAdmin(actor); err != nil {
		return nil, err
	}

	accounts, err := s.repo.Account.FindAll(ctx, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Account.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	data := make([]response.AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		data = append(data, response.AccountToResponse(a))
	}

	return response.NewPaginatedResponse(data, page.Page, page.Limit(), total), nil
}

func (s *accountService) CreateAccount(ctx context.Context, actor Actor, req *request.AccountRequest) (*response.AccountResponse, error) {
	if err := RequireAdmin(actor); err != nil {
		return nil, err
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	account, err := s.create(ctx, req.Username, req.Email, req.Password, entity.Role(req.Role), isActive)
	if err != nil {
		return nil, err
	}

	s.log.Info("Account created by admin",
		zap.String("admin_id", actor.ID.String()),
		zap.String("user_id", account.ID.String()),
		zap.String("role", string(account.Role)))

	resp := response.AccountToResponse(account)
	return &resp, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, actor Actor, id uuid.UUID, req *request.AccountUpdateRequest) (*response.AccountResponse, error) {
	if err := RequireAdmin(actor); err != nil {
		return nil, err
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	account, err := s.findAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	// an admin cannot demote or deactivate themselves
	if actor.ID == account.ID {
		if req.Role != nil && entity.Role(*req.Role) != account.Role {
			return nil, fmt.Errorf("%w: you cannot change your own role", ErrForbidden)
		}
		if req.IsActive != nil && !*req.IsActive {
			return nil, fmt.Errorf("%w: you cannot deactivate your own account", ErrForbidden)
		}
	}

	username, email := "", ""
	if req.Username != nil {
		username = strings.TrimSpace(*req.Username)
	}
	if req.Email != nil {
		email = strings.TrimSpace(*req.Email)
	}
	if err := ensureAccountUnique(ctx, s.repo.Account, account.ID, username, email); err != nil {
		return nil, err
	}

	if username != "" {
		account.Username = username
	}
	if email != "" {
		account.Email = email
	}
	if req.Role != nil {
		account.Role = entity.Role(*req.Role)
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}

	passwordReset := req.Password != nil && *req.Password != ""
	if passwordReset {
		hashed, err := utils.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		account.PasswordHash = hashed
	}
	account.UpdatedAt = time.Now()

	err = s.repo.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.save(ctx, account); err != nil {
			return err
		}
		// a reset password or a deactivated account ends existing sessions
		if passwordReset || !account.IsActive {
			return s.repo.Session.RevokeAllUserSessions(ctx, account.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Account updated by admin",
		zap.String("admin_id", actor.ID.String()),
		zap.String("user_id", account.ID.String()))

	resp := response.AccountToResponse(account)
	return &resp, nil
}

func (s *accountService) DeleteAccount(ctx context.Context, actor Actor, id uuid.UUID) error {
	if err := RequireAdmin(actor); err != nil {
		return err
	}

	if actor.ID == id {
		return ErrSelfDeletion
	}

	var account *entity.Account
	var movieIDs []uuid.UUID
	err := s.repo.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		account, err = s.findAccount(ctx, id)
		if err != nil {
			return err
		}

		// 1. Film yang pernah direview, sebelum cascade menghapus review
		movieIDs, err = s.repo.Review.FindMovieIDsByUser(ctx, account.ID)
		if err != nil {
			return err
		}

		// 2. Hapus akun (cascade ke review, booking, session)
		if err := s.repo.Account.Delete(ctx, account.ID); err != nil {
			return err
		}

		// 3. Rating film ikut berubah
		for _, movieID := range movieIDs {
			if _, _, err := recomputeRating(ctx, s.repo, s.metrics, s.log, movieID); err != nil {
				return fmt.Errorf("recompute rating of %s: %w", movieID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("Account deleted",
		zap.String("admin_id", actor.ID.String()),
		zap.String("user_id", account.ID.String()),
		zap.String("username", account.Username),
		zap.Int("ratings_recomputed", len(movieIDs)))
	return nil
}

func (s *accountService) EnsureAdmin(ctx context.Context, username, email, password string) (bool, error) {
	existing, err := s.repo.Account.FindByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	if existing != nil {
		s.log.Info("Admin account already exists", zap.String("username", username))
		return false, nil
	}

	if len(password) < 6 {
		return false, fmt.Errorf("%w: admin password must be at least 6 characters", ErrValidation)
	}

	account, err := s.create(ctx, username, email, password, entity.RoleAdmin, true)
	if err != nil {
		return false, err
	}

	s.log.Info("Admin account created", zap.String("user_id", account.ID.String()), zap.String("username", username))
	return true, nil
}

// ==================== HELPER METHODS ====================

func (s *accountService) findAccount(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	account, err := s.repo.Account.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, notFound("account", id)
	}
	return account, nil
}

func (s *accountService) create(ctx context.Context, username, email, password string, role entity.Role, active bool) (*entity.Account, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if err := ensureAccountUnique(ctx, s.repo.Account, uuid.Nil, username, email); err != nil {
		return nil, err
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	account := &entity.Account{
		Base:         entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		Role:         role,
		IsActive:     active,
	}

	if err := s.repo.Account.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: username or email already registered", ErrConflict)
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) save(ctx context.Context, account *entity.Account) error {
	if err := s.repo.Account.Update(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return fmt.Errorf("%w: username or email already registered", ErrConflict)
		}
		return err
	}
	return nil
}
