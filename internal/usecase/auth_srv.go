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

// ClientInfo describes where a login came from
type ClientInfo struct {
	UserAgent string
	IPAddress string
}

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest, client ClientInfo) (*response.AuthResponse, error)
	Login(ctx context.Context, req *request.LoginRequest, client ClientInfo) (*response.AuthResponse, error)
	Logout(ctx context.Context, token string) error
	CleanExpiredSessions(ctx context.Context) (int64, error)
}

type authService struct {
	repo   *repository.Repository // grouping accountRepo & sessionRepo
	config *utils.Config
	log    *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "auth")),
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest, client ClientInfo) (*response.AuthResponse, error) {
	// 1. Validasi input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Register validation failed", zap.Any("errors", errs))
		return nil, validationError(errs)
	}

	// 2. Cek username & email belum dipakai
	if err := ensureAccountUnique(ctx, s.repo.Account, uuid.Nil, req.Username, req.Email); err != nil {
		return nil, err
	}

	// 3. Hash password
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// 4. Self-registration always yields a regular user
	now := time.Now()
	account := &entity.Account{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: hashedPassword,
		Role:         entity.RoleUser,
		IsActive:     true,
	}

	if err := s.repo.Account.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: username or email already registered", ErrConflict)
		}
		s.log.Error("Failed to create account", zap.Error(err), zap.String("username", req.Username))
		return nil, fmt.Errorf("register %s: %w", req.Username, err)
	}

	// 5. Auto login setelah register
	session, err := s.createSession(ctx, account.ID, client)
	if err != nil {
		s.log.Warn("Failed to create session after register",
			zap.Error(err), zap.String("user_id", account.ID.String()))
		// account exists, the user can still log in manually
	}

	s.log.Info("User registered",
		zap.String("user_id", account.ID.String()),
		zap.String("username", account.Username))

	resp := response.AuthToResponse(account, session)
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest, client ClientInfo) (*response.AuthResponse, error) {
	// 1. Validasi
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Login validation failed", zap.Any("errors", errs))
		return nil, validationError(errs)
	}

	// 2. Find by username, then by email
	account, err := s.repo.Account.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("login %s: %w", req.Username, err)
	}
	if account == nil && strings.Contains(req.Username, "@") {
		account, err = s.repo.Account.FindByEmail(ctx, req.Username)
		if err != nil {
			return nil, fmt.Errorf("login %s: %w", req.Username, err)
		}
	}

	// 3. Unknown user and wrong password look the same to the caller
	if account == nil || !utils.CheckPasswordHash(req.Password, account.PasswordHash) {
		s.log.Warn("Invalid login attempt", zap.String("identifier", req.Username))
		return nil, ErrInvalidCredentials
	}

	// 4. Check if account is active
	if !account.IsActive {
		s.log.Warn("Inactive account tried to login", zap.String("user_id", account.ID.String()))
		return nil, ErrAccountInactive
	}

	// 5. Create session
	session, err := s.createSession(ctx, account.ID, client)
	if err != nil {
		s.log.Error("Failed to create session", zap.Error(err), zap.String("user_id", account.ID.String()))
		return nil, err
	}

	s.log.Info("User logged in",
		zap.String("user_id", account.ID.String()),
		zap.String("username", account.Username))

	resp := response.AuthToResponse(account, session)
	return &resp, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	if err := s.repo.Session.Revoke(ctx, token); err != nil {
		s.log.Error("Failed to revoke session", zap.Error(err))
		return fmt.Errorf("logout: %w", err)
	}

	s.log.Info("User logged out")
	return nil
}

// CleanExpiredSessions is run periodically by the scheduler
func (s *authService) CleanExpiredSessions(ctx context.Context) (int64, error) {
	n, err := s.repo.Session.CleanExpiredSessions(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Info("Expired sessions removed", zap.Int64("count", n))
	}
	return n, nil
}

// ==================== HELPER METHODS ====================

func (s *authService) createSession(ctx context.Context, userID uuid.UUID, client ClientInfo) (*entity.Session, error) {
	expiry := s.config.Session.ExpiryHours
	if expiry <= 0 {
		expiry = 24
	}

	now := time.Now()
	session := &entity.Session{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		UserID:    userID,
		Token:     utils.GenerateSessionToken(),
		UserAgent: client.UserAgent,
		IPAddress: client.IPAddress,
		ExpiresAt: now.Add(time.Duration(expiry) * time.Hour),
	}

	if err := s.repo.Session.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return session, nil
}

// ensureAccountUnique reports ErrConflict when username or email belongs to
// an account other than self.
func ensureAccountUnique(ctx context.Context, accounts repository.AccountRepository, self uuid.UUID, username, email string) error {
	if username != "" {
		existing, err := accounts.FindByUsername(ctx, username)
		if err != nil {
			return fmt.Errorf("check username: %w", err)
		}
		if existing != nil && existing.ID != self {
			return fmt.Errorf("%w: username %q is already taken", ErrConflict, username)
		}
	}

	if email != "" {
		existing, err := accounts.FindByEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if existing != nil && existing.ID != self {
			return fmt.Errorf("%w: email %q is already registered", ErrConflict, email)
		}
	}

	return nil
}
