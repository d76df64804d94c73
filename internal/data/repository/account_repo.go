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

type AccountRepository interface {
	Create(ctx context.Context, account *entity.Account) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error)
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)
	FindByUsername(ctx context.Context, username string) (*entity.Account, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.Account, error)
	CountAll(ctx context.Context) (int64, error)
	Update(ctx context.Context, account *entity.Account) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type accountRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewAccountRepository(db database.PgxIface, log *zap.Logger) AccountRepository {
	return &accountRepository{
		db:  db,
		log: log.With(zap.String("repository", "account")),
	}
}

const accountColumns = `id, username, email, password, role, is_active, created_at, updated_at`

func scanAccount(row scanner) (*entity.Account, error) {
	var a entity.Account
	err := row.Scan(
		&a.ID,
		&a.Username,
		&a.Email,
		&a.PasswordHash,
		&a.Role,
		&a.IsActive,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a new account record into the database
func (r *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	query := `
		INSERT INTO accounts (id, username, email, password, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := database.Conn(ctx, r.db).Exec(ctx, query,
		account.ID,
		account.Username,
		account.Email,
		account.PasswordHash,
		account.Role,
		account.IsActive,
		account.CreatedAt,
		account.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create account %s: %w", account.Username, ErrDuplicate)
		}
		r.log.Error("Failed to create account",
			zap.Error(err),
			zap.String("email", account.Email),
			zap.String("username", account.Username),
		)
		return fmt.Errorf("create account %s: %w", account.Username, err)
	}

	return nil
}

func (r *accountRepository) findOne(ctx context.Context, where string, arg any) (*entity.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE ` + where

	account, err := scanAccount(database.Conn(ctx, r.db).QueryRow(ctx, query, arg))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find account", zap.Error(err), zap.Any("key", arg))
		return nil, fmt.Errorf("find account by %v: %w", arg, err)
	}
	return account, nil
}

func (r *accountRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	return r.findOne(ctx, "id = $1", id)
}

// FindByEmail matches case-insensitively
func (r *accountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	return r.findOne(ctx, "LOWER(email) = LOWER($1)", email)
}

func (r *accountRepository) FindByUsername(ctx context.Context, username string) (*entity.Account, error) {
	return r.findOne(ctx, "username = $1", username)
}

func (r *accountRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to list accounts", zap.Error(err))
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*entity.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}

	return accounts, nil
}

func (r *accountRepository) CountAll(ctx context.Context) (int64, error) {
	var total int64
	if err := database.Conn(ctx, r.db).QueryRow(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&total); err != nil {
		r.log.Error("Failed to count accounts", zap.Error(err))
		return 0, fmt.Errorf("count accounts: %w", err)
	}
	return total, nil
}

func (r *accountRepository) Update(ctx context.Context, account *entity.Account) error {
	query := `
		UPDATE accounts
		SET username = $2, email = $3, password = $4, role = $5, is_active = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query,
		account.ID,
		account.Username,
		account.Email,
		account.PasswordHash,
		account.Role,
		account.IsActive,
		account.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("update account %s: %w", account.ID, ErrDuplicate)
		}
		r.log.Error("Failed to update account",
			zap.Error(err),
			zap.String("account_id", account.ID.String()),
		)
		return fmt.Errorf("update account %s: %w", account.ID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update account %s: %w", account.ID, pgx.ErrNoRows)
	}

	return nil
}

// Delete removes the account; sessions, bookings and reviews cascade
func (r *accountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := database.Conn(ctx, r.db).Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete account",
			zap.Error(err),
			zap.String("account_id", id.String()),
		)
		return fmt.Errorf("delete account %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete account %s: %w", id, pgx.ErrNoRows)
	}

	r.log.Info("Account deleted", zap.String("account_id", id.String()))
	return nil
}
