package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"portfolio-service/internal/core/domain"
	"portfolio-service/internal/core/ports/output"
)

type adminRepo struct {
	pool *pgxpool.Pool
}

func NewAdminRepository(pool *pgxpool.Pool) ports.AdminRepository {
	return &adminRepo{pool: pool}
}

func (r *adminRepo) Create(ctx context.Context, admin *domain.Admin) error {
	query := `
		INSERT INTO admin (id, created_at, username, email, password_hash)
		VALUES ($1,$2,$3,$4,$5)
	`
	_, err := r.pool.Exec(ctx, query, admin.ID, admin.CreatedAt, admin.Username, admin.Email, admin.PasswordHash)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAdminNameConflict
		}
		return fmt.Errorf("create admin: %w", mapConnError(err))
	}
	return nil
}

func (r *adminRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Admin, error) {
	return r.getOne(ctx, "id = $1", id)
}

func (r *adminRepo) GetByUsername(ctx context.Context, username string) (*domain.Admin, error) {
	return r.getOne(ctx, "username = $1", username)
}

func (r *adminRepo) getOne(ctx context.Context, where string, arg interface{}) (*domain.Admin, error) {
	query := fmt.Sprintf(`
		SELECT id, created_at, username, email, password_hash, last_login
		FROM admin
		WHERE %s
	`, where)

	var a domain.Admin
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&a.ID, &a.CreatedAt, &a.Username, &a.Email, &a.PasswordHash, &a.LastLogin,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAdminNotFound
		}
		return nil, fmt.Errorf("get admin: %w", mapConnError(err))
	}
	return &a, nil
}

func (r *adminRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM admin`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count admins: %w", mapConnError(err))
	}
	return n, nil
}

func (r *adminRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `UPDATE admin SET last_login = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("update admin last login: %w", mapConnError(err))
	}
	if result.RowsAffected() == 0 {
		return domain.ErrAdminNotFound
	}
	return nil
}

func (r *adminRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	result, err := r.pool.Exec(ctx, `UPDATE admin SET password_hash = $1 WHERE id = $2`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("update admin password: %w", mapConnError(err))
	}
	if result.RowsAffected() == 0 {
		return domain.ErrAdminNotFound
	}
	return nil
}
