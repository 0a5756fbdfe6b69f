package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"portfolio-service/internal/core/domain"
	"portfolio-service/internal/core/ports/output"
)

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type commentRepo struct {
	pool *pgxpool.Pool
}

func NewCommentRepository(pool *pgxpool.Pool) ports.CommentRepository {
	return &commentRepo{pool: pool}
}

func (r *commentRepo) Create(ctx context.Context, comment *domain.Comment) error {
	query := `
		INSERT INTO comment (id, project_id, created_at, name, message, rating)
		VALUES ($1,$2,$3,$4,$5,$6)
	`
	_, err := r.pool.Exec(ctx, query,
		comment.ID, comment.ProjectID, comment.CreatedAt,
		comment.Name, comment.Message, comment.Rating,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return domain.ErrProjectNotFound
		}
		return fmt.Errorf("create comment: %w", mapConnError(err))
	}
	return nil
}

func (r *commentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	query := `
		SELECT id, project_id, created_at, name, message, rating
		FROM comment
		WHERE id = $1
	`
	c, err := scanComment(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, fmt.Errorf("get comment by id: %w", mapConnError(err))
	}
	return c, nil
}

func (r *commentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM comment WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", mapConnError(err))
	}
	if result.RowsAffected() == 0 {
		return domain.ErrCommentNotFound
	}
	return nil
}

func (r *commentRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Comment, error) {
	return listComments(ctx, r.pool, projectID)
}

// listComments returns a project's comments, newest first.
func listComments(ctx context.Context, q querier, projectID uuid.UUID) ([]*domain.Comment, error) {
	query := `
		SELECT id, project_id, created_at, name, message, rating
		FROM comment
		WHERE project_id = $1
		ORDER BY created_at DESC, id
	`
	rows, err := q.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", mapConnError(err))
	}
	defer rows.Close()

	comments := []*domain.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment row: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comment rows: %w", err)
	}
	return comments, nil
}

func scanComment(row pgx.Row) (*domain.Comment, error) {
	var c domain.Comment
	if err := row.Scan(&c.ID, &c.ProjectID, &c.CreatedAt, &c.Name, &c.Message, &c.Rating); err != nil {
		return nil, err
	}
	return &c, nil
}
