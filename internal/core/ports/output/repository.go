package ports

import (
	"context"

	"github.com/google/uuid"

	"portfolio-service/internal/core/domain"
)

type ProjectFilter struct {
	Category   string
	Featured   *bool
	ExcludeIDs []uuid.UUID
	Sort       domain.ProjectSort
	Limit      int
	Offset     int

	// MediaLimit and TagLimit cap the child rows loaded per project; zero
	// loads all of them.
	MediaLimit int
	TagLimit   int
}

type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error)
	Update(ctx context.Context, project *domain.Project) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter ProjectFilter) ([]*domain.Project, int, error)
	Count(ctx context.Context) (int, error)
	IncrementViews(ctx context.Context, id uuid.UUID) error
	IncrementLikes(ctx context.Context, id uuid.UUID) (int, error)
	RecomputeRating(ctx context.Context, id uuid.UUID) (float64, error)
}

type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Comment, error)
}

type AdminRepository interface {
	Create(ctx context.Context, admin *domain.Admin) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Admin, error)
	GetByUsername(ctx context.Context, username string) (*domain.Admin, error)
	Count(ctx context.Context) (int, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}
