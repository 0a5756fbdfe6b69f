package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"portfolio-service/internal/core/domain"
	"portfolio-service/internal/core/ports/output"
)

type CommentService struct {
	comments ports.CommentRepository
	projects ports.ProjectRepository
}

func NewCommentService(comments ports.CommentRepository, projects ports.ProjectRepository) *CommentService {
	return &CommentService{comments: comments, projects: projects}
}

func (s *CommentService) List(ctx context.Context, projectID uuid.UUID) ([]*domain.Comment, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []*domain.Comment{}
	}
	return comments, nil
}

// Add stores a visitor comment and refreshes the project's average rating.
func (s *CommentService) Add(ctx context.Context, projectID uuid.UUID, name, message string, rating int) (*domain.Comment, error) {
	name = strings.TrimSpace(name)
	message = strings.TrimSpace(message)
	if name == "" || message == "" {
		return nil, domain.ErrInvalidCommentFields
	}
	if rating < 1 || rating > 5 {
		return nil, domain.ErrInvalidCommentRating
	}

	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		ID:        uuid.New(),
		ProjectID: projectID,
		CreatedAt: time.Now(),
		Name:      name,
		Message:   message,
		Rating:    rating,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.refreshRating(ctx, projectID)
	return comment, nil
}

func (s *CommentService) Delete(ctx context.Context, id uuid.UUID) error {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.comments.Delete(ctx, id); err != nil {
		return err
	}
	s.refreshRating(ctx, comment.ProjectID)
	return nil
}

func (s *CommentService) refreshRating(ctx context.Context, projectID uuid.UUID) {
	if _, err := s.projects.RecomputeRating(ctx, projectID); err != nil {
		log.WithError(err).WithField("project_id", projectID).Warn("failed to recompute project rating")
	}
}
