package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"portfolio-service/internal/core/domain"
	"portfolio-service/internal/core/ports/output"
)

const (
	defaultProjectLimit  = 12
	maxProjectLimit      = 1000
	defaultFeaturedLimit = 8
	maxFeaturedLimit     = 20
	featuredMediaLimit   = 2
	featuredTagLimit     = 3
)

type ProjectQuery struct {
	Category     string
	FeaturedOnly bool
	Sort         string
	Limit        int
	Page         int
}

type ProjectPage struct {
	Projects   []*domain.Project
	Total      int
	Page       int
	Limit      int
	TotalPages int
}

type ProjectService struct {
	repo         ports.ProjectRepository
	queryTimeout time.Duration
	now          func() time.Time
}

func NewProjectService(repo ports.ProjectRepository, queryTimeout time.Duration) *ProjectService {
	return &ProjectService{repo: repo, queryTimeout: queryTimeout, now: time.Now}
}

func (s *ProjectService) List(ctx context.Context, q ProjectQuery) (*ProjectPage, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultProjectLimit
	}
	if limit > maxProjectLimit {
		limit = maxProjectLimit
	}
	page := q.Page
	if page < 1 {
		page = 1
	}

	filter := ports.ProjectFilter{
		Sort:   normalizeSort(q.Sort),
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
	if c := strings.TrimSpace(q.Category); c != "" && c != "all" {
		filter.Category = c
	}
	if q.FeaturedOnly {
		featured := true
		filter.Featured = &featured
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	projects, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if projects == nil {
		projects = []*domain.Project{}
	}

	return &ProjectPage{
		Projects:   projects,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + limit - 1) / limit,
	}, nil
}

// Featured returns up to limit projects for the home page: featured ones
// first, then the newest regular projects to fill the remaining slots.
func (s *ProjectService) Featured(ctx context.Context, limit int) ([]*domain.Project, error) {
	if limit <= 0 {
		limit = defaultFeaturedLimit
	}
	if limit > maxFeaturedLimit {
		limit = maxFeaturedLimit
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	featured := true
	projects, _, err := s.repo.List(ctx, ports.ProjectFilter{
		Featured:   &featured,
		Sort:       domain.SortFeatured,
		Limit:      limit,
		MediaLimit: featuredMediaLimit,
		TagLimit:   featuredTagLimit,
	})
	if err != nil {
		return nil, err
	}

	if len(projects) < limit {
		exclude := make([]uuid.UUID, 0, len(projects))
		for _, p := range projects {
			exclude = append(exclude, p.ID)
		}
		regular := false
		rest, _, err := s.repo.List(ctx, ports.ProjectFilter{
			Featured:   &regular,
			ExcludeIDs: exclude,
			Sort:       domain.SortNewest,
			Limit:      limit - len(projects),
			MediaLimit: featuredMediaLimit,
			TagLimit:   featuredTagLimit,
		})
		if err != nil {
			return nil, err
		}
		projects = append(projects, rest...)
	}

	return diversifyByCategory(projects, limit), nil
}

// Get loads a project with all children and records a view.
func (s *ProjectService) Get(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.IncrementViews(ctx, id); err != nil {
		log.WithError(err).WithField("project_id", id).Warn("failed to increment project views")
	}
	return project, nil
}

func (s *ProjectService) Create(ctx context.Context, in domain.ProjectInput) (*domain.Project, error) {
	if err := validateProjectInput(&in); err != nil {
		return nil, err
	}

	now := s.now()
	project := &domain.Project{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyProjectInput(project, in, now)

	if err := s.repo.Create(ctx, project); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"project_id":  project.ID,
		"title":       project.Title,
		"media_count": len(project.MediaItems),
	}).Info("project created")

	return s.repo.GetByID(ctx, project.ID)
}

// Update replaces the project's fields and all of its media, tags and
// materials. Counters (views, likes, rating) and comments are preserved.
func (s *ProjectService) Update(ctx context.Context, id uuid.UUID, in domain.ProjectInput) (*domain.Project, error) {
	if err := validateProjectInput(&in); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.CompletionDate.IsZero() {
		in.CompletionDate = existing.CompletionDate
	}

	now := s.now()
	existing.UpdatedAt = now
	applyProjectInput(existing, in, now)

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

// Delete removes the project and everything attached to it, returning the
// project as it was before deletion.
func (s *ProjectService) Delete(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"project_id": id,
		"title":      existing.Title,
	}).Info("project deleted")

	return existing, nil
}

func (s *ProjectService) Like(ctx context.Context, id uuid.UUID) (int, error) {
	return s.repo.IncrementLikes(ctx, id)
}

func (s *ProjectService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.queryTimeout)
}

// diversifyByCategory puts the first project of every category ahead of the
// rest, keeping the original order within each pass, capped at limit.
func diversifyByCategory(projects []*domain.Project, limit int) []*domain.Project {
	out := make([]*domain.Project, 0, min(len(projects), limit))
	picked := make(map[uuid.UUID]struct{}, len(projects))
	seen := make(map[string]struct{})

	for _, p := range projects {
		if len(out) >= limit {
			break
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		picked[p.ID] = struct{}{}
		out = append(out, p)
	}
	for _, p := range projects {
		if len(out) >= limit {
			break
		}
		if _, ok := picked[p.ID]; ok {
			continue
		}
		out = append(out, p)
	}
	return out
}

func normalizeSort(raw string) domain.ProjectSort {
	switch domain.ProjectSort(strings.ToLower(strings.TrimSpace(raw))) {
	case domain.SortNewest:
		return domain.SortNewest
	case domain.SortOldest:
		return domain.SortOldest
	case domain.SortPopular:
		return domain.SortPopular
	default:
		return domain.SortFeatured
	}
}

func validateProjectInput(in *domain.ProjectInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	in.Location = strings.TrimSpace(in.Location)

	if in.Title == "" || in.Description == "" || in.Category == "" || in.Location == "" {
		return domain.ErrMissingProjectFields
	}

	for i, item := range in.MediaItems {
		if strings.TrimSpace(item.Src) == "" {
			return fmt.Errorf("media item %d: %w", i+1, domain.ErrMediaItemMissingSrc)
		}
		if !item.Type.Valid() {
			return fmt.Errorf("media item %d: %w", i+1, domain.ErrInvalidMediaType)
		}
	}
	return nil
}

func applyProjectInput(p *domain.Project, in domain.ProjectInput, now time.Time) {
	p.Title = in.Title
	p.Description = in.Description
	p.Category = in.Category
	p.Location = in.Location
	p.CompletionDate = in.CompletionDate
	if p.CompletionDate.IsZero() {
		p.CompletionDate = now.UTC().Truncate(24 * time.Hour)
	}
	p.Client = nil
	if in.Client != nil {
		if c := strings.TrimSpace(*in.Client); c != "" {
			p.Client = &c
		}
	}
	p.Featured = in.Featured
	p.ProjectDuration = strings.TrimSpace(in.ProjectDuration)
	p.ProjectCost = strings.TrimSpace(in.ProjectCost)

	p.MediaItems = make([]domain.MediaItem, 0, len(in.MediaItems))
	for i, item := range in.MediaItems {
		src := strings.TrimSpace(item.Src)
		thumb := strings.TrimSpace(item.Thumbnail)
		if thumb == "" {
			thumb = src
		}
		title := strings.TrimSpace(item.Title)
		if title == "" {
			title = fmt.Sprintf("File %d", i+1)
		}
		p.MediaItems = append(p.MediaItems, domain.MediaItem{
			ID:          uuid.New(),
			ProjectID:   p.ID,
			Type:        item.Type,
			Src:         src,
			Thumbnail:   thumb,
			Title:       title,
			Description: strings.TrimSpace(item.Description),
			Duration:    item.Duration,
			Order:       i,
		})
	}

	p.Tags = make([]domain.Tag, 0, len(in.Tags))
	for _, name := range uniqueNames(in.Tags) {
		p.Tags = append(p.Tags, domain.Tag{ID: uuid.New(), ProjectID: p.ID, Name: name})
	}

	p.Materials = make([]domain.Material, 0, len(in.Materials))
	for _, name := range uniqueNames(in.Materials) {
		p.Materials = append(p.Materials, domain.Material{ID: uuid.New(), ProjectID: p.ID, Name: name})
	}
}

func uniqueNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
