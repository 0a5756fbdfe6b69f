package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"portfolio-service/internal/core/domain"
	"portfolio-service/internal/core/ports/output"
)

const projectColumns = `
	p.id, p.created_at, p.updated_at, p.title, p.description, p.category,
	p.location, p.completion_date, p.client, p.featured,
	p.project_duration, p.project_cost, p.views, p.likes, p.rating,
	(SELECT COUNT(*) FROM comment c WHERE c.project_id = p.id) AS comment_count,
	(SELECT COUNT(*) FROM media_item m WHERE m.project_id = p.id) AS media_count
`

type projectRepo struct {
	pool *pgxpool.Pool
}

func NewProjectRepository(pool *pgxpool.Pool) ports.ProjectRepository {
	return &projectRepo{pool: pool}
}

func (r *projectRepo) Create(ctx context.Context, project *domain.Project) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO project
				(id, created_at, updated_at, title, description, category, location,
				 completion_date, client, featured, project_duration, project_cost,
				 views, likes, rating)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		`
		_, err := tx.Exec(ctx, query,
			project.ID, project.CreatedAt, project.UpdatedAt,
			project.Title, project.Description, project.Category, project.Location,
			project.CompletionDate, project.Client, project.Featured,
			project.ProjectDuration, project.ProjectCost,
			project.Views, project.Likes, project.Rating,
		)
		if err != nil {
			return fmt.Errorf("insert project: %w", err)
		}
		return insertChildren(ctx, tx, project)
	})
	if err != nil {
		return fmt.Errorf("create project: %w", mapConnError(err))
	}
	return nil
}

func (r *projectRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	query := fmt.Sprintf(`SELECT %s FROM project p WHERE p.id = $1`, projectColumns)
	p, err := scanProject(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("get project by id: %w", mapConnError(err))
	}

	projects := []*domain.Project{p}
	if err := r.loadChildren(ctx, projects, 0, 0); err != nil {
		return nil, err
	}
	if err := r.loadComments(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update rewrites the project row and replaces every media item, tag and
// material. Comments and counters are left alone.
func (r *projectRepo) Update(ctx context.Context, project *domain.Project) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			UPDATE project
			SET title=$1, description=$2, category=$3, location=$4,
				completion_date=$5, client=$6, featured=$7,
				project_duration=$8, project_cost=$9, updated_at=$10
			WHERE id=$11
		`
		result, err := tx.Exec(ctx, query,
			project.Title, project.Description, project.Category, project.Location,
			project.CompletionDate, project.Client, project.Featured,
			project.ProjectDuration, project.ProjectCost, project.UpdatedAt,
			project.ID,
		)
		if err != nil {
			return fmt.Errorf("update project row: %w", err)
		}
		if result.RowsAffected() == 0 {
			return domain.ErrProjectNotFound
		}

		for _, table := range []string{"media_item", "project_tag", "project_material"} {
			if _, err := tx.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE project_id = $1", table), project.ID); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return insertChildren(ctx, tx, project)
	})
	if err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			return err
		}
		return fmt.Errorf("update project: %w", mapConnError(err))
	}
	return nil
}

func (r *projectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM project WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", mapConnError(err))
	}
	if result.RowsAffected() == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

func (r *projectRepo) List(ctx context.Context, filter ports.ProjectFilter) ([]*domain.Project, int, error) {
	whereClause, args := projectWhere(filter)
	argPos := len(args) + 1

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM project p WHERE %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count projects: %w", mapConnError(err))
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM project p
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, projectColumns, whereClause, projectOrder(filter.Sort), argPos, argPos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list projects: %w", mapConnError(err))
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan project row: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate project rows: %w", err)
	}

	if err := r.loadChildren(ctx, projects, filter.MediaLimit, filter.TagLimit); err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

func (r *projectRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM project`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count projects: %w", mapConnError(err))
	}
	return n, nil
}

func (r *projectRepo) IncrementViews(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `UPDATE project SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment project views: %w", mapConnError(err))
	}
	if result.RowsAffected() == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

func (r *projectRepo) IncrementLikes(ctx context.Context, id uuid.UUID) (int, error) {
	var likes int
	err := r.pool.QueryRow(ctx, `UPDATE project SET likes = likes + 1 WHERE id = $1 RETURNING likes`, id).Scan(&likes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrProjectNotFound
		}
		return 0, fmt.Errorf("increment project likes: %w", mapConnError(err))
	}
	return likes, nil
}

// RecomputeRating stores the average comment rating, rounded to one decimal,
// on the project row.
func (r *projectRepo) RecomputeRating(ctx context.Context, id uuid.UUID) (float64, error) {
	query := `
		UPDATE project
		SET rating = COALESCE(
			(SELECT ROUND(AVG(c.rating)::numeric, 1) FROM comment c WHERE c.project_id = $1),
			0)::double precision
		WHERE id = $1
		RETURNING rating
	`
	var rating float64
	if err := r.pool.QueryRow(ctx, query, id).Scan(&rating); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrProjectNotFound
		}
		return 0, fmt.Errorf("recompute project rating: %w", mapConnError(err))
	}
	return rating, nil
}

func projectWhere(filter ports.ProjectFilter) (string, []interface{}) {
	conditions := []string{}
	args := []interface{}{}
	argPos := 1

	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("p.category = $%d", argPos))
		args = append(args, filter.Category)
		argPos++
	}
	if filter.Featured != nil {
		conditions = append(conditions, fmt.Sprintf("p.featured = $%d", argPos))
		args = append(args, *filter.Featured)
		argPos++
	}
	if len(filter.ExcludeIDs) > 0 {
		conditions = append(conditions, fmt.Sprintf("NOT (p.id = ANY($%d::uuid[]))", argPos))
		args = append(args, uuidStrings(filter.ExcludeIDs))
	}

	if len(conditions) == 0 {
		return "1=1", args
	}
	return strings.Join(conditions, " AND "), args
}

func projectOrder(sort domain.ProjectSort) string {
	switch sort {
	case domain.SortNewest:
		return "p.created_at DESC, p.id"
	case domain.SortOldest:
		return "p.created_at ASC, p.id"
	case domain.SortPopular:
		return "p.views DESC, p.likes DESC, p.created_at DESC, p.id"
	default:
		return "p.featured DESC, p.created_at DESC, p.id"
	}
}

func insertChildren(ctx context.Context, tx pgx.Tx, project *domain.Project) error {
	batch := &pgx.Batch{}
	for _, m := range project.MediaItems {
		batch.Queue(`
			INSERT INTO media_item
				(id, project_id, type, src, thumbnail, title, description, duration, sort_order)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		`, m.ID, project.ID, string(m.Type), m.Src, m.Thumbnail, m.Title, m.Description, m.Duration, m.Order)
	}
	for _, t := range project.Tags {
		batch.Queue(`INSERT INTO project_tag (id, project_id, name) VALUES ($1,$2,$3)`, t.ID, project.ID, t.Name)
	}
	for _, m := range project.Materials {
		batch.Queue(`INSERT INTO project_material (id, project_id, name) VALUES ($1,$2,$3)`, m.ID, project.ID, m.Name)
	}
	if batch.Len() == 0 {
		return nil
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert project children: %w", err)
	}
	return nil
}

// loadChildren fills media items, tags and materials for every project with
// one query per child table. A positive mediaLimit or tagLimit caps the rows
// loaded per project.
func (r *projectRepo) loadChildren(ctx context.Context, projects []*domain.Project, mediaLimit, tagLimit int) error {
	if len(projects) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*domain.Project, len(projects))
	ids := make([]uuid.UUID, 0, len(projects))
	for _, p := range projects {
		p.MediaItems = []domain.MediaItem{}
		p.Tags = []domain.Tag{}
		p.Materials = []domain.Material{}
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}
	idArg := uuidStrings(ids)

	mediaQuery := `
		SELECT id, project_id, type, src, thumbnail, title, description, duration, sort_order
		FROM (
			SELECT m.*, ROW_NUMBER() OVER (PARTITION BY m.project_id ORDER BY m.sort_order, m.id) AS rn
			FROM media_item m
			WHERE m.project_id = ANY($1::uuid[])
		) ranked
		WHERE $2 = 0 OR rn <= $2
		ORDER BY project_id, sort_order, id
	`
	rows, err := r.pool.Query(ctx, mediaQuery, idArg, mediaLimit)
	if err != nil {
		return fmt.Errorf("load media items: %w", mapConnError(err))
	}
	for rows.Next() {
		var m domain.MediaItem
		var mediaType string
		if err := rows.Scan(&m.ID, &m.ProjectID, &mediaType, &m.Src, &m.Thumbnail,
			&m.Title, &m.Description, &m.Duration, &m.Order); err != nil {
			rows.Close()
			return fmt.Errorf("scan media item: %w", err)
		}
		m.Type = domain.MediaType(mediaType)
		if p, ok := byID[m.ProjectID]; ok {
			p.MediaItems = append(p.MediaItems, m)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate media items: %w", err)
	}

	tagQuery := `
		SELECT id, project_id, name
		FROM (
			SELECT t.*, ROW_NUMBER() OVER (PARTITION BY t.project_id ORDER BY t.name) AS rn
			FROM project_tag t
			WHERE t.project_id = ANY($1::uuid[])
		) ranked
		WHERE $2 = 0 OR rn <= $2
		ORDER BY project_id, name
	`
	tags, err := r.loadNamed(ctx, tagQuery, idArg, tagLimit)
	if err != nil {
		return fmt.Errorf("load tags: %w", err)
	}
	for _, t := range tags {
		if p, ok := byID[t.projectID]; ok {
			p.Tags = append(p.Tags, domain.Tag{ID: t.id, ProjectID: t.projectID, Name: t.name})
		}
	}

	materialQuery := `
		SELECT id, project_id, name
		FROM project_material
		WHERE project_id = ANY($1::uuid[])
		ORDER BY project_id, name
	`
	materials, err := r.loadNamed(ctx, materialQuery, idArg)
	if err != nil {
		return fmt.Errorf("load materials: %w", err)
	}
	for _, m := range materials {
		if p, ok := byID[m.projectID]; ok {
			p.Materials = append(p.Materials, domain.Material{ID: m.id, ProjectID: m.projectID, Name: m.name})
		}
	}
	return nil
}

type namedRow struct {
	id        uuid.UUID
	projectID uuid.UUID
	name      string
}

func (r *projectRepo) loadNamed(ctx context.Context, query string, args ...interface{}) ([]namedRow, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapConnError(err)
	}
	defer rows.Close()

	var out []namedRow
	for rows.Next() {
		var n namedRow
		if err := rows.Scan(&n.id, &n.projectID, &n.name); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *projectRepo) loadComments(ctx context.Context, p *domain.Project) error {
	comments, err := listComments(ctx, r.pool, p.ID)
	if err != nil {
		return err
	}
	p.Comments = make([]domain.Comment, 0, len(comments))
	for _, c := range comments {
		p.Comments = append(p.Comments, *c)
	}
	return nil
}

func scanProject(row pgx.Row) (*domain.Project, error) {
	var p domain.Project
	err := row.Scan(
		&p.ID, &p.CreatedAt, &p.UpdatedAt, &p.Title, &p.Description, &p.Category,
		&p.Location, &p.CompletionDate, &p.Client, &p.Featured,
		&p.ProjectDuration, &p.ProjectCost, &p.Views, &p.Likes, &p.Rating,
		&p.CommentCount, &p.MediaCount,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
