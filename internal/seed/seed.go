// Package seed loads the bundled sample catalogue into an empty database.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"portfolio-service/internal/core/domain"
)

//go:embed projects.yaml
var projectsYAML []byte

type seedProject struct {
	Title           string      `yaml:"title"`
	Description     string      `yaml:"description"`
	Category        string      `yaml:"category"`
	Location        string      `yaml:"location"`
	CompletionDate  string      `yaml:"completion_date"`
	Client          string      `yaml:"client"`
	Featured        bool        `yaml:"featured"`
	ProjectDuration string      `yaml:"project_duration"`
	ProjectCost     string      `yaml:"project_cost"`
	Media           []seedMedia `yaml:"media"`
	Tags            []string    `yaml:"tags"`
	Materials       []string    `yaml:"materials"`
}

type seedMedia struct {
	Type        string   `yaml:"type"`
	Src         string   `yaml:"src"`
	Thumbnail   string   `yaml:"thumbnail"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Duration    *float64 `yaml:"duration"`
}

// ProjectCreator is satisfied by *services.ProjectService.
type ProjectCreator interface {
	Create(ctx context.Context, in domain.ProjectInput) (*domain.Project, error)
}

// ProjectCounter is satisfied by the project repository.
type ProjectCounter interface {
	Count(ctx context.Context) (int, error)
}

// Load decodes the embedded sample projects.
func Load() ([]domain.ProjectInput, error) {
	return decode(projectsYAML)
}

func decode(data []byte) ([]domain.ProjectInput, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var raw []seedProject
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode seed projects: %w", err)
	}

	out := make([]domain.ProjectInput, 0, len(raw))
	for i, p := range raw {
		in, err := p.toInput()
		if err != nil {
			return nil, fmt.Errorf("seed project %d (%s): %w", i, p.Title, err)
		}
		out = append(out, in)
	}
	return out, nil
}

func (p seedProject) toInput() (domain.ProjectInput, error) {
	in := domain.ProjectInput{
		Title:           p.Title,
		Description:     strings.TrimSpace(p.Description),
		Category:        p.Category,
		Location:        p.Location,
		Featured:        p.Featured,
		ProjectDuration: p.ProjectDuration,
		ProjectCost:     p.ProjectCost,
		Tags:            p.Tags,
		Materials:       p.Materials,
	}
	if p.Client != "" {
		client := p.Client
		in.Client = &client
	}
	if p.CompletionDate != "" {
		date, err := time.Parse("2006-01-02", p.CompletionDate)
		if err != nil {
			return domain.ProjectInput{}, domain.ErrInvalidCompletionDate
		}
		in.CompletionDate = date
	}
	for _, m := range p.Media {
		in.MediaItems = append(in.MediaItems, domain.MediaItemInput{
			Type:        domain.MediaType(strings.ToUpper(m.Type)),
			Src:         m.Src,
			Thumbnail:   m.Thumbnail,
			Title:       m.Title,
			Description: m.Description,
			Duration:    m.Duration,
		})
	}
	return in, nil
}

// Run inserts the sample projects. Unless force is set it does nothing when
// the catalogue already has projects. It returns how many were created.
func Run(ctx context.Context, counter ProjectCounter, creator ProjectCreator, force bool) (int, error) {
	if !force {
		count, err := counter.Count(ctx)
		if err != nil {
			return 0, fmt.Errorf("count projects: %w", err)
		}
		if count > 0 {
			log.WithField("existing", count).Info("catalogue not empty, skipping seed")
			return 0, nil
		}
	}

	projects, err := Load()
	if err != nil {
		return 0, err
	}

	created := 0
	for _, in := range projects {
		p, err := creator.Create(ctx, in)
		if err != nil {
			return created, fmt.Errorf("create %q: %w", in.Title, err)
		}
		created++
		log.WithFields(log.Fields{"project_id": p.ID, "title": p.Title}).Info("seeded project")
	}
	return created, nil
}
