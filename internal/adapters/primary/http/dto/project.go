package dto

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"portfolio-service/internal/core/domain"
)

// NamedValue is a tag or material name. It accepts either a bare string or
// an object with a name field.
type NamedValue string

func (n *NamedValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var obj struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*n = NamedValue(obj.Name)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*n = NamedValue(s)
	return nil
}

type MediaItemRequest struct {
	Type        string   `json:"type"`
	Src         string   `json:"src"`
	Thumbnail   string   `json:"thumbnail"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Duration    *float64 `json:"duration"`
}

type ProjectRequest struct {
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	Category        string             `json:"category"`
	Location        string             `json:"location"`
	CompletionDate  string             `json:"completionDate"`
	Client          *string            `json:"client"`
	Featured        bool               `json:"featured"`
	ProjectDuration string             `json:"projectDuration"`
	ProjectCost     string             `json:"projectCost"`
	MediaItems      []MediaItemRequest `json:"mediaItems"`
	Tags            []NamedValue       `json:"tags"`
	Materials       []NamedValue       `json:"materials"`
}

// ToInput converts the request body into service input. An empty completion
// date is left zero for the service to default.
func (r *ProjectRequest) ToInput() (domain.ProjectInput, error) {
	in := domain.ProjectInput{
		Title:           r.Title,
		Description:     r.Description,
		Category:        r.Category,
		Location:        r.Location,
		Client:          r.Client,
		Featured:        r.Featured,
		ProjectDuration: r.ProjectDuration,
		ProjectCost:     r.ProjectCost,
	}

	if raw := strings.TrimSpace(r.CompletionDate); raw != "" {
		date, err := parseDate(raw)
		if err != nil {
			return domain.ProjectInput{}, domain.ErrInvalidCompletionDate
		}
		in.CompletionDate = date
	}

	in.MediaItems = make([]domain.MediaItemInput, 0, len(r.MediaItems))
	for _, m := range r.MediaItems {
		in.MediaItems = append(in.MediaItems, domain.MediaItemInput{
			Type:        domain.MediaType(strings.ToUpper(strings.TrimSpace(m.Type))),
			Src:         m.Src,
			Thumbnail:   m.Thumbnail,
			Title:       m.Title,
			Description: m.Description,
			Duration:    m.Duration,
		})
	}

	in.Tags = namesOf(r.Tags)
	in.Materials = namesOf(r.Materials)
	return in, nil
}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, domain.ErrInvalidCompletionDate
}

func namesOf(values []NamedValue) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, string(v))
	}
	return out
}

type CreateCommentRequest struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	Rating  int    `json:"rating"`
}

type MediaItemResponse struct {
	ID          uuid.UUID `json:"id"`
	Type        string    `json:"type"`
	Src         string    `json:"src"`
	Thumbnail   string    `json:"thumbnail"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Duration    *float64  `json:"duration"`
	Order       int       `json:"order"`
}

type NameResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type CommentResponse struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"projectId"`
	Name      string    `json:"name"`
	Message   string    `json:"message"`
	Rating    int       `json:"rating"`
	CreatedAt string    `json:"createdAt"`
}

type CountResponse struct {
	Comments   int `json:"comments"`
	MediaItems int `json:"mediaItems"`
}

type ProjectResponse struct {
	ID              uuid.UUID           `json:"id"`
	Title           string              `json:"title"`
	Description     string              `json:"description"`
	Category        string              `json:"category"`
	Location        string              `json:"location"`
	CompletionDate  string              `json:"completionDate"`
	Client          *string             `json:"client"`
	Featured        bool                `json:"featured"`
	ProjectDuration string              `json:"projectDuration"`
	ProjectCost     string              `json:"projectCost"`
	Views           int                 `json:"views"`
	Likes           int                 `json:"likes"`
	Rating          float64             `json:"rating"`
	CreatedAt       string              `json:"createdAt"`
	UpdatedAt       string              `json:"updatedAt"`
	MediaItems      []MediaItemResponse `json:"mediaItems"`
	Tags            []NameResponse      `json:"tags"`
	Materials       []NameResponse      `json:"materials"`
	Comments        []CommentResponse   `json:"comments,omitempty"`
	Count           CountResponse       `json:"_count"`
}

type PaginationResponse struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

type ListProjectsResponse struct {
	Success    bool               `json:"success"`
	Projects   []ProjectResponse  `json:"projects"`
	Total      int                `json:"total"`
	Pagination PaginationResponse `json:"pagination"`
}

type PerformanceResponse struct {
	QueryTime int64 `json:"queryTime"`
	Cached    bool  `json:"cached"`
}

type FeaturedProjectsResponse struct {
	Success     bool                `json:"success"`
	Projects    []ProjectResponse   `json:"projects"`
	Count       int                 `json:"count"`
	Performance PerformanceResponse `json:"performance"`
}

type DeletedProjectResponse struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}
