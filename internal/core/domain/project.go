package domain

import (
	"time"

	"github.com/google/uuid"
)

type MediaType string

const (
	MediaTypeImage MediaType = "IMAGE"
	MediaTypeVideo MediaType = "VIDEO"
)

func (t MediaType) Valid() bool {
	return t == MediaTypeImage || t == MediaTypeVideo
}

type ProjectSort string

const (
	SortNewest   ProjectSort = "newest"
	SortOldest   ProjectSort = "oldest"
	SortFeatured ProjectSort = "featured"
	SortPopular  ProjectSort = "popular"
)

type Project struct {
	ID              uuid.UUID   `json:"id"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	Category        string      `json:"category"`
	Location        string      `json:"location"`
	CompletionDate  time.Time   `json:"completion_date"`
	Client          *string     `json:"client"`
	Featured        bool        `json:"featured"`
	ProjectDuration string      `json:"project_duration"`
	ProjectCost     string      `json:"project_cost"`
	Views           int         `json:"views"`
	Likes           int         `json:"likes"`
	Rating          float64     `json:"rating"`
	MediaItems      []MediaItem `json:"media_items"`
	Tags            []Tag       `json:"tags"`
	Materials       []Material  `json:"materials"`
	Comments        []Comment   `json:"comments,omitempty"`

	// Computed fields (populated by repository)
	CommentCount int `json:"comment_count"`
	MediaCount   int `json:"media_count"`
}

type MediaItem struct {
	ID          uuid.UUID `json:"id"`
	ProjectID   uuid.UUID `json:"project_id"`
	Type        MediaType `json:"type"`
	Src         string    `json:"src"`
	Thumbnail   string    `json:"thumbnail"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Duration    *float64  `json:"duration"`
	Order       int       `json:"order"`
}

type Tag struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"project_id"`
	Name      string    `json:"name"`
}

type Material struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"project_id"`
	Name      string    `json:"name"`
}

type Comment struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"project_id"`
	CreatedAt time.Time `json:"created_at"`
	Name      string    `json:"name"`
	Message   string    `json:"message"`
	Rating    int       `json:"rating"`
}

// ProjectInput carries the writable fields of a project. Create and Update
// both replace every child collection with the one given here.
type ProjectInput struct {
	Title           string
	Description     string
	Category        string
	Location        string
	CompletionDate  time.Time
	Client          *string
	Featured        bool
	ProjectDuration string
	ProjectCost     string
	MediaItems      []MediaItemInput
	Tags            []string
	Materials       []string
}

type MediaItemInput struct {
	Type        MediaType
	Src         string
	Thumbnail   string
	Title       string
	Description string
	Duration    *float64
}
