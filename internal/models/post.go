package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post statuses. Status filters are exact matches against these values;
// the stats buckets count each of them independently.
const (
	PostStatusPublished = "published"
	PostStatusDraft     = "draft"
	PostStatusArchived  = "archived"
)

// Post represents an editorial article managed through the dashboard.
type Post struct {
	ID             string        `gorm:"primaryKey;size:36" json:"id"`
	Title          string        `gorm:"not null" json:"title"`
	Slug           string        `gorm:"uniqueIndex;not null" json:"slug"`
	Content        string        `gorm:"type:text" json:"content"`
	Excerpt        string        `json:"excerpt"`
	Status         string        `gorm:"not null;default:draft;index" json:"status"`
	Views          int           `gorm:"not null;default:0" json:"views"`
	CommentsCount  int           `gorm:"not null;default:0" json:"comments_count"`
	PublishedAt    *time.Time    `json:"published_at,omitempty"`
	CreatedByID    string        `gorm:"size:36;not null;index" json:"created_by_id"`
	CreatedBy      *User         `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	OrganizationID *string       `gorm:"size:36;index" json:"organization_id,omitempty"`
	Organization   *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Categories     []Category    `gorm:"many2many:post_categories" json:"categories,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns an opaque document id; these ids double as pagination cursors.
func (p *Post) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// CategoryIDs returns the ids of the post's categories. Category filtering is
// a membership test over this set, evaluated in memory after the page fetch.
func (p *Post) CategoryIDs() []string {
	ids := make([]string, 0, len(p.Categories))
	for _, c := range p.Categories {
		ids = append(ids, c.ID)
	}
	return ids
}

// PostStats aggregates the full filtered corpus, not just the current page.
// The three status buckets are independent exact-match counts; statuses
// outside the known enum contribute to Total only.
type PostStats struct {
	Total     int `json:"total"`
	Published int `json:"published"`
	Drafts    int `json:"drafts"`
	Archived  int `json:"archived"`
	Views     int `json:"views"`
	Comments  int `json:"comments"`
}

// PostPage is one page of posts plus the aggregate stats for the whole
// filtered set. LastID is the opaque cursor for the next page.
type PostPage struct {
	Posts   []*Post   `json:"posts"`
	LastID  *string   `json:"lastId"`
	HasMore bool      `json:"hasMore"`
	Stats   PostStats `json:"stats"`
}
