package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Job statuses.
const (
	JobStatusOpen   = "open"
	JobStatusClosed = "closed"
	JobStatusDraft  = "draft"
)

// Job represents a job listing managed through the dashboard.
type Job struct {
	ID             string        `gorm:"primaryKey;size:36" json:"id"`
	Title          string        `gorm:"not null" json:"title"`
	Slug           string        `gorm:"uniqueIndex;not null" json:"slug"`
	Description    string        `gorm:"type:text" json:"description"`
	Location       string        `json:"location"`
	Status         string        `gorm:"not null;default:draft;index" json:"status"`
	Views          int           `gorm:"not null;default:0" json:"views"`
	Applications   int           `gorm:"not null;default:0" json:"applications"`
	PublishedAt    *time.Time    `json:"published_at,omitempty"`
	CreatedByID    string        `gorm:"size:36;not null;index" json:"created_by_id"`
	CreatedBy      *User         `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	OrganizationID *string       `gorm:"size:36;index" json:"organization_id,omitempty"`
	Organization   *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns an opaque document id; these ids double as pagination cursors.
func (j *Job) BeforeCreate(_ *gorm.DB) error {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	return nil
}

// JobStats aggregates the full filtered corpus, not just the current page.
type JobStats struct {
	Total        int `json:"total"`
	Open         int `json:"open"`
	Closed       int `json:"closed"`
	Drafts       int `json:"drafts"`
	Views        int `json:"views"`
	Applications int `json:"applications"`
}

// JobPage is one page of jobs plus the aggregate stats for the whole filtered set.
type JobPage struct {
	Jobs    []*Job   `json:"jobs"`
	LastID  *string  `json:"lastId"`
	HasMore bool     `json:"hasMore"`
	Stats   JobStats `json:"stats"`
}
