package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Media is a library entry describing an already-uploaded asset.
// Upload and image processing happen outside this service; only the
// metadata is managed here.
type Media struct {
	ID           string         `gorm:"primaryKey;size:36" json:"id"`
	FileName     string         `gorm:"not null" json:"file_name"`
	URL          string         `gorm:"not null" json:"url"`
	MimeType     string         `json:"mime_type"`
	SizeBytes    int64          `json:"size_bytes"`
	AltText      string         `json:"alt_text"`
	UploadedByID string         `gorm:"size:36;index" json:"uploaded_by_id"`
	UploadedBy   *User          `gorm:"foreignKey:UploadedByID" json:"uploaded_by,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (m *Media) BeforeCreate(_ *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
