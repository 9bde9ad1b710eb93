package repository

import (
	"context"

	"newsdesk/internal/cache"
	"newsdesk/internal/models"

	"gorm.io/gorm"
)

// MediaRepository defines the interface for media library operations
type MediaRepository interface {
	Create(ctx context.Context, media *models.Media) error
	GetByID(ctx context.Context, id string) (*models.Media, error)
	List(ctx context.Context, limit, offset int) ([]*models.Media, error)
	Update(ctx context.Context, media *models.Media) error
	Delete(ctx context.Context, id string) error
}

type mediaRepository struct {
	db *gorm.DB
}

// NewMediaRepository creates a new media repository
func NewMediaRepository(db *gorm.DB) MediaRepository {
	return &mediaRepository{db: db}
}

func (r *mediaRepository) Create(ctx context.Context, media *models.Media) error {
	return r.db.WithContext(ctx).Create(media).Error
}

func (r *mediaRepository) GetByID(ctx context.Context, id string) (*models.Media, error) {
	var media models.Media
	err := cache.Aside(ctx, cache.MediaKey(id), &media, cache.MediaTTL, func() error {
		return r.db.WithContext(ctx).Preload("UploadedBy").First(&media, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &media, nil
}

func (r *mediaRepository) List(ctx context.Context, limit, offset int) ([]*models.Media, error) {
	var items []*models.Media
	err := r.db.WithContext(ctx).
		Preload("UploadedBy").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	return items, err
}

func (r *mediaRepository) Update(ctx context.Context, media *models.Media) error {
	if err := r.db.WithContext(ctx).Save(media).Error; err != nil {
		return err
	}
	cache.Invalidate(ctx, cache.MediaKey(media.ID))
	return nil
}

func (r *mediaRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&models.Media{}, "id = ?", id).Error; err != nil {
		return err
	}
	cache.Invalidate(ctx, cache.MediaKey(id))
	return nil
}
