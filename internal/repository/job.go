package repository

import (
	"context"
	"errors"

	"newsdesk/internal/cache"
	"newsdesk/internal/models"
	"newsdesk/internal/observability"
	"newsdesk/internal/query"

	"gorm.io/gorm"
)

// JobRepository defines the interface for job listing data operations
type JobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	GetByID(ctx context.Context, id string) (*models.Job, error)
	ListPage(ctx context.Context, spec query.Spec) (*models.JobPage, error)
	Update(ctx context.Context, job *models.Job) error
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
}

type jobRepository struct {
	db *gorm.DB
}

// NewJobRepository creates a new job repository
func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) Create(ctx context.Context, job *models.Job) error {
	defer observability.TrackQuery("create", "jobs")()
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *jobRepository) GetByID(ctx context.Context, id string) (*models.Job, error) {
	var job models.Job
	err := cache.Aside(ctx, cache.JobKey(id), &job, cache.JobTTL, func() error {
		return r.db.WithContext(ctx).
			Preload("CreatedBy").
			Preload("Organization").
			First(&job, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// ListPage is the jobs variant of the two-pass list composition. It mirrors
// the posts version minus the category filter, which jobs do not carry.
func (r *jobRepository) ListPage(ctx context.Context, spec query.Spec) (*models.JobPage, error) {
	page, err := r.fetchPage(ctx, spec)
	if err != nil {
		return nil, models.NewFetchFailedError(err)
	}

	stats, err := r.fetchStats(ctx, spec)
	if err != nil {
		return nil, models.NewFetchFailedError(err)
	}

	page.Stats = stats
	return page, nil
}

func (r *jobRepository) fetchPage(ctx context.Context, spec query.Spec) (*models.JobPage, error) {
	defer observability.TrackListQuery("jobs", "page")()

	db := r.db.WithContext(ctx).Preload("CreatedBy").Preload("Organization")

	if spec.CreatedBy != "" {
		db = db.Where("created_by_id = ?", spec.CreatedBy)
	}
	if spec.Status != "" {
		db = db.Where("status = ?", spec.Status)
	}
	db = applyJobSort(db, spec.Sort)

	db, err := r.applyCursor(ctx, db, spec)
	if err != nil {
		return nil, err
	}

	var rows []*models.Job
	if err := db.Limit(spec.Limit + 1).Find(&rows).Error; err != nil {
		return nil, err
	}

	hasMore := len(rows) > spec.Limit
	if hasMore {
		rows = rows[:spec.Limit]
	}

	var lastID *string
	if len(rows) > 0 {
		id := rows[len(rows)-1].ID
		lastID = &id
	}

	return &models.JobPage{
		Jobs:    filterJobs(rows, spec),
		LastID:  lastID,
		HasMore: hasMore,
	}, nil
}

// fetchStats scans the whole matching corpus without the status filter so
// the open/closed/draft breakdown covers every bucket at once.
func (r *jobRepository) fetchStats(ctx context.Context, spec query.Spec) (models.JobStats, error) {
	defer observability.TrackListQuery("jobs", "stats")()

	db := r.db.WithContext(ctx)
	if spec.CreatedBy != "" {
		db = db.Where("created_by_id = ?", spec.CreatedBy)
	}

	var rows []*models.Job
	if err := db.Find(&rows).Error; err != nil {
		return models.JobStats{}, err
	}

	var stats models.JobStats
	for _, j := range filterJobs(rows, spec) {
		stats.Total++
		switch j.Status {
		case models.JobStatusOpen:
			stats.Open++
		case models.JobStatusClosed:
			stats.Closed++
		case models.JobStatusDraft:
			stats.Drafts++
		}
		stats.Views += j.Views
		stats.Applications += j.Applications
	}
	return stats, nil
}

func (r *jobRepository) applyCursor(ctx context.Context, db *gorm.DB, spec query.Spec) (*gorm.DB, error) {
	if spec.StartAfter == "" {
		return db, nil
	}

	var anchor models.Job
	err := r.db.WithContext(ctx).
		Select("id", "title", "views", "applications", "created_at").
		First(&anchor, "id = ?", spec.StartAfter).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return db, nil
		}
		return nil, err
	}

	switch spec.Sort {
	case query.SortOldest:
		db = db.Where("created_at > ? OR (created_at = ? AND id > ?)",
			anchor.CreatedAt, anchor.CreatedAt, anchor.ID)
	case query.SortTitleAsc:
		db = db.Where("title > ? OR (title = ? AND id > ?)",
			anchor.Title, anchor.Title, anchor.ID)
	case query.SortTitleDesc:
		db = db.Where("title < ? OR (title = ? AND id < ?)",
			anchor.Title, anchor.Title, anchor.ID)
	case query.SortViews:
		db = db.Where("views < ? OR (views = ? AND id < ?)",
			anchor.Views, anchor.Views, anchor.ID)
	case query.SortComments:
		db = db.Where("applications < ? OR (applications = ? AND id < ?)",
			anchor.Applications, anchor.Applications, anchor.ID)
	default: // newest
		db = db.Where("created_at < ? OR (created_at = ? AND id < ?)",
			anchor.CreatedAt, anchor.CreatedAt, anchor.ID)
	}
	return db, nil
}

// applyJobSort mirrors applyPostSort; the comments sort maps onto the jobs
// engagement counter, applications.
func applyJobSort(db *gorm.DB, sort query.Sort) *gorm.DB {
	switch sort {
	case query.SortOldest:
		return db.Order("created_at ASC, id ASC")
	case query.SortTitleAsc:
		return db.Order("title ASC, id ASC")
	case query.SortTitleDesc:
		return db.Order("title DESC, id DESC")
	case query.SortViews:
		return db.Order("views DESC, id DESC")
	case query.SortComments:
		return db.Order("applications DESC, id DESC")
	default:
		return db.Order("created_at DESC, id DESC")
	}
}

func filterJobs(rows []*models.Job, spec query.Spec) []*models.Job {
	out := make([]*models.Job, 0, len(rows))
	for _, j := range rows {
		if !query.MatchesSearch(spec.Search, j.Title, j.Description, j.Location) {
			continue
		}
		if !query.InDateRange(spec.DateStart, spec.DateEnd, j.PublishedAt, j.CreatedAt) {
			continue
		}
		out = append(out, j)
	}
	return out
}

func (r *jobRepository) Update(ctx context.Context, job *models.Job) error {
	defer observability.TrackQuery("update", "jobs")()
	if err := r.db.WithContext(ctx).Save(job).Error; err != nil {
		return err
	}
	cache.InvalidateJob(ctx, job.ID)
	return nil
}

func (r *jobRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&models.Job{}, "id = ?", id).Error; err != nil {
		return err
	}
	cache.InvalidateJob(ctx, id)
	return nil
}

func (r *jobRepository) IncrementViews(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).
		Model(&models.Job{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
	if err == nil {
		cache.InvalidateJob(ctx, id)
	}
	return err
}
