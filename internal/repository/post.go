// Package repository provides data access layer implementations for the application.
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

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	ListPage(ctx context.Context, spec query.Spec) (*models.PostPage, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
	ReplaceCategories(ctx context.Context, post *models.Post, categoryIDs []string) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("create", "posts")()
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	err := cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
		return r.db.WithContext(ctx).
			Preload("CreatedBy").
			Preload("Organization").
			Preload("Categories").
			First(&post, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// ListPage runs the two-pass list composition: a bounded page fetch with a
// cursor, then an independent full-corpus scan for the aggregate stats. If
// either read fails the whole call fails with no partial result.
func (r *postRepository) ListPage(ctx context.Context, spec query.Spec) (*models.PostPage, error) {
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

// fetchPage retrieves one page. Equality filters and ordering run in the
// store; limit+1 rows are fetched so another page can be detected without a
// count query. The cursor and hasMore derive from the store page before the
// in-memory filters narrow it down, so pagination advances through the whole
// sorted corpus rather than skipping filtered-out rows.
func (r *postRepository) fetchPage(ctx context.Context, spec query.Spec) (*models.PostPage, error) {
	defer observability.TrackListQuery("posts", "page")()

	db := r.db.WithContext(ctx).
		Preload("CreatedBy").
		Preload("Categories")

	if spec.CreatedBy != "" {
		db = db.Where("created_by_id = ?", spec.CreatedBy)
	}
	if spec.Status != "" {
		db = db.Where("status = ?", spec.Status)
	}
	db = applyPostSort(db, spec.Sort)

	db, err := r.applyCursor(ctx, db, spec)
	if err != nil {
		return nil, err
	}

	var rows []*models.Post
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

	return &models.PostPage{
		Posts:   filterPosts(rows, spec),
		LastID:  lastID,
		HasMore: hasMore,
	}, nil
}

// fetchStats scans the entire matching corpus. Status is deliberately NOT
// applied here: the dashboard shows published/draft/archived counts side by
// side, so the breakdown must span all statuses even when the page itself is
// status-filtered.
func (r *postRepository) fetchStats(ctx context.Context, spec query.Spec) (models.PostStats, error) {
	defer observability.TrackListQuery("posts", "stats")()

	db := r.db.WithContext(ctx).Preload("Categories")
	if spec.CreatedBy != "" {
		db = db.Where("created_by_id = ?", spec.CreatedBy)
	}

	var rows []*models.Post
	if err := db.Find(&rows).Error; err != nil {
		return models.PostStats{}, err
	}

	var stats models.PostStats
	for _, p := range filterPosts(rows, spec) {
		stats.Total++
		switch p.Status {
		case models.PostStatusPublished:
			stats.Published++
		case models.PostStatusDraft:
			stats.Drafts++
		case models.PostStatusArchived:
			stats.Archived++
		}
		stats.Views += p.Views
		stats.Comments += p.CommentsCount
	}
	return stats, nil
}

// applyCursor positions the query immediately after the row identified by
// spec.StartAfter, using a keyset condition matching the active sort. A
// cursor pointing at a deleted document is silently ignored.
func (r *postRepository) applyCursor(ctx context.Context, db *gorm.DB, spec query.Spec) (*gorm.DB, error) {
	if spec.StartAfter == "" {
		return db, nil
	}

	var anchor models.Post
	err := r.db.WithContext(ctx).
		Select("id", "title", "views", "comments_count", "created_at").
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
		db = db.Where("comments_count < ? OR (comments_count = ? AND id < ?)",
			anchor.CommentsCount, anchor.CommentsCount, anchor.ID)
	default: // newest
		db = db.Where("created_at < ? OR (created_at = ? AND id < ?)",
			anchor.CreatedAt, anchor.CreatedAt, anchor.ID)
	}
	return db, nil
}

// applyPostSort appends the ORDER BY clause for the requested sort. The id
// tiebreak keeps the order total so keyset cursors are unambiguous.
func applyPostSort(db *gorm.DB, sort query.Sort) *gorm.DB {
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
		return db.Order("comments_count DESC, id DESC")
	default:
		return db.Order("created_at DESC, id DESC")
	}
}

// filterPosts applies the predicates the store cannot evaluate natively.
func filterPosts(rows []*models.Post, spec query.Spec) []*models.Post {
	out := make([]*models.Post, 0, len(rows))
	for _, p := range rows {
		if !query.MatchesSearch(spec.Search, p.Title, p.Content, p.Excerpt) {
			continue
		}
		if !query.MatchesCategory(spec.Category, p.CategoryIDs()) {
			continue
		}
		if !query.InDateRange(spec.DateStart, spec.DateEnd, p.PublishedAt, p.CreatedAt) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("update", "posts")()
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return err
	}
	cache.InvalidatePost(ctx, post.ID)
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, "id = ?", id).Error; err != nil {
		return err
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

func (r *postRepository) IncrementViews(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
	if err == nil {
		cache.InvalidatePost(ctx, id)
	}
	return err
}

func (r *postRepository) ReplaceCategories(ctx context.Context, post *models.Post, categoryIDs []string) error {
	var categories []models.Category
	if len(categoryIDs) > 0 {
		if err := r.db.WithContext(ctx).
			Where("id IN ?", categoryIDs).
			Find(&categories).Error; err != nil {
			return err
		}
	}
	if err := r.db.WithContext(ctx).Model(post).Association("Categories").Replace(categories); err != nil {
		return err
	}
	cache.InvalidatePost(ctx, post.ID)
	return nil
}
