package seed

import (
	"fmt"
	"math/rand"
	"time"

	"newsdesk/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and by tests.
type Factory struct {
	db   *gorm.DB
	opts Options
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	return &Factory{db: db, opts: opts}
}

// CreateUser constructs and persists a sample editorial account. Optional
// override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	roles := []string{models.RoleEditor, models.RoleEditor, models.RoleEditor, models.RoleModerator}
	user := &models.User{
		Username: gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		Password: hashPassword(f.opts.SkipBcrypt),
		Role:     roles[rand.Intn(len(roles))],
		Bio:      gofakeit.Sentence(10),
		Avatar:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateOrganization persists a sample publishing organization.
func (f *Factory) CreateOrganization(overrides ...func(*models.Organization)) (*models.Organization, error) {
	name := gofakeit.Company()
	org := &models.Organization{
		Name:        name,
		Slug:        slugify(name) + fmt.Sprintf("-%d", gofakeit.Number(10, 99)),
		Description: gofakeit.Sentence(12),
		Website:     gofakeit.URL(),
		LogoURL:     fmt.Sprintf("https://picsum.photos/seed/%s/200/200", gofakeit.UUID()),
	}

	for _, override := range overrides {
		override(org)
	}

	if err := f.db.Create(org).Error; err != nil {
		return nil, err
	}
	return org, nil
}

// CreateCategories persists the standard taxonomy.
func (f *Factory) CreateCategories() ([]models.Category, error) {
	categories := make([]models.Category, 0, len(categoryNames))
	for _, name := range categoryNames {
		category := models.Category{
			Name:        name,
			Slug:        slugify(name),
			Description: gofakeit.Sentence(8),
		}
		if err := f.db.Create(&category).Error; err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, nil
}

// CreatePost persists a sample post with a realistic created_at spread and a
// random slice of the taxonomy.
func (f *Factory) CreatePost(author *models.User, org *models.Organization, categories []models.Category, overrides ...func(*models.Post)) (*models.Post, error) {
	title := gofakeit.Sentence(5)
	statuses := []string{
		models.PostStatusPublished, models.PostStatusPublished, models.PostStatusPublished,
		models.PostStatusDraft, models.PostStatusArchived,
	}

	post := &models.Post{
		Title:         title,
		Slug:          slugify(title) + fmt.Sprintf("-%d", gofakeit.Number(100, 999)),
		Content:       gofakeit.Paragraph(3, 4, 8, "\n\n"),
		Excerpt:       gofakeit.Sentence(14),
		Status:        statuses[rand.Intn(len(statuses))],
		Views:         gofakeit.Number(0, 5000),
		CommentsCount: gofakeit.Number(0, 120),
		CreatedByID:   author.ID,
		CreatedAt:     randomPastTime(90),
	}
	if org != nil && gofakeit.Bool() {
		post.OrganizationID = &org.ID
	}
	if post.Status == models.PostStatusPublished {
		published := post.CreatedAt.Add(time.Duration(gofakeit.Number(1, 72)) * time.Hour)
		post.PublishedAt = &published
	}
	if len(categories) > 0 {
		n := rand.Intn(3)
		for i := 0; i <= n && i < len(categories); i++ {
			post.Categories = append(post.Categories, categories[rand.Intn(len(categories))])
		}
	}

	for _, override := range overrides {
		override(post)
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateJob persists a sample job listing.
func (f *Factory) CreateJob(author *models.User, org *models.Organization, overrides ...func(*models.Job)) (*models.Job, error) {
	title := gofakeit.JobTitle()
	statuses := []string{
		models.JobStatusOpen, models.JobStatusOpen, models.JobStatusOpen,
		models.JobStatusClosed, models.JobStatusDraft,
	}

	job := &models.Job{
		Title:        title,
		Slug:         slugify(title) + fmt.Sprintf("-%d", gofakeit.Number(100, 999)),
		Description:  gofakeit.Paragraph(2, 3, 8, "\n\n"),
		Location:     fmt.Sprintf("%s, %s", gofakeit.City(), gofakeit.Country()),
		Status:       statuses[rand.Intn(len(statuses))],
		Views:        gofakeit.Number(0, 2000),
		Applications: gofakeit.Number(0, 80),
		CreatedByID:  author.ID,
		CreatedAt:    randomPastTime(60),
	}
	if org != nil {
		job.OrganizationID = &org.ID
	}
	if job.Status != models.JobStatusDraft {
		published := job.CreatedAt.Add(time.Duration(gofakeit.Number(1, 48)) * time.Hour)
		job.PublishedAt = &published
	}

	for _, override := range overrides {
		override(job)
	}

	if err := f.db.Create(job).Error; err != nil {
		return nil, err
	}
	return job, nil
}

func randomPastTime(maxDays int) time.Time {
	daysBack := rand.Intn(maxDays)
	hoursBack := rand.Intn(24)
	minsBack := rand.Intn(60)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour -
		time.Duration(minsBack)*time.Minute)
}
