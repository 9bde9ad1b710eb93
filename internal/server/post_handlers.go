package server

import (
	"time"

	"newsdesk/internal/middleware"
	"newsdesk/internal/models"
	"newsdesk/internal/query"
	"newsdesk/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/posts. The full list composer runs here:
// pagination, filters, sort, and the aggregate stats in one response.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	spec := query.ParseSpec(c)

	page, err := s.postRepo.ListPage(c.Context(), spec)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(page)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postRepo.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Post", id))
	}

	// Best effort; a failed counter bump never fails the read.
	if err := s.postRepo.IncrementViews(c.Context(), id); err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "view counter increment failed",
			"post_id", id, "error", err.Error())
	}

	return c.JSON(post)
}

type postRequest struct {
	Title          string     `json:"title"`
	Slug           string     `json:"slug"`
	Content        string     `json:"content"`
	Excerpt        string     `json:"excerpt"`
	Status         string     `json:"status"`
	PublishedAt    *time.Time `json:"published_at"`
	OrganizationID *string    `json:"organization_id"`
	CategoryIDs    *[]string  `json:"category_ids"`
}

func validPostStatus(status string) bool {
	switch status {
	case models.PostStatusPublished, models.PostStatusDraft, models.PostStatusArchived:
		return true
	}
	return false
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Title == "" || req.Content == "" || req.Slug == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Title, slug, and content are required"))
	}
	if err := validation.ValidateSlug(req.Slug); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if req.Status == "" {
		req.Status = models.PostStatusDraft
	}
	if !validPostStatus(req.Status) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid status"))
	}

	post := &models.Post{
		Title:          req.Title,
		Slug:           req.Slug,
		Content:        req.Content,
		Excerpt:        req.Excerpt,
		Status:         req.Status,
		PublishedAt:    req.PublishedAt,
		OrganizationID: req.OrganizationID,
		CreatedByID:    s.currentUserID(c),
	}
	if post.Status == models.PostStatusPublished && post.PublishedAt == nil {
		now := time.Now().UTC()
		post.PublishedAt = &now
	}

	if err := s.postRepo.Create(c.Context(), post); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	if req.CategoryIDs != nil {
		if err := s.postRepo.ReplaceCategories(c.Context(), post, *req.CategoryIDs); err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
	}

	created, err := s.postRepo.GetByID(c.Context(), post.ID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// UpdatePost handles PUT /api/posts/:id. Only the author, an admin, or a
// moderator may update a post.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postRepo.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Post", id))
	}

	if err := s.requireOwnershipOrModeration(c, post.CreatedByID); err != nil {
		return nil
	}

	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Title != "" {
		post.Title = req.Title
	}
	if req.Slug != "" {
		if err := validation.ValidateSlug(req.Slug); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError(err.Error()))
		}
		post.Slug = req.Slug
	}
	if req.Content != "" {
		post.Content = req.Content
	}
	if req.Excerpt != "" {
		post.Excerpt = req.Excerpt
	}
	if req.OrganizationID != nil {
		post.OrganizationID = req.OrganizationID
	}
	if req.PublishedAt != nil {
		post.PublishedAt = req.PublishedAt
	}
	if req.Status != "" {
		if !validPostStatus(req.Status) {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid status"))
		}
		if req.Status == models.PostStatusPublished && post.PublishedAt == nil {
			now := time.Now().UTC()
			post.PublishedAt = &now
		}
		post.Status = req.Status
	}

	if err := s.postRepo.Update(c.Context(), post); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	if req.CategoryIDs != nil {
		if err := s.postRepo.ReplaceCategories(c.Context(), post, *req.CategoryIDs); err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
	}

	updated, err := s.postRepo.GetByID(c.Context(), post.ID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(updated)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postRepo.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Post", id))
	}

	if err := s.requireOwnershipOrModeration(c, post.CreatedByID); err != nil {
		return nil
	}

	if err := s.postRepo.Delete(c.Context(), id); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(fiber.Map{"message": "Post deleted"})
}
