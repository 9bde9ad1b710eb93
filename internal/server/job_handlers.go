package server

import (
	"time"

	"newsdesk/internal/middleware"
	"newsdesk/internal/models"
	"newsdesk/internal/query"
	"newsdesk/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// GetJobs handles GET /api/jobs. Same composer as posts, minus the category
// filter, which jobs do not carry.
func (s *Server) GetJobs(c *fiber.Ctx) error {
	spec := query.ParseSpec(c)

	page, err := s.jobRepo.ListPage(c.Context(), spec)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(page)
}

// GetJob handles GET /api/jobs/:id
func (s *Server) GetJob(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return nil
	}

	job, err := s.jobRepo.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Job", id))
	}

	if err := s.jobRepo.IncrementViews(c.Context(), id); err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "view counter increment failed",
			"job_id", id, "error", err.Error())
	}

	return c.JSON(job)
}

type jobRequest struct {
	Title          string     `json:"title"`
	Slug           string     `json:"slug"`
	Description    string     `json:"description"`
	Location       string     `json:"location"`
	Status         string     `json:"status"`
	PublishedAt    *time.Time `json:"published_at"`
	OrganizationID *string    `json:"organization_id"`
}

func validJobStatus(status string) bool {
	switch status {
	case models.JobStatusOpen, models.JobStatusClosed, models.JobStatusDraft:
		return true
	}
	return false
}

// CreateJob handles POST /api/jobs
func (s *Server) CreateJob(c *fiber.Ctx) error {
	var req jobRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Title == "" || req.Description == "" || req.Slug == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Title, slug, and description are required"))
	}
	if err := validation.ValidateSlug(req.Slug); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if req.Status == "" {
		req.Status = models.JobStatusDraft
	}
	if !validJobStatus(req.Status) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid status"))
	}

	job := &models.Job{
		Title:          req.Title,
		Slug:           req.Slug,
		Description:    req.Description,
		Location:       req.Location,
		Status:         req.Status,
		PublishedAt:    req.PublishedAt,
		OrganizationID: req.OrganizationID,
		CreatedByID:    s.currentUserID(c),
	}
	if job.Status == models.JobStatusOpen && job.PublishedAt == nil {
		now := time.Now().UTC()
		job.PublishedAt = &now
	}

	if err := s.jobRepo.Create(c.Context(), job); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	created, err := s.jobRepo.GetByID(c.Context(), job.ID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// UpdateJob handles PUT /api/jobs/:id
func (s *Server) UpdateJob(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return nil
	}

	job, err := s.jobRepo.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Job", id))
	}

	if err := s.requireOwnershipOrModeration(c, job.CreatedByID); err != nil {
		return nil
	}

	var req jobRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Title != "" {
		job.Title = req.Title
	}
	if req.Slug != "" {
		if err := validation.ValidateSlug(req.Slug); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError(err.Error()))
		}
		job.Slug = req.Slug
	}
	if req.Description != "" {
		job.Description = req.Description
	}
	if req.Location != "" {
		job.Location = req.Location
	}
	if req.OrganizationID != nil {
		job.OrganizationID = req.OrganizationID
	}
	if req.PublishedAt != nil {
		job.PublishedAt = req.PublishedAt
	}
	if req.Status != "" {
		if !validJobStatus(req.Status) {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid status"))
		}
		if req.Status == models.JobStatusOpen && job.PublishedAt == nil {
			now := time.Now().UTC()
			job.PublishedAt = &now
		}
		job.Status = req.Status
	}

	if err := s.jobRepo.Update(c.Context(), job); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(job)
}

// DeleteJob handles DELETE /api/jobs/:id
func (s *Server) DeleteJob(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return nil
	}

	job, err := s.jobRepo.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Job", id))
	}

	if err := s.requireOwnershipOrModeration(c, job.CreatedByID); err != nil {
		return nil
	}

	if err := s.jobRepo.Delete(c.Context(), id); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(fiber.Map{"message": "Job deleted"})
}
