package server

import (
	"newsdesk/internal/models"
	"newsdesk/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// GetOrganizations handles GET /api/organizations
func (s *Server) GetOrganizations(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	orgs, err := s.orgRepo.List(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(fiber.Map{"organizations": orgs})
}

// GetOrganization handles GET /api/organizations/:id
func (s *Server) GetOrganization(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return nil
	}

	org, err := s.orgRepo.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Organization", id))
	}
	return c.JSON(org)
}

type organizationRequest struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description"`
	Website     *string `json:"website"`
	LogoURL     *string `json:"logo_url"`
}

// CreateOrganization handles POST /api/organizations
func (s *Server) CreateOrganization(c *fiber.Ctx) error {
	var req organizationRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Name == "" || req.Slug == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Name and slug are required"))
	}
	if err := validation.ValidateSlug(req.Slug); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	org := &models.Organization{
		Name: req.Name,
		Slug: req.Slug,
	}
	if req.Description != nil {
		org.Description = *req.Description
	}
	if req.Website != nil {
		org.Website = *req.Website
	}
	if req.LogoURL != nil {
		org.LogoURL = *req.LogoURL
	}

	if err := s.orgRepo.Create(c.Context(), org); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.Status(fiber.StatusCreated).JSON(org)
}

// UpdateOrganization handles PUT /api/organizations/:id
func (s *Server) UpdateOrganization(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return nil
	}

	org, err := s.orgRepo.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Organization", id))
	}

	var req organizationRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Name != "" {
		org.Name = req.Name
	}
	if req.Slug != "" {
		if err := validation.ValidateSlug(req.Slug); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError(err.Error()))
		}
		org.Slug = req.Slug
	}
	if req.Description != nil {
		org.Description = *req.Description
	}
	if req.Website != nil {
		org.Website = *req.Website
	}
	if req.LogoURL != nil {
		org.LogoURL = *req.LogoURL
	}

	if err := s.orgRepo.Update(c.Context(), org); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(org)
}

// DeleteOrganization handles DELETE /api/organizations/:id
func (s *Server) DeleteOrganization(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return nil
	}

	if err := s.orgRepo.Delete(c.Context(), id); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(fiber.Map{"message": "Organization deleted"})
}
