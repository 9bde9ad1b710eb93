package server

import (
	"newsdesk/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetMediaList handles GET /api/media
func (s *Server) GetMediaList(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	items, err := s.mediaRepo.List(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(fiber.Map{"media": items})
}

// GetMedia handles GET /api/media/:id
func (s *Server) GetMedia(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return nil
	}

	media, err := s.mediaRepo.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Media", id))
	}
	return c.JSON(media)
}

// CreateMedia handles POST /api/media. Only the metadata record is created;
// the asset itself is uploaded elsewhere.
func (s *Server) CreateMedia(c *fiber.Ctx) error {
	var req struct {
		FileName  string `json:"file_name"`
		URL       string `json:"url"`
		MimeType  string `json:"mime_type"`
		SizeBytes int64  `json:"size_bytes"`
		AltText   string `json:"alt_text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.FileName == "" || req.URL == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("File name and URL are required"))
	}

	media := &models.Media{
		FileName:     req.FileName,
		URL:          req.URL,
		MimeType:     req.MimeType,
		SizeBytes:    req.SizeBytes,
		AltText:      req.AltText,
		UploadedByID: s.currentUserID(c),
	}
	if err := s.mediaRepo.Create(c.Context(), media); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.Status(fiber.StatusCreated).JSON(media)
}

// UpdateMedia handles PUT /api/media/:id. Only the uploader, an admin, or a
// moderator may edit the metadata.
func (s *Server) UpdateMedia(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return nil
	}

	media, err := s.mediaRepo.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Media", id))
	}

	if err := s.requireOwnershipOrModeration(c, media.UploadedByID); err != nil {
		return nil
	}

	var req struct {
		FileName string  `json:"file_name"`
		AltText  *string `json:"alt_text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.FileName != "" {
		media.FileName = req.FileName
	}
	if req.AltText != nil {
		media.AltText = *req.AltText
	}

	if err := s.mediaRepo.Update(c.Context(), media); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(media)
}

// DeleteMedia handles DELETE /api/media/:id
func (s *Server) DeleteMedia(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return nil
	}

	media, err := s.mediaRepo.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Media", id))
	}

	if err := s.requireOwnershipOrModeration(c, media.UploadedByID); err != nil {
		return nil
	}

	if err := s.mediaRepo.Delete(c.Context(), id); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(fiber.Map{"message": "Media deleted"})
}
