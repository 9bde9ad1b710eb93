package server

import (
	"errors"

	"newsdesk/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// Pagination holds parsed limit/offset query parameters for the simple
// (non-composer) list endpoints.
type Pagination struct {
	Limit  int
	Offset int
}

const maxPaginationLimit = 100

// parsePagination extracts limit and offset query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{Limit: limit, Offset: offset}
}

// currentUserID returns the session user id placed in locals by the gate.
func (s *Server) currentUserID(c *fiber.Ctx) string {
	id, _ := c.Locals("userID").(string)
	return id
}

// currentRole returns the session role placed in locals by the gate.
func (s *Server) currentRole(c *fiber.Ctx) string {
	role, _ := c.Locals("role").(string)
	return role
}

// canModerate reports whether the session role can act on content it does
// not own.
func (s *Server) canModerate(c *fiber.Ctx) bool {
	role := s.currentRole(c)
	return role == models.RoleAdmin || role == models.RoleModerator
}

// requireOwnershipOrModeration writes a 403 and returns errResponseWritten
// unless the session user owns the resource or can moderate.
func (s *Server) requireOwnershipOrModeration(c *fiber.Ctx, ownerID string) error {
	if s.currentUserID(c) == ownerID || s.canModerate(c) {
		return nil
	}
	_ = models.RespondWithError(c, fiber.StatusForbidden,
		models.NewUnauthorizedError("You do not have permission to modify this resource"))
	return errResponseWritten
}

// requireParam extracts a non-empty route parameter. On failure it writes a
// 400 JSON response and returns errResponseWritten; callers should check:
// if err != nil { return nil }.
func requireParam(c *fiber.Ctx, param string) (string, error) {
	value := c.Params(param)
	if value == "" {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Missing "+param+" parameter"))
		return "", errResponseWritten
	}
	return value, nil
}
