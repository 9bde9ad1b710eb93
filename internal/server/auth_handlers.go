package server

import (
	"errors"
	"fmt"
	"time"

	"newsdesk/internal/middleware"
	"newsdesk/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const sessionTTL = 24 * time.Hour

// Login handles POST /api/auth/login. On success the session JWT is set as
// an HTTP-only cookie; the token never appears in the response body.
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userRepo.GetByEmail(c.Context(), req.Email)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if user == nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid credentials"))
	}

	if cmpErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); cmpErr != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid credentials"))
	}

	token, err := s.generateToken(user.ID, user.Role)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	s.setSessionCookie(c, token, time.Now().Add(sessionTTL))

	return c.JSON(fiber.Map{"user": user})
}

// Logout handles POST /api/auth/logout. The token's jti is blacklisted until
// the token would have expired, then the cookie is cleared. A missing or
// invalid cookie still clears and succeeds.
func (s *Server) Logout(c *fiber.Ctx) error {
	if token := c.Cookies(s.config.SessionCookie); token != "" {
		if err := s.revokeToken(c, token); err != nil {
			middleware.Logger.WarnContext(c.UserContext(), "token revocation failed",
				"error", err.Error())
		}
	}

	s.clearSessionCookie(c)
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// Me handles GET /api/auth/me. The auth group is public as far as the gate
// is concerned, so the cookie is verified here.
func (s *Server) Me(c *fiber.Ctx) error {
	claims, err := s.verifier.Verify(c.UserContext(), c.Cookies(s.config.SessionCookie), true)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Not authenticated"))
	}

	user, err := s.userRepo.GetByID(c.Context(), claims.UserID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Not authenticated"))
	}

	return c.JSON(fiber.Map{"user": user})
}

// generateToken creates a session JWT carrying the user's id and role.
func (s *Server) generateToken(userID, role string) (string, error) {
	if s.config.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"iss":  middleware.TokenIssuer,
		"aud":  middleware.TokenAudience,
		"exp":  now.Add(sessionTTL).Unix(),
		"iat":  now.Unix(),
		"nbf":  now.Unix(),
		"jti":  uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// revokeToken blacklists the token's jti for as long as the token itself
// would remain valid. The signature is still checked so an attacker cannot
// spam arbitrary jtis into the blacklist.
func (s *Server) revokeToken(c *fiber.Ctx, token string) error {
	if s.redis == nil {
		return nil
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.config.JWTSecret), nil
	}, jwt.WithoutClaimsValidation())
	if err != nil {
		return err
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return errors.New("invalid token claims")
	}

	jti, _ := claims["jti"].(string)
	if jti == "" {
		return nil
	}

	ttl := sessionTTL
	if exp, expErr := claims.GetExpirationTime(); expErr == nil && exp != nil {
		ttl = time.Until(exp.Time)
	}
	if ttl <= 0 {
		// Already expired; the verifier rejects it regardless.
		return nil
	}

	return s.redis.Set(c.Context(), "blacklist:"+jti, "1", ttl).Err()
}

func (s *Server) setSessionCookie(c *fiber.Ctx, token string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     s.config.SessionCookie,
		Value:    token,
		Expires:  expires,
		HTTPOnly: true,
		Secure:   s.config.Env == "production" || s.config.Env == "prod",
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}

func (s *Server) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     s.config.SessionCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}
