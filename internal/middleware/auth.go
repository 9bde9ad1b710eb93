package middleware

import (
	"context"
	"errors"
	"strings"

	"newsdesk/internal/models"
	"newsdesk/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

// Session token claims expected by the verifier.
const (
	TokenIssuer   = "newsdesk-api"
	TokenAudience = "newsdesk-admin"
)

// Redirect targets for the two failure outcomes.
const (
	LoginPath        = "/login"
	UnauthorizedPath = "/unauthorized"
)

// ErrNoSession is returned when no session token is present. The gate fails
// fast on it without calling out to the verifier.
var ErrNoSession = errors.New("no session token")

// SessionClaims is the decoded, verified identity assertion attached to a
// request.
type SessionClaims struct {
	UserID string
	Role   string
	JTI    string
}

// SessionVerifier checks an opaque session token and returns its claims.
// checkRevocation additionally consults the revocation list.
type SessionVerifier interface {
	Verify(ctx context.Context, token string, checkRevocation bool) (*SessionClaims, error)
}

// RolePathRule maps a URL path prefix to the set of roles permitted to
// access it.
type RolePathRule struct {
	Prefix string
	Roles  []string
}

// Allows reports whether role is in the rule's allowed set.
func (r RolePathRule) Allows(role string) bool {
	for _, allowed := range r.Roles {
		if allowed == role {
			return true
		}
	}
	return false
}

// DefaultRules is the deploy-time rule table. Rules are tried in declaration
// order and the first prefix match governs, so broader prefixes must come
// after the narrower ones they overlap ("/api/admin" before "/api").
var DefaultRules = []RolePathRule{
	{Prefix: "/api/admin", Roles: []string{models.RoleAdmin}},
	{Prefix: "/api", Roles: []string{models.RoleAdmin, models.RoleEditor, models.RoleModerator}},
	{Prefix: "/admin", Roles: []string{models.RoleAdmin}},
	{Prefix: "/editor", Roles: []string{models.RoleAdmin, models.RoleEditor}},
	{Prefix: "/moderator", Roles: []string{models.RoleAdmin, models.RoleModerator}},
}

// PublicPrefixes bypass the gate unconditionally.
var PublicPrefixes = []string{
	LoginPath,
	UnauthorizedPath,
	"/api/auth",
	"/health",
	"/metrics",
}

// SessionGate returns the middleware gating every request by path. Public
// paths always continue; paths with no matching rule are implicitly public.
// For gated paths the session cookie is verified once, and the request either
// continues or is redirected to /login (authentication failure, any reason)
// or /unauthorized (valid session, insufficient role).
func SessionGate(cookieName string, verifier SessionVerifier, rules []RolePathRule) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()

		for _, prefix := range PublicPrefixes {
			if strings.HasPrefix(path, prefix) {
				return c.Next()
			}
		}

		rule, matched := matchRule(rules, path)
		if !matched {
			return c.Next()
		}

		token := c.Cookies(cookieName)
		if token == "" {
			// Fail fast: never call the verifier with an empty credential.
			return redirectLogin(c)
		}

		claims, err := verifier.Verify(c.UserContext(), token, true)
		if err != nil {
			Logger.WarnContext(c.UserContext(), "session verification failed",
				"path", path, "error", err.Error())
			return redirectLogin(c)
		}

		if !rule.Allows(claims.Role) {
			observability.AuthGateDecisions.WithLabelValues("unauthorized_redirect").Inc()
			return c.Redirect(UnauthorizedPath, fiber.StatusFound)
		}

		c.Locals("userID", claims.UserID)
		c.Locals("role", claims.Role)
		ctx := context.WithValue(c.UserContext(), UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, RoleKey, claims.Role)
		c.SetUserContext(ctx)

		observability.AuthGateDecisions.WithLabelValues("continue").Inc()
		return c.Next()
	}
}

// matchRule returns the first rule whose prefix matches path, in declaration
// order.
func matchRule(rules []RolePathRule, path string) (RolePathRule, bool) {
	for _, rule := range rules {
		if strings.HasPrefix(path, rule.Prefix) {
			return rule, true
		}
	}
	return RolePathRule{}, false
}

func redirectLogin(c *fiber.Ctx) error {
	observability.AuthGateDecisions.WithLabelValues("login_redirect").Inc()
	return c.Redirect(LoginPath, fiber.StatusFound)
}

// JWTVerifier verifies HMAC-signed session tokens and optionally checks the
// Redis jti revocation list.
type JWTVerifier struct {
	secret []byte
	redis  *redis.Client
}

// NewJWTVerifier creates a verifier for tokens signed with the given secret.
// rdb may be nil, in which case revocation checks are skipped.
func NewJWTVerifier(secret string, rdb *redis.Client) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret), redis: rdb}
}

// Verify parses and validates the token, returning its session claims.
// Expiry is enforced by the JWT library during parsing.
func (v *JWTVerifier) Verify(ctx context.Context, token string, checkRevocation bool) (*SessionClaims, error) {
	if token == "" {
		return nil, ErrNoSession
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, errors.New("invalid or expired token")
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != TokenIssuer {
		return nil, errors.New("invalid token issuer")
	}
	if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != TokenAudience {
		return nil, errors.New("invalid token audience")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, errors.New("invalid subject claim")
	}

	role, ok := claims["role"].(string)
	if !ok || role == "" {
		return nil, errors.New("missing role claim")
	}

	jti, _ := claims["jti"].(string)
	if checkRevocation && jti != "" && v.redis != nil {
		revoked, err := v.redis.Exists(ctx, "blacklist:"+jti).Result()
		if err == nil && revoked > 0 {
			return nil, errors.New("token has been revoked")
		}
	}

	return &SessionClaims{UserID: sub, Role: role, JTI: jti}, nil
}
