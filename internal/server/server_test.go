package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"newsdesk/internal/config"
	"newsdesk/internal/database"
	"newsdesk/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newIntegrationApp stands up the whole stack (middleware chain including
// the session gate, all routes) on an in-memory database, no Redis.
func newIntegrationApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))

	cfg := &config.Config{
		JWTSecret:     "integration-test-secret-key",
		SessionCookie: "session",
		Env:           "test",
	}
	s, err := NewServerWithDeps(cfg, db, nil)
	require.NoError(t, err)

	app := fiber.New()
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app, db
}

func createAccount(t *testing.T, db *gorm.DB, username, role string) *models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("IntegrationPass1!"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hashed),
		Role:     role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func login(t *testing.T, app *fiber.App, email string) *http.Cookie {
	t.Helper()
	body, _ := json.Marshal(map[string]string{
		"email":    email,
		"password": "IntegrationPass1!",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cookie := sessionCookieFrom(resp, "session")
	require.NotNil(t, cookie)
	return cookie
}

func TestServer_SessionGateFlow(t *testing.T) {
	app, db := newIntegrationApp(t)
	editor := createAccount(t, db, "ed", models.RoleEditor)
	admin := createAccount(t, db, "boss", models.RoleAdmin)

	t.Run("Gated path without session redirects to login", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/posts", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/login", resp.Header.Get("Location"))
	})

	t.Run("Editor session reaches the composer", func(t *testing.T) {
		cookie := login(t, app, editor.Email)

		req := httptest.NewRequest(http.MethodGet, "/api/posts?limit=5", nil)
		req.AddCookie(cookie)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var page models.PostPage
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
		assert.Empty(t, page.Posts)
		assert.False(t, page.HasMore)
	})

	t.Run("Editor is redirected away from admin routes", func(t *testing.T) {
		cookie := login(t, app, editor.Email)

		req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
		req.AddCookie(cookie)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/unauthorized", resp.Header.Get("Location"))
	})

	t.Run("Admin session reaches admin routes", func(t *testing.T) {
		cookie := login(t, app, admin.Email)

		req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
		req.AddCookie(cookie)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Create then list a post through the full stack", func(t *testing.T) {
		cookie := login(t, app, editor.Email)

		body, _ := json.Marshal(map[string]string{
			"title":   "Integration Post",
			"slug":    "integration-post",
			"content": "written through the full middleware chain",
			"status":  models.PostStatusPublished,
		})
		req := httptest.NewRequest(http.MethodPost, "/api/posts", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.AddCookie(cookie)

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		listReq := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
		listReq.AddCookie(cookie)
		listResp, err := app.Test(listReq)
		require.NoError(t, err)
		defer func() { _ = listResp.Body.Close() }()
		require.Equal(t, http.StatusOK, listResp.StatusCode)

		var page models.PostPage
		require.NoError(t, json.NewDecoder(listResp.Body).Decode(&page))
		require.Len(t, page.Posts, 1)
		assert.Equal(t, "Integration Post", page.Posts[0].Title)
		assert.Equal(t, editor.ID, page.Posts[0].CreatedByID)
		assert.Equal(t, 1, page.Stats.Published)
	})

	t.Run("Liveness is public", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health/live", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
