package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"newsdesk/internal/config"
	"newsdesk/internal/middleware"
	"newsdesk/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock of the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:     "test-secret-key-for-handler-tests",
		SessionCookie: "session",
		Env:           "test",
	}
}

func sessionCookieFrom(resp *http.Response, name string) *http.Cookie {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func TestLogin(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("CorrectHorse1!"), bcrypt.MinCost)
	require.NoError(t, err)
	account := &models.User{
		ID:       "u-1",
		Username: "editor",
		Email:    "editor@example.com",
		Password: string(hashed),
		Role:     models.RoleEditor,
	}

	tests := []struct {
		name           string
		body           map[string]string
		mockSetup      func(repo *MockUserRepository)
		expectedStatus int
		expectCookie   bool
	}{
		{
			name: "Success sets session cookie",
			body: map[string]string{"email": "editor@example.com", "password": "CorrectHorse1!"},
			mockSetup: func(repo *MockUserRepository) {
				repo.On("GetByEmail", mock.Anything, "editor@example.com").Return(account, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectCookie:   true,
		},
		{
			name: "Wrong password",
			body: map[string]string{"email": "editor@example.com", "password": "WrongPassword1!"},
			mockSetup: func(repo *MockUserRepository) {
				repo.On("GetByEmail", mock.Anything, "editor@example.com").Return(account, nil).Once()
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "Unknown account",
			body: map[string]string{"email": "nobody@example.com", "password": "CorrectHorse1!"},
			mockSetup: func(repo *MockUserRepository) {
				repo.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, nil).Once()
			},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.mockSetup(mockRepo)
			s := &Server{config: testConfig(), userRepo: mockRepo}
			app := fiber.New()
			app.Post("/login", s.Login)

			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			cookie := sessionCookieFrom(resp, "session")
			if tt.expectCookie {
				require.NotNil(t, cookie)
				assert.NotEmpty(t, cookie.Value)
				assert.True(t, cookie.HttpOnly)

				// The cookie must verify against the same secret the gate uses.
				verifier := middleware.NewJWTVerifier(s.config.JWTSecret, nil)
				claims, verifyErr := verifier.Verify(context.Background(), cookie.Value, false)
				require.NoError(t, verifyErr)
				assert.Equal(t, "u-1", claims.UserID)
				assert.Equal(t, models.RoleEditor, claims.Role)
				assert.NotEmpty(t, claims.JTI)
			} else {
				assert.Nil(t, cookie)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestLogout_ClearsCookie(t *testing.T) {
	s := &Server{config: testConfig()}
	app := fiber.New()
	app.Post("/logout", s.Logout)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cookie := sessionCookieFrom(resp, "session")
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
}

func TestMe(t *testing.T) {
	cfg := testConfig()
	account := &models.User{ID: "u-1", Username: "editor", Role: models.RoleEditor}

	t.Run("Valid session", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("GetByID", mock.Anything, "u-1").Return(account, nil).Once()

		s := &Server{
			config:   cfg,
			userRepo: mockRepo,
			verifier: middleware.NewJWTVerifier(cfg.JWTSecret, nil),
		}
		app := fiber.New()
		app.Get("/me", s.Me)

		token, err := s.generateToken("u-1", models.RoleEditor)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: token})

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockRepo.AssertExpectations(t)
	})

	t.Run("No cookie", func(t *testing.T) {
		s := &Server{
			config:   cfg,
			verifier: middleware.NewJWTVerifier(cfg.JWTSecret, nil),
		}
		app := fiber.New()
		app.Get("/me", s.Me)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/me", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
