package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"newsdesk/internal/models"
	"newsdesk/internal/query"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPostRepository is a mock of the PostRepository interface
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) ListPage(ctx context.Context, spec query.Spec) (*models.PostPage, error) {
	args := m.Called(ctx, spec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PostPage), args.Error(1)
}

func (m *MockPostRepository) Update(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepository) IncrementViews(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepository) ReplaceCategories(ctx context.Context, post *models.Post, categoryIDs []string) error {
	args := m.Called(ctx, post, categoryIDs)
	return args.Error(0)
}

// newHandlerApp wires a bare fiber app around one server instance, with the
// given identity injected as the gate would.
func newHandlerApp(s *Server, userID, role string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", userID)
		c.Locals("role", role)
		return c.Next()
	})
	return app
}

func TestGetPosts(t *testing.T) {
	mockRepo := new(MockPostRepository)
	s := &Server{postRepo: mockRepo}
	app := newHandlerApp(s, "u-1", models.RoleEditor)
	app.Get("/posts", s.GetPosts)

	t.Run("Success returns composed page", func(t *testing.T) {
		lastID := "p-10"
		pageOut := &models.PostPage{
			Posts:   []*models.Post{{ID: "p-1", Title: "First"}},
			LastID:  &lastID,
			HasMore: true,
			Stats:   models.PostStats{Total: 11, Published: 8, Drafts: 3},
		}
		mockRepo.On("ListPage", mock.Anything, mock.MatchedBy(func(spec query.Spec) bool {
			return spec.Limit == 25 && spec.Status == "draft" && spec.Search == "launch"
		})).Return(pageOut, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/posts?limit=25&status=draft&search=launch", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Posts   []models.Post    `json:"posts"`
			LastID  *string          `json:"lastId"`
			HasMore bool             `json:"hasMore"`
			Stats   models.PostStats `json:"stats"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Len(t, body.Posts, 1)
		require.NotNil(t, body.LastID)
		assert.Equal(t, "p-10", *body.LastID)
		assert.True(t, body.HasMore)
		assert.Equal(t, 11, body.Stats.Total)
		mockRepo.AssertExpectations(t)
	})

	t.Run("All sentinel and bad limit are coerced before the repo call", func(t *testing.T) {
		mockRepo.On("ListPage", mock.Anything, mock.MatchedBy(func(spec query.Spec) bool {
			return spec.Limit == query.DefaultLimit && spec.Status == "" && spec.Category == ""
		})).Return(&models.PostPage{Posts: []*models.Post{}}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/posts?limit=abc&status=all&category=all", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Fetch failure maps to 500 envelope", func(t *testing.T) {
		mockRepo.On("ListPage", mock.Anything, mock.Anything).
			Return(nil, models.NewFetchFailedError(errors.New("store down"))).Once()

		req := httptest.NewRequest(http.MethodGet, "/posts", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

		var body models.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "FETCH_FAILED", body.Code)
		assert.Equal(t, "fetch failed", body.Error)
		mockRepo.AssertExpectations(t)
	})
}

func TestCreatePost(t *testing.T) {
	mockRepo := new(MockPostRepository)
	s := &Server{postRepo: mockRepo}
	app := newHandlerApp(s, "u-1", models.RoleEditor)
	app.Post("/posts", s.CreatePost)

	tests := []struct {
		name           string
		body           map[string]string
		mockSetup      func()
		expectedStatus int
	}{
		{
			name: "Success",
			body: map[string]string{
				"title":   "New Post",
				"slug":    "new-post",
				"content": "Hello world",
			},
			mockSetup: func() {
				mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *models.Post) bool {
					return p.CreatedByID == "u-1" && p.Status == models.PostStatusDraft
				})).Return(nil).Once()
				mockRepo.On("GetByID", mock.Anything, mock.Anything).
					Return(&models.Post{ID: "p-1", Title: "New Post"}, nil).Once()
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "Missing Fields",
			body: map[string]string{
				"title": "No slug or content",
			},
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Bad Slug",
			body: map[string]string{
				"title":   "New Post",
				"slug":    "Bad Slug!",
				"content": "Hello",
			},
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Bad Status",
			body: map[string]string{
				"title":   "New Post",
				"slug":    "another-post",
				"content": "Hello",
				"status":  "pending",
			},
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/posts", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
	mockRepo.AssertExpectations(t)
}

func TestUpdatePost_Ownership(t *testing.T) {
	existing := &models.Post{ID: "p-1", Title: "Original", CreatedByID: "owner-1"}

	tests := []struct {
		name           string
		userID         string
		role           string
		expectedStatus int
		expectSave     bool
	}{
		{"Owner can update", "owner-1", models.RoleEditor, http.StatusOK, true},
		{"Other editor cannot", "other-editor", models.RoleEditor, http.StatusForbidden, false},
		{"Moderator can update", "mod-1", models.RoleModerator, http.StatusOK, true},
		{"Admin can update", "admin-1", models.RoleAdmin, http.StatusOK, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockPostRepository)
			s := &Server{postRepo: mockRepo}
			app := newHandlerApp(s, tt.userID, tt.role)
			app.Put("/posts/:id", s.UpdatePost)

			post := *existing
			mockRepo.On("GetByID", mock.Anything, "p-1").Return(&post, nil)
			if tt.expectSave {
				mockRepo.On("Update", mock.Anything, mock.Anything).Return(nil).Once()
			}

			body, _ := json.Marshal(map[string]string{"title": "Renamed"})
			req := httptest.NewRequest(http.MethodPut, "/posts/p-1", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestDeletePost(t *testing.T) {
	t.Run("Not found", func(t *testing.T) {
		mockRepo := new(MockPostRepository)
		s := &Server{postRepo: mockRepo}
		app := newHandlerApp(s, "u-1", models.RoleAdmin)
		app.Delete("/posts/:id", s.DeletePost)

		mockRepo.On("GetByID", mock.Anything, "missing").Return(nil, errors.New("not found")).Once()

		req := httptest.NewRequest(http.MethodDelete, "/posts/missing", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Owner deletes", func(t *testing.T) {
		mockRepo := new(MockPostRepository)
		s := &Server{postRepo: mockRepo}
		app := newHandlerApp(s, "owner-1", models.RoleEditor)
		app.Delete("/posts/:id", s.DeletePost)

		mockRepo.On("GetByID", mock.Anything, "p-1").
			Return(&models.Post{ID: "p-1", CreatedByID: "owner-1"}, nil).Once()
		mockRepo.On("Delete", mock.Anything, "p-1").Return(nil).Once()

		req := httptest.NewRequest(http.MethodDelete, "/posts/p-1", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockRepo.AssertExpectations(t)
	})
}
