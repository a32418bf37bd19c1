package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/Immortalsoul21/StackForge/internal/auth"
	"github.com/Immortalsoul21/StackForge/internal/config"
	"github.com/Immortalsoul21/StackForge/internal/handler"
	"github.com/Immortalsoul21/StackForge/internal/model"
	"github.com/Immortalsoul21/StackForge/internal/service"
)

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockTaskRepository is a mock implementation of repository.TaskRepository.
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, task *model.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Task, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockTaskRepository) FindByOwnerAndID(ctx context.Context, ownerID, id uuid.UUID) (*model.Task, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskRepository) UpdateByOwnerAndID(ctx context.Context, ownerID, id uuid.UUID, fields map[string]interface{}) (int64, error) {
	args := m.Called(ctx, ownerID, id, fields)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTaskRepository) DeleteByOwnerAndID(ctx context.Context, ownerID, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, ownerID, id)
	return args.Get(0).(int64), args.Error(1)
}

// fakeTokenStore keeps revoked token IDs in memory.
type fakeTokenStore struct {
	revoked map[string]bool
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{revoked: map[string]bool{}}
}

func (s *fakeTokenStore) BlacklistToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	s.revoked[tokenID] = true
	return nil
}

func (s *fakeTokenStore) IsTokenBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	return s.revoked[tokenID], nil
}

type testEnv struct {
	e          *echo.Echo
	userRepo   *MockUserRepository
	taskRepo   *MockTaskRepository
	jwtService *auth.JWTService
	tokenStore *fakeTokenStore
}

func newTestEnv() *testEnv {
	cfg := &config.Config{
		JWTSecret:      "test-secret",
		AllowedOrigins: []string{"http://localhost:5173"},
		Env:            "test",
	}

	userRepo := new(MockUserRepository)
	taskRepo := new(MockTaskRepository)
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := newFakeTokenStore()

	authService := service.NewAuthService(userRepo, jwtService, tokenStore, nil)
	taskService := service.NewTaskService(taskRepo)

	e := echo.New()
	Register(
		e,
		cfg,
		handler.NewAuthHandler(authService),
		handler.NewTaskHandler(taskService),
		handler.NewHealthHandler(),
		NewAccessMiddleware(authService, tokenStore),
	)

	return &testEnv{
		e:          e,
		userRepo:   userRepo,
		taskRepo:   taskRepo,
		jwtService: jwtService,
		tokenStore: tokenStore,
	}
}

func (env *testEnv) request(method, path, body, token string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv()

	rec := env.request(http.MethodGet, "/health", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "ok", body["status"])
}

func TestProtectedRoutes_RequireBearerToken(t *testing.T) {
	env := newTestEnv()

	tests := []struct {
		name  string
		token string
	}{
		{name: "missing token", token: ""},
		{name: "garbage token", token: "not.a.jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.request(http.MethodGet, "/api/tasks", "", tt.token)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, "Not authorized to access this route", body["message"])
		})
	}
}

func TestProtectedRoutes_UserNoLongerExists(t *testing.T) {
	env := newTestEnv()
	userID := uuid.New()
	env.userRepo.On("FindByID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)

	token, err := env.jwtService.GenerateToken(userID, "ghost@example.com")
	assert.NoError(t, err)

	rec := env.request(http.MethodGet, "/api/tasks", "", token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "User no longer exists", body["message"])
}

func TestRegister_ResponseEnvelope(t *testing.T) {
	env := newTestEnv()
	env.userRepo.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, gorm.ErrRecordNotFound)
	env.userRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

	rec := env.request(http.MethodPost, "/api/auth/register",
		`{"name":"New User","email":"new@example.com","password":"password123"}`, "")

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["token"])

	user, ok := body["user"].(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, "new@example.com", user["email"])
	_, hasPassword := user["password"]
	assert.False(t, hasPassword, "password must never be serialized")
	assert.NotContains(t, rec.Body.String(), "password123")
}

func TestLogin_MissingFields(t *testing.T) {
	env := newTestEnv()

	rec := env.request(http.MethodPost, "/api/auth/login", `{"email":"user@example.com"}`, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Please provide email and password", body["message"])
}

func TestMe_RoundTrip(t *testing.T) {
	env := newTestEnv()
	userID := uuid.New()
	env.userRepo.On("FindByID", mock.Anything, userID).Return(&model.User{
		ID:    userID,
		Name:  "Round Trip",
		Email: "round@example.com",
	}, nil)

	token, err := env.jwtService.GenerateToken(userID, "round@example.com")
	assert.NoError(t, err)

	rec := env.request(http.MethodGet, "/api/auth/me", "", token)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	user := body["user"].(map[string]interface{})
	assert.Equal(t, userID.String(), user["id"])
}

func TestLogout_RevokesToken(t *testing.T) {
	env := newTestEnv()
	userID := uuid.New()
	env.userRepo.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID}, nil)

	token, err := env.jwtService.GenerateToken(userID, "user@example.com")
	assert.NoError(t, err)

	rec := env.request(http.MethodPost, "/api/auth/logout", "", token)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Same token no longer authenticates.
	rec = env.request(http.MethodGet, "/api/tasks", "", token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Not authorized to access this route", body["message"])
}

func TestTasks_ListEnvelope(t *testing.T) {
	env := newTestEnv()
	userID := uuid.New()
	env.userRepo.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID}, nil)
	env.taskRepo.On("ListByOwner", mock.Anything, userID).Return([]model.Task{
		{ID: uuid.New(), Title: "second", UserID: userID},
		{ID: uuid.New(), Title: "first", UserID: userID},
	}, nil)

	token, err := env.jwtService.GenerateToken(userID, "user@example.com")
	assert.NoError(t, err)

	rec := env.request(http.MethodGet, "/api/tasks", "", token)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(2), body["count"])
	data := body["data"].([]interface{})
	assert.Len(t, data, 2)
}

func TestTasks_CreateDefaultsStatus(t *testing.T) {
	env := newTestEnv()
	userID := uuid.New()
	env.userRepo.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID}, nil)
	env.taskRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Task")).Return(nil)

	token, err := env.jwtService.GenerateToken(userID, "user@example.com")
	assert.NoError(t, err)

	rec := env.request(http.MethodPost, "/api/tasks", `{"title":"Buy milk"}`, token)

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "Buy milk", data["title"])
	assert.Equal(t, "todo", data["status"])
	assert.Equal(t, userID.String(), data["user_id"])
}

func TestTasks_InvalidIDFormat(t *testing.T) {
	env := newTestEnv()
	userID := uuid.New()
	env.userRepo.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID}, nil)

	token, err := env.jwtService.GenerateToken(userID, "user@example.com")
	assert.NoError(t, err)

	rec := env.request(http.MethodGet, "/api/tasks/not-a-uuid", "", token)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Invalid ID format", body["message"])
}

func TestTasks_GetNotOwnedIsNotFound(t *testing.T) {
	env := newTestEnv()
	userID := uuid.New()
	otherTaskID := uuid.New()
	env.userRepo.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID}, nil)
	env.taskRepo.On("FindByOwnerAndID", mock.Anything, userID, otherTaskID).Return(nil, gorm.ErrRecordNotFound)

	token, err := env.jwtService.GenerateToken(userID, "user@example.com")
	assert.NoError(t, err)

	rec := env.request(http.MethodGet, "/api/tasks/"+otherTaskID.String(), "", token)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Task not found", body["message"])
}

func TestTasks_DeleteIsIdempotent(t *testing.T) {
	env := newTestEnv()
	userID := uuid.New()
	missingID := uuid.New()
	env.userRepo.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID}, nil)
	env.taskRepo.On("DeleteByOwnerAndID", mock.Anything, userID, missingID).Return(int64(0), nil)
	env.taskRepo.On("UpdateByOwnerAndID", mock.Anything, userID, missingID, mock.Anything).Return(int64(0), nil)

	token, err := env.jwtService.GenerateToken(userID, "user@example.com")
	assert.NoError(t, err)

	rec := env.request(http.MethodDelete, "/api/tasks/"+missingID.String(), "", token)
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Task removed", body["message"])

	// The same missing id makes update fail.
	rec = env.request(http.MethodPut, "/api/tasks/"+missingID.String(), `{"title":"nope"}`, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, "Task not found or not authorized", body["message"])
}
