package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"portfolio-service/internal/adapters/secondary/jwtsession"
	"portfolio-service/internal/config"
	"portfolio-service/internal/core/domain"
	ports "portfolio-service/internal/core/ports/output"
	"portfolio-service/internal/core/services"
	"portfolio-service/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), bytes.Repeat([]byte{0}, 32)...)

type fixture struct {
	projects *testutil.MockProjectRepo
	comments *testutil.MockCommentRepo
	admins   *testutil.MockAdminRepo
	db       *testutil.MockPinger
	sink     *testutil.MockErrorReportSink
	local    *testutil.MockMediaStorage
	sessions ports.SessionManager
	router   *gin.Engine
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()

	f := &fixture{
		projects: new(testutil.MockProjectRepo),
		comments: new(testutil.MockCommentRepo),
		admins:   new(testutil.MockAdminRepo),
		db:       new(testutil.MockPinger),
		sink:     new(testutil.MockErrorReportSink),
		local:    new(testutil.MockMediaStorage),
		sessions: jwtsession.NewManager(&config.SessionConfig{Secret: "handler-test-secret", TTL: time.Hour}),
	}

	projectSvc := services.NewProjectService(f.projects, time.Second)
	commentSvc := services.NewCommentService(f.comments, f.projects)
	authSvc := services.NewAuthService(f.admins, f.sessions, services.AdminBootstrap{
		Username: "admin",
		Email:    "admin@example.com",
		Password: "bootstrap-pass",
	})
	uploadSvc := services.NewUploadService(nil, f.local, services.UploadLimits{
		MaxImageBytes: 1 << 20,
		MaxVideoBytes: 2 << 20,
		Concurrency:   2,
	})
	healthSvc := services.NewHealthService(f.db, f.projects, services.HealthInfo{
		Version:          "1.0.0",
		Environment:      "production",
		CDNConfigured:    true,
		CDNCloudName:     "studio",
		RequiredSettings: map[string]bool{"DATABASE_URL": true, "SESSION_SECRET": true},
	})
	reportSvc := services.NewErrorReportService(f.sink)

	h := New(projectSvc, commentSvc, authSvc, uploadSvc, healthSvc, reportSvc, opts)
	f.router = NewRouter(h, RouterConfig{AllowedOrigins: []string{"https://example.com"}})
	return f
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) adminCookie(t *testing.T) *http.Cookie {
	t.Helper()
	token, _, err := f.sessions.Issue(&domain.Admin{ID: uuid.New(), Username: "admin"}, time.Now())
	require.NoError(t, err)
	return &http.Cookie{Name: "admin-session", Value: token}
}

func jsonRequest(method, path string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func sampleProject() *domain.Project {
	return &domain.Project{
		ID:             uuid.New(),
		Title:          "Garden pavilion",
		Description:    "Timber pavilion",
		Category:       "landscape",
		Location:       "Riyadh",
		CompletionDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt:      time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
		UpdatedAt:      time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
		MediaItems: []domain.MediaItem{
			{ID: uuid.New(), Type: domain.MediaTypeImage, Src: "/uploads/p.jpg"},
		},
		MediaCount: 1,
	}
}

// ============================================================================
// Projects
// ============================================================================

func TestListProjects(t *testing.T) {
	f := newFixture(t, Options{})
	p := sampleProject()

	f.projects.On("List", mock.Anything, mock.MatchedBy(func(filter ports.ProjectFilter) bool {
		return filter.Category == "landscape" && filter.Limit == 5 && filter.Offset == 5 &&
			filter.Sort == domain.SortNewest && filter.Featured == nil
	})).Return([]*domain.Project{p}, 7, nil)

	w := f.do(httptest.NewRequest(http.MethodGet, "/api/projects?category=landscape&limit=5&page=2&sort=newest", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(7), body["total"])
	assert.Equal(t, map[string]any{
		"total":      float64(7),
		"page":       float64(2),
		"limit":      float64(5),
		"totalPages": float64(2),
	}, body["pagination"])
	require.Len(t, body["projects"], 1)
	f.projects.AssertExpectations(t)
}

func TestListProjects_DatabaseErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"unavailable", fmt.Errorf("%w: dial tcp", domain.ErrDatabaseUnavailable), http.StatusServiceUnavailable},
		{"timeout", fmt.Errorf("list projects: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, Options{})
			f.projects.On("List", mock.Anything, mock.Anything).Return(nil, 0, tt.err)

			w := f.do(httptest.NewRequest(http.MethodGet, "/api/projects", nil))
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, false, decode(t, w)["success"])
		})
	}
}

func TestFeaturedProjects(t *testing.T) {
	f := newFixture(t, Options{})
	p := sampleProject()
	p.Featured = true

	f.projects.On("List", mock.Anything, mock.MatchedBy(func(filter ports.ProjectFilter) bool {
		return filter.Featured != nil && *filter.Featured && filter.Limit == 1
	})).Return([]*domain.Project{p}, 1, nil)

	w := f.do(httptest.NewRequest(http.MethodGet, "/api/projects/featured?limit=1", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(1), body["count"])

	perf, ok := body["performance"].(map[string]any)
	require.True(t, ok, "performance block missing")
	assertShape(t, perf, map[string]string{"queryTime": "number", "cached": "boolean"})
	assert.Equal(t, false, perf["cached"])
}

func TestGetProject(t *testing.T) {
	f := newFixture(t, Options{})
	p := sampleProject()

	f.projects.On("GetByID", mock.Anything, p.ID).Return(p, nil)
	f.projects.On("IncrementViews", mock.Anything, p.ID).Return(nil)

	w := f.do(httptest.NewRequest(http.MethodGet, "/api/projects/"+p.ID.String(), nil))

	require.Equal(t, http.StatusOK, w.Code)
	project := decode(t, w)["project"].(map[string]any)
	assert.Equal(t, p.ID.String(), project["id"])
	assert.Equal(t, "2024-03-01T00:00:00Z", project["completionDate"])
	f.projects.AssertExpectations(t)
}

func TestGetProject_BadAndMissingID(t *testing.T) {
	f := newFixture(t, Options{})
	missing := uuid.New()
	f.projects.On("GetByID", mock.Anything, missing).Return(nil, domain.ErrProjectNotFound)

	w := f.do(httptest.NewRequest(http.MethodGet, "/api/projects/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(httptest.NewRequest(http.MethodGet, "/api/projects/"+missing.String(), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "project not found", decode(t, w)["error"])
}

func TestCreateProject_RequiresAdmin(t *testing.T) {
	f := newFixture(t, Options{})

	w := f.do(jsonRequest(http.MethodPost, "/api/projects", map[string]any{"title": "x"}))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"unauthorized","code":"UNAUTHORIZED"}`, w.Body.String())
	f.projects.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateProject_MissingFields(t *testing.T) {
	f := newFixture(t, Options{})

	req := jsonRequest(http.MethodPost, "/api/projects", map[string]any{"title": "Only a title"})
	req.AddCookie(f.adminCookie(t))
	w := f.do(req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["error"], "required")
}

func TestCreateProject(t *testing.T) {
	f := newFixture(t, Options{})

	var created *domain.Project
	f.projects.On("Create", mock.Anything, mock.AnythingOfType("*domain.Project")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*domain.Project) }).
		Return(nil)
	f.projects.On("GetByID", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(sampleProject(), nil)

	req := jsonRequest(http.MethodPost, "/api/projects", map[string]any{
		"title":          "Villa",
		"description":    "Coastal villa",
		"category":       "residential",
		"location":       "Jeddah",
		"completionDate": "2024-06-30",
		"tags":           []any{"coastal", map[string]any{"name": "villa"}},
		"mediaItems":     []any{map[string]any{"type": "IMAGE", "src": "/uploads/v.jpg"}},
	})
	req.AddCookie(f.adminCookie(t))
	w := f.do(req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NotNil(t, created)
	assert.Equal(t, "Villa", created.Title)
	require.Len(t, created.Tags, 2)
	assert.Equal(t, "villa", created.Tags[1].Name)
	require.Len(t, created.MediaItems, 1)
	assert.Equal(t, 0, created.MediaItems[0].Order)
}

func TestUpdateProject_NotFound(t *testing.T) {
	f := newFixture(t, Options{})
	id := uuid.New()
	f.projects.On("GetByID", mock.Anything, id).Return(nil, domain.ErrProjectNotFound)

	req := jsonRequest(http.MethodPut, "/api/projects/"+id.String(), map[string]any{
		"title": "a", "description": "b", "category": "c", "location": "d",
	})
	req.AddCookie(f.adminCookie(t))
	w := f.do(req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteProject(t *testing.T) {
	f := newFixture(t, Options{})
	p := sampleProject()
	f.projects.On("GetByID", mock.Anything, p.ID).Return(p, nil)
	f.projects.On("Delete", mock.Anything, p.ID).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/projects/"+p.ID.String(), nil)
	req.AddCookie(f.adminCookie(t))
	w := f.do(req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{
		"id":    p.ID.String(),
		"title": "Garden pavilion",
	}, decode(t, w)["deletedProject"])
}

func TestLikeProject(t *testing.T) {
	f := newFixture(t, Options{})
	id := uuid.New()
	f.projects.On("IncrementLikes", mock.Anything, id).Return(12, nil)

	w := f.do(httptest.NewRequest(http.MethodPost, "/api/projects/"+id.String()+"/like", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(12), decode(t, w)["likes"])
}

// ============================================================================
// Comments
// ============================================================================

func TestAddComment(t *testing.T) {
	f := newFixture(t, Options{})
	p := sampleProject()
	f.projects.On("GetByID", mock.Anything, p.ID).Return(p, nil)
	f.comments.On("Create", mock.Anything, mock.AnythingOfType("*domain.Comment")).Return(nil)
	f.projects.On("RecomputeRating", mock.Anything, p.ID).Return(4.0, nil)

	w := f.do(jsonRequest(http.MethodPost, "/api/projects/"+p.ID.String()+"/comments", map[string]any{
		"name": "Sara", "message": "Lovely work", "rating": 4,
	}))

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	comment := decode(t, w)["comment"].(map[string]any)
	assert.Equal(t, "Sara", comment["name"])
	assert.Equal(t, float64(4), comment["rating"])
	f.projects.AssertExpectations(t)
}

func TestAddComment_InvalidRating(t *testing.T) {
	f := newFixture(t, Options{})

	w := f.do(jsonRequest(http.MethodPost, "/api/projects/"+uuid.NewString()+"/comments", map[string]any{
		"name": "Sara", "message": "Hi", "rating": 9,
	}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.comments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestDeleteComment_NotFound(t *testing.T) {
	f := newFixture(t, Options{})
	id := uuid.New()
	f.comments.On("GetByID", mock.Anything, id).Return(nil, domain.ErrCommentNotFound)

	req := httptest.NewRequest(http.MethodDelete, "/api/comments/"+id.String(), nil)
	req.AddCookie(f.adminCookie(t))
	w := f.do(req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// ============================================================================
// Auth
// ============================================================================

func TestLogin(t *testing.T) {
	f := newFixture(t, Options{SecureCookies: true})

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)
	admin := &domain.Admin{ID: uuid.New(), Username: "admin", Email: "admin@example.com", PasswordHash: string(hash)}
	f.admins.On("GetByUsername", mock.Anything, "admin").Return(admin, nil)
	f.admins.On("UpdateLastLogin", mock.Anything, admin.ID).Return(nil)

	w := f.do(jsonRequest(http.MethodPost, "/api/auth/login", map[string]any{
		"username": "admin", "password": "correct-horse",
	}))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "admin@example.com", body["admin"].(map[string]any)["email"])

	cookies := map[string]*http.Cookie{}
	for _, c := range w.Result().Cookies() {
		cookies[c.Name] = c
	}
	require.Contains(t, cookies, "admin-session")
	require.Contains(t, cookies, "admin-logged-in")

	session := cookies["admin-session"]
	assert.True(t, session.HttpOnly)
	assert.True(t, session.Secure)
	assert.Equal(t, http.SameSiteLaxMode, session.SameSite)
	assert.Equal(t, 3600, session.MaxAge)
	assert.False(t, cookies["admin-logged-in"].HttpOnly)

	parsed, err := f.sessions.Parse(session.Value, time.Now())
	require.NoError(t, err)
	assert.Equal(t, admin.ID, parsed.AdminID)
}

func TestLogin_LogsOnce(t *testing.T) {
	hook := logtest.NewGlobal()
	defer log.StandardLogger().ReplaceHooks(make(log.LevelHooks))

	f := newFixture(t, Options{})
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)
	admin := &domain.Admin{ID: uuid.New(), Username: "admin", PasswordHash: string(hash)}
	f.admins.On("GetByUsername", mock.Anything, "admin").Return(admin, nil)
	f.admins.On("UpdateLastLogin", mock.Anything, admin.ID).Return(nil)

	w := f.do(jsonRequest(http.MethodPost, "/api/auth/login", map[string]any{
		"username": "admin", "password": "correct-horse",
	}))
	require.Equal(t, http.StatusOK, w.Code)

	logins := 0
	for _, e := range hook.AllEntries() {
		if e.Message == "admin logged in" {
			logins++
		}
	}
	assert.Equal(t, 1, logins)
}

func TestLogin_Failures(t *testing.T) {
	f := newFixture(t, Options{})
	f.admins.On("GetByUsername", mock.Anything, "ghost").Return(nil, domain.ErrAdminNotFound)

	w := f.do(jsonRequest(http.MethodPost, "/api/auth/login", map[string]any{"username": "admin"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(jsonRequest(http.MethodPost, "/api/auth/login", map[string]any{"username": "ghost", "password": "whatever"}))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, domain.ErrInvalidCredentials.Error(), decode(t, w)["error"])
	assert.Empty(t, w.Result().Cookies())
}

func TestCheckSession(t *testing.T) {
	f := newFixture(t, Options{})

	w := f.do(httptest.NewRequest(http.MethodGet, "/api/auth/check-session", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, false, decode(t, w)["authenticated"])

	req := httptest.NewRequest(http.MethodGet, "/api/auth/check-session", nil)
	req.AddCookie(&http.Cookie{Name: "admin-session", Value: "garbage"})
	w = f.do(req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/auth/check-session", nil)
	req.AddCookie(f.adminCookie(t))
	w = f.do(req)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, true, body["authenticated"])
	assert.Equal(t, "admin", body["admin"].(map[string]any)["username"])
	remaining := body["session"].(map[string]any)["remainingHours"].(float64)
	assert.InDelta(t, 1.0, remaining, 0.1)
}

func TestLogout_ExpiresCookies(t *testing.T) {
	f := newFixture(t, Options{})

	w := f.do(httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))

	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 2)
	for _, c := range cookies {
		assert.Less(t, c.MaxAge, 0, c.Name)
	}
}

func TestSetupAdmin(t *testing.T) {
	f := newFixture(t, Options{})
	f.admins.On("Count", mock.Anything).Return(1, nil).Once()

	w := f.do(httptest.NewRequest(http.MethodPost, "/api/setup-admin", nil))
	assert.Equal(t, http.StatusConflict, w.Code)

	f.admins.On("Count", mock.Anything).Return(0, nil).Once()
	f.admins.On("Create", mock.Anything, mock.AnythingOfType("*domain.Admin")).Return(nil)

	w = f.do(httptest.NewRequest(http.MethodPost, "/api/setup-admin", nil))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "admin", decode(t, w)["admin"].(map[string]any)["username"])
}

func TestChangePassword_WeakPassword(t *testing.T) {
	f := newFixture(t, Options{})

	req := jsonRequest(http.MethodPost, "/api/auth/change-password", map[string]any{
		"currentPassword": "old-password", "newPassword": "short",
	})
	req.AddCookie(f.adminCookie(t))
	w := f.do(req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, domain.ErrWeakPassword.Error(), decode(t, w)["error"])
}

// ============================================================================
// Uploads
// ============================================================================

func multipartRequest(t *testing.T, field string, files map[string][]byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, data := range files {
		part, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUpload(t *testing.T) {
	f := newFixture(t, Options{})
	f.local.On("Kind").Return(domain.StorageLocal)
	f.local.On("Store", mock.Anything, mock.Anything, domain.MediaTypeImage, "image/png").
		Return(&domain.StoredObject{
			FileName: "1700000000000_ab12cd34.png",
			URL:      "/uploads/1700000000000_ab12cd34.png",
			Size:     int64(len(pngBytes)),
			Storage:  domain.StorageLocal,
		}, nil)

	req := multipartRequest(t, "files", map[string][]byte{"photo.png": pngBytes})
	req.AddCookie(f.adminCookie(t))
	w := f.do(req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, float64(1), body["count"])
	assert.Equal(t, "local", body["storage_type"])
	file := body["files"].([]any)[0].(map[string]any)
	assert.Equal(t, "photo.png", file["originalName"])
	assert.Equal(t, "IMAGE", file["type"])
	assert.Equal(t, "/uploads/1700000000000_ab12cd34.png", file["src"])
}

func TestFormFiles_SingleFieldWins(t *testing.T) {
	single := &multipart.FileHeader{Filename: "cover.png"}
	many := []*multipart.FileHeader{{Filename: "a.png"}, {Filename: "b.png"}}

	got := formFiles(&multipart.Form{File: map[string][]*multipart.FileHeader{
		"file":  {single, {Filename: "ignored.png"}},
		"files": many,
	}})
	require.Len(t, got, 1)
	assert.Equal(t, "cover.png", got[0].Filename)

	got = formFiles(&multipart.Form{File: map[string][]*multipart.FileHeader{"files": many}})
	assert.Equal(t, many, got)

	assert.Empty(t, formFiles(nil))
}

func TestUpload_AllFailed(t *testing.T) {
	f := newFixture(t, Options{})
	f.local.On("Kind").Return(domain.StorageLocal).Maybe()

	req := multipartRequest(t, "file", map[string][]byte{"notes.txt": []byte("plain text, not media")})
	req.AddCookie(f.adminCookie(t))
	w := f.do(req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	failed := body["failed_files"].([]any)
	require.Len(t, failed, 1)
	assert.Equal(t, "notes.txt", failed[0].(map[string]any)["originalName"])
	f.local.AssertNotCalled(t, "Store", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpload_NoFiles(t *testing.T) {
	f := newFixture(t, Options{})

	req := multipartRequest(t, "files", nil)
	req.AddCookie(f.adminCookie(t))
	w := f.do(req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, domain.ErrNoFiles.Error(), decode(t, w)["error"])
}

func TestUpload_BodyTooLarge(t *testing.T) {
	f := newFixture(t, Options{MaxUploadBytes: 64})

	req := multipartRequest(t, "file", map[string][]byte{"big.png": bytes.Repeat(pngBytes, 10)})
	req.AddCookie(f.adminCookie(t))
	w := f.do(req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

// ============================================================================
// Health & diagnostics
// ============================================================================

func TestHealthz(t *testing.T) {
	f := newFixture(t, Options{})
	f.db.On("Ping", mock.Anything).Return(errors.New("refused")).Once()

	w := f.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	f.db.On("Ping", mock.Anything).Return(nil)
	w = f.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthCheck_ProductionHidesDetails(t *testing.T) {
	f := newFixture(t, Options{Production: true, HealthToken: "s3cret"})
	f.db.On("Ping", mock.Anything).Return(nil)

	w := f.do(httptest.NewRequest(http.MethodGet, "/api/health-check", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	body := decode(t, w)
	assert.Equal(t, "healthy", body["status"])
	assert.NotContains(t, body, "memory")
	assert.NotContains(t, body, "checks")
	assert.NotContains(t, body["cdn"], "cloudName")

	req := httptest.NewRequest(http.MethodGet, "/api/health-check", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	w = f.do(req)

	body = decode(t, w)
	assert.Contains(t, body, "memory")
	assert.Len(t, body["checks"], 3)
	assert.Equal(t, "studio", body["cdn"].(map[string]any)["cloudName"])
}

func TestHealthCheck_Unhealthy(t *testing.T) {
	f := newFixture(t, Options{})
	f.db.On("Ping", mock.Anything).Return(errors.New("refused"))

	w := f.do(httptest.NewRequest(http.MethodGet, "/api/health-check", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "unhealthy", decode(t, w)["status"])
}

func TestDeepHealthCheck(t *testing.T) {
	f := newFixture(t, Options{})
	f.projects.On("Count", mock.Anything).Return(5, nil)

	w := f.do(jsonRequest(http.MethodPost, "/api/health-check", map[string]any{"deep": true}))

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["deep"])
	assert.Equal(t, float64(5), body["projectCount"])
}

func TestDBStatus_Down(t *testing.T) {
	f := newFixture(t, Options{})
	f.db.On("Ping", mock.Anything).Return(errors.New("refused"))

	w := f.do(httptest.NewRequest(http.MethodGet, "/api/db-status", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "disconnected", body["status"])
}

func TestReportError(t *testing.T) {
	f := newFixture(t, Options{})
	f.sink.On("Write", mock.Anything, mock.MatchedBy(func(r *domain.ErrorReport) bool {
		return r.Message == "TypeError: x is undefined" && r.URL == "https://example.com/projects"
	})).Return(nil)

	w := f.do(jsonRequest(http.MethodPost, "/api/error-report", map[string]any{
		"message": "TypeError: x is undefined",
		"url":     "https://example.com/projects",
	}))

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(decode(t, w)["errorId"].(string), "err_"))
	f.sink.AssertExpectations(t)
}

func TestReportError_MissingMessage(t *testing.T) {
	f := newFixture(t, Options{})

	w := f.do(jsonRequest(http.MethodPost, "/api/error-report", map[string]any{"stack": "at foo"}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.sink.AssertNotCalled(t, "Write", mock.Anything, mock.Anything)
}

// ============================================================================
// Edge middleware wiring
// ============================================================================

func TestRouter_CORSPreflight(t *testing.T) {
	f := newFixture(t, Options{})

	req := httptest.NewRequest(http.MethodOptions, "/api/projects", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := f.do(req)

	assert.Equal(t, "https://example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{domain.ErrProjectNotFound, http.StatusNotFound},
		{domain.ErrAdminExists, http.StatusConflict},
		{domain.ErrSessionExpired, http.StatusUnauthorized},
		{domain.ErrInvalidCommentRating, http.StatusBadRequest},
		{fmt.Errorf("%w: max 20MB", domain.ErrFileTooLarge), http.StatusRequestEntityTooLarge},
		{fmt.Errorf("%w: text/plain", domain.ErrUnsupportedFileType), http.StatusUnsupportedMediaType},
		{domain.ErrStorageUnavailable, http.StatusServiceUnavailable},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{errors.New("unexpected"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			mapDomainError(c, tt.err)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}
