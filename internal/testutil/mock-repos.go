package testutil

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"portfolio-service/internal/core/domain"
	"portfolio-service/internal/core/ports/output"
)

// MockProjectRepo is a mock of ProjectRepository.
type MockProjectRepo struct {
	mock.Mock
}

func (m *MockProjectRepo) Create(ctx context.Context, project *domain.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepo) Update(ctx context.Context, project *domain.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProjectRepo) List(ctx context.Context, filter ports.ProjectFilter) ([]*domain.Project, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.Project), args.Int(1), args.Error(2)
}

func (m *MockProjectRepo) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockProjectRepo) IncrementViews(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProjectRepo) IncrementLikes(ctx context.Context, id uuid.UUID) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *MockProjectRepo) RecomputeRating(ctx context.Context, id uuid.UUID) (float64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(float64), args.Error(1)
}

// MockCommentRepo is a mock of CommentRepository.
type MockCommentRepo struct {
	mock.Mock
}

func (m *MockCommentRepo) Create(ctx context.Context, comment *domain.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Comment), args.Error(1)
}

func (m *MockCommentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCommentRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Comment, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Comment), args.Error(1)
}

// MockAdminRepo is a mock of AdminRepository.
type MockAdminRepo struct {
	mock.Mock
}

func (m *MockAdminRepo) Create(ctx context.Context, admin *domain.Admin) error {
	args := m.Called(ctx, admin)
	return args.Error(0)
}

func (m *MockAdminRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Admin, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Admin), args.Error(1)
}

func (m *MockAdminRepo) GetByUsername(ctx context.Context, username string) (*domain.Admin, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Admin), args.Error(1)
}

func (m *MockAdminRepo) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockAdminRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAdminRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

// MockSessionManager is a mock of SessionManager.
type MockSessionManager struct {
	mock.Mock
}

func (m *MockSessionManager) Issue(admin *domain.Admin, now time.Time) (string, domain.Session, error) {
	args := m.Called(admin, now)
	return args.String(0), args.Get(1).(domain.Session), args.Error(2)
}

func (m *MockSessionManager) Parse(token string, now time.Time) (domain.Session, error) {
	args := m.Called(token, now)
	return args.Get(0).(domain.Session), args.Error(1)
}

func (m *MockSessionManager) TTL() time.Duration {
	args := m.Called()
	return args.Get(0).(time.Duration)
}

// MockMediaStorage is a mock of MediaStorage.
type MockMediaStorage struct {
	mock.Mock
}

func (m *MockMediaStorage) Kind() domain.StorageType {
	args := m.Called()
	return args.Get(0).(domain.StorageType)
}

func (m *MockMediaStorage) Store(ctx context.Context, file domain.UploadFile, kind domain.MediaType, mimeType string) (*domain.StoredObject, error) {
	args := m.Called(ctx, file, kind, mimeType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StoredObject), args.Error(1)
}

// MockErrorReportSink is a mock of ErrorReportSink.
type MockErrorReportSink struct {
	mock.Mock
}

func (m *MockErrorReportSink) Write(ctx context.Context, report *domain.ErrorReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

// MockPinger is a mock of Pinger.
type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

var (
	_ ports.ProjectRepository = (*MockProjectRepo)(nil)
	_ ports.CommentRepository = (*MockCommentRepo)(nil)
	_ ports.AdminRepository   = (*MockAdminRepo)(nil)
	_ ports.SessionManager    = (*MockSessionManager)(nil)
	_ ports.MediaStorage      = (*MockMediaStorage)(nil)
	_ ports.ErrorReportSink   = (*MockErrorReportSink)(nil)
	_ ports.Pinger            = (*MockPinger)(nil)
)
