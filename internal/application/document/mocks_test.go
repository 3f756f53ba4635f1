package document

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/salespulse/backend/internal/domain/document"
	"github.com/salespulse/backend/internal/domain/identity"
)

type MockDocumentRepository struct {
	mock.Mock
}

var _ document.Repository = (*MockDocumentRepository)(nil)

func (m *MockDocumentRepository) Create(ctx context.Context, d *document.Document) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDocumentRepository) Update(ctx context.Context, d *document.Document) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, teamID, id uuid.UUID) error {
	args := m.Called(ctx, teamID, id)
	return args.Error(0)
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, teamID, id uuid.UUID) (*document.Document, error) {
	args := m.Called(ctx, teamID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindAll(ctx context.Context, filter document.Filter) ([]*document.Document, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*document.Document), args.Get(1).(int64), args.Error(2)
}

type MockObjectStorage struct {
	mock.Mock
}

var _ ObjectStorageService = (*MockObjectStorage)(nil)

func (m *MockObjectStorage) GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, contentType, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorage) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorage) DeleteObject(ctx context.Context, storageKey string) error {
	args := m.Called(ctx, storageKey)
	return args.Error(0)
}

func (m *MockObjectStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	args := m.Called(ctx, storageKey)
	return args.Bool(0), args.Error(1)
}

func newActiveTeamMember(t *testing.T, teamID uuid.UUID, username string, role identity.Role) *identity.User {
	t.Helper()
	user, err := identity.NewActiveUser(teamID, username, "Password1", role)
	if err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}
