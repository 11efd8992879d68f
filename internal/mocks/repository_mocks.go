package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"storybook-server/internal/models"
	"storybook-server/internal/repository"
)

// MockContentRepository is a mock type for the ContentRepository type
type MockContentRepository struct {
	mock.Mock
}

func (_m *MockContentRepository) List(ctx context.Context) ([]models.SavedContent, error) {
	ret := _m.Called(ctx)

	var r0 []models.SavedContent
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.SavedContent)
	}
	return r0, ret.Error(1)
}

func (_m *MockContentRepository) Insert(ctx context.Context, item models.SavedContent) error {
	ret := _m.Called(ctx, item)
	return ret.Error(0)
}

func (_m *MockContentRepository) Delete(ctx context.Context, contentID string) error {
	ret := _m.Called(ctx, contentID)
	return ret.Error(0)
}

func (_m *MockContentRepository) ToggleBookmark(ctx context.Context, contentID string, candidateIndex int) (int, error) {
	ret := _m.Called(ctx, contentID, candidateIndex)
	return ret.Int(0), ret.Error(1)
}

// NewMockContentRepository creates a new instance of MockContentRepository.
func NewMockContentRepository(t interface {
	mock.TestingT
	Helper()
}) *MockContentRepository {
	m := &MockContentRepository{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ repository.ContentRepository = (*MockContentRepository)(nil)

// MockDraftRepository is a mock type for the DraftRepository type
type MockDraftRepository struct {
	mock.Mock
}

func (_m *MockDraftRepository) Load(ctx context.Context, tool models.ToolID) (*models.DraftSnapshot, error) {
	ret := _m.Called(ctx, tool)

	var r0 *models.DraftSnapshot
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.DraftSnapshot)
	}
	return r0, ret.Error(1)
}

func (_m *MockDraftRepository) Save(ctx context.Context, snapshot *models.DraftSnapshot) error {
	ret := _m.Called(ctx, snapshot)
	return ret.Error(0)
}

func (_m *MockDraftRepository) Clear(ctx context.Context, tool models.ToolID) error {
	ret := _m.Called(ctx, tool)
	return ret.Error(0)
}

// NewMockDraftRepository creates a new instance of MockDraftRepository.
func NewMockDraftRepository(t interface {
	mock.TestingT
	Helper()
}) *MockDraftRepository {
	m := &MockDraftRepository{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ repository.DraftRepository = (*MockDraftRepository)(nil)
