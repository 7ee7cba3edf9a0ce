package mocks

import (
	"context"
	"time"

	"nutrack/internal/events"
	"nutrack/internal/models"

	"github.com/stretchr/testify/mock"
)

// Shared MockUserProfileRepository
type MockUserProfileRepository struct {
	mock.Mock
}

func (m *MockUserProfileRepository) Create(profile *models.UserProfile) error {
	args := m.Called(profile)
	return args.Error(0)
}

func (m *MockUserProfileRepository) FindByUserID(userID uint) (*models.UserProfile, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProfile), args.Error(1)
}

func (m *MockUserProfileRepository) Update(profile *models.UserProfile) error {
	args := m.Called(profile)
	return args.Error(0)
}

func (m *MockUserProfileRepository) DeleteByUserID(userID uint) error {
	args := m.Called(userID)
	return args.Error(0)
}

// Shared MockMealRepository
type MockMealRepository struct {
	mock.Mock
}

func (m *MockMealRepository) Create(meal *models.Meal) error {
	args := m.Called(meal)
	return args.Error(0)
}

func (m *MockMealRepository) FindByID(id string) (*models.Meal, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Meal), args.Error(1)
}

func (m *MockMealRepository) FindAllByUserID(userID uint) ([]models.Meal, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Meal), args.Error(1)
}

func (m *MockMealRepository) FindByUserIDAndDate(userID uint, date string) ([]models.Meal, error) {
	args := m.Called(userID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Meal), args.Error(1)
}

func (m *MockMealRepository) FindByUserIDAndDateRange(userID uint, startDate, endDate string) ([]models.Meal, error) {
	args := m.Called(userID, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Meal), args.Error(1)
}

func (m *MockMealRepository) Update(meal *models.Meal) error {
	args := m.Called(meal)
	return args.Error(0)
}

func (m *MockMealRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockMealRepository) CountByUserID(userID uint) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

// Shared MockAnalysisJobRepository
type MockAnalysisJobRepository struct {
	mock.Mock
}

func (m *MockAnalysisJobRepository) SaveJob(job *models.AnalysisJob) error {
	args := m.Called(job)
	return args.Error(0)
}

func (m *MockAnalysisJobRepository) GetJobByID(id string) (*models.AnalysisJob, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AnalysisJob), args.Error(1)
}

func (m *MockAnalysisJobRepository) UpdateJobStatus(jobID, status string, errorMessage *string) error {
	args := m.Called(jobID, status, errorMessage)
	return args.Error(0)
}

func (m *MockAnalysisJobRepository) UpdateJobProgress(jobID string, progress int, step string) error {
	args := m.Called(jobID, progress, step)
	return args.Error(0)
}

func (m *MockAnalysisJobRepository) GetJobsByUserID(userID uint, limit int) ([]*models.AnalysisJob, error) {
	args := m.Called(userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AnalysisJob), args.Error(1)
}

func (m *MockAnalysisJobRepository) GetPendingJobs(limit int) ([]*models.AnalysisJob, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AnalysisJob), args.Error(1)
}

func (m *MockAnalysisJobRepository) GetActiveJobsCount(userID uint) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAnalysisJobRepository) IsJobOwnedByUser(jobID string, userID uint) (bool, error) {
	args := m.Called(jobID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAnalysisJobRepository) CleanupOldJobs(olderThan time.Time) error {
	args := m.Called(olderThan)
	return args.Error(0)
}

// MockAnalyzer stubs the vision service.
type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) Analyze(ctx context.Context, images []models.AnalysisImage) (*models.AnalysisResult, error) {
	args := m.Called(ctx, images)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AnalysisResult), args.Error(1)
}

// MockImageUploader stubs the object store.
type MockImageUploader struct {
	mock.Mock
}

func (m *MockImageUploader) Upload(ctx context.Context, data []byte, mimeType string, userID uint) (string, error) {
	args := m.Called(ctx, data, mimeType, userID)
	return args.String(0), args.Error(1)
}

// MockPublisher records engagement events instead of talking to a broker.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(event events.EngagementEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}
