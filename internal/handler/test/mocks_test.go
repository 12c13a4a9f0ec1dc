package test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"yelpcamp/internal/models"
	"yelpcamp/internal/service"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (*models.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) IssueToken(user *models.User) (string, error) {
	args := m.Called(user)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) CurrentUser(ctx context.Context, tokenString string) (*models.User, error) {
	args := m.Called(ctx, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockCampgroundService struct {
	mock.Mock
}

func (m *MockCampgroundService) List(ctx context.Context) ([]models.Campground, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Campground), args.Error(1)
}

func (m *MockCampgroundService) Get(ctx context.Context, campgroundID string) (*models.Campground, error) {
	args := m.Called(ctx, campgroundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Campground), args.Error(1)
}

func (m *MockCampgroundService) GetForEdit(ctx context.Context, campgroundID, userID string) (*models.Campground, error) {
	args := m.Called(ctx, campgroundID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Campground), args.Error(1)
}

func (m *MockCampgroundService) Create(ctx context.Context, authorID string, input models.CampgroundInput, uploads []service.Upload) (*models.Campground, error) {
	args := m.Called(ctx, authorID, input, uploads)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Campground), args.Error(1)
}

func (m *MockCampgroundService) Update(ctx context.Context, campgroundID, userID string, input models.CampgroundInput, uploads []service.Upload, deleteImages []string) (*models.Campground, error) {
	args := m.Called(ctx, campgroundID, userID, input, uploads, deleteImages)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Campground), args.Error(1)
}

func (m *MockCampgroundService) Delete(ctx context.Context, campgroundID, userID string) error {
	args := m.Called(ctx, campgroundID, userID)
	return args.Error(0)
}

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) Create(ctx context.Context, campgroundID, authorID string, input models.ReviewInput) (*models.Review, error) {
	args := m.Called(ctx, campgroundID, authorID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewService) Delete(ctx context.Context, campgroundID, reviewID, userID string) error {
	args := m.Called(ctx, campgroundID, reviewID, userID)
	return args.Error(0)
}

type MockHealthChecker struct {
	mock.Mock
}

func (m *MockHealthChecker) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
