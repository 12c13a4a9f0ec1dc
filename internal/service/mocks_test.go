package service

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"yelpcamp/internal/models"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *models.User, password string) error {
	args := m.Called(ctx, user, password)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) VerifyPassword(ctx context.Context, username, password string) (*models.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockCampgroundRepository struct {
	mock.Mock
}

func (m *MockCampgroundRepository) Create(ctx context.Context, campground *models.Campground) error {
	args := m.Called(ctx, campground)
	return args.Error(0)
}

func (m *MockCampgroundRepository) GetByID(ctx context.Context, campgroundID string) (*models.Campground, error) {
	args := m.Called(ctx, campgroundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Campground), args.Error(1)
}

func (m *MockCampgroundRepository) GetDetails(ctx context.Context, campgroundID string) (*models.Campground, error) {
	args := m.Called(ctx, campgroundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Campground), args.Error(1)
}

func (m *MockCampgroundRepository) List(ctx context.Context) ([]models.Campground, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Campground), args.Error(1)
}

func (m *MockCampgroundRepository) Update(ctx context.Context, campground *models.Campground, added []models.Image, removedFilenames []string) error {
	args := m.Called(ctx, campground, added, removedFilenames)
	return args.Error(0)
}

func (m *MockCampgroundRepository) Delete(ctx context.Context, campgroundID string) error {
	args := m.Called(ctx, campgroundID)
	return args.Error(0)
}

type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) GetByID(ctx context.Context, campgroundID, reviewID string) (*models.Review, error) {
	args := m.Called(ctx, campgroundID, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewRepository) Delete(ctx context.Context, campgroundID, reviewID string) error {
	args := m.Called(ctx, campgroundID, reviewID)
	return args.Error(0)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) UploadImage(ctx context.Context, originalName string, file io.Reader, size int64) (models.Image, error) {
	args := m.Called(ctx, originalName, size)
	return args.Get(0).(models.Image), args.Error(1)
}

func (m *MockStorage) DeleteImage(ctx context.Context, filename string) error {
	args := m.Called(ctx, filename)
	return args.Error(0)
}

type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Geocode(ctx context.Context, location string) (models.GeoPoint, error) {
	args := m.Called(ctx, location)
	return args.Get(0).(models.GeoPoint), args.Error(1)
}
