package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"yelpcamp/internal/models"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User, password string) error
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	VerifyPassword(ctx context.Context, username, password string) (*models.User, error)
}

type CampgroundRepository interface {
	Create(ctx context.Context, campground *models.Campground) error
	GetByID(ctx context.Context, campgroundID string) (*models.Campground, error)
	GetDetails(ctx context.Context, campgroundID string) (*models.Campground, error)
	List(ctx context.Context) ([]models.Campground, error)
	Update(ctx context.Context, campground *models.Campground, added []models.Image, removedFilenames []string) error
	Delete(ctx context.Context, campgroundID string) error
}

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, campgroundID, reviewID string) (*models.Review, error)
	Delete(ctx context.Context, campgroundID, reviewID string) error
}

type Repository struct {
	User       UserRepository
	Campground CampgroundRepository
	Review     ReviewRepository
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		User:       NewUserRepository(db),
		Campground: NewCampgroundRepository(db),
		Review:     NewReviewRepository(db),
	}
}
