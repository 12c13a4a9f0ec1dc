package service

import (
	"context"

	"yelpcamp/internal/authz"
	"yelpcamp/internal/models"
	"yelpcamp/internal/repository"
)

type ReviewService interface {
	Create(ctx context.Context, campgroundID, authorID string, input models.ReviewInput) (*models.Review, error)
	Delete(ctx context.Context, campgroundID, reviewID, userID string) error
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository) ReviewService {
	return &reviewService{reviewRepo: reviewRepo}
}

func (s *reviewService) Create(ctx context.Context, campgroundID, authorID string, input models.ReviewInput) (*models.Review, error) {
	review := &models.Review{
		CampgroundID: campgroundID,
		AuthorID:     authorID,
		Body:         input.Body,
		Rating:       input.Rating,
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	return review, nil
}

// Delete removes a review of the campground. Only its author may do so.
func (s *reviewService) Delete(ctx context.Context, campgroundID, reviewID, userID string) error {
	review, err := s.reviewRepo.GetByID(ctx, campgroundID, reviewID)
	if err != nil {
		return err
	}

	if err := authz.RequireOwnership(review.AuthorID, userID); err != nil {
		return err
	}

	return s.reviewRepo.Delete(ctx, campgroundID, reviewID)
}
