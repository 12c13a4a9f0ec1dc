package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"slices"

	"yelpcamp/internal/authz"
	"yelpcamp/internal/geocoding"
	"yelpcamp/internal/models"
	"yelpcamp/internal/repository"
	"yelpcamp/internal/storage"
)

// Upload is one submitted image file.
type Upload struct {
	Name string
	Size int64
	File io.Reader
}

type CampgroundService interface {
	List(ctx context.Context) ([]models.Campground, error)
	Get(ctx context.Context, campgroundID string) (*models.Campground, error)
	GetForEdit(ctx context.Context, campgroundID, userID string) (*models.Campground, error)
	Create(ctx context.Context, authorID string, input models.CampgroundInput, uploads []Upload) (*models.Campground, error)
	Update(ctx context.Context, campgroundID, userID string, input models.CampgroundInput, uploads []Upload, deleteImages []string) (*models.Campground, error)
	Delete(ctx context.Context, campgroundID, userID string) error
}

type campgroundService struct {
	campgroundRepo repository.CampgroundRepository
	storage        storage.Storage
	geocoder       geocoding.Geocoder
}

func NewCampgroundService(campgroundRepo repository.CampgroundRepository, storage storage.Storage, geocoder geocoding.Geocoder) CampgroundService {
	return &campgroundService{
		campgroundRepo: campgroundRepo,
		storage:        storage,
		geocoder:       geocoder,
	}
}

func (s *campgroundService) List(ctx context.Context) ([]models.Campground, error) {
	return s.campgroundRepo.List(ctx)
}

// Get returns the campground with its author, images and reviews.
func (s *campgroundService) Get(ctx context.Context, campgroundID string) (*models.Campground, error) {
	return s.campgroundRepo.GetDetails(ctx, campgroundID)
}

func (s *campgroundService) GetForEdit(ctx context.Context, campgroundID, userID string) (*models.Campground, error) {
	campground, err := s.campgroundRepo.GetByID(ctx, campgroundID)
	if err != nil {
		return nil, err
	}

	if err := authz.RequireOwnership(campground.AuthorID, userID); err != nil {
		return nil, err
	}

	return campground, nil
}

func (s *campgroundService) Create(ctx context.Context, authorID string, input models.CampgroundInput, uploads []Upload) (*models.Campground, error) {
	point, err := s.geocoder.Geocode(ctx, input.Location)
	if err != nil {
		return nil, err
	}

	images, err := s.uploadAll(ctx, uploads)
	if err != nil {
		return nil, err
	}

	campground := &models.Campground{
		AuthorID:    authorID,
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Location:    input.Location,
		Images:      images,
	}
	campground.SetGeometry(point)

	if err := s.campgroundRepo.Create(ctx, campground); err != nil {
		s.removeAll(ctx, images)
		return nil, err
	}

	return campground, nil
}

// Update merges the submitted fields, appends new images and pulls the ones
// named in deleteImages. Objects are removed from storage only after the
// database change is committed.
func (s *campgroundService) Update(ctx context.Context, campgroundID, userID string, input models.CampgroundInput, uploads []Upload, deleteImages []string) (*models.Campground, error) {
	campground, err := s.campgroundRepo.GetByID(ctx, campgroundID)
	if err != nil {
		return nil, err
	}

	if err := authz.RequireOwnership(campground.AuthorID, userID); err != nil {
		return nil, err
	}

	if input.Location != campground.Location {
		point, err := s.geocoder.Geocode(ctx, input.Location)
		if err != nil {
			return nil, err
		}
		campground.SetGeometry(point)
	}

	campground.Title = input.Title
	campground.Description = input.Description
	campground.Price = input.Price
	campground.Location = input.Location

	var removed []models.Image
	for _, img := range campground.Images {
		if slices.Contains(deleteImages, img.Filename) {
			removed = append(removed, img)
		}
	}

	added, err := s.uploadAll(ctx, uploads)
	if err != nil {
		return nil, err
	}

	if err := s.campgroundRepo.Update(ctx, campground, added, models.Filenames(removed)); err != nil {
		s.removeAll(ctx, added)
		return nil, err
	}

	s.removeAll(ctx, removed)

	return campground, nil
}

// Delete removes the campground with all of its reviews and images.
func (s *campgroundService) Delete(ctx context.Context, campgroundID, userID string) error {
	campground, err := s.campgroundRepo.GetByID(ctx, campgroundID)
	if err != nil {
		return err
	}

	if err := authz.RequireOwnership(campground.AuthorID, userID); err != nil {
		return err
	}

	if err := s.campgroundRepo.Delete(ctx, campgroundID); err != nil {
		return err
	}

	s.removeAll(ctx, campground.Images)

	return nil
}

func (s *campgroundService) uploadAll(ctx context.Context, uploads []Upload) ([]models.Image, error) {
	images := make([]models.Image, 0, len(uploads))
	for _, up := range uploads {
		img, err := s.storage.UploadImage(ctx, up.Name, up.File, up.Size)
		if err != nil {
			s.removeAll(ctx, images)
			return nil, fmt.Errorf("failed to upload %s: %w", up.Name, err)
		}
		images = append(images, img)
	}
	return images, nil
}

// removeAll deletes stored objects, logging failures.
func (s *campgroundService) removeAll(ctx context.Context, images []models.Image) {
	for _, img := range images {
		if err := s.storage.DeleteImage(ctx, img.Filename); err != nil {
			log.Printf("Warning: failed to delete image %s from storage: %v", img.Filename, err)
		}
	}
}
