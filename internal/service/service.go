package service

import (
	"yelpcamp/internal/config"
	"yelpcamp/internal/geocoding"
	"yelpcamp/internal/repository"
	"yelpcamp/internal/storage"
)

type Service struct {
	Campground CampgroundService
	Review     ReviewService
	Auth       AuthService
}

func NewService(rep *repository.Repository, cfg *config.Config, storage storage.Storage, geocoder geocoding.Geocoder) *Service {
	return &Service{
		Campground: NewCampgroundService(rep.Campground, storage, geocoder),
		Review:     NewReviewService(rep.Review),
		Auth:       NewAuthService(rep.User, cfg),
	}
}
