package app

import (
	"log"
	"net/http"
	"os"

	"yelpcamp/internal/config"
	"yelpcamp/internal/database"
	"yelpcamp/internal/geocoding"
	handlers "yelpcamp/internal/handler"
	"yelpcamp/internal/repository"
	"yelpcamp/internal/router"
	"yelpcamp/internal/service"
	"yelpcamp/internal/session"
	"yelpcamp/internal/storage"
)

// App connects the backing services and returns the database together with
// the fully wired HTTP handler.
func App(cfg *config.Config) (*database.DB, http.Handler) {
	// connection DB
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to the database: %v", err)
	}

	// connection MinIO
	minioClient, err := storage.NewMinIOClient(cfg)
	if err != nil {
		db.CloseDB()
		log.Fatalf("Failed to initialize MinIO: %v", err)
	}

	if cfg.Mapbox.Token == "" {
		log.Println("Warning: MAPBOX_TOKEN is not set, geocoding will fail")
	}
	geocoder := geocoding.NewMapboxClient(cfg.Mapbox)

	// enabling dependencies
	repo := repository.NewRepository(db.DB)
	services := service.NewService(repo, cfg, minioClient, geocoder)

	renderer, err := handlers.NewRenderer(cfg.TemplatesDebug, "internal/handler/templates")
	if err != nil {
		db.CloseDB()
		log.Fatalf("Failed to load templates: %v", err)
	}

	h := handlers.NewHandlers(services, session.NewStore(cfg.Session), renderer, db, cfg)

	return db, router.New(h, os.Stdout)
}
