package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"yelpcamp/internal/apperror"
	"yelpcamp/internal/models"
)

const campgroundSelect = `
	SELECT c.campground_id, c.author_id, c.title, c.description, c.price, c.location,
	       c.latitude, c.longitude, c.created_at, c.updated_at,
	       u.username AS author_username, u.email AS author_email
	FROM campgrounds c
	JOIN users u ON u.user_id = c.author_id
`

type campgroundRow struct {
	models.Campground
	AuthorUsername string `db:"author_username"`
	AuthorEmail    string `db:"author_email"`
}

func (row campgroundRow) toModel() models.Campground {
	c := row.Campground
	c.Author = &models.User{UserID: c.AuthorID, Username: row.AuthorUsername, Email: row.AuthorEmail}
	c.Images = []models.Image{}
	c.Reviews = []models.Review{}
	return c
}

type imageRow struct {
	CampgroundID string `db:"campground_id"`
	Position     int    `db:"position"`
	URL          string `db:"url"`
	Filename     string `db:"filename"`
}

type CampgroundRepositoryImpl struct {
	db *sqlx.DB
}

func NewCampgroundRepository(db *sqlx.DB) *CampgroundRepositoryImpl {
	return &CampgroundRepositoryImpl{db: db}
}

// Create stores the campground and its images in one transaction.
func (r *CampgroundRepositoryImpl) Create(ctx context.Context, campground *models.Campground) error {
	if campground.CampgroundID == "" {
		campground.CampgroundID = uuid.New().String()
	}

	now := time.Now().UTC()
	campground.CreatedAt = now
	campground.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO campgrounds
		(campground_id, author_id, title, description, price, location, latitude, longitude, created_at, updated_at)
		VALUES
		(:campground_id, :author_id, :title, :description, :price, :location, :latitude, :longitude, :created_at, :updated_at)
	`
	if _, err := tx.NamedExecContext(ctx, query, campground); err != nil {
		return fmt.Errorf("failed to create campground: %w", err)
	}

	if err := insertImages(ctx, tx, campground.CampgroundID, 0, campground.Images); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit campground: %w", err)
	}

	return nil
}

// GetByID loads the campground with its author and images.
func (r *CampgroundRepositoryImpl) GetByID(ctx context.Context, campgroundID string) (*models.Campground, error) {
	var row campgroundRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(campgroundSelect+` WHERE c.campground_id = ?`), campgroundID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("campground %s: %w", campgroundID, apperror.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get campground: %w", err)
	}

	campground := row.toModel()

	var images []imageRow
	err = r.db.SelectContext(ctx, &images, r.db.Rebind(`
		SELECT campground_id, position, url, filename
		FROM campground_images
		WHERE campground_id = ?
		ORDER BY position
	`), campgroundID)
	if err != nil {
		return nil, fmt.Errorf("failed to get campground images: %w", err)
	}

	for _, img := range images {
		campground.Images = append(campground.Images, models.Image{URL: img.URL, Filename: img.Filename})
	}

	return &campground, nil
}

// GetDetails loads the campground with its author, images and reviews, each
// review with its author.
func (r *CampgroundRepositoryImpl) GetDetails(ctx context.Context, campgroundID string) (*models.Campground, error) {
	campground, err := r.GetByID(ctx, campgroundID)
	if err != nil {
		return nil, err
	}

	reviews, err := selectReviews(ctx, r.db, campgroundID)
	if err != nil {
		return nil, err
	}
	campground.Reviews = reviews

	return campground, nil
}

func (r *CampgroundRepositoryImpl) List(ctx context.Context) ([]models.Campground, error) {
	var rows []campgroundRow
	if err := r.db.SelectContext(ctx, &rows, campgroundSelect+` ORDER BY c.created_at DESC`); err != nil {
		return nil, fmt.Errorf("failed to list campgrounds: %w", err)
	}

	var images []imageRow
	err := r.db.SelectContext(ctx, &images, `
		SELECT campground_id, position, url, filename
		FROM campground_images
		ORDER BY campground_id, position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list campground images: %w", err)
	}

	byCampground := make(map[string][]models.Image, len(rows))
	for _, img := range images {
		byCampground[img.CampgroundID] = append(byCampground[img.CampgroundID], models.Image{URL: img.URL, Filename: img.Filename})
	}

	campgrounds := make([]models.Campground, 0, len(rows))
	for _, row := range rows {
		c := row.toModel()
		if imgs, ok := byCampground[c.CampgroundID]; ok {
			c.Images = imgs
		}
		campgrounds = append(campgrounds, c)
	}

	return campgrounds, nil
}

// Update writes the scalar fields, pulls the removed images and appends the
// added ones in one transaction. The author is never changed.
func (r *CampgroundRepositoryImpl) Update(ctx context.Context, campground *models.Campground, added []models.Image, removedFilenames []string) error {
	campground.UpdatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE campgrounds SET
			title = :title,
			description = :description,
			price = :price,
			location = :location,
			latitude = :latitude,
			longitude = :longitude,
			updated_at = :updated_at
		WHERE campground_id = :campground_id AND author_id = :author_id
	`

	result, err := tx.NamedExecContext(ctx, query, campground)
	if err != nil {
		return fmt.Errorf("failed to update campground: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("campground %s: %w", campground.CampgroundID, apperror.ErrNotFound)
	}

	if len(removedFilenames) > 0 {
		query, args, err := sqlx.In(`DELETE FROM campground_images WHERE campground_id = ? AND filename IN (?)`,
			campground.CampgroundID, removedFilenames)
		if err != nil {
			return fmt.Errorf("failed to build image delete: %w", err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
			return fmt.Errorf("failed to delete campground images: %w", err)
		}
	}

	if len(added) > 0 {
		var lastPosition int
		err := tx.GetContext(ctx, &lastPosition, tx.Rebind(
			`SELECT COALESCE(MAX(position), -1) FROM campground_images WHERE campground_id = ?`), campground.CampgroundID)
		if err != nil {
			return fmt.Errorf("failed to read image positions: %w", err)
		}
		if err := insertImages(ctx, tx, campground.CampgroundID, lastPosition+1, added); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit campground update: %w", err)
	}

	images := make([]models.Image, 0, len(campground.Images)+len(added))
	for _, img := range campground.Images {
		if !slices.Contains(removedFilenames, img.Filename) {
			images = append(images, img)
		}
	}
	campground.Images = append(images, added...)

	return nil
}

// Delete removes the campground together with every review and image row that
// belongs to it. Either everything is deleted or nothing is.
func (r *CampgroundRepositoryImpl) Delete(ctx context.Context, campgroundID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM reviews WHERE campground_id = ?`), campgroundID); err != nil {
		return fmt.Errorf("failed to delete campground reviews: %w", err)
	}

	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM campground_images WHERE campground_id = ?`), campgroundID); err != nil {
		return fmt.Errorf("failed to delete campground images: %w", err)
	}

	result, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM campgrounds WHERE campground_id = ?`), campgroundID)
	if err != nil {
		return fmt.Errorf("failed to delete campground: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("campground %s: %w", campgroundID, apperror.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit campground delete: %w", err)
	}

	return nil
}

func insertImages(ctx context.Context, tx *sqlx.Tx, campgroundID string, startPosition int, images []models.Image) error {
	query := `
		INSERT INTO campground_images (campground_id, position, url, filename)
		VALUES (:campground_id, :position, :url, :filename)
	`

	for i, img := range images {
		row := imageRow{
			CampgroundID: campgroundID,
			Position:     startPosition + i,
			URL:          img.URL,
			Filename:     img.Filename,
		}
		if _, err := tx.NamedExecContext(ctx, query, row); err != nil {
			return fmt.Errorf("failed to create campground image: %w", err)
		}
	}

	return nil
}
