package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"yelpcamp/internal/apperror"
	"yelpcamp/internal/models"
)

const reviewSelect = `
	SELECT r.review_id, r.campground_id, r.author_id, r.body, r.rating, r.created_at,
	       u.username AS author_username
	FROM reviews r
	JOIN users u ON u.user_id = r.author_id
`

type reviewRow struct {
	models.Review
	AuthorUsername string `db:"author_username"`
}

func (row reviewRow) toModel() models.Review {
	review := row.Review
	review.Author = &models.User{UserID: review.AuthorID, Username: row.AuthorUsername}
	return review
}

type ReviewRepositoryImpl struct {
	db *sqlx.DB
}

func NewReviewRepository(db *sqlx.DB) *ReviewRepositoryImpl {
	return &ReviewRepositoryImpl{db: db}
}

// Create attaches the review to its campground. The campground must exist.
func (r *ReviewRepositoryImpl) Create(ctx context.Context, review *models.Review) error {
	review.ReviewID = uuid.New().String()
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.GetContext(ctx, &exists, tx.Rebind(`SELECT COUNT(*) FROM campgrounds WHERE campground_id = ?`), review.CampgroundID)
	if err != nil {
		return fmt.Errorf("failed to check campground: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("campground %s: %w", review.CampgroundID, apperror.ErrNotFound)
	}

	query := `
		INSERT INTO reviews (review_id, campground_id, author_id, body, rating, created_at)
		VALUES (:review_id, :campground_id, :author_id, :body, :rating, :created_at)
	`
	if _, err := tx.NamedExecContext(ctx, query, review); err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit review: %w", err)
	}

	return nil
}

// GetByID finds a review only when it belongs to the given campground.
func (r *ReviewRepositoryImpl) GetByID(ctx context.Context, campgroundID, reviewID string) (*models.Review, error) {
	var row reviewRow
	query := r.db.Rebind(reviewSelect + ` WHERE r.review_id = ? AND r.campground_id = ?`)

	err := r.db.GetContext(ctx, &row, query, reviewID, campgroundID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("review %s: %w", reviewID, apperror.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	review := row.toModel()
	return &review, nil
}

// Delete removes the review and thereby its reference from the campground.
func (r *ReviewRepositoryImpl) Delete(ctx context.Context, campgroundID, reviewID string) error {
	query := r.db.Rebind(`DELETE FROM reviews WHERE review_id = ? AND campground_id = ?`)

	result, err := r.db.ExecContext(ctx, query, reviewID, campgroundID)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("review %s: %w", reviewID, apperror.ErrNotFound)
	}

	return nil
}

func selectReviews(ctx context.Context, db *sqlx.DB, campgroundID string) ([]models.Review, error) {
	var rows []reviewRow
	query := db.Rebind(reviewSelect + ` WHERE r.campground_id = ? ORDER BY r.created_at, r.review_id`)

	if err := db.SelectContext(ctx, &rows, query, campgroundID); err != nil {
		return nil, fmt.Errorf("failed to get reviews: %w", err)
	}

	reviews := make([]models.Review, 0, len(rows))
	for _, row := range rows {
		reviews = append(reviews, row.toModel())
	}
	return reviews, nil
}
