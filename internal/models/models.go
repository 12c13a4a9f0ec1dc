package models

import (
	"fmt"
	"html/template"
	"strings"
	"time"
)

type User struct {
	UserID       string    `json:"userId" db:"user_id"`
	Email        string    `json:"email" db:"email"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

type CreateUserRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// GeoPoint is a WGS84 coordinate.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Coordinates returns the point in GeoJSON order.
func (p GeoPoint) Coordinates() []float64 {
	return []float64{p.Lng, p.Lat}
}

type Image struct {
	URL      string `json:"url" db:"url"`
	Filename string `json:"filename" db:"filename"`
}

// Thumbnail is derived from URL and never stored.
func (i Image) Thumbnail() string {
	return strings.Replace(i.URL, "/upload", "/upload/w_200", 1)
}

type Campground struct {
	CampgroundID string    `json:"id" db:"campground_id"`
	AuthorID     string    `json:"authorId" db:"author_id"`
	Title        string    `json:"title" db:"title"`
	Description  string    `json:"description" db:"description"`
	Price        float64   `json:"price" db:"price"`
	Location     string    `json:"location" db:"location"`
	Latitude     float64   `json:"-" db:"latitude"`
	Longitude    float64   `json:"-" db:"longitude"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`

	Author  *User    `json:"author,omitempty" db:"-"`
	Images  []Image  `json:"images" db:"-"`
	Reviews []Review `json:"reviews" db:"-"`
}

func (c *Campground) Geometry() GeoPoint {
	return GeoPoint{Lat: c.Latitude, Lng: c.Longitude}
}

func (c *Campground) SetGeometry(p GeoPoint) {
	c.Latitude = p.Lat
	c.Longitude = p.Lng
}

// Filenames lists the storage filenames of images in order.
func Filenames(images []Image) []string {
	names := make([]string, 0, len(images))
	for _, img := range images {
		names = append(names, img.Filename)
	}
	return names
}

// PopUpMarkup is the escaped snippet shown in the cluster map pop-up.
func (c *Campground) PopUpMarkup() template.HTML {
	desc := []rune(c.Description)
	if len(desc) > 30 {
		desc = desc[:30]
	}
	return template.HTML(fmt.Sprintf(`<strong><a href="/campgrounds/%s">%s</a></strong><p>%s...</p>`,
		template.HTMLEscapeString(c.CampgroundID),
		template.HTMLEscapeString(c.Title),
		template.HTMLEscapeString(string(desc))))
}

type Review struct {
	ReviewID     string    `json:"id" db:"review_id"`
	CampgroundID string    `json:"campgroundId" db:"campground_id"`
	AuthorID     string    `json:"authorId" db:"author_id"`
	Body         string    `json:"body" db:"body"`
	Rating       int       `json:"rating" db:"rating"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`

	Author *User `json:"author,omitempty" db:"-"`
}

// CampgroundInput is a validated campground submission.
type CampgroundInput struct {
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Location    string  `json:"location"`
	Description string  `json:"description"`
}

// ReviewInput is a validated review submission.
type ReviewInput struct {
	Body   string `json:"body"`
	Rating int    `json:"rating"`
}
