package router

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yelpcamp/internal/config"
	"yelpcamp/internal/database"
	handlers "yelpcamp/internal/handler"
	"yelpcamp/internal/models"
	"yelpcamp/internal/repository"
	"yelpcamp/internal/service"
	"yelpcamp/internal/session"
)

type fakeGeocoder struct{}

func (fakeGeocoder) Geocode(ctx context.Context, location string) (models.GeoPoint, error) {
	return models.GeoPoint{Lat: 40.01, Lng: -105.27}, nil
}

type fakeStorage struct {
	mu      sync.Mutex
	n       int
	deleted []string
}

func (s *fakeStorage) UploadImage(ctx context.Context, originalName string, file io.Reader, size int64) (models.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	name := fmt.Sprintf("YelpCamp/img%d.png", s.n)
	return models.Image{URL: "http://images.test/yelpcamp/" + name, Filename: name}, nil
}

func (s *fakeStorage) DeleteImage(ctx context.Context, filename string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, filename)
	return nil
}

type site struct {
	server  *httptest.Server
	db      *sqlx.DB
	storage *fakeStorage
}

func newSite(t *testing.T) *site {
	t.Helper()

	db, err := sqlx.Open("sqlite3", "file::memory:?_foreign_keys=on")
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	wrapped := &database.DB{DB: db}
	require.NoError(t, wrapped.RunMigrations("../../migrations/001_create_tables.sql"))

	cfg := &config.Config{MaxUploadSize: 1 << 20}
	cfg.Session = config.Session{Secret: "router-test-secret", Name: "session", Duration: time.Hour}

	st := &fakeStorage{}
	svc := service.NewService(repository.NewRepository(db), cfg, st, fakeGeocoder{})
	h := handlers.NewHandlers(svc, session.NewStore(cfg.Session), handlers.MustRenderer(), wrapped, cfg)

	server := httptest.NewServer(New(h, io.Discard))
	t.Cleanup(server.Close)

	return &site{server: server, db: db, storage: st}
}

func (s *site) browser(t *testing.T) *http.Client {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func page(t *testing.T, resp *http.Response, err error) (string, string) {
	t.Helper()
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.Request.URL.Path, string(body)
}

func (s *site) get(t *testing.T, c *http.Client, path string) (string, string) {
	resp, err := c.Get(s.server.URL + path)
	return page(t, resp, err)
}

func (s *site) post(t *testing.T, c *http.Client, path string, form url.Values) (string, string) {
	resp, err := c.PostForm(s.server.URL+path, form)
	return page(t, resp, err)
}

func (s *site) register(t *testing.T, c *http.Client, username string) {
	path, body := s.post(t, c, "/register", url.Values{
		"username": {username},
		"email":    {username + "@example.com"},
		"password": {"password123"},
	})
	require.Equal(t, "/campgrounds", path)
	require.Contains(t, body, "Welcome to YelpCamp!")
}

func (s *site) createHiddenFalls(t *testing.T, c *http.Client) string {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("campground[title]", "Hidden Falls"))
	require.NoError(t, mw.WriteField("campground[price]", "15"))
	require.NoError(t, mw.WriteField("campground[location]", "Boulder, CO"))
	require.NoError(t, mw.WriteField("campground[description]", "quiet site"))
	part, err := mw.CreateFormFile("image", "falls.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG\r\n\x1a\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := c.Post(s.server.URL+"/campgrounds", mw.FormDataContentType(), &buf)
	path, body := page(t, resp, err)

	require.True(t, strings.HasPrefix(path, "/campgrounds/"), path)
	assert.Contains(t, body, "Successfully created a new campground!")
	assert.Contains(t, body, "Hidden Falls")
	assert.Contains(t, body, "Submitted by epicman")
	assert.Contains(t, body, "Boulder, CO")
	assert.Contains(t, body, "quiet site")
	assert.Contains(t, body, "$15.00/night")
	assert.Contains(t, body, "0 Reviews")
	assert.Contains(t, body, "http://images.test/yelpcamp/YelpCamp/img1.png")
	return strings.TrimPrefix(path, "/campgrounds/")
}

func TestSignInRequired(t *testing.T) {
	s := newSite(t)
	c := s.browser(t)

	path, body := s.get(t, c, "/campgrounds/new")
	assert.Equal(t, "/login", path)
	assert.Contains(t, body, "You must be signed in.")

	s.register(t, c, "epicman")
	s.get(t, c, "/logout")

	// logging in returns to the page that asked for it
	s.get(t, c, "/campgrounds/new")
	path, body = s.post(t, c, "/login", url.Values{"username": {"epicman"}, "password": {"password123"}})
	assert.Equal(t, "/campgrounds/new", path)
	assert.Contains(t, body, "Welcome back!")
	assert.Contains(t, body, "New Campground")
}

func TestLogin_WrongPassword(t *testing.T) {
	s := newSite(t)
	c := s.browser(t)
	s.register(t, c, "epicman")
	s.get(t, c, "/logout")

	path, body := s.post(t, c, "/login", url.Values{"username": {"epicman"}, "password": {"wrong"}})
	assert.Equal(t, "/login", path)
	assert.Contains(t, body, "Password or username is incorrect")
}

func TestRegister_DuplicateUsername(t *testing.T) {
	s := newSite(t)
	s.register(t, s.browser(t), "epicman")

	path, body := s.post(t, s.browser(t), "/register", url.Values{
		"username": {"epicman"},
		"email":    {"someone@example.com"},
		"password": {"password123"},
	})
	assert.Equal(t, "/register", path)
	assert.Contains(t, body, "A user with the given username is already registered")
}

func TestCampgroundLifecycle(t *testing.T) {
	s := newSite(t)
	owner := s.browser(t)
	s.register(t, owner, "epicman")

	id := s.createHiddenFalls(t, owner)

	_, body := s.get(t, owner, "/campgrounds")
	assert.Contains(t, body, "Hidden Falls")
	assert.Contains(t, body, "popUpMarkup")

	// another user reviews it but cannot change it
	visitor := s.browser(t)
	s.register(t, visitor, "camper")

	path, body := s.post(t, visitor, "/campgrounds/"+id+"/reviews", url.Values{
		"review[body]":   {"Great spot"},
		"review[rating]": {"5"},
	})
	assert.Equal(t, "/campgrounds/"+id, path)
	assert.Contains(t, body, "Successfully created review!")
	assert.Contains(t, body, "Great spot")

	path, body = s.post(t, visitor, "/campgrounds/"+id+"?_method=DELETE", nil)
	assert.Equal(t, "/campgrounds/"+id, path)
	assert.Contains(t, body, "You do not have permission to update that campground.")

	var reviewID string
	require.NoError(t, s.db.Get(&reviewID, `SELECT review_id FROM reviews WHERE campground_id = ?`, id))

	// the owner may not remove someone else's review
	path, body = s.post(t, owner, "/campgrounds/"+id+"/reviews/"+reviewID+"?_method=DELETE", nil)
	assert.Equal(t, "/campgrounds/"+id, path)
	assert.Contains(t, body, "You do not have permission to delete that review.")

	// its author may
	path, body = s.post(t, visitor, "/campgrounds/"+id+"/reviews/"+reviewID+"?_method=DELETE", nil)
	assert.Equal(t, "/campgrounds/"+id, path)
	assert.Contains(t, body, "Successfully deleted review!")
	assert.NotContains(t, body, "Great spot")

	_, body = s.post(t, visitor, "/campgrounds/"+id+"/reviews", url.Values{
		"review[body]":   {"Still great"},
		"review[rating]": {"4"},
	})
	assert.Contains(t, body, "Still great")

	// the owner edits the campground, dropping its image
	edit := url.Values{
		"campground[title]":       {"Hidden Falls"},
		"campground[price]":       {"20"},
		"campground[location]":    {"Boulder, CO"},
		"campground[description]": {"Now with a fire pit"},
		"deleteImages[]":          {"YelpCamp/img1.png"},
	}
	path, body = s.post(t, owner, "/campgrounds/"+id+"?_method=PUT", edit)
	assert.Equal(t, "/campgrounds/"+id, path)
	assert.Contains(t, body, "Successfully updated campground!")
	assert.Contains(t, body, "Now with a fire pit")
	assert.Contains(t, body, "$20.00/night")
	assert.NotContains(t, body, "YelpCamp/img1.png")
	assert.Equal(t, []string{"YelpCamp/img1.png"}, s.storage.deleted)

	path, body = s.post(t, owner, "/campgrounds/"+id+"?_method=DELETE", nil)
	assert.Equal(t, "/campgrounds", path)
	assert.Contains(t, body, "Successfully deleted campground!")

	var reviews int
	require.NoError(t, s.db.Get(&reviews, `SELECT COUNT(*) FROM reviews`))
	assert.Zero(t, reviews)

	path, body = s.get(t, owner, "/campgrounds/"+id)
	assert.Equal(t, "/campgrounds", path)
	assert.Contains(t, body, "Campground cannot be found :(")
}

func TestInvalidCampground(t *testing.T) {
	s := newSite(t)
	c := s.browser(t)
	s.register(t, c, "epicman")

	resp, err := c.PostForm(s.server.URL+"/campgrounds", url.Values{
		"campground[title]":       {"<script>alert(1)</script>"},
		"campground[price]":       {"-1"},
		"campground[location]":    {"Boulder"},
		"campground[description]": {"fine"},
	})
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var count int
	require.NoError(t, s.db.Get(&count, `SELECT COUNT(*) FROM campgrounds`))
	assert.Zero(t, count)
}

func TestUnknownRoute(t *testing.T) {
	s := newSite(t)

	resp, err := http.Get(s.server.URL + "/nowhere")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), "Page Not Found")
}

func TestHealthAndStatic(t *testing.T) {
	s := newSite(t)

	resp, err := http.Get(s.server.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(s.server.URL + "/static/js/clusterMap.js")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
