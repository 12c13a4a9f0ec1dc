package handlers

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/gorilla/mux"

	"yelpcamp/internal/authz"
	"yelpcamp/internal/models"
	"yelpcamp/internal/service"
	"yelpcamp/internal/session"
	"yelpcamp/internal/validation"
)

// multipartMemory is how much of a multipart body is kept in memory before
// spilling files to disk.
const multipartMemory = 8 << 20

type featureCollection struct {
	Features []feature `json:"features"`
}

type feature struct {
	Type       string            `json:"type"`
	Geometry   geometry          `json:"geometry"`
	Properties featureProperties `json:"properties"`
}

type geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

type featureProperties struct {
	PopUpMarkup template.HTML `json:"popUpMarkup"`
}

func campgroundFeatures(campgrounds []models.Campground) featureCollection {
	fc := featureCollection{Features: make([]feature, 0, len(campgrounds))}
	for i := range campgrounds {
		c := &campgrounds[i]
		fc.Features = append(fc.Features, feature{
			Type:       "Feature",
			Geometry:   geometry{Type: "Point", Coordinates: c.Geometry().Coordinates()},
			Properties: featureProperties{PopUpMarkup: c.PopUpMarkup()},
		})
	}
	return fc
}

func campgroundPath(id string) string {
	return "/campgrounds/" + id
}

// currentUser returns the signed-in user or answers the request with the
// login redirect. fallback is remembered for non-GET requests.
func (h *Handlers) currentUser(w http.ResponseWriter, r *http.Request, fallback string) (*models.User, bool) {
	sc := h.session(r)
	if err := authz.RequireAuthenticated(sc, r, fallback); err != nil {
		h.fail(w, r, err, failure{})
		return nil, false
	}
	return sc.User, true
}

func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "home", pageData{Title: "YelpCamp"})
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	if h.DB == nil {
		writeJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
		return
	}

	if err := h.DB.HealthCheck(r.Context()); err != nil {
		writeJSON(w, map[string]string{"status": "unavailable", "error": err.Error()}, http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

func (h *Handlers) ListCampgrounds(w http.ResponseWriter, r *http.Request) {
	campgrounds, err := h.CampgroundService.List(r.Context())
	if err != nil {
		h.fail(w, r, err, failure{})
		return
	}

	h.render(w, r, http.StatusOK, "index", pageData{
		Title:       "All Campgrounds",
		Campgrounds: campgrounds,
		GeoJSON:     campgroundFeatures(campgrounds),
	})
}

func (h *Handlers) NewCampgroundForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.currentUser(w, r, ""); !ok {
		return
	}
	h.render(w, r, http.StatusOK, "new", pageData{Title: "New Campground"})
}

func (h *Handlers) CreateCampground(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r, "/campgrounds/new")
	if !ok {
		return
	}

	back := "/campgrounds/new"

	uploads, closeAll, ok := h.parseCampgroundForm(w, r, back)
	if !ok {
		return
	}
	defer closeAll()

	input, err := h.Validate.Campground(campgroundForm(r))
	if err != nil {
		h.fail(w, r, err, failure{back: back})
		return
	}

	campground, err := h.CampgroundService.Create(r.Context(), user.UserID, input, uploads)
	if err != nil {
		h.fail(w, r, err, failure{back: back})
		return
	}

	h.flash(r, session.FlashSuccess, "Successfully created a new campground!")
	h.redirect(w, r, campgroundPath(campground.CampgroundID))
}

func (h *Handlers) ShowCampground(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	campground, err := h.CampgroundService.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, failure{})
		return
	}

	h.render(w, r, http.StatusOK, "show", pageData{Title: campground.Title, Campground: campground})
}

func (h *Handlers) EditCampgroundForm(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	user, ok := h.currentUser(w, r, "")
	if !ok {
		return
	}

	campground, err := h.CampgroundService.GetForEdit(r.Context(), id, user.UserID)
	if err != nil {
		h.fail(w, r, err, editFailure(id))
		return
	}

	h.render(w, r, http.StatusOK, "edit", pageData{Title: "Edit " + campground.Title, Campground: campground})
}

func (h *Handlers) UpdateCampground(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	user, ok := h.currentUser(w, r, campgroundPath(id))
	if !ok {
		return
	}

	// ownership is settled before the payload is looked at
	if _, err := h.CampgroundService.GetForEdit(r.Context(), id, user.UserID); err != nil {
		h.fail(w, r, err, editFailure(id))
		return
	}

	back := campgroundPath(id) + "/edit"

	uploads, closeAll, ok := h.parseCampgroundForm(w, r, back)
	if !ok {
		return
	}
	defer closeAll()

	input, err := h.Validate.Campground(campgroundForm(r))
	if err != nil {
		h.fail(w, r, err, failure{back: back})
		return
	}

	deleteImages := r.Form["deleteImages[]"]
	if len(deleteImages) == 0 {
		deleteImages = r.Form["deleteImages"]
	}

	campground, err := h.CampgroundService.Update(r.Context(), id, user.UserID, input, uploads, deleteImages)
	if err != nil {
		f := editFailure(id)
		f.back = back
		h.fail(w, r, err, f)
		return
	}

	h.flash(r, session.FlashSuccess, "Successfully updated campground!")
	h.redirect(w, r, campgroundPath(campground.CampgroundID))
}

func (h *Handlers) DeleteCampground(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	user, ok := h.currentUser(w, r, campgroundPath(id))
	if !ok {
		return
	}

	if err := h.CampgroundService.Delete(r.Context(), id, user.UserID); err != nil {
		h.fail(w, r, err, editFailure(id))
		return
	}

	h.flash(r, session.FlashSuccess, "Successfully deleted campground!")
	h.redirect(w, r, "/campgrounds")
}

func editFailure(id string) failure {
	return failure{
		back:      campgroundPath(id),
		forbidden: "You do not have permission to update that campground.",
	}
}

func campgroundForm(r *http.Request) validation.CampgroundForm {
	return validation.CampgroundForm{
		Title:       r.FormValue("campground[title]"),
		Price:       r.FormValue("campground[price]"),
		Location:    r.FormValue("campground[location]"),
		Description: r.FormValue("campground[description]"),
	}
}

// parseCampgroundForm reads a campground form, multipart or not, and opens
// the submitted images. The returned func closes them.
func (h *Handlers) parseCampgroundForm(w http.ResponseWriter, r *http.Request, back string) ([]service.Upload, func(), bool) {
	noop := func() {}

	err := r.ParseMultipartForm(multipartMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.flash(r, session.FlashError, h.uploadLimitMessage())
			h.redirect(w, r, back)
			return nil, noop, false
		}
		h.renderError(w, r, http.StatusBadRequest, "Invalid form submission")
		return nil, noop, false
	}

	if r.MultipartForm == nil {
		return nil, noop, true
	}

	var files []io.Closer
	closeAll := func() {
		for _, f := range files {
			f.Close()
		}
	}

	var uploads []service.Upload
	for _, fh := range r.MultipartForm.File["image"] {
		if h.Cfg != nil && fh.Size > h.Cfg.MaxUploadSize {
			closeAll()
			h.flash(r, session.FlashError, h.uploadLimitMessage())
			h.redirect(w, r, back)
			return nil, noop, false
		}

		f, err := fh.Open()
		if err != nil {
			closeAll()
			h.fail(w, r, fmt.Errorf("open upload %s: %w", fh.Filename, err), failure{})
			return nil, noop, false
		}
		files = append(files, f)
		uploads = append(uploads, service.Upload{Name: fh.Filename, Size: fh.Size, File: f})
	}

	return uploads, closeAll, true
}

func (h *Handlers) uploadLimitMessage() string {
	var limit int64 = 10 << 20
	if h.Cfg != nil && h.Cfg.MaxUploadSize > 0 {
		limit = h.Cfg.MaxUploadSize
	}
	return fmt.Sprintf("Images must be smaller than %s.", humanize.IBytes(uint64(limit)))
}
