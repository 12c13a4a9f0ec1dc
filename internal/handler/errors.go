package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"yelpcamp/internal/apperror"
	"yelpcamp/internal/session"
)

const (
	defaultErrorMessage = "Oh no, something went wrong!"
	notFoundMessage     = "Campground cannot be found :("
	signInMessage       = "You must be signed in."
)

// failure says where each recoverable error kind sends the browser.
type failure struct {
	back      string // the form to retry or the resource page
	forbidden string // flash for ErrForbidden
	notFound  string // flash for ErrNotFound
	listing   string // redirect for ErrNotFound
}

// fail maps err to a response: recoverable kinds flash and redirect, the rest
// render the error page.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error, f failure) {
	var verr *apperror.ValidationError

	switch {
	case errors.Is(err, apperror.ErrUnauthenticated):
		h.flash(r, session.FlashError, signInMessage)
		h.redirect(w, r, "/login")
	case errors.Is(err, apperror.ErrNotFound):
		msg, to := f.notFound, f.listing
		if msg == "" {
			msg = notFoundMessage
		}
		if to == "" {
			to = "/campgrounds"
		}
		h.flash(r, session.FlashError, msg)
		h.redirect(w, r, to)
	case errors.Is(err, apperror.ErrForbidden):
		msg := f.forbidden
		if msg == "" {
			msg = "You do not have permission to do that."
		}
		h.flash(r, session.FlashError, msg)
		h.redirect(w, r, f.back)
	case errors.Is(err, apperror.ErrGeocoding) && f.back != "":
		log.Printf("Error %s %s: %v", r.Method, r.URL.Path, err)
		h.flash(r, session.FlashError, "Could not find that location, please try again.")
		h.redirect(w, r, f.back)
	case errors.Is(err, apperror.ErrStorage) && f.back != "":
		log.Printf("Error %s %s: %v", r.Method, r.URL.Path, err)
		h.flash(r, session.FlashError, "Could not store the images, please try again.")
		h.redirect(w, r, f.back)
	case errors.As(err, &verr):
		h.renderError(w, r, http.StatusBadRequest, verr.Error())
	default:
		status := apperror.Status(err)
		msg := apperror.Message(err, defaultErrorMessage)
		if status >= http.StatusInternalServerError {
			log.Printf("Error %s %s: %v", r.Method, r.URL.Path, err)
			msg = defaultErrorMessage
		}
		h.renderError(w, r, status, msg)
	}
}

func (h *Handlers) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	if message == "" {
		message = defaultErrorMessage
	}
	h.render(w, r, status, "error", pageData{Title: "Error", Status: status, Message: message})
}

// NotFound renders the 404 page for unknown paths and methods.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, r, http.StatusNotFound, "Page Not Found")
}

// Panic renders the generic error page after a recovered panic.
func (h *Handlers) Panic(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, r, http.StatusInternalServerError, defaultErrorMessage)
}

// writeJSON is used by the health endpoint.
func writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}
