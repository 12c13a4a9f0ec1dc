package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"yelpcamp/internal/session"
	"yelpcamp/internal/validation"
)

func (h *Handlers) CreateReview(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	user, ok := h.currentUser(w, r, campgroundPath(id))
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Invalid form submission")
		return
	}

	input, err := h.Validate.Review(validation.ReviewForm{
		Body:   r.FormValue("review[body]"),
		Rating: r.FormValue("review[rating]"),
	})
	if err != nil {
		h.fail(w, r, err, failure{})
		return
	}

	if _, err := h.ReviewService.Create(r.Context(), id, user.UserID, input); err != nil {
		h.fail(w, r, err, failure{back: campgroundPath(id)})
		return
	}

	h.flash(r, session.FlashSuccess, "Successfully created review!")
	h.redirect(w, r, campgroundPath(id))
}

func (h *Handlers) DeleteReview(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, reviewID := vars["id"], vars["reviewId"]

	user, ok := h.currentUser(w, r, campgroundPath(id))
	if !ok {
		return
	}

	if err := h.ReviewService.Delete(r.Context(), id, reviewID, user.UserID); err != nil {
		h.fail(w, r, err, failure{
			back:      campgroundPath(id),
			forbidden: "You do not have permission to delete that review.",
			notFound:  "Review cannot be found :(",
			listing:   campgroundPath(id),
		})
		return
	}

	h.flash(r, session.FlashSuccess, "Successfully deleted review!")
	h.redirect(w, r, campgroundPath(id))
}
