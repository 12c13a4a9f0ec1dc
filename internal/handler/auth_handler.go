package handlers

import (
	"errors"
	"net/http"

	"yelpcamp/internal/apperror"
	"yelpcamp/internal/models"
	"yelpcamp/internal/session"
)

func (h *Handlers) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "register", pageData{Title: "Register"})
}

// Register creates the account and signs the new user in. Problems with the
// submission are flashed back on the registration form.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Invalid form submission")
		return
	}

	req, err := h.Validate.Register(models.CreateUserRequest{
		Username: r.FormValue("username"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	})
	if err != nil {
		h.flash(r, session.FlashError, err.Error())
		h.redirect(w, r, "/register")
		return
	}

	user, err := h.AuthService.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			h.flash(r, session.FlashError, apperror.Message(err, "A user with the given username is already registered"))
			h.redirect(w, r, "/register")
			return
		}
		h.fail(w, r, err, failure{})
		return
	}

	if err := h.signIn(r, user); err != nil {
		h.fail(w, r, err, failure{})
		return
	}

	h.flash(r, session.FlashSuccess, "Welcome to YelpCamp!")
	h.redirect(w, r, "/campgrounds")
}

func (h *Handlers) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "login", pageData{Title: "Login"})
}

// Login never tells whether the username or the password was wrong.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Invalid form submission")
		return
	}

	user, err := h.AuthService.Login(r.Context(), r.FormValue("username"), r.FormValue("password"))
	if err != nil {
		if errors.Is(err, apperror.ErrInvalidLogin) {
			h.flash(r, session.FlashError, "Password or username is incorrect")
			h.redirect(w, r, "/login")
			return
		}
		h.fail(w, r, err, failure{})
		return
	}

	if err := h.signIn(r, user); err != nil {
		h.fail(w, r, err, failure{})
		return
	}

	target := h.session(r).PopReturnTo()
	if target == "" {
		target = "/campgrounds"
	}

	h.flash(r, session.FlashSuccess, "Welcome back!")
	h.redirect(w, r, target)
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.session(r).ClearIdentity()
	h.flash(r, session.FlashSuccess, "Goodbye!")
	h.redirect(w, r, "/campgrounds")
}

func (h *Handlers) signIn(r *http.Request, user *models.User) error {
	token, err := h.AuthService.IssueToken(user)
	if err != nil {
		return err
	}

	sc := h.session(r)
	sc.SetToken(token)
	sc.User = user
	return nil
}
