// Package authz holds the two access rules of the site: a signed-in user is
// required to change anything, and only the author of a campground or review
// may edit or delete it.
package authz

import (
	"net/http"

	"yelpcamp/internal/apperror"
	"yelpcamp/internal/session"
)

// RequireAuthenticated fails with ErrUnauthenticated when nobody is signed in.
// The requested path is remembered for GET requests so login can return to
// it; other methods remember fallback instead.
func RequireAuthenticated(sc *session.Context, r *http.Request, fallback string) error {
	if sc != nil && sc.IsAuthenticated() {
		return nil
	}

	if sc != nil {
		if r.Method == http.MethodGet {
			sc.SetReturnTo(r.URL.RequestURI())
		} else if fallback != "" {
			sc.SetReturnTo(fallback)
		}
	}

	return apperror.ErrUnauthenticated
}

// RequireOwnership fails with ErrForbidden unless the resource was authored
// by the current user.
func RequireOwnership(resourceAuthorID, currentUserID string) error {
	if resourceAuthorID == "" || resourceAuthorID != currentUserID {
		return apperror.ErrForbidden
	}
	return nil
}
