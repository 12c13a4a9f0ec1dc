package authz

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"yelpcamp/internal/apperror"
	"yelpcamp/internal/config"
	"yelpcamp/internal/models"
	"yelpcamp/internal/session"
)

func newSession() *session.Context {
	store := session.NewStore(config.Session{Secret: "s", Duration: time.Hour})
	return store.Load(httptest.NewRequest(http.MethodGet, "/", nil))
}

func TestRequireAuthenticated(t *testing.T) {
	t.Run("signed in", func(t *testing.T) {
		sc := newSession()
		sc.User = &models.User{UserID: "u1"}

		r := httptest.NewRequest(http.MethodGet, "/campgrounds/new", nil)

		assert.NoError(t, RequireAuthenticated(sc, r, ""))
		assert.Empty(t, sc.PopReturnTo())
	})

	t.Run("GET remembers requested path", func(t *testing.T) {
		sc := newSession()
		r := httptest.NewRequest(http.MethodGet, "/campgrounds/new?x=1", nil)

		err := RequireAuthenticated(sc, r, "/campgrounds")

		assert.ErrorIs(t, err, apperror.ErrUnauthenticated)
		assert.Equal(t, "/campgrounds/new?x=1", sc.PopReturnTo())
	})

	t.Run("POST remembers resource page", func(t *testing.T) {
		sc := newSession()
		r := httptest.NewRequest(http.MethodPost, "/campgrounds/c1/reviews", nil)

		err := RequireAuthenticated(sc, r, "/campgrounds/c1")

		assert.ErrorIs(t, err, apperror.ErrUnauthenticated)
		assert.Equal(t, "/campgrounds/c1", sc.PopReturnTo())
	})

	t.Run("no session", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/campgrounds/new", nil)
		assert.ErrorIs(t, RequireAuthenticated(nil, r, ""), apperror.ErrUnauthenticated)
	})
}

func TestRequireOwnership(t *testing.T) {
	assert.NoError(t, RequireOwnership("u1", "u1"))
	assert.ErrorIs(t, RequireOwnership("u1", "u2"), apperror.ErrForbidden)
	assert.ErrorIs(t, RequireOwnership("", ""), apperror.ErrForbidden)
}
