// Package session keeps per-visitor state in a signed cookie: the identity
// token, one-shot flash messages and the path to return to after login.
package session

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"

	"yelpcamp/internal/config"
	"yelpcamp/internal/models"
)

const (
	FlashSuccess = "success"
	FlashError   = "error"

	tokenKey    = "token"
	returnToKey = "returnTo"
)

type Store struct {
	store sessions.Store
	name  string
}

func NewStore(cfg config.Session) *Store {
	store := sessions.NewCookieStore([]byte(cfg.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.Duration.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}

	return NewStoreWith(store, cfg.Name)
}

func NewStoreWith(store sessions.Store, name string) *Store {
	if name == "" {
		name = "session"
	}
	return &Store{store: store, name: name}
}

// Context is the session state of a single request. Flashes queued by the
// previous request are popped when it is loaded.
type Context struct {
	User *models.User

	session  *sessions.Session
	success  []string
	failures []string
}

// Load reads the visitor's session. A cookie that fails verification is
// replaced by a fresh session.
func (s *Store) Load(r *http.Request) *Context {
	sess, err := s.store.Get(r, s.name)
	if err != nil {
		sess, _ = s.store.New(r, s.name)
	}

	c := &Context{session: sess}
	c.success = popFlashes(sess, FlashSuccess)
	c.failures = popFlashes(sess, FlashError)
	return c
}

func popFlashes(sess *sessions.Session, kind string) []string {
	var msgs []string
	for _, f := range sess.Flashes(kind) {
		if msg, ok := f.(string); ok {
			msgs = append(msgs, msg)
		}
	}
	return msgs
}

// Save writes the session cookie. It must run before the response is written.
func (c *Context) Save(w http.ResponseWriter, r *http.Request) error {
	if err := c.session.Save(r, w); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (c *Context) IsAuthenticated() bool {
	return c.User != nil
}

// Flash queues a message for the next rendered page.
func (c *Context) Flash(kind, message string) {
	c.session.AddFlash(message, kind)
}

// Success and Errors are the messages to show on the current page.
func (c *Context) Success() []string { return c.success }
func (c *Context) Errors() []string  { return c.failures }

func (c *Context) Token() string {
	token, _ := c.session.Values[tokenKey].(string)
	return token
}

func (c *Context) SetToken(token string) {
	c.session.Values[tokenKey] = token
}

// ClearIdentity forgets the signed-in user.
func (c *Context) ClearIdentity() {
	delete(c.session.Values, tokenKey)
	c.User = nil
}

func (c *Context) SetReturnTo(path string) {
	c.session.Values[returnToKey] = path
}

// PopReturnTo returns the remembered path and forgets it.
func (c *Context) PopReturnTo() string {
	path, _ := c.session.Values[returnToKey].(string)
	delete(c.session.Values, returnToKey)
	return path
}

type contextKey struct{}

func WithContext(ctx context.Context, c *Context) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// FromContext returns the session placed on ctx by the session middleware, or
// nil.
func FromContext(ctx context.Context) *Context {
	c, _ := ctx.Value(contextKey{}).(*Context)
	return c
}
