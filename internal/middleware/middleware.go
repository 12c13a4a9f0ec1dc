package middleware

import (
	"errors"
	"io"
	"log"
	"net/http"
	"runtime/debug"

	"github.com/gorilla/handlers"

	"yelpcamp/internal/apperror"
	"yelpcamp/internal/service"
	"yelpcamp/internal/session"
)

type Middleware func(http.Handler) http.Handler

// Chain wraps h so that the last middleware is the outermost one.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for _, m := range middlewares {
		h = m(h)
	}
	return h
}

// LoggingMiddleware writes one Apache combined log line per request.
func LoggingMiddleware(out io.Writer) Middleware {
	return func(next http.Handler) http.Handler {
		return handlers.CombinedLoggingHandler(out, next)
	}
}

// MethodOverride lets HTML forms send PUT and DELETE through POST with a
// _method field or query parameter.
func MethodOverride(next http.Handler) http.Handler {
	return handlers.HTTPMethodOverrideHandler(next)
}

// LimitBody caps the request body at maxBytes.
func LimitBody(maxBytes int64) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && maxBytes > 0 {
				// room for the multipart envelope around the files themselves
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes+1<<20)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SessionMiddleware loads the visitor's session, resolves the signed-in user
// from its identity token and puts the session on the request context.
func SessionMiddleware(store *session.Store, authService service.AuthService) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sc := store.Load(r)

			if token := sc.Token(); token != "" {
				user, err := authService.CurrentUser(r.Context(), token)
				switch {
				case err == nil:
					sc.User = user
				case errors.Is(err, apperror.ErrUnauthenticated):
					sc.ClearIdentity()
				default:
					log.Printf("Failed to load session user: %v", err)
				}
			}

			next.ServeHTTP(w, r.WithContext(session.WithContext(r.Context(), sc)))
		})
	}
}

// Recovery turns a panic into a call to onPanic, which renders the error page.
func Recovery(onPanic func(w http.ResponseWriter, r *http.Request)) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					log.Printf("panic serving %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
					onPanic(w, r)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
