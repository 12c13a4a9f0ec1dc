package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"os"
	"sync"

	"yelpcamp/internal/models"
	"yelpcamp/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var pages = []string{"home", "index", "new", "show", "edit", "login", "register", "error"}

// Renderer executes the page templates. Every page is the layout plus its own
// content block.
type Renderer struct {
	mu     sync.RWMutex
	source fs.FS
	reload bool
	pages  map[string]*template.Template
}

// NewRenderer parses the embedded templates. With reload set, templates are
// read from dir on every render instead.
func NewRenderer(reload bool, dir string) (*Renderer, error) {
	var source fs.FS = templateFS
	if reload {
		source = os.DirFS(dir)
	}

	r := &Renderer{source: source, reload: reload}
	if err := r.parse(); err != nil {
		return nil, err
	}
	return r, nil
}

// MustRenderer is NewRenderer over the embedded templates, panicking on error.
func MustRenderer() *Renderer {
	r, err := NewRenderer(false, "")
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Renderer) parse() error {
	prefix := "templates/"
	if r.reload {
		prefix = ""
	}

	parsed := make(map[string]*template.Template, len(pages))
	for _, name := range pages {
		tmpl, err := template.New(name).ParseFS(r.source, prefix+"layout.html", prefix+name+".html")
		if err != nil {
			return fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		parsed[name] = tmpl
	}

	r.mu.Lock()
	r.pages = parsed
	r.mu.Unlock()
	return nil
}

func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data pageData) error {
	if r.reload {
		if err := r.parse(); err != nil {
			return err
		}
	}

	r.mu.RLock()
	tmpl, ok := r.pages[name]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("unknown template %s", name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// StaticHandler serves the embedded scripts and stylesheets.
func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}

type pageData struct {
	Title       string
	CurrentUser *models.User
	Success     []string
	Errors      []string
	MapboxToken string

	Campgrounds []models.Campground
	Campground  *models.Campground
	GeoJSON     featureCollection

	Status  int
	Message string
}

// render writes a full page, saving the session first so popped flashes stay
// consumed.
func (h *Handlers) render(w http.ResponseWriter, r *http.Request, status int, name string, data pageData) {
	sc := h.session(r)
	if err := sc.Save(w, r); err != nil {
		log.Printf("Error %s %s: %v", r.Method, r.URL.Path, err)
	}

	data.CurrentUser = sc.User
	data.Success = sc.Success()
	data.Errors = sc.Errors()
	if h.Cfg != nil {
		data.MapboxToken = h.Cfg.Mapbox.Token
	}

	if err := h.Renderer.Render(w, status, name, data); err != nil {
		log.Printf("Error rendering %s for %s %s: %v", name, r.Method, r.URL.Path, err)
		http.Error(w, defaultErrorMessage, http.StatusInternalServerError)
	}
}

// redirect saves the session and sends the browser to url.
func (h *Handlers) redirect(w http.ResponseWriter, r *http.Request, url string) {
	if err := h.session(r).Save(w, r); err != nil {
		log.Printf("Error %s %s: %v", r.Method, r.URL.Path, err)
	}
	http.Redirect(w, r, url, http.StatusFound)
}

func (h *Handlers) flash(r *http.Request, kind, message string) {
	h.session(r).Flash(kind, message)
}

// session returns the request's session, loading it when the session
// middleware did not run.
func (h *Handlers) session(r *http.Request) *session.Context {
	if sc := session.FromContext(r.Context()); sc != nil {
		return sc
	}
	sc := h.Sessions.Load(r)
	*r = *r.WithContext(session.WithContext(r.Context(), sc))
	return sc
}
