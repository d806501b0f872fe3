package server

import (
	"context"
	"embed"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hetulpatel/PitchDeck/internal/extract"
	"github.com/hetulpatel/PitchDeck/internal/models"
	"github.com/hetulpatel/PitchDeck/internal/pitch"
	"github.com/hetulpatel/PitchDeck/internal/queue"
	"github.com/hetulpatel/PitchDeck/internal/ratelimit"
)

const (
	DefaultMaxUploadBytes = 32 << 20
	multipartMemory       = 8 << 20
	sinkTimeout           = 5 * time.Second
)

//go:embed static/index.html
var staticFiles embed.FS

// RunStore is the run log the server writes to and lists from.
type RunStore interface {
	InsertRun(ctx context.Context, run models.Run) error
	ListRuns(ctx context.Context, limit int) ([]models.Run, error)
}

// Options wires the server. Limiter, Runs and Events are optional.
type Options struct {
	Generator      *pitch.Generator
	Extractor      *extract.Extractor
	Model          string
	MaxUploadBytes int64
	Limiter        ratelimit.Limiter
	Runs           RunStore
	Events         queue.MessageWriter
	// TrustProxyHeaders keys clients on X-Forwarded-For / X-Real-IP instead
	// of the connection address.
	TrustProxyHeaders bool
}

// Server holds the shared, read-only collaborators of every handler.
type Server struct {
	generator      *pitch.Generator
	extractor      *extract.Extractor
	model          string
	maxUploadBytes int64
	limiter        ratelimit.Limiter
	runs           RunStore
	events         queue.MessageWriter
	trustProxy     bool
	index          []byte
	now            func() time.Time
}

func New(opts Options) *Server {
	gen := opts.Generator
	if gen == nil {
		gen = pitch.NewGenerator(pitch.Config{})
	}
	ex := opts.Extractor
	if ex == nil {
		ex = extract.New(extract.Config{})
	}
	maxUpload := opts.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUploadBytes
	}
	index, _ := fs.ReadFile(staticFiles, "static/index.html")
	return &Server{
		generator:      gen,
		extractor:      ex,
		model:          opts.Model,
		maxUploadBytes: maxUpload,
		limiter:        opts.Limiter,
		runs:           opts.Runs,
		events:         opts.Events,
		trustProxy:     opts.TrustProxyHeaders,
		index:          index,
		now:            time.Now,
	}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if s.trustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(requestLogger)
	r.Use(recoverJSON)

	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)
	r.Get("/api/runs", s.handleRuns)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Post("/api/generate", s.handleGenerate)
		r.Post("/api/generate-pitch", s.handleGenerate)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
	})
	return r
}
