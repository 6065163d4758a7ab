package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/Gal0-avrd/LongD-Arc/internal/arclength"
	"github.com/Gal0-avrd/LongD-Arc/internal/config"
	"github.com/Gal0-avrd/LongD-Arc/internal/metrics"
	"github.com/Gal0-avrd/LongD-Arc/internal/stats"
)

// Server is the HTTP API of the arc-length service.
type Server struct {
	router  chi.Router
	calc    *arclength.Calculator
	stats   *stats.Window
	metrics *metrics.Metrics
	log     *zap.Logger
	cfg     config.Config
	landing []byte
}

// NewServer wires the routes. The landing page is rendered here, once.
func NewServer(calc *arclength.Calculator, st *stats.Window, m *metrics.Metrics, log *zap.Logger, cfg config.Config) (*Server, error) {
	landing, err := renderLanding(landingMarkdown)
	if err != nil {
		return nil, err
	}
	s := &Server{
		calc:    calc,
		stats:   st,
		metrics: m,
		log:     log,
		cfg:     cfg,
		landing: landing,
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(RequestLogger(s.log))
	r.Use(Metrics(s.metrics))
	r.Use(Recoverer(s.log, s.cfg.SentryDSN != ""))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/", s.handleLanding)
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", s.metrics.Handler())

	r.Post("/calcular", s.handleCalculate)
	r.Route("/api", func(r chi.Router) {
		r.Post("/arc-length", s.handleCalculate)
		r.Get("/stats", s.handleStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleLanding(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(s.landing)
}
