// ABOUTME: Web UI server with embedded templates
// ABOUTME: Serves the pipeline dashboard, a JSON API, and Prometheus metrics
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/harperreed/prospector/ai"
	"github.com/harperreed/prospector/handlers"
	"github.com/harperreed/prospector/models"
	"github.com/harperreed/prospector/tracker"
	"github.com/harperreed/prospector/viz"
)

//go:embed templates/*
var templatesFS embed.FS

type Server struct {
	tracker   *tracker.Tracker
	templates *template.Template
	generator *viz.GraphGenerator
	logger    *zap.Logger
	now       func() time.Time

	prospects *handlers.ProspectHandlers
	ai        *handlers.AIHandlers
	metrics   *metrics

	router chi.Router
}

type Option func(*Server)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAI enables the script and profile endpoints. A nil client leaves them
// answering 503.
func WithAI(client *ai.Client, timeout time.Duration) Option {
	return func(s *Server) {
		s.ai = handlers.NewAIHandlers(s.tracker, client, timeout)
	}
}

// WithClock overrides the time source for follow-up age.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

func NewServer(t *tracker.Tracker, opts ...Option) (*Server, error) {
	// Helper functions for templates
	funcMap := template.FuncMap{
		"usd":   viz.FormatUSD,
		"label": models.StatusLabel,
		"group": models.StatusGroup,
		"date": func(t time.Time) string {
			return t.Format("Jan 02, 2006")
		},
		"percent": func(v, goal float64) int {
			if goal == 0 {
				return 0
			}
			p := int(v / goal * 100)
			if p > 100 {
				p = 100
			}
			return p
		},
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html", "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		tracker:   t,
		templates: tmpl,
		generator: viz.NewGraphGenerator(t),
		logger:    zap.NewNop(),
		now:       time.Now,
		prospects: handlers.NewProspectHandlers(t),
	}
	s.ai = handlers.NewAIHandlers(t, nil, 0)
	for _, opt := range opts {
		opt(s)
	}
	s.metrics = newMetrics(t, s.now)
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.handleDashboard)
	r.Get("/prospects", s.handleProspects)
	r.Get("/followups", s.handleFollowups)

	// Partials for HTMX
	r.Get("/partials/prospect/{id}", s.handleProspectDetail)
	r.Get("/partials/graph", s.handleGraphPartial)

	r.Route("/api", func(r chi.Router) {
		r.Get("/prospects", s.apiListProspects)
		r.Post("/prospects", s.apiCreateProspect)
		r.Get("/prospects/{id}", s.apiGetProspect)
		r.Put("/prospects/{id}", s.apiUpdateProspect)
		r.Delete("/prospects/{id}", s.apiDeleteProspect)
		r.Post("/prospects/{id}/interactions", s.apiLogInteraction)
		r.Get("/prospects/{id}/journey", s.apiJourney)
		r.Get("/prospects/{id}/journey.dot", s.apiJourneyDOT)
		r.Post("/prospects/{id}/script", s.apiGenerateScript)
		r.Post("/profile", s.apiParseProfile)
		r.Get("/stats", s.apiStats)
		r.Get("/statuses", s.apiStatuses)
		r.Get("/stages", s.apiStages)
		r.Get("/touchpoints", s.apiTouchpoints)
		r.Get("/pipeline.dot", s.apiPipelineDOT)
	})

	r.Handle("/metrics", s.metrics.handler())
	return r
}

// ServeHTTP lets tests and callers mount the server directly.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start serves on addr until ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting web server", zap.String("url", "http://"+addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		s.metrics.observeRequest(r.Method, route, ww.Status())
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("route", route),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

func (s *Server) renderTemplate(w http.ResponseWriter, name string, data interface{}) {
	// Execute the specified template (usually layout.html)
	// The data map includes ContentTemplate to specify which content block to render
	err := s.templates.ExecuteTemplate(w, name, data)
	if err != nil {
		s.logger.Error("template error", zap.String("template", name), zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	stats := viz.GenerateDashboardStats(s.tracker.List(), s.now())

	data := map[string]interface{}{
		"Stats":           stats,
		"Groups":          models.Groups(),
		"Title":           "Dashboard",
		"ContentTemplate": "dashboard-content",
	}

	s.renderTemplate(w, "layout.html", data)
}

func (s *Server) handleProspects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	prospects := handlers.FilterProspects(s.tracker.Find(q.Get("q")), q.Get("status"), q.Get("group"), q.Get("high_value") == "true")

	data := map[string]interface{}{
		"Prospects":       prospects,
		"Query":           q.Get("q"),
		"Title":           "Prospects",
		"ContentTemplate": "prospects-content",
	}

	s.renderTemplate(w, "layout.html", data)
}

func (s *Server) handleFollowups(w http.ResponseWriter, r *http.Request) {
	stats := viz.GenerateDashboardStats(s.tracker.List(), s.now())

	data := map[string]interface{}{
		"Followups":       stats.StaleProspects,
		"Title":           "Follow-ups",
		"ContentTemplate": "followups-content",
	}

	s.renderTemplate(w, "layout.html", data)
}

func (s *Server) handleProspectDetail(w http.ResponseWriter, r *http.Request) {
	p, err := s.tracker.Get(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Prospect not found", http.StatusNotFound)
		return
	}

	history := make([]models.Interaction, len(p.History))
	copy(history, p.History)
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Timestamp.After(history[j].Timestamp)
	})

	data := map[string]interface{}{
		"Prospect": p,
		"History":  history,
		"Journey":  viz.JourneyStages(p),
	}

	s.renderTemplate(w, "prospect-detail", data)
}

func (s *Server) handleGraphPartial(w http.ResponseWriter, r *http.Request) {
	var dot string
	var err error

	switch r.URL.Query().Get("type") {
	case "journey":
		id := r.URL.Query().Get("id")
		if id == "" {
			http.Error(w, "Prospect ID required", http.StatusBadRequest)
			return
		}
		dot, err = s.generator.GenerateJourneyGraph(id)
	case "pipeline", "":
		dot, err = s.generator.GeneratePipelineGraph()
	default:
		http.Error(w, "Invalid graph type", http.StatusBadRequest)
		return
	}

	if errors.Is(err, tracker.ErrNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.renderTemplate(w, "graph", map[string]interface{}{"DOT": dot})
}
