package httpserver

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"

	appanalysis "github.com/bryanwahyu/pothole-analyzer/internal/application/analysis"
	appreports "github.com/bryanwahyu/pothole-analyzer/internal/application/reports"
	domain "github.com/bryanwahyu/pothole-analyzer/internal/domain/analysis"
	domreports "github.com/bryanwahyu/pothole-analyzer/internal/domain/reports"
	"github.com/bryanwahyu/pothole-analyzer/internal/domain/vision"
	"github.com/bryanwahyu/pothole-analyzer/internal/middleware"
)

// MissingSnapshotMessage is returned by the listing endpoint before the
// first fetch.
const MissingSnapshotMessage = "Pothole data file not found. Please run fetch-reports first."

// Options configures the cross-cutting parts of the router.
type Options struct {
	CORSOrigins    []string
	APIKeys        []string                 // empty = analyzer is public
	RateLimiter    *middleware.RateLimiter  // nil = no rate limit
	ImagesDir      string                   // "" = /images not served
	HealthCheckers map[string]middleware.HealthChecker
}

type Router struct {
	reportsSvc  *appreports.Service
	analysisSvc *appanalysis.Service
}

func NewRouter(reportsSvc *appreports.Service, analysisSvc *appanalysis.Service, opts Options) http.Handler {
	r := &Router{reportsSvc: reportsSvc, analysisSvc: analysisSvc}
	mux := chi.NewRouter()

	mux.Use(chimw.RequestID)
	mux.Use(chimw.RealIP)
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(chimw.Recoverer)
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	mux.Get("/", func(w http.ResponseWriter, req *http.Request) {
		render.JSON(w, req, map[string]string{"message": "Welcome to the Pothole Detection API"})
	})
	mux.Get("/health", middleware.HealthHandler(opts.HealthCheckers))
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Get("/live", middleware.LivenessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	if opts.ImagesDir != "" {
		mux.Handle("/images/*", http.StripPrefix("/images/", http.FileServer(http.Dir(opts.ImagesDir))))
	}

	mux.Route("/api/potholes", func(rt chi.Router) {
		rt.Get("/", r.wrap(r.handleList))
		rt.Get("/analyses", r.wrap(r.handleHistory))

		rt.Group(func(g chi.Router) {
			g.Use(middleware.APIKeyAuth(opts.APIKeys))
			if opts.RateLimiter != nil {
				g.Use(middleware.RateLimitMiddleware(opts.RateLimiter))
			}
			g.Get("/analyzer", r.wrap(r.handleAnalyze))
		})
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// statusError carries an explicit HTTP status through wrap.
type statusError struct {
	status int
	err    error
}

func (e *statusError) Error() string { return e.err.Error() }
func (e *statusError) Unwrap() error { return e.err }

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}

		status := http.StatusInternalServerError
		var se *statusError
		switch {
		case errors.As(err, &se):
			status = se.status
		case errors.Is(err, domain.ErrHistoryDisabled):
			status = http.StatusServiceUnavailable
		case errors.Is(err, vision.ErrQuotaExceeded):
			status = http.StatusTooManyRequests
		}
		if status >= http.StatusInternalServerError {
			log.Printf("request failed path=%s err=%v", req.URL.Path, err)
		}
		render.Status(req, status)
		render.JSON(w, req, map[string]string{"error": err.Error()})
	}
}

// GET /api/potholes
// Snapshot dikirim apa adanya, tanpa decode ulang.
func (r *Router) handleList(w http.ResponseWriter, req *http.Request) error {
	middleware.IncrementSnapshotReads()

	data, err := r.reportsSvc.List(req.Context())
	if errors.Is(err, domreports.ErrSnapshotNotFound) {
		render.JSON(w, req, map[string]string{"error": MissingSnapshotMessage})
		return nil
	}
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(data)
	return err
}

// GET /api/potholes/analyzer?lat=&lng=
// Kegagalan analisa tetap HTTP 200 dengan payload status=failed.
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	q := req.URL.Query()
	c, err := middleware.ParseCoordinates(q.Get("lat"), q.Get("lng"))
	if err != nil {
		return &statusError{status: http.StatusUnprocessableEntity, err: err}
	}

	middleware.IncrementAnalyses()
	middleware.IncrementAnalysesRunning()
	defer middleware.DecrementAnalysesRunning()

	res, err := r.analysisSvc.Analyze(req.Context(), c)
	if err != nil {
		middleware.IncrementAnalysesFailed()
		log.Printf("analysis failed lat=%v lng=%v err=%v", c.Latitude, c.Longitude, err)
		render.JSON(w, req, domain.NewFailure(c, err))
		return nil
	}

	middleware.AddPotholesDetected(res.Analysis.PotholesDetected)
	log.Printf("analysis completed id=%s lat=%v lng=%v potholes=%d",
		res.ID, c.Latitude, c.Longitude, res.Analysis.PotholesDetected)
	render.JSON(w, req, res)
	return nil
}

// GET /api/potholes/analyses?page=&page_size=
func (r *Router) handleHistory(w http.ResponseWriter, req *http.Request) error {
	q := req.URL.Query()
	list, err := r.analysisSvc.History(req.Context(),
		middleware.ValidatePage(q.Get("page")),
		middleware.ValidateLimit(q.Get("page_size")),
	)
	if err != nil {
		return err
	}
	render.JSON(w, req, list)
	return nil
}
