package telemetry

import (
	"encoding/json"
	"net/http"

	"robotwars/internal/kernel"
	"robotwars/internal/kernel/spatial"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// EngineInterface is the slice of *kernel.Engine the telemetry surface
// actually calls, kept minimal and mockable for router tests.
type EngineInterface interface {
	GetSnapshot() *kernel.Snapshot
	TickCount() uint64
	MatchStats() []spatial.RankedEntry
	Rerandomize()
	EventLogStats() map[string]uint64
}

// RouterConfig holds the dependencies NewRouter wires together.
type RouterConfig struct {
	Engine EngineInterface

	RateLimiter     *IPRateLimiter
	RateLimitConfig *RateLimitConfig
	CORSOrigins     []string
	DisableLogging  bool
}

type routerHandlers struct {
	engine EngineInterface
}

// NewRouter builds the HTTP router. It is pure: no goroutines started, no
// listener opened, safe to use directly with httptest.NewServer.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rlCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rlCfg = *cfg.RateLimitConfig
		}
		rateLimiter = NewIPRateLimiter(rlCfg)
	}
	r.Use(rateLimiter.Middleware)

	origins := cfg.CORSOrigins
	if origins == nil {
		origins = AllowedOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	h := &routerHandlers{engine: cfg.Engine}

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", h.handleGetState)
		r.Get("/robots", h.handleGetRobots)
		r.Get("/leaderboard", h.handleGetLeaderboard)
		r.Get("/events", h.handleGetEventStats)
		r.Post("/rerandomize", h.handleRerandomize)
	})

	r.Get("/metrics", MetricsHandler().ServeHTTP)

	return r
}

func (h *routerHandlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	snap := h.engine.GetSnapshot()
	writeJSON(w, snap)
}

func (h *routerHandlers) handleGetRobots(w http.ResponseWriter, r *http.Request) {
	snap := h.engine.GetSnapshot()
	if snap == nil {
		writeJSON(w, map[string]interface{}{"live": []interface{}{}, "destroyed": []interface{}{}})
		return
	}
	writeJSON(w, map[string]interface{}{"live": snap.Live, "destroyed": snap.Destroyed})
}

func (h *routerHandlers) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.engine.MatchStats())
}

func (h *routerHandlers) handleGetEventStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.engine.EventLogStats())
}

func (h *routerHandlers) handleRerandomize(w http.ResponseWriter, r *http.Request) {
	h.engine.Rerandomize()
	writeJSON(w, map[string]bool{"ok": true})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
