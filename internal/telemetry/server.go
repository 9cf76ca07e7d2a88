package telemetry

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// Server wraps the HTTP router, WebSocket hub and rate limiter into a
// single unit whose background workers only start on Start(), so the
// router remains testable via httptest without opening a socket.
type Server struct {
	engine      EngineInterface
	router      *chi.Mux
	wsHub       *WebSocketHub
	rateLimiter *IPRateLimiter

	tickInterval time.Duration
	orderFreq    int

	httpServer *http.Server
}

// NewServer builds a Server for engine. tickInterval and orderFreq set the
// WebSocket snapshot broadcast cadence.
func NewServer(engine EngineInterface, tickInterval time.Duration, orderFreq int) *Server {
	rateLimiter := NewIPRateLimiter(DefaultRateLimitConfig)
	wsHub := NewWebSocketHub()

	router := NewRouter(RouterConfig{
		Engine:      engine,
		RateLimiter: rateLimiter,
	})
	router.Get("/ws", wsHub.HandleWebSocket)

	return &Server{
		engine:       engine,
		router:       router,
		wsHub:        wsHub,
		rateLimiter:  rateLimiter,
		tickInterval: tickInterval,
		orderFreq:    orderFreq,
	}
}

// Router returns the HTTP handler, for use with httptest.NewServer.
func (s *Server) Router() http.Handler { return s.router }

// Start launches the WebSocket hub and snapshot broadcast loop, then
// serves HTTP on addr. It blocks until the listener stops.
func (s *Server) Start(addr string) error {
	go s.wsHub.Run()
	s.wsHub.StartSnapshotLoop(s.engine, s.tickInterval, s.orderFreq)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}
	return s.httpServer.ListenAndServe()
}

// Stop shuts the HTTP listener and rate limiter cleanup goroutine down.
func (s *Server) Stop(ctx context.Context) error {
	s.rateLimiter.Stop()
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
