package telemetry

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"robotwars/internal/kernel"
	"robotwars/internal/kernel/spatial"
)

type stubEngine struct {
	snapshot      *kernel.Snapshot
	rerandomized  bool
	eventLogStats map[string]uint64
	matchStats    []spatial.RankedEntry
}

func (s *stubEngine) GetSnapshot() *kernel.Snapshot     { return s.snapshot }
func (s *stubEngine) TickCount() uint64                 { return 42 }
func (s *stubEngine) MatchStats() []spatial.RankedEntry { return s.matchStats }
func (s *stubEngine) Rerandomize()                      { s.rerandomized = true }
func (s *stubEngine) EventLogStats() map[string]uint64  { return s.eventLogStats }

func newTestRouter(engine *stubEngine) http.Handler {
	return NewRouter(RouterConfig{
		Engine:         engine,
		DisableLogging: true,
	})
}

func TestHandleGetState(t *testing.T) {
	engine := &stubEngine{snapshot: &kernel.Snapshot{TickCount: 7}}
	srv := httptest.NewServer(newTestRouter(engine))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/state")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var snap kernel.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatal(err)
	}
	if snap.TickCount != 7 {
		t.Errorf("expected tick count 7, got %d", snap.TickCount)
	}
}

func TestHandleRerandomize(t *testing.T) {
	engine := &stubEngine{}
	srv := httptest.NewServer(newTestRouter(engine))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/rerandomize", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !engine.rerandomized {
		t.Error("expected Rerandomize to have been called")
	}
}

func TestHandleGetEventStats(t *testing.T) {
	engine := &stubEngine{eventLogStats: map[string]uint64{"emitted": 10, "dropped": 2}}
	srv := httptest.NewServer(newTestRouter(engine))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/events")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var stats map[string]uint64
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		t.Fatal(err)
	}
	if stats["emitted"] != 10 || stats["dropped"] != 2 {
		t.Errorf("unexpected stats: %v", stats)
	}
}

func TestRateLimiterRejectsBurst(t *testing.T) {
	engine := &stubEngine{snapshot: &kernel.Snapshot{}}
	limiter := NewIPRateLimiter(RateLimitConfig{RequestsPerSecond: 1, Burst: 1, CleanupInterval: time.Minute})
	defer limiter.Stop()

	router := NewRouter(RouterConfig{Engine: engine, RateLimiter: limiter, DisableLogging: true})
	srv := httptest.NewServer(router)
	defer srv.Close()

	rejected := false
	for i := 0; i < 50; i++ {
		resp, err := http.Get(srv.URL + "/api/state")
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode == http.StatusTooManyRequests {
			rejected = true
			break
		}
	}
	if !rejected {
		t.Error("expected at least one request to be rate-limited under a burst")
	}
}
