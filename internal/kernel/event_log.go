package kernel

import (
	"sync"

	"golang.org/x/time/rate"
)

// eventBufferSize bounds the in-memory audit feed to a fixed-capacity
// circular buffer with no on-disk writer: match state is never
// persisted, but a bounded in-memory feed for the telemetry
// collaborator is not persistence.
const eventBufferSize = 4096

// eventLogRPS/eventLogBurst bound how fast the feed accepts entries
// overall, applied per-feed since the kernel (not an untrusted client)
// is the sole producer.
const (
	eventLogRPS   = 2000
	eventLogBurst = 4000
)

// EventLog is a fixed-capacity ring buffer of Events plus drop counters,
// read by the telemetry collaborator and otherwise write-only from the
// kernel's point of view.
type EventLog struct {
	mu      sync.Mutex
	buf     []Event
	head    int
	count   int
	running bool

	limiter *rate.Limiter

	emitted uint64
	dropped uint64
}

// NewEventLog allocates the ring buffer. The feed starts stopped; no
// event is recorded until Start is called.
func NewEventLog() *EventLog {
	return &EventLog{
		buf:     make([]Event, eventBufferSize),
		limiter: rate.NewLimiter(eventLogRPS, eventLogBurst),
	}
}

// Start begins accepting events.
func (l *EventLog) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.running = true
}

// Stop halts acceptance; buffered events remain readable.
func (l *EventLog) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.running = false
}

// EmitSimple records one event, dropping it (and counting the drop) if
// the feed is stopped or the entry exceeds the acceptance rate.
func (l *EventLog) EmitSimple(t EventType, tick uint64, robotID int, payload interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.running || !l.limiter.Allow() {
		l.dropped++
		return
	}

	l.buf[l.head] = Event{Type: t, Tick: tick, RobotID: robotID, Payload: payload}
	l.head = (l.head + 1) % len(l.buf)
	if l.count < len(l.buf) {
		l.count++
	}
	l.emitted++
}

// Recent returns up to n of the most recently recorded events, oldest
// first.
func (l *EventLog) Recent(n int) []Event {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n > l.count {
		n = l.count
	}
	out := make([]Event, n)
	start := (l.head - n + len(l.buf)) % len(l.buf)
	for i := 0; i < n; i++ {
		out[i] = l.buf[(start+i)%len(l.buf)]
	}
	return out
}

// GetStats exposes the feed's throughput counters.
func (l *EventLog) GetStats() map[string]uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return map[string]uint64{
		"emitted": l.emitted,
		"dropped": l.dropped,
		"buffered": uint64(l.count),
	}
}
