package kernel

import (
	"sync"

	"golang.org/x/time/rate"
)

const (
	mailboxSendRPS   = 20
	mailboxSendBurst = 40
)

// mailRateLimiter bounds how fast one robot's agent can call send_message,
// so a single flooding agent cannot starve another robot's mailbox.
type mailRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func newMailRateLimiter() *mailRateLimiter {
	return &mailRateLimiter{limiters: make(map[string]*rate.Limiter)}
}

func (m *mailRateLimiter) allow(senderName string) bool {
	m.mu.Lock()
	l, ok := m.limiters[senderName]
	if !ok {
		l = rate.NewLimiter(mailboxSendRPS, mailboxSendBurst)
		m.limiters[senderName] = l
	}
	m.mu.Unlock()
	return l.Allow()
}
