package ari

import (
	"math/rand"
	"sync"
	"time"
)

// backoffConfig mirrors the shape of C360Studio-semstreams's
// pkg/retry.Config (MaxAttempts/InitialDelay/MaxDelay/Multiplier/AddJitter)
// — the closest in-pack exponential-backoff implementation — but is
// consumed by a stateful controller rather than a single Do(fn) call,
// since reconnection is event-driven rather than a single wrapped
// operation.
type backoffConfig struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	Jitter       bool
}

func defaultBackoffConfig() backoffConfig {
	return backoffConfig{
		MaxRetries:   10,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
		Jitter:       true,
	}
}

// backoffController tracks reconnect attempts for one transport lifetime.
// next returns the delay to wait before the next attempt and whether the
// budget allows one at all; reset clears the attempt count after a
// successful connection.
type backoffController struct {
	cfg     backoffConfig
	mu      sync.Mutex
	attempt int
	rand    *rand.Rand
}

func newBackoffController(cfg backoffConfig) *backoffController {
	return &backoffController{
		cfg:  cfg,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (b *backoffController) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.attempt = 0
}

// next reports (delay, true) when another attempt is within budget, or
// (0, false) once MaxRetries has been exhausted.
func (b *backoffController) next() (time.Duration, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cfg.MaxRetries > 0 && b.attempt >= b.cfg.MaxRetries {
		return 0, false
	}

	delay := float64(b.cfg.InitialDelay)
	for i := 0; i < b.attempt; i++ {
		delay *= b.cfg.Multiplier
		if delay >= float64(b.cfg.MaxDelay) {
			delay = float64(b.cfg.MaxDelay)
			break
		}
	}
	b.attempt++

	if b.cfg.Jitter {
		delay = delay * (0.5 + b.rand.Float64()*0.5)
	}
	return time.Duration(delay), true
}
