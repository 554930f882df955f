package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTickInterval is one real-time second.
const DefaultTickInterval = time.Second

// Ticker is the part of Store the countdown drives.
type Ticker interface {
	Tick() bool
	TimerBounded() bool
}

// Countdown owns the single ticking goroutine of a session.
type Countdown struct {
	store    Ticker
	interval time.Duration
	log      zerolog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewCountdown creates a Countdown that ticks store every interval.
func NewCountdown(store Ticker, interval time.Duration, log zerolog.Logger) *Countdown {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Countdown{
		store:    store,
		interval: interval,
		log:      log.With().Str("component", "countdown").Logger(),
	}
}

// Start launches the ticking goroutine, superseding any previous one. It is a
// no-op when the store has no bounded time left. The goroutine also stops
// when ctx is cancelled.
func (c *Countdown) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()

	if !c.store.TimerBounded() {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	c.cancel = cancel
	c.done = done

	go c.run(runCtx, done)
}

func (c *Countdown) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	t := time.NewTicker(c.interval)
	defer t.Stop()

	c.log.Debug().Dur("interval", c.interval).Msg("Countdown started")

	for {
		select {
		case <-ctx.Done():
			c.log.Debug().Msg("Countdown cancelled")
			return
		case <-t.C:
			if !c.store.Tick() {
				c.log.Debug().Msg("Countdown finished")
				return
			}
		}
	}
}

// Stop cancels the goroutine and waits for it to exit.
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

func (c *Countdown) stopLocked() {
	if c.cancel == nil {
		return
	}
	c.cancel()
	<-c.done
	c.cancel = nil
	c.done = nil
}

// Running reports whether a ticking goroutine is alive.
func (c *Countdown) Running() bool {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()
	if done == nil {
		return false
	}
	select {
	case <-done:
		return false
	default:
		return true
	}
}
