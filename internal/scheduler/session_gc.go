// Package scheduler runs the periodic background jobs.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/toolshelf/internal/logger"
)

// Sweeper removes expired entries as of now and reports how many went away.
type Sweeper interface {
	Sweep(now time.Time) int
}

// SessionCollector sweeps idle sessions on a fixed interval.
type SessionCollector struct {
	sweeper  Sweeper
	logger   logger.Logger
	interval time.Duration
	now      func() time.Time

	stopCh   chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

func NewSessionCollector(sweeper Sweeper, log logger.Logger, interval time.Duration) *SessionCollector {
	return &SessionCollector{
		sweeper:  sweeper,
		logger:   log,
		interval: interval,
		now:      time.Now,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs one sweep, then keeps sweeping in a goroutine until Stop is
// called or ctx is done.
func (c *SessionCollector) Start(ctx context.Context) {
	c.Collect()

	ticker := time.NewTicker(c.interval)
	go func() {
		defer close(c.done)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.Collect()
			case <-c.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	c.logger.Info("session collector started", logger.Duration("interval", c.interval))
}

// Stop ends the loop and waits for it. Safe to call more than once, but only
// after Start.
func (c *SessionCollector) Stop() {
	c.stopOnce.Do(func() { close(c.stopCh) })
	<-c.done
}

func (c *SessionCollector) Collect() int {
	removed := c.sweeper.Sweep(c.now())
	if removed > 0 {
		c.logger.Info("expired sessions removed", logger.Int("removed", removed))
	} else {
		c.logger.Debug("no expired sessions")
	}
	return removed
}
