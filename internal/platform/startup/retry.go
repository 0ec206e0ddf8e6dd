// Package startup holds the bring-up policy shared by store connectors.
package startup

import (
	"context"
	"fmt"
	"time"

	"github.com/yungbote/honeyshop-backend/internal/platform/logger"
)

// Policy is a fixed-delay bounded retry.
type Policy struct {
	Attempts int
	Delay    time.Duration
}

// DefaultPolicy matches the document store bring-up: 12 tries, 2.5s apart.
var DefaultPolicy = Policy{Attempts: 12, Delay: 2500 * time.Millisecond}

func (p Policy) normalized() Policy {
	if p.Attempts <= 0 {
		p.Attempts = 1
	}
	if p.Delay < 0 {
		p.Delay = 0
	}
	return p
}

// Retry runs fn until it succeeds, the attempts run out, or ctx is done.
// The returned error wraps the last failure.
func Retry(ctx context.Context, log *logger.Logger, p Policy, name string, fn func(ctx context.Context) error) error {
	p = p.normalized()
	var lastErr error
	for attempt := 1; attempt <= p.Attempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			if attempt > 1 && log != nil {
				log.Info("connected after retry", "target", name, "attempt", attempt)
			}
			return nil
		}
		if attempt == p.Attempts {
			break
		}
		if log != nil {
			log.Warn("connect failed, retrying",
				"target", name,
				"attempt", attempt,
				"max_attempts", p.Attempts,
				"delay_ms", p.Delay.Milliseconds(),
				"error", lastErr,
			)
		}
		timer := time.NewTimer(p.Delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%s: %w (last error: %v)", name, ctx.Err(), lastErr)
		case <-timer.C:
		}
	}
	return fmt.Errorf("%s: connection failed after %d attempts: %w", name, p.Attempts, lastErr)
}
