package automation

import (
	"context"
	"math/rand"
	"time"

	"github.com/umputun/engager/pkg/config"
)

// Timings defines all pauses of the automation
type Timings struct {
	ScrollSettle time.Duration
	ErrorDelay   time.Duration
	ComposeMount time.Duration
	BeforeSubmit time.Duration
	AfterSubmit  time.Duration
	ErrorClose   time.Duration
	TypingDelay  time.Duration
	Click        config.DelayRange // after like/follow click
	Action       config.DelayRange // between actions
	Comment      config.DelayRange // after reply attempt
	Pass         config.DelayRange // before a pass ends
}

// NewTimings makes timings from automation config
func NewTimings(cfg config.AutomationConfig) Timings {
	return Timings{
		ScrollSettle: cfg.ScrollSettle,
		ErrorDelay:   cfg.ErrorDelay,
		ComposeMount: cfg.ComposeMount,
		BeforeSubmit: cfg.BeforeSubmit,
		AfterSubmit:  cfg.AfterSubmit,
		ErrorClose:   cfg.ErrorClose,
		TypingDelay:  cfg.TypingDelay,
		Click:        cfg.ClickDelay,
		Action:       cfg.ActionDelay,
		Comment:      cfg.CommentDelay,
		Pass:         cfg.PassDelay,
	}
}

// randomDelay returns a uniformly distributed delay in [Min, Max]
func randomDelay(r config.DelayRange) time.Duration {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + time.Duration(rand.Int63n(int64(r.Max-r.Min)+1)) //nolint:gosec // pacing jitter only
}

// sleep pauses for d or until ctx is done
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
