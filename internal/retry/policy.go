// Package retry computes backoff delays for transient failures.
package retry

import (
	"context"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/normalization"
)

// Mode selects how delays grow between attempts.
type Mode string

const (
	ModeFixed       Mode = "fixed"
	ModeLinear      Mode = "linear"
	ModeExponential Mode = "exponential"
)

var modeNormalizer = normalization.NewNormalizer("retry backoff", map[string]Mode{
	"fixed":       ModeFixed,
	"linear":      ModeLinear,
	"exponential": ModeExponential,
}, ModeLinear)

// ParseMode maps raw onto a Mode. Empty input is linear; unknown input is a
// config error.
func ParseMode(raw string) (Mode, error) {
	return modeNormalizer.Parse(raw)
}

// Policy is an immutable retry schedule.
type Policy struct {
	Mode       Mode
	Initial    time.Duration // base delay
	Max        time.Duration // cap for growth
	MaxRetries int           // attempts after the first failure
}

// DefaultPolicy is linear, 1s initial, 30s cap, 2 retries.
func DefaultPolicy() Policy {
	return Policy{Mode: ModeLinear, Initial: time.Second, Max: 30 * time.Second, MaxRetries: 2}
}

// NewPolicy builds a policy from raw settings; zero or invalid values fall
// back to the defaults.
func NewPolicy(mode Mode, initial, maxDelay time.Duration, maxRetries int) Policy {
	p := DefaultPolicy()
	if maxRetries >= 0 {
		p.MaxRetries = maxRetries
	}
	if initial > 0 {
		p.Initial = initial
	}
	if maxDelay > 0 {
		p.Max = maxDelay
	}
	switch mode {
	case ModeFixed, ModeLinear, ModeExponential:
		p.Mode = mode
	}
	if p.Initial > p.Max {
		p.Initial = p.Max
	}
	return p
}

// Delay returns the wait before retry number retryCount (first retry is 1).
func (p Policy) Delay(retryCount int) time.Duration {
	if retryCount <= 0 {
		return 0
	}
	var d time.Duration
	switch p.Mode {
	case ModeFixed:
		return p.Initial
	case ModeExponential:
		d = p.Initial << min(retryCount-1, 30)
	default:
		d = time.Duration(retryCount) * p.Initial
	}
	if d > p.Max || d <= 0 {
		return p.Max
	}
	return d
}

// Validate reports settings no schedule can be built from.
func (p Policy) Validate() error {
	switch {
	case p.Initial <= 0:
		return errors.ValidationError("retry initial delay must be positive").WithContext("initial", p.Initial.String()).Build()
	case p.Max <= 0:
		return errors.ValidationError("retry max delay must be positive").WithContext("max", p.Max.String()).Build()
	case p.MaxRetries < 0:
		return errors.ValidationError("retry count cannot be negative").WithContext("max_retries", p.MaxRetries).Build()
	}
	return nil
}

// Do calls fn until it succeeds, the retries are used up or ctx is done. The
// last error from fn is returned.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	err := fn(ctx)
	for attempt := 1; err != nil && attempt <= p.MaxRetries; attempt++ {
		timer := time.NewTimer(p.Delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
		err = fn(ctx)
	}
	return err
}
