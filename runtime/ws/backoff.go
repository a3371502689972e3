package ws

import (
	"math"
	"math/rand"
	"time"
)

// Backoff holds reconnect backoff parameters.
type Backoff struct {
	// MaxAttempts is the maximum number of reconnect attempts for a dropped
	// session (default: 10). Zero disables reconnection.
	MaxAttempts int

	// InitialDelay is the base delay before the first attempt (default: 1s).
	InitialDelay time.Duration

	// MaxDelay is the maximum delay between attempts (default: 60s).
	MaxDelay time.Duration

	// Multiplier is the exponential backoff multiplier (default: 2.0).
	Multiplier float64

	// Jitter adds randomness to prevent thundering herd (default: 0.1 = 10%).
	// Delay is multiplied by (1 + random(-jitter, +jitter)).
	Jitter float64
}

// DefaultBackoff returns the default reconnect configuration.
// - 10 max attempts
// - 1 second initial delay
// - 60 second max delay
// - 2x exponential multiplier
// - 10% jitter
func DefaultBackoff() Backoff {
	return Backoff{
		MaxAttempts:  10,
		InitialDelay: 1 * time.Second,
		MaxDelay:     60 * time.Second,
		Multiplier:   2.0,
		Jitter:       0.1,
	}
}

// NoReconnect returns a configuration that disables reconnection: a dropped
// session stays dropped.
func NoReconnect() Backoff {
	return Backoff{}
}

// Delay calculates the delay for a given attempt number (0-indexed).
// Formula: min(maxDelay, initialDelay * multiplier^attempt) * (1 + jitter)
func (b Backoff) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	delay := float64(b.InitialDelay) * math.Pow(b.Multiplier, float64(attempt))
	if delay > float64(b.MaxDelay) {
		delay = float64(b.MaxDelay)
	}

	// Apply jitter: random value in range [-jitter, +jitter]
	if b.Jitter > 0 {
		jitterFactor := 1.0 + (rand.Float64()*2-1)*b.Jitter
		delay *= jitterFactor
	}

	return time.Duration(delay)
}
