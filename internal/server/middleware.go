package server

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"golang.org/x/time/rate"

	"github.com/ironsheep/image-frame-mcp/internal/frame"
)

// ErrRateLimited is returned when a tool call exceeds the configured rate.
var ErrRateLimited = errors.New("rate limit exceeded")

// ToolFunc executes one named tool call.
type ToolFunc func(name string, args json.RawMessage) (*frame.Bitmap, error)

// Middleware wraps a ToolFunc with additional behavior.
type Middleware func(next ToolFunc) ToolFunc

// Chain composes middlewares so the first one listed runs outermost.
func Chain(middlewares ...Middleware) Middleware {
	return func(next ToolFunc) ToolFunc {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}

// LoggingMiddleware logs failed tool calls, and every call when debug is set.
func LoggingMiddleware(debug bool) Middleware {
	return func(next ToolFunc) ToolFunc {
		return func(name string, args json.RawMessage) (*frame.Bitmap, error) {
			start := time.Now()
			b, err := next(name, args)
			duration := time.Since(start)

			if err != nil {
				log.Printf("Tool %s failed after %s: %v", name, duration, err)
			} else if debug {
				log.Printf("Tool %s: %dx%d %s in %s", name, b.Width, b.Height, b.Mode, duration)
			}
			return b, err
		}
	}
}

// RateLimitMiddleware admits at most r calls per second with the given burst,
// using a token bucket. Calls over the limit fail immediately with
// ErrRateLimited. A non-positive r disables limiting.
func RateLimitMiddleware(r float64, burst int) Middleware {
	if r <= 0 {
		return func(next ToolFunc) ToolFunc { return next }
	}
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(r), burst)
	return func(next ToolFunc) ToolFunc {
		return func(name string, args json.RawMessage) (*frame.Bitmap, error) {
			if !limiter.Allow() {
				return nil, ErrRateLimited
			}
			return next(name, args)
		}
	}
}
