// Package config holds the runtime settings of the image frame server.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variables read by FromEnv.
const (
	EnvLogLevel  = "IMAGE_FRAME_MCP_LOG_LEVEL"
	EnvRoot      = "IMAGE_FRAME_MCP_ROOT"
	EnvRateLimit = "IMAGE_FRAME_MCP_RATE_LIMIT"
	EnvRateBurst = "IMAGE_FRAME_MCP_RATE_BURST"
)

// Config is the server configuration.
type Config struct {
	// Version is reported in the initialize handshake.
	Version string

	// Debug enables per-call logging.
	Debug bool

	// Root is the base directory for relative image paths.
	Root string

	// RateLimit is the number of tool calls admitted per second; 0 disables
	// limiting. RateBurst is the token bucket size.
	RateLimit float64
	RateBurst int
}

// Default returns the configuration used when no environment is set.
func Default() Config {
	return Config{
		Version:   "dev",
		RateBurst: 1,
	}
}

// FromEnv builds a Config from the process environment.
func FromEnv() (Config, error) {
	return Parse(os.LookupEnv)
}

// Parse builds a Config from lookup, which has the signature of os.LookupEnv.
func Parse(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if v, ok := lookup(EnvLogLevel); ok {
		cfg.Debug = v == "debug"
	}
	if v, ok := lookup(EnvRoot); ok {
		cfg.Root = v
	}
	if v, ok := lookup(EnvRateLimit); ok && v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil || r < 0 {
			return Config{}, fmt.Errorf("invalid %s %q: must be a non-negative number", EnvRateLimit, v)
		}
		cfg.RateLimit = r
	}
	if v, ok := lookup(EnvRateBurst); ok && v != "" {
		b, err := strconv.Atoi(v)
		if err != nil || b < 1 {
			return Config{}, fmt.Errorf("invalid %s %q: must be a positive integer", EnvRateBurst, v)
		}
		cfg.RateBurst = b
	}

	return cfg, nil
}
