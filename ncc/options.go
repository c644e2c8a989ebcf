package ncc

import (
	"log"
	"os"
	"strconv"
)

// maxWorkersEnvVar is the environment variable that caps the worker pool
// size for FFTNCCMulti. Unset, empty, zero, negative, or unparsable means
// "use all available hardware parallelism" (runtime.GOMAXPROCS(0)).
const maxWorkersEnvVar = "NCC_MAX_WORKERS"

// Options configures a multi-channel NCC call.
type Options struct {
	// Workers caps the number of goroutines used to fan out across
	// channels. 0 (the default) resolves to WorkersFromEnv(), which in
	// turn falls back to runtime.GOMAXPROCS(0).
	Workers int
}

// Option configures an Options value.
type Option func(*Options)

// DefaultOptions returns the default orchestrator options.
func DefaultOptions() Options {
	return Options{Workers: 0}
}

// WithWorkers overrides the worker pool size, bypassing NCC_MAX_WORKERS.
func WithWorkers(n int) Option {
	return func(o *Options) {
		o.Workers = n
	}
}

// ApplyOptions applies option functions to a base Options struct.
func ApplyOptions(base Options, opts []Option) Options {
	for _, opt := range opts {
		opt(&base)
	}

	return base
}

// WorkersFromEnv reads NCC_MAX_WORKERS and returns the configured worker
// cap, or 0 if unset/invalid (0 means "use all hardware parallelism" to
// effectiveWorkers). A malformed value is logged and treated as unset
// rather than rejected, since a bad env var should degrade to the safe
// default, not abort the caller's process.
func WorkersFromEnv() int {
	raw, ok := os.LookupEnv(maxWorkersEnvVar)
	if !ok || raw == "" {
		return 0
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		log.Printf("ncc: ignoring invalid %s=%q, using all available hardware parallelism", maxWorkersEnvVar, raw)
		return 0
	}

	return n
}
