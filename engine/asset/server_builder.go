package asset

import (
	"log"
	"strings"
)

// ServerBuilderOption is a functional option for configuring a Server.
type ServerBuilderOption func(*server)

// WithSource sets the source asset bytes are read from.
//
// Parameters:
//   - src: the asset source
//
// Returns:
//   - ServerBuilderOption: option function to apply
func WithSource(src Source) ServerBuilderOption {
	return func(s *server) {
		s.source = src
	}
}

// WithWorkers sets the number of pool workers running loads.
// Values < 1 are treated as 1. Defaults to the number of CPUs.
//
// Parameters:
//   - n: the worker count
//
// Returns:
//   - ServerBuilderOption: option function to apply
func WithWorkers(n int) ServerBuilderOption {
	return func(s *server) {
		s.workers = n
	}
}

// WithLoader registers a loader during construction. The store for its type must still be
// registered with RegisterType before paths of that type are loaded.
//
// Parameters:
//   - l: the loader
//
// Returns:
//   - ServerBuilderOption: option function to apply
func WithLoader(l Loader) ServerBuilderOption {
	return func(s *server) {
		for _, ext := range l.Extensions() {
			s.loaders[strings.ToLower(strings.TrimPrefix(ext, "."))] = l
		}
	}
}

// WithLogger sets the logger for load failures.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - ServerBuilderOption: option function to apply
func WithLogger(logger *log.Logger) ServerBuilderOption {
	return func(s *server) {
		if logger != nil {
			s.logger = logger
		}
	}
}
