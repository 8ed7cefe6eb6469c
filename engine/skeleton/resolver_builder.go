package skeleton

import (
	"log"

	"github.com/Carmen-Shannon/oxy-spine/engine/asset"
)

// ResolverBuilderOption is a functional option for configuring a Resolver.
type ResolverBuilderOption func(*resolver)

// WithServer sets the asset server used to report dependency load failures through Blocked.
//
// Parameters:
//   - s: the asset server the dependency handles were loaded from
//
// Returns:
//   - ResolverBuilderOption: option function to apply
func WithServer(s asset.Server) ResolverBuilderOption {
	return func(r *resolver) {
		r.server = s
	}
}

// WithParser replaces the skeleton document parser. Defaults to spine.ParseSkeletonJSON.
//
// Parameters:
//   - parse: the parser
//
// Returns:
//   - ResolverBuilderOption: option function to apply
func WithParser(parse ParseFunc) ResolverBuilderOption {
	return func(r *resolver) {
		if parse != nil {
			r.parse = parse
		}
	}
}

// WithWorkers fans each Evaluate pass out over a worker pool of n workers.
// Values <= 1 evaluate on the calling goroutine (default).
//
// Parameters:
//   - n: the worker count
//
// Returns:
//   - ResolverBuilderOption: option function to apply
func WithWorkers(n int) ResolverBuilderOption {
	return func(r *resolver) {
		r.workers = n
	}
}

// WithLogger sets the logger for parse failures.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - ResolverBuilderOption: option function to apply
func WithLogger(logger *log.Logger) ResolverBuilderOption {
	return func(r *resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}
