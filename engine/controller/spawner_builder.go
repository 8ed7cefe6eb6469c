package controller

import "log"

// SpawnerBuilderOption is a functional option for configuring a Spawner.
type SpawnerBuilderOption func(*spawner)

// WithDefaults sets the spawn options used for fields left empty in Spawn.
//
// Parameters:
//   - opts: the default skin and animation
//
// Returns:
//   - SpawnerBuilderOption: option function to apply
func WithDefaults(opts SpawnOptions) SpawnerBuilderOption {
	return func(s *spawner) {
		s.defaults = opts
	}
}

// WithLogger sets the logger for failed entities.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - SpawnerBuilderOption: option function to apply
func WithLogger(logger *log.Logger) SpawnerBuilderOption {
	return func(s *spawner) {
		if logger != nil {
			s.logger = logger
		}
	}
}
