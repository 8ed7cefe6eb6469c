package controller

import (
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-spine/engine/asset"
	"github.com/Carmen-Shannon/oxy-spine/engine/skeleton"

	"github.com/google/uuid"
)

// Entity identifies a spawned skeleton.
type Entity uint64

// EntityState is the progress of a spawned entity.
type EntityState int

const (
	// EntityWaiting means the entity's skeleton data is not resolved yet.
	EntityWaiting EntityState = iota
	// EntityReady means the entity has a SkeletonController.
	EntityReady
	// EntityFailed means the skeleton data failed or the spawn options could not be applied.
	EntityFailed
)

func (s EntityState) String() string {
	switch s {
	case EntityReady:
		return "ready"
	case EntityFailed:
		return "failed"
	default:
		return "waiting"
	}
}

// SpineReadyEvent is emitted once per entity when its SkeletonController is created.
type SpineReadyEvent struct {
	Entity Entity
	Data   uuid.UUID
}

type entity struct {
	handle     asset.Handle[*skeleton.SkeletonData]
	opts       SpawnOptions
	state      EntityState
	err        error
	controller *SkeletonController
}

// spawner is the implementation of the Spawner interface.
type spawner struct {
	mu sync.Mutex

	logger   *log.Logger
	defaults SpawnOptions

	next     Entity
	order    []Entity
	entities map[Entity]*entity
}

// Spawner creates a SkeletonController for every spawned entity once the entity's skeleton data
// is resolved. It is driven from the tick goroutine through Sync.
type Spawner interface {
	// Spawn registers an entity for a skeleton data handle. The spawner takes ownership of
	// the handle. Zero-valued fields of opts fall back to the spawner defaults.
	//
	// Parameters:
	//   - h: the skeleton data handle
	//   - opts: the initial skin and animation
	//
	// Returns:
	//   - Entity: the new entity
	Spawn(h asset.Handle[*skeleton.SkeletonData], opts SpawnOptions) Entity

	// Despawn removes an entity and releases its handle.
	//
	// Parameters:
	//   - e: the entity
	Despawn(e Entity)

	// Sync creates controllers for waiting entities whose skeleton data is resolved and marks
	// entities whose skeleton data failed. Ready events from the resolver re-arm failed
	// entities of skeleton data that was given new dependencies and resolved.
	//
	// Parameters:
	//   - events: the resolver events of this tick
	//
	// Returns:
	//   - []SpineReadyEvent: one event per entity that became ready, in spawn order
	Sync(events []skeleton.Event) []SpineReadyEvent

	// Update advances every ready controller's animation state.
	//
	// Parameters:
	//   - delta: elapsed seconds
	Update(delta float32)

	// Controller returns the entity's controller once it is ready.
	//
	// Parameters:
	//   - e: the entity
	//
	// Returns:
	//   - *SkeletonController: the controller
	//   - bool: false unless the entity is ready
	Controller(e Entity) (*SkeletonController, bool)

	// State returns the entity's progress and, for failed entities, the error.
	//
	// Parameters:
	//   - e: the entity
	//
	// Returns:
	//   - EntityState: the state
	//   - error: the failure, or nil
	State(e Entity) (EntityState, error)

	// Entities returns the live entities in spawn order.
	//
	// Returns:
	//   - []Entity: the entities
	Entities() []Entity
}

var _ Spawner = &spawner{}

// NewSpawner creates a new Spawner with the options applied.
//
// Parameters:
//   - options: a variadic list of SpawnerBuilderOption functions
//
// Returns:
//   - Spawner: the new spawner
func NewSpawner(options ...SpawnerBuilderOption) Spawner {
	s := &spawner{
		logger:   log.Default(),
		entities: make(map[Entity]*entity),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *spawner) Spawn(h asset.Handle[*skeleton.SkeletonData], opts SpawnOptions) Entity {
	if opts.Skin == "" {
		opts.Skin = s.defaults.Skin
	}
	if opts.Animation == "" {
		opts.Animation = s.defaults.Animation
		opts.Track = s.defaults.Track
		opts.Loop = s.defaults.Loop
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	e := s.next
	s.order = append(s.order, e)
	s.entities[e] = &entity{handle: h, opts: opts}
	return e
}

func (s *spawner) Despawn(e Entity) {
	s.mu.Lock()
	ent, ok := s.entities[e]
	if ok {
		delete(s.entities, e)
		for i, id := range s.order {
			if id == e {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
	s.mu.Unlock()

	if ok {
		ent.handle.Release()
	}
}

func (s *spawner) Sync(events []skeleton.Event) []SpineReadyEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ev := range events {
		if ev.Kind != skeleton.EventReady {
			continue
		}
		for _, ent := range s.entities {
			if ent.state == EntityFailed && ent.handle.ID() == ev.ID {
				ent.state, ent.err = EntityWaiting, nil
			}
		}
	}

	var ready []SpineReadyEvent
	for _, e := range s.order {
		ent := s.entities[e]
		if ent.state != EntityWaiting {
			continue
		}
		sd, ok := ent.handle.Get()
		if !ok {
			continue
		}

		res := sd.Resolution()
		switch res.State {
		case skeleton.StateFailed:
			ent.state, ent.err = EntityFailed, res.Err
			s.logger.Printf("[Spawner] entity %d: %v", e, res.Err)
		case skeleton.StateResolved:
			c, err := NewSkeletonController(res.Template, ent.opts)
			if err != nil {
				ent.state, ent.err = EntityFailed, err
				s.logger.Printf("[Spawner] entity %d: %v", e, err)
				continue
			}
			ent.state, ent.controller = EntityReady, c
			ready = append(ready, SpineReadyEvent{Entity: e, Data: ent.handle.ID()})
		}
	}
	return ready
}

func (s *spawner) Update(delta float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.order {
		if ent := s.entities[e]; ent.controller != nil {
			ent.controller.Update(delta)
		}
	}
}

func (s *spawner) Controller(e Entity) (*SkeletonController, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ent, ok := s.entities[e]
	if !ok || ent.controller == nil {
		return nil, false
	}
	return ent.controller, true
}

func (s *spawner) State(e Entity) (EntityState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ent, ok := s.entities[e]
	if !ok {
		return EntityWaiting, nil
	}
	return ent.state, ent.err
}

func (s *spawner) Entities() []Entity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Entity(nil), s.order...)
}
