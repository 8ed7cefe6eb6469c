package skeleton

import (
	"log"
	"slices"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-spine/engine/asset"
	"github.com/Carmen-Shannon/oxy-spine/engine/spine"

	"github.com/google/uuid"
)

// EventKind is the transition an Event reports.
type EventKind int

const (
	// EventReady reports a Pending to Resolved transition.
	EventReady EventKind = iota
	// EventFailed reports a Pending to Failed transition.
	EventFailed
)

func (k EventKind) String() string {
	if k == EventFailed {
		return "failed"
	}
	return "ready"
}

// Event is emitted exactly once per transition out of StatePending.
type Event struct {
	Kind EventKind
	ID   uuid.UUID
	Err  error
}

// Stats counts the registered SkeletonData by state.
type Stats struct {
	Pending  int
	Resolved int
	Failed   int
}

// resolver is the implementation of the Resolver interface.
type resolver struct {
	mu sync.Mutex

	store   *asset.Assets[*SkeletonData]
	server  asset.Server
	parse   ParseFunc
	logger  *log.Logger
	workers int
	pool    worker.DynamicWorkerPool

	order   []uuid.UUID
	entries map[uuid.UUID]*SkeletonData

	listeners []func(Event)
}

// Resolver owns the SkeletonData composites and turns them into parsed templates once their
// dependencies are loaded.
type Resolver interface {
	// Add registers a SkeletonData and returns the only handle to it. The SkeletonData is
	// removed, and its dependency handles released, on the first Evaluate after the last handle
	// is released.
	//
	// Parameters:
	//   - sd: the composite, usually from NewFromJSON
	//
	// Returns:
	//   - asset.Handle[*SkeletonData]: a strong handle
	Add(sd *SkeletonData) asset.Handle[*SkeletonData]

	// Get returns the SkeletonData registered under id.
	//
	// Parameters:
	//   - id: the SkeletonData asset id
	//
	// Returns:
	//   - *SkeletonData: the composite
	//   - bool: false if no such SkeletonData is registered
	Get(id uuid.UUID) (*SkeletonData, bool)

	// Evaluate runs one pass over every registered SkeletonData. A pending composite whose atlas
	// and document are both loaded is parsed exactly once and moves to StateResolved or
	// StateFailed; every other composite is left untouched. The returned events are also
	// delivered to the subscribers, in registration order.
	//
	// Returns:
	//   - []Event: the transitions made in this pass
	Evaluate() []Event

	// Subscribe registers fn to receive every Event produced by Evaluate. fn runs on the
	// goroutine calling Evaluate.
	//
	// Parameters:
	//   - fn: the subscriber
	Subscribe(fn func(Event))

	// Blocked returns the load error of a dependency that keeps a pending SkeletonData from
	// resolving, or nil. It needs WithServer.
	//
	// Parameters:
	//   - id: the SkeletonData asset id
	//
	// Returns:
	//   - error: the atlas or document load error
	Blocked(id uuid.UUID) error

	// Assets returns the store holding the registered SkeletonData.
	//
	// Returns:
	//   - *asset.Assets[*SkeletonData]: the store
	Assets() *asset.Assets[*SkeletonData]

	// Stats counts the registered SkeletonData by state.
	//
	// Returns:
	//   - Stats: the counts
	Stats() Stats
}

var _ Resolver = &resolver{}

// NewResolver creates a new Resolver with the options applied.
//
// Parameters:
//   - options: a variadic list of ResolverBuilderOption functions
//
// Returns:
//   - Resolver: the new resolver
func NewResolver(options ...ResolverBuilderOption) Resolver {
	r := &resolver{
		store:   asset.NewAssets[*SkeletonData](SkeletonDataTypeID),
		parse:   spine.ParseSkeletonJSON,
		logger:  log.Default(),
		workers: 1,
		entries: make(map[uuid.UUID]*SkeletonData),
	}
	for _, option := range options {
		option(r)
	}
	if r.workers > 1 {
		r.pool = worker.NewDynamicWorkerPool(r.workers, 256, 1*time.Second)
	}
	return r
}

func (r *resolver) Add(sd *SkeletonData) asset.Handle[*SkeletonData] {
	h := r.store.Add(sd)
	r.mu.Lock()
	r.order = append(r.order, h.ID())
	r.entries[h.ID()] = sd
	r.mu.Unlock()
	return h
}

func (r *resolver) Get(id uuid.UUID) (*SkeletonData, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sd, ok := r.entries[id]
	return sd, ok
}

func (r *resolver) Subscribe(fn func(Event)) {
	r.mu.Lock()
	r.listeners = append(r.listeners, fn)
	r.mu.Unlock()
}

func (r *resolver) Assets() *asset.Assets[*SkeletonData] {
	return r.store
}

type pendingEntry struct {
	id uuid.UUID
	sd *SkeletonData
}

func (r *resolver) Evaluate() []Event {
	batch, dropped := r.collect()
	for _, sd := range dropped {
		sd.release()
	}

	results := make([]*Event, len(batch))
	if r.pool != nil && len(batch) > 1 {
		var wg sync.WaitGroup
		for i, p := range batch {
			wg.Add(1)
			idx, entry := i, p
			r.pool.SubmitTask(worker.Task{
				ID: idx,
				Do: func() (any, error) {
					defer wg.Done()
					results[idx] = r.evaluateOne(entry)
					return nil, nil
				},
			})
		}
		wg.Wait()
	} else {
		for i, p := range batch {
			results[i] = r.evaluateOne(p)
		}
	}

	var events []Event
	for _, ev := range results {
		if ev != nil {
			events = append(events, *ev)
		}
	}

	r.mu.Lock()
	listeners := slices.Clone(r.listeners)
	r.mu.Unlock()
	for _, ev := range events {
		for _, fn := range listeners {
			fn(ev)
		}
	}
	return events
}

// collect returns the pending composites in registration order and removes composites whose
// last handle was released.
func (r *resolver) collect() ([]pendingEntry, []*SkeletonData) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var batch []pendingEntry
	var dropped []*SkeletonData
	kept := r.order[:0]
	for _, id := range r.order {
		sd := r.entries[id]
		if r.store.RefCount(id) == 0 {
			delete(r.entries, id)
			dropped = append(dropped, sd)
			continue
		}
		kept = append(kept, id)
		if sd.State() == StatePending {
			batch = append(batch, pendingEntry{id: id, sd: sd})
		}
	}
	r.order = kept
	return batch, dropped
}

func (r *resolver) evaluateOne(p pendingEntry) *Event {
	res, changed := p.sd.resolve(r.parse)
	if !changed {
		return nil
	}
	if res.State == StateFailed {
		r.logger.Printf("[Resolver] %v", res.Err)
		return &Event{Kind: EventFailed, ID: p.id, Err: res.Err}
	}
	return &Event{Kind: EventReady, ID: p.id}
}

func (r *resolver) Blocked(id uuid.UUID) error {
	if r.server == nil {
		return nil
	}
	sd, ok := r.Get(id)
	if !ok || sd.State() != StatePending {
		return nil
	}
	if err := r.server.LoadError(sd.Atlas().ID()); err != nil {
		return err
	}
	return r.server.LoadError(sd.JSON().ID())
}

func (r *resolver) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	var st Stats
	for _, sd := range r.entries {
		switch sd.State() {
		case StateResolved:
			st.Resolved++
		case StateFailed:
			st.Failed++
		default:
			st.Pending++
		}
	}
	return st
}
