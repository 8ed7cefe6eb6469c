package asset

import (
	"errors"
	"fmt"
	"log"
	"path"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/google/uuid"
)

// server is the implementation of the Server interface.
type server struct {
	mu sync.Mutex

	source  Source
	logger  *log.Logger
	workers int
	pool    worker.DynamicWorkerPool

	stores  map[uuid.UUID]store
	loaders map[string]Loader

	records map[uuid.UUID]*record
	removed []Event
	gen     uint64 // server-wide so a re-created record never reuses a generation

	completedMu sync.Mutex // workers only take this lock
	completed   []loadResult

	inFlight sync.WaitGroup
	pending  int
	nextTask int
}

// record tracks the load progress of one path-derived asset id.
type record struct {
	path   string
	typeID uuid.UUID
	state  LoadState
	err    error
	gen    uint64
	deps   []untypedHandle
}

// untypedHandle is a strong reference held by the server on behalf of a parent asset.
type untypedHandle struct {
	id    uuid.UUID
	store store
}

type loadResult struct {
	id    uuid.UUID
	gen   uint64
	value any
	deps  []string
	err   error
}

// Stats is a snapshot of server counters.
type Stats struct {
	Loading int
	Loaded  int
	Failed  int
	Stores  int
}

// Server owns the asset stores and runs loads on a worker pool. Loaded values are applied to
// their stores only during Update, so store contents change on the goroutine that calls Update.
type Server interface {
	// RegisterLoader registers a loader for each of its extensions. A later registration for
	// the same extension replaces the earlier one.
	//
	// Parameters:
	//   - l: the loader
	RegisterLoader(l Loader)

	// Update applies every completed load to its store and returns the resulting events in
	// completion order, preceded by removals since the previous Update.
	//
	// Returns:
	//   - []Event: the applied changes
	Update() []Event

	// WaitIdle blocks until no load is running on the worker pool.
	WaitIdle()

	// InFlight returns the number of loads submitted but not yet applied by Update.
	//
	// Returns:
	//   - int: the number of outstanding loads
	InFlight() int

	// LoadState returns the load progress of id.
	//
	// Parameters:
	//   - id: the asset id
	//
	// Returns:
	//   - LoadState: the state; assets added directly to a store report LoadStateLoaded
	LoadState(id uuid.UUID) LoadState

	// LoadError returns the error of the last failed load of id, or nil.
	//
	// Parameters:
	//   - id: the asset id
	//
	// Returns:
	//   - error: the load error
	LoadError(id uuid.UUID) error

	// Path returns the path id was loaded from.
	//
	// Parameters:
	//   - id: the asset id
	//
	// Returns:
	//   - string: the asset path
	//   - bool: false if id was not loaded from a path
	Path(id uuid.UUID) (string, bool)

	// Reload reads and parses the asset at p again. The current value stays in its store until
	// the new one is applied; a failed reload leaves it in place and reports LoadStateFailed.
	//
	// Parameters:
	//   - p: the asset path
	//
	// Returns:
	//   - error: ErrUnknownPath if no live handle was loaded from p
	Reload(p string) error

	// Source returns the source assets are read from.
	//
	// Returns:
	//   - Source: the asset source
	Source() Source

	// Stats returns the current counters.
	//
	// Returns:
	//   - Stats: the counters
	Stats() Stats

	registerStore(st store) error
	lookupStore(typeID uuid.UUID) (store, bool)
	load(p string) (store, uuid.UUID, error)
}

var _ Server = &server{}

// NewServer creates a new asset Server with the options applied.
// Without WithSource the server reads from the working directory.
//
// Parameters:
//   - options: a variadic list of ServerBuilderOption functions
//
// Returns:
//   - Server: the new server
func NewServer(options ...ServerBuilderOption) Server {
	s := &server{
		workers: runtime.NumCPU(),
		logger:  log.Default(),
		stores:  make(map[uuid.UUID]store),
		loaders: make(map[string]Loader),
		records: make(map[uuid.UUID]*record),
	}
	for _, option := range options {
		option(s)
	}
	if s.source == nil {
		s.source = NewDirSource(".")
	}
	if s.workers < 1 {
		s.workers = 1
	}
	s.pool = worker.NewDynamicWorkerPool(s.workers, 256, 1*time.Second)
	return s
}

// RegisterType creates the store for assets of type T under typeID.
//
// Parameters:
//   - s: the server
//   - typeID: the asset type id
//
// Returns:
//   - *Assets[T]: the registered store
//   - error: error if a store is already registered under typeID
func RegisterType[T any](s Server, typeID uuid.UUID) (*Assets[T], error) {
	a := NewAssets[T](typeID)
	if err := s.registerStore(a); err != nil {
		return nil, err
	}
	return a, nil
}

// StoreOf returns the registered store for assets of type T under typeID.
//
// Parameters:
//   - s: the server
//   - typeID: the asset type id
//
// Returns:
//   - *Assets[T]: the store
//   - error: ErrUnknownType or ErrTypeMismatch
func StoreOf[T any](s Server, typeID uuid.UUID) (*Assets[T], error) {
	st, ok := s.lookupStore(typeID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, typeID)
	}
	a, ok := st.(*Assets[T])
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTypeMismatch, typeID)
	}
	return a, nil
}

// Load returns a strong handle to the asset at p, queuing a load when the asset is not already
// loading or loaded. Loading the same path again returns a handle with the same id and does not
// parse twice. A failed load is not retried until Reload.
//
// Parameters:
//   - s: the server
//   - p: the asset path
//
// Returns:
//   - Handle[T]: the handle; Get reports false until Update applies the loaded value
//   - error: ErrNoLoader, ErrUnknownType or ErrTypeMismatch
func Load[T any](s Server, p string) (Handle[T], error) {
	st, id, err := s.load(p)
	if err != nil {
		return Handle[T]{}, err
	}
	a, ok := st.(*Assets[T])
	if !ok {
		st.release(id)
		return Handle[T]{}, fmt.Errorf("%w: %s is %s", ErrTypeMismatch, p, st.TypeID())
	}
	return Handle[T]{id: id, store: a}, nil
}

func (s *server) RegisterLoader(l Loader) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ext := range l.Extensions() {
		ext = strings.ToLower(strings.TrimPrefix(ext, "."))
		if _, ok := s.loaders[ext]; ok {
			s.logger.Printf("[Asset] replacing loader for .%s", ext)
		}
		s.loaders[ext] = l
	}
}

func (s *server) registerStore(st store) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.stores[st.TypeID()]; ok {
		return fmt.Errorf("asset type %s already registered", st.TypeID())
	}
	st.setDropHook(s.onDrop)
	s.stores[st.TypeID()] = st
	return nil
}

func (s *server) lookupStore(typeID uuid.UUID) (store, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stores[typeID]
	return st, ok
}

// load acquires a reference to the asset at p for the caller and queues its load if needed.
func (s *server) load(p string) (store, uuid.UUID, error) {
	p = cleanPath(p)
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(p), "."))

	s.mu.Lock()
	l, ok := s.loaders[ext]
	if !ok {
		s.mu.Unlock()
		return nil, uuid.Nil, fmt.Errorf("%w: %s", ErrNoLoader, p)
	}
	st, ok := s.stores[l.TypeID()]
	if !ok {
		s.mu.Unlock()
		return nil, uuid.Nil, fmt.Errorf("%w: %s", ErrUnknownType, l.TypeID())
	}

	id := PathID(l.TypeID(), p)
	st.acquire(id)

	rec, ok := s.records[id]
	if !ok {
		rec = &record{path: p, typeID: l.TypeID()}
		s.records[id] = rec
	}
	var task worker.Task
	queued := rec.state == LoadStateNotLoaded
	if queued {
		task = s.prepareLocked(id, rec, l)
	}
	s.mu.Unlock()

	// the pool's queue is bounded; submitting under s.mu would stall Update and every other load
	if queued {
		s.pool.SubmitTask(task)
	}
	return st, id, nil
}

// prepareLocked marks rec as loading and returns the task that loads it. s.mu must be held;
// the task must be submitted after s.mu is released.
func (s *server) prepareLocked(id uuid.UUID, rec *record, l Loader) worker.Task {
	s.gen++
	rec.gen = s.gen
	if rec.state != LoadStateLoaded {
		rec.state = LoadStateLoading
	}
	gen, p, src := rec.gen, rec.path, s.source
	taskID := s.nextTask
	s.nextTask++
	s.pending++

	s.inFlight.Add(1)
	return worker.Task{
		ID: taskID,
		Do: func() (any, error) {
			defer s.inFlight.Done()

			res := loadResult{id: id, gen: gen}
			data, err := src.Read(p)
			if err != nil {
				res.err = err
			} else {
				ctx := NewLoadContext(p, src)
				res.value, res.err = l.Load(ctx, data)
				res.deps = ctx.Dependencies()
			}

			s.completedMu.Lock()
			s.completed = append(s.completed, res)
			s.completedMu.Unlock()
			return nil, nil
		},
	}
}

func (s *server) Update() []Event {
	s.completedMu.Lock()
	done := s.completed
	s.completed = nil
	s.completedMu.Unlock()

	s.mu.Lock()
	events := s.removed
	s.removed = nil
	s.pending -= len(done)
	s.mu.Unlock()

	for _, res := range done {
		if ev, ok := s.apply(res); ok {
			events = append(events, ev)
		}
	}
	return events
}

// apply stores one load result. Stale results and results for dropped assets are discarded.
func (s *server) apply(res loadResult) (Event, bool) {
	s.mu.Lock()
	rec, ok := s.records[res.id]
	if !ok || rec.gen != res.gen {
		s.mu.Unlock()
		return Event{}, false
	}
	st := s.stores[rec.typeID]
	ev := Event{ID: res.id, TypeID: rec.typeID, Path: rec.path}

	if res.err != nil {
		rec.state = LoadStateFailed
		rec.err = res.err
		s.mu.Unlock()
		s.logger.Printf("[Asset] failed to load %s: %v", rec.path, res.err)
		ev.Kind = EventFailed
		ev.Err = res.err
		return ev, true
	}
	s.mu.Unlock()

	replaced, err := st.insert(res.id, res.value)
	if err != nil {
		if errors.Is(err, ErrAssetNotFound) {
			return Event{}, false
		}
		s.mu.Lock()
		rec.state = LoadStateFailed
		rec.err = err
		s.mu.Unlock()
		s.logger.Printf("[Asset] failed to store %s: %v", rec.path, err)
		ev.Kind = EventFailed
		ev.Err = err
		return ev, true
	}

	deps := make([]untypedHandle, 0, len(res.deps))
	for _, dep := range res.deps {
		dst, depID, err := s.load(dep)
		if err != nil {
			s.logger.Printf("[Asset] skipping dependency %s of %s: %v", dep, rec.path, err)
			continue
		}
		deps = append(deps, untypedHandle{id: depID, store: dst})
	}

	s.mu.Lock()
	var stale []untypedHandle
	if cur, ok := s.records[res.id]; ok && cur == rec {
		stale = rec.deps
		rec.deps = deps
		rec.state = LoadStateLoaded
		rec.err = nil
	} else {
		stale = deps
	}
	s.mu.Unlock()
	for _, h := range stale {
		h.store.release(h.id)
	}

	ev.Kind = EventLoaded
	if replaced {
		ev.Kind = EventModified
	}
	return ev, true
}

// onDrop forgets the record of a dropped asset and releases the dependencies it held.
func (s *server) onDrop(id uuid.UUID) {
	s.mu.Lock()
	rec, ok := s.records[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	delete(s.records, id)
	deps := rec.deps
	s.removed = append(s.removed, Event{Kind: EventRemoved, ID: id, TypeID: rec.typeID, Path: rec.path})
	s.mu.Unlock()

	for _, h := range deps {
		h.store.release(h.id)
	}
}

func (s *server) WaitIdle() {
	s.inFlight.Wait()
}

func (s *server) InFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

func (s *server) LoadState(id uuid.UUID) LoadState {
	s.mu.Lock()
	rec, ok := s.records[id]
	if ok {
		state := rec.state
		s.mu.Unlock()
		return state
	}
	stores := make([]store, 0, len(s.stores))
	for _, st := range s.stores {
		stores = append(stores, st)
	}
	s.mu.Unlock()

	for _, st := range stores {
		if st.loaded(id) {
			return LoadStateLoaded
		}
	}
	return LoadStateNotLoaded
}

func (s *server) LoadError(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.records[id]; ok && rec.state == LoadStateFailed {
		return rec.err
	}
	return nil
}

func (s *server) Path(id uuid.UUID) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.records[id]; ok {
		return rec.path, true
	}
	return "", false
}

func (s *server) Reload(p string) error {
	p = cleanPath(p)
	s.mu.Lock()
	var tasks []worker.Task
	for id, rec := range s.records {
		if rec.path != p {
			continue
		}
		ext := strings.ToLower(strings.TrimPrefix(path.Ext(p), "."))
		l, ok := s.loaders[ext]
		if !ok || l.TypeID() != rec.typeID {
			continue
		}
		tasks = append(tasks, s.prepareLocked(id, rec, l))
	}
	s.mu.Unlock()

	if len(tasks) == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownPath, p)
	}
	for _, task := range tasks {
		s.pool.SubmitTask(task)
	}
	return nil
}

func (s *server) Source() Source {
	return s.source
}

func (s *server) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Stats{Stores: len(s.stores)}
	for _, rec := range s.records {
		switch rec.state {
		case LoadStateLoading:
			st.Loading++
		case LoadStateLoaded:
			st.Loaded++
		case LoadStateFailed:
			st.Failed++
		}
	}
	return st
}
