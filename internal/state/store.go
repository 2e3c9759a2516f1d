// Package state is the client local state store: cart, session and order
// history persisted as JSON documents under fixed keys of a kv.Backend.
//
// Reads are pull-based. A caller holding a value returned by the store owns a
// snapshot and must read again after any mutation to observe it. Callers that
// prefer push can register a Listener with Subscribe.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/kv"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/metrics"
)

// Key names one persisted document.
type Key string

const (
	KeyCart   Key = "cart"
	KeyUser   Key = "user"
	KeyOrders Key = "orders"
)

func (k Key) String() string { return string(k) }

// DecodePolicy controls what happens when a stored document is not valid JSON
// for its type.
type DecodePolicy int

const (
	// DecodeLenient treats an undecodable document as absent. The failure is
	// still logged and counted.
	DecodeLenient DecodePolicy = iota
	// DecodeStrict surfaces an undecodable document as CORRUPT_STATE.
	DecodeStrict
)

// Listener is notified after a key has been written or removed.
type Listener func(ctx context.Context, key Key)

// Options configures a Store.
type Options struct {
	Backend kv.Backend
	Logger  *logger.Logger
	Metrics *metrics.StateMetrics
	Policy  DecodePolicy
}

// Store mediates every access to the persisted documents. Read-modify-write
// cycles are serialised within the process; writers in other processes sharing
// the backend are not coordinated and the last write wins.
type Store struct {
	backend kv.Backend
	logg    *logger.Logger
	metrics *metrics.StateMetrics
	policy  DecodePolicy

	mu sync.Mutex

	lmu       sync.RWMutex
	listeners map[int]Listener
	nextID    int
}

// New builds a store over the given backend.
func New(opts Options) (*Store, error) {
	if opts.Backend == nil {
		return nil, fmt.Errorf("state backend required")
	}
	logg := opts.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &Store{
		backend:   opts.Backend,
		logg:      logg,
		metrics:   opts.Metrics,
		policy:    opts.Policy,
		listeners: map[int]Listener{},
	}, nil
}

// Subscribe registers l and returns a func that removes it.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.lmu.Lock()
	defer s.lmu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	return func() {
		s.lmu.Lock()
		defer s.lmu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Store) notify(ctx context.Context, key Key) {
	s.lmu.RLock()
	snapshot := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		snapshot = append(snapshot, l)
	}
	s.lmu.RUnlock()
	for _, l := range snapshot {
		l(ctx, key)
	}
}

// Ping reports backend reachability when the backend supports it.
func (s *Store) Ping(ctx context.Context) error {
	if p, ok := s.backend.(kv.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Delete removes key from the backend.
func (s *Store) Delete(ctx context.Context, key Key) error {
	s.mu.Lock()
	err := s.remove(ctx, key)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notify(ctx, key)
	return nil
}

// load decodes the document at key into dest. It reports false when the key
// is absent, or when it is corrupt under the lenient policy.
func (s *Store) load(ctx context.Context, key Key, dest any) (bool, error) {
	raw, err := s.backend.Get(ctx, key.String())
	if errors.Is(err, kv.ErrNotFound) {
		s.metrics.ObserveOperation(key.String(), "get", nil)
		return false, nil
	}
	s.metrics.ObserveOperation(key.String(), "get", err)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("read %s", key))
	}

	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		s.metrics.IncCorrupt(key.String())
		logCtx := s.logg.WithStateKey(ctx, key.String())
		if s.policy == DecodeStrict {
			s.logg.Error(logCtx, "state.decode_failed", err)
			return false, pkgerrors.Wrap(pkgerrors.CodeCorruptState, err, fmt.Sprintf("decode %s", key)).
				WithDetails(map[string]any{"key": key.String()})
		}
		s.logg.Warn(s.logg.WithField(logCtx, "error", err.Error()), "state.decode_failed treating document as empty")
		return false, nil
	}
	return true, nil
}

func (s *Store) save(ctx context.Context, key Key, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("encode %s", key))
	}
	err = s.backend.Set(ctx, key.String(), string(payload))
	s.metrics.ObserveOperation(key.String(), "set", err)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("write %s", key))
	}
	return nil
}

func (s *Store) remove(ctx context.Context, key Key) error {
	err := s.backend.Remove(ctx, key.String())
	s.metrics.ObserveOperation(key.String(), "remove", err)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("remove %s", key))
	}
	return nil
}
