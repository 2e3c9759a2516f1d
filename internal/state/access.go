package state

import "context"

// Get reads the document at key. The zero value and false are returned when
// nothing usable is stored.
func Get[T any](ctx context.Context, s *Store, key Key) (T, bool, error) {
	var value T
	found, err := s.load(ctx, key, &value)
	if err != nil || !found {
		var zero T
		return zero, false, err
	}
	return value, true, nil
}

// Put overwrites the document at key.
func Put[T any](ctx context.Context, s *Store, key Key, value T) error {
	s.mu.Lock()
	err := s.save(ctx, key, value)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notify(ctx, key)
	return nil
}

// MutateFunc receives the current document (zero value when absent) and
// returns the next one. Returning write=false leaves the backend untouched.
type MutateFunc[T any] func(current T, found bool) (next T, write bool, err error)

// Update runs a read-modify-write cycle on key while holding the store lock.
func Update[T any](ctx context.Context, s *Store, key Key, fn MutateFunc[T]) error {
	s.mu.Lock()
	var current T
	found, err := s.load(ctx, key, &current)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if !found {
		var zero T
		current = zero
	}
	next, write, err := fn(current, found)
	if err != nil || !write {
		s.mu.Unlock()
		return err
	}
	err = s.save(ctx, key, next)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notify(ctx, key)
	return nil
}
