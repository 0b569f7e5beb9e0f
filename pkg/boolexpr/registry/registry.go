package registry

import (
	"container/list"
	"errors"
	"sync"
)

// ErrLoadAborted is returned to callers waiting on a load whose function
// panicked.
var ErrLoadAborted = errors.New("registry: load aborted")

// entry is a registry entry stored in the recency list.
type entry[K comparable, V any] struct {
	key   K
	value V
}

// call is an in-flight GetOrLoad for one key.
type call[V any] struct {
	done chan struct{}
	val  V
	err  error
}

// Registry is a thread-safe registry for values indexed by key.
//
// A registry created with a positive capacity evicts the least recently
// used entry once full. A capacity of zero or less means unbounded.
type Registry[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	ll       *list.List
	entries  map[K]*list.Element
	loading  map[K]*call[V]
}

// New creates a new empty, unbounded registry.
func New[K comparable, V any]() *Registry[K, V] {
	return NewBounded[K, V](0)
}

// NewBounded creates a registry holding at most capacity entries.
func NewBounded[K comparable, V any](capacity int) *Registry[K, V] {
	if capacity < 0 {
		capacity = 0
	}
	return &Registry[K, V]{
		capacity: capacity,
		ll:       list.New(),
		entries:  make(map[K]*list.Element),
		loading:  make(map[K]*call[V]),
	}
}

// Register adds or updates a value and marks it most recently used.
func (r *Registry[K, V]) Register(key K, value V) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storeLocked(key, value)
}

// Get returns the value for a key and whether it exists.
// A hit marks the entry most recently used.
func (r *Registry[K, V]) Get(key K) (V, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getLocked(key)
}

// Clear removes every entry. Loads already in flight still store their
// result when they finish.
func (r *Registry[K, V]) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ll.Init()
	r.entries = make(map[K]*list.Element)
}

// Len returns the number of entries in the registry.
func (r *Registry[K, V]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// GetOrLoad returns the value for key, calling load to create it if it is
// not present. load runs without the registry lock held, and concurrent
// callers asking for the same key wait for the one in-flight load instead
// of starting their own. A failed load stores nothing; its error goes to
// the caller that ran it and to everyone waiting on it.
//
// loaded reports whether the value came from the registry or from another
// caller's load rather than from this call's load.
func (r *Registry[K, V]) GetOrLoad(key K, load func() (V, error)) (v V, loaded bool, err error) {
	r.mu.Lock()
	if v, ok := r.getLocked(key); ok {
		r.mu.Unlock()
		return v, true, nil
	}
	if c, ok := r.loading[key]; ok {
		r.mu.Unlock()
		<-c.done
		if c.err != nil {
			var zero V
			return zero, false, c.err
		}
		return c.val, true, nil
	}
	c := &call[V]{done: make(chan struct{}), err: ErrLoadAborted}
	r.loading[key] = c
	r.mu.Unlock()

	r.runLoad(key, c, load)
	if c.err != nil {
		var zero V
		return zero, false, c.err
	}
	return c.val, false, nil
}

// runLoad calls load and publishes its result. If load panics, waiters see
// ErrLoadAborted and the panic continues in the calling goroutine.
func (r *Registry[K, V]) runLoad(key K, c *call[V], load func() (V, error)) {
	defer func() {
		r.mu.Lock()
		delete(r.loading, key)
		if c.err == nil {
			r.storeLocked(key, c.val)
		}
		r.mu.Unlock()
		close(c.done)
	}()
	c.val, c.err = load()
}

func (r *Registry[K, V]) getLocked(key K) (V, bool) {
	el, ok := r.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	r.ll.MoveToFront(el)
	return el.Value.(*entry[K, V]).value, true
}

// storeLocked inserts or replaces key. Must be called with r.mu held.
func (r *Registry[K, V]) storeLocked(key K, value V) {
	if el, ok := r.entries[key]; ok {
		el.Value.(*entry[K, V]).value = value
		r.ll.MoveToFront(el)
		return
	}
	if r.capacity > 0 && r.ll.Len() >= r.capacity {
		r.evictLocked()
	}
	r.entries[key] = r.ll.PushFront(&entry[K, V]{key: key, value: value})
}

// evictLocked removes the least recently used entry.
func (r *Registry[K, V]) evictLocked() {
	el := r.ll.Back()
	if el == nil {
		return
	}
	r.ll.Remove(el)
	delete(r.entries, el.Value.(*entry[K, V]).key)
}
