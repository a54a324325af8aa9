// Package kv provides a small generic map guarded by a mutex.
package kv

import "sync"

// Store is a concurrency-safe map. The zero value is not usable; call New.
type Store[K comparable, V any] struct {
	mu   sync.RWMutex
	data map[K]V
}

func New[K comparable, V any]() *Store[K, V] {
	return &Store[K, V]{data: make(map[K]V)}
}

func (s *Store[K, V]) Get(key K) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

func (s *Store[K, V]) Set(key K, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

func (s *Store[K, V]) Delete(key K) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
}

// Update replaces the value under key with fn's result while holding the
// lock. ok reports whether key was present; returning keep=false deletes it.
func (s *Store[K, V]) Update(key K, fn func(v V, ok bool) (next V, keep bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.data[key]
	next, keep := fn(v, ok)
	if keep {
		s.data[key] = next
	} else {
		delete(s.data, key)
	}
}

// Range calls fn for each entry until fn returns false. fn must not call
// back into the store.
func (s *Store[K, V]) Range(fn func(K, V) bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for k, v := range s.data {
		if !fn(k, v) {
			return
		}
	}
}

// Keys returns a snapshot of the keys in no particular order.
func (s *Store[K, V]) Keys() []K {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]K, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys
}

func (s *Store[K, V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func (s *Store[K, V]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.data)
}
