/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"sync"

	capstore "github.com/suparena/capstore"
)

// strongStore holds value subjects by value equality. Entries persist until
// explicit Delete or Clear; value subjects have no reclaimable identity, so
// eviction is a caller responsibility, not a defect.
type strongStore struct {
	mu      sync.RWMutex
	entries map[any]*capstore.Composition
}

func newStrongStore() *strongStore {
	return &strongStore{entries: make(map[any]*capstore.Composition)}
}

func (s *strongStore) Put(key any, c *capstore.Composition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = c
	return nil
}

func (s *strongStore) Get(key any) (*capstore.Composition, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.entries[key]
	return c, ok
}

func (s *strongStore) Delete(key any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[key]
	if ok {
		delete(s.entries, key)
	}
	return ok
}

func (s *strongStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *strongStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[any]*capstore.Composition)
}
