/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"reflect"
	"runtime"
	"sync"
	"unsafe"
	"weak"

	capstore "github.com/suparena/capstore"

	"github.com/suparena/capstore/errors"
)

// weakStore holds pointer subjects without keeping them alive. Entries are
// keyed by the subject's address; a weak reference plus a runtime cleanup
// make the entry vanish once nothing else references the subject, so
// publishing a composition never leaks the subject.
//
// The unsafe conversions below exist only to form a typed weak reference
// and cleanup target from an `any` subject; the pointer is never
// dereferenced.
type weakStore struct {
	mu      sync.RWMutex
	entries map[uintptr]*weakEntry
}

type weakEntry struct {
	ref  weak.Pointer[byte]
	comp *capstore.Composition
}

func newWeakStore() *weakStore {
	return &weakStore{entries: make(map[uintptr]*weakEntry)}
}

func (s *weakStore) Put(key any, c *capstore.Composition) error {
	rv := reflect.ValueOf(key)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.NewValidationError("subject", "reference store requires a non-nil pointer subject")
	}
	p := (*byte)(rv.UnsafePointer())
	addr := rv.Pointer()
	e := &weakEntry{ref: weak.Make(p), comp: c}
	s.mu.Lock()
	s.entries[addr] = e
	s.mu.Unlock()
	// The cleanup must not capture p, or the subject would stay reachable.
	runtime.AddCleanup(p, func(a uintptr) { s.drop(a, e) }, addr)
	return nil
}

func (s *weakStore) Get(key any) (*capstore.Composition, bool) {
	rv := reflect.ValueOf(key)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return nil, false
	}
	addr := rv.Pointer()
	s.mu.RLock()
	e, ok := s.entries[addr]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	// Guard against address reuse: a dead or redirected weak reference
	// means the registered subject is gone even though its address is
	// occupied again. The cleanup will remove the stale entry.
	v := e.ref.Value()
	if v == nil || unsafe.Pointer(v) != rv.UnsafePointer() {
		return nil, false
	}
	return e.comp, true
}

func (s *weakStore) Delete(key any) bool {
	rv := reflect.ValueOf(key)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return false
	}
	addr := rv.Pointer()
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[addr]
	if ok {
		delete(s.entries, addr)
	}
	return ok
}

// Len may transiently include entries whose subject has been collected but
// whose cleanup has not yet run.
func (s *weakStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *weakStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[uintptr]*weakEntry)
}

// drop removes the entry for addr only if it is still the same generation;
// a re-registration at a reused address must survive the old cleanup.
func (s *weakStore) drop(addr uintptr, e *weakEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.entries[addr]; ok && current == e {
		delete(s.entries, addr)
	}
}
