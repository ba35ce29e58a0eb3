/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"reflect"
	"sync"

	capstore "github.com/suparena/capstore"

	"github.com/suparena/capstore/errors"
)

// Registry is a process-wide directory from subject identity to its built
// Composition. Pointer subjects live in a weak store and disappear once the
// subject is collected; every other comparable subject lives in a strong
// store until explicit removal. All operations are safe for concurrent use.
type Registry struct {
	provider Provider
}

// New returns a Registry backed by the supplied provider.
func New(p Provider) *Registry {
	if p == nil {
		p = DefaultProvider()
	}
	return &Registry{provider: p}
}

var (
	defaultMu  sync.RWMutex
	defaultReg = New(DefaultProvider())
)

// Default returns the shared process-wide registry.
func Default() *Registry {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultReg
}

// SetDefault replaces the shared registry, typically to install an
// alternative provider for tests. It returns the previous registry.
func SetDefault(r *Registry) *Registry {
	if r == nil {
		r = New(DefaultProvider())
	}
	defaultMu.Lock()
	defer defaultMu.Unlock()
	prev := defaultReg
	defaultReg = r
	return prev
}

// ValueCount returns the number of value subjects currently held.
func (r *Registry) ValueCount() int {
	return r.provider.ValueStore().Len()
}

// ClearValues drops every value-subject entry. Reference-subject entries
// are untouched; they evict themselves.
func (r *Registry) ClearValues() {
	r.provider.ValueStore().Clear()
}

// ReferenceCount returns the number of reference-subject entries, possibly
// including subjects already collected but not yet cleaned up.
func (r *Registry) ReferenceCount() int {
	return r.provider.ReferenceStore().Len()
}

// classify decides which backing store owns subject's identity.
func classify(subject any) (isRef bool, err error) {
	if subject == nil {
		return false, errors.NewValidationError("subject", "subject must not be nil")
	}
	rv := reflect.ValueOf(subject)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return false, errors.NewValidationError("subject", "subject pointer must not be nil")
		}
		return true, nil
	}
	if !rv.Type().Comparable() {
		return false, errors.NewValidationError("subject",
			"value subjects must be comparable to serve as registry keys")
	}
	return false, nil
}

// BuildAndRegister builds b and publishes the resulting Composition under
// the subject's identity in one step.
func BuildAndRegister[S comparable](r *Registry, b *capstore.Builder[S]) (*capstore.Composition, error) {
	c, err := b.Build()
	if err != nil {
		return nil, err
	}
	if err := Register(r, b.Subject(), c); err != nil {
		return nil, err
	}
	return c, nil
}

// Register publishes a pre-built Composition under subject's identity,
// replacing any existing entry.
func Register[S comparable](r *Registry, subject S, c *capstore.Composition) error {
	if c == nil {
		return errors.NewValidationError("composition", "composition must not be nil")
	}
	isRef, err := classify(subject)
	if err != nil {
		return err
	}
	if isRef {
		return r.provider.ReferenceStore().Put(subject, c)
	}
	return r.provider.ValueStore().Put(subject, c)
}

// TryFind looks up the Composition registered for subject. Absence is the
// expected path and is reported via the boolean, never an error.
func TryFind[S comparable](r *Registry, subject S) (*capstore.Composition, bool) {
	isRef, err := classify(subject)
	if err != nil {
		return nil, false
	}
	if isRef {
		return r.provider.ReferenceStore().Get(subject)
	}
	return r.provider.ValueStore().Get(subject)
}

// FindOrDefault returns the Composition registered for subject, or nil.
func FindOrDefault[S comparable](r *Registry, subject S) *capstore.Composition {
	c, _ := TryFind(r, subject)
	return c
}

// FindRequired returns the Composition registered for subject or fails
// with an error naming the subject's type.
func FindRequired[S comparable](r *Registry, subject S) (*capstore.Composition, error) {
	if c, ok := TryFind(r, subject); ok {
		return c, nil
	}
	return nil, errors.NewSubjectNotFound(reflect.TypeOf(subject))
}

// Remove evicts subject's entry and reports whether one existed.
func Remove[S comparable](r *Registry, subject S) bool {
	isRef, err := classify(subject)
	if err != nil {
		return false
	}
	if isRef {
		return r.provider.ReferenceStore().Delete(subject)
	}
	return r.provider.ValueStore().Delete(subject)
}
