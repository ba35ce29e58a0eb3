/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	capstore "github.com/suparena/capstore"
)

// Store is one backing store of the registry. Keys are subjects: the
// reference store receives the subject pointer itself, the value store the
// subject value. Implementations must be safe for concurrent use; a
// register-then-lookup race must never observe a torn or missing read.
type Store interface {
	Put(key any, c *capstore.Composition) error
	Get(key any) (*capstore.Composition, bool)
	Delete(key any) bool
	Len() int
	Clear()
}

// Provider supplies the two backing stores behind the registry's query
// surface. Replacing it swaps storage behavior (eviction policy, test
// doubles) without changing any lookup semantics.
type Provider interface {
	ReferenceStore() Store
	ValueStore() Store
}

type provider struct {
	refs   Store
	values Store
}

func (p *provider) ReferenceStore() Store { return p.refs }
func (p *provider) ValueStore() Store     { return p.values }

// DefaultProvider wires the built-in stores: a weak store that auto-evicts
// entries once their pointer subject is collected, and a strong map that
// holds value subjects until explicit removal.
func DefaultProvider() Provider {
	return &provider{refs: newWeakStore(), values: newStrongStore()}
}

// NewProvider assembles a Provider from caller-supplied stores.
func NewProvider(refs, values Store) Provider {
	return &provider{refs: refs, values: values}
}
