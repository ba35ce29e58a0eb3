/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package capstore

import "reflect"

// Ordered is implemented by capabilities that carry an explicit sort key.
// Capabilities that do not implement it sort with key 0. Lower keys sort
// first; ties preserve insertion order.
type Ordered interface {
	CapabilityOrder() int
}

// Primary marks a capability as a candidate for the subject's primary slot.
// A Composition holds at most one primary instance; registering two or more
// Primary-marked capabilities fails at Build.
type Primary interface {
	PrimaryCapability()
}

// Tagged is implemented by capabilities that expose opaque tag values for
// secondary lookups. Tags must be comparable values; they are index keys
// only and carry no ordering semantics.
type Tagged interface {
	CapabilityTags() []any
}

// As returns the registration-type token for T, for use with AddAs:
//
//	b.AddAs(cap, capstore.As[Renderer](), capstore.As[Validator]())
func As[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
