/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package capstore

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/suparena/capstore/errors"
)

// Composition is the immutable result of one Builder.Build: a frozen
// type → ordered-bucket map, the primary slot, and an optional tag index.
// Compositions are safe for unsynchronized concurrent reads.
type Composition struct {
	subjectType reflect.Type
	buckets     map[reflect.Type][]*record
	all         []*record
	allValues   []any
	primary     any
	hasPrimary  bool
	index       *tagIndex
	opts        Options
}

// sharedEmpty is the allocation-free result for untyped queries against
// empty or absent buckets. Callers must treat query results as read-only.
var sharedEmpty = []any{}

// SubjectType returns the declared subject type the composition was built for.
func (c *Composition) SubjectType() reflect.Type {
	return c.subjectType
}

// TotalCount returns the number of distinct capability instances.
func (c *Composition) TotalCount() int {
	return len(c.all)
}

// RegisteredTypes returns the registration types that have at least one
// capability, sorted by type name for deterministic output.
func (c *Composition) RegisteredTypes() []reflect.Type {
	types := make([]reflect.Type, 0, len(c.buckets))
	for t := range c.buckets {
		types = append(types, t)
	}
	slices.SortFunc(types, func(a, b reflect.Type) int {
		return strings.Compare(a.String(), b.String())
	})
	return types
}

// All returns every capability across all buckets in the global
// (order, insertion-sequence) order. The returned slice is shared and must
// not be modified; an empty composition always returns the same shared
// zero-length slice.
func (c *Composition) All() []any {
	if len(c.allValues) == 0 {
		return sharedEmpty
	}
	return c.allValues
}

// AllOf returns the ordered bucket for t without generics, for callers
// that only hold a reflect.Type. Absent buckets return the shared empty
// slice with no allocation.
func (c *Composition) AllOf(t reflect.Type) []any {
	bucket := c.buckets[t]
	if len(bucket) == 0 {
		return sharedEmpty
	}
	return c.valuesOf(bucket)
}

// HasType reports whether any capability is registered under t.
func (c *Composition) HasType(t reflect.Type) bool {
	return len(c.buckets[t]) > 0
}

// CountOf returns the number of capabilities registered under t.
func (c *Composition) CountOf(t reflect.Type) int {
	return len(c.buckets[t])
}

// HasPrimary reports whether the composition carries a primary capability.
func (c *Composition) HasPrimary() bool {
	return c.hasPrimary
}

// TryGetPrimary returns the primary capability if one exists.
func (c *Composition) TryGetPrimary() (any, bool) {
	return c.primary, c.hasPrimary
}

// GetPrimary returns the primary capability or fails if none exists.
func (c *Composition) GetPrimary() (any, error) {
	if !c.hasPrimary {
		return nil, errors.NewNoPrimary(c.subjectType)
	}
	return c.primary, nil
}

// Options returns the build options the composition was frozen with.
func (c *Composition) Options() Options {
	return c.opts
}

func (c *Composition) valuesOf(bucket []*record) []any {
	out := make([]any, len(bucket))
	for i, r := range bucket {
		out[i] = r.value
	}
	return out
}

// TryGet returns the first capability of T's bucket, in bucket order.
func TryGet[T any](c *Composition) (T, bool) {
	bucket := c.buckets[As[T]()]
	if len(bucket) == 0 {
		var zero T
		return zero, false
	}
	return bucket[0].value.(T), true
}

// GetRequired returns the first capability of T's bucket or fails with an
// error that enumerates the registration types actually present, so a
// missing contract registration diagnoses itself.
func GetRequired[T any](c *Composition) (T, error) {
	if v, ok := TryGet[T](c); ok {
		return v, nil
	}
	var zero T
	return zero, errors.NewMissingCapability(c.subjectType, As[T](), c.RegisteredTypes())
}

// GetAll returns T's full ordered bucket. Capabilities appear here iff T
// was a member of their registration-type set; implemented-but-unregistered
// interfaces never match. An absent bucket returns nil with no allocation.
func GetAll[T any](c *Composition) []T {
	bucket := c.buckets[As[T]()]
	if len(bucket) == 0 {
		return nil
	}
	out := make([]T, len(bucket))
	for i, r := range bucket {
		out[i] = r.value.(T)
	}
	return out
}

// Has reports whether any capability is registered under T.
func Has[T any](c *Composition) bool {
	return len(c.buckets[As[T]()]) > 0
}

// Count returns the number of capabilities registered under T.
func Count[T any](c *Composition) int {
	return len(c.buckets[As[T]()])
}

// HasPrimaryAs reports whether the primary capability exists and its
// runtime value is a T.
func HasPrimaryAs[T any](c *Composition) bool {
	if !c.hasPrimary {
		return false
	}
	_, ok := c.primary.(T)
	return ok
}

// PrimaryOrZero returns the primary capability as a T, or T's zero value
// when no primary exists or its runtime value is not a T.
func PrimaryOrZero[T any](c *Composition) T {
	var zero T
	if !c.hasPrimary {
		return zero
	}
	if v, ok := c.primary.(T); ok {
		return v
	}
	return zero
}

// RequiredPrimaryAs returns the primary capability as a T, failing when no
// primary exists or when the stored primary's runtime type is not a T.
func RequiredPrimaryAs[T any](c *Composition) (T, error) {
	var zero T
	if !c.hasPrimary {
		return zero, errors.NewNoPrimary(c.subjectType)
	}
	v, ok := c.primary.(T)
	if !ok {
		return zero, fmt.Errorf("subject %s: primary capability is %T, not %s: %w",
			c.subjectType, c.primary, As[T](), errors.ErrNotFound)
	}
	return v, nil
}
