/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package capstore

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"

	"github.com/suparena/capstore/errors"
)

// record is one registered capability instance. The same record is shared
// across every bucket its registration-type set names, so removal and
// identity checks operate on the instance, not per-bucket copies.
type record struct {
	value  any
	order  int
	seq    int
	tags   []any
	marked bool
	types  map[reflect.Type]struct{}
}

func (r *record) hasTag(tag any) bool {
	for _, t := range r.tags {
		if t == tag {
			return true
		}
	}
	return false
}

func (r *record) hasAllTags(tags []any) bool {
	for _, t := range tags {
		if !r.hasTag(t) {
			return false
		}
	}
	return true
}

// Builder accumulates capability registrations for one subject of type S.
// It is one-shot: Build succeeds at most once, and any use afterwards
// fails. Builders are not safe for concurrent use; concurrent mutation is
// expected to surface as the spent-builder error, nondeterministically.
type Builder[S comparable] struct {
	subject    S
	opts       Options
	spent      bool
	seq        int
	recs       []*record
	buckets    map[reflect.Type][]*record
	primary    any
	primarySet bool
}

// New returns a Builder for subject with default options.
func New[S comparable](subject S) *Builder[S] {
	return NewWith(subject, DefaultOptions())
}

// NewWith returns a Builder for subject using the supplied build options.
func NewWith[S comparable](subject S, opts Options) *Builder[S] {
	return &Builder[S]{
		subject: subject,
		opts:    opts.normalized(),
		buckets: make(map[reflect.Type][]*record),
	}
}

// Subject returns the subject this builder accumulates capabilities for.
func (b *Builder[S]) Subject() S {
	return b.subject
}

// SubjectType returns the declared subject type S.
func (b *Builder[S]) SubjectType() reflect.Type {
	return As[S]()
}

// Add registers capability under its own concrete runtime type only. Retrieval by
// any other type the capability happens to implement is deliberately not
// possible; use AddAs to name contracts explicitly.
func (b *Builder[S]) Add(capability any) error {
	if b.spent {
		return errors.NewSpentBuilder(b.SubjectType(), "Add")
	}
	rt, err := capabilityType(capability)
	if err != nil {
		return err
	}
	return b.register(capability, rt, []reflect.Type{rt})
}

// AddAs registers capability under the supplied registration types. The set must
// be non-empty and every type must be able to hold the capability's runtime
// type; violations fail eagerly, before Build.
func (b *Builder[S]) AddAs(capability any, as ...reflect.Type) error {
	if b.spent {
		return errors.NewSpentBuilder(b.SubjectType(), "AddAs")
	}
	rt, err := capabilityType(capability)
	if err != nil {
		return err
	}
	if len(as) == 0 {
		return errors.NewContractError(rt, nil, "registration type set must not be empty")
	}
	for _, t := range as {
		if t == nil {
			return errors.NewContractError(rt, nil, "nil registration type")
		}
		if !rt.AssignableTo(t) {
			return errors.NewContractError(rt, t, "capability type does not satisfy it")
		}
	}
	return b.register(capability, rt, as)
}

// TryAdd registers capability under its concrete type unless that type already has
// a registration. It reports whether the capability was added, enabling
// idempotent assembly from independent modules.
func (b *Builder[S]) TryAdd(capability any) (bool, error) {
	if b.spent {
		return false, errors.NewSpentBuilder(b.SubjectType(), "TryAdd")
	}
	rt, err := capabilityType(capability)
	if err != nil {
		return false, err
	}
	if len(b.buckets[rt]) > 0 {
		return false, nil
	}
	return true, b.register(capability, rt, []reflect.Type{rt})
}

// TryAddAs registers capability under the supplied types only when none of them
// already has a registration; a partial overlap is a no-op so buckets stay
// coherent. It reports whether the capability was added.
func (b *Builder[S]) TryAddAs(capability any, as ...reflect.Type) (bool, error) {
	if b.spent {
		return false, errors.NewSpentBuilder(b.SubjectType(), "TryAddAs")
	}
	rt, err := capabilityType(capability)
	if err != nil {
		return false, err
	}
	if len(as) == 0 {
		return false, errors.NewContractError(rt, nil, "registration type set must not be empty")
	}
	for _, t := range as {
		if t == nil {
			return false, errors.NewContractError(rt, nil, "nil registration type")
		}
		if !rt.AssignableTo(t) {
			return false, errors.NewContractError(rt, t, "capability type does not satisfy it")
		}
	}
	for _, t := range as {
		if len(b.buckets[t]) > 0 {
			return false, nil
		}
	}
	return true, b.register(capability, rt, as)
}

// SetPrimary designates capability as the subject's primary capability. It fails
// if a primary is already designated; use ReplacePrimary for an explicit
// replace. The primary slot is independent of bucket registration: a
// primary that should also be queryable by type must be Add-ed as well.
func (b *Builder[S]) SetPrimary(capability any) error {
	if b.spent {
		return errors.NewSpentBuilder(b.SubjectType(), "SetPrimary")
	}
	if _, err := capabilityType(capability); err != nil {
		return err
	}
	if b.primarySet {
		return fmt.Errorf("subject %s: %w", b.SubjectType(), errors.ErrPrimarySet)
	}
	b.primary = capability
	b.primarySet = true
	return nil
}

// ReplacePrimary designates capability as the primary capability, atomically
// replacing any previous designation.
func (b *Builder[S]) ReplacePrimary(capability any) error {
	if b.spent {
		return errors.NewSpentBuilder(b.SubjectType(), "ReplacePrimary")
	}
	if _, err := capabilityType(capability); err != nil {
		return err
	}
	b.primary = capability
	b.primarySet = true
	return nil
}

// ClearPrimary clears the explicit primary slot. Primary-marked capabilities
// registered via Add/AddAs are unaffected.
func (b *Builder[S]) ClearPrimary() error {
	if b.spent {
		return errors.NewSpentBuilder(b.SubjectType(), "ClearPrimary")
	}
	b.primary = nil
	b.primarySet = false
	return nil
}

// RemoveWhere removes every registered instance matching pred from every
// bucket it is registered under. It returns the number of instances removed.
func (b *Builder[S]) RemoveWhere(pred func(capability any) bool) (int, error) {
	if b.spent {
		return 0, errors.NewSpentBuilder(b.SubjectType(), "RemoveWhere")
	}
	if pred == nil {
		return 0, errors.NewValidationError("pred", "predicate must not be nil")
	}
	doomed := make(map[*record]struct{})
	for _, r := range b.recs {
		if pred(r.value) {
			doomed[r] = struct{}{}
		}
	}
	if len(doomed) == 0 {
		return 0, nil
	}
	b.recs = slices.DeleteFunc(b.recs, func(r *record) bool {
		_, ok := doomed[r]
		return ok
	})
	for t, bucket := range b.buckets {
		bucket = slices.DeleteFunc(bucket, func(r *record) bool {
			_, ok := doomed[r]
			return ok
		})
		if len(bucket) == 0 {
			delete(b.buckets, t)
		} else {
			b.buckets[t] = bucket
		}
	}
	return len(doomed), nil
}

// Has reports whether any capability is registered under t.
func (b *Builder[S]) Has(t reflect.Type) bool {
	return len(b.buckets[t]) > 0
}

// Count returns the number of capabilities registered under t.
func (b *Builder[S]) Count(t reflect.Type) int {
	return len(b.buckets[t])
}

// TotalCount returns the number of distinct registered instances.
func (b *Builder[S]) TotalCount() int {
	return len(b.recs)
}

// Build freezes the accumulated registrations into an immutable
// Composition: per-bucket and global ordering is computed once, the
// primary invariant is validated, and the tag index is attached per the
// configured strategy. The builder is permanently spent afterwards; a
// second Build, like any later mutation, fails.
func (b *Builder[S]) Build() (*Composition, error) {
	if b.spent {
		return nil, errors.NewSpentBuilder(b.SubjectType(), "Build")
	}
	b.spent = true

	primary, hasPrimary, err := b.resolvePrimary()
	if err != nil {
		return nil, err
	}

	for _, r := range b.recs {
		if o, ok := r.value.(Ordered); ok {
			r.order = o.CapabilityOrder()
		}
	}

	byRank := func(a, c *record) int {
		if n := cmp.Compare(a.order, c.order); n != 0 {
			return n
		}
		return cmp.Compare(a.seq, c.seq)
	}

	all := slices.Clone(b.recs)
	slices.SortFunc(all, byRank)
	buckets := make(map[reflect.Type][]*record, len(b.buckets))
	for t, bucket := range b.buckets {
		sorted := slices.Clone(bucket)
		slices.SortFunc(sorted, byRank)
		buckets[t] = sorted
	}

	c := &Composition{
		subjectType: b.SubjectType(),
		buckets:     buckets,
		all:         all,
		primary:     primary,
		hasPrimary:  hasPrimary,
		opts:        b.opts,
	}
	c.allValues = c.valuesOf(all)
	c.index = buildTagIndex(b.opts, all)
	return c, nil
}

// resolvePrimary reconciles the explicit primary slot with Primary-marked
// registrations. More than one distinct primary candidate is an invariant
// violation named after both colliding concrete types.
func (b *Builder[S]) resolvePrimary() (any, bool, error) {
	var candidate any
	have := false
	if b.primarySet {
		candidate = b.primary
		have = true
	}
	for _, r := range b.recs {
		if !r.marked {
			continue
		}
		if !have {
			candidate = r.value
			have = true
			continue
		}
		if sameInstance(candidate, r.value) {
			continue
		}
		return nil, false, errors.NewDuplicatePrimary(
			b.SubjectType(), reflect.TypeOf(candidate), reflect.TypeOf(r.value))
	}
	return candidate, have, nil
}

func (b *Builder[S]) register(capability any, rt reflect.Type, as []reflect.Type) error {
	if tg, ok := capability.(Tagged); ok {
		for _, tag := range tg.CapabilityTags() {
			if tag == nil {
				return errors.NewContractError(rt, nil, "nil tag")
			}
			if !reflect.TypeOf(tag).Comparable() {
				return errors.NewContractError(rt, nil,
					fmt.Sprintf("tag of non-comparable type %T", tag))
			}
		}
	}
	r := &record{
		value: capability,
		seq:   b.seq,
		types: make(map[reflect.Type]struct{}, len(as)),
	}
	b.seq++
	if tg, ok := capability.(Tagged); ok {
		r.tags = slices.Clone(tg.CapabilityTags())
	}
	if _, ok := capability.(Primary); ok {
		r.marked = true
	}
	for _, t := range as {
		if _, dup := r.types[t]; dup {
			continue
		}
		r.types[t] = struct{}{}
		b.buckets[t] = append(b.buckets[t], r)
	}
	b.recs = append(b.recs, r)
	return nil
}

// capabilityType validates a capability value and returns its concrete
// runtime type.
// Typed nil pointers are rejected the same as untyped nil.
func capabilityType(capability any) (reflect.Type, error) {
	if capability == nil {
		return nil, errors.ErrNilCapability
	}
	rv := reflect.ValueOf(capability)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		if rv.IsNil() {
			return nil, errors.ErrNilCapability
		}
	}
	return rv.Type(), nil
}

// sameInstance reports whether two capability values are the same instance.
// Interface equality panics on non-comparable dynamic types, so those are
// never considered the same instance.
func sameInstance(a, b any) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta == nil || !ta.Comparable() {
		return false
	}
	return a == b
}
