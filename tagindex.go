/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package capstore

import "reflect"

// tagIndex is the optional secondary structure over a built Composition.
// byTag preserves global order, so filtering an indexed list by bucket
// membership yields bucket order without re-sorting. When complete is
// false (the Auto strategy indexes only frequent tags), an absent tag
// falls back to a linear scan instead of meaning "no matches".
type tagIndex struct {
	byTag    map[any][]*record
	complete bool
}

// buildTagIndex constructs the index mandated by the options, or nil when
// the strategy (or the Auto thresholds) call for pure linear scans.
func buildTagIndex(opts Options, all []*record) *tagIndex {
	switch opts.TagIndexStrategy {
	case IndexEager:
		return indexRecords(all, 1, true)
	case IndexAuto:
		if len(all) < opts.AutoIndexThreshold {
			return nil
		}
		return indexRecords(all, opts.IndexMinFrequency, false)
	default:
		return nil
	}
}

func indexRecords(all []*record, minFrequency int, complete bool) *tagIndex {
	if minFrequency < 1 {
		minFrequency = 1
	}
	freq := make(map[any]int)
	for _, r := range all {
		for i, tag := range r.tags {
			if duplicateTag(r.tags, i) {
				continue
			}
			freq[tag]++
		}
	}
	idx := &tagIndex{byTag: make(map[any][]*record), complete: complete}
	for _, r := range all {
		for i, tag := range r.tags {
			if duplicateTag(r.tags, i) {
				continue
			}
			if freq[tag] >= minFrequency {
				idx.byTag[tag] = append(idx.byTag[tag], r)
			}
		}
	}
	return idx
}

// duplicateTag reports whether tags[i] already occurred earlier in tags,
// so a capability repeating a tag is still indexed once.
func duplicateTag(tags []any, i int) bool {
	for _, prior := range tags[:i] {
		if prior == tags[i] {
			return true
		}
	}
	return false
}

// validTagKey rejects tag arguments that can never have been registered:
// nil and non-comparable values. Registration already enforces both, so
// such a query simply has no matches.
func validTagKey(tag any) bool {
	return tag != nil && reflect.TypeOf(tag).Comparable()
}

// GetAllByTag returns every T-typed capability whose tag set contains tag,
// in bucket order. Results are identical to a linear scan of T's bucket
// regardless of indexing strategy; the index only accelerates.
func GetAllByTag[T any](c *Composition, tag any) []T {
	if !validTagKey(tag) {
		return nil
	}
	t := As[T]()
	bucket := c.buckets[t]
	if len(bucket) == 0 {
		return nil
	}
	if c.index != nil {
		if list, ok := c.index.byTag[tag]; ok {
			var out []T
			for _, r := range list {
				if _, in := r.types[t]; in {
					out = append(out, r.value.(T))
				}
			}
			return out
		}
		if c.index.complete {
			return nil
		}
	}
	var out []T
	for _, r := range bucket {
		if r.hasTag(tag) {
			out = append(out, r.value.(T))
		}
	}
	return out
}

// GetAllByTags returns the intersection: every T-typed capability whose
// tag set is a superset of tags, in bucket order, computed without
// re-sorting. An empty tag list matches the whole bucket.
func GetAllByTags[T any](c *Composition, tags ...any) []T {
	if len(tags) == 0 {
		return GetAll[T](c)
	}
	for _, tag := range tags {
		if !validTagKey(tag) {
			return nil
		}
	}
	t := As[T]()
	bucket := c.buckets[t]
	if len(bucket) == 0 {
		return nil
	}
	if c.index != nil {
		if list, ok := c.index.byTag[tags[0]]; ok {
			var out []T
			for _, r := range list {
				if _, in := r.types[t]; !in {
					continue
				}
				if r.hasAllTags(tags[1:]) {
					out = append(out, r.value.(T))
				}
			}
			return out
		}
		if c.index.complete {
			return nil
		}
	}
	var out []T
	for _, r := range bucket {
		if r.hasAllTags(tags) {
			out = append(out, r.value.(T))
		}
	}
	return out
}

// AllByTag returns every capability, across all buckets, whose tag set
// contains tag, in global order.
func (c *Composition) AllByTag(tag any) []any {
	if !validTagKey(tag) {
		return sharedEmpty
	}
	if c.index != nil {
		if list, ok := c.index.byTag[tag]; ok {
			if len(list) == 0 {
				return sharedEmpty
			}
			return c.valuesOf(list)
		}
		if c.index.complete {
			return sharedEmpty
		}
	}
	out := []any{}
	for _, r := range c.all {
		if r.hasTag(tag) {
			out = append(out, r.value)
		}
	}
	return out
}

// AllTags enumerates the distinct tag values present anywhere in the
// composition, in first-appearance (global) order. Discovery surface, not
// a hot path: it always scans.
func (c *Composition) AllTags() []any {
	seen := make(map[any]struct{})
	out := []any{}
	for _, r := range c.all {
		for _, tag := range r.tags {
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}
			out = append(out, tag)
		}
	}
	return out
}

// TagsOfType enumerates the distinct tag values whose runtime type is
// exactly T, in first-appearance order.
func TagsOfType[T comparable](c *Composition) []T {
	want := As[T]()
	seen := make(map[T]struct{})
	var out []T
	for _, r := range c.all {
		for _, tag := range r.tags {
			if reflect.TypeOf(tag) != want {
				continue
			}
			v := tag.(T)
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}
