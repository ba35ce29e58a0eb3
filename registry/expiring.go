/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	capstore "github.com/suparena/capstore"
)

// NewExpiringProvider returns a Provider whose value store evicts entries
// after ttl (with the given cleanup sweep interval), for deployments where
// value subjects churn and explicit Remove calls cannot be guaranteed.
// Reference subjects keep the default weak store; they already evict
// themselves on collection.
//
// Keys are derived from the subject's type and formatted value, which is
// collision-tolerant enough for an eviction-policy store but is why this is
// not the default provider.
func NewExpiringProvider(ttl, cleanupInterval time.Duration) Provider {
	return &provider{
		refs:   newWeakStore(),
		values: &expiringStore{cache: gocache.New(ttl, cleanupInterval)},
	}
}

type expiringStore struct {
	cache *gocache.Cache
}

func (s *expiringStore) Put(key any, c *capstore.Composition) error {
	s.cache.Set(subjectKey(key), c, gocache.DefaultExpiration)
	return nil
}

func (s *expiringStore) Get(key any) (*capstore.Composition, bool) {
	v, found := s.cache.Get(subjectKey(key))
	if !found {
		return nil, false
	}
	c, ok := v.(*capstore.Composition)
	return c, ok
}

func (s *expiringStore) Delete(key any) bool {
	k := subjectKey(key)
	if _, found := s.cache.Get(k); !found {
		return false
	}
	s.cache.Delete(k)
	return true
}

func (s *expiringStore) Len() int {
	return s.cache.ItemCount()
}

func (s *expiringStore) Clear() {
	s.cache.Flush()
}

func subjectKey(key any) string {
	return fmt.Sprintf("%T|%v", key, key)
}
