/*
Copyright 2025 The Zonegate Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package nscache is the namespaced read cache shared by all gateway
// accounts. Entries live under a namespace derived from (provider kind,
// credential identity, account scope); invalidation is scoped so one
// tenant's writes never evict another tenant's entries.
package nscache

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mitchellh/hashstructure/v2"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/zonegate/zonegate/dnsmodel"
)

// Namespace isolates one (kind, credential, account) binding.
type Namespace string

// Scope selects what a write invalidates inside a namespace.
type Scope string

const (
	// ScopeZones clears zone listings.
	ScopeZones Scope = "zones"
	// ScopeRecords clears record listings of one zone.
	ScopeRecords Scope = "records"
	// ScopeAll clears every key in the namespace, including the lines
	// and min-TTL entries that survive narrower scopes.
	ScopeAll Scope = "all"
)

const cleanupInterval = time.Minute

// Cache is a TTL store with per-key single-flight loading and a reverse
// index from namespace to live keys for O(namespace) invalidation.
type Cache struct {
	store *gocache.Cache
	group singleflight.Group

	mu   sync.Mutex
	keys map[Namespace]map[string]struct{}
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{
		store: gocache.New(gocache.NoExpiration, cleanupInterval),
		keys:  map[Namespace]map[string]struct{}{},
	}
}

// NamespaceFor derives the cache namespace for an account binding. A
// stable CredentialKey replaces the raw secrets in the hash input so key
// material never feeds the derivation when an identifier exists.
func NamespaceFor(acct dnsmodel.Account) Namespace {
	identity := struct {
		Kind          string
		CredentialKey string
		Secrets       map[string]string
		AccountID     string
	}{
		Kind:      string(acct.Kind),
		AccountID: acct.AccountID,
	}
	if acct.CredentialKey != "" {
		identity.CredentialKey = acct.CredentialKey
	} else {
		identity.Secrets = acct.Secrets
	}

	h, err := hashstructure.Hash(identity, hashstructure.FormatV2, nil)
	if err != nil {
		// Hashing strings and string maps cannot fail; keep a usable
		// namespace if it ever does.
		return Namespace(string(acct.Kind) + "/" + acct.CredentialKey + "/" + acct.AccountID)
	}
	return Namespace(fmt.Sprintf("%s/%x", acct.Kind, h))
}

// GlobalKey builds a key for namespace-wide data such as zone listings.
// The qualifier distinguishes variants (a query fingerprint, a zone
// argument of a lines lookup).
func GlobalKey(ns Namespace, name, qualifier string) string {
	return string(ns) + "|" + name + "|" + qualifier
}

// ZoneKey builds a key scoped to one zone's records.
func ZoneKey(ns Namespace, zoneID, name, qualifier string) string {
	return string(ns) + "|zone|" + zoneID + "|" + name + "|" + qualifier
}

// GetOrLoad returns the value under key, running load at most once across
// concurrent callers on a miss. Successful loads are cached for ttl;
// failures cache nothing. A non-positive ttl bypasses the cache entirely.
func GetOrLoad[T any](c *Cache, ns Namespace, key string, ttl time.Duration, load func() (T, error)) (T, error) {
	if ttl <= 0 {
		return load()
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		if cached, ok := c.store.Get(key); ok {
			cacheEventsTotal.WithLabelValues("hit").Inc()
			return cached, nil
		}
		cacheEventsTotal.WithLabelValues("miss").Inc()
		loaded, err := load()
		if err != nil {
			return nil, err
		}
		c.put(ns, key, loaded, ttl)
		return loaded, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

func (c *Cache) put(ns Namespace, key string, value any, ttl time.Duration) {
	c.store.Set(key, value, ttl)
	c.mu.Lock()
	defer c.mu.Unlock()
	set, ok := c.keys[ns]
	if !ok {
		set = map[string]struct{}{}
		c.keys[ns] = set
	}
	set[key] = struct{}{}
}

// Invalidate removes the keys of one namespace matching scope. For
// ScopeRecords, zoneID selects the zone; an empty zoneID clears the
// record listings of every zone in the namespace.
func (c *Cache) Invalidate(ns Namespace, scope Scope, zoneID string) {
	var prefixes []string
	switch scope {
	case ScopeZones:
		prefixes = []string{GlobalKey(ns, "zones", "")}
	case ScopeRecords:
		if zoneID != "" {
			prefixes = []string{string(ns) + "|zone|" + zoneID + "|"}
		} else {
			prefixes = []string{string(ns) + "|zone|"}
		}
	case ScopeAll:
		prefixes = []string{string(ns) + "|"}
	default:
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	set := c.keys[ns]
	for key := range set {
		for _, p := range prefixes {
			if strings.HasPrefix(key, p) {
				c.store.Delete(key)
				delete(set, key)
				cacheEventsTotal.WithLabelValues("evict").Inc()
				break
			}
		}
	}
	if len(set) == 0 {
		delete(c.keys, ns)
	}
}

// Flush drops everything across all namespaces.
func (c *Cache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.Flush()
	c.keys = map[Namespace]map[string]struct{}{}
	cacheEventsTotal.WithLabelValues("flush").Inc()
}

// Len reports the number of live entries, expired ones included until the
// janitor runs.
func (c *Cache) Len() int {
	return c.store.ItemCount()
}
