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

package gateway

import (
	"context"
	"strings"

	"github.com/bluele/gcache"

	"github.com/zonegate/zonegate/dnsmodel"
	"github.com/zonegate/zonegate/provider"
)

const (
	resolverCacheSize = 512
	scanPageSize      = 100
	// maxScanPages bounds the listing walk so a vendor that keeps
	// returning full pages cannot spin the resolver forever.
	maxScanPages = 200
)

// zoneResolver turns zone names into the vendor's zone handle for
// adapters that key their record APIs by an opaque ID. Resolved pairs are
// kept in a bidirectional LRU per adapter binding, so repeated operations
// on the same zone list the vendor's zones once.
type zoneResolver struct {
	adapter provider.Provider
	caps    dnsmodel.Capabilities

	byName gcache.Cache
	byID   gcache.Cache
}

func newZoneResolver(adapter provider.Provider, caps dnsmodel.Capabilities) *zoneResolver {
	return &zoneResolver{
		adapter: adapter,
		caps:    caps,
		byName:  gcache.New(resolverCacheSize).LRU().Build(),
		byID:    gcache.New(resolverCacheSize).LRU().Build(),
	}
}

// resolve returns the vendor zone handle for the input. Inputs pass
// through unchanged when the vendor accepts zone names directly, and when
// the input cannot be a zone name at all: purely numeric handles and
// dot-free strings (vendor IDs never contain dots, names always do).
func (r *zoneResolver) resolve(ctx context.Context, input string) (string, error) {
	if !r.caps.RequiresZoneID || input == "" || allDigits(input) || !strings.Contains(input, ".") {
		return input, nil
	}

	name := provider.NormalizeName(input)
	if id, err := r.byName.Get(name); err == nil {
		return id.(string), nil
	}
	if _, err := r.byID.Get(input); err == nil {
		return input, nil
	}

	for page := 1; page <= maxScanPages; page++ {
		list, err := r.adapter.Zones(ctx, dnsmodel.ZoneQuery{Page: page, PageSize: scanPageSize})
		if err != nil {
			return "", err
		}
		for _, z := range list.Zones {
			zoneName := provider.NormalizeName(z.Name)
			r.remember(zoneName, z.ID)
			if zoneName == name || z.ID == input {
				return z.ID, nil
			}
		}
		if len(list.Zones) < scanPageSize {
			break
		}
		if list.Total > 0 && page*scanPageSize >= list.Total {
			break
		}
	}
	return "", dnsmodel.NewErrorf(dnsmodel.ErrZoneNotFound, "zone %q not found", input)
}

func (r *zoneResolver) remember(name, id string) {
	_ = r.byName.Set(name, id)
	_ = r.byID.Set(id, name)
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
