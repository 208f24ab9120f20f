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

// Package gateway is the single entry point over the vendor adapters. It
// owns the process-wide adapter bindings, the namespaced read cache and
// the zone resolver, gates operations on the vendor's capabilities before
// anything goes upstream, and guarantees that every error crossing the
// boundary carries the typed envelope.
package gateway

import (
	"context"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/zonegate/zonegate/dnsmodel"
	"github.com/zonegate/zonegate/pkg/nscache"
	"github.com/zonegate/zonegate/provider"
	"github.com/zonegate/zonegate/registry"
)

// defaultMinTTL covers vendors and failures that report no TTL floor.
const defaultMinTTL = 600

// CredentialStore binds account names to decrypted account bindings. The
// CLI ships the file-backed pkg/credfile store; server deployments plug
// in their own persistence.
type CredentialStore interface {
	Account(name string) (dnsmodel.Account, error)
}

// Service is the facade over all provider adapters. One Service serves
// every account of the process; all methods are safe for concurrent use.
type Service struct {
	opts  provider.Options
	cache *nscache.Cache

	adapters sync.Map // nscache.Namespace -> *binding
	build    singleflight.Group

	mu    sync.RWMutex
	oplog OperationLog
}

// binding ties one account's adapter instance to its cache namespace and
// zone resolver. Bindings live for the process; the cache outlives them.
type binding struct {
	adapter  provider.Provider
	caps     dnsmodel.Capabilities
	ns       nscache.Namespace
	resolver *zoneResolver
}

func (b *binding) zoneTTL() time.Duration {
	return time.Duration(b.caps.ZoneCacheTTL) * time.Second
}

func (b *binding) recordTTL() time.Duration {
	return time.Duration(b.caps.RecordCacheTTL) * time.Second
}

// New returns a Service that builds adapters with the given options. The
// audit trail starts on the structured log; SetOperationLog swaps it.
func New(opts provider.Options) *Service {
	return &Service{opts: opts, cache: nscache.New(), oplog: logSink{}}
}

// binding returns the account's adapter binding, constructing it at most
// once across concurrent callers.
func (s *Service) binding(acct dnsmodel.Account) (*binding, error) {
	ns := nscache.NamespaceFor(acct)
	if v, ok := s.adapters.Load(ns); ok {
		return v.(*binding), nil
	}

	v, err, _ := s.build.Do(string(ns), func() (any, error) {
		if v, ok := s.adapters.Load(ns); ok {
			return v, nil
		}
		adapter, err := registry.Construct(acct.Kind, acct.Secrets, s.opts)
		if err != nil {
			return nil, err
		}
		caps := adapter.Capabilities()
		b := &binding{
			adapter:  adapter,
			caps:     caps,
			ns:       ns,
			resolver: newZoneResolver(adapter, caps),
		}
		s.adapters.Store(ns, b)
		return b, nil
	})
	if err != nil {
		return nil, normalizeError(err)
	}
	return v.(*binding), nil
}

// CheckAuth reports whether the account's credentials work upstream. It
// never returns an error; any failure counts as bad credentials.
func (s *Service) CheckAuth(ctx context.Context, acct dnsmodel.Account) bool {
	b, err := s.binding(acct)
	if err != nil {
		return false
	}
	if err := b.adapter.CheckAuth(ctx); err != nil {
		log.WithFields(log.Fields{"kind": acct.Kind, "error": err}).Debug("credential check failed")
		return false
	}
	return true
}

// Zones lists the account's zones, served from cache within the vendor's
// zone TTL.
func (s *Service) Zones(ctx context.Context, acct dnsmodel.Account, q dnsmodel.ZoneQuery) (dnsmodel.ZoneList, error) {
	b, err := s.binding(acct)
	if err != nil {
		return dnsmodel.ZoneList{}, err
	}
	q = q.Normalized()
	key := nscache.GlobalKey(b.ns, "zones", nscache.Fingerprint(q))
	list, err := nscache.GetOrLoad(s.cache, b.ns, key, b.zoneTTL(), func() (dnsmodel.ZoneList, error) {
		return b.adapter.Zones(ctx, q)
	})
	if err != nil {
		return dnsmodel.ZoneList{}, normalizeError(err)
	}
	return list, nil
}

// Zone fetches one zone by vendor handle or name, bypassing the cache.
func (s *Service) Zone(ctx context.Context, acct dnsmodel.Account, idOrName string) (dnsmodel.Zone, error) {
	b, err := s.binding(acct)
	if err != nil {
		return dnsmodel.Zone{}, err
	}
	z, err := b.adapter.Zone(ctx, idOrName)
	if err != nil {
		return dnsmodel.Zone{}, normalizeError(err)
	}
	return z, nil
}

// CreateZone registers a new zone for vendors that support it and clears
// the cached zone listings.
func (s *Service) CreateZone(ctx context.Context, acct dnsmodel.Account, name string) (z dnsmodel.Zone, err error) {
	defer func() { s.logOperation(ctx, acct, "zones.create", name, "", err) }()
	b, err := s.binding(acct)
	if err != nil {
		return dnsmodel.Zone{}, err
	}
	creator, ok := b.adapter.(provider.ZoneCreator)
	if !ok || !b.caps.SupportsZoneAdd {
		return dnsmodel.Zone{}, dnsmodel.NewErrorf(dnsmodel.ErrUnsupported,
			"%s does not support zone registration", b.caps.Label)
	}
	z, err = creator.CreateZone(ctx, name)
	if err != nil {
		return dnsmodel.Zone{}, normalizeError(err)
	}
	s.cache.Invalidate(b.ns, nscache.ScopeZones, "")
	return z, nil
}

// Records lists a zone's records, served from cache within the vendor's
// record TTL. The cache key uses the resolved zone handle so name and ID
// spellings of the same zone share one entry.
func (s *Service) Records(ctx context.Context, acct dnsmodel.Account, zone string, q dnsmodel.RecordQuery) (dnsmodel.RecordList, error) {
	b, err := s.binding(acct)
	if err != nil {
		return dnsmodel.RecordList{}, err
	}
	zoneID, err := b.resolver.resolve(ctx, zone)
	if err != nil {
		return dnsmodel.RecordList{}, normalizeError(err)
	}
	q = q.Normalized()
	key := nscache.ZoneKey(b.ns, zoneID, "records", nscache.Fingerprint(q))
	list, err := nscache.GetOrLoad(s.cache, b.ns, key, b.recordTTL(), func() (dnsmodel.RecordList, error) {
		return b.adapter.Records(ctx, zoneID, q)
	})
	if err != nil {
		return dnsmodel.RecordList{}, normalizeError(err)
	}
	return list, nil
}

// Record fetches one record, bypassing the cache.
func (s *Service) Record(ctx context.Context, acct dnsmodel.Account, zone, recordID string) (dnsmodel.Record, error) {
	b, err := s.binding(acct)
	if err != nil {
		return dnsmodel.Record{}, err
	}
	zoneID, err := b.resolver.resolve(ctx, zone)
	if err != nil {
		return dnsmodel.Record{}, normalizeError(err)
	}
	rec, err := b.adapter.Record(ctx, zoneID, recordID)
	if err != nil {
		return dnsmodel.Record{}, normalizeError(err)
	}
	return rec, nil
}

// CreateRecord writes a record and invalidates the zone's cached record
// listings.
func (s *Service) CreateRecord(ctx context.Context, acct dnsmodel.Account, zone string, in dnsmodel.RecordInput) (rec dnsmodel.Record, err error) {
	defer func() { s.logOperation(ctx, acct, "records.create", zone, rec.ID, err) }()
	b, err := s.binding(acct)
	if err != nil {
		return dnsmodel.Record{}, err
	}
	if err := b.gateRecordType(in.Type); err != nil {
		return dnsmodel.Record{}, err
	}
	in = b.applyRemarkMode(in)
	zoneID, err := b.resolver.resolve(ctx, zone)
	if err != nil {
		return dnsmodel.Record{}, normalizeError(err)
	}
	rec, err = b.adapter.CreateRecord(ctx, zoneID, in)
	if err != nil {
		if partialWrite(err) {
			s.cache.Invalidate(b.ns, nscache.ScopeRecords, zoneID)
		}
		return dnsmodel.Record{}, normalizeError(err)
	}
	s.cache.Invalidate(b.ns, nscache.ScopeRecords, zoneID)
	return rec, nil
}

// UpdateRecord rewrites a record and invalidates the zone's cached record
// listings. Unsupplied fields keep their current values.
func (s *Service) UpdateRecord(ctx context.Context, acct dnsmodel.Account, zone, recordID string, in dnsmodel.RecordInput) (rec dnsmodel.Record, err error) {
	defer func() { s.logOperation(ctx, acct, "records.update", zone, recordID, err) }()
	b, err := s.binding(acct)
	if err != nil {
		return dnsmodel.Record{}, err
	}
	if err := b.gateRecordType(in.Type); err != nil {
		return dnsmodel.Record{}, err
	}
	in = b.applyRemarkMode(in)
	zoneID, err := b.resolver.resolve(ctx, zone)
	if err != nil {
		return dnsmodel.Record{}, normalizeError(err)
	}
	rec, err = b.adapter.UpdateRecord(ctx, zoneID, recordID, in)
	if err != nil {
		if partialWrite(err) {
			s.cache.Invalidate(b.ns, nscache.ScopeRecords, zoneID)
		}
		return dnsmodel.Record{}, normalizeError(err)
	}
	s.cache.Invalidate(b.ns, nscache.ScopeRecords, zoneID)
	return rec, nil
}

// DeleteRecord removes a record and invalidates the zone's cached record
// listings.
func (s *Service) DeleteRecord(ctx context.Context, acct dnsmodel.Account, zone, recordID string) (err error) {
	defer func() { s.logOperation(ctx, acct, "records.delete", zone, recordID, err) }()
	b, err := s.binding(acct)
	if err != nil {
		return err
	}
	zoneID, err := b.resolver.resolve(ctx, zone)
	if err != nil {
		return normalizeError(err)
	}
	if err := b.adapter.DeleteRecord(ctx, zoneID, recordID); err != nil {
		return normalizeError(err)
	}
	s.cache.Invalidate(b.ns, nscache.ScopeRecords, zoneID)
	return nil
}

// SetRecordStatus enables or disables a record for vendors that support
// pausing, and invalidates the zone's cached record listings.
func (s *Service) SetRecordStatus(ctx context.Context, acct dnsmodel.Account, zone, recordID string, enabled bool) (err error) {
	op := "records.disable"
	if enabled {
		op = "records.enable"
	}
	defer func() { s.logOperation(ctx, acct, op, zone, recordID, err) }()
	b, err := s.binding(acct)
	if err != nil {
		return err
	}
	if !b.caps.SupportsStatus {
		return dnsmodel.NewErrorf(dnsmodel.ErrUnsupported,
			"%s does not support disabling records", b.caps.Label)
	}
	zoneID, err := b.resolver.resolve(ctx, zone)
	if err != nil {
		return normalizeError(err)
	}
	if err := b.adapter.SetRecordStatus(ctx, zoneID, recordID, enabled); err != nil {
		return normalizeError(err)
	}
	s.cache.Invalidate(b.ns, nscache.ScopeRecords, zoneID)
	return nil
}

// Lines returns a zone's resolution lines, served from cache within the
// vendor's zone TTL.
func (s *Service) Lines(ctx context.Context, acct dnsmodel.Account, zone string) ([]dnsmodel.Line, error) {
	b, err := s.binding(acct)
	if err != nil {
		return nil, err
	}
	zoneID, err := b.resolver.resolve(ctx, zone)
	if err != nil {
		return nil, normalizeError(err)
	}
	key := nscache.GlobalKey(b.ns, "lines", zoneID)
	lines, err := nscache.GetOrLoad(s.cache, b.ns, key, b.zoneTTL(), func() ([]dnsmodel.Line, error) {
		return b.adapter.Lines(ctx, zoneID)
	})
	if err != nil {
		return nil, normalizeError(err)
	}
	return lines, nil
}

// MinTTL returns the vendor's TTL floor for the zone. It never fails; any
// lookup error yields the 600 second default.
func (s *Service) MinTTL(ctx context.Context, acct dnsmodel.Account, zone string) int {
	b, err := s.binding(acct)
	if err != nil {
		return defaultMinTTL
	}
	zoneID, err := b.resolver.resolve(ctx, zone)
	if err != nil {
		return defaultMinTTL
	}
	key := nscache.GlobalKey(b.ns, "minttl", zoneID)
	ttl, err := nscache.GetOrLoad(s.cache, b.ns, key, b.zoneTTL(), func() (int, error) {
		return b.adapter.MinTTL(ctx, zoneID)
	})
	if err != nil || ttl <= 0 {
		return defaultMinTTL
	}
	return ttl
}

// ClearCache drops the account's cached reads for the scope. A zone name
// is resolved to the vendor handle so the slice that reads actually use
// is the one cleared.
func (s *Service) ClearCache(ctx context.Context, acct dnsmodel.Account, scope nscache.Scope, zone string) error {
	b, err := s.binding(acct)
	if err != nil {
		return err
	}
	zoneID := zone
	if scope == nscache.ScopeRecords && zone != "" {
		if zoneID, err = b.resolver.resolve(ctx, zone); err != nil {
			return normalizeError(err)
		}
	}
	s.cache.Invalidate(b.ns, scope, zoneID)
	log.WithFields(log.Fields{"kind": acct.Kind, "scope": scope, "zone": zone}).Debug("cache cleared")
	return nil
}

// ClearAllCache drops every account's cached reads.
func (s *Service) ClearAllCache() {
	s.cache.Flush()
}

// logOperation feeds the audit sink. Failed and rejected attempts are
// recorded too, so the trail shows what was tried, not only what landed.
func (s *Service) logOperation(ctx context.Context, acct dnsmodel.Account, op, zone, recordID string, err error) {
	sink := s.operationLog()
	if sink == nil {
		return
	}
	e := OperationEntry{
		Account:  acct.CredentialKey,
		Kind:     acct.Kind,
		Op:       op,
		Zone:     zone,
		RecordID: recordID,
	}
	if err != nil {
		e.Error = err.Error()
	}
	sink.LogOperation(ctx, e)
}

// gateRecordType rejects record types the vendor cannot store before any
// upstream call. Empty types pass; updates leave the type unchanged.
func (b *binding) gateRecordType(recordType string) error {
	recordType = strings.ToUpper(strings.TrimSpace(recordType))
	if recordType == "" {
		return nil
	}
	if !b.caps.SupportsRecordType(recordType) {
		return dnsmodel.NewErrorf(dnsmodel.ErrInvalidType,
			"%s does not support %s records", b.caps.Label, recordType)
	}
	return nil
}

// applyRemarkMode drops the remark for vendors with no remark storage so
// adapters never see a field they cannot honor.
func (b *binding) applyRemarkMode(in dnsmodel.RecordInput) dnsmodel.RecordInput {
	if in.Remark != nil && b.caps.RemarkMode == dnsmodel.RemarkUnsupported {
		in.Remark = nil
	}
	return in
}

// partialWrite reports whether a failed write still changed vendor state,
// in which case the cached listings are stale and must go.
func partialWrite(err error) bool {
	de, ok := dnsmodel.AsError(err)
	if !ok || de.Meta == nil {
		return false
	}
	partial, ok := de.Meta["partialSuccess"].(bool)
	return ok && partial
}

// normalizeError guarantees the typed envelope at the facade boundary.
// Adapters and transport already return *dnsmodel.Error; anything else is
// an unexpected failure surfaced as a vendor error with an unknown code.
func normalizeError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := dnsmodel.AsError(err); ok {
		return err
	}
	e := dnsmodel.NewError(dnsmodel.ErrVendor, err.Error())
	e.VendorCode = "unknown"
	return e
}
