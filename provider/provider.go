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

// Package provider defines the uniform adapter surface over the vendor DNS
// APIs plus the shared base every adapter embeds: typed error
// construction, retry with backoff, name/value normalization and the
// canonical client-side filter.
package provider

import (
	"context"
	"net/http"

	"github.com/zonegate/zonegate/dnsmodel"
	"github.com/zonegate/zonegate/pkg/sign"
)

// Provider is implemented by every vendor adapter. zoneID is always the
// vendor's own zone handle; callers resolve zone names through the
// gateway's resolver first. All methods are safe for concurrent use.
type Provider interface {
	Capabilities() dnsmodel.Capabilities

	// CheckAuth verifies the credentials with a cheap read call. A nil
	// error means the credentials work.
	CheckAuth(ctx context.Context) error

	Zones(ctx context.Context, q dnsmodel.ZoneQuery) (dnsmodel.ZoneList, error)
	Zone(ctx context.Context, idOrName string) (dnsmodel.Zone, error)

	Records(ctx context.Context, zoneID string, q dnsmodel.RecordQuery) (dnsmodel.RecordList, error)
	Record(ctx context.Context, zoneID, recordID string) (dnsmodel.Record, error)
	CreateRecord(ctx context.Context, zoneID string, in dnsmodel.RecordInput) (dnsmodel.Record, error)
	UpdateRecord(ctx context.Context, zoneID, recordID string, in dnsmodel.RecordInput) (dnsmodel.Record, error)
	DeleteRecord(ctx context.Context, zoneID, recordID string) error
	SetRecordStatus(ctx context.Context, zoneID, recordID string, enabled bool) error

	Lines(ctx context.Context, zoneID string) ([]dnsmodel.Line, error)
	MinTTL(ctx context.Context, zoneID string) (int, error)
}

// ZoneCreator is the optional interface of adapters whose vendor can
// register new zones.
type ZoneCreator interface {
	CreateZone(ctx context.Context, name string) (dnsmodel.Zone, error)
}

// Options carries cross-cutting construction inputs shared by all
// adapters. The zero value works for production use.
type Options struct {
	// HTTPClient is the shared transport; nil falls back to
	// http.DefaultClient.
	HTTPClient *http.Client
	// BaseURL overrides the vendor endpoint. Tests point it at fakes;
	// PowerDNS requires it since every installation is self-hosted.
	BaseURL string
	// Clock and Nonce feed the signing schemes; nil uses the system
	// sources.
	Clock sign.Clock
	Nonce sign.Nonce
	// RateLimit caps upstream calls per second when positive.
	RateLimit int
}

// ClockOrDefault returns the configured clock or the system one.
func (o Options) ClockOrDefault() sign.Clock {
	if o.Clock != nil {
		return o.Clock
	}
	return sign.DefaultClock
}

// NonceOrDefault returns the configured nonce source or the system one.
func (o Options) NonceOrDefault() sign.Nonce {
	if o.Nonce != nil {
		return o.Nonce
	}
	return sign.DefaultNonce
}
