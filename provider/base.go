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

package provider

import (
	"context"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/miekg/dns"
	"golang.org/x/net/idna"

	"github.com/zonegate/zonegate/dnsmodel"
)

// Retry timing. Delays grow as base·2^attempt with jitter in [0.5, 1.5)
// and never exceed the cap.
const (
	retryBaseDelay = 250 * time.Millisecond
	retryMaxDelay  = 10 * time.Second
)

// Base carries the capability descriptor and the shared behavior every
// adapter embeds. The zero value retries once and treats nothing as
// vendor-retriable.
type Base struct {
	Caps dnsmodel.Capabilities

	// Rand supplies jitter in [0, 1); tests pin it.
	Rand func() float64
	// Sleep waits between retry attempts; tests replace it to observe
	// the requested delays without waiting.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Capabilities returns a copy of the descriptor so callers cannot mutate
// the adapter's view of itself.
func (b *Base) Capabilities() dnsmodel.Capabilities {
	return b.Caps.Clone()
}

// NewError builds a typed error with retriability derived from the
// adapter's retryable vendor codes, the HTTP status and the message.
func (b *Base) NewError(kind dnsmodel.ErrorKind, vendorCode, message string, httpStatus int) *dnsmodel.Error {
	de := dnsmodel.NewError(kind, message)
	de.VendorCode = vendorCode
	de.HTTPStatus = httpStatus
	de.Retriable = b.retriable(vendorCode, httpStatus, message)
	return de
}

// VendorError is NewError with the VendorError kind, the common case for
// upstream error envelopes the adapter does not map to a narrower kind.
func (b *Base) VendorError(vendorCode, message string, httpStatus int) *dnsmodel.Error {
	return b.NewError(dnsmodel.ErrVendor, vendorCode, message, httpStatus)
}

func (b *Base) retriable(vendorCode string, httpStatus int, message string) bool {
	for _, code := range b.Caps.RetryableErrors {
		if code == vendorCode {
			return true
		}
	}
	if httpStatus != 0 && dnsmodel.RetriableHTTPStatus(httpStatus) {
		return true
	}
	return dnsmodel.RetriableNetworkMessage(message)
}

// Retry runs op up to MaxRetries+1 times. Only typed errors marked
// retriable re-run; exhaustion wraps the last failure as RetryExhausted
// with the cause kept in the envelope metadata.
func (b *Base) Retry(ctx context.Context, op func() error) error {
	attempts := b.Caps.MaxRetries + 1
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			if err := b.backoff(ctx, attempt-1); err != nil {
				return err
			}
		}
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		de, ok := dnsmodel.AsError(lastErr)
		if !ok || !de.Retriable {
			return lastErr
		}
	}

	out := dnsmodel.NewErrorf(dnsmodel.ErrRetryExhausted,
		"giving up after %d attempts: %v", attempts, lastErr)
	if de, ok := dnsmodel.AsError(lastErr); ok {
		out.VendorCode = de.VendorCode
		out.HTTPStatus = de.HTTPStatus
		out.WithMeta("cause", de)
	}
	return out
}

func (b *Base) backoff(ctx context.Context, attempt int) error {
	delay := retryBaseDelay << uint(attempt)
	if delay > retryMaxDelay || delay <= 0 {
		delay = retryMaxDelay
	}
	jitter := 0.5 + b.jitter()
	d := time.Duration(float64(delay) * jitter)
	if d > retryMaxDelay {
		d = retryMaxDelay
	}

	sleep := b.Sleep
	if sleep == nil {
		sleep = sleepContext
	}
	return sleep(ctx, d)
}

func (b *Base) jitter() float64 {
	if b.Rand != nil {
		return b.Rand()
	}
	return rand.Float64()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return dnsmodel.NewError(dnsmodel.ErrNetwork, "cancelled while backing off").
			WithMeta("cancelled", true)
	case <-timer.C:
		return nil
	}
}

// NormalizeName lowercases a DNS name, converts IDN labels to ASCII and
// strips the trailing dot.
func NormalizeName(name string) string {
	name = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(name), "."))
	if name == "" {
		return name
	}
	// The permissive profile keeps wildcard and underscore labels.
	if ascii, err := idna.ToASCII(name); err == nil && ascii != "" {
		name = ascii
	}
	return name
}

// RelName converts a canonical FQDN to the vendor-relative record name:
// the zone apex becomes "@" and children lose the zone suffix. Names that
// do not end in the zone pass through unchanged.
func RelName(fqdn, zone string) string {
	f, z := NormalizeName(fqdn), NormalizeName(zone)
	if f == "" || f == z {
		return "@"
	}
	if strings.HasSuffix(f, "."+z) {
		return strings.TrimSuffix(f, "."+z)
	}
	return f
}

// AbsName converts a vendor-relative record name back to the canonical
// FQDN under zone. Absolute inputs (already carrying the zone suffix)
// pass through normalized.
func AbsName(rel, zone string) string {
	z := NormalizeName(zone)
	rel = NormalizeName(rel)
	if rel == "" || rel == "@" {
		return z
	}
	if rel == z || strings.HasSuffix(rel, "."+z) {
		return rel
	}
	return rel + "." + z
}

// AbsDNSValue returns the value in wire FQDN form (trailing dot), for
// vendors that store CNAME/MX/NS targets that way.
func AbsDNSValue(v string) string {
	if v == "" {
		return v
	}
	return dns.Fqdn(v)
}

// TrimDNSValue strips the trailing dot from a wire-form value.
func TrimDNSValue(v string) string {
	return strings.TrimSuffix(v, ".")
}

// QuoteTXT wraps a TXT value in double quotes unless it already is.
func QuoteTXT(v string) string {
	if len(v) >= 2 && strings.HasPrefix(v, `"`) && strings.HasSuffix(v, `"`) {
		return v
	}
	return `"` + v + `"`
}

// UnquoteTXT strips one layer of surrounding double quotes.
func UnquoteTXT(v string) string {
	if len(v) >= 2 && strings.HasPrefix(v, `"`) && strings.HasSuffix(v, `"`) {
		return v[1 : len(v)-1]
	}
	return v
}

// SplitValuePriority splits "10 mail.example.com" style values into the
// leading priority and the bare value, for vendors that pack MX/SRV
// priority into the RDATA. ok is false when no priority prefix exists.
func SplitValuePriority(v string) (priority int, value string, ok bool) {
	parts := strings.SplitN(strings.TrimSpace(v), " ", 2)
	if len(parts) != 2 {
		return 0, v, false
	}
	prio, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, v, false
	}
	return prio, strings.TrimSpace(parts[1]), true
}

// JoinValuePriority packs the priority back in front of the value.
func JoinValuePriority(priority int, value string) string {
	return strconv.Itoa(priority) + " " + value
}

// NormalizeZone canonicalizes the vendor zone name.
func (b *Base) NormalizeZone(z dnsmodel.Zone) dnsmodel.Zone {
	z.Name = NormalizeName(z.Name)
	return z
}

// NormalizeRecord applies the canonical conventions to a record built from
// a vendor response: normalized names and a default line where the vendor
// supports lines but reported none.
func (b *Base) NormalizeRecord(r dnsmodel.Record) dnsmodel.Record {
	r.ZoneName = NormalizeName(r.ZoneName)
	r.Name = NormalizeName(r.Name)
	if b.Caps.SupportsLine && r.Line == "" {
		r.Line = dnsmodel.LineDefault
	}
	return r
}

// ClampPageSize bounds a requested page size to the vendor maximum.
func (b *Base) ClampPageSize(size int) int {
	if size < 1 {
		size = dnsmodel.DefaultPageSize
	}
	if b.Caps.MaxPageSize > 0 && size > b.Caps.MaxPageSize {
		return b.Caps.MaxPageSize
	}
	return size
}

// MarkPartial tags a follow-up failure (remark or status call after a
// successful record write) so callers can tell the record itself exists.
func MarkPartial(err error, recordID string) error {
	if de, ok := dnsmodel.AsError(err); ok {
		de.WithMeta("partialSuccess", true).WithMeta("recordId", recordID)
	}
	return err
}
