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

package dnsmodel

// RemarkMode states how a vendor stores per-record remarks.
type RemarkMode string

const (
	// RemarkUnsupported means the vendor has no remark storage at all.
	RemarkUnsupported RemarkMode = "unsupported"
	// RemarkInline means the remark travels inside record create/update
	// payloads.
	RemarkInline RemarkMode = "inline"
	// RemarkSeparate means writing a remark takes a dedicated API call
	// after the record write.
	RemarkSeparate RemarkMode = "separate"
)

// PagingMode states whether record listings page on the vendor's server or
// the adapter fetches everything and pages client-side.
type PagingMode string

const (
	PagingServer PagingMode = "server"
	PagingClient PagingMode = "client"
)

// AuthFieldKind selects validation and masking for a credential field.
type AuthFieldKind string

const (
	AuthFieldText     AuthFieldKind = "text"
	AuthFieldPassword AuthFieldKind = "password"
	AuthFieldURL      AuthFieldKind = "url"
)

// AuthField describes one credential input a provider kind requires.
type AuthField struct {
	Name        string        `json:"name"`
	Label       string        `json:"label"`
	Kind        AuthFieldKind `json:"kind"`
	Required    bool          `json:"required"`
	Placeholder string        `json:"placeholder,omitempty"`
	HelpText    string        `json:"helpText,omitempty"`
}

// Capabilities declares what one provider kind can do and how the gateway
// should drive it. One immutable descriptor exists per kind; use Clone
// before mutating.
type Capabilities struct {
	Kind               ProviderKind `json:"kind"`
	Label              string       `json:"label"`
	SupportsWeight     bool         `json:"supportsWeight"`
	SupportsLine       bool         `json:"supportsLine"`
	SupportsStatus     bool         `json:"supportsStatus"`
	SupportsRemark     bool         `json:"supportsRemark"`
	SupportsURLForward bool         `json:"supportsUrlForward"`
	SupportsLogs       bool         `json:"supportsLogs"`
	SupportsZoneAdd    bool         `json:"supportsZoneAdd"`
	RequiresZoneID     bool         `json:"requiresZoneId"`
	RemarkMode         RemarkMode   `json:"remarkMode"`
	Paging             PagingMode   `json:"paging"`
	MaxPageSize        int          `json:"maxPageSize"`
	RecordTypes        []string     `json:"recordTypes"`
	AuthFields         []AuthField  `json:"authFields"`
	// Cache TTLs in seconds for zone-level and record-level reads.
	ZoneCacheTTL   int `json:"zoneCacheTtl"`
	RecordCacheTTL int `json:"recordCacheTtl"`
	// RetryableErrors lists vendor error codes worth retrying on top of
	// the transport-level rules.
	RetryableErrors []string `json:"retryableErrors,omitempty"`
	MaxRetries      int      `json:"maxRetries"`
}

// Clone returns a deep copy safe for callers to mutate.
func (c Capabilities) Clone() Capabilities {
	out := c
	out.RecordTypes = append([]string(nil), c.RecordTypes...)
	out.AuthFields = append([]AuthField(nil), c.AuthFields...)
	out.RetryableErrors = append([]string(nil), c.RetryableErrors...)
	return out
}

// SupportsRecordType reports whether the kind accepts the canonical record
// type. An empty RecordTypes list accepts everything.
func (c Capabilities) SupportsRecordType(recordType string) bool {
	if len(c.RecordTypes) == 0 {
		return true
	}
	for _, t := range c.RecordTypes {
		if t == recordType {
			return true
		}
	}
	return false
}
