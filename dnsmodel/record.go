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

// Canonical record type tokens. Adapters translate vendor spellings
// (for example DNSPod's 显性URL) to and from these.
const (
	TypeA           = "A"
	TypeAAAA        = "AAAA"
	TypeCNAME       = "CNAME"
	TypeMX          = "MX"
	TypeTXT         = "TXT"
	TypeSRV         = "SRV"
	TypeCAA         = "CAA"
	TypeNS          = "NS"
	TypePTR         = "PTR"
	TypeALIAS       = "ALIAS"
	TypeHTTPS       = "HTTPS"
	TypeTLSA        = "TLSA"
	TypeSOA         = "SOA"
	TypeRedirectURL = "REDIRECT_URL" // explicit URL forwarding (301/302)
	TypeForwardURL  = "FORWARD_URL"  // implicit URL forwarding (framed)
)

// Record status values. The empty string means the vendor does not report
// one.
const (
	StatusEnabled  = "1"
	StatusDisabled = "0"
)

// Record is a DNS record in canonical form. Name is the full record name
// under the zone (the apex is the zone name itself, never "@"), Value
// carries no MX/SRV priority prefix and no TXT quoting, and Line holds a
// canonical line code where one exists.
type Record struct {
	ID        string            `json:"id"`
	ZoneID    string            `json:"zoneId,omitempty"`
	ZoneName  string            `json:"zoneName,omitempty"`
	Name      string            `json:"name"`
	Type      string            `json:"type"`
	Value     string            `json:"value"`
	TTL       int               `json:"ttl,omitempty"`
	Line      string            `json:"line,omitempty"`
	Weight    *int              `json:"weight,omitempty"`
	Priority  *int              `json:"priority,omitempty"`
	Status    string            `json:"status,omitempty"`
	Remark    string            `json:"remark,omitempty"`
	Proxied   *bool             `json:"proxied,omitempty"`
	UpdatedAt string            `json:"updatedAt,omitempty"`
	Meta      map[string]string `json:"meta,omitempty"`
}

// Enabled reports whether the record is active. Records without a reported
// status count as enabled.
func (r Record) Enabled() bool {
	return r.Status != StatusDisabled
}

// RecordList is one page of records plus the total across all pages.
type RecordList struct {
	Records []Record `json:"records"`
	Total   int      `json:"total"`
}

// RecordInput carries caller-supplied fields for record writes. Nil
// pointers mean "not supplied": updates leave those fields untouched and
// creates fall back to vendor defaults.
type RecordInput struct {
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Value    string  `json:"value"`
	TTL      int     `json:"ttl,omitempty"`
	Line     string  `json:"line,omitempty"`
	Weight   *int    `json:"weight,omitempty"`
	Priority *int    `json:"priority,omitempty"`
	Status   string  `json:"status,omitempty"`
	Remark   *string `json:"remark,omitempty"`
	Proxied  *bool   `json:"proxied,omitempty"`
}
