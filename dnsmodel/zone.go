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

// Zone is a DNS zone in canonical form. Name is a lowercase FQDN without
// the trailing dot; ID is whatever handle the vendor uses (Cloudflare hex
// IDs, numeric IDs, or the zone name itself for vendors keyed by name).
type Zone struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Status      string            `json:"status,omitempty"`
	RecordCount *int              `json:"recordCount,omitempty"`
	UpdatedAt   string            `json:"updatedAt,omitempty"`
	Meta        map[string]string `json:"meta,omitempty"`
}

// ZoneList is one page of zones plus the total across all pages when the
// vendor reports one.
type ZoneList struct {
	Zones []Zone `json:"zones"`
	Total int    `json:"total"`
}
