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

import "strings"

// Paging defaults shared by zone and record queries.
const (
	DefaultPage     = 1
	DefaultPageSize = 20
)

// ZoneQuery selects one page of zones, optionally filtered by a keyword
// over the zone name.
type ZoneQuery struct {
	Page     int    `json:"page,omitempty"`
	PageSize int    `json:"pageSize,omitempty"`
	Keyword  string `json:"keyword,omitempty"`
}

// Normalized returns the query with paging defaults applied and the
// keyword canonicalized.
func (q ZoneQuery) Normalized() ZoneQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	q.Keyword = strings.ToLower(strings.TrimSpace(q.Keyword))
	return q
}

// RecordQuery selects and pages records within a zone. All filters are
// optional. Adapters that cannot push a filter upstream apply it
// client-side with the shared helpers so results match across vendors.
type RecordQuery struct {
	Page      int    `json:"page,omitempty"`
	PageSize  int    `json:"pageSize,omitempty"`
	Keyword   string `json:"keyword,omitempty"`
	SubDomain string `json:"subDomain,omitempty"`
	Type      string `json:"type,omitempty"`
	Value     string `json:"value,omitempty"`
	Line      string `json:"line,omitempty"`
	Status    string `json:"status,omitempty"`
}

// Normalized returns the query with paging defaults applied and text
// filters canonicalized. Two queries that normalize equal produce the same
// cache fingerprint and the same client-side filter result.
func (q RecordQuery) Normalized() RecordQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	q.Keyword = strings.ToLower(strings.TrimSpace(q.Keyword))
	q.SubDomain = strings.ToLower(strings.TrimSpace(q.SubDomain))
	q.Type = strings.ToUpper(strings.TrimSpace(q.Type))
	q.Value = strings.TrimSpace(q.Value)
	q.Line = strings.TrimSpace(q.Line)
	q.Status = strings.TrimSpace(q.Status)
	return q
}

// IsFiltered reports whether any non-paging filter is set.
func (q RecordQuery) IsFiltered() bool {
	return q.Keyword != "" || q.SubDomain != "" || q.Type != "" ||
		q.Value != "" || q.Line != "" || q.Status != ""
}
