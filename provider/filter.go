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
	"strings"

	"github.com/zonegate/zonegate/dnsmodel"
)

// FilterRecords applies a record query to an in-memory listing. These are
// the authoritative client-side semantics: adapters whose vendor cannot
// express a filter upstream run it here so results match across vendors.
// The query must be normalized; keyword and subDomain arrive lowercased
// and the type uppercased.
func FilterRecords(items []dnsmodel.Record, q dnsmodel.RecordQuery) []dnsmodel.Record {
	if !q.IsFiltered() {
		return items
	}
	matched := make([]dnsmodel.Record, 0, len(items))
	for _, r := range items {
		if matchRecord(r, q) {
			matched = append(matched, r)
		}
	}
	return matched
}

// matchRecord applies each set filter: keyword is a fold substring over
// name, type, value and remark; subDomain a fold substring over the name;
// type an exact fold; value a fold substring; line and status exact.
func matchRecord(r dnsmodel.Record, q dnsmodel.RecordQuery) bool {
	if q.Keyword != "" {
		if !strings.Contains(strings.ToLower(r.Name), q.Keyword) &&
			!strings.Contains(strings.ToLower(r.Type), q.Keyword) &&
			!strings.Contains(strings.ToLower(r.Value), q.Keyword) &&
			!strings.Contains(strings.ToLower(r.Remark), q.Keyword) {
			return false
		}
	}
	if q.SubDomain != "" && !strings.Contains(strings.ToLower(r.Name), q.SubDomain) {
		return false
	}
	if q.Type != "" && !strings.EqualFold(r.Type, q.Type) {
		return false
	}
	if q.Value != "" && !strings.Contains(strings.ToLower(r.Value), strings.ToLower(q.Value)) {
		return false
	}
	if q.Line != "" && r.Line != q.Line {
		return false
	}
	if q.Status != "" && r.Status != q.Status {
		return false
	}
	return true
}

// Paginate slices one page out of a full listing and reports the total
// before paging, so client-paged adapters return the same totals a
// server-paged vendor would.
func Paginate[T any](items []T, page, pageSize int) ([]T, int) {
	total := len(items)
	if page < 1 {
		page = dnsmodel.DefaultPage
	}
	if pageSize < 1 {
		pageSize = dnsmodel.DefaultPageSize
	}
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return items[start:end], total
}
