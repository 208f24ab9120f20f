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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordQueryNormalized(t *testing.T) {
	q := RecordQuery{
		Keyword:   "  WWW ",
		SubDomain: "Mail",
		Type:      "mx",
		Value:     " 10.0.0.1 ",
	}.Normalized()

	assert.Equal(t, DefaultPage, q.Page)
	assert.Equal(t, DefaultPageSize, q.PageSize)
	assert.Equal(t, "www", q.Keyword)
	assert.Equal(t, "mail", q.SubDomain)
	assert.Equal(t, "MX", q.Type)
	assert.Equal(t, "10.0.0.1", q.Value)
}

func TestRecordQueryNormalizedStable(t *testing.T) {
	a := RecordQuery{Page: 2, PageSize: 50, Type: "TXT"}.Normalized()
	assert.Equal(t, a, a.Normalized())
}

func TestRecordQueryIsFiltered(t *testing.T) {
	assert.False(t, RecordQuery{Page: 3, PageSize: 10}.IsFiltered())
	assert.True(t, RecordQuery{Line: "telecom"}.IsFiltered())
	assert.True(t, RecordQuery{Status: StatusDisabled}.IsFiltered())
}

func TestCapabilitiesClone(t *testing.T) {
	caps := Capabilities{
		Kind:        KindAliyun,
		RecordTypes: []string{TypeA, TypeMX},
		AuthFields:  []AuthField{{Name: "accessKeyId"}},
	}
	clone := caps.Clone()
	clone.RecordTypes[0] = TypeTXT
	clone.AuthFields[0].Name = "other"

	assert.Equal(t, TypeA, caps.RecordTypes[0])
	assert.Equal(t, "accessKeyId", caps.AuthFields[0].Name)
}

func TestSupportsRecordType(t *testing.T) {
	caps := Capabilities{RecordTypes: []string{TypeA, TypeCNAME}}
	assert.True(t, caps.SupportsRecordType(TypeA))
	assert.False(t, caps.SupportsRecordType(TypeSRV))
	assert.True(t, Capabilities{}.SupportsRecordType(TypeSRV))
}
