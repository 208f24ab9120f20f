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
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zonegate/zonegate/dnsmodel"
	"github.com/zonegate/zonegate/internal/testutils"
)

func newTestResolver(requiresZoneID bool) (*zoneResolver, *testutils.MockProvider) {
	m := &testutils.MockProvider{Caps: dnsmodel.Capabilities{
		Kind:           "mockdns",
		RequiresZoneID: requiresZoneID,
	}}
	return newZoneResolver(m, m.Caps), m
}

func TestResolvePassthroughWhenNamesAccepted(t *testing.T) {
	r, m := newTestResolver(false)

	id, err := r.resolve(context.Background(), "Example.COM")
	require.NoError(t, err)
	assert.Equal(t, "Example.COM", id)

	m.AssertExpectations(t)
}

func TestResolvePassthroughForNonNames(t *testing.T) {
	r, m := newTestResolver(true)

	for _, input := range []string{"", "123456", "a1b2c3d4e5f6"} {
		id, err := r.resolve(context.Background(), input)
		require.NoError(t, err)
		assert.Equal(t, input, id)
	}

	m.AssertExpectations(t)
}

func TestResolveScansAndCaches(t *testing.T) {
	r, m := newTestResolver(true)
	m.On("Zones", mock.Anything, dnsmodel.ZoneQuery{Page: 1, PageSize: 100}).Return(dnsmodel.ZoneList{
		Zones: []dnsmodel.Zone{
			{ID: "z-1", Name: "other.net"},
			{ID: "z-99", Name: "Example.COM"},
		},
		Total: 2,
	}, nil).Once()

	id, err := r.resolve(context.Background(), "example.com")
	require.NoError(t, err)
	assert.Equal(t, "z-99", id)

	id, err = r.resolve(context.Background(), "example.com")
	require.NoError(t, err)
	assert.Equal(t, "z-99", id)

	// Resolving a resolved handle is a fixed point.
	id, err = r.resolve(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "z-99", id)

	m.AssertExpectations(t)
	m.AssertNumberOfCalls(t, "Zones", 1)
}

func TestResolveRemembersScannedSiblings(t *testing.T) {
	r, m := newTestResolver(true)
	m.On("Zones", mock.Anything, dnsmodel.ZoneQuery{Page: 1, PageSize: 100}).Return(dnsmodel.ZoneList{
		Zones: []dnsmodel.Zone{
			{ID: "z-1", Name: "first.example"},
			{ID: "z-2", Name: "second.example"},
		},
		Total: 2,
	}, nil).Once()

	id, err := r.resolve(context.Background(), "second.example")
	require.NoError(t, err)
	assert.Equal(t, "z-2", id)

	id, err = r.resolve(context.Background(), "first.example")
	require.NoError(t, err)
	assert.Equal(t, "z-1", id)

	m.AssertNumberOfCalls(t, "Zones", 1)
}

func TestResolvePaginatesUntilMatch(t *testing.T) {
	firstPage := make([]dnsmodel.Zone, 100)
	for i := range firstPage {
		firstPage[i] = dnsmodel.Zone{ID: fmt.Sprintf("z-%d", i), Name: fmt.Sprintf("filler-%d.example", i)}
	}

	r, m := newTestResolver(true)
	m.On("Zones", mock.Anything, dnsmodel.ZoneQuery{Page: 1, PageSize: 100}).
		Return(dnsmodel.ZoneList{Zones: firstPage, Total: 101}, nil).Once()
	m.On("Zones", mock.Anything, dnsmodel.ZoneQuery{Page: 2, PageSize: 100}).
		Return(dnsmodel.ZoneList{Zones: []dnsmodel.Zone{{ID: "z-last", Name: "needle.example"}}, Total: 101}, nil).Once()

	id, err := r.resolve(context.Background(), "needle.example")
	require.NoError(t, err)
	assert.Equal(t, "z-last", id)

	m.AssertExpectations(t)
}

func TestResolveNotFound(t *testing.T) {
	r, m := newTestResolver(true)
	m.On("Zones", mock.Anything, dnsmodel.ZoneQuery{Page: 1, PageSize: 100}).Return(dnsmodel.ZoneList{
		Zones: []dnsmodel.Zone{{ID: "z-1", Name: "other.net"}},
		Total: 1,
	}, nil).Once()

	_, err := r.resolve(context.Background(), "missing.example")

	de, ok := dnsmodel.AsError(err)
	require.True(t, ok)
	assert.Equal(t, dnsmodel.ErrZoneNotFound, de.Kind)
	assert.Contains(t, de.Message, "missing.example")
}

func TestResolveMatchesVendorHandleDuringScan(t *testing.T) {
	r, m := newTestResolver(true)
	m.On("Zones", mock.Anything, dnsmodel.ZoneQuery{Page: 1, PageSize: 100}).Return(dnsmodel.ZoneList{
		Zones: []dnsmodel.Zone{{ID: "handle.internal", Name: "example.com"}},
		Total: 1,
	}, nil).Once()

	id, err := r.resolve(context.Background(), "handle.internal")
	require.NoError(t, err)
	assert.Equal(t, "handle.internal", id)
}
