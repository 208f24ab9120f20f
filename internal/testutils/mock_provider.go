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

package testutils

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/zonegate/zonegate/dnsmodel"
)

// MockProvider is a scripted adapter for gateway tests. It deliberately
// does not implement provider.ZoneCreator so tests can cover the
// zone-creation capability gate; use MockZoneProvider when the fake
// vendor should accept new zones.
type MockProvider struct {
	mock.Mock

	Caps dnsmodel.Capabilities
}

// Capabilities returns the scripted capability sheet without going
// through the mock recorder, so tests only stub the calls they assert.
func (m *MockProvider) Capabilities() dnsmodel.Capabilities {
	return m.Caps
}

// CheckAuth returns the scripted verification outcome.
func (m *MockProvider) CheckAuth(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Zones returns the scripted zone listing.
func (m *MockProvider) Zones(ctx context.Context, q dnsmodel.ZoneQuery) (dnsmodel.ZoneList, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(dnsmodel.ZoneList), args.Error(1)
}

// Zone returns the scripted zone detail.
func (m *MockProvider) Zone(ctx context.Context, idOrName string) (dnsmodel.Zone, error) {
	args := m.Called(ctx, idOrName)
	return args.Get(0).(dnsmodel.Zone), args.Error(1)
}

// Records returns the scripted record listing.
func (m *MockProvider) Records(ctx context.Context, zoneID string, q dnsmodel.RecordQuery) (dnsmodel.RecordList, error) {
	args := m.Called(ctx, zoneID, q)
	return args.Get(0).(dnsmodel.RecordList), args.Error(1)
}

// Record returns the scripted record detail.
func (m *MockProvider) Record(ctx context.Context, zoneID, recordID string) (dnsmodel.Record, error) {
	args := m.Called(ctx, zoneID, recordID)
	return args.Get(0).(dnsmodel.Record), args.Error(1)
}

// CreateRecord returns the scripted creation result.
func (m *MockProvider) CreateRecord(ctx context.Context, zoneID string, in dnsmodel.RecordInput) (dnsmodel.Record, error) {
	args := m.Called(ctx, zoneID, in)
	return args.Get(0).(dnsmodel.Record), args.Error(1)
}

// UpdateRecord returns the scripted update result.
func (m *MockProvider) UpdateRecord(ctx context.Context, zoneID, recordID string, in dnsmodel.RecordInput) (dnsmodel.Record, error) {
	args := m.Called(ctx, zoneID, recordID, in)
	return args.Get(0).(dnsmodel.Record), args.Error(1)
}

// DeleteRecord returns the scripted deletion outcome.
func (m *MockProvider) DeleteRecord(ctx context.Context, zoneID, recordID string) error {
	args := m.Called(ctx, zoneID, recordID)
	return args.Error(0)
}

// SetRecordStatus returns the scripted toggle outcome.
func (m *MockProvider) SetRecordStatus(ctx context.Context, zoneID, recordID string, enabled bool) error {
	args := m.Called(ctx, zoneID, recordID, enabled)
	return args.Error(0)
}

// Lines returns the scripted routing lines.
func (m *MockProvider) Lines(ctx context.Context, zoneID string) ([]dnsmodel.Line, error) {
	args := m.Called(ctx, zoneID)

	lines := args.Get(0)
	if lines == nil {
		return nil, args.Error(1)
	}
	return lines.([]dnsmodel.Line), args.Error(1)
}

// MinTTL returns the scripted TTL floor.
func (m *MockProvider) MinTTL(ctx context.Context, zoneID string) (int, error) {
	args := m.Called(ctx, zoneID)
	return args.Int(0), args.Error(1)
}

// MockZoneProvider is a MockProvider whose fake vendor also registers
// new zones.
type MockZoneProvider struct {
	MockProvider
}

// CreateZone returns the scripted registration result.
func (m *MockZoneProvider) CreateZone(ctx context.Context, name string) (dnsmodel.Zone, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(dnsmodel.Zone), args.Error(1)
}
