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

package cloudflare

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zonegate/zonegate/dnsmodel"
	"github.com/zonegate/zonegate/provider"
)

const testZoneID = "023e105f4ecef8ad9ca31a8372d0c353"

func newTestProvider(t *testing.T, handler http.Handler) *Provider {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	p, err := New(map[string]string{"apiToken": "test-token"}, provider.Options{
		HTTPClient: ts.Client(),
		BaseURL:    ts.URL,
	})
	require.NoError(t, err)
	return p
}

func TestNewRequiresToken(t *testing.T) {
	_, err := New(map[string]string{}, provider.Options{})
	assert.True(t, dnsmodel.IsKind(err, dnsmodel.ErrMissingCredentials))
}

func TestCheckAuthSendsBearer(t *testing.T) {
	var gotAuth string
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/user/tokens/verify", r.URL.Path)
		fmt.Fprint(w, `{"success":true,"errors":[],"result":{"status":"active"}}`)
	}))

	require.NoError(t, p.CheckAuth(context.Background()))
	assert.Equal(t, "Bearer test-token", gotAuth)
}

func TestZones(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/zones", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		assert.Equal(t, "20", r.URL.Query().Get("per_page"))
		fmt.Fprintf(w, `{"success":true,"errors":[],"result":[
			{"id":%q,"name":"Example.COM","status":"active"}
		],"result_info":{"page":1,"per_page":20,"total_count":7}}`, testZoneID)
	}))

	list, err := p.Zones(context.Background(), dnsmodel.ZoneQuery{})
	require.NoError(t, err)
	assert.Equal(t, 7, list.Total)
	require.Len(t, list.Zones, 1)
	assert.Equal(t, testZoneID, list.Zones[0].ID)
	assert.Equal(t, "example.com", list.Zones[0].Name)
}

func TestZoneByNameFallsBackToList(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/zones", r.URL.Path)
		assert.Equal(t, "example.com", r.URL.Query().Get("name"))
		fmt.Fprintf(w, `{"success":true,"errors":[],"result":[{"id":%q,"name":"example.com"}]}`, testZoneID)
	}))

	z, err := p.Zone(context.Background(), "Example.com")
	require.NoError(t, err)
	assert.Equal(t, testZoneID, z.ID)
}

func TestZoneByIDUsesDirectGet(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/zones/"+testZoneID, r.URL.Path)
		fmt.Fprintf(w, `{"success":true,"errors":[],"result":{"id":%q,"name":"example.com"}}`, testZoneID)
	}))

	z, err := p.Zone(context.Background(), testZoneID)
	require.NoError(t, err)
	assert.Equal(t, "example.com", z.Name)
}

func TestRecordsUnfilteredUsesServerPaging(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/zones/"+testZoneID+"/dns_records", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		fmt.Fprint(w, `{"success":true,"errors":[],"result":[
			{"id":"r1","type":"A","name":"www.example.com","content":"1.2.3.4","ttl":300,"proxied":true},
			{"id":"r2","type":"MX","name":"example.com","content":"mail.example.com","ttl":600,"priority":10}
		],"result_info":{"total_count":42}}`)
	}))

	list, err := p.Records(context.Background(), testZoneID, dnsmodel.RecordQuery{Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 42, list.Total)
	require.Len(t, list.Records, 2)

	a := list.Records[0]
	assert.Equal(t, "www.example.com", a.Name)
	require.NotNil(t, a.Proxied)
	assert.True(t, *a.Proxied)

	mx := list.Records[1]
	require.NotNil(t, mx.Priority)
	assert.Equal(t, 10, *mx.Priority)
	assert.Equal(t, "mail.example.com", mx.Value)
}

func TestRecordsFilteredFallsBackToClientFilter(t *testing.T) {
	calls := 0
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		// A filtered query must fetch full pages, not the caller's page.
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		fmt.Fprint(w, `{"success":true,"errors":[],"result":[
			{"id":"r1","type":"A","name":"www.example.com","content":"1.2.3.4","ttl":300},
			{"id":"r2","type":"TXT","name":"www.example.com","content":"abc","ttl":300},
			{"id":"r3","type":"A","name":"api.example.com","content":"5.6.7.8","ttl":300}
		],"result_info":{"total_count":3}}`)
	}))

	list, err := p.Records(context.Background(), testZoneID, dnsmodel.RecordQuery{Type: "A"})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 2, list.Total)
	for _, r := range list.Records {
		assert.Equal(t, "A", r.Type)
	}
}

func TestCreateRecord(t *testing.T) {
	var gotBody map[string]any
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		fmt.Fprint(w, `{"success":true,"errors":[],"result":
			{"id":"new1","type":"A","name":"www.example.com","content":"1.2.3.4","ttl":300,"proxied":false}}`)
	}))

	proxied := false
	rec, err := p.CreateRecord(context.Background(), testZoneID, dnsmodel.RecordInput{
		Name: "www.example.com", Type: "A", Value: "1.2.3.4", TTL: 300, Proxied: &proxied,
	})
	require.NoError(t, err)
	assert.Equal(t, "new1", rec.ID)
	assert.Equal(t, "www.example.com", gotBody["name"])
	assert.Equal(t, float64(300), gotBody["ttl"])
	assert.Equal(t, false, gotBody["proxied"])
}

func TestCreateRecordDefaultsTTLToAuto(t *testing.T) {
	var gotBody map[string]any
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		fmt.Fprint(w, `{"success":true,"errors":[],"result":{"id":"new1","type":"A","name":"www.example.com","content":"1.2.3.4","ttl":1}}`)
	}))

	_, err := p.CreateRecord(context.Background(), testZoneID, dnsmodel.RecordInput{
		Name: "www.example.com", Type: "A", Value: "1.2.3.4",
	})
	require.NoError(t, err)
	assert.Equal(t, float64(1), gotBody["ttl"])
}

func TestUpdateRecordFillsGapsFromCurrent(t *testing.T) {
	var gotPut map[string]any
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			fmt.Fprint(w, `{"success":true,"errors":[],"result":
				{"id":"r1","type":"A","name":"www.example.com","content":"1.2.3.4","ttl":300,"comment":"note"}}`)
		case http.MethodPut:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPut))
			fmt.Fprint(w, `{"success":true,"errors":[],"result":
				{"id":"r1","type":"A","name":"www.example.com","content":"9.9.9.9","ttl":300,"comment":"note"}}`)
		}
	}))

	rec, err := p.UpdateRecord(context.Background(), testZoneID, "r1", dnsmodel.RecordInput{Value: "9.9.9.9"})
	require.NoError(t, err)
	assert.Equal(t, "9.9.9.9", rec.Value)
	assert.Equal(t, "www.example.com", gotPut["name"])
	assert.Equal(t, "note", gotPut["comment"])
}

func TestDeleteRecord(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/zones/"+testZoneID+"/dns_records/r1", r.URL.Path)
		fmt.Fprint(w, `{"success":true,"errors":[],"result":{"id":"r1"}}`)
	}))

	require.NoError(t, p.DeleteRecord(context.Background(), testZoneID, "r1"))
}

func TestSetRecordStatusUnsupported(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no upstream call expected")
	}))

	err := p.SetRecordStatus(context.Background(), testZoneID, "r1", false)
	assert.True(t, dnsmodel.IsKind(err, dnsmodel.ErrUnsupported))
}

func TestErrorMapping(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"success":false,"errors":[{"code":7003,"message":"Could not route to zone"}],"result":null}`)
	}))

	_, err := p.Zone(context.Background(), testZoneID)
	de, ok := dnsmodel.AsError(err)
	require.True(t, ok)
	assert.Equal(t, dnsmodel.ErrZoneNotFound, de.Kind)
	assert.Equal(t, "7003", de.VendorCode)
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)
}

func TestCreateZoneIncludesAccount(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		acct, ok := body["account"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "acct42", acct["id"])
		fmt.Fprintf(w, `{"success":true,"errors":[],"result":{"id":%q,"name":"newzone.com","status":"pending"}}`, testZoneID)
	}))
	defer ts.Close()

	p, err := New(map[string]string{"apiToken": "tok", "accountId": "acct42"}, provider.Options{
		HTTPClient: ts.Client(), BaseURL: ts.URL,
	})
	require.NoError(t, err)

	z, err := p.CreateZone(context.Background(), "NewZone.com")
	require.NoError(t, err)
	assert.Equal(t, "newzone.com", z.Name)
}

func TestIsZoneID(t *testing.T) {
	assert.True(t, isZoneID(testZoneID))
	assert.False(t, isZoneID("example.com"))
	assert.False(t, isZoneID("023e105f4ecef8ad9ca31a8372d0c35")) // 31 chars
	assert.False(t, isZoneID("023E105F4ECEF8AD9CA31A8372D0C353"))
}
