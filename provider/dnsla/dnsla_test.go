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

package dnsla

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

func newTestProvider(t *testing.T, handler http.Handler) *Provider {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	p, err := New(map[string]string{"apiId": "test-id", "apiSecret": "test-secret"}, provider.Options{
		HTTPClient: ts.Client(),
		BaseURL:    ts.URL,
	})
	require.NoError(t, err)
	return p
}

func decodePayload(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
	return payload
}

func serveDomain(w http.ResponseWriter) {
	fmt.Fprint(w, `{"code":200,"data":{"id":"dom-77","domain":"example.com","disable":false}}`)
}

func TestNewRequiresKeys(t *testing.T) {
	_, err := New(map[string]string{"apiId": "only-id"}, provider.Options{})
	assert.True(t, dnsmodel.IsKind(err, dnsmodel.ErrMissingCredentials))
}

func TestCheckAuthSendsBasicAuth(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/domainList", r.URL.Path)
		id, secret, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "test-id", id)
		assert.Equal(t, "test-secret", secret)
		fmt.Fprint(w, `{"code":200,"data":{"total":0,"results":[]}}`)
	}))

	require.NoError(t, p.CheckAuth(context.Background()))
}

func TestZonesServerPaging(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "2", q.Get("pageIndex"))
		assert.Equal(t, "50", q.Get("pageSize"))
		fmt.Fprint(w, `{"code":200,"data":{"total":51,"results":[
			{"id":"dom-77","domain":"example.com","disable":false,"recordCount":5}
		]}}`)
	}))

	list, err := p.Zones(context.Background(), dnsmodel.ZoneQuery{Page: 2, PageSize: 50})
	require.NoError(t, err)
	assert.Equal(t, 51, list.Total)
	zone := list.Zones[0]
	assert.Equal(t, "dom-77", zone.ID)
	assert.Equal(t, "example.com", zone.Name)
	require.NotNil(t, zone.RecordCount)
	assert.Equal(t, 5, *zone.RecordCount)
}

func TestZonesKeywordFiltersClientSide(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "100", r.URL.Query().Get("pageSize"))
		assert.Empty(t, r.URL.Query().Get("domain"))
		fmt.Fprint(w, `{"code":200,"data":{"total":2,"results":[
			{"id":"dom-77","domain":"example.com"},
			{"id":"dom-78","domain":"other.net"}
		]}}`)
	}))

	list, err := p.Zones(context.Background(), dnsmodel.ZoneQuery{Keyword: "example"})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, "dom-77", list.Zones[0].ID)
}

func TestZoneByIDUsesDomainEndpoint(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/domain", r.URL.Path)
		assert.Equal(t, "dom-77", r.URL.Query().Get("id"))
		serveDomain(w)
	}))

	zone, err := p.Zone(context.Background(), "dom-77")
	require.NoError(t, err)
	assert.Equal(t, "example.com", zone.Name)
}

func TestZoneByNameScansListing(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/domainList", r.URL.Path)
		fmt.Fprint(w, `{"code":200,"data":{"total":2,"results":[
			{"id":"dom-1","domain":"sub.example.com"},
			{"id":"dom-77","domain":"example.com"}
		]}}`)
	}))

	zone, err := p.Zone(context.Background(), "Example.COM.")
	require.NoError(t, err)
	assert.Equal(t, "dom-77", zone.ID)

	_, err = p.Zone(context.Background(), "missing.net")
	assert.True(t, dnsmodel.IsKind(err, dnsmodel.ErrZoneNotFound))
}

func TestRecordsServerPaging(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/domain" {
			serveDomain(w)
			return
		}
		assert.Equal(t, "/api/recordList", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "dom-77", q.Get("domainId"))
		assert.Equal(t, "2", q.Get("pageIndex"))
		assert.Equal(t, "50", q.Get("pageSize"))
		fmt.Fprint(w, `{"code":200,"data":{"total":51,"results":[
			{"id":"rec-1","host":"mail","type":15,"data":"mx.example.com","ttl":600,
			 "preference":20,"lineId":"1","disable":true,"remark":"primary mx"}
		]}}`)
	}))

	list, err := p.Records(context.Background(), "dom-77", dnsmodel.RecordQuery{Page: 2, PageSize: 50})
	require.NoError(t, err)
	assert.Equal(t, 51, list.Total)
	rec := list.Records[0]
	assert.Equal(t, "rec-1", rec.ID)
	assert.Equal(t, "mail.example.com", rec.Name)
	assert.Equal(t, dnsmodel.TypeMX, rec.Type)
	assert.Equal(t, dnsmodel.LineTelecom, rec.Line)
	assert.Equal(t, dnsmodel.StatusDisabled, rec.Status)
	assert.Equal(t, "primary mx", rec.Remark)
	require.NotNil(t, rec.Priority)
	assert.Equal(t, 20, *rec.Priority)
}

func TestRecordsTypeFilterFallsBackToClient(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/domain" {
			serveDomain(w)
			return
		}
		assert.Equal(t, "100", r.URL.Query().Get("pageSize"))
		fmt.Fprint(w, `{"code":200,"data":{"total":2,"results":[
			{"id":"rec-1","host":"www","type":1,"data":"1.2.3.4","ttl":600},
			{"id":"rec-2","host":"www","type":5,"data":"alias.example.org","ttl":600}
		]}}`)
	}))

	list, err := p.Records(context.Background(), "dom-77", dnsmodel.RecordQuery{Type: "cname"})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, "rec-2", list.Records[0].ID)
	assert.Equal(t, dnsmodel.LineDefault, list.Records[0].Line)
}

func TestRecordMapsURLForwardFlags(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/domain" {
			serveDomain(w)
			return
		}
		switch r.URL.Query().Get("id") {
		case "rec-exp":
			fmt.Fprint(w, `{"code":200,"data":{"id":"rec-exp","host":"jump","type":256,"data":"https://a.example/","dominant":true}}`)
		case "rec-imp":
			fmt.Fprint(w, `{"code":200,"data":{"id":"rec-imp","host":"frame","type":256,"data":"https://b.example/","domaint":false}}`)
		}
	}))

	rec, err := p.Record(context.Background(), "dom-77", "rec-exp")
	require.NoError(t, err)
	assert.Equal(t, dnsmodel.TypeRedirectURL, rec.Type)

	rec, err = p.Record(context.Background(), "dom-77", "rec-imp")
	require.NoError(t, err)
	assert.Equal(t, dnsmodel.TypeForwardURL, rec.Type)
}

func TestCreateRecordTranslatesTypesAndLines(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/domain" {
			serveDomain(w)
			return
		}
		require.Equal(t, http.MethodPost, r.Method)
		payload := decodePayload(t, r)
		assert.Equal(t, "dom-77", payload["domainId"])
		assert.Equal(t, "jump", payload["host"])
		assert.Equal(t, float64(256), payload["type"])
		assert.Equal(t, true, payload["dominant"])
		assert.Equal(t, "1", payload["lineId"])
		assert.Equal(t, "landing", payload["remark"])
		fmt.Fprint(w, `{"code":200,"data":{"id":"rec-301"}}`)
	}))

	remark := "landing"
	rec, err := p.CreateRecord(context.Background(), "dom-77", dnsmodel.RecordInput{
		Name:   "jump.example.com",
		Type:   dnsmodel.TypeRedirectURL,
		Value:  "https://example.org/",
		TTL:    600,
		Line:   dnsmodel.LineTelecom,
		Remark: &remark,
	})
	require.NoError(t, err)
	assert.Equal(t, "rec-301", rec.ID)
	assert.Equal(t, dnsmodel.TypeRedirectURL, rec.Type)
	assert.Equal(t, "landing", rec.Remark)
}

func TestCreateRecordRejectsUnknownType(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/domain" {
			serveDomain(w)
			return
		}
		t.Error("unexpected upstream call")
	}))

	_, err := p.CreateRecord(context.Background(), "dom-77", dnsmodel.RecordInput{
		Name:  "host.example.com",
		Type:  "PTR",
		Value: "target.example.com",
	})
	assert.True(t, dnsmodel.IsKind(err, dnsmodel.ErrUnsupported))
}

func TestCreateMXDefaultsPreference(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/domain" {
			serveDomain(w)
			return
		}
		payload := decodePayload(t, r)
		assert.Equal(t, float64(15), payload["type"])
		assert.Equal(t, float64(10), payload["preference"])
		_, hasLine := payload["lineId"]
		assert.False(t, hasLine)
		fmt.Fprint(w, `{"code":200,"data":{"id":"rec-302"}}`)
	}))

	rec, err := p.CreateRecord(context.Background(), "dom-77", dnsmodel.RecordInput{
		Name:  "example.com",
		Type:  dnsmodel.TypeMX,
		Value: "mx.example.com",
		TTL:   600,
	})
	require.NoError(t, err)
	assert.Equal(t, "rec-302", rec.ID)
}

func TestCreateRecordDisabledFollowUp(t *testing.T) {
	var calls []string
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/domain" {
			serveDomain(w)
			return
		}
		calls = append(calls, r.Method+" "+r.URL.Path)
		if r.URL.Path == "/api/recordStatus" {
			payload := decodePayload(t, r)
			assert.Equal(t, "rec-303", payload["id"])
			assert.Equal(t, true, payload["disable"])
			fmt.Fprint(w, `{"code":200}`)
			return
		}
		fmt.Fprint(w, `{"code":200,"data":{"id":"rec-303"}}`)
	}))

	rec, err := p.CreateRecord(context.Background(), "dom-77", dnsmodel.RecordInput{
		Name:   "www.example.com",
		Type:   dnsmodel.TypeA,
		Value:  "1.2.3.4",
		TTL:    600,
		Status: dnsmodel.StatusDisabled,
	})
	require.NoError(t, err)
	assert.Equal(t, dnsmodel.StatusDisabled, rec.Status)
	assert.Equal(t, []string{"POST /api/record", "PUT /api/recordStatus"}, calls)
}

func TestCreateRecordStatusFailureIsPartial(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/domain" {
			serveDomain(w)
			return
		}
		if r.URL.Path == "/api/recordStatus" {
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, `{"code":403,"msg":"no status permission"}`)
			return
		}
		fmt.Fprint(w, `{"code":200,"data":{"id":"rec-304"}}`)
	}))

	rec, err := p.CreateRecord(context.Background(), "dom-77", dnsmodel.RecordInput{
		Name:   "www.example.com",
		Type:   dnsmodel.TypeA,
		Value:  "1.2.3.4",
		TTL:    600,
		Status: dnsmodel.StatusDisabled,
	})
	require.Error(t, err)
	assert.Equal(t, "rec-304", rec.ID)
	derr, _ := dnsmodel.AsError(err)
	require.NotNil(t, derr)
	assert.Equal(t, true, derr.Meta["partialSuccess"])
	assert.Equal(t, "rec-304", derr.Meta["recordId"])
}

func TestUpdateRecordFillsGaps(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/domain" {
			serveDomain(w)
			return
		}
		if r.Method == http.MethodGet {
			fmt.Fprint(w, `{"code":200,"data":{"id":"rec-1","host":"www","type":1,"data":"1.2.3.4",
				"ttl":600,"lineId":"1","remark":"keep"}}`)
			return
		}
		require.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/record", r.URL.Path)
		payload := decodePayload(t, r)
		assert.Equal(t, "rec-1", payload["id"])
		assert.Equal(t, "www", payload["host"])
		assert.Equal(t, float64(1), payload["type"])
		assert.Equal(t, "5.6.7.8", payload["data"])
		assert.Equal(t, "1", payload["lineId"])
		assert.Equal(t, "keep", payload["remark"])
		fmt.Fprint(w, `{"code":200}`)
	}))

	rec, err := p.UpdateRecord(context.Background(), "dom-77", "rec-1", dnsmodel.RecordInput{Value: "5.6.7.8"})
	require.NoError(t, err)
	assert.Equal(t, "5.6.7.8", rec.Value)
	assert.Equal(t, dnsmodel.LineTelecom, rec.Line)
}

func TestSetRecordStatusEnables(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/recordStatus", r.URL.Path)
		payload := decodePayload(t, r)
		assert.Equal(t, "rec-1", payload["id"])
		assert.Equal(t, false, payload["disable"])
		fmt.Fprint(w, `{"code":200}`)
	}))

	require.NoError(t, p.SetRecordStatus(context.Background(), "dom-77", "rec-1", true))
}

func TestDeleteRecord(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/record", r.URL.Path)
		assert.Equal(t, "rec-1", r.URL.Query().Get("id"))
		fmt.Fprint(w, `{"code":200}`)
	}))

	require.NoError(t, p.DeleteRecord(context.Background(), "dom-77", "rec-1"))
}

func TestCreateZone(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/domain", r.URL.Path)
		assert.Equal(t, "example.org", decodePayload(t, r)["domain"])
		fmt.Fprint(w, `{"code":200,"data":{"id":"dom-88"}}`)
	}))

	zone, err := p.CreateZone(context.Background(), "Example.ORG.")
	require.NoError(t, err)
	assert.Equal(t, "dom-88", zone.ID)
	assert.Equal(t, "example.org", zone.Name)
}

func TestErrorMapping(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"code":401,"msg":"authentication failed"}`)
	}))

	err := p.CheckAuth(context.Background())
	require.Error(t, err)
	assert.True(t, dnsmodel.IsKind(err, dnsmodel.ErrAuthFailed))
	derr, _ := dnsmodel.AsError(err)
	require.NotNil(t, derr)
	assert.Equal(t, "401", derr.VendorCode)
	assert.Equal(t, http.StatusUnauthorized, derr.HTTPStatus)

	p = newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"code":404,"msg":"record does not exist"}`)
	}))
	_, err = p.Record(context.Background(), "dom-77", "rec-9")
	assert.True(t, dnsmodel.IsKind(err, dnsmodel.ErrRecordNotFound))
}

func TestLines(t *testing.T) {
	lines, err := (&Provider{}).Lines(context.Background(), "dom-77")
	require.NoError(t, err)
	require.Len(t, lines, 7)
	assert.Equal(t, dnsmodel.LineDefault, lines[0].Code)
	assert.Equal(t, dnsmodel.LineSearch, lines[6].Code)
}
