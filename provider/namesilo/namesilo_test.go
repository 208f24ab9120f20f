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

package namesilo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zonegate/zonegate/dnsmodel"
	"github.com/zonegate/zonegate/provider"
)

// recordsReply is the stored state of example.com; hosts arrive as FQDNs.
const recordsReply = `<namesilo><reply><code>300</code><detail>success</detail>
	<resource_record>
		<record_id>rr-1</record_id><type>A</type><host>www.example.com</host>
		<value>1.2.3.4</value><ttl>3600</ttl><distance>0</distance>
	</resource_record>
	<resource_record>
		<record_id>rr-2</record_id><type>MX</type><host>example.com</host>
		<value>mx.example.com</value><ttl>7200</ttl><distance>10</distance>
	</resource_record>
	<resource_record>
		<record_id>rr-3</record_id><type>TXT</type><host>example.com</host>
		<value>v=spf1 -all</value><ttl>7200</ttl><distance>0</distance>
	</resource_record>
</reply></namesilo>`

func newTestProvider(t *testing.T, handler http.Handler) *Provider {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	p, err := New(map[string]string{"apiKey": "test-key"}, provider.Options{
		HTTPClient: ts.Client(),
		BaseURL:    ts.URL,
	})
	require.NoError(t, err)
	return p
}

func assertCommonParams(t *testing.T, q url.Values) {
	t.Helper()
	assert.Equal(t, "1", q.Get("version"))
	assert.Equal(t, "xml", q.Get("type"))
	assert.Equal(t, "test-key", q.Get("key"))
}

func TestNewRequiresKey(t *testing.T) {
	_, err := New(map[string]string{}, provider.Options{})
	assert.True(t, dnsmodel.IsKind(err, dnsmodel.ErrMissingCredentials))
}

func TestCheckAuthSendsKeyParams(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/listDomains", r.URL.Path)
		assertCommonParams(t, r.URL.Query())
		fmt.Fprint(w, `<namesilo><reply><code>300</code><detail>success</detail></reply></namesilo>`)
	}))

	require.NoError(t, p.CheckAuth(context.Background()))
}

func TestZonesListAndFilterClientSide(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<namesilo><reply><code>300</code><detail>success</detail><domains>
			<domain>Example.COM</domain>
			<domain>other.org</domain>
			<domain>sub.example.net</domain>
		</domains></reply></namesilo>`)
	}))

	list, err := p.Zones(context.Background(), dnsmodel.ZoneQuery{Keyword: "Example"})
	require.NoError(t, err)
	require.Equal(t, 2, list.Total)
	assert.Equal(t, "example.com", list.Zones[0].ID)
	assert.Equal(t, "example.com", list.Zones[0].Name)
	assert.Equal(t, "sub.example.net", list.Zones[1].Name)
}

func TestZoneMapsStatusAndMeta(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/getDomainInfo", r.URL.Path)
		switch r.URL.Query().Get("domain") {
		case "example.com":
			fmt.Fprint(w, `<namesilo><reply><code>300</code><detail>success</detail>
				<created>2020-01-02</created><expires>2030-01-02</expires>
				<status>Active</status></reply></namesilo>`)
		default:
			fmt.Fprint(w, `<namesilo><reply><code>300</code><detail>success</detail>
				<status>Expired</status></reply></namesilo>`)
		}
	}))

	zone, err := p.Zone(context.Background(), "Example.COM.")
	require.NoError(t, err)
	assert.Equal(t, "example.com", zone.ID)
	assert.Equal(t, dnsmodel.StatusEnabled, zone.Status)
	assert.Equal(t, "2020-01-02", zone.Meta["created"])
	assert.Equal(t, "2030-01-02", zone.Meta["expires"])

	zone, err = p.Zone(context.Background(), "lapsed.org")
	require.NoError(t, err)
	assert.Equal(t, dnsmodel.StatusDisabled, zone.Status)
}

func TestRecordsFilterClientSide(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/dnsListRecords", r.URL.Path)
		assert.Equal(t, "example.com", r.URL.Query().Get("domain"))
		fmt.Fprint(w, recordsReply)
	}))

	list, err := p.Records(context.Background(), "example.com", dnsmodel.RecordQuery{Type: "mx"})
	require.NoError(t, err)
	require.Equal(t, 1, list.Total)
	rec := list.Records[0]
	assert.Equal(t, "rr-2", rec.ID)
	assert.Equal(t, "example.com", rec.Name)
	assert.Equal(t, "mx.example.com", rec.Value)
	assert.Equal(t, 7200, rec.TTL)
	require.NotNil(t, rec.Priority)
	assert.Equal(t, 10, *rec.Priority)
}

func TestRecordScansListing(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, recordsReply)
	}))

	rec, err := p.Record(context.Background(), "example.com", "rr-1")
	require.NoError(t, err)
	assert.Equal(t, "www.example.com", rec.Name)
	assert.Equal(t, "1.2.3.4", rec.Value)

	_, err = p.Record(context.Background(), "example.com", "rr-404")
	assert.True(t, dnsmodel.IsKind(err, dnsmodel.ErrRecordNotFound))
}

func TestCreateRecordSendsHostForm(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/dnsAddRecord", r.URL.Path)
		q := r.URL.Query()
		assertCommonParams(t, q)
		assert.Equal(t, "example.com", q.Get("domain"))
		assert.Equal(t, "A", q.Get("rrtype"))
		assert.Equal(t, "www", q.Get("rrhost"))
		assert.Equal(t, "1.2.3.4", q.Get("rrvalue"))
		assert.Equal(t, "3600", q.Get("rrttl"))
		fmt.Fprint(w, `<namesilo><reply><code>300</code><detail>success</detail>
			<record_id>rr-77</record_id></reply></namesilo>`)
	}))

	rec, err := p.CreateRecord(context.Background(), "example.com", dnsmodel.RecordInput{
		Name:  "www.example.com",
		Type:  "A",
		Value: "1.2.3.4",
		TTL:   3600,
	})
	require.NoError(t, err)
	assert.Equal(t, "rr-77", rec.ID)
	assert.Equal(t, "www.example.com", rec.Name)
}

func TestCreateApexMXDefaultsDistance(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		// The apex travels as an empty host.
		host, present := q["rrhost"]
		assert.True(t, present)
		assert.Equal(t, []string{""}, host)
		assert.Equal(t, "MX", q.Get("rrtype"))
		assert.Equal(t, "10", q.Get("rrdistance"))
		fmt.Fprint(w, `<namesilo><reply><code>300</code><detail>success</detail>
			<record_id>rr-78</record_id></reply></namesilo>`)
	}))

	rec, err := p.CreateRecord(context.Background(), "example.com", dnsmodel.RecordInput{
		Name:  "example.com",
		Type:  "MX",
		Value: "mx.example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "rr-78", rec.ID)
	require.NotNil(t, rec.Priority)
	assert.Equal(t, 10, *rec.Priority)
}

func TestCreateRecordRequiresReturnedID(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<namesilo><reply><code>300</code><detail>success</detail></reply></namesilo>`)
	}))

	_, err := p.CreateRecord(context.Background(), "example.com", dnsmodel.RecordInput{
		Name:  "www.example.com",
		Type:  "A",
		Value: "1.2.3.4",
	})
	assert.True(t, dnsmodel.IsKind(err, dnsmodel.ErrInvalidResponse))
}

func TestUpdateRecordRotatesID(t *testing.T) {
	var updated url.Values
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/dnsListRecords":
			fmt.Fprint(w, recordsReply)
		case "/dnsUpdateRecord":
			updated = r.URL.Query()
			fmt.Fprint(w, `<namesilo><reply><code>300</code><detail>success</detail>
				<record_id>rr-90</record_id></reply></namesilo>`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))

	rec, err := p.UpdateRecord(context.Background(), "example.com", "rr-1", dnsmodel.RecordInput{
		TTL: 600,
	})
	require.NoError(t, err)
	assert.Equal(t, "rr-1", updated.Get("rrid"))
	assert.Equal(t, "www", updated.Get("rrhost"))
	assert.Equal(t, "1.2.3.4", updated.Get("rrvalue"))
	assert.Equal(t, "600", updated.Get("rrttl"))
	// The vendor retires the old ID on every rewrite.
	assert.Equal(t, "rr-90", rec.ID)
	assert.Equal(t, 600, rec.TTL)
}

func TestUpdateRecordMissingIsError(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/dnsListRecords" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, recordsReply)
	}))

	_, err := p.UpdateRecord(context.Background(), "example.com", "rr-404", dnsmodel.RecordInput{
		TTL: 600,
	})
	assert.True(t, dnsmodel.IsKind(err, dnsmodel.ErrRecordNotFound))
}

func TestDeleteRecord(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/dnsDeleteRecord", r.URL.Path)
		assert.Equal(t, "example.com", r.URL.Query().Get("domain"))
		assert.Equal(t, "rr-1", r.URL.Query().Get("rrid"))
		fmt.Fprint(w, `<namesilo><reply><code>300</code><detail>success</detail></reply></namesilo>`)
	}))

	require.NoError(t, p.DeleteRecord(context.Background(), "example.com", "rr-1"))
}

func TestErrorMapping(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/listDomains":
			fmt.Fprint(w, `<namesilo><reply><code>110</code><detail>Invalid API Key</detail></reply></namesilo>`)
		case "/dnsDeleteRecord":
			fmt.Fprint(w, `<namesilo><reply><code>210</code><detail>the record does not exist</detail></reply></namesilo>`)
		default:
			fmt.Fprint(w, `<namesilo><reply><code>200</code><detail>domain is not active</detail></reply></namesilo>`)
		}
	}))

	err := p.CheckAuth(context.Background())
	assert.True(t, dnsmodel.IsKind(err, dnsmodel.ErrAuthFailed))
	var derr *dnsmodel.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "110", derr.VendorCode)

	err = p.DeleteRecord(context.Background(), "example.com", "rr-1")
	assert.True(t, dnsmodel.IsKind(err, dnsmodel.ErrRecordNotFound))

	_, err = p.Zone(context.Background(), "missing.org")
	assert.True(t, dnsmodel.IsKind(err, dnsmodel.ErrZoneNotFound))
}

func TestSetRecordStatusUnsupported(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no upstream call expected")
	}))

	err := p.SetRecordStatus(context.Background(), "example.com", "rr-1", false)
	assert.True(t, dnsmodel.IsKind(err, dnsmodel.ErrUnsupported))
}

func TestLinesAndMinTTLDefaults(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no upstream call expected")
	}))

	lines, err := p.Lines(context.Background(), "example.com")
	require.NoError(t, err)
	require.Len(t, lines, 6)
	assert.Equal(t, dnsmodel.LineDefault, lines[0].Code)

	ttl, err := p.MinTTL(context.Background(), "example.com")
	require.NoError(t, err)
	assert.Equal(t, 600, ttl)
}
