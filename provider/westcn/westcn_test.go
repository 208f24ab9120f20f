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

package westcn

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"

	"github.com/zonegate/zonegate/dnsmodel"
	"github.com/zonegate/zonegate/pkg/sign"
	"github.com/zonegate/zonegate/provider"
)

func newTestProvider(t *testing.T, handler http.Handler) *Provider {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	p, err := New(map[string]string{"username": "westuser", "apiPassword": "westpass"}, provider.Options{
		HTTPClient: ts.Client(),
		BaseURL:    ts.URL,
	})
	require.NoError(t, err)
	return p
}

// gbk encodes a UTF-8 reply the way the vendor does.
func gbk(t *testing.T, s string) []byte {
	t.Helper()
	b, _, err := transform.Bytes(simplifiedchinese.GBK.NewEncoder(), []byte(s))
	require.NoError(t, err)
	return b
}

func TestNewRequiresSecrets(t *testing.T) {
	_, err := New(map[string]string{"username": "only-user"}, provider.Options{})
	assert.True(t, dnsmodel.IsKind(err, dnsmodel.ErrMissingCredentials))
}

func TestCheckAuthSendsToken(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "/domain/", r.URL.Path)
		assert.Equal(t, "getdomains", r.PostForm.Get("act"))
		assert.Equal(t, "westuser", r.PostForm.Get("username"))
		millis := r.PostForm.Get("time")
		require.NotEmpty(t, millis)
		assert.Equal(t, sign.MD5Hex("westuser"+"westpass"+millis), r.PostForm.Get("token"))
		fmt.Fprint(w, `{"result":200,"msg":"ok","data":{"items":[],"total":0}}`)
	}))

	require.NoError(t, p.CheckAuth(context.Background()))
}

func TestZonesDrainsVendorPages(t *testing.T) {
	calls := 0
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		calls++
		switch r.PostForm.Get("pageno") {
		case "1":
			var b strings.Builder
			for i := 0; i < 100; i++ {
				if i > 0 {
					b.WriteByte(',')
				}
				fmt.Fprintf(&b, `{"domain":"site%03d.com"}`, i)
			}
			fmt.Fprintf(w, `{"result":200,"msg":"ok","data":{"items":[%s],"total":101}}`, b.String())
		case "2":
			fmt.Fprint(w, `{"result":200,"msg":"ok","data":{"items":[{"domain":"example.com"}],"total":101}}`)
		default:
			t.Errorf("unexpected pageno %q", r.PostForm.Get("pageno"))
		}
	}))

	list, err := p.Zones(context.Background(), dnsmodel.ZoneQuery{Keyword: "example", PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "example.com", list.Zones[0].Name)
}

func TestZoneMatchesExactName(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result":200,"msg":"ok","data":{"items":[
			{"domain":"sub.example.com"},{"domain":"example.com"}],"total":2}}`)
	}))

	zone, err := p.Zone(context.Background(), "Example.COM.")
	require.NoError(t, err)
	assert.Equal(t, "example.com", zone.ID)

	_, err = p.Zone(context.Background(), "missing.org")
	assert.True(t, dnsmodel.IsKind(err, dnsmodel.ErrZoneNotFound))
}

func TestRecordsServerPaging(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "dnsrec.list", r.PostForm.Get("act"))
		assert.Equal(t, "example.com", r.PostForm.Get("domain"))
		assert.Equal(t, "2", r.PostForm.Get("pageno"))
		assert.Equal(t, "50", r.PostForm.Get("limit"))
		assert.Equal(t, "www", r.PostForm.Get("hostname"))
		assert.Equal(t, "MX", r.PostForm.Get("record_type"))
		w.Write(gbk(t, `{"result":200,"msg":"操作成功","data":{"items":[
			{"id":101,"item":"www","type":"MX","value":"mx.example.com","level":20,"ttl":900,"pause":1,"line":"LTEL"}
		],"total":51}}`))
	}))

	list, err := p.Records(context.Background(), "example.com", dnsmodel.RecordQuery{
		Page:      2,
		PageSize:  50,
		SubDomain: "www",
		Type:      "mx",
	})
	require.NoError(t, err)
	assert.Equal(t, 51, list.Total)
	rec := list.Records[0]
	assert.Equal(t, "101", rec.ID)
	assert.Equal(t, "www.example.com", rec.Name)
	assert.Equal(t, "telecom", rec.Line)
	assert.Equal(t, dnsmodel.StatusDisabled, rec.Status)
	require.NotNil(t, rec.Priority)
	assert.Equal(t, 20, *rec.Priority)
}

func TestRecordsValueFilterFallsBackToClient(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		// The fallback drains full pages and never forwards the filter.
		assert.Equal(t, "100", r.PostForm.Get("limit"))
		assert.Empty(t, r.PostForm.Get("value"))
		fmt.Fprint(w, `{"result":200,"msg":"ok","data":{"items":[
			{"id":1,"item":"a","type":"A","value":"1.2.3.4","ttl":900,"pause":0,"line":""},
			{"id":2,"item":"b","type":"A","value":"5.6.7.8","ttl":900,"pause":0,"line":""}
		],"total":2}}`)
	}))

	list, err := p.Records(context.Background(), "example.com", dnsmodel.RecordQuery{Value: "5.6"})
	require.NoError(t, err)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "2", list.Records[0].ID)
	assert.Equal(t, "default", list.Records[0].Line)
}

func TestCreateRecordTranslatesLine(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "dnsrec.add", r.PostForm.Get("act"))
		assert.Equal(t, "www", r.PostForm.Get("host"))
		assert.Equal(t, "A", r.PostForm.Get("type"))
		assert.Equal(t, "1.2.3.4", r.PostForm.Get("value"))
		assert.Equal(t, "900", r.PostForm.Get("ttl"))
		assert.Equal(t, "LTEL", r.PostForm.Get("line"))
		fmt.Fprint(w, `{"result":200,"msg":"ok","data":{"id":812944}}`)
	}))

	rec, err := p.CreateRecord(context.Background(), "example.com", dnsmodel.RecordInput{
		Name:  "www.example.com",
		Type:  "A",
		Value: "1.2.3.4",
		TTL:   900,
		Line:  "telecom",
	})
	require.NoError(t, err)
	assert.Equal(t, "812944", rec.ID)
	assert.Equal(t, "telecom", rec.Line)
}

func TestCreateMXDefaultsLevel(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "", r.PostForm.Get("line"))
		assert.Equal(t, "10", r.PostForm.Get("level"))
		fmt.Fprint(w, `{"result":200,"msg":"ok","data":{"id":5}}`)
	}))

	rec, err := p.CreateRecord(context.Background(), "example.com", dnsmodel.RecordInput{
		Name:  "example.com",
		Type:  "MX",
		Value: "mx.example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "5", rec.ID)
}

func TestCreateRecordDisabledPausesAfter(t *testing.T) {
	var acts []string
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		acts = append(acts, r.PostForm.Get("act"))
		switch r.PostForm.Get("act") {
		case "dnsrec.add":
			fmt.Fprint(w, `{"result":200,"msg":"ok","data":{"id":7}}`)
		case "dnsrec.pause":
			assert.Equal(t, "7", r.PostForm.Get("id"))
			assert.Equal(t, "0", r.PostForm.Get("val"))
			fmt.Fprint(w, `{"result":200,"msg":"ok"}`)
		}
	}))

	rec, err := p.CreateRecord(context.Background(), "example.com", dnsmodel.RecordInput{
		Name:   "www.example.com",
		Type:   "A",
		Value:  "1.2.3.4",
		Status: dnsmodel.StatusDisabled,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"dnsrec.add", "dnsrec.pause"}, acts)
	assert.Equal(t, dnsmodel.StatusDisabled, rec.Status)
}

func TestUpdateRecordFillsGaps(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		switch r.PostForm.Get("act") {
		case "dnsrec.list":
			fmt.Fprint(w, `{"result":200,"msg":"ok","data":{"items":[
				{"id":101,"item":"www","type":"A","value":"1.2.3.4","ttl":900,"pause":0,"line":"LTEL"}
			],"total":1}}`)
		case "dnsrec.modify":
			assert.Equal(t, "101", r.PostForm.Get("id"))
			assert.Equal(t, "www", r.PostForm.Get("host"))
			assert.Equal(t, "A", r.PostForm.Get("type"))
			assert.Equal(t, "5.6.7.8", r.PostForm.Get("value"))
			assert.Equal(t, "900", r.PostForm.Get("ttl"))
			assert.Equal(t, "LTEL", r.PostForm.Get("line"))
			fmt.Fprint(w, `{"result":200,"msg":"ok"}`)
		default:
			t.Errorf("unexpected act %q", r.PostForm.Get("act"))
		}
	}))

	rec, err := p.UpdateRecord(context.Background(), "example.com", "101", dnsmodel.RecordInput{
		Value: "5.6.7.8",
	})
	require.NoError(t, err)
	assert.Equal(t, "www.example.com", rec.Name)
	assert.Equal(t, "5.6.7.8", rec.Value)
	assert.Equal(t, "telecom", rec.Line)
}

func TestSetRecordStatusEnables(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "dnsrec.pause", r.PostForm.Get("act"))
		assert.Equal(t, "example.com", r.PostForm.Get("domain"))
		assert.Equal(t, "101", r.PostForm.Get("id"))
		assert.Equal(t, "1", r.PostForm.Get("val"))
		fmt.Fprint(w, `{"result":200,"msg":"ok"}`)
	}))

	require.NoError(t, p.SetRecordStatus(context.Background(), "example.com", "101", true))
}

func TestDeleteRecord(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "dnsrec.remove", r.PostForm.Get("act"))
		assert.Equal(t, "101", r.PostForm.Get("id"))
		fmt.Fprint(w, `{"result":200,"msg":"ok"}`)
	}))

	require.NoError(t, p.DeleteRecord(context.Background(), "example.com", "101"))
}

func TestErrorCarriesTranscodedMessage(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(gbk(t, `{"result":310,"msg":"用户校验失败"}`))
	}))

	_, err := p.Zones(context.Background(), dnsmodel.ZoneQuery{})
	assert.True(t, dnsmodel.IsKind(err, dnsmodel.ErrAuthFailed))
	var derr *dnsmodel.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "310", derr.VendorCode)
	assert.Equal(t, "用户校验失败", derr.Message)
}

func TestLines(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no upstream call expected")
	}))

	lines, err := p.Lines(context.Background(), "example.com")
	require.NoError(t, err)
	require.Len(t, lines, 7)
	assert.Equal(t, dnsmodel.LineDefault, lines[0].Code)
	assert.Equal(t, dnsmodel.LineSearch, lines[6].Code)
}
