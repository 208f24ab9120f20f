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

package restclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"

	"github.com/zonegate/zonegate/dnsmodel"
)

func TestDoForwardsHeadersAndHost(t *testing.T) {
	var gotHost, gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHost = r.Host
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte("ok"))
	}))
	defer ts.Close()

	c := New(ts.Client(), "test")
	header := http.Header{}
	header.Set("Host", "signed.example.com")
	header.Set("Authorization", "Bearer token")

	resp, err := c.Do(context.Background(), Request{Method: http.MethodGet, URL: ts.URL, Header: header})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(resp.Body))
	assert.Equal(t, "signed.example.com", gotHost)
	assert.Equal(t, "Bearer token", gotAuth)
}

func TestDoTranscodesGBK(t *testing.T) {
	gbk, _, err := transform.Bytes(simplifiedchinese.GBK.NewEncoder(), []byte(`{"msg":"电信"}`))
	require.NoError(t, err)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(gbk)
	}))
	defer ts.Close()

	c := New(ts.Client(), "westcn")
	resp, err := c.Do(context.Background(), Request{Method: http.MethodGet, URL: ts.URL, GBK: true})
	require.NoError(t, err)
	assert.Equal(t, `{"msg":"电信"}`, string(resp.Body))
}

func TestDoJSONDecodes(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":"example.com","ttl":600}`))
	}))
	defer ts.Close()

	var out struct {
		Name string `json:"name"`
		TTL  int    `json:"ttl"`
	}
	c := New(ts.Client(), "test")
	_, err := c.DoJSON(context.Background(), Request{Method: http.MethodGet, URL: ts.URL}, &out)
	require.NoError(t, err)
	assert.Equal(t, "example.com", out.Name)
	assert.Equal(t, 600, out.TTL)
}

func TestDoJSONInvalidBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer ts.Close()

	var out map[string]any
	c := New(ts.Client(), "test")
	_, err := c.DoJSON(context.Background(), Request{Method: http.MethodGet, URL: ts.URL}, &out)

	de, ok := dnsmodel.AsError(err)
	require.True(t, ok)
	assert.Equal(t, dnsmodel.ErrInvalidResponse, de.Kind)
	assert.Contains(t, de.Meta["body"], "not json")
}

func TestDoJSONHTTPErrors(t *testing.T) {
	for _, tc := range []struct {
		status    int
		retriable bool
	}{
		{http.StatusNotFound, false},
		{http.StatusRequestTimeout, true},
		{http.StatusTooManyRequests, true},
		{http.StatusBadGateway, true},
	} {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			w.Write([]byte("plain failure"))
		}))

		var out map[string]any
		c := New(ts.Client(), "test")
		_, err := c.DoJSON(context.Background(), Request{Method: http.MethodGet, URL: ts.URL}, &out)
		ts.Close()

		de, ok := dnsmodel.AsError(err)
		require.True(t, ok, "status %d", tc.status)
		assert.Equal(t, dnsmodel.ErrHTTP, de.Kind)
		assert.Equal(t, tc.status, de.HTTPStatus)
		assert.Equal(t, tc.retriable, de.Retriable, "status %d", tc.status)
	}
}

func TestDoJSONVendorEnvelopePassesThrough(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":"InvalidDomainName.Format","message":"bad zone"}`))
	}))
	defer ts.Close()

	var out struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	c := New(ts.Client(), "test")
	resp, err := c.DoJSON(context.Background(), Request{Method: http.MethodGet, URL: ts.URL}, &out)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "InvalidDomainName.Format", out.Code)
}

func TestDoJSONNoContent(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	var out map[string]any
	c := New(ts.Client(), "test")
	resp, err := c.DoJSON(context.Background(), Request{Method: http.MethodDelete, URL: ts.URL}, &out)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestDoCancelledContext(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(ts.Client(), "test")
	_, err := c.Do(ctx, Request{Method: http.MethodGet, URL: ts.URL})

	de, ok := dnsmodel.AsError(err)
	require.True(t, ok)
	assert.Equal(t, dnsmodel.ErrNetwork, de.Kind)
	assert.Equal(t, true, de.Meta["cancelled"])
	assert.False(t, de.Retriable)
}

func TestDoConnectionRefusedIsRetriable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	c := New(&http.Client{}, "test")
	_, err := c.Do(context.Background(), Request{Method: http.MethodGet, URL: url})

	de, ok := dnsmodel.AsError(err)
	require.True(t, ok)
	assert.Equal(t, dnsmodel.ErrNetwork, de.Kind)
	assert.True(t, de.Retriable)
}
