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

// Package restclient is the one HTTP path every provider adapter goes
// through. It owns body handling, GBK transcoding, error classification
// and per-call metrics; adapters own URLs, signing and payload schemas.
package restclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"

	"github.com/zonegate/zonegate/dnsmodel"
)

// maxErrorBodyBytes bounds how much of an undecodable body is carried in
// error metadata.
const maxErrorBodyBytes = 512

// Client executes vendor API calls over an injected *http.Client.
type Client struct {
	http     *http.Client
	limiter  ratelimit.Limiter
	provider string
}

// Option configures a Client.
type Option func(*Client)

// WithRateLimit caps the client at n calls per second, blocking callers
// the way the upstream token buckets would otherwise throttle them.
func WithRateLimit(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.limiter = ratelimit.New(n, ratelimit.WithoutSlack)
		}
	}
}

// New returns a client labeled with the provider kind for metrics. A nil
// httpClient falls back to http.DefaultClient.
func New(httpClient *http.Client, provider string, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	c := &Client{http: httpClient, provider: provider}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request describes one upstream call.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
	// GBK marks responses that arrive GBK-encoded and need transcoding
	// to UTF-8 before parsing.
	GBK bool
	// Action labels the call in metrics; the URL path is used when empty.
	Action string
}

// Response is the raw upstream reply, body fully read and transcoded.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Do executes the request and returns the raw response. Transport-level
// failures come back as typed Network errors; cancellation is marked
// non-retriable.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	if c.limiter != nil {
		c.limiter.Take()
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, dnsmodel.NewErrorf(dnsmodel.ErrNetwork, "building request: %v", err)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	// Go sends the Host header from the request struct, not the map.
	if host := req.Header.Get("Host"); host != "" {
		httpReq.Host = host
	}

	httpResp, err := c.http.Do(httpReq)
	c.count(req, httpResp, err)
	if err != nil {
		return nil, c.networkError(ctx, err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, c.networkError(ctx, err)
	}
	if req.GBK && len(raw) > 0 {
		raw, _, err = transform.Bytes(simplifiedchinese.GBK.NewDecoder(), raw)
		if err != nil {
			de := dnsmodel.NewErrorf(dnsmodel.ErrInvalidResponse, "transcoding GBK response: %v", err)
			de.HTTPStatus = httpResp.StatusCode
			return nil, de
		}
	}

	log.WithFields(log.Fields{
		"provider": c.provider,
		"method":   req.Method,
		"url":      httpReq.URL.Redacted(),
		"status":   httpResp.StatusCode,
	}).Debug("upstream call")

	return &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       raw,
	}, nil
}

// DoJSON executes the request and decodes the body into out when both are
// present. Vendor error envelopes that decode fine are returned to the
// caller for classification; everything else becomes a typed error here.
func (c *Client) DoJSON(ctx context.Context, req Request, out any) (*Response, error) {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(resp.Body) == 0 || resp.StatusCode == http.StatusNoContent {
		if resp.StatusCode >= http.StatusBadRequest {
			return resp, httpError(resp)
		}
		return resp, nil
	}
	if out == nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return resp, httpError(resp)
		}
		return resp, nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return resp, httpError(resp)
		}
		de := dnsmodel.NewErrorf(dnsmodel.ErrInvalidResponse, "decoding response: %v", err)
		de.HTTPStatus = resp.StatusCode
		de.WithMeta("body", truncate(resp.Body))
		return resp, de
	}
	return resp, nil
}

func (c *Client) networkError(ctx context.Context, err error) *dnsmodel.Error {
	de := dnsmodel.NewErrorf(dnsmodel.ErrNetwork, "%v", err)
	if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return de.WithMeta("cancelled", true)
	}
	de.Retriable = dnsmodel.RetriableNetworkMessage(err.Error())
	return de
}

func (c *Client) count(req Request, resp *http.Response, err error) {
	action := req.Action
	if action == "" {
		if u := reqPath(req.URL); u != "" {
			action = u
		} else {
			action = "unknown"
		}
	}
	code := "error"
	if err == nil && resp != nil {
		code = strconv.Itoa(resp.StatusCode)
	}
	apiCallsTotal.WithLabelValues(c.provider, action, code).Inc()
}

func httpError(resp *Response) *dnsmodel.Error {
	de := dnsmodel.NewErrorf(dnsmodel.ErrHTTP, "upstream returned HTTP %d", resp.StatusCode)
	de.HTTPStatus = resp.StatusCode
	de.Retriable = dnsmodel.RetriableHTTPStatus(resp.StatusCode)
	if len(resp.Body) > 0 {
		de.WithMeta("body", truncate(resp.Body))
	}
	return de
}

func truncate(body []byte) string {
	if len(body) > maxErrorBodyBytes {
		body = body[:maxErrorBodyBytes]
	}
	return string(body)
}

func reqPath(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Path
}
