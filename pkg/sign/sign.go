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

// Package sign implements the request signing schemes of the supported DNS
// vendors. Every scheme is a pure function of the credentials, a request
// description and an injected clock/nonce source, so signatures are
// reproducible in tests.
package sign

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Clock returns the time a signature is computed at. Production code uses
// time.Now; tests pin it.
type Clock func() time.Time

// Nonce returns a unique string per request for replay protection.
type Nonce func() string

// DefaultClock and DefaultNonce are the production sources.
var (
	DefaultClock Clock = time.Now
	DefaultNonce Nonce = uuid.NewString
)

// Timestamp layouts shared by the schemes.
const (
	layoutISO8601 = "2006-01-02T15:04:05Z"
	layoutCompact = "20060102T150405Z"
	layoutDate    = "20060102"
	layoutDateTC3 = "2006-01-02"
)

func hmacSHA1(key, data []byte) []byte {
	h := hmac.New(sha1.New, key)
	h.Write(data)
	return h.Sum(nil)
}

func hmacSHA256(key, data []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(data)
	return h.Sum(nil)
}

func sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// MD5Hex returns the lowercase hex MD5 digest of s. West.cn's token scheme
// and nothing else uses it.
func MD5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// BasicAuth returns the Authorization header value for id:secret.
func BasicAuth(id, secret string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(id+":"+secret))
}

// percentEncode applies RFC 3986 escaping with the vendor-common quirks:
// space as %20, '*' as %2A and '~' left alone.
func percentEncode(s string) string {
	e := url.QueryEscape(s)
	e = strings.ReplaceAll(e, "+", "%20")
	e = strings.ReplaceAll(e, "*", "%2A")
	e = strings.ReplaceAll(e, "%7E", "~")
	return e
}

// canonicalQuery renders values sorted by key (and by value within a key)
// with RFC 3986 escaping, the form every signing scheme here canonicalizes
// queries in.
func canonicalQuery(values url.Values) string {
	if len(values) == 0 {
		return ""
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		vs := append([]string(nil), values[k]...)
		sort.Strings(vs)
		for _, v := range vs {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(percentEncode(k))
			b.WriteByte('=')
			b.WriteString(percentEncode(v))
		}
	}
	return b.String()
}

// encodePathExceptSlash escapes every path segment but keeps separators,
// as the BCE and v4-style canonical URIs require.
func encodePathExceptSlash(path string) string {
	if path == "" {
		return "/"
	}
	segs := strings.Split(path, "/")
	for i, s := range segs {
		segs[i] = percentEncode(s)
	}
	return strings.Join(segs, "/")
}
