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

package sign

import (
	"encoding/base64"
	"net/url"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testClock Clock = func() time.Time {
		return time.Date(2024, 1, 15, 3, 4, 5, 0, time.UTC)
	}
	testNonce Nonce = func() string { return "fixed-nonce" }

	hex64 = regexp.MustCompile(`Signature=[0-9a-f]{64}$`)
)

func TestMD5Hex(t *testing.T) {
	assert.Equal(t, "900150983cd24fb0d6963f7d28e17f72", MD5Hex("abc"))
}

func TestSHA256HexEmpty(t *testing.T) {
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		sha256Hex(nil))
}

func TestBasicAuth(t *testing.T) {
	assert.Equal(t, "Basic aWQ6c2VjcmV0", BasicAuth("id", "secret"))
}

func TestPercentEncode(t *testing.T) {
	assert.Equal(t, "a%20b%2Ac~", percentEncode("a b*c~"))
	assert.Equal(t, "%E6%98%BE%E6%80%A7URL", percentEncode("显性URL"))
}

func TestCanonicalQuerySorted(t *testing.T) {
	q := url.Values{}
	q.Set("b", "2")
	q.Set("a", "1")
	q.Set("c", "x y")
	assert.Equal(t, "a=1&b=2&c=x%20y", canonicalQuery(q))
	assert.Equal(t, "", canonicalQuery(nil))
}

func TestCanonicalHeaders(t *testing.T) {
	block, signed := canonicalHeaders(map[string]string{
		"x-date": "20240115T030405Z",
		"host":   "example.com",
	})
	assert.Equal(t, "host:example.com\nx-date:20240115T030405Z\n", block)
	assert.Equal(t, "host;x-date", signed)
}

func TestAliyunRPC(t *testing.T) {
	params := url.Values{}
	params.Set("Action", "DescribeDomains")
	params.Set("Version", "2015-01-09")

	signed := AliyunRPC("GET", params, "testid", "testsecret", testClock, testNonce)

	assert.Equal(t, "JSON", signed.Get("Format"))
	assert.Equal(t, "HMAC-SHA1", signed.Get("SignatureMethod"))
	assert.Equal(t, "1.0", signed.Get("SignatureVersion"))
	assert.Equal(t, "fixed-nonce", signed.Get("SignatureNonce"))
	assert.Equal(t, "2024-01-15T03:04:05Z", signed.Get("Timestamp"))
	assert.Equal(t, "testid", signed.Get("AccessKeyId"))

	// HMAC-SHA1 digests are 20 bytes before base64.
	raw, err := base64.StdEncoding.DecodeString(signed.Get("Signature"))
	require.NoError(t, err)
	assert.Len(t, raw, 20)

	// Input params must stay untouched.
	assert.Empty(t, params.Get("Signature"))

	again := AliyunRPC("GET", params, "testid", "testsecret", testClock, testNonce)
	assert.Equal(t, signed.Get("Signature"), again.Get("Signature"))

	other := AliyunRPC("GET", params, "testid", "othersecret", testClock, testNonce)
	assert.NotEqual(t, signed.Get("Signature"), other.Get("Signature"))
}

func TestTC3(t *testing.T) {
	h := TC3(TC3Request{
		Host:    "dnspod.tencentcloudapi.com",
		Service: "dnspod",
		Action:  "DescribeDomainList",
		Version: "2021-03-23",
		Payload: []byte(`{"Offset":0,"Limit":100}`),
	}, "AKIDtest", "secret", testClock)

	assert.Equal(t, "application/json", h.Get("Content-Type"))
	assert.Equal(t, "DescribeDomainList", h.Get("X-TC-Action"))
	assert.Equal(t, "2021-03-23", h.Get("X-TC-Version"))
	assert.Equal(t, "1705287845", h.Get("X-TC-Timestamp"))
	assert.Empty(t, h.Get("X-TC-Region"))

	auth := h.Get("Authorization")
	assert.Contains(t, auth, "TC3-HMAC-SHA256 Credential=AKIDtest/2024-01-15/dnspod/tc3_request, ")
	assert.Contains(t, auth, "SignedHeaders=content-type;host, ")
	assert.Regexp(t, hex64, auth)
}

func TestVolc(t *testing.T) {
	q := url.Values{}
	q.Set("Action", "ListZones")
	q.Set("Version", "2018-08-01")

	h := Volc(VolcRequest{
		Method:  "GET",
		Host:    "open.volcengineapi.com",
		Path:    "/",
		Query:   q,
		Region:  "cn-north-1",
		Service: "DNS",
	}, "ak", "sk", testClock)

	assert.Equal(t, "20240115T030405Z", h.Get("X-Date"))
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		h.Get("X-Content-Sha256"))

	auth := h.Get("Authorization")
	assert.Contains(t, auth, "HMAC-SHA256 Credential=ak/20240115/cn-north-1/DNS/request, ")
	assert.Contains(t, auth, "SignedHeaders=host;x-content-sha256;x-date, ")
	assert.Regexp(t, hex64, auth)
}

func TestJDCloud(t *testing.T) {
	h := JDCloud(JDCloudRequest{
		Method:      "GET",
		Host:        "domainservice.jdcloud-api.com",
		Path:        "/v2/regions/cn-north-1/domains",
		Query:       url.Values{"pageNumber": []string{"1"}},
		Region:      "cn-north-1",
		Service:     "domainservice",
		ContentType: "application/json",
	}, "ak", "sk", testClock, testNonce)

	assert.Equal(t, "20240115T030405Z", h.Get("X-Jdcloud-Date"))
	assert.Equal(t, "fixed-nonce", h.Get("X-Jdcloud-Nonce"))

	auth := h.Get("Authorization")
	assert.Contains(t, auth, "JDCLOUD2-HMAC-SHA256 Credential=ak/20240115/cn-north-1/domainservice/jdcloud2_request, ")
	assert.Contains(t, auth, "SignedHeaders=content-type;host;x-jdcloud-date;x-jdcloud-nonce, ")
	assert.Regexp(t, hex64, auth)
}

func TestHuawei(t *testing.T) {
	h := Huawei(HuaweiRequest{
		Method: "GET",
		Host:   "dns.myhuaweicloud.com",
		Path:   "/v2/zones",
	}, "ak", "sk", testClock)

	assert.Equal(t, "20240115T030405Z", h.Get("X-Sdk-Date"))

	auth := h.Get("Authorization")
	assert.Contains(t, auth, "SDK-HMAC-SHA256 Access=ak, ")
	assert.Contains(t, auth, "SignedHeaders=host;x-sdk-date, ")
	assert.Regexp(t, hex64, auth)
}

func TestBCE(t *testing.T) {
	auth := BCE(BCERequest{
		Method: "GET",
		Host:   "dns.baidubce.com",
		Path:   "/v1/dns/zone",
	}, "ak", "sk", testClock)

	assert.Regexp(t, `^bce-auth-v1/ak/2024-01-15T03:04:05Z/1800/host/[0-9a-f]{64}$`, auth)
}

func TestWestToken(t *testing.T) {
	v := WestToken("user", "apipass", testClock)

	millis := v.Get("time")
	assert.Equal(t, "1705287845000", millis)
	assert.Equal(t, "user", v.Get("username"))
	assert.Equal(t, MD5Hex("user"+"apipass"+millis), v.Get("token"))
	assert.Len(t, v.Get("token"), 32)
}

func TestDNSPodToken(t *testing.T) {
	v := DNSPodToken("1001", "abcdef")
	assert.Equal(t, "1001,abcdef", v.Get("login_token"))
	assert.Equal(t, "json", v.Get("format"))
}
