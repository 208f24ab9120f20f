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
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// HuaweiRequest describes one Huawei Cloud call to sign.
type HuaweiRequest struct {
	Method      string
	Host        string
	Path        string
	Query       url.Values
	ContentType string
	Payload     []byte
}

// Huawei signs req with the SDK-HMAC-SHA256 scheme. Unlike the other
// v4-shaped schemes it has no credential scope: the secret key signs the
// string-to-sign directly.
func Huawei(req HuaweiRequest, accessKey, secretKey string, clock Clock) http.Header {
	now := clock().UTC()
	date := now.Format(layoutCompact)
	payloadHash := sha256Hex(req.Payload)

	pairs := map[string]string{
		"host":       req.Host,
		"x-sdk-date": date,
	}
	if req.ContentType != "" {
		pairs["content-type"] = req.ContentType
	}
	headerBlock, signedHeaders := canonicalHeaders(pairs)

	// The canonical URI always ends with a slash in this scheme.
	path := req.Path
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	canonicalRequest := canonicalRequestV4(req.Method, path, req.Query, headerBlock, signedHeaders, payloadHash)

	stringToSign := "SDK-HMAC-SHA256\n" + date + "\n" + sha256Hex([]byte(canonicalRequest))
	signature := fmt.Sprintf("%x", hmacSHA256([]byte(secretKey), []byte(stringToSign)))

	h := http.Header{}
	h.Set("Host", req.Host)
	h.Set("X-Sdk-Date", date)
	if req.ContentType != "" {
		h.Set("Content-Type", req.ContentType)
	}
	h.Set("Authorization", fmt.Sprintf(
		"SDK-HMAC-SHA256 Access=%s, SignedHeaders=%s, Signature=%s",
		accessKey, signedHeaders, signature))
	return h
}
