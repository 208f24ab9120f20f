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
)

// VolcRequest describes one Volcengine open-API call to sign. Action and
// Version travel in Query; writes carry a JSON payload.
type VolcRequest struct {
	Method      string
	Host        string
	Path        string
	Query       url.Values
	Region      string
	Service     string
	ContentType string
	Payload     []byte
}

// Volc signs req with Volcengine's HMAC-SHA256 scheme (v4-shaped, scope
// suffix "request", no key prefix) and returns the headers to set.
func Volc(req VolcRequest, accessKey, secretKey string, clock Clock) http.Header {
	now := clock().UTC()
	xdate := now.Format(layoutCompact)
	shortDate := now.Format(layoutDate)
	payloadHash := sha256Hex(req.Payload)

	pairs := map[string]string{
		"host":             req.Host,
		"x-date":           xdate,
		"x-content-sha256": payloadHash,
	}
	if req.ContentType != "" {
		pairs["content-type"] = req.ContentType
	}
	headerBlock, signedHeaders := canonicalHeaders(pairs)

	path := req.Path
	if path == "" {
		path = "/"
	}
	canonicalRequest := canonicalRequestV4(req.Method, path, req.Query, headerBlock, signedHeaders, payloadHash)

	scope := shortDate + "/" + req.Region + "/" + req.Service + "/request"
	stringToSign := "HMAC-SHA256\n" + xdate + "\n" + scope + "\n" + sha256Hex([]byte(canonicalRequest))

	kDate := hmacSHA256([]byte(secretKey), []byte(shortDate))
	kRegion := hmacSHA256(kDate, []byte(req.Region))
	kService := hmacSHA256(kRegion, []byte(req.Service))
	kSigning := hmacSHA256(kService, []byte("request"))
	signature := fmt.Sprintf("%x", hmacSHA256(kSigning, []byte(stringToSign)))

	h := http.Header{}
	h.Set("Host", req.Host)
	h.Set("X-Date", xdate)
	h.Set("X-Content-Sha256", payloadHash)
	if req.ContentType != "" {
		h.Set("Content-Type", req.ContentType)
	}
	h.Set("Authorization", fmt.Sprintf(
		"HMAC-SHA256 Credential=%s/%s, SignedHeaders=%s, Signature=%s",
		accessKey, scope, signedHeaders, signature))
	return h
}
