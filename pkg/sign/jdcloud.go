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

// JDCloudRequest describes one JD Cloud openAPI call to sign.
type JDCloudRequest struct {
	Method      string
	Host        string
	Path        string
	Query       url.Values
	Region      string
	Service     string
	ContentType string
	Payload     []byte
}

// JDCloud signs req with the JDCLOUD2-HMAC-SHA256 scheme and returns the
// headers to set, including the nonce header the scheme requires.
func JDCloud(req JDCloudRequest, accessKey, secretKey string, clock Clock, nonce Nonce) http.Header {
	now := clock().UTC()
	fullDate := now.Format(layoutCompact)
	shortDate := now.Format(layoutDate)
	requestNonce := nonce()
	payloadHash := sha256Hex(req.Payload)

	pairs := map[string]string{
		"host":            req.Host,
		"x-jdcloud-date":  fullDate,
		"x-jdcloud-nonce": requestNonce,
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

	scope := shortDate + "/" + req.Region + "/" + req.Service + "/jdcloud2_request"
	stringToSign := "JDCLOUD2-HMAC-SHA256\n" + fullDate + "\n" + scope + "\n" + sha256Hex([]byte(canonicalRequest))

	kDate := hmacSHA256([]byte("JDCLOUD2"+secretKey), []byte(shortDate))
	kRegion := hmacSHA256(kDate, []byte(req.Region))
	kService := hmacSHA256(kRegion, []byte(req.Service))
	kSigning := hmacSHA256(kService, []byte("jdcloud2_request"))
	signature := fmt.Sprintf("%x", hmacSHA256(kSigning, []byte(stringToSign)))

	h := http.Header{}
	h.Set("Host", req.Host)
	h.Set("X-Jdcloud-Date", fullDate)
	h.Set("X-Jdcloud-Nonce", requestNonce)
	if req.ContentType != "" {
		h.Set("Content-Type", req.ContentType)
	}
	h.Set("Authorization", fmt.Sprintf(
		"JDCLOUD2-HMAC-SHA256 Credential=%s/%s, SignedHeaders=%s, Signature=%s",
		accessKey, scope, signedHeaders, signature))
	return h
}
