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
	"strconv"
)

// TC3Request describes one Tencent Cloud API 3.0 call to sign. The body is
// always JSON POSTed to "/".
type TC3Request struct {
	Host    string
	Service string
	Action  string
	Version string
	Region  string
	Payload []byte
}

const tc3ContentType = "application/json"

// TC3 signs req with the TC3-HMAC-SHA256 scheme and returns the complete
// header set for the call, including the X-TC-* envelope headers.
func TC3(req TC3Request, secretID, secretKey string, clock Clock) http.Header {
	now := clock().UTC()
	date := now.Format(layoutDateTC3)

	canonicalHeaders := "content-type:" + tc3ContentType + "\nhost:" + req.Host + "\n"
	signedHeaders := "content-type;host"
	canonicalRequest := "POST\n/\n\n" +
		canonicalHeaders + "\n" +
		signedHeaders + "\n" +
		sha256Hex(req.Payload)

	scope := date + "/" + req.Service + "/tc3_request"
	stringToSign := "TC3-HMAC-SHA256\n" +
		strconv.FormatInt(now.Unix(), 10) + "\n" +
		scope + "\n" +
		sha256Hex([]byte(canonicalRequest))

	secretDate := hmacSHA256([]byte("TC3"+secretKey), []byte(date))
	secretService := hmacSHA256(secretDate, []byte(req.Service))
	secretSigning := hmacSHA256(secretService, []byte("tc3_request"))
	signature := fmt.Sprintf("%x", hmacSHA256(secretSigning, []byte(stringToSign)))

	h := http.Header{}
	h.Set("Content-Type", tc3ContentType)
	h.Set("Host", req.Host)
	h.Set("X-TC-Action", req.Action)
	h.Set("X-TC-Version", req.Version)
	h.Set("X-TC-Timestamp", strconv.FormatInt(now.Unix(), 10))
	if req.Region != "" {
		h.Set("X-TC-Region", req.Region)
	}
	h.Set("Authorization", fmt.Sprintf(
		"TC3-HMAC-SHA256 Credential=%s/%s, SignedHeaders=%s, Signature=%s",
		secretID, scope, signedHeaders, signature))
	return h
}
