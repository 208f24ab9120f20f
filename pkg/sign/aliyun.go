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
)

// AliyunRPC signs RPC-style query parameters with the Alibaba Cloud
// HMAC-SHA1 scheme. It returns a copy of params extended with the common
// fields (Format, Timestamp, SignatureNonce, ...) and the final Signature.
// The caller provides Action, Version and the business parameters.
func AliyunRPC(method string, params url.Values, accessKeyID, accessKeySecret string, clock Clock, nonce Nonce) url.Values {
	signed := url.Values{}
	for k, vs := range params {
		signed[k] = append([]string(nil), vs...)
	}
	signed.Set("Format", "JSON")
	signed.Set("AccessKeyId", accessKeyID)
	signed.Set("SignatureMethod", "HMAC-SHA1")
	signed.Set("SignatureVersion", "1.0")
	signed.Set("SignatureNonce", nonce())
	signed.Set("Timestamp", clock().UTC().Format(layoutISO8601))

	stringToSign := method + "&" + percentEncode("/") + "&" + percentEncode(canonicalQuery(signed))
	mac := hmacSHA1([]byte(accessKeySecret+"&"), []byte(stringToSign))
	signed.Set("Signature", base64.StdEncoding.EncodeToString(mac))
	return signed
}
