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
	"net/url"
)

// bceExpireSeconds is the validity window stamped into every signature.
const bceExpireSeconds = 1800

// BCERequest describes one Baidu Cloud call to sign.
type BCERequest struct {
	Method string
	Host   string
	Path   string
	Query  url.Values
}

// BCE signs req with the bce-auth-v1 scheme and returns the Authorization
// header value. Only the host header participates in signing, which is all
// the DNS API requires.
func BCE(req BCERequest, accessKey, secretKey string, clock Clock) string {
	now := clock().UTC()
	prefix := fmt.Sprintf("bce-auth-v1/%s/%s/%d", accessKey, now.Format(layoutISO8601), bceExpireSeconds)
	signingKey := fmt.Sprintf("%x", hmacSHA256([]byte(secretKey), []byte(prefix)))

	path := req.Path
	if path == "" {
		path = "/"
	}
	canonicalRequest := req.Method + "\n" +
		encodePathExceptSlash(path) + "\n" +
		canonicalQuery(req.Query) + "\n" +
		"host:" + percentEncode(req.Host)

	signature := fmt.Sprintf("%x", hmacSHA256([]byte(signingKey), []byte(canonicalRequest)))
	return prefix + "/host/" + signature
}
