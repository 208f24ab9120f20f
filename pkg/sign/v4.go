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
	"net/url"
	"sort"
	"strings"
)

// The Volcengine, JDCloud and Huawei schemes all canonicalize requests the
// AWS-v4 way and differ only in key derivation and header naming. The
// helpers here build the shared canonical pieces.

// canonicalHeaders renders the lowercase name:value header block plus the
// semicolon-joined signed header list, both sorted by name.
func canonicalHeaders(pairs map[string]string) (block, signed string) {
	names := make([]string, 0, len(pairs))
	for n := range pairs {
		names = append(names, strings.ToLower(n))
	}
	sort.Strings(names)

	var b, s strings.Builder
	for i, n := range names {
		b.WriteString(n)
		b.WriteByte(':')
		b.WriteString(strings.TrimSpace(pairs[n]))
		b.WriteByte('\n')
		if i > 0 {
			s.WriteByte(';')
		}
		s.WriteString(n)
	}
	return b.String(), s.String()
}

// canonicalRequestV4 assembles the v4-shaped canonical request.
func canonicalRequestV4(method, path string, query url.Values, headerBlock, signedHeaders, payloadHash string) string {
	return strings.ToUpper(method) + "\n" +
		encodePathExceptSlash(path) + "\n" +
		canonicalQuery(query) + "\n" +
		headerBlock + "\n" +
		signedHeaders + "\n" +
		payloadHash
}
