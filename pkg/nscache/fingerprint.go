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

package nscache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// fingerprintLen keeps keys short while leaving collisions irrelevant at
// cache scale.
const fingerprintLen = 10

// Fingerprint derives a short stable token from a normalized query for
// key construction. Queries must be normalized first so equivalent
// spellings share an entry.
func Fingerprint(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return "0000000000"
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])[:fingerprintLen]
}
