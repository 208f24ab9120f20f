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

package dnsmodel

// Account binds a provider kind to one tenant's decrypted secrets. It is
// the unit of isolation for caching and adapter reuse: two accounts never
// share cache entries or adapter instances unless kind, credentials and
// account scope all match.
//
// Secrets are held only in memory and are excluded from serialization.
type Account struct {
	Kind    ProviderKind      `json:"kind"`
	Secrets map[string]string `json:"-"`
	// AccountID disambiguates tenants that share upstream credentials.
	AccountID string `json:"accountId,omitempty"`
	// CredentialKey, when set, is a stable identifier for the stored
	// credential and replaces the secrets in cache namespace derivation.
	CredentialKey string `json:"credentialKey,omitempty"`
}
