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

package credfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zonegate/zonegate/dnsmodel"
)

const sampleFile = `
accounts:
  - name: prod-cloudflare
    kind: cloudflare
    secrets:
      apiToken: cf-token
  - name: cn-aliyun
    kind: aliyun
    accountId: tenant-7
    credentialKey: aliyun-shared
    secrets:
      accessKeyId: AK
      accessKeySecret: SK
`

func TestParseAndLookup(t *testing.T) {
	s, err := Parse([]byte(sampleFile))
	require.NoError(t, err)

	acct, err := s.Account("cn-aliyun")
	require.NoError(t, err)
	assert.Equal(t, dnsmodel.KindAliyun, acct.Kind)
	assert.Equal(t, "tenant-7", acct.AccountID)
	assert.Equal(t, "aliyun-shared", acct.CredentialKey)
	assert.Equal(t, "SK", acct.Secrets["accessKeySecret"])
}

func TestAccountNameIsDefaultCredentialKey(t *testing.T) {
	s, err := Parse([]byte(sampleFile))
	require.NoError(t, err)

	acct, err := s.Account("prod-cloudflare")
	require.NoError(t, err)
	assert.Equal(t, "prod-cloudflare", acct.CredentialKey)
}

func TestUnknownAccount(t *testing.T) {
	s, err := Parse([]byte(sampleFile))
	require.NoError(t, err)

	_, err = s.Account("staging")

	de, ok := dnsmodel.AsError(err)
	require.True(t, ok)
	assert.Equal(t, dnsmodel.ErrMissingCredentials, de.Kind)
	assert.Contains(t, de.Message, "staging")
}

func TestNamesSorted(t *testing.T) {
	s, err := Parse([]byte(sampleFile))
	require.NoError(t, err)

	assert.Equal(t, []string{"cn-aliyun", "prod-cloudflare"}, s.Names())
}

func TestParseRejectsBadEntries(t *testing.T) {
	for _, contents := range []string{
		"accounts:\n  - kind: cloudflare\n    secrets: {apiToken: t}\n",
		"accounts:\n  - name: a\n    secrets: {apiToken: t}\n",
		"accounts:\n  - name: a\n    kind: cloudflare\n",
		"accounts:\n  - name: a\n    kind: cloudflare\n    secrets: {apiToken: t}\n  - name: a\n    kind: aliyun\n    secrets: {accessKeyId: k}\n",
	} {
		_, err := Parse([]byte(contents))
		assert.Error(t, err)
	}
}

func TestParseRejectsInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("accounts: ["))
	assert.Error(t, err)
}

func TestLoadFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleFile), 0o600))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, s.Names(), 2)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "absent.yaml")
}
