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

package tlsutils

import (
	"crypto/tls"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rsaCertPEM = `-----BEGIN CERTIFICATE-----
MIIB0zCCAX2gAwIBAgIJAI/M7BYjwB+uMA0GCSqGSIb3DQEBBQUAMEUxCzAJBgNV
BAYTAkFVMRMwEQYDVQQIDApTb21lLVN0YXRlMSEwHwYDVQQKDBhJbnRlcm5ldCBX
aWRnaXRzIFB0eSBMdGQwHhcNMTIwOTEyMjE1MjAyWhcNMTUwOTEyMjE1MjAyWjBF
MQswCQYDVQQGEwJBVTETMBEGA1UECAwKU29tZS1TdGF0ZTEhMB8GA1UECgwYSW50
ZXJuZXQgV2lkZ2l0cyBQdHkgTHRkMFwwDQYJKoZIhvcNAQEBBQADSwAwSAJBANLJ
hPHhITqQbPklG3ibCVxwGMRfp/v4XqhfdQHdcVfHap6NQ5Wok/4xIA+ui35/MmNa
rtNuC+BdZ1tMuVCPFZcCAwEAAaNQME4wHQYDVR0OBBYEFJvKs8RfJaXTH08W+SGv
zQyKn0H8MB8GA1UdIwQYMBaAFJvKs8RfJaXTH08W+SGvzQyKn0H8MAwGA1UdEwQF
MAMBAf8wDQYJKoZIhvcNAQEFBQADQQBJlffJHybjDGxRMqaRmDhX0+6v02TUKZsW
r5QuVbpQhH6u+0UgcW0jp9QwpxoPTLTWGXEWBBBurxFwiCBhkQ+V
-----END CERTIFICATE-----
`

var rsaKeyPEM = testingKey(`-----BEGIN RSA TESTING KEY-----
MIIBOwIBAAJBANLJhPHhITqQbPklG3ibCVxwGMRfp/v4XqhfdQHdcVfHap6NQ5Wo
k/4xIA+ui35/MmNartNuC+BdZ1tMuVCPFZcCAwEAAQJAEJ2N+zsR0Xn8/Q6twa4G
6OB1M1WO+k+ztnX/1SvNeWu8D6GImtupLTYgjZcHufykj09jiHmjHx8u8ZZB/o1N
MQIhAPW+eyZo7ay3lMz1V01WVjNKK9QSn1MJlb06h/LuYv9FAiEA25WPedKgVyCW
SmUwbPw8fnTcpqDWE3yTO3vKcebqMSsCIBF3UmVue8YU3jybC3NxuXq3wNm34R8T
xVLHwDXh/6NJAiEAl2oHGGLz64BuAfjKrqwz7qMYr9HCLIe/YsoWq/olzScCIQDi
D2lWusoe2/nEqfDVVWGWlyJ7yOmqaVm/iNUN9B2N2g==
-----END RSA TESTING KEY-----
`)

func testingKey(s string) string { return strings.ReplaceAll(s, "TESTING KEY", "PRIVATE KEY") }

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestIsZero(t *testing.T) {
	assert.True(t, Config{}.IsZero())
	assert.False(t, Config{Insecure: true}.IsZero())
	assert.False(t, Config{CAFile: "ca.pem"}.IsZero())
}

func TestClientConfigCertWithoutKey(t *testing.T) {
	_, err := ClientConfig(Config{CertFile: "cert.pem"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cert and key must be provided together")
}

func TestClientConfigInvalidKeyPair(t *testing.T) {
	cert := writeFile(t, "cert.pem", "invalid-cert")
	key := writeFile(t, "key.pem", "invalid-key")
	_, err := ClientConfig(Config{CertFile: cert, KeyFile: key})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load client key pair")
}

func TestClientConfigValidKeyPair(t *testing.T) {
	cert := writeFile(t, "cert.pem", rsaCertPEM)
	key := writeFile(t, "key.pem", rsaKeyPEM)

	cfg, err := ClientConfig(Config{CertFile: cert, KeyFile: key, ServerName: "ns1.example.net"})
	require.NoError(t, err)
	assert.Equal(t, "ns1.example.net", cfg.ServerName)
	assert.Equal(t, uint16(tls.VersionTLS12), cfg.MinVersion)
	require.Len(t, cfg.Certificates, 1)
	assert.False(t, cfg.InsecureSkipVerify)
}

func TestClientConfigBadCABundle(t *testing.T) {
	ca := writeFile(t, "ca.pem", "not a certificate")
	_, err := ClientConfig(Config{CAFile: ca})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no certificates parsed")
}

func TestClientConfigMissingCAFile(t *testing.T) {
	_, err := ClientConfig(Config{CAFile: "/path/does/not/exist"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read CA bundle")
}

func TestClientConfigComplete(t *testing.T) {
	ca := writeFile(t, "ca.pem", rsaCertPEM)
	cert := writeFile(t, "cert.pem", rsaCertPEM)
	key := writeFile(t, "key.pem", rsaKeyPEM)

	cfg, err := ClientConfig(Config{CAFile: ca, CertFile: cert, KeyFile: key})
	require.NoError(t, err)
	assert.NotNil(t, cfg.RootCAs)
	require.Len(t, cfg.Certificates, 1)
}

func TestHTTPClientCarriesTLSConfig(t *testing.T) {
	client, err := HTTPClient(Config{Insecure: true})
	require.NoError(t, err)

	transport, ok := client.Transport.(*http.Transport)
	require.True(t, ok)
	require.NotNil(t, transport.TLSClientConfig)
	assert.True(t, transport.TLSClientConfig.InsecureSkipVerify)
}
