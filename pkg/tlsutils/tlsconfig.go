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

// Package tlsutils builds TLS client setup for self-hosted upstreams such
// as PowerDNS servers running behind private CAs or client-certificate
// auth. Hosted vendor APIs never need it.
package tlsutils

import (
	"crypto/tls"
	"crypto/x509"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/pkg/errors"
)

// Config names the TLS material for one endpoint. Empty fields fall back
// to system defaults; client certificates need both halves of the pair.
type Config struct {
	CAFile     string
	CertFile   string
	KeyFile    string
	ServerName string
	Insecure   bool
}

// IsZero reports whether no TLS customization was requested.
func (c Config) IsZero() bool {
	return c == Config{}
}

// ClientConfig loads the files named in c into a tls.Config.
func ClientConfig(c Config) (*tls.Config, error) {
	if (c.CertFile == "") != (c.KeyFile == "") {
		return nil, errors.New("tlsutils: client cert and key must be provided together")
	}
	cfg := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		ServerName:         c.ServerName,
		InsecureSkipVerify: c.Insecure,
	}
	if c.CertFile != "" {
		cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
		if err != nil {
			return nil, errors.Wrap(err, "tlsutils: load client key pair")
		}
		cfg.Certificates = []tls.Certificate{cert}
	}
	if c.CAFile != "" {
		pem, err := os.ReadFile(c.CAFile)
		if err != nil {
			return nil, errors.Wrap(err, "tlsutils: read CA bundle")
		}
		roots := x509.NewCertPool()
		if !roots.AppendCertsFromPEM(pem) {
			return nil, errors.Errorf("tlsutils: no certificates parsed from %s", c.CAFile)
		}
		cfg.RootCAs = roots
	}
	return cfg, nil
}

// HTTPClient wraps the TLS config in an http.Client whose transport
// mirrors the net/http default timeouts.
func HTTPClient(c Config) (*http.Client, error) {
	tlsCfg, err := ClientConfig(c)
	if err != nil {
		return nil, err
	}
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		TLSClientConfig:       tlsCfg,
	}
	return &http.Client{Transport: transport}, nil
}
