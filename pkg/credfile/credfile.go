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

// Package credfile loads the YAML credentials file binding account names
// to provider kinds and secrets. The file is the CLI's credential store;
// server deployments plug their own store into the gateway instead.
package credfile

import (
	"os"
	"sort"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"

	"github.com/zonegate/zonegate/dnsmodel"
)

// Entry is one named account in the credentials file.
//
//	accounts:
//	  - name: prod-cloudflare
//	    kind: cloudflare
//	    secrets:
//	      apiToken: "..."
type Entry struct {
	Name          string            `yaml:"name"`
	Kind          string            `yaml:"kind"`
	AccountID     string            `yaml:"accountId,omitempty"`
	CredentialKey string            `yaml:"credentialKey,omitempty"`
	Secrets       map[string]string `yaml:"secrets"`
}

type file struct {
	Accounts []Entry `yaml:"accounts"`
}

// Store holds the parsed credentials file, indexed by account name.
type Store struct {
	accounts map[string]Entry
}

// Load reads and parses the credentials file at the given path.
func Load(path string) (*Store, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading credentials file %q", path)
	}
	s, err := Parse(contents)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing credentials file %q", path)
	}
	return s, nil
}

// Parse builds a store from raw YAML.
func Parse(contents []byte) (*Store, error) {
	var f file
	if err := yaml.Unmarshal(contents, &f); err != nil {
		return nil, err
	}

	accounts := make(map[string]Entry, len(f.Accounts))
	for i, e := range f.Accounts {
		if e.Name == "" {
			return nil, errors.Errorf("account %d has no name", i)
		}
		if e.Kind == "" {
			return nil, errors.Errorf("account %q has no kind", e.Name)
		}
		if len(e.Secrets) == 0 {
			return nil, errors.Errorf("account %q has no secrets", e.Name)
		}
		if _, dup := accounts[e.Name]; dup {
			return nil, errors.Errorf("account %q is defined twice", e.Name)
		}
		accounts[e.Name] = e
	}
	return &Store{accounts: accounts}, nil
}

// Account returns the named account as the gateway's binding input. The
// account name doubles as the credential key when the file sets none, so
// cache namespaces stay stable across restarts.
func (s *Store) Account(name string) (dnsmodel.Account, error) {
	e, ok := s.accounts[name]
	if !ok {
		return dnsmodel.Account{}, dnsmodel.NewErrorf(dnsmodel.ErrMissingCredentials,
			"account %q not found in credentials file", name)
	}
	key := e.CredentialKey
	if key == "" {
		key = e.Name
	}
	return dnsmodel.Account{
		Kind:          dnsmodel.ProviderKind(e.Kind),
		Secrets:       e.Secrets,
		AccountID:     e.AccountID,
		CredentialKey: key,
	}, nil
}

// Names returns the account names in lexical order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.accounts))
	for name := range s.accounts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
