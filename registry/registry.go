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

// Package registry maps provider kinds to adapter constructors and
// publishes the capability catalog. The kind set is closed at build time;
// Register exists so downstream builds can compile in extra adapters.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/zonegate/zonegate/dnsmodel"
	"github.com/zonegate/zonegate/provider"
	"github.com/zonegate/zonegate/provider/aliyun"
	"github.com/zonegate/zonegate/provider/baidu"
	"github.com/zonegate/zonegate/provider/cloudflare"
	"github.com/zonegate/zonegate/provider/dnsla"
	"github.com/zonegate/zonegate/provider/dnspod"
	"github.com/zonegate/zonegate/provider/huawei"
	"github.com/zonegate/zonegate/provider/jdcloud"
	"github.com/zonegate/zonegate/provider/namesilo"
	"github.com/zonegate/zonegate/provider/pdns"
	"github.com/zonegate/zonegate/provider/spaceship"
	"github.com/zonegate/zonegate/provider/volcengine"
	"github.com/zonegate/zonegate/provider/westcn"
)

// Constructor builds one adapter instance from account secrets. The
// secrets map is read during construction only; adapters copy what they
// keep.
type Constructor func(secrets map[string]string, opts provider.Options) (provider.Provider, error)

type entry struct {
	ctor Constructor
	caps func() dnsmodel.Capabilities
}

var (
	mu      sync.RWMutex
	catalog = map[dnsmodel.ProviderKind]entry{
		dnsmodel.KindCloudflare:  {wrap(cloudflare.New), cloudflare.Capabilities},
		dnsmodel.KindAliyun:      {wrap(aliyun.New), aliyun.Capabilities},
		dnsmodel.KindDNSPod:      {newDNSPod, dnspod.Capabilities},
		dnsmodel.KindDNSPodToken: {wrap(dnspod.NewLegacy), dnspod.LegacyCapabilities},
		dnsmodel.KindHuawei:      {wrap(huawei.New), huawei.Capabilities},
		dnsmodel.KindBaidu:       {wrap(baidu.New), baidu.Capabilities},
		dnsmodel.KindWestCN:      {wrap(westcn.New), westcn.Capabilities},
		dnsmodel.KindVolcengine:  {wrap(volcengine.New), volcengine.Capabilities},
		dnsmodel.KindJDCloud:     {wrap(jdcloud.New), jdcloud.Capabilities},
		dnsmodel.KindDNSLA:       {wrap(dnsla.New), dnsla.Capabilities},
		dnsmodel.KindNameSilo:    {wrap(namesilo.New), namesilo.Capabilities},
		dnsmodel.KindPowerDNS:    {wrap(pdns.New), pdns.Capabilities},
		dnsmodel.KindSpaceship:   {wrap(spaceship.New), spaceship.Capabilities},
	}
)

// wrap lifts a concrete adapter constructor into the Constructor type
// without letting a typed nil escape as a non-nil interface.
func wrap[P provider.Provider](ctor func(map[string]string, provider.Options) (P, error)) Constructor {
	return func(secrets map[string]string, opts provider.Options) (provider.Provider, error) {
		p, err := ctor(secrets, opts)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
}

// newDNSPod selects the API 3.0 transport when the account carries a
// secretId pair and falls back to the legacy token API when only token
// secrets are present. Accounts predating the 3.0 migration keep working
// under the same kind.
func newDNSPod(secrets map[string]string, opts provider.Options) (provider.Provider, error) {
	if secrets["secretId"] == "" && secrets["secretKey"] == "" &&
		(secrets["token"] != "" || secrets["tokenId"] != "" || secrets["id"] != "") {
		return wrap(dnspod.NewLegacy)(secrets, opts)
	}
	return wrap(dnspod.New)(secrets, opts)
}

// Kinds returns the supported provider kinds in lexical order.
func Kinds() []dnsmodel.ProviderKind {
	mu.RLock()
	defer mu.RUnlock()
	kinds := make([]dnsmodel.ProviderKind, 0, len(catalog))
	for k := range catalog {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// IsSupported reports whether the kind has a registered adapter.
func IsSupported(kind dnsmodel.ProviderKind) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := catalog[kind]
	return ok
}

// Capabilities returns the capability sheet for one kind.
func Capabilities(kind dnsmodel.ProviderKind) (dnsmodel.Capabilities, error) {
	mu.RLock()
	e, ok := catalog[kind]
	mu.RUnlock()
	if !ok {
		return dnsmodel.Capabilities{}, dnsmodel.NewErrorf(dnsmodel.ErrUnsupported,
			"unsupported provider kind %q", kind)
	}
	return e.caps(), nil
}

// AllCapabilities returns every kind's capability sheet sorted by kind.
// The result is JSON-ready; UI and config tooling render credential forms
// and feature gates from it.
func AllCapabilities() []dnsmodel.Capabilities {
	kinds := Kinds()
	mu.RLock()
	defer mu.RUnlock()
	out := make([]dnsmodel.Capabilities, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, catalog[k].caps())
	}
	return out
}

// Construct builds an adapter for the kind from the account secrets.
func Construct(kind dnsmodel.ProviderKind, secrets map[string]string, opts provider.Options) (provider.Provider, error) {
	mu.RLock()
	e, ok := catalog[kind]
	mu.RUnlock()
	if !ok {
		return nil, dnsmodel.NewErrorf(dnsmodel.ErrUnsupported,
			"unsupported provider kind %q", kind)
	}
	return e.ctor(secrets, opts)
}

// Register adds an adapter for a new kind. It is meant to be called from
// an init function of a compiled-in extension; registering a nil
// constructor or an already-registered kind panics.
func Register(kind dnsmodel.ProviderKind, ctor Constructor, caps func() dnsmodel.Capabilities) {
	if ctor == nil || caps == nil {
		panic(fmt.Sprintf("registry: Register %q with nil constructor or capabilities", kind))
	}
	mu.Lock()
	defer mu.Unlock()
	if _, dup := catalog[kind]; dup {
		panic(fmt.Sprintf("registry: Register called twice for kind %q", kind))
	}
	catalog[kind] = entry{ctor: ctor, caps: caps}
}
