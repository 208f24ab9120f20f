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
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zonegate/zonegate/dnsmodel"
)

const testTTL = time.Minute

func TestGetOrLoadCaches(t *testing.T) {
	c := New()
	ns := Namespace("test")
	key := GlobalKey(ns, "zones", "fp1")

	loads := 0
	load := func() ([]string, error) {
		loads++
		return []string{"example.com"}, nil
	}

	v, err := GetOrLoad(c, ns, key, testTTL, load)
	require.NoError(t, err)
	assert.Equal(t, []string{"example.com"}, v)

	v, err = GetOrLoad(c, ns, key, testTTL, load)
	require.NoError(t, err)
	assert.Equal(t, []string{"example.com"}, v)
	assert.Equal(t, 1, loads)
}

func TestGetOrLoadSkipsCacheOnZeroTTL(t *testing.T) {
	c := New()
	ns := Namespace("test")
	key := GlobalKey(ns, "zones", "fp1")

	loads := 0
	for i := 0; i < 3; i++ {
		_, err := GetOrLoad(c, ns, key, 0, func() (int, error) {
			loads++
			return loads, nil
		})
		require.NoError(t, err)
	}
	assert.Equal(t, 3, loads)
	assert.Equal(t, 0, c.Len())
}

func TestGetOrLoadDoesNotCacheFailures(t *testing.T) {
	c := New()
	ns := Namespace("test")
	key := GlobalKey(ns, "zones", "fp1")

	loads := 0
	_, err := GetOrLoad(c, ns, key, testTTL, func() (int, error) {
		loads++
		return 0, errors.New("upstream down")
	})
	require.Error(t, err)

	v, err := GetOrLoad(c, ns, key, testTTL, func() (int, error) {
		loads++
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 2, loads)
}

func TestGetOrLoadSingleFlight(t *testing.T) {
	c := New()
	ns := Namespace("test")
	key := ZoneKey(ns, "z1", "records", "fp1")

	var loads int32
	load := func() (string, error) {
		atomic.AddInt32(&loads, 1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := GetOrLoad(c, ns, key, testTTL, load)
			assert.NoError(t, err)
			assert.Equal(t, "value", v)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&loads))
}

func TestInvalidateScopes(t *testing.T) {
	c := New()
	ns := Namespace("acct1")
	other := Namespace("acct2")

	seed := func(ns Namespace, key string) {
		_, err := GetOrLoad(c, ns, key, testTTL, func() (string, error) { return "v", nil })
		require.NoError(t, err)
	}

	zonesKey := GlobalKey(ns, "zones", "fp1")
	linesKey := GlobalKey(ns, "lines", "z1")
	minTTLKey := GlobalKey(ns, "minttl", "z1")
	recordsZ1 := ZoneKey(ns, "z1", "records", "fp1")
	recordsZ1b := ZoneKey(ns, "z1", "records", "fp2")
	recordsZ2 := ZoneKey(ns, "z2", "records", "fp1")
	otherKey := GlobalKey(other, "zones", "fp1")

	reload := func(key string) bool {
		loaded := false
		_, err := GetOrLoad(c, ns, key, testTTL, func() (string, error) {
			loaded = true
			return "v", nil
		})
		require.NoError(t, err)
		return loaded
	}

	seedAll := func() {
		for _, k := range []string{zonesKey, linesKey, minTTLKey, recordsZ1, recordsZ1b, recordsZ2} {
			seed(ns, k)
		}
		seed(other, otherKey)
	}

	// Records scope clears one zone's record listings, nothing else.
	seedAll()
	c.Invalidate(ns, ScopeRecords, "z1")
	assert.True(t, reload(recordsZ1))
	assert.True(t, reload(recordsZ1b))
	assert.False(t, reload(recordsZ2))
	assert.False(t, reload(zonesKey))
	assert.False(t, reload(linesKey))
	assert.False(t, reload(minTTLKey))

	// Zones scope clears zone listings only.
	c.Flush()
	seedAll()
	c.Invalidate(ns, ScopeZones, "")
	assert.True(t, reload(zonesKey))
	assert.False(t, reload(recordsZ2))
	assert.False(t, reload(linesKey))

	// All scope clears the namespace, including lines and min-TTL, but
	// never touches other namespaces.
	c.Flush()
	seedAll()
	c.Invalidate(ns, ScopeAll, "")
	assert.True(t, reload(zonesKey))
	assert.True(t, reload(linesKey))
	assert.True(t, reload(minTTLKey))
	assert.True(t, reload(recordsZ1))
	loadedOther := false
	_, err := GetOrLoad(c, other, otherKey, testTTL, func() (string, error) {
		loadedOther = true
		return "v", nil
	})
	require.NoError(t, err)
	assert.False(t, loadedOther)
}

func TestNamespaceForIsolation(t *testing.T) {
	a := NamespaceFor(dnsmodel.Account{Kind: dnsmodel.KindAliyun, Secrets: map[string]string{"accessKeyId": "a", "accessKeySecret": "s"}})
	b := NamespaceFor(dnsmodel.Account{Kind: dnsmodel.KindAliyun, Secrets: map[string]string{"accessKeyId": "b", "accessKeySecret": "s"}})
	assert.NotEqual(t, a, b)

	// Same identity hashes the same.
	a2 := NamespaceFor(dnsmodel.Account{Kind: dnsmodel.KindAliyun, Secrets: map[string]string{"accessKeyId": "a", "accessKeySecret": "s"}})
	assert.Equal(t, a, a2)

	// CredentialKey wins over secrets and keeps them out of the input.
	k1 := NamespaceFor(dnsmodel.Account{Kind: dnsmodel.KindAliyun, CredentialKey: "cred-1", Secrets: map[string]string{"accessKeyId": "a"}})
	k2 := NamespaceFor(dnsmodel.Account{Kind: dnsmodel.KindAliyun, CredentialKey: "cred-1", Secrets: map[string]string{"accessKeyId": "changed"}})
	assert.Equal(t, k1, k2)

	// Account scope separates tenants sharing credentials.
	t1 := NamespaceFor(dnsmodel.Account{Kind: dnsmodel.KindAliyun, CredentialKey: "cred-1", AccountID: "tenant-1"})
	t2 := NamespaceFor(dnsmodel.Account{Kind: dnsmodel.KindAliyun, CredentialKey: "cred-1", AccountID: "tenant-2"})
	assert.NotEqual(t, t1, t2)
}

func TestFingerprintStable(t *testing.T) {
	q1 := dnsmodel.RecordQuery{Page: 2, PageSize: 50, Type: "mx"}.Normalized()
	q2 := dnsmodel.RecordQuery{Page: 2, PageSize: 50, Type: "MX "}.Normalized()
	q3 := dnsmodel.RecordQuery{Page: 3, PageSize: 50, Type: "MX"}.Normalized()

	assert.Len(t, Fingerprint(q1), 10)
	assert.Equal(t, Fingerprint(q1), Fingerprint(q2))
	assert.NotEqual(t, Fingerprint(q1), Fingerprint(q3))
}
