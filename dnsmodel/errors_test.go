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

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorString(t *testing.T) {
	err := NewError(ErrAuthFailed, "signature mismatch")
	assert.Equal(t, "AuthFailed: signature mismatch", err.Error())

	err.VendorCode = "SignatureDoesNotMatch"
	assert.Equal(t, "AuthFailed (SignatureDoesNotMatch): signature mismatch", err.Error())
}

func TestErrorEnvelopeJSON(t *testing.T) {
	e := NewError(ErrRateLimited, "too many requests")
	e.VendorCode = "Throttling.User"
	e.HTTPStatus = 429
	e.Retriable = true

	raw, err := json.Marshal(e)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "RateLimited", decoded["kind"])
	assert.Equal(t, "Throttling.User", decoded["vendorCode"])
	assert.Equal(t, float64(429), decoded["httpStatus"])
	assert.Equal(t, true, decoded["retriable"])
	assert.NotContains(t, decoded, "meta")
}

func TestAsErrorThroughWrap(t *testing.T) {
	inner := NewError(ErrZoneNotFound, "no such zone")
	wrapped := errors.Wrap(inner, "listing records")

	de, ok := AsError(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrZoneNotFound, de.Kind)
	assert.True(t, IsKind(wrapped, ErrZoneNotFound))
	assert.False(t, IsKind(wrapped, ErrRecordNotFound))
}

func TestAsErrorPlain(t *testing.T) {
	_, ok := AsError(errors.New("plain"))
	assert.False(t, ok)
	assert.False(t, IsKind(nil, ErrNetwork))
}

func TestWithMeta(t *testing.T) {
	e := NewError(ErrNetwork, "context canceled").WithMeta("cancelled", true)
	assert.Equal(t, true, e.Meta["cancelled"])
}
