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

// Canonical resolution line codes. Vendors that split resolution by
// carrier or geography map their own identifiers onto these; identifiers
// without a canonical equivalent pass through untranslated in both
// directions.
const (
	LineDefault  = "default"
	LineTelecom  = "telecom"
	LineUnicom   = "unicom"
	LineMobile   = "mobile"
	LineEdu      = "edu"
	LineOversea  = "oversea"
	LineSearch   = "search"
	LineBTVN     = "btvn" // China Broadcast Network
	LineInternal = "internal"
)

// Line is one resolution line offered by a vendor for a zone, already
// translated to canonical codes where possible.
type Line struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	ParentCode string `json:"parentCode,omitempty"`
}

// DefaultLines is the minimal line set for vendors without line support.
func DefaultLines() []Line {
	return []Line{{Code: LineDefault, Name: "Default"}}
}
