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

package dnspod

import "github.com/zonegate/zonegate/dnsmodel"

// DNSPod addresses resolution lines two ways: the v3 API by numeric line
// IDs ("0", "10=0", ...), the legacy API by Chinese display names. Both
// tables translate to and from the canonical codes; unknown identifiers
// pass through untouched in each direction.

var lineIDByCanonical = map[string]string{
	dnsmodel.LineDefault: "0",
	dnsmodel.LineTelecom: "10=0",
	dnsmodel.LineUnicom:  "10=1",
	dnsmodel.LineEdu:     "10=2",
	dnsmodel.LineMobile:  "10=3",
	dnsmodel.LineBTVN:    "10=22",
	dnsmodel.LineOversea: "3=0",
	dnsmodel.LineSearch:  "80=0",
}

var lineNameByCanonical = map[string]string{
	dnsmodel.LineDefault: "默认",
	dnsmodel.LineTelecom: "电信",
	dnsmodel.LineUnicom:  "联通",
	dnsmodel.LineEdu:     "教育网",
	dnsmodel.LineMobile:  "移动",
	dnsmodel.LineBTVN:    "广电",
	dnsmodel.LineOversea: "境外",
	dnsmodel.LineSearch:  "搜索引擎",
}

var canonicalByLineID = invert(lineIDByCanonical)
var canonicalByLineName = invert(lineNameByCanonical)

func invert(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

func lineIDFromCanonical(code string) string {
	if id, ok := lineIDByCanonical[code]; ok {
		return id
	}
	return code
}

func canonicalFromLineID(id string) string {
	if code, ok := canonicalByLineID[id]; ok {
		return code
	}
	return id
}

func lineNameFromCanonical(code string) string {
	if name, ok := lineNameByCanonical[code]; ok {
		return name
	}
	return code
}

func canonicalFromLineName(name string) string {
	if code, ok := canonicalByLineName[name]; ok {
		return code
	}
	return name
}

// URL-forwarding record types. The vendor writes 显性URL (explicit, 301)
// and 隐性URL (implicit, framed); some v3 listings report the explicit
// flavor as plain URL.

func vendorType(canonical string) string {
	switch canonical {
	case dnsmodel.TypeRedirectURL:
		return "显性URL"
	case dnsmodel.TypeForwardURL:
		return "隐性URL"
	}
	return canonical
}

func canonicalType(vendor string) string {
	switch vendor {
	case "显性URL", "URL":
		return dnsmodel.TypeRedirectURL
	case "隐性URL":
		return dnsmodel.TypeForwardURL
	}
	return vendor
}
