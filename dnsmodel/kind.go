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

// ProviderKind identifies one upstream DNS vendor API dialect. The set is
// closed; the registry rejects kinds it does not know.
type ProviderKind string

const (
	KindCloudflare  ProviderKind = "cloudflare"
	KindAliyun      ProviderKind = "aliyun"
	KindDNSPod      ProviderKind = "dnspod"
	KindDNSPodToken ProviderKind = "dnspod_token"
	KindHuawei      ProviderKind = "huawei"
	KindBaidu       ProviderKind = "baidu"
	KindWestCN      ProviderKind = "westcn"
	KindVolcengine  ProviderKind = "volcengine"
	KindJDCloud     ProviderKind = "jdcloud"
	KindDNSLA       ProviderKind = "dnsla"
	KindNameSilo    ProviderKind = "namesilo"
	KindPowerDNS    ProviderKind = "powerdns"
	KindSpaceship   ProviderKind = "spaceship"
)

func (k ProviderKind) String() string {
	return string(k)
}
