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

package sign

import (
	"net/url"
	"strconv"
)

// WestToken returns the username/time/token form fields West.cn expects on
// every request: token = md5(username + apiPassword + millis).
func WestToken(username, apiPassword string, clock Clock) url.Values {
	millis := strconv.FormatInt(clock().UnixMilli(), 10)
	v := url.Values{}
	v.Set("username", username)
	v.Set("time", millis)
	v.Set("token", MD5Hex(username+apiPassword+millis))
	return v
}

// DNSPodToken returns the public form fields of the legacy DNSPod API:
// the static login_token pair plus the JSON format selector.
func DNSPodToken(id, token string) url.Values {
	v := url.Values{}
	v.Set("login_token", id+","+token)
	v.Set("format", "json")
	return v
}
