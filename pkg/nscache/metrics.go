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

import "github.com/prometheus/client_golang/prometheus"

var cacheEventsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "zonegate",
		Name:      "cache_events_total",
		Help:      "Cache hits, misses, evictions and flushes.",
	},
	[]string{"event"},
)

func init() {
	prometheus.MustRegister(cacheEventsTotal)
}
