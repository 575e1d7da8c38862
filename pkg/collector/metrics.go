// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package collector

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	collectionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "macfp_collection_duration_seconds",
			Help:    "Time taken to run all registered collectors",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		},
	)

	collectorDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "macfp_collector_duration_seconds",
			Help:    "Time taken by individual collectors",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30},
		},
		[]string{"collector"},
	)

	collectorRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "macfp_collector_runs_total",
			Help: "Total number of collector invocations",
		},
		[]string{"status"}, // success or error
	)

	collectorFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "macfp_collector_failures_total",
			Help: "Total number of failed collector invocations",
		},
		[]string{"collector"},
	)

	collectorCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "macfp_collectors",
			Help: "Number of collectors in the last run",
		},
	)
)

func observeOutcome(o Outcome) {
	collectorDuration.WithLabelValues(o.Name).Observe(o.Duration.Seconds())
	if o.Success {
		collectorRunsTotal.WithLabelValues("success").Inc()
		return
	}
	collectorRunsTotal.WithLabelValues("error").Inc()
	collectorFailuresTotal.WithLabelValues(o.Name).Inc()
}
