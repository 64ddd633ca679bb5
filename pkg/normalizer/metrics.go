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
package normalizer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	normalizeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "intake_normalize_duration_seconds",
			Help:    "Time spent decoding, validating and transforming one document",
			Buckets: prometheus.DefBuckets,
		},
	)

	recordsEmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "intake_records_total",
			Help: "Total number of asset records produced",
		},
	)

	rowsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_rows_dropped_total",
			Help: "Total number of data rows dropped, by reason",
		},
		[]string{"reason"},
	)

	normalizeRejects = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_normalize_rejects_total",
			Help: "Total number of documents rejected, by error code",
		},
		[]string{"code"},
	)
)
