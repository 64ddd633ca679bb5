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
package admission

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/semaphore"
)

var (
	gateRejects = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "intake_admission_rejects_total",
			Help: "Total number of uploads rejected because the gate was full",
		},
	)

	gateInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "intake_admission_in_flight",
			Help: "Current number of uploads holding an admission slot",
		},
	)
)

// Gate decides whether an operation may start now. TryAcquire never blocks:
// it either grants a slot, returning a release func, or reports false.
// Release funcs are idempotent.
type Gate interface {
	TryAcquire() (release func(), ok bool)
}

// Limit admits up to a fixed number of concurrent holders.
type Limit struct {
	sem      *semaphore.Weighted
	capacity int64
}

// NewSingleFlight returns a gate admitting one holder at a time.
func NewSingleFlight() *Limit {
	return NewLimit(1)
}

// NewLimit returns a gate admitting up to n holders. Values below 1 are
// treated as 1.
func NewLimit(n int) *Limit {
	if n < 1 {
		n = 1
	}
	return &Limit{
		sem:      semaphore.NewWeighted(int64(n)),
		capacity: int64(n),
	}
}

// Capacity returns the number of concurrent holders allowed.
func (l *Limit) Capacity() int {
	return int(l.capacity)
}

// TryAcquire implements Gate.
func (l *Limit) TryAcquire() (func(), bool) {
	if !l.sem.TryAcquire(1) {
		gateRejects.Inc()
		return nil, false
	}
	gateInFlight.Inc()
	return onceRelease(func() {
		gateInFlight.Dec()
		l.sem.Release(1)
	}), true
}

// ErrInvalidPolicy is returned by Parse for unknown policies.
var ErrInvalidPolicy = errors.New("invalid admission policy")

// Parse builds a gate from a policy name: "single" (or empty), "unlimited",
// or a positive integer capacity.
func Parse(policy string) (Gate, error) {
	switch p := strings.ToLower(strings.TrimSpace(policy)); p {
	case "", "single":
		return NewSingleFlight(), nil
	case "unlimited":
		return Unlimited(), nil
	default:
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%w: %q (use single, unlimited or a positive integer)", ErrInvalidPolicy, policy)
		}
		return NewLimit(n), nil
	}
}

type unlimited struct{}

// Unlimited returns a gate that always admits.
func Unlimited() Gate {
	return unlimited{}
}

func (unlimited) TryAcquire() (func(), bool) {
	gateInFlight.Inc()
	return onceRelease(gateInFlight.Dec), true
}

func onceRelease(fn func()) func() {
	var done atomic.Bool
	return func() {
		if done.CompareAndSwap(false, true) {
			fn()
		}
	}
}
