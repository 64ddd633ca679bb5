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
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingleFlight(t *testing.T) {
	g := NewSingleFlight()
	assert.Equal(t, 1, g.Capacity())

	release, ok := g.TryAcquire()
	require.True(t, ok)
	require.NotNil(t, release)

	second, ok := g.TryAcquire()
	assert.False(t, ok)
	assert.Nil(t, second)

	release()
	release() // idempotent

	again, ok := g.TryAcquire()
	require.True(t, ok)
	again()

	// a double release must not have freed an extra slot
	r1, ok := g.TryAcquire()
	require.True(t, ok)
	_, ok = g.TryAcquire()
	assert.False(t, ok)
	r1()
}

func TestLimit(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want int
	}{
		{"three", 3, 3},
		{"zero clamps to one", 0, 1},
		{"negative clamps to one", -4, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewLimit(tt.n)
			assert.Equal(t, tt.want, g.Capacity())

			var releases []func()
			for i := 0; i < tt.want; i++ {
				r, ok := g.TryAcquire()
				require.True(t, ok, "slot %d", i)
				releases = append(releases, r)
			}
			_, ok := g.TryAcquire()
			assert.False(t, ok)

			for _, r := range releases {
				r()
			}
			r, ok := g.TryAcquire()
			assert.True(t, ok)
			r()
		})
	}
}

func TestUnlimited(t *testing.T) {
	g := Unlimited()
	var releases []func()
	for i := 0; i < 100; i++ {
		r, ok := g.TryAcquire()
		require.True(t, ok)
		releases = append(releases, r)
	}
	for _, r := range releases {
		r()
	}
}

func TestSingleFlightConcurrent(t *testing.T) {
	g := NewSingleFlight()

	var (
		wg      sync.WaitGroup
		holders atomic.Int32
		maxSeen atomic.Int32
		start   = make(chan struct{})
	)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			release, ok := g.TryAcquire()
			if !ok {
				return
			}
			n := holders.Add(1)
			for {
				m := maxSeen.Load()
				if n <= m || maxSeen.CompareAndSwap(m, n) {
					break
				}
			}
			holders.Add(-1)
			release()
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), maxSeen.Load())
}

func TestGateInterface(t *testing.T) {
	for _, g := range []Gate{NewSingleFlight(), NewLimit(2), Unlimited()} {
		r, ok := g.TryAcquire()
		require.True(t, ok)
		r()
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		policy   string
		capacity int
		limited  bool
		wantErr  bool
	}{
		{policy: "", capacity: 1, limited: true},
		{policy: "single", capacity: 1, limited: true},
		{policy: " SINGLE ", capacity: 1, limited: true},
		{policy: "4", capacity: 4, limited: true},
		{policy: "unlimited"},
		{policy: "0", wantErr: true},
		{policy: "-2", wantErr: true},
		{policy: "many", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.policy, func(t *testing.T) {
			g, err := Parse(tt.policy)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidPolicy)
				return
			}
			require.NoError(t, err)

			l, ok := g.(*Limit)
			assert.Equal(t, tt.limited, ok)
			if ok {
				assert.Equal(t, tt.capacity, l.Capacity())
			}
		})
	}
}
