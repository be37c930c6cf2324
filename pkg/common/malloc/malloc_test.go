// Copyright 2024 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package malloc

import (
	"os"
	"testing"
	"unsafe"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func testAllocator(t *testing.T, allocator Allocator) {
	for _, size := range []uint64{1, 7, 4096, 4097, 1 << 20} {
		bs, dec, err := allocator.Allocate(size, 0)
		require.NoError(t, err)
		require.Equal(t, int(size), len(bs))
		for _, b := range bs {
			require.Equal(t, byte(0), b)
		}
		for i := range bs {
			bs[i] = byte(i)
		}
		require.Equal(t, byte(size-1), bs[size-1])
		dec.Deallocate(0)
	}
}

func TestGoAllocator(t *testing.T) {
	testAllocator(t, NewGoAllocator())
}

func TestMmapAllocator(t *testing.T) {
	allocator := NewMmapAllocator()
	testAllocator(t, allocator)

	bs, dec, err := allocator.Allocate(10, NoClear)
	require.NoError(t, err)
	var info MmapInfo
	require.True(t, dec.As(&info))
	require.Equal(t, unsafe.Pointer(unsafe.SliceData(bs)), info.Addr)
	require.Equal(t, uint64(os.Getpagesize()), info.Length)
	dec.Deallocate(0)

	_, dec, err = allocator.Allocate(0, 0)
	require.NoError(t, err)
	dec.Deallocate(0)
}

func TestMetricsAllocator(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg, "test")
	allocator := Wrap(NewMmapAllocator(), metrics)

	_, dec1, err := allocator.Allocate(100, 0)
	require.NoError(t, err)
	_, dec2, err := allocator.Allocate(50, 0)
	require.NoError(t, err)

	require.Equal(t, float64(150), testutil.ToFloat64(metrics.AllocateBytes))
	require.Equal(t, float64(150), testutil.ToFloat64(metrics.InuseBytes))
	require.Equal(t, float64(2), testutil.ToFloat64(metrics.InuseObjects))
	require.Equal(t, int64(150), allocator.InuseBytes())

	// chained deallocators still answer traits of the upstream
	var info MmapInfo
	require.True(t, dec1.As(&info))

	dec1.Deallocate(0)
	require.Equal(t, float64(50), testutil.ToFloat64(metrics.InuseBytes))
	require.Equal(t, float64(1), testutil.ToFloat64(metrics.InuseObjects))
	require.Equal(t, float64(2), testutil.ToFloat64(metrics.AllocateObjects))
	dec2.Deallocate(0)
	require.Equal(t, int64(0), allocator.InuseBytes())
	require.Equal(t, uint64(150), allocator.PeakInuseBytes())

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	require.Equal(t, 4, n)
}

func TestPeakInuseTracker(t *testing.T) {
	p := NewPeakInuseTracker()
	p.Update(10)
	p.Update(5)
	v, ts := p.Peak()
	require.Equal(t, uint64(10), v)
	require.False(t, ts.IsZero())
}

func TestClosureDeallocatorArgumentGuard(t *testing.T) {
	calls := 0
	pool := NewClosureDeallocatorPool(func(_ Hints, args *mmapDeallocatorArgs) {
		calls++
		require.Equal(t, uint64(8), args.length)
	})
	dec := pool.Get(mmapDeallocatorArgs{length: 8})
	dec.Deallocate(0)
	require.Equal(t, 1, calls)
	require.Panics(t, func() { dec.Deallocate(0) })
}
