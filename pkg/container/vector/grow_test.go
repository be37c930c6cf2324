// Copyright 2021 Matrix Origin
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

package vector

import (
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/colvec/pkg/common/malloc"
	"github.com/matrixorigin/colvec/pkg/common/malloc/mock_malloc"
	"github.com/matrixorigin/colvec/pkg/common/moerr"
	"github.com/matrixorigin/colvec/pkg/container/types"
)

// budgetAllocator serves allocations from a Go heap allocator until its
// budget runs out, then fails with OOM. A negative budget never runs out.
type budgetAllocator struct {
	*mock_malloc.MockAllocator
	upstream *malloc.MetricsAllocator[*malloc.GoAllocator]
	budget   int
}

func newBudgetAllocator(t *testing.T) *budgetAllocator {
	ctrl := gomock.NewController(t)
	a := &budgetAllocator{
		MockAllocator: mock_malloc.NewMockAllocator(ctrl),
		upstream:      malloc.NewMetricsAllocator(malloc.NewGoAllocator(), nil, nil, nil, nil),
		budget:        -1,
	}
	a.EXPECT().Allocate(gomock.Any(), gomock.Any()).DoAndReturn(
		func(size uint64, hints malloc.Hints) ([]byte, malloc.Deallocator, error) {
			if a.budget == 0 {
				return nil, nil, moerr.NewOOMNoCtx()
			}
			if a.budget > 0 {
				a.budget--
			}
			return a.upstream.Allocate(size, hints)
		}).AnyTimes()
	return a
}

func TestGrowFailureKeepsOldBuffers(t *testing.T) {
	alloc := newBudgetAllocator(t)
	v := newVec(t, OffHeap, types.T_int64.ToType(), 4, WithAllocator(alloc))
	for i := 0; i < 4; i++ {
		_, err := v.AppendInt64(int64(i * 10))
		require.NoError(t, err)
	}
	v.PutNull(2)
	inuse := alloc.upstream.InuseBytes()

	// the value block succeeds, the null flags do not
	alloc.budget = 1
	err := v.Reserve(5)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrOOM), "got %v", err)
	require.Equal(t, 4, v.Capacity())
	require.Equal(t, inuse, alloc.upstream.InuseBytes())
	require.Equal(t, int64(30), v.GetInt64(3))
	require.True(t, v.IsNullAt(2))
	require.Equal(t, 1, v.NumNulls())

	alloc.budget = -1
	_, err = v.AppendInt64(40)
	require.NoError(t, err)
	require.Equal(t, 10, v.Capacity())
	require.Equal(t, int64(0), v.GetInt64(0))
	require.Equal(t, int64(40), v.GetInt64(4))
	require.True(t, v.IsNullAt(2))

	require.NoError(t, v.Close())
	require.Equal(t, int64(0), alloc.upstream.InuseBytes())
}

func TestNestedGrowFailure(t *testing.T) {
	typ := types.NewStruct(types.NewField("a", types.T_int64.ToType(), true))

	t.Run("child fails", func(t *testing.T) {
		alloc := newBudgetAllocator(t)
		v := newVec(t, OffHeap, typ, 1, WithAllocator(alloc))

		alloc.budget = 0
		require.Error(t, v.Reserve(100))
		require.Equal(t, 1, v.Capacity())
		require.Equal(t, 1, v.Child(0).Capacity())

		alloc.budget = -1
		require.NoError(t, v.Reserve(100))
		require.Equal(t, 200, v.Capacity())
		require.GreaterOrEqual(t, v.Child(0).Capacity(), v.Capacity())
		v.Child(0).PutInt64(199, 7)
		require.Equal(t, int64(7), v.GetStruct(199).GetInt64(0))
	})

	t.Run("parent fails", func(t *testing.T) {
		alloc := newBudgetAllocator(t)
		v := newVec(t, OffHeap, typ, 1, WithAllocator(alloc))

		// both child blocks succeed, the struct null flags do not
		alloc.budget = 2
		require.Error(t, v.Reserve(100))
		require.Equal(t, 1, v.Capacity())
		require.GreaterOrEqual(t, v.Child(0).Capacity(), 200)

		alloc.budget = -1
		require.NoError(t, v.Reserve(100))
		require.Equal(t, 200, v.Capacity())
		require.GreaterOrEqual(t, v.Child(0).Capacity(), v.Capacity())
	})

	t.Run("capacity exceeded", func(t *testing.T) {
		forEachMode(t, func(t *testing.T, mode MemoryMode) {
			v := newVec(t, mode, types.T_interval.ToType(), 2, WithMaxCapacity(8))
			err := v.Reserve(9)
			require.True(t, moerr.IsMoErrCode(err, moerr.ErrCapacityExceeded))
			require.Equal(t, 2, v.Capacity())
			for i := 0; i < v.NumChildren(); i++ {
				require.Equal(t, 2, v.Child(i).Capacity())
			}
		})
	})
}
