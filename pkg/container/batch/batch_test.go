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

package batch

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/lni/goutils/leaktest"
	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/colvec/pkg/common/moerr"
	"github.com/matrixorigin/colvec/pkg/config"
	"github.com/matrixorigin/colvec/pkg/container/types"
	"github.com/matrixorigin/colvec/pkg/container/vector"
)

var modes = []vector.MemoryMode{vector.OnHeap, vector.OffHeap}

func testFields() []types.Field {
	return []types.Field{
		types.NewField("id", types.T_int64.ToType(), false),
		types.NewField("name", types.T_varchar.ToType(), true),
		types.NewField("score", types.T_float64.ToType(), true),
	}
}

func newTestBatch(t *testing.T, mode vector.MemoryMode, rows int) *Batch {
	bat, err := Allocate(testFields(), mode, 4)
	require.NoError(t, err)
	for i := 0; i < rows; i++ {
		id, _ := bat.Vector(0)
		_, err = id.AppendInt64(int64(i))
		require.NoError(t, err)
		name, _ := bat.Vector(1)
		score, _ := bat.Vector(2)
		if i%2 == 1 {
			_, err = name.AppendNull()
			require.NoError(t, err)
			_, err = score.AppendNull()
			require.NoError(t, err)
			continue
		}
		_, err = name.AppendString(string(rune('a' + i)))
		require.NoError(t, err)
		_, err = score.AppendFloat64(float64(i) / 2)
		require.NoError(t, err)
	}
	require.NoError(t, bat.SetNumRows(rows))
	return bat
}

func TestFilteringAndIteration(t *testing.T) {
	defer leaktest.AfterTest(t)()
	for _, mode := range modes {
		t.Run(mode.String(), func(t *testing.T) {
			bat := newTestBatch(t, mode, 3)
			defer bat.Close()

			require.Equal(t, 3, bat.NumRows())
			require.Equal(t, 3, bat.NumValidRows())
			bat.MarkFiltered(1)
			bat.MarkFiltered(1)
			require.Equal(t, 2, bat.NumValidRows())
			require.True(t, bat.IsFiltered(1))

			var seen []int64
			it := bat.Iterator()
			for it.HasNext() {
				row := it.Next()
				seen = append(seen, row.GetInt64(0))
			}
			require.Equal(t, []int64{0, 2}, seen)
			require.Nil(t, it.Next())

			// filtered data stays readable by index
			require.Equal(t, int64(1), bat.Column(0).GetInt64(1))

			bat.Reset()
			require.Equal(t, 0, bat.NumValidRows())
			require.False(t, bat.Iterator().HasNext())
		})
	}
}

func requireOutOfRange(t *testing.T, fn func()) {
	defer func() {
		err, ok := recover().(error)
		require.True(t, ok)
		require.True(t, moerr.IsMoErrCode(err, moerr.ErrOutOfRange), "got %v", err)
	}()
	fn()
}

func TestMarkFilteredBounds(t *testing.T) {
	bat := newTestBatch(t, vector.OnHeap, 3)
	defer bat.Close()
	require.Equal(t, 4, bat.Capacity())

	// rows past the row count but inside the capacity can be marked
	bat.MarkFiltered(3)
	require.True(t, bat.IsFiltered(3))
	require.Equal(t, 3, bat.NumValidRows())

	requireOutOfRange(t, func() { bat.MarkFiltered(4) })
	requireOutOfRange(t, func() { bat.MarkFiltered(10) })
	requireOutOfRange(t, func() { bat.MarkFiltered(-1) })
	requireOutOfRange(t, func() { bat.Row(200).MarkFiltered() })
	require.False(t, bat.IsFiltered(10))
	require.False(t, bat.IsFiltered(-1))

	bat.MarkFiltered(0)
	require.Contains(t, bat.String(), "filtered [0 3]\n")
	require.NoError(t, bat.SetNumRows(3))
	require.NotContains(t, bat.String(), "filtered")
}

func TestFilterNullsInColumn(t *testing.T) {
	bat := newTestBatch(t, vector.OnHeap, 4)
	defer bat.Close()

	bat.FilterNullsInColumn(1)
	bat.FilterNullsInColumn(1)
	require.Equal(t, 2, bat.NumValidRows())
	require.True(t, bat.IsFiltered(1))
	require.True(t, bat.IsFiltered(3))

	bat.MarkFiltered(0)
	require.NoError(t, bat.SetNumRows(3))
	require.False(t, bat.IsFiltered(0))
	require.True(t, bat.IsFiltered(1))
	require.Equal(t, 2, bat.NumValidRows())

	err := bat.SetNumRows(5)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrOutOfRange))
}

func TestRowView(t *testing.T) {
	for _, mode := range modes {
		t.Run(mode.String(), func(t *testing.T) {
			bat := newTestBatch(t, mode, 2)
			defer bat.Close()

			row := bat.Row(0)
			require.Equal(t, 0, row.RowID())
			require.Equal(t, 3, row.NumFields())
			require.Equal(t, "a", row.GetString(1))
			require.Equal(t, 0.0, row.GetFloat64(2))

			row = bat.Row(1)
			require.True(t, row.IsNullAt(1))
			require.NoError(t, row.Update(1, "zz"))
			require.False(t, row.IsNullAt(1))
			require.Equal(t, "zz", row.GetString(1))
			require.NoError(t, row.Update(2, 9.5))
			require.Equal(t, 9.5, row.GetFloat64(2))
			require.NoError(t, row.Update(2, nil))
			require.True(t, row.IsNullAt(2))
			require.NoError(t, row.SetNullAt(0))
			require.True(t, bat.Column(0).IsNullAt(1))

			err := row.Update(0, "not an int")
			require.True(t, moerr.IsMoErrCode(err, moerr.ErrTypeMismatch))
			require.True(t, row.IsNullAt(0))

			row.MarkFiltered()
			require.True(t, row.IsFiltered())
			require.Equal(t, 1, bat.NumValidRows())
		})
	}
}

func TestResetCapacity(t *testing.T) {
	bat, err := Allocate(testFields(), vector.OffHeap, 2)
	require.NoError(t, err)
	defer bat.Close()

	id, ok := bat.Vector(0)
	require.True(t, ok)
	_, err = id.AppendInt64s(40, 1)
	require.NoError(t, err)
	require.Greater(t, id.Capacity(), 2)

	require.NoError(t, bat.ResetCapacity())
	require.Equal(t, 2, id.Capacity())
	require.Equal(t, 0, id.ElementsAppended())
	require.Equal(t, 0, bat.NumRows())
}

func TestAllocateFromConfig(t *testing.T) {
	cfg, err := config.Parse(`
[vector]
memory-mode = "offheap"
default-batch-size = 8
max-capacity = 16
`)
	require.NoError(t, err)

	bat, err := AllocateFromConfig(testFields(), &cfg.Vector)
	require.NoError(t, err)
	defer bat.Close()
	require.Equal(t, 8, bat.Capacity())
	v, ok := bat.Vector(2)
	require.True(t, ok)
	require.Equal(t, vector.OffHeap, v.Mode())
	require.Equal(t, 16, v.MaxCapacity())

	cfg.Vector.MemoryMode = "disk"
	_, err = AllocateFromConfig(testFields(), &cfg.Vector)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrBadConfig))
}

func TestCloseReferenceCount(t *testing.T) {
	bat := newTestBatch(t, vector.OffHeap, 1)
	bat.AddCnt(1)
	require.Equal(t, int64(2), bat.GetCnt())

	require.NoError(t, bat.Close())
	v, _ := bat.Vector(0)
	require.False(t, v.IsClosed())

	require.NoError(t, bat.Close())
	require.True(t, v.IsClosed())
	require.NoError(t, bat.Close())
}

func TestString(t *testing.T) {
	bat := newTestBatch(t, vector.OnHeap, 2)
	defer bat.Close()
	require.Equal(t, "0 : id [0 1]\n1 : name [\"a\" null]\n2 : score [0 null]\n", bat.String())
	bat.Log("test")
}

func TestArrowRoundTrip(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	src := newTestBatch(t, vector.OffHeap, 3)
	defer src.Close()

	rec, err := src.ToArrow(mem)
	require.NoError(t, err)
	defer rec.Release()
	require.Equal(t, int64(3), rec.NumRows())

	dst, err := FromArrow(rec)
	require.NoError(t, err)
	defer dst.Close()

	require.Equal(t, src.String(), dst.String())
	for i, f := range dst.Fields() {
		require.Equal(t, testFields()[i].Name, f.Name)
		require.True(t, testFields()[i].Type.Eq(f.Type))
	}
	_, ok := dst.Vector(0)
	require.False(t, ok)

	err = dst.Row(0).Update(0, int64(5))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrReadOnlyVector))
	err = dst.Row(0).SetNullAt(0)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrReadOnlyVector))

	dst.FilterNullsInColumn(2)
	require.Equal(t, 2, dst.NumValidRows())
}
