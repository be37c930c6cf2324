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

package rowconv

import (
	"math/rand"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/colvec/pkg/common/moerr"
	"github.com/matrixorigin/colvec/pkg/container/batch"
	"github.com/matrixorigin/colvec/pkg/container/types"
	"github.com/matrixorigin/colvec/pkg/container/vector"
	"github.com/matrixorigin/colvec/pkg/testutil"
)

var modes = []vector.MemoryMode{vector.OnHeap, vector.OffHeap}

func TestRandomRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 30; i++ {
		fields := testutil.RandomFields(r, 1+r.Intn(5), 3)
		rows := testutil.RandomRows(r, fields, r.Intn(40), 0.2)
		for _, mode := range modes {
			bat, err := ToBatch(fields, rows, mode, vector.WithMaxCapacity(1<<16))
			require.NoError(t, err)
			require.Equal(t, len(rows), bat.NumRows())
			require.Equal(t, rows, FromBatch(bat), "schema %v", fields)
			for j, row := range rows {
				require.Equal(t, row, FromRow(bat.Row(j).Struct))
			}
			require.NoError(t, bat.Close())
		}
	}
}

func TestArrowRoundTrip(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	r := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		fields := testutil.RandomFields(r, 1+r.Intn(4), 2)
		rows := testutil.RandomRows(r, fields, 1+r.Intn(20), 0.25)
		for _, mode := range modes {
			bat, err := ToBatch(fields, rows, mode)
			require.NoError(t, err)
			rec, err := bat.ToArrow(mem)
			require.NoError(t, err)
			require.NoError(t, bat.Close())

			back, err := batch.FromArrow(rec)
			require.NoError(t, err)
			require.Equal(t, rows, FromBatch(back), "schema %v", fields)
			require.NoError(t, back.Close())
			rec.Release()
		}
	}
}

func TestFilteredRowsSkipped(t *testing.T) {
	fields := []types.Field{types.NewField("n", types.T_int16.ToType(), true)}
	rows := []Row{{int16(1)}, {nil}, {int16(3)}}
	bat, err := ToBatch(fields, rows, vector.OnHeap)
	require.NoError(t, err)
	defer bat.Close()

	bat.FilterNullsInColumn(0)
	require.Equal(t, []Row{{int16(1)}, {int16(3)}}, FromBatch(bat))
	require.Nil(t, Value(bat.Column(0), 1))
}

func TestNestedValues(t *testing.T) {
	typ := types.NewArray(types.NewStruct(
		types.NewField("tag", types.T_varchar.ToType(), true),
		types.NewField("span", types.T_interval.ToType(), true),
	))
	v := vector.NewOnHeap(typ, 1)
	defer v.Close()

	values := []any{
		[]any{[]any{"a", types.Interval{Days: 1}}, nil, []any{nil, nil}},
		nil,
		[]any{},
	}
	for _, value := range values {
		require.NoError(t, ToVector(v, value))
	}
	for i, want := range values {
		require.Equal(t, want, Value(v, i))
	}
}

func TestConversionErrors(t *testing.T) {
	fields := []types.Field{
		types.NewField("a", types.T_int32.ToType(), true),
		types.NewField("b", types.NewStruct(types.NewField("x", types.T_bool.ToType(), true)), true),
	}

	_, err := ToBatch(fields, []Row{{int32(1)}}, vector.OnHeap)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))

	_, err = ToBatch(fields, []Row{{int64(1), nil}}, vector.OffHeap)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrTypeMismatch))

	_, err = ToBatch(fields, []Row{{int32(1), []any{true, false}}}, vector.OnHeap)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrTypeMismatch))

	_, err = ToBatch(fields, []Row{{nil, []any{1}}}, vector.OnHeap)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrTypeMismatch))
}
