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

package arrowvec

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/decimal128"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/colvec/pkg/common/moerr"
	"github.com/matrixorigin/colvec/pkg/container/types"
	"github.com/matrixorigin/colvec/pkg/container/vector"
)

func TestPrimitiveAdapter(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	b := array.NewInt32Builder(mem)
	defer b.Release()
	b.AppendValues([]int32{1, 2, 3}, []bool{true, false, true})
	arr := b.NewInt32Array()
	defer arr.Release()

	v, err := New(arr)
	require.NoError(t, err)
	require.True(t, v.Type().Eq(types.T_int32.ToType()))
	require.Equal(t, 3, v.Len())
	require.Equal(t, 1, v.NumNulls())
	require.True(t, v.HasNull())
	require.True(t, v.IsNullAt(1))
	require.Equal(t, int32(3), v.GetInt32(2))
	require.NoError(t, v.Close())
	// the adapter never releases the array
	require.Equal(t, int32(1), arr.Value(0))
	require.Panics(t, func() { v.GetInt64(0) })
}

func TestStringAdapter(t *testing.T) {
	b := array.NewStringBuilder(memory.DefaultAllocator)
	defer b.Release()
	b.Append("Hello")
	b.AppendNull()
	b.Append("")
	arr := b.NewArray()
	defer arr.Release()

	v, err := New(arr)
	require.NoError(t, err)
	require.Equal(t, "Hello", v.GetString(0))
	require.Equal(t, []byte("Hello"), v.GetBytes(0))
	require.Nil(t, v.GetBytes(1))
	require.Equal(t, "", v.GetString(2))
	require.Equal(t, "\"Hello\"", vector.ValueString(v, 0))
}

func TestNestedAdapter(t *testing.T) {
	mem := memory.NewGoAllocator()
	dt := arrow.StructOf(
		arrow.Field{Name: "ids", Type: arrow.ListOf(arrow.PrimitiveTypes.Int64), Nullable: true},
		arrow.Field{Name: "amount", Type: &arrow.Decimal128Type{Precision: 20, Scale: 2}, Nullable: true},
		arrow.Field{Name: "span", Type: arrow.FixedWidthTypes.MonthDayNanoInterval, Nullable: true},
	)
	b := array.NewStructBuilder(mem, dt)
	defer b.Release()
	ids := b.FieldBuilder(0).(*array.ListBuilder)
	idValues := ids.ValueBuilder().(*array.Int64Builder)
	amount := b.FieldBuilder(1).(*array.Decimal128Builder)
	span := b.FieldBuilder(2).(*array.MonthDayNanoIntervalBuilder)

	b.Append(true)
	ids.Append(true)
	idValues.AppendValues([]int64{7, 8}, nil)
	amount.Append(decimal128.FromI64(-1234))
	span.Append(arrow.MonthDayNanoInterval{Months: 1, Days: 2, Nanoseconds: 3500})

	b.AppendNull()

	b.Append(true)
	ids.AppendNull()
	amount.AppendNull()
	span.Append(arrow.MonthDayNanoInterval{})

	arr := b.NewArray()
	defer arr.Release()

	v, err := New(arr)
	require.NoError(t, err)
	require.Equal(t, types.T_struct, v.Type().Oid)
	require.Equal(t, 3, v.NumChildren())
	require.True(t, v.IsNullAt(1))

	row := v.GetStruct(0)
	require.Equal(t, []int64{7, 8}, row.GetArray(0).ToInt64s())
	require.Equal(t, "-12.34", row.GetDecimal(1).String())
	require.Equal(t, types.Interval{Months: 1, Days: 2, Microseconds: 3}, row.GetInterval(2))

	row = v.GetStruct(2)
	require.True(t, row.IsNullAt(0))
	require.Equal(t, 0, row.GetArray(0).Len())
	require.True(t, row.IsNullAt(1))
}

func TestUnsupportedType(t *testing.T) {
	b := array.NewUint32Builder(memory.DefaultAllocator)
	defer b.Release()
	arr := b.NewArray()
	defer arr.Release()
	_, err := New(arr)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrNotSupported))
}

func TestTypeMapping(t *testing.T) {
	typ := types.NewStruct(
		types.NewField("a", types.NewArray(types.NewArray(types.T_int16.ToType())), true),
		types.NewField("b", types.NewDecimal(38, 10), false),
		types.NewField("c", types.T_binary.ToType(), true),
		types.NewField("d", types.T_bool.ToType(), true),
	)
	dt, err := ToArrowType(typ)
	require.NoError(t, err)
	back, err := FromArrowType(dt)
	require.NoError(t, err)
	require.True(t, typ.Eq(back), "%s != %s", typ, back)

	_, err = ToArrowType(types.Type{Oid: types.T_any})
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrNotSupported))
}

func TestExportRoundTrip(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	typ := types.NewArray(types.NewStruct(
		types.NewField("s", types.T_varchar.ToType(), true),
		types.NewField("f", types.T_float32.ToType(), true),
	))
	src, err := vector.NewOffHeap(typ, 2)
	require.NoError(t, err)
	defer src.Close()

	_, err = src.AppendArray(2)
	require.NoError(t, err)
	elems := src.ArrayData()
	_, err = elems.Child(0).AppendString("x")
	require.NoError(t, err)
	_, err = elems.Child(1).AppendFloat32(1.5)
	require.NoError(t, err)
	_, err = elems.AppendStruct(false)
	require.NoError(t, err)
	_, err = elems.AppendStruct(true)
	require.NoError(t, err)
	_, err = src.AppendNull()
	require.NoError(t, err)

	arr, err := Export(mem, src, src.ElementsAppended())
	require.NoError(t, err)
	defer arr.Release()
	require.Equal(t, 2, arr.Len())

	v, err := New(arr)
	require.NoError(t, err)
	require.Equal(t, src.String(), vectorString(v, arr.Len()))
	require.True(t, v.IsNullAt(1))
	first := v.GetArray(0)
	require.Equal(t, 2, first.Len())
	require.Equal(t, "x", first.GetStruct(0).GetString(0))
	require.Equal(t, float32(1.5), first.GetStruct(0).GetFloat32(1))
	require.True(t, first.IsNullAt(1))
}

func vectorString(col vector.ColumnVector, n int) string {
	s := "["
	for i := 0; i < n; i++ {
		if i > 0 {
			s += " "
		}
		s += vector.ValueString(col, i)
	}
	return s + "]"
}
