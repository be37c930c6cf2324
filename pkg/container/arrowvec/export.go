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
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/matrixorigin/colvec/pkg/common/moerr"
	"github.com/matrixorigin/colvec/pkg/container/vector"
)

// Export copies the first n rows of col into a new Arrow array allocated
// from mem. The caller releases the result.
func Export(mem memory.Allocator, col vector.ColumnVector, n int) (arrow.Array, error) {
	dt, err := ToArrowType(col.Type())
	if err != nil {
		return nil, err
	}
	b := array.NewBuilder(mem, dt)
	defer b.Release()
	b.Reserve(n)
	for row := 0; row < n; row++ {
		if err = appendValue(b, col, row); err != nil {
			return nil, err
		}
	}
	return b.NewArray(), nil
}

func appendValue(b array.Builder, col vector.ColumnVector, row int) error {
	if col.IsNullAt(row) {
		b.AppendNull()
		return nil
	}
	switch bb := b.(type) {
	case *array.BooleanBuilder:
		bb.Append(col.GetBool(row))
	case *array.Int8Builder:
		bb.Append(col.GetInt8(row))
	case *array.Int16Builder:
		bb.Append(col.GetInt16(row))
	case *array.Int32Builder:
		bb.Append(col.GetInt32(row))
	case *array.Int64Builder:
		bb.Append(col.GetInt64(row))
	case *array.Float32Builder:
		bb.Append(col.GetFloat32(row))
	case *array.Float64Builder:
		bb.Append(col.GetFloat64(row))
	case *array.Decimal128Builder:
		bb.Append(col.GetDecimal(row).Num)
	case *array.StringBuilder:
		bb.Append(col.GetString(row))
	case *array.BinaryBuilder:
		bb.Append(col.GetBytes(row))
	case *array.MonthDayNanoIntervalBuilder:
		iv := col.GetInterval(row)
		bb.Append(arrow.MonthDayNanoInterval{
			Months:      iv.Months,
			Days:        iv.Days,
			Nanoseconds: iv.Microseconds * 1000,
		})
	case *array.ListBuilder:
		bb.Append(true)
		arr := col.GetArray(row)
		vb := bb.ValueBuilder()
		for i := 0; i < arr.Len(); i++ {
			if err := appendValue(vb, arr.Data(), arr.Offset()+i); err != nil {
				return err
			}
		}
	case *array.StructBuilder:
		bb.Append(true)
		for i := 0; i < bb.NumField(); i++ {
			if err := appendValue(bb.FieldBuilder(i), col.ChildColumn(i), row); err != nil {
				return err
			}
		}
	default:
		return moerr.NewNotSupportedNoCtx("export of %s", col.Type())
	}
	return nil
}
