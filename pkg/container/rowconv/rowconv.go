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

// Package rowconv converts generic rows to column batches and back.
//
// A value is nil for null, a Go primitive (bool, int8 to int64, float32,
// float64), string for varchar, []byte for binary, types.Decimal,
// types.Interval, []any holding the elements of an array, or []any holding
// one value per field of a struct.
package rowconv

import (
	"github.com/matrixorigin/colvec/pkg/common/moerr"
	"github.com/matrixorigin/colvec/pkg/container/batch"
	"github.com/matrixorigin/colvec/pkg/container/types"
	"github.com/matrixorigin/colvec/pkg/container/vector"
)

// Row holds one value per field.
type Row = []any

// ToBatch appends rows to a new batch allocated for fields.
func ToBatch(fields []types.Field, rows []Row, mode vector.MemoryMode, opts ...vector.Option) (*batch.Batch, error) {
	bat, err := batch.Allocate(fields, mode, len(rows), opts...)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if len(row) != len(fields) {
			_ = bat.Close()
			return nil, moerr.NewInvalidInputNoCtx("row %d has %d values for %d fields", i, len(row), len(fields))
		}
		for j, value := range row {
			v, _ := bat.Vector(j)
			if err = ToVector(v, value); err != nil {
				_ = bat.Close()
				return nil, err
			}
		}
	}
	if err = bat.SetNumRows(len(rows)); err != nil {
		_ = bat.Close()
		return nil, err
	}
	return bat, nil
}

// ToVector appends value to v.
func ToVector(v *vector.Vector, value any) error {
	if value == nil {
		_, err := v.AppendNull()
		return err
	}
	typ := v.Type()
	mismatch := func() error {
		return moerr.NewTypeMismatchNoCtx(typ.String(), value)
	}
	var err error
	switch typ.Oid {
	case types.T_bool:
		x, ok := value.(bool)
		if !ok {
			return mismatch()
		}
		_, err = v.AppendBool(x)
	case types.T_int8:
		x, ok := value.(int8)
		if !ok {
			return mismatch()
		}
		_, err = v.AppendInt8(x)
	case types.T_int16:
		x, ok := value.(int16)
		if !ok {
			return mismatch()
		}
		_, err = v.AppendInt16(x)
	case types.T_int32:
		x, ok := value.(int32)
		if !ok {
			return mismatch()
		}
		_, err = v.AppendInt32(x)
	case types.T_int64:
		x, ok := value.(int64)
		if !ok {
			return mismatch()
		}
		_, err = v.AppendInt64(x)
	case types.T_float32:
		x, ok := value.(float32)
		if !ok {
			return mismatch()
		}
		_, err = v.AppendFloat32(x)
	case types.T_float64:
		x, ok := value.(float64)
		if !ok {
			return mismatch()
		}
		_, err = v.AppendFloat64(x)
	case types.T_decimal:
		x, ok := value.(types.Decimal)
		if !ok {
			return mismatch()
		}
		_, err = v.AppendDecimal(x)
	case types.T_varchar, types.T_binary:
		switch x := value.(type) {
		case string:
			_, err = v.AppendString(x)
		case []byte:
			_, err = v.AppendByteArray(x)
		default:
			return mismatch()
		}
	case types.T_interval:
		x, ok := value.(types.Interval)
		if !ok {
			return mismatch()
		}
		_, err = v.AppendInterval(x)
	case types.T_array:
		elems, ok := value.([]any)
		if !ok {
			return mismatch()
		}
		if _, err = v.AppendArray(len(elems)); err != nil {
			return err
		}
		for _, elem := range elems {
			if err = ToVector(v.ArrayData(), elem); err != nil {
				return err
			}
		}
	case types.T_struct:
		vals, ok := value.([]any)
		if !ok || len(vals) != v.NumChildren() {
			return mismatch()
		}
		for i, val := range vals {
			if err = ToVector(v.Child(i), val); err != nil {
				return err
			}
		}
		_, err = v.AppendStruct(false)
	default:
		return moerr.NewNotSupportedNoCtx("row conversion of %s", typ)
	}
	return err
}

// Value reads row of col back into the generic shape, copying bytes out of
// the column.
func Value(col vector.ColumnVector, row int) any {
	if col.IsNullAt(row) {
		return nil
	}
	typ := col.Type()
	switch typ.Oid {
	case types.T_bool:
		return col.GetBool(row)
	case types.T_int8:
		return col.GetInt8(row)
	case types.T_int16:
		return col.GetInt16(row)
	case types.T_int32:
		return col.GetInt32(row)
	case types.T_int64:
		return col.GetInt64(row)
	case types.T_float32:
		return col.GetFloat32(row)
	case types.T_float64:
		return col.GetFloat64(row)
	case types.T_decimal:
		return col.GetDecimal(row)
	case types.T_varchar:
		return col.GetString(row)
	case types.T_binary:
		bs := col.GetBytes(row)
		out := make([]byte, len(bs))
		copy(out, bs)
		return out
	case types.T_interval:
		return col.GetInterval(row)
	case types.T_array:
		arr := col.GetArray(row)
		elems := make([]any, arr.Len())
		for i := range elems {
			elems[i] = Value(arr.Data(), arr.Offset()+i)
		}
		return elems
	case types.T_struct:
		return FromRow(col.GetStruct(row))
	}
	panic(moerr.NewNotSupportedNoCtx("row conversion of %s", typ))
}

// FromRow reads every field of a struct view, a batch row included.
func FromRow(s vector.Struct) Row {
	row := make(Row, s.NumFields())
	for i := range row {
		row[i] = Value(s.Column(i), s.RowID())
	}
	return row
}

// FromBatch reads back every row of bat that is not filtered.
func FromBatch(bat *batch.Batch) []Row {
	rows := make([]Row, 0, bat.NumValidRows())
	it := bat.Iterator()
	for it.HasNext() {
		rows = append(rows, FromRow(it.Next().Struct))
	}
	return rows
}
