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

// Package arrowvec exposes Apache Arrow arrays through vector.ColumnVector
// and exports column vectors back to Arrow.
package arrowvec

import (
	"strings"
	"unsafe"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/matrixorigin/colvec/pkg/common/moerr"
	"github.com/matrixorigin/colvec/pkg/container/types"
	"github.com/matrixorigin/colvec/pkg/container/vector"
)

// Vector is a read only view of one Arrow array. The array stays owned by
// its producer: the view neither retains nor releases it.
type Vector struct {
	typ       types.Type
	arr       arrow.Array
	children  []*Vector
	childCols []vector.ColumnVector
}

var _ vector.ColumnVector = new(Vector)

// New wraps arr. Lists and structs wrap their child arrays recursively.
func New(arr arrow.Array) (*Vector, error) {
	typ, err := FromArrowType(arr.DataType())
	if err != nil {
		return nil, err
	}
	v := &Vector{typ: typ, arr: arr}
	switch a := arr.(type) {
	case *array.List:
		if err = v.addChild(a.ListValues()); err != nil {
			return nil, err
		}
	case *array.Struct:
		for i := 0; i < a.NumField(); i++ {
			if err = v.addChild(a.Field(i)); err != nil {
				return nil, err
			}
		}
	}
	return v, nil
}

func (v *Vector) addChild(arr arrow.Array) error {
	child, err := New(arr)
	if err != nil {
		return err
	}
	v.children = append(v.children, child)
	v.childCols = append(v.childCols, child)
	return nil
}

// Array returns the wrapped Arrow array.
func (v *Vector) Array() arrow.Array {
	return v.arr
}

func (v *Vector) Len() int {
	return v.arr.Len()
}

func (v *Vector) Type() types.Type {
	return v.typ
}

func (v *Vector) NumNulls() int {
	return v.arr.NullN()
}

func (v *Vector) HasNull() bool {
	return v.arr.NullN() > 0
}

func (v *Vector) IsNullAt(row int) bool {
	return v.arr.IsNull(row)
}

func as[A arrow.Array](v *Vector) A {
	a, ok := v.arr.(A)
	if !ok {
		panic(moerr.NewTypeMismatchNoCtx(v.typ.String(), a))
	}
	return a
}

func (v *Vector) GetBool(row int) bool {
	return as[*array.Boolean](v).Value(row)
}

func (v *Vector) GetInt8(row int) int8 {
	return as[*array.Int8](v).Value(row)
}

func (v *Vector) GetInt16(row int) int16 {
	return as[*array.Int16](v).Value(row)
}

func (v *Vector) GetInt32(row int) int32 {
	return as[*array.Int32](v).Value(row)
}

func (v *Vector) GetInt64(row int) int64 {
	return as[*array.Int64](v).Value(row)
}

func (v *Vector) GetFloat32(row int) float32 {
	return as[*array.Float32](v).Value(row)
}

func (v *Vector) GetFloat64(row int) float64 {
	return as[*array.Float64](v).Value(row)
}

func (v *Vector) GetDecimal(row int) types.Decimal {
	return types.Decimal{
		Num:       as[*array.Decimal128](v).Value(row),
		Precision: v.typ.Width,
		Scale:     v.typ.Scale,
	}
}

// GetInterval truncates the nanoseconds of a MonthDayNano value to
// microseconds.
func (v *Vector) GetInterval(row int) types.Interval {
	iv := as[*array.MonthDayNanoInterval](v).Value(row)
	return types.Interval{
		Months:       iv.Months,
		Days:         iv.Days,
		Microseconds: iv.Nanoseconds / 1000,
	}
}

// GetBytes returns a view of the Arrow value buffer, nil for null rows.
func (v *Vector) GetBytes(row int) []byte {
	if v.arr.IsNull(row) {
		return nil
	}
	switch a := v.arr.(type) {
	case *array.String:
		s := a.Value(row)
		return unsafe.Slice(unsafe.StringData(s), len(s))
	case *array.Binary:
		return a.Value(row)
	}
	panic(moerr.NewTypeMismatchNoCtx(v.typ.String(), []byte(nil)))
}

func (v *Vector) GetString(row int) string {
	if v.arr.IsNull(row) {
		return ""
	}
	if a, ok := v.arr.(*array.String); ok {
		return strings.Clone(a.Value(row))
	}
	return string(v.GetBytes(row))
}

func (v *Vector) GetArray(row int) vector.Array {
	l := as[*array.List](v)
	if l.IsNull(row) {
		return vector.NewArray(v.children[0], 0, 0)
	}
	start, end := l.ValueOffsets(row)
	return vector.NewArray(v.children[0], int(start), int(end-start))
}

func (v *Vector) GetStruct(row int) vector.Struct {
	return vector.NewStruct(v.childCols, row)
}

func (v *Vector) NumChildren() int {
	return len(v.children)
}

func (v *Vector) ChildColumn(ordinal int) vector.ColumnVector {
	return v.children[ordinal]
}

// Close is a no-op, the wrapped array belongs to its producer.
func (v *Vector) Close() error {
	return nil
}
