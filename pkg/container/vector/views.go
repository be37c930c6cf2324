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
	"github.com/matrixorigin/colvec/pkg/container/types"
)

// Array is the value of one array row: length elements of data starting at
// offset.
type Array struct {
	data   ColumnVector
	offset int
	length int
}

func NewArray(data ColumnVector, offset, length int) Array {
	return Array{data: data, offset: offset, length: length}
}

func (a Array) Len() int                 { return a.length }
func (a Array) Offset() int              { return a.offset }
func (a Array) Data() ColumnVector       { return a.data }
func (a Array) IsNullAt(i int) bool      { return a.data.IsNullAt(a.offset + i) }
func (a Array) GetBool(i int) bool       { return a.data.GetBool(a.offset + i) }
func (a Array) GetInt8(i int) int8       { return a.data.GetInt8(a.offset + i) }
func (a Array) GetInt16(i int) int16     { return a.data.GetInt16(a.offset + i) }
func (a Array) GetInt32(i int) int32     { return a.data.GetInt32(a.offset + i) }
func (a Array) GetInt64(i int) int64     { return a.data.GetInt64(a.offset + i) }
func (a Array) GetFloat32(i int) float32 { return a.data.GetFloat32(a.offset + i) }
func (a Array) GetFloat64(i int) float64 { return a.data.GetFloat64(a.offset + i) }
func (a Array) GetBytes(i int) []byte    { return a.data.GetBytes(a.offset + i) }
func (a Array) GetString(i int) string   { return a.data.GetString(a.offset + i) }
func (a Array) GetArray(i int) Array     { return a.data.GetArray(a.offset + i) }
func (a Array) GetStruct(i int) Struct   { return a.data.GetStruct(a.offset + i) }

func (a Array) GetDecimal(i int) types.Decimal {
	return a.data.GetDecimal(a.offset + i)
}

func (a Array) GetInterval(i int) types.Interval {
	return a.data.GetInterval(a.offset + i)
}

func (a Array) ToBools() []bool {
	ret := make([]bool, a.length)
	for i := range ret {
		ret[i] = a.GetBool(i)
	}
	return ret
}

func (a Array) ToInt8s() []int8 {
	ret := make([]int8, a.length)
	for i := range ret {
		ret[i] = a.GetInt8(i)
	}
	return ret
}

func (a Array) ToInt16s() []int16 {
	ret := make([]int16, a.length)
	for i := range ret {
		ret[i] = a.GetInt16(i)
	}
	return ret
}

func (a Array) ToInt32s() []int32 {
	ret := make([]int32, a.length)
	for i := range ret {
		ret[i] = a.GetInt32(i)
	}
	return ret
}

func (a Array) ToInt64s() []int64 {
	ret := make([]int64, a.length)
	for i := range ret {
		ret[i] = a.GetInt64(i)
	}
	return ret
}

func (a Array) ToFloat32s() []float32 {
	ret := make([]float32, a.length)
	for i := range ret {
		ret[i] = a.GetFloat32(i)
	}
	return ret
}

func (a Array) ToFloat64s() []float64 {
	ret := make([]float64, a.length)
	for i := range ret {
		ret[i] = a.GetFloat64(i)
	}
	return ret
}

// Struct is a sub row view: field i of the row is row rowID of column i.
type Struct struct {
	cols  []ColumnVector
	rowID int
}

func NewStruct(cols []ColumnVector, rowID int) Struct {
	return Struct{cols: cols, rowID: rowID}
}

func (s Struct) NumFields() int                  { return len(s.cols) }
func (s Struct) RowID() int                      { return s.rowID }
func (s Struct) Column(ordinal int) ColumnVector { return s.cols[ordinal] }

// IsNullAt consults the null flag of the addressed column.
func (s Struct) IsNullAt(ordinal int) bool      { return s.cols[ordinal].IsNullAt(s.rowID) }
func (s Struct) GetBool(ordinal int) bool       { return s.cols[ordinal].GetBool(s.rowID) }
func (s Struct) GetInt8(ordinal int) int8       { return s.cols[ordinal].GetInt8(s.rowID) }
func (s Struct) GetInt16(ordinal int) int16     { return s.cols[ordinal].GetInt16(s.rowID) }
func (s Struct) GetInt32(ordinal int) int32     { return s.cols[ordinal].GetInt32(s.rowID) }
func (s Struct) GetInt64(ordinal int) int64     { return s.cols[ordinal].GetInt64(s.rowID) }
func (s Struct) GetFloat32(ordinal int) float32 { return s.cols[ordinal].GetFloat32(s.rowID) }
func (s Struct) GetFloat64(ordinal int) float64 { return s.cols[ordinal].GetFloat64(s.rowID) }
func (s Struct) GetBytes(ordinal int) []byte    { return s.cols[ordinal].GetBytes(s.rowID) }
func (s Struct) GetString(ordinal int) string   { return s.cols[ordinal].GetString(s.rowID) }
func (s Struct) GetArray(ordinal int) Array     { return s.cols[ordinal].GetArray(s.rowID) }
func (s Struct) GetStruct(ordinal int) Struct   { return s.cols[ordinal].GetStruct(s.rowID) }

func (s Struct) GetDecimal(ordinal int) types.Decimal {
	return s.cols[ordinal].GetDecimal(s.rowID)
}

func (s Struct) GetInterval(ordinal int) types.Interval {
	return s.cols[ordinal].GetInterval(s.rowID)
}
