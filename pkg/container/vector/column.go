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

// ColumnVector is the read only surface of a column, whatever stores it.
// Getters are free of side effects. Reading a typed value of a null row
// returns an unspecified value, callers check IsNullAt first.
type ColumnVector interface {
	Type() types.Type

	NumNulls() int
	HasNull() bool
	IsNullAt(row int) bool

	GetBool(row int) bool
	GetInt8(row int) int8
	GetInt16(row int) int16
	GetInt32(row int) int32
	GetInt64(row int) int64
	GetFloat32(row int) float32
	GetFloat64(row int) float64
	GetDecimal(row int) types.Decimal
	GetInterval(row int) types.Interval

	// GetBytes returns a view of the stored bytes, valid until the next write.
	GetBytes(row int) []byte
	GetString(row int) string

	GetArray(row int) Array
	GetStruct(row int) Struct

	NumChildren() int
	ChildColumn(ordinal int) ColumnVector

	Close() error
}
