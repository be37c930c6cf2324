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

package types

import (
	"fmt"
	"strings"
)

type T uint8

const (
	// any family
	T_any T = 0

	// bool family
	T_bool T = 10

	// numeric/integer family
	T_int8  T = 20
	T_int16 T = 21
	T_int32 T = 22
	T_int64 T = 23

	// numeric/float family
	T_float32 T = 30
	T_float64 T = 31
	T_decimal T = 32

	// string family
	T_varchar T = 61
	T_binary  T = 64

	// calendar interval, stored as months, days and microseconds
	T_interval T = 80

	// nested family
	T_array  T = 90
	T_struct T = 91
)

const (
	// MaxDecimal64Precision is the largest precision stored unscaled in 8 bytes.
	MaxDecimal64Precision = 18
	// MaxDecimalPrecision is the largest precision a decimal can carry.
	MaxDecimalPrecision = 38

	Decimal128Size = 16
)

// FixedSizeT are the Go types stored packed in a vector value buffer.
type FixedSizeT interface {
	bool | int8 | int16 | int32 | int64 | float32 | float64
}

// Type is one node of a schema type tree.
type Type struct {
	Oid T
	// Width is the decimal precision.
	Width int32
	Scale int32
	// Elem is the element type of an array.
	Elem *Type
	// Fields are the members of a struct.
	Fields []Field
}

// Field is a named member of a struct type or a batch schema.
type Field struct {
	Name     string
	Type     Type
	Nullable bool
}

func New(oid T, width, scale int32) Type {
	return Type{Oid: oid, Width: width, Scale: scale}
}

func NewDecimal(precision, scale int32) Type {
	return Type{Oid: T_decimal, Width: precision, Scale: scale}
}

func NewArray(elem Type) Type {
	return Type{Oid: T_array, Elem: &elem}
}

func NewStruct(fields ...Field) Type {
	return Type{Oid: T_struct, Fields: fields}
}

func NewField(name string, typ Type, nullable bool) Field {
	return Field{Name: name, Type: typ, Nullable: nullable}
}

func (t T) ToType() Type {
	typ := Type{Oid: t}
	if t == T_decimal {
		typ.Width = MaxDecimal64Precision
	}
	return typ
}

// TypeLen is the slot width in bytes of a fixed size type and 0 otherwise.
func (t T) TypeLen() int {
	switch t {
	case T_bool, T_int8:
		return 1
	case T_int16:
		return 2
	case T_int32, T_float32:
		return 4
	case T_int64, T_float64:
		return 8
	}
	return 0
}

func (t T) String() string {
	switch t {
	case T_any:
		return "ANY"
	case T_bool:
		return "BOOL"
	case T_int8:
		return "TINYINT"
	case T_int16:
		return "SMALLINT"
	case T_int32:
		return "INT"
	case T_int64:
		return "BIGINT"
	case T_float32:
		return "FLOAT"
	case T_float64:
		return "DOUBLE"
	case T_decimal:
		return "DECIMAL"
	case T_varchar:
		return "VARCHAR"
	case T_binary:
		return "BINARY"
	case T_interval:
		return "INTERVAL"
	case T_array:
		return "ARRAY"
	case T_struct:
		return "STRUCT"
	}
	return fmt.Sprintf("unexpected type: %d", t)
}

// TypeSize returns the bytes one row takes in the value buffer. Variable
// length and nested types keep nothing there and return 0.
func (t Type) TypeSize() int {
	if t.Oid == T_decimal {
		if t.IsDecimal64() {
			return 8
		}
		return 0
	}
	return t.Oid.TypeLen()
}

func (t Type) IsFixedLen() bool {
	return t.TypeSize() > 0
}

// IsVarlen reports types stored as an (offset, length) pair per row into a
// child stream.
func (t Type) IsVarlen() bool {
	switch t.Oid {
	case T_varchar, T_binary, T_array:
		return true
	case T_decimal:
		return !t.IsDecimal64()
	}
	return false
}

// IsByteStream reports varlen types whose child stream is raw bytes.
func (t Type) IsByteStream() bool {
	return t.IsVarlen() && t.Oid != T_array
}

// IsNested reports types realised as one child vector per member.
func (t Type) IsNested() bool {
	return t.Oid == T_struct || t.Oid == T_interval
}

func (t Type) IsDecimal64() bool {
	return t.Oid == T_decimal && t.Width <= MaxDecimal64Precision
}

func (t Type) String() string {
	switch t.Oid {
	case T_decimal:
		return fmt.Sprintf("DECIMAL(%d,%d)", t.Width, t.Scale)
	case T_array:
		if t.Elem == nil {
			return "ARRAY<ANY>"
		}
		return "ARRAY<" + t.Elem.String() + ">"
	case T_struct:
		var b strings.Builder
		b.WriteString("STRUCT<")
		for i, f := range t.Fields {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(f.Name)
			b.WriteString(":")
			b.WriteString(f.Type.String())
		}
		b.WriteString(">")
		return b.String()
	}
	return t.Oid.String()
}

func (t Type) Eq(b Type) bool {
	if t.Oid != b.Oid {
		return false
	}
	switch t.Oid {
	case T_decimal:
		return t.Width == b.Width && t.Scale == b.Scale
	case T_array:
		if t.Elem == nil || b.Elem == nil {
			return t.Elem == b.Elem
		}
		return t.Elem.Eq(*b.Elem)
	case T_struct:
		if len(t.Fields) != len(b.Fields) {
			return false
		}
		for i := range t.Fields {
			if t.Fields[i].Name != b.Fields[i].Name ||
				t.Fields[i].Nullable != b.Fields[i].Nullable ||
				!t.Fields[i].Type.Eq(b.Fields[i].Type) {
				return false
			}
		}
	}
	return true
}

// Depth is 1 for leaf types and grows by one per level of nesting.
func (t Type) Depth() int {
	switch t.Oid {
	case T_array:
		if t.Elem == nil {
			return 1
		}
		return 1 + t.Elem.Depth()
	case T_struct:
		d := 0
		for _, f := range t.Fields {
			d = max(d, f.Type.Depth())
		}
		return 1 + d
	}
	return 1
}

func (f Field) String() string {
	if f.Nullable {
		return f.Name + " " + f.Type.String()
	}
	return f.Name + " " + f.Type.String() + " NOT NULL"
}
