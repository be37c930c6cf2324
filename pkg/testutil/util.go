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

package testutil

import (
	"math/rand"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow/decimal128"

	"github.com/matrixorigin/colvec/pkg/common/moerr"
	"github.com/matrixorigin/colvec/pkg/container/batch"
	"github.com/matrixorigin/colvec/pkg/container/types"
	"github.com/matrixorigin/colvec/pkg/container/vector"
)

var leafTypes = []types.T{
	types.T_bool,
	types.T_int8,
	types.T_int16,
	types.T_int32,
	types.T_int64,
	types.T_float32,
	types.T_float64,
	types.T_decimal,
	types.T_varchar,
	types.T_binary,
	types.T_interval,
}

// RandomType draws a type nested at most depth levels below the root.
func RandomType(r *rand.Rand, depth int) types.Type {
	if depth > 0 {
		switch r.Intn(4) {
		case 0:
			return types.NewArray(RandomType(r, depth-1))
		case 1:
			return types.NewStruct(RandomFields(r, 1+r.Intn(3), depth-1)...)
		}
	}
	oid := leafTypes[r.Intn(len(leafTypes))]
	if oid == types.T_decimal {
		precision := int32(1 + r.Intn(types.MaxDecimalPrecision))
		return types.NewDecimal(precision, int32(r.Intn(int(precision)+1)))
	}
	return oid.ToType()
}

func RandomFields(r *rand.Rand, n, depth int) []types.Field {
	fields := make([]types.Field, n)
	for i := range fields {
		fields[i] = types.NewField("f"+strconv.Itoa(i), RandomType(r, depth), true)
	}
	return fields
}

// RandomValue draws a value of typ in the shape row conversion uses: Go
// primitives, string, []byte, types.Decimal, types.Interval, []any for
// arrays and for structs (one entry per field), nil for null.
func RandomValue(r *rand.Rand, typ types.Type, nullRate float64) any {
	if r.Float64() < nullRate {
		return nil
	}
	switch typ.Oid {
	case types.T_bool:
		return r.Intn(2) == 1
	case types.T_int8:
		return int8(r.Intn(256) - 128)
	case types.T_int16:
		return int16(r.Intn(1<<16) - 1<<15)
	case types.T_int32:
		return int32(r.Uint32())
	case types.T_int64:
		return int64(r.Uint64())
	case types.T_float32:
		return r.Float32()*2000 - 1000
	case types.T_float64:
		return r.NormFloat64() * 1e6
	case types.T_decimal:
		return RandomDecimal(r, typ.Width, typ.Scale)
	case types.T_varchar:
		bs := make([]byte, r.Intn(12))
		for i := range bs {
			bs[i] = byte('a' + r.Intn(26))
		}
		return string(bs)
	case types.T_binary:
		bs := make([]byte, r.Intn(12))
		r.Read(bs)
		return bs
	case types.T_interval:
		return types.Interval{
			Months:       int32(r.Intn(240) - 120),
			Days:         int32(r.Intn(62) - 31),
			Microseconds: r.Int63n(types.MicrosPerDay),
		}
	case types.T_array:
		elems := make([]any, r.Intn(5))
		for i := range elems {
			elems[i] = RandomValue(r, *typ.Elem, nullRate)
		}
		return elems
	case types.T_struct:
		vals := make([]any, len(typ.Fields))
		for i, f := range typ.Fields {
			vals[i] = RandomValue(r, f.Type, nullRate)
		}
		return vals
	}
	panic(moerr.NewNotSupportedNoCtx("random value of type %s", typ))
}

// RandomDecimal draws a value that fits precision digits.
func RandomDecimal(r *rand.Rand, precision, scale int32) types.Decimal {
	digits := min(precision, types.MaxDecimal64Precision)
	num := decimal128.FromI64(r.Int63n(pow10(digits)))
	if rest := min(precision-digits, types.MaxDecimal64Precision); rest > 0 {
		num = num.Mul(decimal128.FromI64(pow10(rest))).Add(decimal128.FromI64(r.Int63n(pow10(rest))))
	}
	if r.Intn(2) == 0 {
		num = num.Negate()
	}
	return types.Decimal{Num: num, Precision: precision, Scale: scale}
}

func pow10(n int32) int64 {
	v := int64(1)
	for i := int32(0); i < n; i++ {
		v *= 10
	}
	return v
}

// RandomRows draws n rows for fields.
func RandomRows(r *rand.Rand, fields []types.Field, n int, nullRate float64) [][]any {
	rows := make([][]any, n)
	for i := range rows {
		row := make([]any, len(fields))
		for j, f := range fields {
			row[j] = RandomValue(r, f.Type, nullRate)
		}
		rows[i] = row
	}
	return rows
}

// NewBatch builds a batch of n rows over flat types, one column per type.
// Values are random, or the row number when random is false.
func NewBatch(ts []types.Type, mode vector.MemoryMode, random bool, n int) *batch.Batch {
	fields := make([]types.Field, len(ts))
	cols := make([]vector.ColumnVector, len(ts))
	for i, typ := range ts {
		fields[i] = types.NewField("c"+strconv.Itoa(i), typ, true)
		cols[i] = NewVector(n, typ, mode, random)
	}
	bat := batch.New(fields, cols, n)
	if err := bat.SetNumRows(n); err != nil {
		panic(err)
	}
	return bat
}

func NewVector(n int, typ types.Type, mode vector.MemoryMode, random bool) *vector.Vector {
	vec, err := vector.New(mode, typ, n)
	if err != nil {
		panic(err)
	}
	r := rand.New(rand.NewSource(int64(n)))
	value := func(i int) int64 {
		if random {
			return r.Int63()
		}
		return int64(i)
	}
	for i := 0; i < n; i++ {
		v := value(i)
		switch typ.Oid {
		case types.T_bool:
			_, err = vec.AppendBool(v%2 == 0)
		case types.T_int8:
			_, err = vec.AppendInt8(int8(v))
		case types.T_int16:
			_, err = vec.AppendInt16(int16(v))
		case types.T_int32:
			_, err = vec.AppendInt32(int32(v))
		case types.T_int64:
			_, err = vec.AppendInt64(v)
		case types.T_float32:
			_, err = vec.AppendFloat32(float32(v))
		case types.T_float64:
			_, err = vec.AppendFloat64(float64(v))
		case types.T_decimal:
			_, err = vec.AppendDecimal(types.DecimalFromInt64(v%pow10(min(typ.Width, types.MaxDecimal64Precision)), typ.Width, typ.Scale))
		case types.T_varchar, types.T_binary:
			_, err = vec.AppendString(strconv.FormatInt(v, 10))
		case types.T_interval:
			_, err = vec.AppendInterval(types.Interval{Days: int32(v % 365)})
		default:
			panic(moerr.NewNotSupportedNoCtx("vector of type %s", typ))
		}
		if err != nil {
			panic(err)
		}
	}
	return vec
}
