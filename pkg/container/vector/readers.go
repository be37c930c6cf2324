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
	"github.com/matrixorigin/colvec/pkg/common/moerr"
	"github.com/matrixorigin/colvec/pkg/container/types"
)

// Reader is generated from a vector.
// It hides whether the vector holds nulls and provides a series of methods
// to get values.
type Reader[T any] interface {
	// GetType will return the type info of the wrapped vector.
	GetType() types.Type

	// GetSourceVector return the source vector.
	GetSourceVector() *Vector

	// GetValue return the idx th value and if it's null or not.
	GetValue(idx uint64) (T, bool)

	// UnSafeGetAllValue return all the appended values.
	// please use it carefully because we didn't check the null situation.
	UnSafeGetAllValue() []T
}

var _ Reader[int64] = &ReaderNormal[int64]{}
var _ Reader[int64] = &ReaderWithoutNull[int64]{}
var _ Reader[[]byte] = &StrReader{}

func GenerateFixedReader[T types.FixedSizeT](v *Vector) Reader[T] {
	cols := MustFixedCol[T](v)
	if v.HasNull() {
		return &ReaderNormal[T]{
			typ:          v.typ,
			sourceVector: v,
			values:       cols,
		}
	}
	return &ReaderWithoutNull[T]{
		typ:          v.typ,
		sourceVector: v,
		values:       cols,
	}
}

// GenerateStrReader wraps a varchar or binary vector.
func GenerateStrReader(v *Vector) (*StrReader, error) {
	if !v.typ.IsByteStream() || v.typ.Oid == types.T_decimal {
		return nil, moerr.NewTypeMismatchNoCtx(v.typ.String(), []byte(nil))
	}
	return &StrReader{sourceVector: v}, nil
}

// ReaderNormal is a wrapper of a vector which may contain null values.
type ReaderNormal[T types.FixedSizeT] struct {
	typ          types.Type
	sourceVector *Vector
	values       []T
}

func (p *ReaderNormal[T]) GetType() types.Type {
	return p.typ
}

func (p *ReaderNormal[T]) GetSourceVector() *Vector {
	return p.sourceVector
}

func (p *ReaderNormal[T]) GetValue(idx uint64) (value T, isNull bool) {
	if p.sourceVector.IsNullAt(int(idx)) {
		return value, true
	}
	return p.values[idx], false
}

func (p *ReaderNormal[T]) UnSafeGetAllValue() []T {
	return p.values
}

// ReaderWithoutNull is a wrapper of a vector without null values.
type ReaderWithoutNull[T types.FixedSizeT] struct {
	typ          types.Type
	sourceVector *Vector
	values       []T
}

func (p *ReaderWithoutNull[T]) GetType() types.Type {
	return p.typ
}

func (p *ReaderWithoutNull[T]) GetSourceVector() *Vector {
	return p.sourceVector
}

func (p *ReaderWithoutNull[T]) GetValue(idx uint64) (T, bool) {
	return p.values[idx], false
}

func (p *ReaderWithoutNull[T]) UnSafeGetAllValue() []T {
	return p.values
}

type StrReader struct {
	sourceVector *Vector
}

func (p *StrReader) GetType() types.Type {
	return p.sourceVector.typ
}

func (p *StrReader) GetSourceVector() *Vector {
	return p.sourceVector
}

func (p *StrReader) GetValue(idx uint64) ([]byte, bool) {
	if p.sourceVector.IsNullAt(int(idx)) {
		return nil, true
	}
	return p.sourceVector.GetBytes(int(idx)), false
}

// UnSafeGetAllValue copies out every appended row, nulls as nil.
func (p *StrReader) UnSafeGetAllValue() [][]byte {
	n := p.sourceVector.elementsAppended
	rs := make([][]byte, n)
	for i := 0; i < n; i++ {
		rs[i], _ = p.GetValue(uint64(i))
	}
	return rs
}

// Builder appends values of one type to a vector it owns.
type Builder[T any] struct {
	vec *Vector
}

// NewBuilder creates a builder over a fresh vector of typ.
func NewBuilder[T any](mode MemoryMode, typ types.Type, capacity int, opts ...Option) (*Builder[T], error) {
	v, err := New(mode, typ, capacity, opts...)
	if err != nil {
		return nil, err
	}
	return &Builder[T]{vec: v}, nil
}

// Append adds val, or a null when isNull is set.
func (b *Builder[T]) Append(val T, isNull bool) error {
	var err error
	if isNull {
		_, err = b.vec.AppendNull()
		return err
	}
	switch x := any(val).(type) {
	case bool:
		_, err = b.vec.AppendBool(x)
	case int8:
		_, err = b.vec.AppendInt8(x)
	case int16:
		_, err = b.vec.AppendInt16(x)
	case int32:
		_, err = b.vec.AppendInt32(x)
	case int64:
		_, err = b.vec.AppendInt64(x)
	case float32:
		_, err = b.vec.AppendFloat32(x)
	case float64:
		_, err = b.vec.AppendFloat64(x)
	case []byte:
		_, err = b.vec.AppendByteArray(x)
	case string:
		_, err = b.vec.AppendString(x)
	case types.Decimal:
		_, err = b.vec.AppendDecimal(x)
	case types.Interval:
		_, err = b.vec.AppendInterval(x)
	default:
		err = moerr.NewTypeMismatchNoCtx(b.vec.typ.String(), val)
	}
	return err
}

func (b *Builder[T]) GetType() types.Type {
	return b.vec.typ
}

func (b *Builder[T]) GetResultVector() *Vector {
	return b.vec
}

func (b *Builder[T]) Free() {
	_ = b.vec.Close()
}
