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

package main

import (
	"github.com/matrixorigin/colvec/pkg/common/moerr"
	"github.com/matrixorigin/colvec/pkg/container/batch"
	"github.com/matrixorigin/colvec/pkg/container/types"
	"github.com/matrixorigin/colvec/pkg/container/vector"
)

// copyColumns copies every flat writable column of bat into a new vector
// through the typed readers and builders. It returns the number of non-null
// values copied. Nested and decimal columns are skipped.
func copyColumns(bat *batch.Batch, mode vector.MemoryMode, opts ...vector.Option) (int, error) {
	total := 0
	for i := 0; i < bat.NumCols(); i++ {
		v, ok := bat.Vector(i)
		if !ok {
			continue
		}
		var (
			n   int
			err error
		)
		switch v.Type().Oid {
		case types.T_bool:
			n, err = copyFixed[bool](v, mode, opts)
		case types.T_int8:
			n, err = copyFixed[int8](v, mode, opts)
		case types.T_int16:
			n, err = copyFixed[int16](v, mode, opts)
		case types.T_int32:
			n, err = copyFixed[int32](v, mode, opts)
		case types.T_int64:
			n, err = copyFixed[int64](v, mode, opts)
		case types.T_float32:
			n, err = copyFixed[float32](v, mode, opts)
		case types.T_float64:
			n, err = copyFixed[float64](v, mode, opts)
		case types.T_varchar, types.T_binary:
			n, err = copyBytes(v, mode, opts)
		default:
			continue
		}
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

func copyFixed[T types.FixedSizeT](v *vector.Vector, mode vector.MemoryMode, opts []vector.Option) (int, error) {
	r := vector.GenerateFixedReader[T](v)
	b, err := vector.NewBuilder[T](mode, r.GetType(), v.ElementsAppended(), opts...)
	if err != nil {
		return 0, err
	}
	defer b.Free()
	return copyValues[T](r, b)
}

func copyBytes(v *vector.Vector, mode vector.MemoryMode, opts []vector.Option) (int, error) {
	r, err := vector.GenerateStrReader(v)
	if err != nil {
		return 0, err
	}
	b, err := vector.NewBuilder[[]byte](mode, r.GetType(), v.ElementsAppended(), opts...)
	if err != nil {
		return 0, err
	}
	defer b.Free()
	return copyValues[[]byte](r, b)
}

func copyValues[T any](r vector.Reader[T], b *vector.Builder[T]) (int, error) {
	src := r.GetSourceVector()
	n := 0
	for i := 0; i < src.ElementsAppended(); i++ {
		val, null := r.GetValue(uint64(i))
		if err := b.Append(val, null); err != nil {
			return 0, err
		}
		if !null {
			n++
		}
	}
	dst := b.GetResultVector()
	if dst.ElementsAppended() != src.ElementsAppended() || dst.NumNulls() != src.NumNulls() {
		return 0, moerr.NewInternalErrorNoCtx("copied %d values with %d nulls from %d with %d nulls",
			dst.ElementsAppended(), dst.NumNulls(), src.ElementsAppended(), src.NumNulls())
	}
	return n, nil
}
