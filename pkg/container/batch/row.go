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

package batch

import (
	"github.com/matrixorigin/colvec/pkg/common/moerr"
	"github.com/matrixorigin/colvec/pkg/container/types"
	"github.com/matrixorigin/colvec/pkg/container/vector"
)

func (r *Row) MarkFiltered() {
	r.bat.MarkFiltered(r.RowID())
}

func (r *Row) IsFiltered() bool {
	return r.bat.IsFiltered(r.RowID())
}

func (r *Row) writable(ordinal int) (*vector.Vector, error) {
	v, ok := r.bat.Vector(ordinal)
	if !ok {
		return nil, moerr.NewReadOnlyVectorNoCtx(ordinal)
	}
	return v, nil
}

func (r *Row) SetNullAt(ordinal int) error {
	v, err := r.writable(ordinal)
	if err != nil {
		return err
	}
	v.PutNull(r.RowID())
	return nil
}

// Update writes value into the column at ordinal, nil meaning null. The
// value must have the Go type the column stores: bool, int8 to int64,
// float32, float64, types.Decimal, types.Interval, or string and []byte
// for varchar and binary columns. Array and struct columns are written
// through their vectors.
func (r *Row) Update(ordinal int, value any) error {
	if value == nil {
		return r.SetNullAt(ordinal)
	}
	v, err := r.writable(ordinal)
	if err != nil {
		return err
	}
	row := r.RowID()
	typ := v.Type()
	mismatch := func() error {
		return moerr.NewTypeMismatchNoCtx(typ.String(), value)
	}
	switch typ.Oid {
	case types.T_bool:
		x, ok := value.(bool)
		if !ok {
			return mismatch()
		}
		v.PutBool(row, x)
	case types.T_int8:
		x, ok := value.(int8)
		if !ok {
			return mismatch()
		}
		v.PutInt8(row, x)
	case types.T_int16:
		x, ok := value.(int16)
		if !ok {
			return mismatch()
		}
		v.PutInt16(row, x)
	case types.T_int32:
		x, ok := value.(int32)
		if !ok {
			return mismatch()
		}
		v.PutInt32(row, x)
	case types.T_int64:
		x, ok := value.(int64)
		if !ok {
			return mismatch()
		}
		v.PutInt64(row, x)
	case types.T_float32:
		x, ok := value.(float32)
		if !ok {
			return mismatch()
		}
		v.PutFloat32(row, x)
	case types.T_float64:
		x, ok := value.(float64)
		if !ok {
			return mismatch()
		}
		v.PutFloat64(row, x)
	case types.T_decimal:
		x, ok := value.(types.Decimal)
		if !ok {
			return mismatch()
		}
		if err = v.PutDecimal(row, x); err != nil {
			return err
		}
	case types.T_varchar, types.T_binary:
		var bs []byte
		switch x := value.(type) {
		case []byte:
			bs = x
		case string:
			bs = []byte(x)
		default:
			return mismatch()
		}
		if _, err = v.PutByteArray(row, bs); err != nil {
			return err
		}
	case types.T_interval:
		x, ok := value.(types.Interval)
		if !ok {
			return mismatch()
		}
		v.PutInterval(row, x)
	default:
		return moerr.NewNotSupportedNoCtx("row update of %s", typ)
	}
	v.PutNotNull(row)
	return nil
}
