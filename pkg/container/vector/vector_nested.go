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
	"unsafe"

	"github.com/matrixorigin/colvec/pkg/common/moerr"
	"github.com/matrixorigin/colvec/pkg/container/types"
)

func (v *Vector) putOffsetLength(row, offset, length int) {
	*(*int32)(unsafe.Pointer(unsafe.SliceData(v.b.bytes(bufOffsets, row*4, 4)))) = int32(offset)
	*(*int32)(unsafe.Pointer(unsafe.SliceData(v.b.bytes(bufLengths, row*4, 4)))) = int32(length)
}

// ArrayOffset is where the elements of row start in ArrayData.
func (v *Vector) ArrayOffset(row int) int {
	return int(*(*int32)(unsafe.Pointer(unsafe.SliceData(v.b.bytes(bufOffsets, row*4, 4)))))
}

// ArrayLength is the number of elements of row.
func (v *Vector) ArrayLength(row int) int {
	return int(*(*int32)(unsafe.Pointer(unsafe.SliceData(v.b.bytes(bufLengths, row*4, 4)))))
}

// PutArray points row at length elements of ArrayData starting at offset.
// No element is copied, rows may share ranges.
func (v *Vector) PutArray(row, offset, length int) {
	v.putOffsetLength(row, offset, length)
}

// AppendArray appends a row of length elements starting at the current end
// of ArrayData. The caller appends the elements to ArrayData afterwards.
func (v *Vector) AppendArray(length int) (int, error) {
	idx, err := v.reserveAppend(1)
	if err != nil {
		return 0, err
	}
	v.putOffsetLength(idx, v.children[0].elementsAppended, length)
	v.elementsAppended++
	return idx, nil
}

// appendBytes copies bs to the end of a byte stream vector.
func (v *Vector) appendBytes(bs []byte) (int, error) {
	idx, err := v.reserveAppend(len(bs))
	if err != nil {
		return 0, err
	}
	copy(v.b.bytes(bufValues, idx, len(bs)), bs)
	v.elementsAppended += len(bs)
	return idx, nil
}

// PutByteArray appends bs to the byte stream, points row at it and returns
// the stream offset used.
func (v *Vector) PutByteArray(row int, bs []byte) (int, error) {
	off, err := v.children[0].appendBytes(bs)
	if err != nil {
		return 0, err
	}
	v.putOffsetLength(row, off, len(bs))
	return off, nil
}

func (v *Vector) AppendByteArray(bs []byte) (int, error) {
	idx, err := v.reserveAppend(1)
	if err != nil {
		return 0, err
	}
	if _, err = v.PutByteArray(idx, bs); err != nil {
		return 0, err
	}
	v.elementsAppended++
	return idx, nil
}

func (v *Vector) AppendString(s string) (int, error) {
	return v.AppendByteArray(unsafe.Slice(unsafe.StringData(s), len(s)))
}

func (v *Vector) GetBytes(row int) []byte {
	if v.IsNullAt(row) {
		return nil
	}
	n := v.ArrayLength(row)
	if n == 0 {
		return []byte{}
	}
	return v.children[0].b.bytes(bufValues, v.ArrayOffset(row), n)
}

func (v *Vector) GetString(row int) string {
	return string(v.GetBytes(row))
}

func (v *Vector) GetArray(row int) Array {
	if v.IsNullAt(row) {
		return NewArray(v.children[0], 0, 0)
	}
	return NewArray(v.children[0], v.ArrayOffset(row), v.ArrayLength(row))
}

func (v *Vector) GetStruct(row int) Struct {
	return NewStruct(v.childCols, row)
}

// PutDecimal stores d at row, rescaled to the scale of the vector. It fails
// when d does not fit the vector precision.
func (v *Vector) PutDecimal(row int, d types.Decimal) error {
	if d.Scale != v.typ.Scale || d.Precision > v.typ.Width {
		var err error
		if d, err = d.Rescale(v.typ.Width, v.typ.Scale); err != nil {
			return err
		}
	}
	if v.typ.IsDecimal64() {
		putFixed(v, row, d.Unscaled64())
		return nil
	}
	var buf [types.Decimal128Size]byte
	_, err := v.PutByteArray(row, d.AppendBytes(buf[:0]))
	return err
}

func (v *Vector) AppendDecimal(d types.Decimal) (int, error) {
	idx, err := v.reserveAppend(1)
	if err != nil {
		return 0, err
	}
	if err = v.PutDecimal(idx, d); err != nil {
		return 0, err
	}
	v.elementsAppended++
	return idx, nil
}

func (v *Vector) GetDecimal(row int) types.Decimal {
	if v.typ.IsDecimal64() {
		return types.DecimalFromInt64(getFixed[int64](v, row), v.typ.Width, v.typ.Scale)
	}
	bs := v.GetBytes(row)
	if len(bs) != types.Decimal128Size {
		return types.DecimalFromInt64(0, v.typ.Width, v.typ.Scale)
	}
	return types.DecimalFromBytes(bs, v.typ.Width, v.typ.Scale)
}

func (v *Vector) checkInterval() {
	if v.typ.Oid != types.T_interval {
		panic(moerr.NewTypeMismatchNoCtx(v.typ.String(), types.Interval{}))
	}
}

func (v *Vector) PutInterval(row int, iv types.Interval) {
	v.checkInterval()
	v.children[0].PutInt32(row, iv.Months)
	v.children[1].PutInt32(row, iv.Days)
	v.children[2].PutInt64(row, iv.Microseconds)
}

func (v *Vector) AppendInterval(iv types.Interval) (int, error) {
	v.checkInterval()
	idx, err := v.reserveAppend(1)
	if err != nil {
		return 0, err
	}
	if _, err = v.children[0].AppendInt32(iv.Months); err != nil {
		return 0, err
	}
	if _, err = v.children[1].AppendInt32(iv.Days); err != nil {
		return 0, err
	}
	if _, err = v.children[2].AppendInt64(iv.Microseconds); err != nil {
		return 0, err
	}
	v.elementsAppended++
	return idx, nil
}

func (v *Vector) GetInterval(row int) types.Interval {
	v.checkInterval()
	return types.Interval{
		Months:       v.children[0].GetInt32(row),
		Days:         v.children[1].GetInt32(row),
		Microseconds: v.children[2].GetInt64(row),
	}
}

// AppendStruct appends one struct row. A null row appends a null to every
// child, recursively. For a non null row the caller appends each member to
// its child.
func (v *Vector) AppendStruct(isNull bool) (int, error) {
	if !isNull {
		return v.AppendNotNull()
	}
	idx, err := v.reserveAppend(1)
	if err != nil {
		return 0, err
	}
	v.PutNull(idx)
	for _, child := range v.children {
		if _, err = child.AppendNull(); err != nil {
			return 0, err
		}
	}
	v.elementsAppended++
	return idx, nil
}
