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
	"encoding/binary"
	"unsafe"

	"github.com/matrixorigin/colvec/pkg/common/moerr"
	"github.com/matrixorigin/colvec/pkg/container/types"
)

var nativeLittleEndian = func() bool {
	x := uint16(1)
	return *(*byte)(unsafe.Pointer(&x)) == 1
}()

func slotSize[T types.FixedSizeT](v *Vector) int {
	var t T
	sz := int(unsafe.Sizeof(t))
	if sz != v.typ.TypeSize() {
		panic(moerr.NewTypeMismatchNoCtx(v.typ.String(), t))
	}
	return sz
}

func getFixed[T types.FixedSizeT](v *Vector, row int) T {
	sz := slotSize[T](v)
	return *(*T)(unsafe.Pointer(unsafe.SliceData(v.b.bytes(bufValues, row*sz, sz))))
}

func putFixed[T types.FixedSizeT](v *Vector, row int, val T) {
	sz := slotSize[T](v)
	*(*T)(unsafe.Pointer(unsafe.SliceData(v.b.bytes(bufValues, row*sz, sz)))) = val
}

func putRepeat[T types.FixedSizeT](v *Vector, row, count int, val T) {
	if count == 0 {
		return
	}
	sz := slotSize[T](v)
	vals := types.DecodeSlice[T](v.b.bytes(bufValues, row*sz, count*sz))
	for i := range vals {
		vals[i] = val
	}
}

func putSlice[T types.FixedSizeT](v *Vector, row int, src []T) {
	if len(src) == 0 {
		return
	}
	sz := slotSize[T](v)
	copy(v.b.bytes(bufValues, row*sz, len(src)*sz), types.EncodeSlice(src))
}

// putLittleEndian copies count values from src at byte offset srcIndex,
// decoding them as little endian whatever the host order.
func putLittleEndian[T types.FixedSizeT](v *Vector, row, count int, src []byte, srcIndex int) {
	if count == 0 {
		return
	}
	sz := slotSize[T](v)
	dst := v.b.bytes(bufValues, row*sz, count*sz)
	in := src[srcIndex : srcIndex+count*sz]
	if nativeLittleEndian {
		copy(dst, in)
		return
	}
	for i := 0; i < count; i++ {
		p := unsafe.Pointer(&dst[i*sz])
		switch sz {
		case 2:
			*(*uint16)(p) = binary.LittleEndian.Uint16(in[i*sz:])
		case 4:
			*(*uint32)(p) = binary.LittleEndian.Uint32(in[i*sz:])
		case 8:
			*(*uint64)(p) = binary.LittleEndian.Uint64(in[i*sz:])
		default:
			dst[i] = in[i]
		}
	}
}

func appendOne[T types.FixedSizeT](v *Vector, val T) (int, error) {
	idx, err := v.reserveAppend(1)
	if err != nil {
		return 0, err
	}
	putFixed(v, idx, val)
	v.elementsAppended++
	return idx, nil
}

func appendRepeat[T types.FixedSizeT](v *Vector, count int, val T) (int, error) {
	idx, err := v.reserveAppend(count)
	if err != nil {
		return 0, err
	}
	putRepeat(v, idx, count, val)
	v.elementsAppended += count
	return idx, nil
}

func appendSlice[T types.FixedSizeT](v *Vector, src []T) (int, error) {
	idx, err := v.reserveAppend(len(src))
	if err != nil {
		return 0, err
	}
	putSlice(v, idx, src)
	v.elementsAppended += len(src)
	return idx, nil
}

// MustFixedCol returns a typed view of the first ElementsAppended values.
func MustFixedCol[T types.FixedSizeT](v *Vector) []T {
	if v.elementsAppended == 0 {
		return nil
	}
	sz := slotSize[T](v)
	return types.DecodeSlice[T](v.b.bytes(bufValues, 0, v.elementsAppended*sz))
}

func (v *Vector) GetBool(row int) bool {
	return getFixed[bool](v, row)
}

func (v *Vector) PutBool(row int, val bool) {
	putFixed(v, row, val)
}

// PutBools writes val to count rows starting at row.
func (v *Vector) PutBools(row, count int, val bool) {
	putRepeat(v, row, count, val)
}

func (v *Vector) PutBoolSlice(row int, src []bool) {
	putSlice(v, row, src)
}

func (v *Vector) AppendBool(val bool) (int, error) {
	return appendOne(v, val)
}

func (v *Vector) AppendBools(count int, val bool) (int, error) {
	return appendRepeat(v, count, val)
}

func (v *Vector) AppendBoolSlice(src []bool) (int, error) {
	return appendSlice(v, src)
}

func (v *Vector) GetInt8(row int) int8 {
	return getFixed[int8](v, row)
}

func (v *Vector) PutInt8(row int, val int8) {
	putFixed(v, row, val)
}

// PutInt8s writes val to count rows starting at row.
func (v *Vector) PutInt8s(row, count int, val int8) {
	putRepeat(v, row, count, val)
}

func (v *Vector) PutInt8Slice(row int, src []int8) {
	putSlice(v, row, src)
}

func (v *Vector) AppendInt8(val int8) (int, error) {
	return appendOne(v, val)
}

func (v *Vector) AppendInt8s(count int, val int8) (int, error) {
	return appendRepeat(v, count, val)
}

func (v *Vector) AppendInt8Slice(src []int8) (int, error) {
	return appendSlice(v, src)
}

func (v *Vector) GetInt16(row int) int16 {
	return getFixed[int16](v, row)
}

func (v *Vector) PutInt16(row int, val int16) {
	putFixed(v, row, val)
}

// PutInt16s writes val to count rows starting at row.
func (v *Vector) PutInt16s(row, count int, val int16) {
	putRepeat(v, row, count, val)
}

func (v *Vector) PutInt16Slice(row int, src []int16) {
	putSlice(v, row, src)
}

func (v *Vector) AppendInt16(val int16) (int, error) {
	return appendOne(v, val)
}

func (v *Vector) AppendInt16s(count int, val int16) (int, error) {
	return appendRepeat(v, count, val)
}

func (v *Vector) AppendInt16Slice(src []int16) (int, error) {
	return appendSlice(v, src)
}

func (v *Vector) GetInt32(row int) int32 {
	return getFixed[int32](v, row)
}

func (v *Vector) PutInt32(row int, val int32) {
	putFixed(v, row, val)
}

// PutInt32s writes val to count rows starting at row.
func (v *Vector) PutInt32s(row, count int, val int32) {
	putRepeat(v, row, count, val)
}

func (v *Vector) PutInt32Slice(row int, src []int32) {
	putSlice(v, row, src)
}

func (v *Vector) AppendInt32(val int32) (int, error) {
	return appendOne(v, val)
}

func (v *Vector) AppendInt32s(count int, val int32) (int, error) {
	return appendRepeat(v, count, val)
}

func (v *Vector) AppendInt32Slice(src []int32) (int, error) {
	return appendSlice(v, src)
}

func (v *Vector) GetInt64(row int) int64 {
	return getFixed[int64](v, row)
}

func (v *Vector) PutInt64(row int, val int64) {
	putFixed(v, row, val)
}

// PutInt64s writes val to count rows starting at row.
func (v *Vector) PutInt64s(row, count int, val int64) {
	putRepeat(v, row, count, val)
}

func (v *Vector) PutInt64Slice(row int, src []int64) {
	putSlice(v, row, src)
}

func (v *Vector) AppendInt64(val int64) (int, error) {
	return appendOne(v, val)
}

func (v *Vector) AppendInt64s(count int, val int64) (int, error) {
	return appendRepeat(v, count, val)
}

func (v *Vector) AppendInt64Slice(src []int64) (int, error) {
	return appendSlice(v, src)
}

func (v *Vector) GetFloat32(row int) float32 {
	return getFixed[float32](v, row)
}

func (v *Vector) PutFloat32(row int, val float32) {
	putFixed(v, row, val)
}

// PutFloat32s writes val to count rows starting at row.
func (v *Vector) PutFloat32s(row, count int, val float32) {
	putRepeat(v, row, count, val)
}

func (v *Vector) PutFloat32Slice(row int, src []float32) {
	putSlice(v, row, src)
}

func (v *Vector) AppendFloat32(val float32) (int, error) {
	return appendOne(v, val)
}

func (v *Vector) AppendFloat32s(count int, val float32) (int, error) {
	return appendRepeat(v, count, val)
}

func (v *Vector) AppendFloat32Slice(src []float32) (int, error) {
	return appendSlice(v, src)
}

func (v *Vector) GetFloat64(row int) float64 {
	return getFixed[float64](v, row)
}

func (v *Vector) PutFloat64(row int, val float64) {
	putFixed(v, row, val)
}

// PutFloat64s writes val to count rows starting at row.
func (v *Vector) PutFloat64s(row, count int, val float64) {
	putRepeat(v, row, count, val)
}

func (v *Vector) PutFloat64Slice(row int, src []float64) {
	putSlice(v, row, src)
}

func (v *Vector) AppendFloat64(val float64) (int, error) {
	return appendOne(v, val)
}

func (v *Vector) AppendFloat64s(count int, val float64) (int, error) {
	return appendRepeat(v, count, val)
}

func (v *Vector) AppendFloat64Slice(src []float64) (int, error) {
	return appendSlice(v, src)
}

func (v *Vector) PutInt16sLittleEndian(row, count int, src []byte, srcIndex int) {
	putLittleEndian[int16](v, row, count, src, srcIndex)
}

func (v *Vector) PutInt32sLittleEndian(row, count int, src []byte, srcIndex int) {
	putLittleEndian[int32](v, row, count, src, srcIndex)
}

func (v *Vector) PutInt64sLittleEndian(row, count int, src []byte, srcIndex int) {
	putLittleEndian[int64](v, row, count, src, srcIndex)
}

func (v *Vector) PutFloat32sLittleEndian(row, count int, src []byte, srcIndex int) {
	putLittleEndian[float32](v, row, count, src, srcIndex)
}

func (v *Vector) PutFloat64sLittleEndian(row, count int, src []byte, srcIndex int) {
	putLittleEndian[float64](v, row, count, src, srcIndex)
}
