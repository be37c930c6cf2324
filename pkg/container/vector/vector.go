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
	"bytes"
	"fmt"

	"go.uber.org/zap"

	"github.com/matrixorigin/colvec/pkg/common/moerr"
	"github.com/matrixorigin/colvec/pkg/container/types"
	"github.com/matrixorigin/colvec/pkg/logutil"
)

// Vector is a writable column.
//
// Rows are written either by index with the Put family, which never moves
// the append cursor, or sequentially with the Append family, which writes at
// ElementsAppended and advances it. Writing a value never clears a null flag.
//
// Variable length types (strings, binary, arrays, wide decimals) keep an
// (offset, length) pair per row into a child stream. Struct and interval
// vectors keep one child per member, row i of the parent being row i of
// every child.
type Vector struct {
	typ  types.Type
	opts options
	b    backing

	capacity        int
	initialCapacity int

	elementsAppended int
	numNulls         int

	children  []*Vector
	childCols []ColumnVector

	closed bool
}

var _ ColumnVector = new(Vector)

// New builds a vector of typ with room for capacity rows, children included.
func New(mode MemoryMode, typ types.Type, capacity int, opts ...Option) (*Vector, error) {
	o := buildOptions(opts)
	if capacity < 0 || capacity > o.maxCapacity {
		return nil, moerr.NewCapacityExceededNoCtx(capacity, o.maxCapacity)
	}
	v := &Vector{
		typ:             typ,
		opts:            o,
		initialCapacity: capacity,
	}

	var widths bufWidths
	widths[bufValues] = typ.TypeSize()
	if typ.IsVarlen() {
		widths[bufOffsets] = 4
		widths[bufLengths] = 4
	}
	switch mode {
	case OnHeap:
		v.b = newHeapBacking(typ.String(), widths)
	case OffHeap:
		v.b = newOffHeapBacking(typ.String(), o.allocator, widths)
	default:
		return nil, moerr.NewInvalidArgNoCtx("memory mode", mode)
	}
	if err := v.b.grow(capacity); err != nil {
		v.b.free()
		return nil, err
	}
	v.capacity = capacity

	if err := v.initChildren(mode); err != nil {
		_ = v.Close()
		return nil, err
	}
	return v, nil
}

// NewOnHeap is New for the on-heap backing, which can only fail on capacity.
func NewOnHeap(typ types.Type, capacity int, opts ...Option) *Vector {
	v, err := New(OnHeap, typ, capacity, opts...)
	if err != nil {
		panic(err)
	}
	return v
}

func NewOffHeap(typ types.Type, capacity int, opts ...Option) (*Vector, error) {
	return New(OffHeap, typ, capacity, opts...)
}

func (v *Vector) initChildren(mode MemoryMode) error {
	var childTypes []types.Type
	childCapacity := v.capacity
	switch {
	case v.typ.Oid == types.T_array:
		if v.typ.Elem == nil {
			return moerr.NewUnsupportedLayoutNoCtx(v.typ.String())
		}
		childTypes = []types.Type{*v.typ.Elem}
		childCapacity = min(v.capacity*DefaultArrayLength, v.opts.maxCapacity)
	case v.typ.IsByteStream():
		childTypes = []types.Type{types.T_int8.ToType()}
		childCapacity = min(v.capacity*DefaultArrayLength, v.opts.maxCapacity)
	case v.typ.Oid == types.T_struct:
		for _, f := range v.typ.Fields {
			childTypes = append(childTypes, f.Type)
		}
	case v.typ.Oid == types.T_interval:
		for _, f := range types.IntervalFields() {
			childTypes = append(childTypes, f.Type)
		}
	}
	for _, ct := range childTypes {
		child, err := New(mode, ct, childCapacity, v.opts.asOptions()...)
		if err != nil {
			return err
		}
		v.children = append(v.children, child)
		v.childCols = append(v.childCols, child)
	}
	return nil
}

func (v *Vector) Type() types.Type {
	return v.typ
}

func (v *Vector) Mode() MemoryMode {
	return v.b.mode()
}

func (v *Vector) Capacity() int {
	return v.capacity
}

func (v *Vector) MaxCapacity() int {
	return v.opts.maxCapacity
}

// ElementsAppended is the append cursor.
func (v *Vector) ElementsAppended() int {
	return v.elementsAppended
}

// Reserve makes room for required slots. Growth doubles the request, capped
// at the max capacity. Children of struct and interval vectors grow along.
func (v *Vector) Reserve(required int) error {
	if required < 0 {
		return moerr.NewCapacityExceededNoCtx(required, v.opts.maxCapacity)
	}
	if required <= v.capacity {
		return nil
	}
	if required > v.opts.maxCapacity {
		logutil.Warn("vector capacity exceeded",
			zap.String("type", v.typ.String()),
			zap.Int("required", required),
			zap.Int("max-capacity", v.opts.maxCapacity),
		)
		return moerr.NewCapacityExceededNoCtx(required, v.opts.maxCapacity)
	}
	newCapacity := v.opts.maxCapacity
	if required <= v.opts.maxCapacity/2 {
		newCapacity = required * 2
	}
	return v.reserveInternal(newCapacity)
}

// reserveInternal grows children before the node itself so a failed
// allocation never leaves the node with more capacity than its children.
func (v *Vector) reserveInternal(capacity int) error {
	if v.typ.IsNested() {
		for _, child := range v.children {
			if err := child.Reserve(capacity); err != nil {
				return err
			}
		}
	}
	if err := v.b.grow(capacity); err != nil {
		return err
	}
	logutil.Debug("vector grown",
		zap.String("type", v.typ.String()),
		zap.Int("from", v.capacity),
		zap.Int("to", capacity),
	)
	v.capacity = capacity
	return nil
}

// reserveAppend makes room for n more appended rows and returns the first.
func (v *Vector) reserveAppend(n int) (int, error) {
	if err := v.Reserve(v.elementsAppended + n); err != nil {
		return 0, err
	}
	return v.elementsAppended, nil
}

func (v *Vector) NumNulls() int {
	return v.numNulls
}

func (v *Vector) HasNull() bool {
	return v.numNulls > 0
}

func (v *Vector) IsNullAt(row int) bool {
	return v.b.isNull(row)
}

func (v *Vector) PutNull(row int) {
	if v.b.setNull(row) {
		v.numNulls++
	}
}

func (v *Vector) PutNotNull(row int) {
	if v.b.clearNull(row) {
		v.numNulls--
	}
}

func (v *Vector) PutNulls(row, count int) {
	v.numNulls += v.b.setNulls(row, count)
}

func (v *Vector) PutNotNulls(row, count int) {
	v.numNulls -= v.b.clearNulls(row, count)
}

// AppendNull appends a null row. Struct and interval vectors append a null
// to every child as well so members stay aligned.
func (v *Vector) AppendNull() (int, error) {
	if v.typ.IsNested() {
		return v.AppendStruct(true)
	}
	idx, err := v.reserveAppend(1)
	if err != nil {
		return 0, err
	}
	v.PutNull(idx)
	if v.typ.IsVarlen() {
		v.putOffsetLength(idx, v.children[0].elementsAppended, 0)
	}
	v.elementsAppended++
	return idx, nil
}

func (v *Vector) AppendNulls(count int) (int, error) {
	if v.typ.IsNested() {
		first := v.elementsAppended
		for i := 0; i < count; i++ {
			if _, err := v.AppendStruct(true); err != nil {
				return 0, err
			}
		}
		return first, nil
	}
	idx, err := v.reserveAppend(count)
	if err != nil {
		return 0, err
	}
	v.PutNulls(idx, count)
	if v.typ.IsVarlen() {
		off := v.children[0].elementsAppended
		for i := idx; i < idx+count; i++ {
			v.putOffsetLength(i, off, 0)
		}
	}
	v.elementsAppended += count
	return idx, nil
}

func (v *Vector) AppendNotNull() (int, error) {
	idx, err := v.reserveAppend(1)
	if err != nil {
		return 0, err
	}
	v.PutNotNull(idx)
	v.elementsAppended++
	return idx, nil
}

func (v *Vector) AppendNotNulls(count int) (int, error) {
	idx, err := v.reserveAppend(count)
	if err != nil {
		return 0, err
	}
	v.PutNotNulls(idx, count)
	v.elementsAppended += count
	return idx, nil
}

// Reset empties the vector for reuse. Storage and capacity are kept.
func (v *Vector) Reset() {
	if v.closed {
		return
	}
	v.elementsAppended = 0
	if v.numNulls > 0 {
		v.b.resetNulls()
		v.numNulls = 0
	}
	for _, child := range v.children {
		child.Reset()
	}
}

// ResetCapacity resets the vector and shrinks or regrows it, children
// included, to the capacity it was created with.
func (v *Vector) ResetCapacity() error {
	if v.closed {
		return moerr.NewVectorClosedNoCtx(v.typ.String())
	}
	v.Reset()
	if v.capacity != v.initialCapacity {
		if err := v.b.grow(v.initialCapacity); err != nil {
			return err
		}
		v.capacity = v.initialCapacity
	}
	for _, child := range v.children {
		if err := child.ResetCapacity(); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the buffers of the vector and its children. It is safe to
// call more than once.
func (v *Vector) Close() error {
	if v.closed {
		return nil
	}
	v.closed = true
	for _, child := range v.children {
		_ = child.Close()
	}
	v.b.free()
	return nil
}

func (v *Vector) IsClosed() bool {
	return v.closed
}

func (v *Vector) NumChildren() int {
	return len(v.children)
}

// Child returns the writable child vector at ordinal.
func (v *Vector) Child(ordinal int) *Vector {
	return v.children[ordinal]
}

func (v *Vector) ChildColumn(ordinal int) ColumnVector {
	return v.children[ordinal]
}

// ArrayData is the element stream of an array vector, or the byte stream of
// a string, binary or wide decimal vector.
func (v *Vector) ArrayData() *Vector {
	if !v.typ.IsVarlen() {
		panic(moerr.NewUnsupportedLayoutNoCtx(v.typ.String()))
	}
	return v.children[0]
}

// ValuesAddress is the base address of the value buffer of an off-heap
// vector and 0 for on-heap vectors.
func (v *Vector) ValuesAddress() uintptr {
	return v.b.address(bufValues)
}

// NullsAddress is the base address of the null flags of an off-heap vector
// and 0 for on-heap vectors.
func (v *Vector) NullsAddress() uintptr {
	return v.b.address(bufNulls)
}

func (v *Vector) String() string {
	var buf bytes.Buffer
	buf.WriteString("[")
	for i := 0; i < v.elementsAppended; i++ {
		if i > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString(ValueString(v, i))
	}
	buf.WriteString("]")
	return buf.String()
}

// ValueString renders row of col for debugging.
func ValueString(col ColumnVector, row int) string {
	if col.IsNullAt(row) {
		return "null"
	}
	typ := col.Type()
	switch typ.Oid {
	case types.T_bool:
		return fmt.Sprintf("%v", col.GetBool(row))
	case types.T_int8:
		return fmt.Sprintf("%d", col.GetInt8(row))
	case types.T_int16:
		return fmt.Sprintf("%d", col.GetInt16(row))
	case types.T_int32:
		return fmt.Sprintf("%d", col.GetInt32(row))
	case types.T_int64:
		return fmt.Sprintf("%d", col.GetInt64(row))
	case types.T_float32:
		return fmt.Sprintf("%v", col.GetFloat32(row))
	case types.T_float64:
		return fmt.Sprintf("%v", col.GetFloat64(row))
	case types.T_decimal:
		return col.GetDecimal(row).String()
	case types.T_varchar:
		return fmt.Sprintf("%q", col.GetString(row))
	case types.T_binary:
		return fmt.Sprintf("%x", col.GetBytes(row))
	case types.T_interval:
		return col.GetInterval(row).String()
	case types.T_array:
		arr := col.GetArray(row)
		var buf bytes.Buffer
		buf.WriteString("[")
		for i := 0; i < arr.Len(); i++ {
			if i > 0 {
				buf.WriteString(" ")
			}
			buf.WriteString(ValueString(arr.Data(), arr.Offset()+i))
		}
		buf.WriteString("]")
		return buf.String()
	case types.T_struct:
		var buf bytes.Buffer
		buf.WriteString("{")
		for i := 0; i < col.NumChildren(); i++ {
			if i > 0 {
				buf.WriteString(" ")
			}
			buf.WriteString(ValueString(col.ChildColumn(i), row))
		}
		buf.WriteString("}")
		return buf.String()
	}
	return fmt.Sprintf("unexpected type %s", typ)
}
