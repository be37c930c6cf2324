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

	"go.uber.org/zap"

	"github.com/matrixorigin/colvec/pkg/common/malloc"
	"github.com/matrixorigin/colvec/pkg/common/moerr"
	"github.com/matrixorigin/colvec/pkg/logutil"
)

// offHeapBacking addresses raw blocks. Null flags are one byte per slot,
// 0 or 1, in a block of their own. Nothing is bounds checked.
type offHeapBacking struct {
	typ       string
	allocator malloc.Allocator
	widths    bufWidths
	capacity  int
	bases     [numBufKinds]unsafe.Pointer
	decs      [numBufKinds]malloc.Deallocator
	closed    bool
}

var _ backing = new(offHeapBacking)

func newOffHeapBacking(typ string, allocator malloc.Allocator, widths bufWidths) *offHeapBacking {
	widths[bufNulls] = 1
	return &offHeapBacking{
		typ:       typ,
		allocator: allocator,
		widths:    widths,
	}
}

func (o *offHeapBacking) mode() MemoryMode {
	return OffHeap
}

func (o *offHeapBacking) grow(capacity int) error {
	o.checkOpen()
	var (
		bases [numBufKinds]unsafe.Pointer
		decs  [numBufKinds]malloc.Deallocator
	)
	for k, w := range o.widths {
		if w == 0 || capacity == 0 {
			continue
		}
		buf, dec, err := o.allocator.Allocate(uint64(capacity*w), 0)
		if err != nil {
			for _, d := range decs {
				if d != nil {
					d.Deallocate(0)
				}
			}
			logutil.Warn("off-heap allocation failed",
				zap.String("type", o.typ),
				zap.Int("capacity", capacity),
				zap.Error(err),
			)
			return err
		}
		bases[k] = unsafe.Pointer(unsafe.SliceData(buf))
		decs[k] = dec
		if o.bases[k] != nil {
			keep := min(capacity, o.capacity) * w
			copy(unsafe.Slice((*byte)(bases[k]), keep), unsafe.Slice((*byte)(o.bases[k]), keep))
		}
	}
	o.release()
	o.bases, o.decs = bases, decs
	o.capacity = capacity
	return nil
}

func (o *offHeapBacking) bytes(kind bufKind, off, n int) []byte {
	o.checkOpen()
	if n == 0 {
		return []byte{}
	}
	return unsafe.Slice((*byte)(unsafe.Add(o.bases[kind], off)), n)
}

func (o *offHeapBacking) flag(row int) *byte {
	return (*byte)(unsafe.Add(o.bases[bufNulls], row))
}

func (o *offHeapBacking) checkOpen() {
	if o.closed {
		panic(moerr.NewVectorClosedNoCtx(o.typ))
	}
}

func (o *offHeapBacking) isNull(row int) bool {
	o.checkOpen()
	return *o.flag(row) == 1
}

func (o *offHeapBacking) setNull(row int) bool {
	o.checkOpen()
	p := o.flag(row)
	if *p == 1 {
		return false
	}
	*p = 1
	return true
}

func (o *offHeapBacking) clearNull(row int) bool {
	o.checkOpen()
	p := o.flag(row)
	if *p == 0 {
		return false
	}
	*p = 0
	return true
}

func (o *offHeapBacking) setNulls(row, n int) int {
	o.checkOpen()
	changed := 0
	for _, b := range o.bytes(bufNulls, row, n) {
		changed += int(1 - b)
	}
	clearTo(o.bytes(bufNulls, row, n), 1)
	return changed
}

func (o *offHeapBacking) clearNulls(row, n int) int {
	o.checkOpen()
	changed := 0
	for _, b := range o.bytes(bufNulls, row, n) {
		changed += int(b)
	}
	clear(o.bytes(bufNulls, row, n))
	return changed
}

func (o *offHeapBacking) resetNulls() {
	o.checkOpen()
	clear(o.bytes(bufNulls, 0, o.capacity))
}

func (o *offHeapBacking) address(kind bufKind) uintptr {
	return uintptr(o.bases[kind])
}

func (o *offHeapBacking) release() {
	for k, d := range o.decs {
		if d != nil {
			d.Deallocate(0)
		}
		o.decs[k] = nil
		o.bases[k] = nil
	}
}

func (o *offHeapBacking) free() {
	if o.closed {
		return
	}
	o.release()
	o.closed = true
}

func clearTo(bs []byte, v byte) {
	for i := range bs {
		bs[i] = v
	}
}
