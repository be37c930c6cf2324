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
	"fmt"

	"github.com/matrixorigin/colvec/pkg/common/moerr"
	"github.com/matrixorigin/colvec/pkg/container/nulls"
)

type heapBacking struct {
	typ      string
	widths   bufWidths
	capacity int
	bufs     [numBufKinds][]byte
	nsp      *nulls.Nulls
	closed   bool
}

var _ backing = new(heapBacking)

func newHeapBacking(typ string, widths bufWidths) *heapBacking {
	// nulls live in the roaring set, not in a slot buffer
	widths[bufNulls] = 0
	return &heapBacking{
		typ:    typ,
		widths: widths,
		nsp:    nulls.New(),
	}
}

func (h *heapBacking) mode() MemoryMode {
	return OnHeap
}

func (h *heapBacking) grow(capacity int) error {
	h.checkOpen()
	for k, w := range h.widths {
		if w == 0 {
			continue
		}
		buf := make([]byte, capacity*w)
		copy(buf, h.bufs[k])
		h.bufs[k] = buf
	}
	if capacity < h.capacity {
		nulls.Truncate(h.nsp, uint64(capacity))
	}
	h.capacity = capacity
	return nil
}

func (h *heapBacking) bytes(kind bufKind, off, n int) []byte {
	h.checkOpen()
	buf := h.bufs[kind]
	if off < 0 || n < 0 || off+n > len(buf) {
		panic(moerr.NewOutOfRangeNoCtx(h.typ, "byte range [%d, %d) of buffer %d with %d bytes", off, off+n, kind, len(buf)))
	}
	return buf[off : off+n : off+n]
}

func (h *heapBacking) checkRow(row, n int) {
	if row < 0 || n < 0 || row+n > h.capacity {
		panic(moerr.NewOutOfRangeNoCtx(h.typ, "rows [%d, %d) with capacity %d", row, row+n, h.capacity))
	}
}

func (h *heapBacking) checkOpen() {
	if h.closed {
		panic(moerr.NewVectorClosedNoCtx(h.typ))
	}
}

func (h *heapBacking) isNull(row int) bool {
	h.checkOpen()
	h.checkRow(row, 1)
	return nulls.Contains(h.nsp, uint64(row))
}

func (h *heapBacking) setNull(row int) bool {
	if h.isNull(row) {
		return false
	}
	nulls.Add(h.nsp, uint64(row))
	return true
}

func (h *heapBacking) clearNull(row int) bool {
	if !h.isNull(row) {
		return false
	}
	nulls.Del(h.nsp, uint64(row))
	return true
}

func (h *heapBacking) setNulls(row, n int) int {
	h.checkOpen()
	h.checkRow(row, n)
	before := nulls.RangeLength(h.nsp, uint64(row), uint64(row+n))
	nulls.AddRange(h.nsp, uint64(row), uint64(row+n))
	return n - before
}

func (h *heapBacking) clearNulls(row, n int) int {
	h.checkOpen()
	h.checkRow(row, n)
	before := nulls.RangeLength(h.nsp, uint64(row), uint64(row+n))
	nulls.DelRange(h.nsp, uint64(row), uint64(row+n))
	return before
}

func (h *heapBacking) resetNulls() {
	h.checkOpen()
	nulls.Reset(h.nsp)
}

func (h *heapBacking) address(bufKind) uintptr {
	return 0
}

func (h *heapBacking) free() {
	h.bufs = [numBufKinds][]byte{}
	h.nsp = nil
	h.closed = true
}

func (h *heapBacking) String() string {
	return fmt.Sprintf("heap(capacity=%d, nulls=%s)", h.capacity, nulls.String(h.nsp))
}
