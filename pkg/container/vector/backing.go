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
)

// MemoryMode selects how a Vector stores its buffers.
type MemoryMode uint8

const (
	// OnHeap keeps buffers in Go slices with bounds checked access.
	OnHeap MemoryMode = iota
	// OffHeap keeps buffers in raw blocks from a malloc.Allocator and exposes
	// their base addresses. Access is not bounds checked.
	OffHeap
)

func (m MemoryMode) String() string {
	switch m {
	case OnHeap:
		return "heap"
	case OffHeap:
		return "offheap"
	}
	return "unknown"
}

func ParseMemoryMode(s string) (MemoryMode, error) {
	switch s {
	case "heap", "onheap":
		return OnHeap, nil
	case "offheap":
		return OffHeap, nil
	}
	return OnHeap, moerr.NewInvalidArgNoCtx("memory mode", s)
}

type bufKind int

const (
	bufValues bufKind = iota
	bufOffsets
	bufLengths
	bufNulls
	numBufKinds
)

// bufWidths is the bytes per slot of every buffer, 0 when a buffer is unused.
type bufWidths [numBufKinds]int

// backing owns the buffers of one vector node. Children are separate nodes.
type backing interface {
	mode() MemoryMode
	// grow resizes every buffer to capacity slots, keeping the common prefix.
	grow(capacity int) error
	// bytes returns n bytes of kind starting at byte offset off.
	bytes(kind bufKind, off, n int) []byte

	isNull(row int) bool
	// setNull and clearNull report whether the flag changed.
	setNull(row int) bool
	clearNull(row int) bool
	// setNulls and clearNulls return how many flags changed.
	setNulls(row, n int) int
	clearNulls(row, n int) int
	resetNulls()

	address(kind bufKind) uintptr
	free()
}
