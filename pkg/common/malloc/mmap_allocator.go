// Copyright 2024 Matrix Origin
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

package malloc

import (
	"os"
	"unsafe"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/matrixorigin/colvec/pkg/common/moerr"
	"github.com/matrixorigin/colvec/pkg/logutil"
)

// MmapAllocator maps every block as anonymous private memory outside the Go
// heap. Blocks are rounded up to whole pages and unmapped on Deallocate.
type MmapAllocator struct {
	pageSize        uint64
	deallocatorPool *ClosureDeallocatorPool[mmapDeallocatorArgs, *mmapDeallocatorArgs]
}

type mmapDeallocatorArgs struct {
	ptr    unsafe.Pointer
	length uint64
}

func (m mmapDeallocatorArgs) As(trait Trait) bool {
	if info, ok := trait.(*MmapInfo); ok {
		info.Addr = m.ptr
		info.Length = m.length
		return true
	}
	return false
}

func NewMmapAllocator() *MmapAllocator {
	ret := &MmapAllocator{
		pageSize: uint64(os.Getpagesize()),
	}
	ret.deallocatorPool = NewClosureDeallocatorPool(
		func(hints Hints, args *mmapDeallocatorArgs) {
			if err := unix.Munmap(unsafe.Slice((*byte)(args.ptr), args.length)); err != nil {
				logutil.Error("munmap failed",
					zap.Uint64("length", args.length),
					zap.Error(err),
				)
				panic(err)
			}
		},
	)
	return ret
}

var _ Allocator = new(MmapAllocator)

func (m *MmapAllocator) Allocate(size uint64, hints Hints) ([]byte, Deallocator, error) {
	if size == 0 {
		size = 1
	}
	length := (size + m.pageSize - 1) / m.pageSize * m.pageSize
	slice, err := unix.Mmap(
		-1, 0,
		int(length),
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANON,
	)
	if err != nil {
		logutil.Warn("mmap failed",
			zap.Uint64("size", size),
			zap.Error(err),
		)
		return nil, nil, moerr.NewOOMNoCtx()
	}
	// fresh anonymous mappings are zero filled, NoClear is implied
	ptr := unsafe.Pointer(unsafe.SliceData(slice))
	return slice[:size:size], m.deallocatorPool.Get(mmapDeallocatorArgs{
		ptr:    ptr,
		length: length,
	}), nil
}
