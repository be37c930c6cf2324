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

// GoAllocator allocates from the Go heap. Deallocation drops the reference.
type GoAllocator struct {
	deallocatorPool *ClosureDeallocatorPool[goDeallocatorArgs, *goDeallocatorArgs]
}

type goDeallocatorArgs struct{}

func (goDeallocatorArgs) As(Trait) bool {
	return false
}

func NewGoAllocator() *GoAllocator {
	return &GoAllocator{
		deallocatorPool: NewClosureDeallocatorPool(
			func(Hints, *goDeallocatorArgs) {},
		),
	}
}

var _ Allocator = new(GoAllocator)

func (g *GoAllocator) Allocate(size uint64, hints Hints) ([]byte, Deallocator, error) {
	// make always zeroes, NoClear has nothing to skip
	return make([]byte, size), g.deallocatorPool.Get(goDeallocatorArgs{}), nil
}
