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

//go:generate mockgen -source=allocator.go -destination=mock_malloc/allocator_mock.go -package=mock_malloc

import "unsafe"

const (
	KB = 1 << 10
	MB = 1 << 20
	GB = 1 << 30
)

// Hints carries per allocation flags.
type Hints uint64

const (
	// NoClear skips zeroing of the returned memory.
	NoClear Hints = 1 << iota
)

// Trait is implemented by the types a Deallocator can be asked about via As.
type Trait interface {
	IsTrait()
}

// Allocator hands out byte blocks together with the Deallocator that frees them.
type Allocator interface {
	Allocate(size uint64, hints Hints) ([]byte, Deallocator, error)
}

// Deallocator releases one block. Deallocate must be called exactly once.
type Deallocator interface {
	Deallocate(hints Hints)
	As(Trait) bool
}

// MmapInfo describes a block backed by an anonymous mapping.
type MmapInfo struct {
	Addr   unsafe.Pointer
	Length uint64
}

func (*MmapInfo) IsTrait() {}

type chainDeallocator []Deallocator

// ChainDeallocator runs every deallocator in order.
func ChainDeallocator(decs ...Deallocator) Deallocator {
	var ret chainDeallocator
	for _, dec := range decs {
		if dec == nil {
			continue
		}
		if chain, ok := dec.(chainDeallocator); ok {
			ret = append(ret, chain...)
			continue
		}
		ret = append(ret, dec)
	}
	return ret
}

func (c chainDeallocator) Deallocate(hints Hints) {
	for _, dec := range c {
		dec.Deallocate(hints)
	}
}

func (c chainDeallocator) As(trait Trait) bool {
	for _, dec := range c {
		if dec.As(trait) {
			return true
		}
	}
	return false
}
