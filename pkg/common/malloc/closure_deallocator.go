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

import "sync"

// ClosureDeallocator calls fn with args once, then returns itself to its pool.
type ClosureDeallocator[T any, P interface {
	*T
	As(Trait) bool
}] struct {
	argumentsSet bool
	arguments    T
	fn           func(Hints, P)
	pool         *ClosureDeallocatorPool[T, P]
}

func (c *ClosureDeallocator[T, P]) SetArgument(arg T) {
	if c.argumentsSet {
		panic("argument already set")
	}
	c.argumentsSet = true
	c.arguments = arg
}

func (c *ClosureDeallocator[T, P]) Deallocate(hints Hints) {
	if !c.argumentsSet {
		panic("argument not set")
	}
	c.fn(hints, &c.arguments)
	c.argumentsSet = false
	var zero T
	c.arguments = zero
	c.pool.pool.Put(c)
}

func (c *ClosureDeallocator[T, P]) As(trait Trait) bool {
	return P(&c.arguments).As(trait)
}

type ClosureDeallocatorPool[T any, P interface {
	*T
	As(Trait) bool
}] struct {
	pool sync.Pool
}

func NewClosureDeallocatorPool[T any, P interface {
	*T
	As(Trait) bool
}](
	deallocateFunc func(Hints, P),
) *ClosureDeallocatorPool[T, P] {
	ret := new(ClosureDeallocatorPool[T, P])
	ret.pool.New = func() any {
		return &ClosureDeallocator[T, P]{
			fn:   deallocateFunc,
			pool: ret,
		}
	}
	return ret
}

func (c *ClosureDeallocatorPool[T, P]) Get(args T) Deallocator {
	closure := c.pool.Get().(*ClosureDeallocator[T, P])
	closure.SetArgument(args)
	return closure
}
