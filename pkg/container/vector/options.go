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
	"math"

	"github.com/matrixorigin/colvec/pkg/common/malloc"
)

const (
	// DefaultMaxCapacity leaves headroom below math.MaxInt32 for buffer headers.
	DefaultMaxCapacity = math.MaxInt32 - 15
	// DefaultArrayLength is the number of child slots reserved per parent slot
	// for array elements and string bytes.
	DefaultArrayLength = 4
)

type options struct {
	maxCapacity int
	allocator   malloc.Allocator
}

type Option func(*options)

// WithMaxCapacity caps the slots the vector and its children may grow to.
func WithMaxCapacity(n int) Option {
	return func(o *options) {
		o.maxCapacity = n
	}
}

// WithAllocator sets where off-heap vectors take their blocks from.
func WithAllocator(allocator malloc.Allocator) Option {
	return func(o *options) {
		o.allocator = allocator
	}
}

var defaultMmapAllocator = malloc.NewMmapAllocator()

func buildOptions(opts []Option) options {
	o := options{
		maxCapacity: DefaultMaxCapacity,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.allocator == nil {
		o.allocator = defaultMmapAllocator
	}
	return o
}

func (o options) asOptions() []Option {
	return []Option{WithMaxCapacity(o.maxCapacity), WithAllocator(o.allocator)}
}
