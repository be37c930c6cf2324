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

// Package nulls wraps the roaring bitmap library to track NULL rows of a
// column. You can think of Nulls as a bitmap of row positions.
package nulls

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/roaring64"
)

type Nulls struct {
	Np *roaring64.Bitmap
}

func New() *Nulls {
	return &Nulls{Np: roaring64.New()}
}

func Reset(nsp *Nulls) {
	if nsp.Np != nil {
		nsp.Np.Clear()
	}
}

// RangeLength returns the number of nulls in [start, end).
func RangeLength(nsp *Nulls, start, end uint64) int {
	if nsp == nil || nsp.Np == nil || start >= end {
		return 0
	}
	n := nsp.Np.Rank(end - 1)
	if start > 0 {
		n -= nsp.Np.Rank(start - 1)
	}
	return int(n)
}

func String(nsp *Nulls) string {
	if nsp.Np == nil {
		return "[]"
	}
	return fmt.Sprintf("%v", nsp.Np.ToArray())
}

// Contains returns true if the integer is contained in the Nulls
func Contains(nsp *Nulls, row uint64) bool {
	return nsp != nil && nsp.Np != nil && nsp.Np.Contains(row)
}

func Add(nsp *Nulls, rows ...uint64) {
	if len(rows) == 0 {
		return
	}
	if nsp.Np == nil {
		nsp.Np = roaring64.New()
	}
	nsp.Np.AddMany(rows)
}

// AddRange adds rows in [start, end).
func AddRange(nsp *Nulls, start, end uint64) {
	if start >= end {
		return
	}
	if nsp.Np == nil {
		nsp.Np = roaring64.New()
	}
	nsp.Np.AddRange(start, end)
}

func Del(nsp *Nulls, rows ...uint64) {
	if nsp.Np == nil {
		return
	}
	for _, row := range rows {
		nsp.Np.Remove(row)
	}
}

// DelRange removes rows in [start, end).
func DelRange(nsp *Nulls, start, end uint64) {
	if nsp.Np == nil || start >= end {
		return
	}
	nsp.Np.RemoveRange(start, end)
}

// Truncate drops every row at or past size.
func Truncate(nsp *Nulls, size uint64) {
	if nsp.Np == nil || nsp.Np.IsEmpty() {
		return
	}
	if last := nsp.Np.Maximum(); last >= size {
		nsp.Np.RemoveRange(size, last+1)
	}
}
