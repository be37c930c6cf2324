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

package nulls

import (
	"testing"

	"github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/require"
)

func TestNulls(t *testing.T) {
	convey.Convey("nulls add del", t, func() {
		nsp := New()
		convey.So(RangeLength(nsp, 0, 1<<41), convey.ShouldEqual, 0)
		Add(nsp, 1, 5, 1<<40)
		convey.So(RangeLength(nsp, 0, 1<<41), convey.ShouldEqual, 3)
		convey.So(Contains(nsp, 5), convey.ShouldBeTrue)
		convey.So(Contains(nsp, 6), convey.ShouldBeFalse)
		Del(nsp, 5)
		convey.So(RangeLength(nsp, 0, 1<<41), convey.ShouldEqual, 2)
		convey.So(String(nsp), convey.ShouldEqual, "[1 1099511627776]")
		Reset(nsp)
		convey.So(String(nsp), convey.ShouldEqual, "[]")
	})

	convey.Convey("nulls range", t, func() {
		nsp := &Nulls{}
		AddRange(nsp, 10, 20)
		convey.So(RangeLength(nsp, 0, 100), convey.ShouldEqual, 10)
		convey.So(RangeLength(nsp, 0, 15), convey.ShouldEqual, 5)
		convey.So(RangeLength(nsp, 15, 100), convey.ShouldEqual, 5)
		convey.So(RangeLength(nsp, 0, 10), convey.ShouldEqual, 0)
		DelRange(nsp, 12, 14)
		convey.So(RangeLength(nsp, 0, 100), convey.ShouldEqual, 8)
		Truncate(nsp, 15)
		convey.So(nsp.Np.ToArray(), convey.ShouldResemble, []uint64{10, 11, 14})
	})
}

func TestNilNulls(t *testing.T) {
	var nsp *Nulls
	require.Equal(t, 0, RangeLength(nsp, 0, 10))
	require.False(t, Contains(nsp, 0))

	empty := &Nulls{}
	Del(empty, 1)
	DelRange(empty, 0, 10)
	Truncate(empty, 0)
	Add(empty)
	AddRange(empty, 3, 3)
	require.Equal(t, "[]", String(empty))
	require.Equal(t, 0, RangeLength(empty, 0, 10))
}
