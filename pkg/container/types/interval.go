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

package types

import "fmt"

// Interval is a calendar interval. Months and days are kept apart from the
// sub day part because their length in time depends on the calendar.
type Interval struct {
	Months       int32
	Days         int32
	Microseconds int64
}

const MicrosPerDay = int64(24 * 60 * 60 * 1000000)

func (iv Interval) String() string {
	return fmt.Sprintf("%d months %d days %d microseconds", iv.Months, iv.Days, iv.Microseconds)
}

// IntervalFields is the struct layout an interval is stored as.
func IntervalFields() []Field {
	return []Field{
		{Name: "months", Type: T_int32.ToType()},
		{Name: "days", Type: T_int32.ToType()},
		{Name: "microseconds", Type: T_int64.ToType()},
	}
}
