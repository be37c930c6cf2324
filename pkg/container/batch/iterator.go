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

package batch

// HasNext skips filtered rows and reports whether one is left.
func (it *Iterator) HasNext() bool {
	if it.bat.filtered.IsEmpty() {
		return it.next < it.bat.rowCount
	}
	for it.next < it.bat.rowCount && it.bat.IsFiltered(it.next) {
		it.next++
	}
	return it.next < it.bat.rowCount
}

// Next returns the next row that is not filtered, nil when none is left.
func (it *Iterator) Next() *Row {
	if !it.HasNext() {
		return nil
	}
	r := it.bat.Row(it.next)
	it.next++
	return r
}
