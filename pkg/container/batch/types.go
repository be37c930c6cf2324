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

import (
	"github.com/matrixorigin/colvec/pkg/common/bitmap"
	"github.com/matrixorigin/colvec/pkg/container/types"
	"github.com/matrixorigin/colvec/pkg/container/vector"
)

// Batch represents a part of a relationship
// including the schema, one column per field and the per row filtered flags
//
//	(fields)   - schema of the batch
//	(cols)     - columns, writable vectors or read only adapters
//	(filtered) - rows excluded from iteration, independent of column nulls
type Batch struct {
	// reference count, default is 1
	Cnt int64

	fields []types.Field
	cols   []vector.ColumnVector

	capacity int
	rowCount int
	filtered *bitmap.Bitmap
	// columns whose null rows are filtered on every SetNumRows
	nullFilteredCols []int
}

// Row is a cursor on one row of a batch. Values are read through the
// embedded struct view, which consults every column's own null flags.
type Row struct {
	vector.Struct
	bat *Batch
}

// Iterator walks the rows of a batch that are not filtered, in order.
type Iterator struct {
	bat  *Batch
	next int
}
