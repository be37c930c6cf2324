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
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/matrixorigin/colvec/pkg/container/arrowvec"
	"github.com/matrixorigin/colvec/pkg/container/vector"
)

// FromArrow wraps every column of rec with a read only adapter. rec stays
// owned by the caller and must outlive the batch.
func FromArrow(rec arrow.Record) (*Batch, error) {
	fields, err := arrowvec.FromArrowFields(rec.Schema().Fields())
	if err != nil {
		return nil, err
	}
	cols := make([]vector.ColumnVector, rec.NumCols())
	for i := range cols {
		if cols[i], err = arrowvec.New(rec.Column(i)); err != nil {
			return nil, err
		}
	}
	n := int(rec.NumRows())
	bat := New(fields, cols, n)
	if err = bat.SetNumRows(n); err != nil {
		return nil, err
	}
	return bat, nil
}

// ToArrow copies the rows of the batch, filtered ones included, into a new
// Arrow record allocated from mem. The caller releases the record.
func (bat *Batch) ToArrow(mem memory.Allocator) (arrow.Record, error) {
	schema, err := arrowvec.ToArrowSchema(bat.fields)
	if err != nil {
		return nil, err
	}
	arrs := make([]arrow.Array, 0, len(bat.cols))
	defer func() {
		for _, arr := range arrs {
			arr.Release()
		}
	}()
	for _, col := range bat.cols {
		arr, err := arrowvec.Export(mem, col, bat.rowCount)
		if err != nil {
			return nil, err
		}
		arrs = append(arrs, arr)
	}
	return array.NewRecord(schema, arrs, int64(bat.rowCount)), nil
}
