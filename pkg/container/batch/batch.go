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
	"bytes"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/matrixorigin/colvec/pkg/common/bitmap"
	"github.com/matrixorigin/colvec/pkg/common/moerr"
	"github.com/matrixorigin/colvec/pkg/config"
	"github.com/matrixorigin/colvec/pkg/container/types"
	"github.com/matrixorigin/colvec/pkg/container/vector"
	"github.com/matrixorigin/colvec/pkg/logutil"
)

// New assembles a batch over cols, one per field, with room for capacity
// rows. The batch owns the columns and closes them.
func New(fields []types.Field, cols []vector.ColumnVector, capacity int) *Batch {
	if len(fields) != len(cols) {
		panic(moerr.NewInvalidArgNoCtx("batch columns", fmt.Sprintf("%d columns for %d fields", len(cols), len(fields))))
	}
	return &Batch{
		Cnt:      1,
		fields:   fields,
		cols:     cols,
		capacity: capacity,
		filtered: bitmap.New(capacity),
	}
}

// Allocate creates one writable vector per field.
func Allocate(fields []types.Field, mode vector.MemoryMode, capacity int, opts ...vector.Option) (*Batch, error) {
	cols := make([]vector.ColumnVector, 0, len(fields))
	for _, f := range fields {
		v, err := vector.New(mode, f.Type, capacity, opts...)
		if err != nil {
			for _, col := range cols {
				_ = col.Close()
			}
			return nil, err
		}
		cols = append(cols, v)
	}
	return New(fields, cols, capacity), nil
}

// AllocateFromConfig is Allocate with the memory mode, batch size and max
// capacity taken from vc. Options in opts are applied after those of vc.
func AllocateFromConfig(fields []types.Field, vc *config.VectorConfig, opts ...vector.Option) (*Batch, error) {
	if err := vc.Validate(); err != nil {
		return nil, err
	}
	mode, err := vector.ParseMemoryMode(vc.MemoryMode)
	if err != nil {
		return nil, err
	}
	opts = append([]vector.Option{vector.WithMaxCapacity(vc.MaxCapacity)}, opts...)
	return Allocate(fields, mode, vc.DefaultBatchSize, opts...)
}

func (bat *Batch) Fields() []types.Field {
	return bat.fields
}

func (bat *Batch) NumCols() int {
	return len(bat.cols)
}

func (bat *Batch) Column(ordinal int) vector.ColumnVector {
	return bat.cols[ordinal]
}

// Vector returns the column at ordinal when it is writable.
func (bat *Batch) Vector(ordinal int) (*vector.Vector, bool) {
	v, ok := bat.cols[ordinal].(*vector.Vector)
	return v, ok
}

func (bat *Batch) Capacity() int {
	return bat.capacity
}

func (bat *Batch) NumRows() int {
	return bat.rowCount
}

// SetNumRows sets the logical row count. Filtered flags are cleared, then
// the null filters registered with FilterNullsInColumn are applied again.
func (bat *Batch) SetNumRows(n int) error {
	if n < 0 || n > bat.capacity {
		return moerr.NewOutOfRangeNoCtx("batch", "row count %d with capacity %d", n, bat.capacity)
	}
	bat.rowCount = n
	bat.filtered.Clear()
	for _, ordinal := range bat.nullFilteredCols {
		bat.filterNulls(ordinal)
	}
	return nil
}

// NumValidRows is the number of rows that are not filtered.
func (bat *Batch) NumValidRows() int {
	if bat.filtered.IsEmpty() {
		return bat.rowCount
	}
	return bat.rowCount - bat.filtered.CountRange(0, uint64(bat.rowCount))
}

// MarkFiltered hides row from the iterator. Rows past the capacity panic.
func (bat *Batch) MarkFiltered(row int) {
	if row < 0 || row >= bat.capacity {
		panic(moerr.NewOutOfRangeNoCtx("batch", "row %d with capacity %d", row, bat.capacity))
	}
	bat.filtered.Add(uint64(row))
}

func (bat *Batch) IsFiltered(row int) bool {
	return bat.filtered.Contains(uint64(row))
}

// FilterNullsInColumn filters every row that is null in the column at
// ordinal, now and after every later SetNumRows.
func (bat *Batch) FilterNullsInColumn(ordinal int) {
	registered := false
	for _, o := range bat.nullFilteredCols {
		if o == ordinal {
			registered = true
			break
		}
	}
	if !registered {
		bat.nullFilteredCols = append(bat.nullFilteredCols, ordinal)
	}
	bat.filterNulls(ordinal)
}

func (bat *Batch) filterNulls(ordinal int) {
	col := bat.cols[ordinal]
	if !col.HasNull() {
		return
	}
	for row := 0; row < bat.rowCount; row++ {
		if col.IsNullAt(row) {
			bat.MarkFiltered(row)
		}
	}
}

// Row returns a cursor on row. Each call builds a new cursor.
func (bat *Batch) Row(row int) *Row {
	return &Row{
		Struct: vector.NewStruct(bat.cols, row),
		bat:    bat,
	}
}

func (bat *Batch) Iterator() *Iterator {
	return &Iterator{bat: bat}
}

// Reset drops every row and filter and resets the writable columns. Storage
// is kept.
func (bat *Batch) Reset() {
	bat.rowCount = 0
	bat.filtered.Clear()
	for i := range bat.cols {
		if v, ok := bat.Vector(i); ok {
			v.Reset()
		}
	}
}

// ResetCapacity is Reset that also shrinks the writable columns back to the
// capacity they were created with.
func (bat *Batch) ResetCapacity() error {
	bat.Reset()
	for i := range bat.cols {
		if v, ok := bat.Vector(i); ok {
			if err := v.ResetCapacity(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (bat *Batch) AddCnt(cnt int) {
	atomic.AddInt64(&bat.Cnt, int64(cnt))
}

func (bat *Batch) GetCnt() int64 {
	return atomic.LoadInt64(&bat.Cnt)
}

// Close drops one reference. The last one closes every column.
func (bat *Batch) Close() error {
	if atomic.LoadInt64(&bat.Cnt) == 0 {
		return nil
	}
	if atomic.AddInt64(&bat.Cnt, -1) > 0 {
		return nil
	}
	var firstErr error
	for i, col := range bat.cols {
		if col == nil {
			continue
		}
		if err := col.Close(); err != nil {
			logutil.Error("close batch column failed",
				zap.Int("ordinal", i),
				zap.String("type", col.Type().String()),
				zap.Error(err),
			)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	bat.rowCount = 0
	bat.cols = nil
	return firstErr
}

func (bat *Batch) String() string {
	var buf bytes.Buffer

	for i, col := range bat.cols {
		buf.WriteString(fmt.Sprintf("%d : %s [", i, bat.fields[i].Name))
		for row := 0; row < bat.rowCount; row++ {
			if row > 0 {
				buf.WriteString(" ")
			}
			buf.WriteString(vector.ValueString(col, row))
		}
		buf.WriteString("]\n")
	}
	if !bat.filtered.IsEmpty() {
		buf.WriteString(fmt.Sprintf("filtered %s\n", bat.filtered))
	}
	return buf.String()
}

func (bat *Batch) Log(tag string) {
	if bat == nil || bat.rowCount < 1 {
		return
	}
	logutil.Infof("\n" + tag + "\n" + bat.String())
}
