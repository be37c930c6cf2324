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

import (
	"encoding/binary"

	"github.com/apache/arrow-go/v18/arrow/decimal128"

	"github.com/matrixorigin/colvec/pkg/common/moerr"
)

// Decimal is a fixed precision value: an unscaled 128 bit integer plus the
// precision and scale that give it meaning.
type Decimal struct {
	Num       decimal128.Num
	Precision int32
	Scale     int32
}

func DecimalFromInt64(unscaled int64, precision, scale int32) Decimal {
	return Decimal{Num: decimal128.FromI64(unscaled), Precision: precision, Scale: scale}
}

// ParseDecimal reads s, rounding to scale, and fails if it needs more than
// precision digits.
func ParseDecimal(s string, precision, scale int32) (Decimal, error) {
	num, err := decimal128.FromString(s, precision, scale)
	if err != nil {
		return Decimal{}, moerr.NewInvalidInputNoCtx("decimal %q: %v", s, err)
	}
	return Decimal{Num: num, Precision: precision, Scale: scale}, nil
}

// DecimalFromBytes decodes 16 little endian bytes, low word first.
func DecimalFromBytes(b []byte, precision, scale int32) Decimal {
	lo := binary.LittleEndian.Uint64(b[:8])
	hi := int64(binary.LittleEndian.Uint64(b[8:16]))
	return Decimal{Num: decimal128.New(hi, lo), Precision: precision, Scale: scale}
}

// AppendBytes appends the 16 byte little endian form of d to dst.
func (d Decimal) AppendBytes(dst []byte) []byte {
	dst = binary.LittleEndian.AppendUint64(dst, d.Num.LowBits())
	return binary.LittleEndian.AppendUint64(dst, uint64(d.Num.HighBits()))
}

// Unscaled64 returns the unscaled value for precisions stored in 8 bytes.
func (d Decimal) Unscaled64() int64 {
	return int64(d.Num.LowBits())
}

// Rescale converts d to the given precision and scale.
func (d Decimal) Rescale(precision, scale int32) (Decimal, error) {
	num := d.Num
	if scale != d.Scale {
		var err error
		if num, err = num.Rescale(d.Scale, scale); err != nil {
			return Decimal{}, moerr.NewDecimalOverflowNoCtx(d.String(), precision)
		}
	}
	if !num.FitsInPrecision(precision) {
		return Decimal{}, moerr.NewDecimalOverflowNoCtx(d.String(), precision)
	}
	return Decimal{Num: num, Precision: precision, Scale: scale}, nil
}

func (d Decimal) Equal(o Decimal) bool {
	return d.Num == o.Num && d.Scale == o.Scale
}

func (d Decimal) String() string {
	return d.Num.ToString(d.Scale)
}
