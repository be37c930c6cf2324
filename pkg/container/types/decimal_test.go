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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/colvec/pkg/common/moerr"
)

func TestDecimal(t *testing.T) {
	d, err := ParseDecimal("123.45", 10, 2)
	require.NoError(t, err)
	require.Equal(t, "123.45", d.String())
	require.Equal(t, int64(12345), d.Unscaled64())
	require.True(t, d.Equal(DecimalFromInt64(12345, 10, 2)))

	neg := DecimalFromInt64(-5, 5, 3)
	require.Equal(t, "-0.005", neg.String())
	require.Equal(t, int64(-5), neg.Unscaled64())

	_, err = ParseDecimal("abc", 10, 2)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))
}

func TestDecimalBytes(t *testing.T) {
	d, err := ParseDecimal("-123456789012345678901234.5", 38, 1)
	require.NoError(t, err)
	b := d.AppendBytes(nil)
	require.Equal(t, Decimal128Size, len(b))
	back := DecimalFromBytes(b, 38, 1)
	require.True(t, d.Equal(back))
	require.Equal(t, d.String(), back.String())
}

func TestDecimalRescale(t *testing.T) {
	d := DecimalFromInt64(12345, 10, 2)
	r, err := d.Rescale(12, 4)
	require.NoError(t, err)
	require.Equal(t, "123.4500", r.String())

	_, err = d.Rescale(3, 2)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrDecimalOverflow))
}
