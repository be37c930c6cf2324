// Copyright 2021 - 2022 Matrix Origin
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

package moerr

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsMoErrCode(t *testing.T) {
	cases := []struct {
		err  error
		code uint16
		want bool
	}{
		{nil, Ok, true},
		{nil, ErrInternal, false},
		{NewCapacityExceededNoCtx(16, 15), ErrCapacityExceeded, true},
		{NewCapacityExceededNoCtx(16, 15), ErrOutOfRange, false},
		{fmt.Errorf("wrapped: %w", NewTypeMismatchNoCtx("INT", "x")), ErrTypeMismatch, true},
		{io.EOF, ErrUnexpectedEOF, false},
	}
	for i, c := range cases {
		require.Equal(t, c.want, IsMoErrCode(c.err, c.code), "case %d", i)
	}
}

func TestCapacityExceededMessage(t *testing.T) {
	err := NewCapacityExceeded(context.Background(), 16, 15)
	require.True(t, strings.HasPrefix(err.Error(), "cannot reserve additional contiguous storage"))
	require.Contains(t, err.Error(), "16")
	require.Contains(t, err.Error(), "15")
}

func TestConvertGoError(t *testing.T) {
	ctx := context.Background()
	require.NoError(t, ConvertGoError(ctx, nil))

	me := NewInvalidStateNoCtx("closed")
	require.Same(t, me, ConvertGoError(ctx, me))

	require.True(t, IsMoErrCode(ConvertGoError(ctx, io.EOF), ErrUnexpectedEOF))
	require.True(t, IsMoErrCode(ConvertGoError(ctx, fmt.Errorf("x")), ErrInternal))
}

func TestConvertPanicError(t *testing.T) {
	me := NewOOMNoCtx()
	require.Same(t, me, ConvertPanicError(context.Background(), me))

	err := ConvertPanicError(context.Background(), "boom")
	require.Equal(t, ErrInternal, err.ErrorCode())
	require.Contains(t, err.Error(), "panic boom")
}

func TestDisplay(t *testing.T) {
	err := NewBadConfigNoCtx("memory-mode %q", "disk")
	require.Equal(t, err.Error(), err.Display())
	require.Equal(t, err.Error()+": check vector section", err.WithDetail("check vector section").Display())
	require.Empty(t, err.Detail())
}

func TestUnknownCodePanics(t *testing.T) {
	require.Panics(t, func() { _ = newError(context.Background(), 1) })
}
