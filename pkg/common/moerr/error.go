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
	"errors"
	"fmt"
	"io"
	"runtime/debug"
)

const (
	// 0 - 99 is OK.
	Ok    uint16 = 0
	OkMax uint16 = 99

	// Group 1: Internal errors
	ErrStart        uint16 = 20100
	ErrInternal     uint16 = 20101
	ErrNYI          uint16 = 20102
	ErrOOM          uint16 = 20103
	ErrNotSupported uint16 = 20105

	// Group 2: numeric and capacity
	ErrOutOfRange        uint16 = 20201
	ErrInvalidArg        uint16 = 20203
	ErrCapacityExceeded  uint16 = 20210
	ErrTypeMismatch      uint16 = 20211
	ErrDecimalOverflow   uint16 = 20212
	ErrUnsupportedLayout uint16 = 20213

	// Group 3: invalid input
	ErrBadConfig    uint16 = 20300
	ErrInvalidInput uint16 = 20301
	ErrNoConfig     uint16 = 20302

	// Group 4: unexpected state
	ErrInvalidState   uint16 = 20400
	ErrEmptyVector    uint16 = 20404
	ErrUnexpectedEOF  uint16 = 20407
	ErrSizeNotMatch   uint16 = 20409
	ErrReadOnlyVector uint16 = 20450
	ErrVectorClosed   uint16 = 20451

	// Group End: max value of MOErrorCode
	ErrEnd uint16 = 65535
)

type moErrorMsgItem struct {
	errorMsgOrFormat string
}

var errorMsgRefer = map[uint16]moErrorMsgItem{
	// Group 1: Internal errors
	ErrStart:        {"internal error: error code start"},
	ErrInternal:     {"internal error: %s"},
	ErrNYI:          {"%s is not yet implemented"},
	ErrOOM:          {"error: out of memory"},
	ErrNotSupported: {"not supported: %s"},

	// Group 2: numeric and capacity
	ErrOutOfRange:        {"data out of range: data type %s, %s"},
	ErrInvalidArg:        {"invalid argument %s, bad value %s"},
	ErrCapacityExceeded:  {"cannot reserve additional contiguous storage: requested %d slots, max capacity %d"},
	ErrTypeMismatch:      {"type mismatch: column type %s, value %s"},
	ErrDecimalOverflow:   {"decimal overflow: %s does not fit precision %d"},
	ErrUnsupportedLayout: {"unsupported vector layout for type %s"},

	// Group 3: invalid input
	ErrBadConfig:    {"invalid configuration: %s"},
	ErrInvalidInput: {"invalid input: %s"},
	ErrNoConfig:     {"no configuration: %s"},

	// Group 4: unexpected state
	ErrInvalidState:   {"invalid state %s"},
	ErrEmptyVector:    {"empty vector"},
	ErrUnexpectedEOF:  {"unexpected end of file %s"},
	ErrSizeNotMatch:   {"size not match %s"},
	ErrReadOnlyVector: {"column %d is read only"},
	ErrVectorClosed:   {"vector of type %s is closed"},

	// Group End: max value of MOErrorCode
	ErrEnd: {"internal error: end of errcode code"},
}

func newError(ctx context.Context, code uint16, args ...any) *Error {
	item, has := errorMsgRefer[code]
	if !has {
		panic(NewInternalError(ctx, "not exist MOErrorCode: %d", code))
	}
	msg := item.errorMsgOrFormat
	if len(args) > 0 {
		msg = fmt.Sprintf(item.errorMsgOrFormat, args...)
	}
	return &Error{
		code:    code,
		message: msg,
	}
}

type Error struct {
	code    uint16
	message string
	detail  string
}

func (e *Error) Error() string {
	return e.message
}

func (e *Error) Detail() string {
	return e.detail
}

func (e *Error) Display() string {
	if len(e.detail) == 0 {
		return e.message
	}
	return fmt.Sprintf("%s: %s", e.message, e.detail)
}

func (e *Error) ErrorCode() uint16 {
	return e.code
}

func (e *Error) Succeeded() bool {
	return e.code < OkMax
}

// WithDetail returns a copy of e carrying extra detail text.
func (e *Error) WithDetail(detail string) *Error {
	ne := *e
	ne.detail = detail
	return &ne
}

func IsMoErrCode(e error, rc uint16) bool {
	if e == nil {
		return rc == Ok
	}

	var me *Error
	if !errors.As(e, &me) {
		// This is not a moerr
		return false
	}
	return me.code == rc
}

func DowncastError(e error) *Error {
	var me *Error
	if errors.As(e, &me) {
		return me
	}
	return newError(Context(), ErrInternal, fmt.Sprintf("downcast error failed: %v", e))
}

// ConvertPanicError converts a runtime panic to internal error.
func ConvertPanicError(ctx context.Context, v interface{}) *Error {
	if e, ok := v.(*Error); ok {
		return e
	}
	return newError(ctx, ErrInternal, fmt.Sprintf("panic %v: %s", v, debug.Stack()))
}

// ConvertGoError converts a go error into mo error.
// Note here we must return error, because nil error
// is the same as nil *Error -- Go strangeness.
func ConvertGoError(ctx context.Context, err error) error {
	// nil is nil
	if err == nil {
		return err
	}

	// already a moerr, return it as is
	if _, ok := err.(*Error); ok {
		return err
	}

	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return NewUnexpectedEOF(ctx, err.Error())
	}

	return NewInternalError(ctx, "convert go error to mo error %v", err)
}

var defaultContext = context.Background()

// Context returns the context used by the NoCtx constructors.
func Context() context.Context {
	return defaultContext
}

func NewInternalError(ctx context.Context, msg string, args ...any) *Error {
	xmsg := fmt.Sprintf(msg, args...)
	return newError(ctx, ErrInternal, xmsg)
}

func NewNYI(ctx context.Context, msg string, args ...any) *Error {
	xmsg := fmt.Sprintf(msg, args...)
	return newError(ctx, ErrNYI, xmsg)
}

func NewNotSupported(ctx context.Context, msg string, args ...any) *Error {
	xmsg := fmt.Sprintf(msg, args...)
	return newError(ctx, ErrNotSupported, xmsg)
}

func NewOOM(ctx context.Context) *Error {
	return newError(ctx, ErrOOM)
}

func NewOutOfRange(ctx context.Context, typ string, msg string, args ...any) *Error {
	xmsg := fmt.Sprintf(msg, args...)
	return newError(ctx, ErrOutOfRange, typ, xmsg)
}

func NewInvalidArg(ctx context.Context, arg string, val any) *Error {
	return newError(ctx, ErrInvalidArg, arg, fmt.Sprintf("%v", val))
}

func NewCapacityExceeded(ctx context.Context, required, maxCapacity int) *Error {
	return newError(ctx, ErrCapacityExceeded, required, maxCapacity)
}

func NewTypeMismatch(ctx context.Context, typ string, val any) *Error {
	return newError(ctx, ErrTypeMismatch, typ, fmt.Sprintf("%v (%T)", val, val))
}

func NewDecimalOverflow(ctx context.Context, val string, precision int32) *Error {
	return newError(ctx, ErrDecimalOverflow, val, precision)
}

func NewUnsupportedLayout(ctx context.Context, typ string) *Error {
	return newError(ctx, ErrUnsupportedLayout, typ)
}

func NewBadConfig(ctx context.Context, msg string, args ...any) *Error {
	xmsg := fmt.Sprintf(msg, args...)
	return newError(ctx, ErrBadConfig, xmsg)
}

func NewInvalidInput(ctx context.Context, msg string, args ...any) *Error {
	xmsg := fmt.Sprintf(msg, args...)
	return newError(ctx, ErrInvalidInput, xmsg)
}

func NewNoConfig(ctx context.Context, f string) *Error {
	return newError(ctx, ErrNoConfig, f)
}

func NewInvalidState(ctx context.Context, msg string, args ...any) *Error {
	xmsg := fmt.Sprintf(msg, args...)
	return newError(ctx, ErrInvalidState, xmsg)
}

func NewEmptyVector(ctx context.Context) *Error {
	return newError(ctx, ErrEmptyVector)
}

func NewUnexpectedEOF(ctx context.Context, f string) *Error {
	return newError(ctx, ErrUnexpectedEOF, f)
}

func NewSizeNotMatch(ctx context.Context, f string) *Error {
	return newError(ctx, ErrSizeNotMatch, f)
}

func NewReadOnlyVector(ctx context.Context, ordinal int) *Error {
	return newError(ctx, ErrReadOnlyVector, ordinal)
}

func NewVectorClosed(ctx context.Context, typ string) *Error {
	return newError(ctx, ErrVectorClosed, typ)
}
