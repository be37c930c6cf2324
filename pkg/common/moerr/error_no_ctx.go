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

func NewInternalErrorNoCtx(msg string, args ...any) *Error {
	return NewInternalError(Context(), msg, args...)
}

func NewNYINoCtx(msg string, args ...any) *Error {
	return NewNYI(Context(), msg, args...)
}

func NewNotSupportedNoCtx(msg string, args ...any) *Error {
	return NewNotSupported(Context(), msg, args...)
}

func NewOOMNoCtx() *Error {
	return NewOOM(Context())
}

func NewOutOfRangeNoCtx(typ string, msg string, args ...any) *Error {
	return NewOutOfRange(Context(), typ, msg, args...)
}

func NewInvalidArgNoCtx(arg string, val any) *Error {
	return NewInvalidArg(Context(), arg, val)
}

func NewCapacityExceededNoCtx(required, maxCapacity int) *Error {
	return NewCapacityExceeded(Context(), required, maxCapacity)
}

func NewTypeMismatchNoCtx(typ string, val any) *Error {
	return NewTypeMismatch(Context(), typ, val)
}

func NewDecimalOverflowNoCtx(val string, precision int32) *Error {
	return NewDecimalOverflow(Context(), val, precision)
}

func NewUnsupportedLayoutNoCtx(typ string) *Error {
	return NewUnsupportedLayout(Context(), typ)
}

func NewBadConfigNoCtx(msg string, args ...any) *Error {
	return NewBadConfig(Context(), msg, args...)
}

func NewInvalidInputNoCtx(msg string, args ...any) *Error {
	return NewInvalidInput(Context(), msg, args...)
}

func NewInvalidStateNoCtx(msg string, args ...any) *Error {
	return NewInvalidState(Context(), msg, args...)
}

func NewReadOnlyVectorNoCtx(ordinal int) *Error {
	return NewReadOnlyVector(Context(), ordinal)
}

func NewVectorClosedNoCtx(typ string) *Error {
	return NewVectorClosed(Context(), typ)
}
