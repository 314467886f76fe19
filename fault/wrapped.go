// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

import (
	"errors"
)

// EngineError - a failure originating in the storage engine
//
// Op names the store operation, Err is the engine's own error
type EngineError struct {
	Op  string
	Err error
}

// SerializationError - a record could not be encoded or decoded
type SerializationError struct {
	Op  string
	Err error
}

// NewEngineError - wrap an engine error, nil stays nil
func NewEngineError(op string, err error) error {
	if nil == err {
		return nil
	}
	return &EngineError{Op: op, Err: err}
}

// NewSerializationError - wrap a codec error, nil stays nil
func NewSerializationError(op string, err error) error {
	if nil == err {
		return nil
	}
	return &SerializationError{Op: op, Err: err}
}

func (e *EngineError) Error() string {
	return "engine: " + e.Op + ": " + e.Err.Error()
}

func (e *EngineError) Unwrap() error { return e.Err }

func (e *SerializationError) Error() string {
	return "serialization: " + e.Op + ": " + e.Err.Error()
}

func (e *SerializationError) Unwrap() error { return e.Err }

// IsErrEngine - true if any error in the chain is an EngineError
func IsErrEngine(e error) bool {
	var target *EngineError
	return errors.As(e, &target)
}

// IsErrSerialization - true if any error in the chain is a SerializationError
func IsErrSerialization(e error) bool {
	var target *SerializationError
	return errors.As(e, &target)
}
