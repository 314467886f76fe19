// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type LengthError GenericError
type NotFoundError GenericError
type ProcessError GenericError
type RecordError GenericError

// common errors - keep in alphabetic order
var (
	ErrAlreadyInitialised     = ExistsError("already initialised")
	ErrBatchFinished          = ProcessError("batch already committed or aborted")
	ErrCheckpointDigest       = RecordError("checkpoint digest mismatch")
	ErrCheckpointExists       = ExistsError("checkpoint destination already holds a database")
	ErrDataTooLong            = LengthError("account data too long")
	ErrDatabaseNotInitialised = NotFoundError("database is not initialised")
	ErrInvalidCount           = InvalidError("invalid count")
	ErrInvalidCursor          = InvalidError("invalid cursor")
	ErrInvalidExecutableFlag  = RecordError("invalid executable flag")
	ErrInvalidIdentifier      = InvalidError("invalid identifier")
	ErrInvalidKey             = InvalidError("invalid key")
	ErrInvalidKeyLength       = LengthError("invalid key length")
	ErrInvalidLoggerChannel   = InvalidError("invalid logger channel")
	ErrInvalidStructPointer   = InvalidError("invalid struct pointer")
	ErrMissingCheckpointInfo  = NotFoundError("checkpoint information not found")
	ErrNamespaceMismatch      = InvalidError("namespace layout does not match database")
	ErrTrailingBytes          = RecordError("trailing bytes after record")
	ErrTruncatedRecord        = LengthError("truncated record")
	ErrUnknownNamespace       = NotFoundError("unknown namespace")
	ErrUnknownRecordFormat    = RecordError("unknown record format")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e LengthError) Error() string   { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }
func (e RecordError) Error() string   { return string(e) }

// determine the class of an error
func IsErrExists(e error) bool   { _, ok := e.(ExistsError); return ok }
func IsErrInvalid(e error) bool  { _, ok := e.(InvalidError); return ok }
func IsErrLength(e error) bool   { _, ok := e.(LengthError); return ok }
func IsErrNotFound(e error) bool { _, ok := e.(NotFoundError); return ok }
func IsErrProcess(e error) bool  { _, ok := e.(ProcessError); return ok }
func IsErrRecord(e error) bool   { _, ok := e.(RecordError); return ok }
