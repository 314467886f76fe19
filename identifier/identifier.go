// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package identifier - fixed size public keys addressing ledger state
//
// the same identifier type addresses both accounts and program data,
// the text form is base58 without any version or checksum bytes
package identifier

import (
	"bytes"

	"github.com/mr-tron/base58"

	"github.com/bitmark-inc/ledgerstore/fault"
)

// Length - number of bytes in an identifier
const Length = 32

// Identifier - a 32 byte opaque public key
type Identifier [Length]byte

// FromBytes - make an identifier from exactly Length bytes
func FromBytes(buffer []byte) (Identifier, error) {
	id := Identifier{}
	if Length != len(buffer) {
		return id, fault.ErrInvalidKeyLength
	}
	copy(id[:], buffer)
	return id, nil
}

// FromBase58 - decode the text form of an identifier
func FromBase58(s string) (Identifier, error) {
	buffer, err := base58.Decode(s)
	if nil != err || 0 == len(buffer) {
		return Identifier{}, fault.ErrInvalidIdentifier
	}
	return FromBytes(buffer)
}

// Bytes - a copy of the raw bytes
func (id Identifier) Bytes() []byte {
	buffer := make([]byte, Length)
	copy(buffer, id[:])
	return buffer
}

// IsZero - true for the all zero identifier
func (id Identifier) IsZero() bool {
	return id == Identifier{}
}

// Compare - byte order comparison, as used by the storage keys
func (id Identifier) Compare(other Identifier) int {
	return bytes.Compare(id[:], other[:])
}

// String - base58 text form
func (id Identifier) String() string {
	return base58.Encode(id[:])
}

// GoString - used by %#v
func (id Identifier) GoString() string {
	return "<identifier:" + id.String() + ">"
}

// MarshalText - convert identifier to base58 for JSON
func (id Identifier) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText - convert base58 text back to an identifier
func (id *Identifier) UnmarshalText(s []byte) error {
	decoded, err := FromBase58(string(s))
	if nil != err {
		return err
	}
	*id = decoded
	return nil
}
