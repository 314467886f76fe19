// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"fmt"

	"github.com/bitmark-inc/ledgerstore/fault"
	"github.com/bitmark-inc/ledgerstore/identifier"
)

// KeyKind - the discriminant byte leading every encoded key
type KeyKind byte

// the closed set of key variants
const (
	AccountKind     KeyKind = 0x01
	ProgramDataKind KeyKind = 0x02
)

// KeyLength - bytes in an encoded key
const KeyLength = 1 + identifier.Length

// Key - either an account key or a program data key
//
// only AccountKey and ProgramDataKey create valid keys
type Key struct {
	kind KeyKind
	id   identifier.Identifier
}

// AccountKey - address of an account record
func AccountKey(id identifier.Identifier) Key {
	return Key{kind: AccountKind, id: id}
}

// ProgramDataKey - address of a program data blob
func ProgramDataKey(id identifier.Identifier) Key {
	return Key{kind: ProgramDataKind, id: id}
}

// KeyFromBytes - decode the 33 byte form
func KeyFromBytes(buffer []byte) (Key, error) {
	if KeyLength != len(buffer) {
		return Key{}, fault.ErrInvalidKeyLength
	}
	kind := KeyKind(buffer[0])
	if !kind.valid() {
		return Key{}, fault.ErrInvalidKey
	}
	k := Key{kind: kind}
	copy(k.id[:], buffer[1:])
	return k, nil
}

// Kind - the variant of the key
func (k Key) Kind() KeyKind { return k.kind }

// ID - the identifier part of the key
func (k Key) ID() identifier.Identifier { return k.id }

// Bytes - discriminant ++ identifier
func (k Key) Bytes() []byte {
	return k.appendTo(make([]byte, 0, KeyLength))
}

func (k Key) appendTo(buffer []byte) []byte {
	buffer = append(buffer, byte(k.kind))
	return append(buffer, k.id[:]...)
}

func (k Key) String() string {
	return k.kind.String() + ":" + k.id.String()
}

func (kind KeyKind) valid() bool {
	return AccountKind == kind || ProgramDataKind == kind
}

func (kind KeyKind) String() string {
	switch kind {
	case AccountKind:
		return "account"
	case ProgramDataKind:
		return "program_data"
	default:
		return fmt.Sprintf("*unknown(0x%02x)*", byte(kind))
	}
}

// parse the key tag of a namespace
func kindFromTag(tag string) (KeyKind, bool) {
	for _, kind := range []KeyKind{AccountKind, ProgramDataKind} {
		if kind.String() == tag {
			return kind, true
		}
	}
	return 0, false
}
