// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package account - ledger account records and their binary form
package account

import (
	"bytes"

	"github.com/bitmark-inc/ledgerstore/identifier"
)

// Packed - packed records are just a byte slice
type Packed []byte

// TagType - leading format tag of a packed record
type TagType uint64

// record format tags
//
// only one format exists, a reader meeting any other tag fails
// rather than guessing at the layout
const (
	NullTag            = TagType(iota)
	RecordFormatOneTag = TagType(iota)

	// this item must be last
	InvalidTag = TagType(iota)
)

// MaxDataLength - largest data payload an account may hold
const MaxDataLength = 10 * 1024 * 1024

// Record - the ledger's representation of an account
type Record struct {
	Lamports   uint64                `json:"lamports"`
	Owner      identifier.Identifier `json:"owner"`
	Data       []byte                `json:"data"`
	Executable bool                  `json:"executable"`
	RentEpoch  uint64                `json:"rentEpoch"`
}

// Equal - field by field comparison, a nil and an empty payload are equal
func (record *Record) Equal(other *Record) bool {
	if nil == record || nil == other {
		return record == other
	}
	return record.Lamports == other.Lamports &&
		record.Owner == other.Owner &&
		record.Executable == other.Executable &&
		record.RentEpoch == other.RentEpoch &&
		bytes.Equal(record.Data, other.Data)
}

// Clone - deep copy, the data payload is not shared
func (record *Record) Clone() *Record {
	if nil == record {
		return nil
	}
	r := *record
	if nil != record.Data {
		r.Data = make([]byte, len(record.Data))
		copy(r.Data, record.Data)
	}
	return &r
}
