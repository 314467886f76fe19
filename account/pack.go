// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account

import (
	"github.com/bitmark-inc/ledgerstore/fault"
	"github.com/bitmark-inc/ledgerstore/identifier"
	"github.com/bitmark-inc/ledgerstore/util"
)

// Pack - produce the stored form of a record
//
// Varint64(tag) followed by the fields:
//
//	lamports      varint64
//	owner         32 bytes
//	data          varint64(length) ++ bytes
//	executable    1 byte, 0x00 or 0x01
//	rent epoch    varint64
//
// the result depends only on the field values
func (record *Record) Pack() (Packed, error) {
	if nil == record {
		return nil, fault.NewSerializationError("pack account", fault.ErrTruncatedRecord)
	}
	if len(record.Data) > MaxDataLength {
		return nil, fault.NewSerializationError("pack account", fault.ErrDataTooLong)
	}

	size := 4*util.Varint64MaximumBytes + identifier.Length + len(record.Data) + 1
	message := make([]byte, 0, size)

	message = util.AppendVarint64(message, uint64(RecordFormatOneTag))
	message = util.AppendVarint64(message, record.Lamports)
	message = append(message, record.Owner[:]...)
	message = util.AppendVarint64(message, uint64(len(record.Data)))
	message = append(message, record.Data...)
	if record.Executable {
		message = append(message, 0x01)
	} else {
		message = append(message, 0x00)
	}
	message = util.AppendVarint64(message, record.RentEpoch)

	return message, nil
}
