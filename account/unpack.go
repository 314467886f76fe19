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

// Unpack - turn the stored form back into a record
//
// every byte must be consumed; the returned record does not share
// memory with the packed buffer, and an empty payload decodes as nil
// Data so compare records with Equal rather than reflect.DeepEqual
func (packed Packed) Unpack() (*Record, error) {
	record, err := packed.unpack()
	if nil != err {
		return nil, fault.NewSerializationError("unpack account", err)
	}
	return record, nil
}

func (packed Packed) unpack() (*Record, error) {
	tag, n := util.FromVarint64(packed)
	if 0 == n {
		return nil, fault.ErrTruncatedRecord
	}
	if RecordFormatOneTag != TagType(tag) {
		return nil, fault.ErrUnknownRecordFormat
	}

	record := &Record{}

	lamports, lamportsLength := util.FromVarint64(packed[n:])
	if 0 == lamportsLength {
		return nil, fault.ErrTruncatedRecord
	}
	record.Lamports = lamports
	n += lamportsLength

	if len(packed[n:]) < identifier.Length {
		return nil, fault.ErrTruncatedRecord
	}
	copy(record.Owner[:], packed[n:n+identifier.Length])
	n += identifier.Length

	// an over long count is a format error, not an allocation
	dataLength, dataOffset := util.ClippedVarint64(packed[n:], 0, MaxDataLength)
	if 0 == dataOffset {
		if _, count := util.FromVarint64(packed[n:]); 0 != count {
			return nil, fault.ErrDataTooLong
		}
		return nil, fault.ErrTruncatedRecord
	}
	n += dataOffset
	if len(packed[n:]) < dataLength {
		return nil, fault.ErrTruncatedRecord
	}
	if dataLength > 0 {
		record.Data = make([]byte, dataLength)
		copy(record.Data, packed[n:n+dataLength])
	}
	n += dataLength

	if len(packed[n:]) < 1 {
		return nil, fault.ErrTruncatedRecord
	}
	switch packed[n] {
	case 0x00:
		record.Executable = false
	case 0x01:
		record.Executable = true
	default:
		return nil, fault.ErrInvalidExecutableFlag
	}
	n += 1

	rentEpoch, rentEpochLength := util.FromVarint64(packed[n:])
	if 0 == rentEpochLength {
		return nil, fault.ErrTruncatedRecord
	}
	record.RentEpoch = rentEpoch
	n += rentEpochLength

	if n != len(packed) {
		return nil, fault.ErrTrailingBytes
	}
	return record, nil
}
