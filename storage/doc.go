// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - maintain the on-disk ledger state
//
// This maintains a LevelDB database split into namespaces.  Each
// namespace is defined by a prefix byte obtained from the prefix tag
// in the struct defining the available namespaces.
//
// Notes:
//  1. each namespace has a single byte prefix, 0x00 is reserved for metadata
//  2. ++           = concatenation of byte data
//  3. id           = 32 byte public identifier
//  4. key          = discriminant ++ id  (33 bytes, see key.go)
//     0x01 = account, 0x02 = program data
//
// Accounts:
//
//	A ++ 0x01 ++ id            - account record
//	                             data: packed account.Record
//
// Program data:
//
//	P ++ 0x02 ++ id            - program binary
//	                             data: raw bytes
//
// Metadata:
//
//	0x00 ++ "VERSION"          - database version (big endian uint32)
//	0x00 ++ "NAMESPACES"       - [ varint(len(name)) ++ name ++ prefix ]
//	0x00 ++ "CHECKPOINT"       - only in checkpoints
//	                             data: entries(uint64) ++ sha3-256 digest ++ created(unix nano, uint64)
//
// A Store is a counted reference to one open database, Clone adds an
// owner and the database is closed when the last owner calls Close.
package storage
