// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/syndtr/goleveldb/leveldb"

	"github.com/bitmark-inc/ledgerstore/fault"
)

// Namespace - handle for one logical partition of the keyspace
type Namespace struct {
	name   string
	prefix byte
	limit  []byte
	kind   KeyKind
	db     *leveldb.DB
}

// Name - the persisted name of the namespace
func (ns *Namespace) Name() string {
	return ns.name
}

// Prefix - the physical column byte
func (ns *Namespace) Prefix() byte {
	return ns.prefix
}

// prepend the prefix onto the key
//
// a key of the wrong variant is a programming error
func (ns *Namespace) prefixKey(key Key) []byte {
	if key.kind != ns.kind {
		fault.Panicf("namespace: %s cannot hold key: %s", ns.name, key)
	}
	prefixedKey := make([]byte, 1, 1+KeyLength)
	prefixedKey[0] = ns.prefix
	return key.appendTo(prefixedKey)
}

// read a value for a given key
//
// returns nil, nil if the key is not present
func (ns *Namespace) get(key Key) ([]byte, error) {
	value, err := ns.db.Get(ns.prefixKey(key), nil)
	if leveldb.ErrNotFound == err {
		return nil, nil
	}
	if nil != err {
		return nil, err
	}
	return value, nil
}

// check if a key exists
func (ns *Namespace) has(key Key) (bool, error) {
	return ns.db.Has(ns.prefixKey(key), nil)
}

// store a key/value bytes pair to the database
func (ns *Namespace) put(key Key, value []byte) error {
	return ns.db.Put(ns.prefixKey(key), value, nil)
}
