// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/bitmark-inc/ledgerstore/fault"
	"github.com/bitmark-inc/ledgerstore/identifier"
)

// Element - a decoded key and a copy of its stored value
type Element struct {
	Key   Key
	Value []byte
}

// FetchCursor - cursor structure
type FetchCursor struct {
	namespace *Namespace
	maxRange  util.Range
}

// NewFetchCursor - initialise a cursor to the start of the namespace
func (ns *Namespace) NewFetchCursor() *FetchCursor {
	return &FetchCursor{
		namespace: ns,
		maxRange: util.Range{
			Start: []byte{ns.prefix}, // Start of key range, included in the range
			Limit: ns.limit,          // Limit of key range, excluded from the range
		},
	}
}

// Seek - move cursor to the position of an identifier
func (cursor *FetchCursor) Seek(id identifier.Identifier) *FetchCursor {
	cursor.maxRange.Start = cursor.namespace.prefixKey(Key{kind: cursor.namespace.kind, id: id})
	return cursor
}

// Fetch - return up to count elements from the cursor position
// and advance the cursor past them
func (cursor *FetchCursor) Fetch(count int) ([]Element, error) {
	if nil == cursor {
		return nil, fault.ErrInvalidCursor
	}
	if count <= 0 {
		return nil, fault.ErrInvalidCount
	}

	results := make([]Element, 0, count)
	var last []byte
	err := cursor.iterate(func(physicalKey []byte, e Element) bool {
		results = append(results, e)
		last = physicalKey
		return len(results) < count
	})
	if nil != err {
		return nil, err
	}

	// keys are fixed length so the next possible key is last ++ 0x00
	if nil != last {
		cursor.maxRange.Start = append(last, 0x00)
	}
	return results, nil
}

// Map - run a function on all elements from the cursor position,
// stopping at the first error
func (cursor *FetchCursor) Map(f func(key Key, value []byte) error) error {
	if nil == cursor {
		return fault.ErrInvalidCursor
	}

	var ferr error
	err := cursor.iterate(func(_ []byte, e Element) bool {
		ferr = f(e.Key, e.Value)
		return nil == ferr
	})
	if nil != ferr {
		return ferr
	}
	return err
}

// call f with copies of each key and value until it returns false
func (cursor *FetchCursor) iterate(f func(physicalKey []byte, e Element) bool) error {
	iter := cursor.namespace.db.NewIterator(&cursor.maxRange, nil)
	defer iter.Release()

iterating:
	for iter.Next() {

		// contents of the returned slice must not be modified, and are
		// only valid until the next call to Next
		key := iter.Key()
		value := iter.Value()

		k, err := KeyFromBytes(key[1:])
		if nil != err {
			return fault.NewEngineError("fetch "+cursor.namespace.name, err)
		}

		physicalKey := make([]byte, len(key))
		copy(physicalKey, key)

		dataValue := make([]byte, len(value))
		copy(dataValue, value)

		if !f(physicalKey, Element{Key: k, Value: dataValue}) {
			break iterating
		}
	}
	return fault.NewEngineError("fetch "+cursor.namespace.name, iter.Error())
}
