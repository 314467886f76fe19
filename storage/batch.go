// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"sync"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/bitmark-inc/ledgerstore/account"
	"github.com/bitmark-inc/ledgerstore/fault"
	"github.com/bitmark-inc/ledgerstore/identifier"
)

// Batch - writes staged for one atomic commit
//
// reads through a batch see its own staged writes first; nothing is
// visible to other readers until Commit
type Batch struct {
	sync.Mutex
	store    *Store
	batch    *leveldb.Batch
	cache    Cache
	finished bool
}

// NewBatch - start staging writes against the store
func (s *Store) NewBatch() *Batch {
	return newBatch(s, newCache())
}

func newBatch(s *Store, c Cache) *Batch {
	return &Batch{
		store: s,
		batch: new(leveldb.Batch),
		cache: c,
	}
}

// PutAccount - stage an account record
func (b *Batch) PutAccount(id identifier.Identifier, record *account.Record) error {
	packed, err := record.Pack()
	if nil != err {
		return err
	}
	return b.put("put account", b.store.shared.namespaces.Accounts, AccountKey(id), packed)
}

// PutProgramData - stage a program binary
func (b *Batch) PutProgramData(id identifier.Identifier, data []byte) error {
	value := make([]byte, len(data))
	copy(value, data)
	return b.put("put program data", b.store.shared.namespaces.ProgramData, ProgramDataKey(id), value)
}

func (b *Batch) put(op string, ns *Namespace, key Key, value []byte) error {
	b.Lock()
	defer b.Unlock()

	if b.finished {
		return fault.ErrBatchFinished
	}

	physicalKey := ns.prefixKey(key)
	b.cache.Set(string(physicalKey), value)
	b.batch.Put(physicalKey, value)
	return nil
}

// GetAccount - the staged record if any, otherwise the stored one
func (b *Batch) GetAccount(id identifier.Identifier) (*account.Record, error) {
	value, found, err := b.staged(b.store.shared.namespaces.Accounts, AccountKey(id))
	if nil != err {
		return nil, err
	}
	if !found {
		return b.store.GetAccount(id)
	}
	return account.Packed(value).Unpack()
}

// GetProgramData - the staged program binary if any, otherwise the stored one
func (b *Batch) GetProgramData(id identifier.Identifier) ([]byte, error) {
	value, found, err := b.staged(b.store.shared.namespaces.ProgramData, ProgramDataKey(id))
	if nil != err {
		return nil, err
	}
	if !found {
		return b.store.GetProgramData(id)
	}
	result := make([]byte, len(value))
	copy(result, value)
	return result, nil
}

func (b *Batch) staged(ns *Namespace, key Key) ([]byte, bool, error) {
	b.Lock()
	defer b.Unlock()

	if b.finished {
		return nil, false, fault.ErrBatchFinished
	}
	value, found := b.cache.Get(string(ns.prefixKey(key)))
	return value, found, nil
}

// Len - number of staged writes, including overwritten ones
func (b *Batch) Len() int {
	b.Lock()
	defer b.Unlock()
	return b.batch.Len()
}

// Commit - write every staged value in one atomic engine write
//
// the batch is finished afterwards whether or not the write succeeded
func (b *Batch) Commit() error {
	b.Lock()
	defer b.Unlock()

	if b.finished {
		return fault.ErrBatchFinished
	}
	defer b.finish()

	d, err := b.store.database("commit batch")
	if nil != err {
		return err
	}

	if 0 == b.batch.Len() {
		return nil
	}

	err = d.db.Write(b.batch, nil)
	if nil != err {
		d.log.Errorf("commit batch of: %d  error: %s", b.batch.Len(), err)
		return fault.NewEngineError("commit batch", err)
	}
	d.log.Debugf("committed batch of: %d", b.batch.Len())
	return nil
}

// Abort - discard every staged value
func (b *Batch) Abort() {
	b.Lock()
	defer b.Unlock()

	if !b.finished {
		b.finish()
	}
}

// must hold the lock
func (b *Batch) finish() {
	b.batch.Reset()
	b.cache.Clear()
	b.finished = true
}
