// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"sync/atomic"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/bitmark-inc/ledgerstore/fault"
	"github.com/bitmark-inc/logger"
)

// owners - count of live handles on one database
type owners uint64

func (o *owners) increment() uint64 {
	return atomic.AddUint64((*uint64)(o), 1)
}

func (o *owners) decrement() uint64 {
	return atomic.AddUint64((*uint64)(o), ^uint64(0))
}

func (o *owners) value() uint64 {
	return atomic.LoadUint64((*uint64)(o))
}

// the single open database shared by all handles
type database struct {
	owners     owners
	db         *leveldb.DB
	path       string
	readOnly   bool
	namespaces namespaces
	log        *logger.L
}

// Store - one owner of an open database
//
// a Store may be used from any number of goroutines; Clone and Close
// on the same handle must not race each other
type Store struct {
	shared   *database
	released int32
}

func newStore(d *database) *Store {
	d.owners.increment()
	return &Store{shared: d}
}

// Clone - add an owner of the same open database
//
// cloning a closed handle gives another closed handle
func (s *Store) Clone() *Store {
	if s.isReleased() {
		return &Store{shared: s.shared, released: 1}
	}
	s.shared.owners.increment()
	return &Store{shared: s.shared}
}

// Close - release this owner, the database is flushed and closed when
// the last owner is released
//
// calling Close more than once on the same handle has no effect
func (s *Store) Close() error {
	if !atomic.CompareAndSwapInt32(&s.released, 0, 1) {
		return nil
	}
	if 0 != s.shared.owners.decrement() {
		return nil
	}

	s.shared.log.Infof("close database: %q", s.shared.path)
	err := s.shared.db.Close()
	if nil != err {
		s.shared.log.Errorf("close database: %q  error: %s", s.shared.path, err)
	}
	s.shared.log.Flush()
	return fault.NewEngineError("close", err)
}

// Owners - number of handles keeping the database open
func (s *Store) Owners() uint64 {
	return s.shared.owners.value()
}

// Path - directory of the database
func (s *Store) Path() string {
	return s.shared.path
}

// ReadOnly - true if opened by OpenReadOnly
func (s *Store) ReadOnly() bool {
	return s.shared.readOnly
}

func (s *Store) isReleased() bool {
	return 0 != atomic.LoadInt32(&s.released)
}

// the shared database, or an engine error for a closed handle
func (s *Store) database(op string) (*database, error) {
	if nil == s || s.isReleased() {
		return nil, fault.NewEngineError(op, leveldb.ErrClosed)
	}
	return s.shared, nil
}
