// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage_test

import (
	"encoding/binary"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/bitmark-inc/ledgerstore/account"
	"github.com/bitmark-inc/ledgerstore/identifier"
	"github.com/bitmark-inc/ledgerstore/storage"
)

// common test setup routines

// base58 identifier used by the counter program fixtures
const counterAddress = "J39wvrFY2AkoAUCke5347RMNk3ditxZfVidoZ7U6Fguf"

// a scratch directory removed by the returned function
func makeTestDir(t *testing.T) (string, func()) {
	dir, err := ioutil.TempDir("", "storage-test")
	if nil != err {
		t.Fatalf("temporary directory error: %s", err)
	}
	return dir, func() {
		_ = os.RemoveAll(dir)
	}
}

// open a fresh store in a scratch directory
func setup(t *testing.T) (*storage.Store, string, func()) {
	dir, cleanup := makeTestDir(t)
	path := filepath.Join(dir, "ledger.leveldb")
	store, err := storage.Open(path)
	if nil != err {
		cleanup()
		t.Fatalf("storage open error: %s", err)
	}
	return store, path, func() {
		_ = store.Close()
		cleanup()
	}
}

func mustID(t *testing.T, s string) identifier.Identifier {
	id, err := identifier.FromBase58(s)
	if nil != err {
		t.Fatalf("identifier: %q  error: %s", s, err)
	}
	return id
}

// a distinct identifier per number
func makeID(n int) identifier.Identifier {
	id := identifier.Identifier{}
	binary.BigEndian.PutUint64(id[identifier.Length-8:], uint64(n))
	id[0] = 0x42
	return id
}

func le32(n uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, n)
	return b
}

func accounts(t *testing.T, store *storage.Store) *storage.Namespace {
	ns, err := store.Accounts()
	if nil != err {
		t.Fatalf("accounts namespace error: %s", err)
	}
	return ns
}

func programData(t *testing.T, store *storage.Store) *storage.Namespace {
	ns, err := store.ProgramData()
	if nil != err {
		t.Fatalf("program data namespace error: %s", err)
	}
	return ns
}

func makeRecord(lamports uint64, owner identifier.Identifier, data []byte) *account.Record {
	return &account.Record{
		Lamports: lamports,
		Owner:    owner,
		Data:     data,
	}
}
