// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/bitmark-inc/ledgerstore/fault"
)

// create an initialised database then replace one metadata record
func rewriteMetadata(t *testing.T, key []byte, value []byte) (string, func()) {
	dir, err := ioutil.TempDir("", "storage-setup")
	if nil != err {
		t.Fatalf("temporary directory error: %s", err)
	}
	cleanup := func() {
		_ = os.RemoveAll(dir)
	}
	path := filepath.Join(dir, "ledger.leveldb")

	store, err := Open(path)
	if nil != err {
		cleanup()
		t.Fatalf("storage open error: %s", err)
	}
	_ = store.Close()

	db, err := leveldb.OpenFile(path, nil)
	if nil != err {
		cleanup()
		t.Fatalf("leveldb open error: %s", err)
	}
	if nil == value {
		err = db.Delete(key, nil)
	} else {
		err = db.Put(key, value, nil)
	}
	db.Close()
	if nil != err {
		cleanup()
		t.Fatalf("metadata write error: %s", err)
	}
	return path, cleanup
}

func TestFreshDatabaseMetadata(t *testing.T) {
	store, teardown := openTestStore(t)
	defer teardown()

	db := store.shared.db

	version, err := db.Get(versionKey, nil)
	assert.Nil(t, err, "version read")
	assert.Equal(t, []byte{0x00, 0x00, 0x01, 0x00}, version, "version record")

	l, err := readLayout(db)
	assert.Nil(t, err, "layout read")
	assert.Equal(t, layout{{name: "accounts", prefix: 'A'}, {name: "program_data", prefix: 'P'}}, l, "layout")

	ns := store.shared.namespaces
	assert.Equal(t, []byte{'B'}, ns.Accounts.limit, "accounts range limit")
	assert.Equal(t, []byte{'Q'}, ns.ProgramData.limit, "program data range limit")
	assert.Equal(t, AccountKind, ns.Accounts.kind, "accounts key kind")
	assert.Equal(t, ProgramDataKind, ns.ProgramData.kind, "program data key kind")
}

func TestLayoutPack(t *testing.T) {
	l := layout{{name: "accounts", prefix: 'A'}, {name: "program_data", prefix: 'P'}}
	expected := append(append([]byte{8}, "accounts"...), 'A')
	expected = append(append(append(expected, 12), "program_data"...), 'P')
	assert.Equal(t, expected, l.pack(), "packed layout")

	p, ok := l.prefixOf("program_data")
	assert.True(t, ok, "prefix found")
	assert.Equal(t, byte('P'), p, "prefix")

	n, ok := l.nameOf('A')
	assert.True(t, ok, "name found")
	assert.Equal(t, "accounts", n, "name")

	_, ok = l.nameOf('Z')
	assert.False(t, ok, "unknown prefix found")
}

func TestLayoutMovedNamespace(t *testing.T) {
	moved := layout{{name: "accounts", prefix: 'B'}, {name: "program_data", prefix: 'P'}}
	path, cleanup := rewriteMetadata(t, namespacesKey, moved.pack())
	defer cleanup()

	store, err := Open(path)
	assert.Nil(t, store, "store returned")
	assert.True(t, fault.IsErrEngine(err), "expected engine error, got: %v", err)
	assert.True(t, errors.Is(err, fault.ErrNamespaceMismatch), "expected mismatch, got: %v", err)
}

func TestLayoutPrefixTaken(t *testing.T) {
	taken := layout{{name: "blocks", prefix: 'A'}}
	path, cleanup := rewriteMetadata(t, namespacesKey, taken.pack())
	defer cleanup()

	_, err := Open(path)
	assert.True(t, fault.IsErrEngine(err), "expected engine error, got: %v", err)
	assert.True(t, errors.Is(err, fault.ErrNamespaceMismatch), "expected mismatch, got: %v", err)
}

func TestLayoutTruncated(t *testing.T) {
	path, cleanup := rewriteMetadata(t, namespacesKey, []byte{8, 'a', 'c'})
	defer cleanup()

	_, err := Open(path)
	assert.True(t, fault.IsErrEngine(err), "expected engine error, got: %v", err)
	assert.True(t, errors.Is(err, fault.ErrTruncatedRecord), "expected truncated, got: %v", err)
}

func TestMissingNamespaceReadOnly(t *testing.T) {
	partial := layout{{name: "accounts", prefix: 'A'}}
	path, cleanup := rewriteMetadata(t, namespacesKey, partial.pack())
	defer cleanup()

	_, err := OpenReadOnly(path)
	assert.True(t, fault.IsErrEngine(err), "expected engine error, got: %v", err)
	assert.True(t, errors.Is(err, fault.ErrDatabaseNotInitialised), "expected not initialised, got: %v", err)

	// a writable open adds the missing namespace
	store, err := Open(path)
	if !assert.Nil(t, err, "writable open") {
		return
	}
	assert.Nil(t, store.Close(), "close")

	store, err = OpenReadOnly(path)
	if !assert.Nil(t, err, "read only open after repair") {
		return
	}
	defer store.Close()

	l, err := readLayout(store.shared.db)
	assert.Nil(t, err, "layout read")
	assert.Equal(t, layout{{name: "accounts", prefix: 'A'}, {name: "program_data", prefix: 'P'}}, l, "repaired layout")
}

func TestNewerVersionRefused(t *testing.T) {
	path, cleanup := rewriteMetadata(t, versionKey, packVersion(currentDBVersion+1))
	defer cleanup()

	store, err := Open(path)
	assert.Nil(t, store, "store returned")
	assert.True(t, fault.IsErrEngine(err), "expected engine error, got: %v", err)

	// the refused open must not hold the engine lock
	db, err := leveldb.OpenFile(path, nil)
	if assert.Nil(t, err, "lock still held") {
		db.Close()
	}
}

func TestBadVersionLength(t *testing.T) {
	path, cleanup := rewriteMetadata(t, versionKey, []byte{0x01, 0x00})
	defer cleanup()

	_, err := Open(path)
	assert.True(t, fault.IsErrEngine(err), "expected engine error, got: %v", err)
}

func TestEngineOptions(t *testing.T) {
	cpus := scaledCPUs()
	assert.True(t, cpus >= 1 && cpus <= maximumScaledCPUs, "scaled processors: %d", cpus)

	options := engineOptions(ReadWrite)
	assert.Equal(t, ldb_opt.SnappyCompression, options.Compression, "compression")
	assert.Equal(t, maximumOpenFiles, options.OpenFilesCacheCapacity, "open files")
	assert.Equal(t, cpus*blockCachePerCPU, options.BlockCacheCapacity, "block cache")
	assert.Equal(t, cpus*writeBufferPerCPU, options.WriteBuffer, "write buffer")
	assert.NotNil(t, options.Filter, "bloom filter")
	assert.False(t, options.ReadOnly, "writable")
	assert.False(t, options.ErrorIfMissing, "create if missing")

	options = engineOptions(ReadOnly)
	assert.True(t, options.ReadOnly, "read only")
	assert.True(t, options.ErrorIfMissing, "must exist")
}

func TestCheckpointInfoPack(t *testing.T) {
	info := &CheckpointInfo{
		Entries: 12345,
	}
	for i := range info.Digest {
		info.Digest[i] = byte(i)
	}

	buffer := info.pack()
	assert.Equal(t, checkpointInfoSize, len(buffer), "packed size")

	unpacked, err := unpackCheckpointInfo(buffer)
	assert.Nil(t, err, "unpack error")
	assert.Equal(t, info.Entries, unpacked.Entries, "entries")
	assert.Equal(t, info.Digest, unpacked.Digest, "digest")

	_, err = unpackCheckpointInfo(buffer[1:])
	assert.True(t, fault.IsErrSerialization(err), "expected serialization error, got: %v", err)
}
