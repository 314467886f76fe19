// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
	"fmt"
	"reflect"
	"runtime"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/bitmark-inc/ledgerstore/fault"
	"github.com/bitmark-inc/ledgerstore/util"
	"github.com/bitmark-inc/logger"
)

// namespaces - the logical partitions of the database
//
// note all must be exported (i.e. initial capital) or initialisation will panic
type namespaces struct {
	Accounts    *Namespace `namespace:"accounts" prefix:"A" key:"account"`
	ProgramData *Namespace `namespace:"program_data" prefix:"P" key:"program_data"`
}

// metadata records, all under the reserved 0x00 prefix
var (
	versionKey    = []byte{0x00, 'V', 'E', 'R', 'S', 'I', 'O', 'N'}
	namespacesKey = []byte{0x00, 'N', 'A', 'M', 'E', 'S', 'P', 'A', 'C', 'E', 'S'}
)

const (
	currentDBVersion = 0x100

	metadataPrefix = 0x00
)

// engine tuning, not caller adjustable
const (
	maximumOpenFiles  = 1024
	bloomFilterBits   = 10
	blockCachePerCPU  = 8 * ldb_opt.MiB
	writeBufferPerCPU = 4 * ldb_opt.MiB
	maximumScaledCPUs = 16
)

// database access modes
const (
	ReadOnly  = true
	ReadWrite = false
)

// Open - open or create the database in a directory
func Open(path string) (*Store, error) {
	return open(path, ReadWrite)
}

// OpenReadOnly - open an existing, initialised database without write access
func OpenReadOnly(path string) (*Store, error) {
	return open(path, ReadOnly)
}

func open(path string, readOnly bool) (*Store, error) {
	log := logger.New("storage")

	db, version, err := getDB(path, engineOptions(readOnly))
	if nil != err {
		log.Errorf("open database: %q  error: %s", path, err)
		return nil, fault.NewEngineError("open", err)
	}

	ok := false
	defer func() {
		if !ok {
			db.Close()
		}
	}()

	// ensure no database downgrade
	if version > currentDBVersion {
		log.Criticalf("database version: %d > current version: %d", version, currentDBVersion)
		return nil, fault.NewEngineError("open", fmt.Errorf("database version: %d > current version: %d", version, currentDBVersion))
	}

	if 0 == version && readOnly {
		return nil, fault.NewEngineError("open", fault.ErrDatabaseNotInitialised)
	}

	ns, err := setupNamespaces(db, version, readOnly)
	if nil != err {
		log.Errorf("namespace setup: %q  error: %s", path, err)
		return nil, fault.NewEngineError("open", err)
	}

	log.Infof("opened database: %q  version: %d  read only: %v", path, currentDBVersion, readOnly)

	ok = true // prevent db close
	return newStore(&database{
		db:         db,
		path:       path,
		readOnly:   readOnly,
		namespaces: ns,
		log:        log,
	}), nil
}

// engineOptions - block compression, bounded open files, and caches
// scaled by the number of processors
func engineOptions(readOnly bool) *ldb_opt.Options {
	cpus := scaledCPUs()
	return &ldb_opt.Options{
		BlockCacheCapacity:     cpus * blockCachePerCPU,
		Compression:            ldb_opt.SnappyCompression,
		ErrorIfExist:           false,
		ErrorIfMissing:         readOnly,
		Filter:                 filter.NewBloomFilter(bloomFilterBits),
		OpenFilesCacheCapacity: maximumOpenFiles,
		ReadOnly:               readOnly,
		WriteBuffer:            cpus * writeBufferPerCPU,
	}
}

func scaledCPUs() int {
	cpus := runtime.NumCPU()
	if cpus > maximumScaledCPUs {
		return maximumScaledCPUs
	}
	if cpus < 1 {
		return 1
	}
	return cpus
}

// return:
//
//	database handle
//	version number, zero for an empty database
func getDB(name string, options *ldb_opt.Options) (*leveldb.DB, int, error) {
	db, err := leveldb.OpenFile(name, options)
	if nil != err {
		return nil, 0, err
	}

	versionValue, err := db.Get(versionKey, nil)
	if leveldb.ErrNotFound == err {
		return db, 0, nil
	} else if nil != err {
		db.Close()
		return nil, 0, err
	}

	if 4 != len(versionValue) {
		db.Close()
		return nil, 0, fmt.Errorf("incompatible database version length: expected: %d  actual: %d", 4, len(versionValue))
	}

	version := int(binary.BigEndian.Uint32(versionValue))
	return db, version, nil
}

// setupNamespaces - bind every namespace of the table to the database
//
// the name → prefix layout is persisted on first open and must agree on
// every later open; missing namespaces are created unless read only
func setupNamespaces(db *leveldb.DB, version int, readOnly bool) (namespaces, error) {
	ns := namespaces{}

	persisted, err := readLayout(db)
	if nil != err {
		return ns, err
	}

	// this will be a struct type
	nsType := reflect.TypeOf(ns)

	// get write access by using pointer + Elem()
	nsValue := reflect.ValueOf(&ns).Elem()

	changed := false

	// scan each field
	for i := 0; i < nsType.NumField(); i += 1 {

		fieldInfo := nsType.Field(i)

		name := fieldInfo.Tag.Get("namespace")
		if "" == name {
			fault.Panicf("namespace: %v has no name", fieldInfo.Name)
		}

		prefixTag := fieldInfo.Tag.Get("prefix")
		if 1 != len(prefixTag) || metadataPrefix == prefixTag[0] {
			fault.Panicf("namespace: %s has invalid prefix: %q", name, prefixTag)
		}
		prefix := prefixTag[0]

		kind, ok := kindFromTag(fieldInfo.Tag.Get("key"))
		if !ok {
			fault.Panicf("namespace: %s has invalid key: %q", name, fieldInfo.Tag.Get("key"))
		}

		if p, ok := persisted.prefixOf(name); ok {
			if p != prefix {
				return ns, fault.ErrNamespaceMismatch
			}
		} else if n, ok := persisted.nameOf(prefix); ok {
			return ns, fmt.Errorf("%w: prefix: %q belongs to: %s", fault.ErrNamespaceMismatch, prefix, n)
		} else if readOnly {
			return ns, fault.ErrDatabaseNotInitialised
		} else {
			persisted = append(persisted, layoutEntry{name: name, prefix: prefix})
			changed = true
		}

		limit := []byte(nil)
		if prefix < 255 {
			limit = []byte{prefix + 1}
		}

		n := &Namespace{
			name:   name,
			prefix: prefix,
			limit:  limit,
			kind:   kind,
			db:     db,
		}
		nsValue.Field(i).Set(reflect.ValueOf(n))
	}

	// the store cannot run without every namespace
	for i := 0; i < nsType.NumField(); i += 1 {
		if nsValue.Field(i).IsNil() {
			fault.Panicf("namespace: %s missing after open", nsType.Field(i).Tag.Get("namespace"))
		}
	}

	if changed || 0 == version {
		batch := new(leveldb.Batch)
		batch.Put(namespacesKey, persisted.pack())
		if 0 == version {
			batch.Put(versionKey, packVersion(currentDBVersion))
		}
		err := db.Write(batch, &ldb_opt.WriteOptions{Sync: true})
		if nil != err {
			return ns, err
		}
	}

	return ns, nil
}

func packVersion(version int) []byte {
	currentVersion := make([]byte, 4)
	binary.BigEndian.PutUint32(currentVersion, uint32(version))
	return currentVersion
}

// the persisted name → prefix table
type layoutEntry struct {
	name   string
	prefix byte
}

type layout []layoutEntry

func (l layout) prefixOf(name string) (byte, bool) {
	for _, e := range l {
		if e.name == name {
			return e.prefix, true
		}
	}
	return 0, false
}

func (l layout) nameOf(prefix byte) (string, bool) {
	for _, e := range l {
		if e.prefix == prefix {
			return e.name, true
		}
	}
	return "", false
}

func (l layout) pack() []byte {
	buffer := make([]byte, 0, 32)
	for _, e := range l {
		buffer = util.AppendVarint64(buffer, uint64(len(e.name)))
		buffer = append(buffer, e.name...)
		buffer = append(buffer, e.prefix)
	}
	return buffer
}

func readLayout(db *leveldb.DB) (layout, error) {
	buffer, err := db.Get(namespacesKey, nil)
	if leveldb.ErrNotFound == err {
		return layout{}, nil
	} else if nil != err {
		return nil, err
	}

	l := layout{}
	for n := 0; n < len(buffer); {
		nameLength, count := util.ClippedVarint64(buffer[n:], 1, 255)
		if 0 == count || len(buffer[n+count:]) < nameLength+1 {
			return nil, fault.ErrTruncatedRecord
		}
		n += count
		l = append(l, layoutEntry{
			name:   string(buffer[n : n+nameLength]),
			prefix: buffer[n+nameLength],
		})
		n += nameLength + 1
	}
	return l, nil
}
