// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/hex"
	"hash"
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"
	"golang.org/x/crypto/sha3"
	"golang.org/x/sync/errgroup"

	"github.com/bitmark-inc/ledgerstore/fault"
	"github.com/bitmark-inc/ledgerstore/util"
	"github.com/bitmark-inc/logger"
)

// present only in checkpoints, never copied from the source
var checkpointKey = []byte{0x00, 'C', 'H', 'E', 'C', 'K', 'P', 'O', 'I', 'N', 'T'}

const (
	checkpointBatchSize = 1024
	digestLength        = 32
	checkpointInfoSize  = 8 + digestLength + 8
)

// CheckpointInfo - summary recorded in a checkpoint
type CheckpointInfo struct {
	Path    string             `json:"path"`
	Entries uint64             `json:"entries"`
	Digest  [digestLength]byte `json:"-"`
	Created time.Time          `json:"created"`
}

// DigestString - hex form of the content digest
func (info *CheckpointInfo) DigestString() string {
	return hex.EncodeToString(info.Digest[:])
}

// CreateCheckpoint - copy the committed state into a new database
//
// the copy is read from an engine snapshot, so writers are not blocked
// and the checkpoint holds the state at the moment of the call; path
// must not already contain a database
func (s *Store) CreateCheckpoint(path string) (*CheckpointInfo, error) {
	d, err := s.database("checkpoint")
	if nil != err {
		return nil, err
	}

	if util.EnsureFileExists(filepath.Join(path, "CURRENT")) {
		return nil, fault.NewEngineError("checkpoint", fault.ErrCheckpointExists)
	}

	snapshot, err := d.db.GetSnapshot()
	if nil != err {
		d.log.Errorf("checkpoint: %q  snapshot error: %s", path, err)
		return nil, fault.NewEngineError("checkpoint", err)
	}
	defer snapshot.Release()

	return d.writeCheckpoint(path, snapshot.NewIterator(nil, nil))
}

// copy the iterated entries into a new database at path
//
// on failure everything this call created under path is removed so the
// same path can be used again
func (d *database) writeCheckpoint(path string, iter iterator.Iterator) (*CheckpointInfo, error) {
	existing, err := directoryEntries(path)
	if nil != err {
		iter.Release()
		d.log.Errorf("checkpoint: %q  read directory error: %s", path, err)
		return nil, fault.NewEngineError("checkpoint", err)
	}

	options := engineOptions(ReadWrite)
	options.ErrorIfExist = true
	destination, err := leveldb.OpenFile(path, options)
	if nil != err {
		iter.Release()
		d.log.Errorf("checkpoint: %q  open error: %s", path, err)
		removeCreated(path, existing, d.log)
		return nil, fault.NewEngineError("checkpoint", err)
	}

	start := time.Now()
	info, err := copySnapshot(iter, destination, d.log)
	if nil == err {
		info.Path = path
		err = destination.Put(checkpointKey, info.pack(), &ldb_opt.WriteOptions{Sync: true})
	}
	if closeErr := destination.Close(); nil == err {
		err = closeErr
	}
	if nil != err {
		d.log.Errorf("checkpoint: %q  error: %s", path, err)
		removeCreated(path, existing, d.log)
		return nil, fault.NewEngineError("checkpoint", err)
	}

	d.log.Infof("checkpoint: %q  entries: %d  digest: %s  elapsed: %s", path, info.Entries, info.DigestString(), time.Since(start))
	return info, nil
}

// names already present in a directory, nil if it does not exist
func directoryEntries(path string) (map[string]struct{}, error) {
	files, err := ioutil.ReadDir(path)
	if os.IsNotExist(err) {
		return nil, nil
	} else if nil != err {
		return nil, err
	}
	names := make(map[string]struct{}, len(files))
	for _, f := range files {
		names[f.Name()] = struct{}{}
	}
	return names, nil
}

// remove the directory if it was created, otherwise only the new entries
func removeCreated(path string, existing map[string]struct{}, log *logger.L) {
	if nil == existing {
		if err := os.RemoveAll(path); nil != err {
			log.Errorf("checkpoint: %q  remove error: %s", path, err)
		}
		return
	}

	files, err := ioutil.ReadDir(path)
	if nil != err {
		log.Errorf("checkpoint: %q  read directory error: %s", path, err)
		return
	}
	for _, f := range files {
		if _, ok := existing[f.Name()]; ok {
			continue
		}
		if err := os.RemoveAll(filepath.Join(path, f.Name())); nil != err {
			log.Errorf("checkpoint: %q  remove error: %s", path, err)
		}
	}
}

// VerifyCheckpoint - recompute the digest of a checkpoint and compare it
// with the recorded one
func VerifyCheckpoint(path string) (*CheckpointInfo, error) {
	log := logger.New("storage")

	db, err := leveldb.OpenFile(path, engineOptions(ReadOnly))
	if nil != err {
		return nil, fault.NewEngineError("verify checkpoint", err)
	}
	defer db.Close()

	buffer, err := db.Get(checkpointKey, nil)
	if leveldb.ErrNotFound == err {
		return nil, fault.ErrMissingCheckpointInfo
	} else if nil != err {
		return nil, fault.NewEngineError("verify checkpoint", err)
	}
	recorded, err := unpackCheckpointInfo(buffer)
	if nil != err {
		return nil, err
	}
	recorded.Path = path

	iter := db.NewIterator(nil, nil)
	defer iter.Release()

	digest := sha3.New256()
	entries := uint64(0)
	for iter.Next() {
		if bytes.Equal(checkpointKey, iter.Key()) {
			continue
		}
		addToDigest(digest, iter.Key(), iter.Value())
		entries += 1
	}
	if err := iter.Error(); nil != err {
		return nil, fault.NewEngineError("verify checkpoint", err)
	}

	actual := [digestLength]byte{}
	copy(actual[:], digest.Sum(nil))
	if actual != recorded.Digest || entries != recorded.Entries {
		log.Errorf("checkpoint: %q  digest: %x  expected: %x  entries: %d  expected: %d", path, actual, recorded.Digest, entries, recorded.Entries)
		return recorded, fault.ErrCheckpointDigest
	}

	log.Infof("checkpoint: %q  verified entries: %d", path, entries)
	return recorded, nil
}

// copySnapshot - stream snapshot entries in key order into batches that
// are written by one worker per processor
func copySnapshot(iter iterator.Iterator, destination *leveldb.DB, log *logger.L) (*CheckpointInfo, error) {
	defer iter.Release()

	info := &CheckpointInfo{
		Created: time.Now().UTC(),
	}
	digest := sha3.New256()

	g, ctx := errgroup.WithContext(context.Background())
	batches := make(chan *leveldb.Batch, scaledCPUs())

	for i := 0; i < scaledCPUs(); i += 1 {
		g.Go(func() error {
			for batch := range batches {
				if err := destination.Write(batch, nil); nil != err {
					return err
				}
			}
			return nil
		})
	}

	g.Go(func() error {
		defer close(batches)

		batch := new(leveldb.Batch)
		for iter.Next() {
			if bytes.Equal(checkpointKey, iter.Key()) {
				continue
			}

			// Put copies key and value
			batch.Put(iter.Key(), iter.Value())
			addToDigest(digest, iter.Key(), iter.Value())
			info.Entries += 1

			if batch.Len() >= checkpointBatchSize {
				select {
				case batches <- batch:
				case <-ctx.Done():
					return ctx.Err()
				}
				batch = new(leveldb.Batch)
			}
		}
		if err := iter.Error(); nil != err {
			return err
		}
		if batch.Len() > 0 {
			select {
			case batches <- batch:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	if err := g.Wait(); nil != err {
		return nil, err
	}

	copy(info.Digest[:], digest.Sum(nil))
	log.Debugf("checkpoint copied entries: %d", info.Entries)
	return info, nil
}

// unambiguous: each part is preceded by its length
func addToDigest(digest hash.Hash, key []byte, value []byte) {
	digest.Write(util.ToVarint64(uint64(len(key))))
	digest.Write(key)
	digest.Write(util.ToVarint64(uint64(len(value))))
	digest.Write(value)
}

// entries ++ digest ++ created
func (info *CheckpointInfo) pack() []byte {
	buffer := make([]byte, checkpointInfoSize)
	binary.BigEndian.PutUint64(buffer[:8], info.Entries)
	copy(buffer[8:8+digestLength], info.Digest[:])
	binary.BigEndian.PutUint64(buffer[8+digestLength:], uint64(info.Created.UnixNano()))
	return buffer
}

func unpackCheckpointInfo(buffer []byte) (*CheckpointInfo, error) {
	if checkpointInfoSize != len(buffer) {
		return nil, fault.NewSerializationError("checkpoint info", fault.ErrTruncatedRecord)
	}
	info := &CheckpointInfo{
		Entries: binary.BigEndian.Uint64(buffer[:8]),
		Created: time.Unix(0, int64(binary.BigEndian.Uint64(buffer[8+digestLength:]))).UTC(),
	}
	copy(info.Digest[:], buffer[8:8+digestLength])
	return info, nil
}
