// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/ledgerstore/account"
	"github.com/bitmark-inc/ledgerstore/fault"
	"github.com/bitmark-inc/ledgerstore/storage/mocks"
)

func TestBatchStagesPhysicalKey(t *testing.T) {
	store, teardown := openTestStore(t)
	defer teardown()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	mc := mocks.NewMockCache(ctl)

	id := testID(1)
	record := &account.Record{Lamports: 5, Owner: testID(2)}
	packed, err := record.Pack()
	assert.Nil(t, err, "pack error")

	physicalKey := append([]byte{'A', 0x01}, id[:]...)

	gomock.InOrder(
		mc.EXPECT().Set(string(physicalKey), []byte(packed)).Times(1),
		mc.EXPECT().Clear().Times(1),
	)

	b := newBatch(store, mc)
	assert.Nil(t, b.PutAccount(id, record), "put error")
	assert.Equal(t, 1, b.Len(), "staged writes")
	assert.Nil(t, b.Commit(), "commit error")

	actual, err := store.GetAccount(id)
	assert.Nil(t, err, "get error")
	assert.True(t, record.Equal(actual), "record: %+v  expected: %+v", actual, record)
}

func TestBatchReadsStagedValueFirst(t *testing.T) {
	store, teardown := openTestStore(t)
	defer teardown()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	mc := mocks.NewMockCache(ctl)

	id := testID(3)
	staged := &account.Record{Lamports: 99, Owner: testID(4)}
	packed, _ := staged.Pack()

	physicalKey := string(append([]byte{'A', 0x01}, id[:]...))
	mc.EXPECT().Get(physicalKey).Return([]byte(packed), true).Times(1)
	mc.EXPECT().Clear().Times(1)

	b := newBatch(store, mc)
	actual, err := b.GetAccount(id)
	assert.Nil(t, err, "get error")
	assert.True(t, staged.Equal(actual), "record: %+v  expected: %+v", actual, staged)

	b.Abort()
}

func TestBatchFallsBackToStore(t *testing.T) {
	store, teardown := openTestStore(t)
	defer teardown()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	mc := mocks.NewMockCache(ctl)

	id := testID(5)
	data := []byte("stored program")
	assert.Nil(t, store.PutProgramData(id, data), "put error")

	physicalKey := string(append([]byte{'P', 0x02}, id[:]...))
	mc.EXPECT().Get(physicalKey).Return(nil, false).Times(1)
	mc.EXPECT().Clear().Times(1)

	b := newBatch(store, mc)
	actual, err := b.GetProgramData(id)
	assert.Nil(t, err, "get error")
	assert.Equal(t, data, actual, "program data")

	// an empty batch commits without touching the engine
	assert.Nil(t, b.Commit(), "commit error")
}

func TestBatchAbortDiscards(t *testing.T) {
	store, teardown := openTestStore(t)
	defer teardown()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	mc := mocks.NewMockCache(ctl)
	mc.EXPECT().Set(gomock.Any(), gomock.Any()).Times(2)
	mc.EXPECT().Clear().Times(1)

	b := newBatch(store, mc)
	assert.Nil(t, b.PutProgramData(testID(6), []byte{1}), "put program data")
	assert.Nil(t, b.PutAccount(testID(6), &account.Record{Lamports: 6}), "put account")

	b.Abort()
	b.Abort()

	data, err := store.GetProgramData(testID(6))
	assert.Nil(t, err, "get program data")
	assert.Nil(t, data, "aborted program data stored")

	record, err := store.GetAccount(testID(6))
	assert.Nil(t, err, "get account")
	assert.Nil(t, record, "aborted account stored")
}

func TestBatchReadYourWrites(t *testing.T) {
	store, teardown := openTestStore(t)
	defer teardown()

	id := testID(7)
	first := &account.Record{Lamports: 1, Owner: testID(8)}
	second := &account.Record{Lamports: 2, Owner: testID(8), Data: []byte{2}}

	b := store.NewBatch()
	assert.Nil(t, b.PutAccount(id, first), "first put")
	assert.Nil(t, b.PutAccount(id, second), "second put")
	assert.Equal(t, 2, b.Len(), "staged writes")

	actual, err := b.GetAccount(id)
	assert.Nil(t, err, "batch get")
	assert.True(t, second.Equal(actual), "record: %+v  expected: %+v", actual, second)

	// not visible before commit
	outside, err := store.GetAccount(id)
	assert.Nil(t, err, "store get before commit")
	assert.Nil(t, outside, "staged write visible before commit")

	assert.Nil(t, b.Commit(), "commit error")

	outside, err = store.GetAccount(id)
	assert.Nil(t, err, "store get after commit")
	assert.True(t, second.Equal(outside), "record: %+v  expected: %+v", outside, second)
}

func TestBatchCopiesProgramData(t *testing.T) {
	store, teardown := openTestStore(t)
	defer teardown()

	id := testID(9)
	data := []byte{1, 2, 3}

	b := store.NewBatch()
	assert.Nil(t, b.PutProgramData(id, data), "put error")
	data[0] = 0xff

	staged, err := b.GetProgramData(id)
	assert.Nil(t, err, "get error")
	assert.Equal(t, []byte{1, 2, 3}, staged, "staged value changed by caller")

	staged[1] = 0xff
	again, _ := b.GetProgramData(id)
	assert.Equal(t, []byte{1, 2, 3}, again, "staged value changed by reader")

	assert.Nil(t, b.Commit(), "commit error")

	stored, err := store.GetProgramData(id)
	assert.Nil(t, err, "store get")
	assert.Equal(t, []byte{1, 2, 3}, stored, "stored value")
}

func TestBatchFinished(t *testing.T) {
	store, teardown := openTestStore(t)
	defer teardown()

	b := store.NewBatch()
	assert.Nil(t, b.PutProgramData(testID(10), []byte{10}), "put error")
	assert.Nil(t, b.Commit(), "commit error")

	assert.Equal(t, fault.ErrBatchFinished, b.Commit(), "second commit")
	assert.Equal(t, fault.ErrBatchFinished, b.PutProgramData(testID(11), nil), "put after commit")
	_, err := b.GetAccount(testID(10))
	assert.Equal(t, fault.ErrBatchFinished, err, "get after commit")
	assert.Equal(t, 0, b.Len(), "staged writes after commit")
}

func TestBatchCommitOnClosedHandle(t *testing.T) {
	store, teardown := openTestStore(t)
	defer teardown()

	clone := store.Clone()
	b := clone.NewBatch()
	assert.Nil(t, b.PutProgramData(testID(12), []byte{12}), "put error")
	assert.Nil(t, clone.Close(), "close clone")

	err := b.Commit()
	assert.True(t, fault.IsErrEngine(err), "expected engine error, got: %v", err)
	assert.Equal(t, fault.ErrBatchFinished, b.Commit(), "commit after failure")

	data, err := store.GetProgramData(testID(12))
	assert.Nil(t, err, "get error")
	assert.Nil(t, data, "failed commit stored data")
}

func TestBatchTooLongRecord(t *testing.T) {
	store, teardown := openTestStore(t)
	defer teardown()

	b := store.NewBatch()
	err := b.PutAccount(testID(13), &account.Record{Data: make([]byte, account.MaxDataLength+1)})
	assert.True(t, fault.IsErrSerialization(err), "expected serialization error, got: %v", err)
	assert.Equal(t, 0, b.Len(), "rejected record staged")
	b.Abort()
}

func TestPrefixKeyWrongKind(t *testing.T) {
	store, teardown := openTestStore(t)
	defer teardown()

	assert.Panics(t, func() {
		store.shared.namespaces.Accounts.prefixKey(ProgramDataKey(testID(1)))
	}, "program data key in accounts namespace")
}
