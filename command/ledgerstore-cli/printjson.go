// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/bitmark-inc/ledgerstore/account"
	"github.com/bitmark-inc/ledgerstore/identifier"
	"github.com/bitmark-inc/ledgerstore/storage"
)

// JSON shapes written to the output; identifiers render as base58 and
// binary data as hex

type accountResult struct {
	ID         identifier.Identifier `json:"id"`
	Lamports   uint64                `json:"lamports"`
	Owner      identifier.Identifier `json:"owner"`
	Executable bool                  `json:"executable"`
	RentEpoch  uint64                `json:"rentEpoch"`
	DataLength int                   `json:"dataLength"`
	Data       string                `json:"data"`
}

type programResult struct {
	ID     identifier.Identifier `json:"id"`
	Length int                   `json:"length"`
	Output string                `json:"output,omitempty"`
	Data   string                `json:"data,omitempty"`
}

type listResult struct {
	Accounts []*accountResult `json:"accounts"`
	Next     string           `json:"next,omitempty"`
}

type checkpointResult struct {
	Path     string    `json:"path"`
	Entries  uint64    `json:"entries"`
	Digest   string    `json:"digest"`
	Created  time.Time `json:"created"`
	Verified bool      `json:"verified,omitempty"`
}

func makeAccountResult(id identifier.Identifier, record *account.Record) *accountResult {
	return &accountResult{
		ID:         id,
		Lamports:   record.Lamports,
		Owner:      record.Owner,
		Executable: record.Executable,
		RentEpoch:  record.RentEpoch,
		DataLength: len(record.Data),
		Data:       hex.EncodeToString(record.Data),
	}
}

// data is only included when it is not written to a file
func makeProgramResult(id identifier.Identifier, data []byte, output string) *programResult {
	result := &programResult{
		ID:     id,
		Length: len(data),
		Output: output,
	}
	if "" == output {
		result.Data = hex.EncodeToString(data)
	}
	return result
}

// elements beyond count only supply the start of the next page
func makeListResult(elements []storage.Element, count int) (*listResult, error) {
	result := &listResult{
		Accounts: make([]*accountResult, 0, len(elements)),
	}
	for i, e := range elements {
		if i == count {
			result.Next = e.Key.ID().String()
			break
		}
		record, err := account.Packed(e.Value).Unpack()
		if nil != err {
			return nil, err
		}
		result.Accounts = append(result.Accounts, makeAccountResult(e.Key.ID(), record))
	}
	return result, nil
}

func makeCheckpointResult(info *storage.CheckpointInfo) *checkpointResult {
	return &checkpointResult{
		Path:    info.Path,
		Entries: info.Entries,
		Digest:  info.DigestString(),
		Created: info.Created,
	}
}

func printJson(handle io.Writer, message interface{}) error {

	b, err := json.MarshalIndent(message, "", "  ")
	if nil != err {
		return err
	}

	_, err = fmt.Fprintf(handle, "%s\n", b)
	return err
}
