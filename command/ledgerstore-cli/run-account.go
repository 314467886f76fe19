// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/ledgerstore/account"
	"github.com/bitmark-inc/ledgerstore/storage"
)

func runAccount(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	if c.NArg() > 1 {
		return ErrTooManyArguments
	}
	id, err := checkIdentifier(c.Args().First())
	if nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "database: %s\n", m.config.Database)
		fmt.Fprintf(m.e, "account: %s\n", id)
	}

	store, err := storage.OpenReadOnly(m.config.Database)
	if nil != err {
		return err
	}
	defer store.Close()

	record, err := store.GetAccount(id)
	if nil != err {
		return err
	}
	if nil == record {
		return ErrRecordNotFound
	}

	return printJson(m.w, makeAccountResult(id, record))
}

func runSetAccount(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	if c.NArg() > 1 {
		return ErrTooManyArguments
	}
	id, err := checkIdentifier(c.Args().First())
	if nil != err {
		return err
	}
	owner, err := checkOwner(c.String("owner"))
	if nil != err {
		return err
	}
	data, err := checkDataHex(c.String("data-hex"))
	if nil != err {
		return err
	}

	record := &account.Record{
		Lamports:   c.Uint64("lamports"),
		Owner:      owner,
		Data:       data,
		Executable: c.Bool("executable"),
		RentEpoch:  c.Uint64("rent-epoch"),
	}

	if m.verbose {
		fmt.Fprintf(m.e, "database: %s\n", m.config.Database)
		fmt.Fprintf(m.e, "account: %s\n", id)
		fmt.Fprintf(m.e, "owner: %s\n", owner)
	}

	store, err := storage.Open(m.config.Database)
	if nil != err {
		return err
	}
	defer store.Close()

	err = store.PutAccount(id, record)
	if nil != err {
		return err
	}
	m.log.Infof("set account: %s  lamports: %d", id, record.Lamports)

	return printJson(m.w, makeAccountResult(id, record))
}
