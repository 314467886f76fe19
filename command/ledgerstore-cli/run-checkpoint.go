// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/ledgerstore/storage"
)

func runCheckpoint(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	if c.NArg() > 1 {
		return ErrTooManyArguments
	}
	path, err := checkCheckpointDirectory(c.Args().First(), m.config)
	if nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "database: %s\n", m.config.Database)
		fmt.Fprintf(m.e, "checkpoint: %s\n", path)
	}

	store, err := storage.OpenReadOnly(m.config.Database)
	if nil != err {
		return err
	}
	defer store.Close()

	info, err := store.CreateCheckpoint(path)
	if nil != err {
		return err
	}

	return printJson(m.w, makeCheckpointResult(info))
}

func runVerify(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	if c.NArg() > 1 {
		return ErrTooManyArguments
	}
	path, err := checkCheckpointDirectory(c.Args().First(), m.config)
	if nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "checkpoint: %s\n", path)
	}

	info, err := storage.VerifyCheckpoint(path)
	if nil != err {
		m.log.Errorf("verify checkpoint: %q  error: %s", path, err)
		return err
	}

	result := makeCheckpointResult(info)
	result.Verified = true
	return printJson(m.w, result)
}
