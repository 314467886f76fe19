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

func runList(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	count := c.Int("count")
	if count <= 0 {
		return fmt.Errorf("invalid count: %d", count)
	}

	start := c.String("start")

	if m.verbose {
		fmt.Fprintf(m.e, "database: %s\n", m.config.Database)
		fmt.Fprintf(m.e, "start: %s\n", start)
		fmt.Fprintf(m.e, "count: %d\n", count)
	}

	store, err := storage.OpenReadOnly(m.config.Database)
	if nil != err {
		return err
	}
	defer store.Close()

	accounts, err := store.Accounts()
	if nil != err {
		return err
	}

	cursor := accounts.NewFetchCursor()
	if "" != start {
		id, err := checkIdentifier(start)
		if nil != err {
			return err
		}
		cursor.Seek(id)
	}

	// one extra to find the start of the next page
	elements, err := cursor.Fetch(count + 1)
	if nil != err {
		return err
	}

	result, err := makeListResult(elements, count)
	if nil != err {
		return err
	}

	return printJson(m.w, result)
}
