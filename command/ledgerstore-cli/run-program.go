// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io/ioutil"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/ledgerstore/storage"
)

func runProgram(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	if c.NArg() > 1 {
		return ErrTooManyArguments
	}
	id, err := checkIdentifier(c.Args().First())
	if nil != err {
		return err
	}
	output := c.String("output")

	if m.verbose {
		fmt.Fprintf(m.e, "database: %s\n", m.config.Database)
		fmt.Fprintf(m.e, "program: %s\n", id)
	}

	store, err := storage.OpenReadOnly(m.config.Database)
	if nil != err {
		return err
	}
	defer store.Close()

	data, err := store.GetProgramData(id)
	if nil != err {
		return err
	}
	if nil == data {
		return ErrRecordNotFound
	}

	if "" != output {
		err = ioutil.WriteFile(output, data, 0644)
		if nil != err {
			return err
		}
	}

	return printJson(m.w, makeProgramResult(id, data, output))
}

func runSetProgram(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	if c.NArg() > 2 {
		return ErrTooManyArguments
	}
	id, err := checkIdentifier(c.Args().Get(0))
	if nil != err {
		return err
	}
	fileName, err := checkFileName(c.Args().Get(1))
	if nil != err {
		return err
	}

	data, err := ioutil.ReadFile(fileName)
	if nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "database: %s\n", m.config.Database)
		fmt.Fprintf(m.e, "program: %s\n", id)
		fmt.Fprintf(m.e, "file: %s  %d bytes\n", fileName, len(data))
	}

	store, err := storage.Open(m.config.Database)
	if nil != err {
		return err
	}
	defer store.Close()

	err = store.PutProgramData(id, data)
	if nil != err {
		return err
	}
	m.log.Infof("set program: %s  from: %q  %d bytes", id, fileName, len(data))

	return printJson(m.w, &programResult{
		ID:     id,
		Length: len(data),
	})
}
