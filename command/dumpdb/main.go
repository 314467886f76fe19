// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"strconv"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ledgerstore/account"
	"github.com/bitmark-inc/ledgerstore/identifier"
	"github.com/bitmark-inc/ledgerstore/storage"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// colours
const (
	keyColour = "\033[1;36m"
	valColour = "\033[1;33m"
	endColour = "\033[0m"
)

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "colour", HasArg: getoptions.NO_ARGUMENT, Short: 'g'},
		{Long: "decode", HasArg: getoptions.NO_ARGUMENT, Short: 'd'},
		{Long: "file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'f'},
		{Long: "count", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		exitwithstatus.Message("%s: version: %s", program, version)
	}

	if len(options["help"]) > 0 || 0 == len(arguments) || 1 != len(options["file"]) {
		exitwithstatus.Message("usage: %s [--help] [--verbose] [--colour] [--decode] [--count=N] --file=DIR namespace [start-identifier]", program)
	}

	colour := len(options["colour"]) > 0
	decode := len(options["decode"]) > 0
	verbose := len(options["verbose"]) > 0

	count := 10
	if len(options["count"]) > 0 {
		count, err = strconv.Atoi(options["count"][0])
		if nil != err {
			exitwithstatus.Message("%s: convert count error: %s", program, err)
		}
		if count < 1 {
			exitwithstatus.Message("%s: invalid count: %d", program, count)
		}
	}

	filename := options["file"][0]
	name := arguments[0]
	if verbose {
		fmt.Printf("read namespace: %s from: %q\n", name, filename)
	}

	start := (*identifier.Identifier)(nil)
	if len(arguments) > 1 {
		id, err := identifier.FromBase58(arguments[1])
		if nil != err {
			exitwithstatus.Message("%s: start identifier: %q  error: %s", program, arguments[1], err)
		}
		start = &id
	}

	logging := logger.Configuration{
		Directory: ".",
		File:      "dumpdb.log",
		Size:      1048576,
		Count:     10,
		Console:   true,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}

	// start logging
	if err = logger.Initialise(logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	// start of main processing
	store, err := storage.OpenReadOnly(filename)
	if nil != err {
		exitwithstatus.Message("%s: storage setup failed with error: %s", program, err)
	}
	defer store.Close()

	ns, err := store.Namespace(name)
	if nil != err {
		all, _ := store.Namespaces()
		names := ""
		for _, n := range all {
			names += fmt.Sprintf("\n  %c → %s", n.Prefix(), n.Name())
		}
		exitwithstatus.Message("%s: no namespace corresponding to: %q\navailable:%s", program, name, names)
	}

	cursor := ns.NewFetchCursor()
	if nil != start {
		cursor.Seek(*start)
	}

	data, err := cursor.Fetch(count)
	if nil != err {
		exitwithstatus.Message("%s: error on Fetch: %s", program, err)
	}

	ck := ""
	cv := ""
	ce := ""
	if colour {
		ck = keyColour
		cv = valColour
		ce = endColour
	}

	for i, e := range data {
		fmt.Printf("%d: %sKey: %x%s  %s\n", i, ck, e.Key.Bytes(), ce, e.Key.ID())
		if decode && storage.AccountKind == e.Key.Kind() {
			record, err := account.Packed(e.Value).Unpack()
			if nil != err {
				fmt.Printf("%d: %sVal: %x%s  error: %s\n", i, cv, e.Value, ce, err)
				continue
			}
			fmt.Printf("%d: %sVal: lamports: %d  owner: %s  executable: %t  rent epoch: %d  data: %x%s\n",
				i, cv, record.Lamports, record.Owner, record.Executable, record.RentEpoch, record.Data, ce)
			continue
		}
		fmt.Printf("%d: %sVal: %x%s\n", i, cv, e.Value, ce)
	}
}
