// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/bitmark-inc/logger"
	"github.com/urfave/cli"

	"github.com/bitmark-inc/ledgerstore/fault"
)

type metadata struct {
	file    string
	config  *Configuration
	verbose bool
	log     *logger.L
	e       io.Writer
	w       io.Writer
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {

	app := cli.NewApp()
	app.Name = "ledgerstore-cli"
	app.Usage = "inspect and update a ledger account store"
	app.Version = version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:  "config, c",
			Value: "ledgerstore.conf",
			Usage: " Lua configuration `FILE`",
		},
		cli.StringSliceFlag{
			Name:  "define, D",
			Usage: " set a configuration variable `NAME=VALUE`",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "account",
			Usage:     "display an account record",
			ArgsUsage: "ID\n   (ID = base58 account identifier)",
			Action:    runAccount,
		},
		{
			Name:      "program",
			Usage:     "display or extract the data of a program",
			ArgsUsage: "ID\n   (ID = base58 program identifier)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "output, o",
					Value: "",
					Usage: " write the program binary to `FILE`",
				},
			},
			Action: runProgram,
		},
		{
			Name:      "set-program",
			Usage:     "store a program binary from a file",
			ArgsUsage: "ID FILE\n   (ID = base58 program identifier)",
			Action:    runSetProgram,
		},
		{
			Name:      "set-account",
			Usage:     "store an account record, replacing any previous one",
			ArgsUsage: "ID\n   (* = required)",
			Flags: []cli.Flag{
				cli.Uint64Flag{
					Name:  "lamports, l",
					Value: 0,
					Usage: " balance `NUMBER`",
				},
				cli.StringFlag{
					Name:  "owner, o",
					Value: "",
					Usage: "*base58 owner program `ID`",
				},
				cli.BoolFlag{
					Name:  "executable, x",
					Usage: " mark the account as executable",
				},
				cli.Uint64Flag{
					Name:  "rent-epoch, r",
					Value: 0,
					Usage: " rent epoch `NUMBER`",
				},
				cli.StringFlag{
					Name:  "data-hex, d",
					Value: "",
					Usage: " account data `HEX`",
				},
			},
			Action: runSetAccount,
		},
		{
			Name:      "list",
			Usage:     "list accounts in identifier order",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "start, s",
					Value: "",
					Usage: " start from account `ID`",
				},
				cli.IntFlag{
					Name:  "count, n",
					Value: 20,
					Usage: " maximum records to output `COUNT`",
				},
			},
			Action: runList,
		},
		{
			Name:      "checkpoint",
			Usage:     "copy the store into a new checkpoint directory",
			ArgsUsage: "DIR\n   (relative to the configured checkpoint directory)",
			Action:    runCheckpoint,
		},
		{
			Name:      "verify",
			Usage:     "verify the digest of a checkpoint",
			ArgsUsage: "DIR\n   (relative to the configured checkpoint directory)",
			Action:    runVerify,
		},
		{
			Name:  "version",
			Usage: "display ledgerstore-cli version",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(c.App.Writer, "%s\n", version)
				return nil
			},
		},
	}

	// read the configuration
	app.Before = func(c *cli.Context) error {

		e := c.App.ErrWriter
		w := c.App.Writer
		verbose := c.GlobalBool("verbose")

		// to suppress reading config file if certain commands
		command := c.Args().Get(0)
		if "" == command || "version" == command || "help" == command {
			return nil
		}

		variables, err := checkVariables(c.GlobalStringSlice("define"))
		if nil != err {
			return err
		}

		file := c.GlobalString("config")
		if verbose {
			fmt.Fprintf(e, "reading config file: %s\n", file)
		}

		configuration, err := getConfiguration(file, variables)
		if nil != err {
			return err
		}

		// start logging
		if err = logger.Initialise(configuration.Logging); nil != err {
			return err
		}
		if err = fault.Initialise(); nil != err {
			logger.Finalise()
			return err
		}

		log := logger.New("main")
		log.Infof("version: %s  config: %q", version, file)

		c.App.Metadata["config"] = &metadata{
			file:    file,
			config:  configuration,
			verbose: verbose,
			log:     log,
			e:       e,
			w:       w,
		}

		return nil
	}

	// shut down logging
	app.After = func(c *cli.Context) error {
		if _, ok := c.App.Metadata["config"].(*metadata); !ok {
			return nil
		}
		fault.Finalise()
		logger.Finalise()
		return nil
	}

	err := app.Run(os.Args)
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}
