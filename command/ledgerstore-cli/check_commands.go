// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"strings"

	"github.com/bitmark-inc/ledgerstore/fault"
	"github.com/bitmark-inc/ledgerstore/identifier"
	"github.com/bitmark-inc/ledgerstore/util"
)

// common errors - keep in alphabetic order
var (
	ErrInvalidVariable    = fault.InvalidError("variable must be NAME=VALUE")
	ErrRequiredDirectory  = fault.InvalidError("directory is required")
	ErrRequiredFileName   = fault.InvalidError("file name is required")
	ErrRequiredIdentifier = fault.InvalidError("identifier is required")
	ErrRequiredOwner      = fault.InvalidError("owner is required")
	ErrTooManyArguments   = fault.InvalidError("too many arguments")
	ErrRecordNotFound     = fault.NotFoundError("record not found")
)

// identifier is required
func checkIdentifier(s string) (identifier.Identifier, error) {
	if "" == s {
		return identifier.Identifier{}, ErrRequiredIdentifier
	}
	return identifier.FromBase58(s)
}

// owner is required
func checkOwner(s string) (identifier.Identifier, error) {
	if "" == s {
		return identifier.Identifier{}, ErrRequiredOwner
	}
	return identifier.FromBase58(s)
}

// data is optional, blank means no data
func checkDataHex(s string) ([]byte, error) {
	if "" == s {
		return nil, nil
	}
	return hex.DecodeString(strings.TrimPrefix(s, "0x"))
}

// check for non-blank file name
func checkFileName(fileName string) (string, error) {
	if "" == fileName {
		return "", ErrRequiredFileName
	}
	return fileName, nil
}

// a relative checkpoint is placed in the checkpoint directory
func checkCheckpointDirectory(name string, config *Configuration) (string, error) {
	if "" == name {
		return "", ErrRequiredDirectory
	}
	return util.EnsureAbsolute(config.CheckpointDirectory, name), nil
}

// split NAME=VALUE items into a variable map
func checkVariables(items []string) (map[string]string, error) {
	variables := make(map[string]string)
	for _, item := range items {
		s := strings.SplitN(item, "=", 2)
		if 2 != len(s) || "" == s[0] {
			return nil, ErrInvalidVariable
		}
		variables[s[0]] = s[1]
	}
	return variables, nil
}
