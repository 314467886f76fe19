// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeTestConfiguration(t *testing.T, text string) (string, string, func()) {
	dir, err := ioutil.TempDir("", "ledgerstore-cli")
	if nil != err {
		t.Fatalf("temporary directory error: %s", err)
	}
	fileName := filepath.Join(dir, "ledgerstore.conf")
	err = ioutil.WriteFile(fileName, []byte(text), 0600)
	if nil != err {
		_ = os.RemoveAll(dir)
		t.Fatalf("write configuration error: %s", err)
	}
	return dir, fileName, func() {
		_ = os.RemoveAll(dir)
	}
}

func TestGetConfigurationDefaults(t *testing.T) {
	dir, fileName, cleanup := writeTestConfiguration(t, `return { data_directory = "." }`)
	defer cleanup()

	options, err := getConfiguration(fileName, nil)
	if !assert.Nil(t, err, "configuration error") {
		return
	}

	assert.Equal(t, filepath.Join(dir, defaultDatabase), options.Database, "database")
	assert.Equal(t, filepath.Join(dir, defaultCheckpointDirectory), options.CheckpointDirectory, "checkpoint directory")
	assert.Equal(t, filepath.Join(dir, defaultLogDirectory), options.Logging.Directory, "log directory")
	assert.Equal(t, defaultLogFile, options.Logging.File, "log file")
	assert.Equal(t, defaultLogCount, options.Logging.Count, "log count")

	assert.True(t, isDirectory(options.CheckpointDirectory), "checkpoint directory not created")
	assert.True(t, isDirectory(options.Logging.Directory), "log directory not created")
}

func TestGetConfigurationValues(t *testing.T) {
	text := `
local M = {}
M.data_directory = "."
M.database = network .. ".leveldb"
M.checkpoint_directory = "/tmp/ledgerstore-cli-test-checkpoints"
M.logging = {
    directory = "logs",
    file = "cli.log",
    size = 4096,
    count = 2,
    levels = {
        DEFAULT = "info",
        storage = "debug",
    },
}
return M
`
	dir, fileName, cleanup := writeTestConfiguration(t, text)
	defer cleanup()
	defer os.RemoveAll("/tmp/ledgerstore-cli-test-checkpoints")

	options, err := getConfiguration(fileName, map[string]string{"network": "testing"})
	if !assert.Nil(t, err, "configuration error") {
		return
	}

	assert.Equal(t, filepath.Join(dir, "testing.leveldb"), options.Database, "database")
	assert.Equal(t, "/tmp/ledgerstore-cli-test-checkpoints", options.CheckpointDirectory, "absolute checkpoint directory")
	assert.Equal(t, filepath.Join(dir, "logs"), options.Logging.Directory, "log directory")
	assert.Equal(t, "cli.log", options.Logging.File, "log file")
	assert.Equal(t, 4096, options.Logging.Size, "log size")
	assert.Equal(t, 2, options.Logging.Count, "log count")
	assert.Equal(t, "debug", options.Logging.Levels["storage"], "storage log level")
}

func TestGetConfigurationErrors(t *testing.T) {
	items := []string{
		`return { }`,
		`return { data_directory = "~" }`,
		`return { data_directory = "/nonexistent/ledgerstore" }`,
		`return { data_directory = ".", logging = { file = "sub/cli.log" } }`,
	}

	for i, text := range items {
		_, fileName, cleanup := writeTestConfiguration(t, text)
		_, err := getConfiguration(fileName, nil)
		assert.NotNil(t, err, "%d: expected error", i)
		cleanup()
	}
}

func isDirectory(name string) bool {
	info, err := os.Stat(name)
	return nil == err && info.IsDir()
}
