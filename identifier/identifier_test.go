// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package identifier_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/ledgerstore/fault"
	"github.com/bitmark-inc/ledgerstore/identifier"
)

const counterAddress = "J39wvrFY2AkoAUCke5347RMNk3ditxZfVidoZ7U6Fguf"

func TestBase58RoundTrip(t *testing.T) {
	id, err := identifier.FromBase58(counterAddress)
	assert.Nil(t, err, "decode error")
	assert.False(t, id.IsZero(), "decoded to zero")
	assert.Equal(t, counterAddress, id.String(), "wrong text form")
}

func TestFromBase58Invalid(t *testing.T) {
	items := []string{
		"",
		"0OIl",   // characters outside the alphabet
		"3yZe7d", // too short
		counterAddress + "J39wvrFY2AkoAUCke5347RMNk3ditx", // too long
	}
	for i, s := range items {
		_, err := identifier.FromBase58(s)
		assert.NotNil(t, err, "%d: %q decoded", i, s)
	}
}

func TestFromBytes(t *testing.T) {
	raw := make([]byte, identifier.Length)
	for i := range raw {
		raw[i] = byte(i)
	}

	id, err := identifier.FromBytes(raw)
	assert.Nil(t, err, "decode error")
	assert.Equal(t, raw, id.Bytes(), "wrong bytes")

	// bytes are a copy
	b := id.Bytes()
	b[0] = 0xff
	assert.Equal(t, byte(0), id[0], "identifier modified through Bytes")

	_, err = identifier.FromBytes(raw[1:])
	assert.Equal(t, fault.ErrInvalidKeyLength, err, "short buffer accepted")
}

func TestCompare(t *testing.T) {
	a := identifier.Identifier{1}
	b := identifier.Identifier{2}
	assert.Equal(t, -1, a.Compare(b), "a < b")
	assert.Equal(t, 1, b.Compare(a), "b > a")
	assert.Equal(t, 0, a.Compare(a), "a == a")
}

func TestJSON(t *testing.T) {
	id, _ := identifier.FromBase58(counterAddress)

	item := struct {
		Owner identifier.Identifier `json:"owner"`
	}{
		Owner: id,
	}
	b, err := json.Marshal(item)
	assert.Nil(t, err, "marshal error")
	assert.Equal(t, `{"owner":"`+counterAddress+`"}`, string(b), "wrong JSON")

	item.Owner = identifier.Identifier{}
	err = json.Unmarshal(b, &item)
	assert.Nil(t, err, "unmarshal error")
	assert.Equal(t, id, item.Owner, "wrong identifier")
}
