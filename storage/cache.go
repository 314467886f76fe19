// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	cache "github.com/patrickmn/go-cache"
)

// Cache - staged values of an uncommitted batch, by physical key
type Cache interface {
	Get(string) ([]byte, bool)
	Set(string, []byte)
	Clear()
}

type batchCache struct {
	cache *cache.Cache
}

// staged values live until the batch finishes, so no expiry and no
// janitor goroutine
func newCache() Cache {
	return &batchCache{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func (c *batchCache) Get(key string) ([]byte, bool) {
	obj, found := c.cache.Get(key)
	if !found {
		return nil, false
	}
	return obj.([]byte), true
}

func (c *batchCache) Set(key string, value []byte) {
	c.cache.Set(key, value, cache.NoExpiration)
}

func (c *batchCache) Clear() {
	c.cache.Flush()
}
