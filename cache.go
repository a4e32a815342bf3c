// (c) Copyright revmark's authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package revmark

import (
	"container/list"
	"regexp"
	"sync"

	"golang.org/x/crypto/blake2b"
)

// regexCache is shared by the path exclusion filters of every pipeline.
var regexCache = NewLRUCache[regexKey, bool](1 << 14)

type regexKey struct {
	Regex *regexp.Regexp
	Str   string
}

// LRUCache is a simple thread-safe generic LRU cache.
type LRUCache[K comparable, V any] struct {
	capacity  int
	items     map[K]*list.Element
	evictList *list.List
	lock      sync.Mutex
}

type entry[K comparable, V any] struct {
	key   K
	value V
}

// NewLRUCache creates a new thread-safe LRU cache with the given capacity.
func NewLRUCache[K comparable, V any](capacity int) *LRUCache[K, V] {
	return &LRUCache[K, V]{
		capacity:  capacity,
		items:     make(map[K]*list.Element),
		evictList: list.New(),
	}
}

func (c *LRUCache[K, V]) Get(key K) (V, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	var zero V
	if ent, ok := c.items[key]; ok {
		c.evictList.MoveToFront(ent)
		return ent.Value.(*entry[K, V]).value, true
	}
	return zero, false
}

func (c *LRUCache[K, V]) Add(key K, value V) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if ent, ok := c.items[key]; ok {
		c.evictList.MoveToFront(ent)
		ent.Value.(*entry[K, V]).value = value
		return
	}

	ent := &entry[K, V]{key, value}
	element := c.evictList.PushFront(ent)
	c.items[key] = element

	if c.evictList.Len() > c.capacity {
		c.removeOldest()
	}
}

// Len returns the number of cached entries
func (c *LRUCache[K, V]) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.evictList.Len()
}

func (c *LRUCache[K, V]) removeOldest() {
	ent := c.evictList.Back()
	if ent != nil {
		c.evictList.Remove(ent)
		delete(c.items, ent.Value.(*entry[K, V]).key)
	}
}

// RegexMatch returns the result of re.MatchString(s), caching previous results.
func RegexMatch(re *regexp.Regexp, s string) bool {
	key := regexKey{Regex: re, Str: s}
	if val, ok := regexCache.Get(key); ok {
		return val
	}
	res := re.MatchString(s)
	regexCache.Add(key, res)
	return res
}

type scanKey struct {
	Digest [blake2b.Size256]byte
	Prefix string
}

// ScanCache remembers the suppressions found in file contents so that an
// unmodified file is not scanned twice. Entries are keyed by a digest of the
// text, never by file name.
type ScanCache struct {
	lru *LRUCache[scanKey, scanResult]
}

type scanResult struct {
	sups  Suppressions
	lines int
}

// NewScanCache creates a cache holding up to capacity scan results
func NewScanCache(capacity int) *ScanCache {
	return &ScanCache{lru: NewLRUCache[scanKey, scanResult](capacity)}
}

func (c *ScanCache) get(text []byte, prefix string) (scanResult, bool) {
	return c.lru.Get(scanKey{Digest: blake2b.Sum256(text), Prefix: prefix})
}

func (c *ScanCache) add(text []byte, prefix string, res scanResult) {
	c.lru.Add(scanKey{Digest: blake2b.Sum256(text), Prefix: prefix}, res)
}

// Len returns the number of cached scans
func (c *ScanCache) Len() int {
	return c.lru.Len()
}
