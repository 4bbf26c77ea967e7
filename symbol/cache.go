// Copyright 2026 The Typewrap Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package symbol

import "sync"

// GlobalCache is the process-wide lookup from deduplicated name to its
// equivalent Symbols, populated once by the Deduplicator's output before any
// UserType is constructed. It is read-only and safe for concurrent readers
// once Update has been called for the last time.
type GlobalCache struct {
	mu   sync.RWMutex
	data map[string][]*Symbol
}

// NewGlobalCache returns an empty cache.
func NewGlobalCache() *GlobalCache {
	return &GlobalCache{data: map[string][]*Symbol{}}
}

// Update atomically replaces the cache's contents with m.
func (c *GlobalCache) Update(m map[string][]*Symbol) {
	c.mu.Lock()
	c.data = m
	c.mu.Unlock()
}

// GetSymbol returns the representative (first entry) for name, or false if
// name is not present.
func (c *GlobalCache) GetSymbol(name string) (*Symbol, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	syms, ok := c.data[name]
	if !ok || len(syms) == 0 {
		return nil, false
	}
	return syms[0], true
}

// GetSymbols returns every equivalent Symbol registered under name.
func (c *GlobalCache) GetSymbols(name string) ([]*Symbol, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	syms, ok := c.data[name]
	return syms, ok
}
