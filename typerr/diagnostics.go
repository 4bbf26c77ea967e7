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

package typerr

import "sync"

// Channel collects non-fatal diagnostics raised during a pipeline run. It is
// safe for concurrent use by the data-parallel phases (P1, P2, P5, P9).
type Channel struct {
	mu    sync.Mutex
	items []*Error
}

// NewChannel returns an empty diagnostics channel.
func NewChannel() *Channel { return &Channel{} }

// Report appends a non-fatal diagnostic. Fatal-kind errors should be
// returned directly by the phase instead of routed here.
func (c *Channel) Report(err *Error) {
	c.mu.Lock()
	c.items = append(c.items, err)
	c.mu.Unlock()
}

// Items returns a snapshot of the diagnostics reported so far, in report
// order.
func (c *Channel) Items() []*Error {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Error, len(c.items))
	copy(out, c.items)
	return out
}

// HasErrors reports whether any reported diagnostic is Error severity as
// understood by the CLI driver's exit code contract.
func (c *Channel) HasErrors() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, it := range c.items {
		if it.Kind == KindSymbolNotFound || it.Kind == KindNameSyntax || it.Kind == KindTemplateLink {
			continue // logged diagnostics, not failures
		}
		return true
	}
	return false
}
