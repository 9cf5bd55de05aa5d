// Copyright 2025 The Tallyhub Authors
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

package dispatch

// CompiledPathRule is one compiled path entry. It carries an absolute
// handler and opts pair; the matcher never interprets either.
type CompiledPathRule struct {
	pattern     Pattern
	constraints []Constraint
	handler     Handler
	opts        HandlerOpts
}

// CompiledHostRule is one compiled host entry with its ordered path rules.
type CompiledHostRule struct {
	pattern     Pattern
	constraints []Constraint
	paths       []CompiledPathRule
}

// Table is the immutable, ordered dispatch table produced by Compile. It is
// safe to share across goroutines and read concurrently without locks.
type Table struct {
	hosts []CompiledHostRule
}

// Hosts returns the compiled host rules in declared order, primarily for
// introspection and testing.
func (t *Table) Hosts() []CompiledHostRule { return t.hosts }

// Pattern returns the compiled host pattern.
func (r CompiledHostRule) Pattern() Pattern { return r.pattern }

// Paths returns the compiled path rules under this host rule, in declared
// order.
func (r CompiledHostRule) Paths() []CompiledPathRule { return r.paths }

// Pattern returns the compiled path pattern.
func (r CompiledPathRule) Pattern() Pattern { return r.pattern }

// Handler returns the rule's opaque handler.
func (r CompiledPathRule) Handler() Handler { return r.handler }

// Opts returns the rule's opaque handler options.
func (r CompiledPathRule) Opts() HandlerOpts { return r.opts }
