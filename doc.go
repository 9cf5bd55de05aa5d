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

// Package dispatch implements the core of an HTTP request router: a
// compiler that turns a textual host/path routing DSL into an immutable
// dispatch table, and a matcher that walks that table against a request's
// host and path.
//
// # Architecture
//
// Two pure functions, each over immutable inputs:
//
//  1. Compile: authored routes (§DSL below) → *Table. Runs once at startup
//     and rejects malformed input with a *CompileError.
//  2. Execute: *Table + host + path → *Match or a classified *MatchError.
//     Runs on every request; allocates only for the result, the bindings
//     slice, any captured rest-token slices, and the token slices of a raw
//     host or path it has to split itself.
//
// Neither function performs I/O, blocks, or mutates shared state. A *Table
// is safe to share across goroutines without synchronization once Compile
// returns it.
//
// # DSL
//
// A route pattern is a sequence of segments separated by '.' (hosts) or
// '/' (paths):
//
//   - a literal segment matches itself exactly;
//   - "_" matches any single segment without binding it;
//   - ":name" matches any single segment and binds it to name;
//   - "[...]" (as a whole segment) matches the rest of the tokens and binds
//     them as the rest-list; it must be the last segment of a path pattern
//     and the first segment of a host pattern (see below);
//   - "[group]" wraps an optional subsequence; a pattern with k bracket
//     groups compiles to 2^k concrete patterns.
//
// Host patterns are authored left-to-right the way a human reads a domain
// name ("ninenines.eu") and are matched against reversed host tokens, so a
// leading "[...]" group captures an arbitrary subdomain prefix.
//
// See Compile and Execute for end-to-end usage. The dispatch/config and dispatch/observe subpackages add
// configuration loading and observability around this core; neither is a
// dependency of it.
package dispatch
