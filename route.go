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

// Wildcard is the marker type for the '_' host or path pattern, which
// matches everything and must carry no constraints.
type Wildcard struct{}

// Any is the wildcard marker: pass it as a Route's Host, or a PathRoute's
// Path, to build an AnyPattern.
var Any = Wildcard{}

// Handler and HandlerOpts are opaque to the core; the matcher never
// inspects them. Callers typically instantiate Handler with their own
// http.Handler-compatible type.
type (
	Handler     = any
	HandlerOpts = any
)

// PathRoute is one authored path entry under a Route, in its normalized
// 4-tuple form (path, constraints, handler, opts).
type PathRoute struct {
	// Path is either a string pattern ("/users/:id", "*"), or Any for the
	// path wildcard.
	Path        any
	Constraints []Constraint
	Handler     Handler
	Opts        HandlerOpts
}

// Route is one authored host entry, normalized to its 3-tuple form (host,
// constraints, path routes).
type Route struct {
	// Host is either a string pattern ("ninenines.eu"), or Any for the
	// host wildcard.
	Host        any
	Constraints []Constraint
	Paths       []PathRoute
}
