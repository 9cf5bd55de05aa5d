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

// Binding pairs a name captured from a pattern segment with its matched
// value. Value starts as a string borrowed from the request's token list
// and may be replaced by a constraint (e.g. Integer stores a Go int).
type Binding struct {
	Name  string
	Value any
}

// Bindings is an ordered list of Binding; iteration order is insertion
// order: host bindings first, in the order the reversed host tokens are
// matched (rightmost label first), then path bindings in the order the path
// pattern declares them.
type Bindings []Binding

// Lookup returns the value bound to name and whether it was found.
func (b Bindings) Lookup(name string) (any, bool) {
	for _, e := range b {
		if e.Name == name {
			return e.Value, true
		}
	}
	return nil, false
}

// with returns a copy of b with (name, value) appended. It never mutates b.
func (b Bindings) with(name string, value any) Bindings {
	out := make(Bindings, len(b)+1)
	copy(out, b)
	out[len(b)] = Binding{Name: name, Value: value}
	return out
}

// replace returns a copy of b with name's value replaced, used by
// constraints that rewrite a binding's value in place.
func (b Bindings) replace(name string, value any) Bindings {
	out := make(Bindings, len(b))
	copy(out, b)
	for i := range out {
		if out[i].Name == name {
			out[i].Value = value
		}
	}
	return out
}
