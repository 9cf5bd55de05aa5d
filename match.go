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

// Match is the successful result of Execute.
type Match struct {
	Handler  Handler
	Opts     HandlerOpts
	Bindings Bindings
	HostRest []string // nil if the host pattern had no Rest segment
	PathRest []string // nil if the path pattern had no Rest segment
}
