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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitHost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		host   string
		want   []string
		wantOK bool
	}{
		{name: "empty host", host: "", want: nil, wantOK: true},
		{name: "single label", host: "localhost", want: []string{"localhost"}, wantOK: true},
		{name: "reverses labels", host: "a.b.c", want: []string{"c", "b", "a"}, wantOK: true},
		{name: "tolerates leading dot", host: ".a.b", want: []string{"b", "a"}, wantOK: true},
		{name: "tolerates trailing dot", host: "a.b.", want: []string{"b", "a"}, wantOK: true},
		{name: "rejects empty interior label", host: "example..com", want: nil, wantOK: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := SplitHost(tt.host)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestSplitPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    string
		want    []string
		wantBad bool
	}{
		{name: "requires leading slash", path: "foo", wantBad: true},
		{name: "root", path: "/", want: []string{}},
		{name: "simple", path: "/a/b", want: []string{"a", "b"}},
		{name: "preserves interior empty segment", path: "/a//b", want: []string{"a", "", "b"}},
		{name: "collapses leading double slash", path: "//foo", want: []string{"foo"}},
		{name: "drops implied trailing empty segment", path: "/a/b/", want: []string{"a", "b"}},
		{name: "percent decodes", path: "/hello%20world", want: []string{"hello world"}},
		{name: "plus becomes space", path: "/a+b", want: []string{"a b"}},
		{name: "bad percent escape", path: "/%zz", wantBad: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := SplitPath(tt.path)
			if tt.wantBad {
				assert.Equal(t, pathBad, got.kind)
				return
			}
			assert.Equal(t, tt.want, got.tokens)
		})
	}
}

func TestSplitPath_RootHasNoTokens(t *testing.T) {
	t.Parallel()
	got := SplitPath("/")
	assert.Empty(t, got.tokens)
	assert.NotEqual(t, pathBad, got.kind)
}
