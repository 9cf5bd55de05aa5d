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

// segmentKind distinguishes the four ways a compiled Segment can match a
// single token (or, for Rest, the remainder of the token list).
type segmentKind uint8

const (
	segLiteral segmentKind = iota
	segAnyOne
	segBind
	segRest
)

// Segment is one element of a compiled Pattern. The zero Segment is the
// literal matching an empty token (as compiled from an interior empty
// segment such as "a//b"); always construct via the literal/anyOne/bind/rest
// helpers below.
type Segment struct {
	kind    segmentKind
	literal string // valid when kind == segLiteral
	name    string // valid when kind == segBind
}

func literalSegment(s string) Segment { return Segment{kind: segLiteral, literal: s} }
func anyOneSegment() Segment          { return Segment{kind: segAnyOne} }
func bindSegment(name string) Segment { return Segment{kind: segBind, name: name} }
func restSegment() Segment            { return Segment{kind: segRest} }

// IsRest reports whether s is the trailing-wildcard marker.
func (s Segment) IsRest() bool { return s.kind == segRest }

// IsBind reports whether s captures a named binding, and if so its name.
func (s Segment) IsBind() (string, bool) {
	if s.kind == segBind {
		return s.name, true
	}
	return "", false
}

func (s Segment) String() string {
	switch s.kind {
	case segLiteral:
		return s.literal
	case segAnyOne:
		return "_"
	case segBind:
		return ":" + s.name
	case segRest:
		return "[...]"
	default:
		return "?"
	}
}
