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

import "strings"

// Compile turns authored routes into an immutable Table. Any malformed
// input aborts the whole call with a *CompileError; there is no partial
// compilation.
func Compile(routes []Route) (*Table, error) {
	table := &Table{}
	for _, route := range routes {
		hostPatterns, err := compileHostField(route.Host)
		if err != nil {
			return nil, err
		}

		pathRules, err := compilePathRoutes(route.Paths)
		if err != nil {
			return nil, err
		}

		for _, hp := range hostPatterns {
			if hp.IsAny() && len(route.Constraints) > 0 {
				return nil, &CompileError{Err: ErrConstraintsOnWildcard}
			}
			table.hosts = append(table.hosts, CompiledHostRule{
				pattern:     hp,
				constraints: route.Constraints,
				paths:       pathRules,
			})
		}
	}
	return table, nil
}

func compileHostField(host any) ([]Pattern, error) {
	if _, isWildcard := host.(Wildcard); isWildcard {
		return []Pattern{anyPattern()}, nil
	}
	s, _ := host.(string)

	items, err := parseItems(s, '.')
	if err != nil {
		return nil, err
	}
	variants := expandItems(items)

	patterns := make([]Pattern, 0, len(variants))
	for _, segs := range variants {
		reversed := make([]Segment, len(segs))
		for i, seg := range segs {
			reversed[len(segs)-1-i] = seg
		}
		p := segmentsPattern(reversed)
		if !p.restTerminal() {
			return nil, &CompileError{Err: ErrRestNotTerminal, Pattern: s}
		}
		patterns = append(patterns, p)
	}
	return patterns, nil
}

func compilePathRoutes(routes []PathRoute) ([]CompiledPathRule, error) {
	var rules []CompiledPathRule
	for _, pr := range routes {
		patterns, err := compilePathField(pr.Path)
		if err != nil {
			return nil, err
		}
		for _, p := range patterns {
			if p.IsAny() && len(pr.Constraints) > 0 {
				return nil, &CompileError{Err: ErrConstraintsOnWildcard}
			}
			rules = append(rules, CompiledPathRule{
				pattern:     p,
				constraints: pr.Constraints,
				handler:     pr.Handler,
				opts:        pr.Opts,
			})
		}
	}
	return rules, nil
}

func compilePathField(path any) ([]Pattern, error) {
	if _, isWildcard := path.(Wildcard); isWildcard {
		return []Pattern{anyPattern()}, nil
	}
	s, _ := path.(string)

	if s == "*" {
		return []Pattern{asteriskPattern()}, nil
	}

	if !strings.HasPrefix(s, "/") {
		return nil, &CompileError{Err: ErrPathNotSlashPrefixed, Pattern: s}
	}
	items, err := parseItems(s[1:], '/')
	if err != nil {
		return nil, err
	}
	variants := expandItems(items)

	patterns := make([]Pattern, 0, len(variants))
	for _, segs := range variants {
		p := segmentsPattern(segs)
		if !p.restTerminal() {
			return nil, &CompileError{Err: ErrRestNotTerminal, Pattern: s}
		}
		patterns = append(patterns, p)
	}
	return patterns, nil
}

// item is one element of a parsed-but-not-yet-expanded pattern: either a
// concrete Segment, or a bracketed optional group holding its own nested
// item sequence.
type item struct {
	isGroup bool
	seg     Segment
	group   []item
}

// parseItems runs the single-pass byte scanner described by the DSL: sep
// separates segments, ':' begins a binding name, "[...]" (as a whole
// segment) is the terminal Rest marker, and "[group]" opens a recursively
// parsed optional subsequence.
func parseItems(s string, sep byte) ([]item, error) {
	items, rest, err := parseItemsUpTo(s, sep, -1)
	if err != nil {
		return nil, err
	}
	if rest != len(s) {
		// Only reachable if callers pass depth>=0 without consuming a
		// matching ']'; parseItems itself always runs to end of input.
		return nil, &CompileError{Err: ErrUnbalancedBracket, Pattern: s}
	}
	return items, nil
}

// parseItemsUpTo scans s starting at the beginning, stopping either at end
// of input (closeBracket < 0) or at the ']' matching an already-open '['
// (closeBracket == 0, meaning "stop at the next unescaped ']' seen at this
// nesting level"). It returns the parsed items and the index just past the
// consumed input (the byte after the closing ']', or len(s)).
func parseItemsUpTo(s string, sep byte, closeBracket int) ([]item, int, error) {
	var items []item
	var buf strings.Builder
	emittedAny := false
	inBind := false
	// skipEmptyFlush suppresses the next flushLiteral's empty-segment
	// emission right after a bind, rest, or group item was appended
	// directly: the separator that follows it ends that item, not an
	// interior empty segment the way two literal separators in a row do.
	skipEmptyFlush := false

	flushLiteral := func() {
		seg := buf.String()
		if seg == "" && (!emittedAny || skipEmptyFlush) {
			skipEmptyFlush = false
			buf.Reset()
			return
		}
		if seg == "_" {
			items = append(items, item{seg: anyOneSegment()})
		} else {
			items = append(items, item{seg: literalSegment(seg)})
		}
		emittedAny = true
		skipEmptyFlush = false
		buf.Reset()
	}

	i := 0
	for i < len(s) {
		c := s[i]

		switch {
		case inBind && (c == sep || c == '[' || c == ']'):
			name := buf.String()
			if name == "" {
				return nil, 0, &CompileError{Err: ErrMalformedBinding, Pattern: s}
			}
			items = append(items, item{seg: bindSegment(name)})
			emittedAny = true
			skipEmptyFlush = true
			buf.Reset()
			inBind = false
			continue // re-process c in non-bind mode

		case inBind:
			buf.WriteByte(c)
			i++
			continue

		case c == sep:
			flushLiteral()
			i++
			continue

		case c == ':' && buf.Len() == 0:
			inBind = true
			i++
			continue

		case c == '[' && buf.Len() == 0:
			if strings.HasPrefix(s[i:], "[...]") {
				items = append(items, item{seg: restSegment()})
				emittedAny = true
				skipEmptyFlush = true
				i += len("[...]")
				continue
			}
			nested, consumed, err := parseItemsUpTo(s[i+1:], sep, 0)
			if err != nil {
				return nil, 0, err
			}
			items = append(items, item{isGroup: true, group: nested})
			emittedAny = true
			skipEmptyFlush = true
			i += 1 + consumed // skip '[' + nested content + ']'
			continue

		case c == '[':
			return nil, 0, &CompileError{Err: ErrMisplacedBracket, Pattern: s}

		case c == ']':
			if closeBracket != 0 {
				return nil, 0, &CompileError{Err: ErrUnbalancedBracket, Pattern: s}
			}
			flushLiteral()
			return items, i + 1, nil

		default:
			buf.WriteByte(c)
			i++
		}
	}

	if inBind {
		name := buf.String()
		if name == "" {
			return nil, 0, &CompileError{Err: ErrMalformedBinding, Pattern: s}
		}
		items = append(items, item{seg: bindSegment(name)})
		emittedAny = true
		skipEmptyFlush = true
		buf.Reset()
	}
	if closeBracket == 0 {
		return nil, 0, &CompileError{Err: ErrUnbalancedBracket, Pattern: s}
	}
	flushLiteral()
	return items, len(s), nil
}

// expandItems produces the 2^k concrete Segment sequences for a pattern
// with k bracket groups: for every group, the variant that omits it
// precedes the sibling variant (same state for every other group) that
// includes it.
func expandItems(items []item) [][]Segment {
	if len(items) == 0 {
		return [][]Segment{{}}
	}

	head, tail := items[0], items[1:]
	tailVariants := expandItems(tail)

	if !head.isGroup {
		out := make([][]Segment, len(tailVariants))
		for i, v := range tailVariants {
			out[i] = prependSegment(head.seg, v)
		}
		return out
	}

	withoutGroup := tailVariants
	groupVariants := expandItems(head.group)
	withGroup := make([][]Segment, 0, len(groupVariants)*len(tailVariants))
	for _, g := range groupVariants {
		for _, t := range tailVariants {
			withGroup = append(withGroup, concatSegments(g, t))
		}
	}

	out := make([][]Segment, 0, len(withoutGroup)+len(withGroup))
	out = append(out, withoutGroup...)
	out = append(out, withGroup...)
	return out
}

func prependSegment(s Segment, rest []Segment) []Segment {
	out := make([]Segment, len(rest)+1)
	out[0] = s
	copy(out[1:], rest)
	return out
}

func concatSegments(a, b []Segment) []Segment {
	out := make([]Segment, len(a)+len(b))
	copy(out, a)
	copy(out[len(a):], b)
	return out
}
