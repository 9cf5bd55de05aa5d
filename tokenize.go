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
	"net/url"
	"strings"
)

// HostInput is either a raw host string or an already-tokenized, already-
// reversed host token list. Construct with HostString or HostTokens.
type HostInput struct {
	raw       string
	tokens    []string
	tokenized bool
}

// HostString wraps a raw host for Execute to split itself.
func HostString(s string) HostInput { return HostInput{raw: s} }

// HostTokens wraps a host that the caller has already split and reversed
// (rightmost label first), skipping Execute's own tokenization step.
func HostTokens(tokens []string) HostInput { return HostInput{tokens: tokens, tokenized: true} }

type pathInputKind uint8

const (
	pathRaw pathInputKind = iota
	pathTokens
	pathBad
)

// PathInput is either a raw path string, an already-tokenized segment
// list, or the bad-request sentinel. Construct with PathString or
// PathTokens.
//
// Per the design notes, a cleaner tokenizer returns this tagged result
// directly from SplitPath rather than relying on callers to manufacture the
// bad-request sentinel themselves; pathBadRequestInput is unexported, and
// SplitPath is its only caller.
type PathInput struct {
	kind   pathInputKind
	raw    string
	tokens []string
}

// PathString wraps a raw path for Execute to split itself.
func PathString(s string) PathInput { return PathInput{kind: pathRaw, raw: s} }

// PathTokens wraps a path the caller has already split and percent-decoded.
func PathTokens(tokens []string) PathInput { return PathInput{kind: pathTokens, tokens: tokens} }

// pathBadRequestInput manufactures the "this path failed to parse" sentinel.
func pathBadRequestInput() PathInput { return PathInput{kind: pathBad} }

// splitSegments implements the shared segment-splitting rule: two
// consecutive separators collapse (empty segment suppressed) only at the
// front of the string; an empty segment in the middle, or a trailing
// separator's implied empty segment, is preserved for the former and
// dropped for the latter to match the request-time tokenization contract.
func splitSegments(s string, sep byte) []string {
	if s == "" {
		return nil
	}
	var out []string
	emittedAny := false
	start := 0
	flush := func(end int) {
		seg := s[start:end]
		if seg == "" && !emittedAny {
			return // leading separator(s): collapse, don't emit
		}
		out = append(out, seg)
		emittedAny = true
	}
	for i := 0; i < len(s); i++ {
		if s[i] == sep {
			flush(i)
			start = i + 1
		}
	}
	// Trailing separator: don't emit the implied empty final segment.
	if start < len(s) {
		flush(len(s))
	}
	return out
}

// SplitHost tokenizes a host on '.', accumulating segments in reverse
// (rightmost label first) so a.b.c.d splits to [d,c,b,a]. An empty host
// produces an empty list. An empty interior label (two consecutive dots
// inside the host, not at the very edges) is rejected by returning ok=false
// — the caller maps this to HostNotFound, never a crash.
func SplitHost(host string) (tokens []string, ok bool) {
	if host == "" {
		return nil, true
	}
	raw := strings.Split(host, ".")
	for i, seg := range raw {
		if seg == "" {
			interior := i != 0 && i != len(raw)-1
			if interior {
				return nil, false
			}
			continue
		}
	}
	// Trim one leading/trailing empty segment (from a leading/trailing '.')
	// without disturbing interior emptiness, which was already rejected
	// above.
	trimmed := raw
	if len(trimmed) > 0 && trimmed[0] == "" {
		trimmed = trimmed[1:]
	}
	if len(trimmed) > 0 && trimmed[len(trimmed)-1] == "" {
		trimmed = trimmed[:len(trimmed)-1]
	}
	tokens = make([]string, len(trimmed))
	for i, seg := range trimmed {
		tokens[len(trimmed)-1-i] = seg
	}
	return tokens, true
}

// SplitPath tokenizes a path on '/', requiring a leading slash, preserving
// empty interior segments, percent-decoding each segment, and dropping the
// implied empty final segment from a trailing slash. Any decoding failure
// yields the bad-request tagged result.
func SplitPath(path string) PathInput {
	if path == "" || path[0] != '/' {
		return pathBadRequestInput()
	}
	raw := splitSegments(path[1:], '/')
	tokens := make([]string, len(raw))
	for i, seg := range raw {
		decoded, err := url.PathUnescape(strings.ReplaceAll(seg, "+", " "))
		if err != nil {
			return pathBadRequestInput()
		}
		tokens[i] = decoded
	}
	return PathTokens(tokens)
}
