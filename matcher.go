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

// Execute walks table against host and path in declared order and returns
// either a successful Match or a classified *MatchError. It never blocks,
// allocates only for the result, bindings, rest-token slices and (for a raw
// HostString or PathString) the token slices, and is safe to call
// from an unbounded number of goroutines concurrently.
func Execute(table *Table, host HostInput, path PathInput) (*Match, error) {
	hostTokens, ok := resolveHostTokens(host)
	if !ok {
		return nil, &MatchError{Kind: HostNotFound}
	}

	for _, rule := range table.hosts {
		bindings, hostRest, matched := matchHostRule(rule, hostTokens)
		if !matched {
			continue
		}

		// A host rule whose pattern and constraints succeed is selected:
		// its path rules are tried, and failure there is PathNotFound,
		// not a retry of later host rules.
		match, err := matchPathRules(rule.paths, path, bindings, hostRest)
		if err != nil {
			return nil, err
		}
		if match != nil {
			return match, nil
		}
		return nil, &MatchError{Kind: PathNotFound}
	}

	return nil, &MatchError{Kind: HostNotFound}
}

func resolveHostTokens(host HostInput) ([]string, bool) {
	if host.tokenized {
		return host.tokens, true
	}
	return SplitHost(host.raw)
}

// matchHostRule tries a single compiled host rule against already-
// tokenized (reversed) host tokens.
func matchHostRule(rule CompiledHostRule, hostTokens []string) (Bindings, []string, bool) {
	if rule.pattern.IsAny() {
		return nil, nil, true
	}

	bindings, rest, hasRest, ok := listMatch(hostTokens, rule.pattern.Segments(), nil)
	if !ok {
		return nil, nil, false
	}
	var hostRest []string
	if hasRest {
		hostRest = reverseStrings(rest)
	}

	bindings, ok = applyConstraints(rule.constraints, bindings)
	if !ok {
		return nil, nil, false
	}
	return bindings, hostRest, true
}

// matchPathRules resolves path's tokens once and tries each compiled path
// rule under the already-selected host rule in declared order. A nil,nil
// result means no path rule matched; a non-nil *MatchError means the path
// itself was malformed (PathBadRequest), short-circuiting all path rules.
func matchPathRules(rules []CompiledPathRule, path PathInput, hostBindings Bindings, hostRest []string) (*Match, error) {
	if path.kind == pathBad {
		return nil, &MatchError{Kind: PathBadRequest}
	}

	pathTokens := path.tokens
	// The asterisk pattern matches only the literal OPTIONS request-target
	// "*", which never starts with '/' and so never reaches SplitPath.
	isAsteriskRequest := path.kind == pathRaw && path.raw == "*"
	if path.kind == pathRaw && !isAsteriskRequest {
		resolved := SplitPath(path.raw)
		if resolved.kind == pathBad {
			return nil, &MatchError{Kind: PathBadRequest}
		}
		pathTokens = resolved.tokens
	}

	for _, rule := range rules {
		switch {
		case rule.pattern.IsAny() && len(rule.constraints) == 0:
			return &Match{
				Handler: rule.handler, Opts: rule.opts,
				Bindings: hostBindings, HostRest: hostRest,
			}, nil

		case rule.pattern.IsAsterisk():
			if isAsteriskRequest {
				return &Match{
					Handler: rule.handler, Opts: rule.opts,
					Bindings: hostBindings, HostRest: hostRest,
				}, nil
			}

		default:
			bindings, rest, hasRest, ok := listMatch(pathTokens, rule.pattern.Segments(), hostBindings)
			if !ok {
				continue
			}
			bindings, ok = applyConstraints(rule.constraints, bindings)
			if !ok {
				continue
			}
			var pathRest []string
			if hasRest {
				pathRest = rest
			}
			return &Match{
				Handler: rule.handler, Opts: rule.opts,
				Bindings: bindings, HostRest: hostRest, PathRest: pathRest,
			}, nil
		}
	}
	return nil, nil
}

// listMatch matches tokens against segs, seeding and extending bindings.
// Duplicate bindings are permitted only when the newly matched segment is
// byte-equal to the previously bound value.
func listMatch(tokens []string, segs []Segment, seed Bindings) (bindings Bindings, rest []string, hasRest bool, ok bool) {
	bindings = seed
	for _, seg := range segs {
		if seg.IsRest() {
			return bindings, tokens, true, true
		}
		if len(tokens) == 0 {
			return bindings, nil, false, false
		}
		token := tokens[0]

		if name, isBind := seg.IsBind(); isBind {
			if existing, found := bindings.Lookup(name); found {
				if existing != token {
					return bindings, nil, false, false
				}
			} else {
				bindings = bindings.with(name, token)
			}
		} else if seg.kind == segLiteral {
			if seg.literal != token {
				return bindings, nil, false, false
			}
		}
		// segAnyOne matches unconditionally.

		tokens = tokens[1:]
	}
	if len(tokens) != 0 {
		return bindings, nil, false, false
	}
	return bindings, nil, false, true
}

func reverseStrings(in []string) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[len(in)-1-i] = v
	}
	return out
}
