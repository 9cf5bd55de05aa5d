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
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Outcome is the verdict of a Function predicate.
type Outcome uint8

const (
	// Reject rejects the whole match; the matcher continues with the
	// next candidate rule.
	Reject Outcome = iota
	// Accept keeps the binding's current value.
	Accept
	// AcceptWith keeps the match but replaces the binding's value.
	AcceptWith
)

// PredicateResult is returned by a Function predicate.
type PredicateResult struct {
	outcome Outcome
	value   any
}

// RejectValue rejects the match.
func RejectValue() PredicateResult { return PredicateResult{outcome: Reject} }

// AcceptValue keeps the binding's current value.
func AcceptValue() PredicateResult { return PredicateResult{outcome: Accept} }

// AcceptValueWith keeps the match but rewrites the binding's value to v.
func AcceptValueWith(v any) PredicateResult { return PredicateResult{outcome: AcceptWith, value: v} }

// PredicateFunc is the opaque capability a Function constraint wraps. It
// must be side-effect free and must not block.
type PredicateFunc func(value any) PredicateResult

type constraintKind uint8

const (
	constraintInteger constraintKind = iota
	constraintFunction
)

// Constraint is a (binding-name, predicate) pair evaluated after a rule's
// segments list-match successfully. A constraint naming a binding absent
// from the match is vacuously satisfied, not an error.
type Constraint struct {
	name string
	kind constraintKind
	fn   PredicateFunc
}

// Name returns the binding name this constraint applies to.
func (c Constraint) Name() string { return c.name }

// Integer requires the named binding to parse as a signed decimal integer;
// on success the stored value is replaced by the parsed int.
func Integer(name string) Constraint {
	return Constraint{name: name, kind: constraintInteger}
}

// Func attaches an arbitrary predicate to the named binding.
func Func(name string, fn PredicateFunc) Constraint {
	return Constraint{name: name, kind: constraintFunction, fn: fn}
}

// Regexp is a convenience Function constraint that requires the named
// binding, stringified, to fully match pattern. It is implemented purely
// through the opaque Function mechanism rather than a third Constraint
// kind.
func Regexp(name, pattern string) Constraint {
	re := regexp.MustCompile("^(?:" + pattern + ")$")
	return Func(name, func(value any) PredicateResult {
		if re.MatchString(stringify(value)) {
			return AcceptValue()
		}
		return RejectValue()
	})
}

// UUID requires the named binding to look like an RFC 4122 UUID.
func UUID(name string) Constraint {
	return Regexp(name, `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[1-5][0-9a-fA-F]{3}-[89abAB][0-9a-fA-F]{3}-[0-9a-fA-F]{12}`)
}

// Float requires the named binding to parse as a decimal float; on success
// the stored value is replaced by the parsed float64.
func Float(name string) Constraint {
	return Func(name, func(value any) PredicateResult {
		f, err := strconv.ParseFloat(stringify(value), 64)
		if err != nil {
			return RejectValue()
		}
		return AcceptValueWith(f)
	})
}

// Enum requires the named binding to equal one of values exactly.
func Enum(name string, values ...string) Constraint {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return Func(name, func(value any) PredicateResult {
		if _, ok := set[stringify(value)]; ok {
			return AcceptValue()
		}
		return RejectValue()
	})
}

// Date requires the named binding to match an RFC3339 full-date
// (YYYY-MM-DD).
func Date(name string) Constraint {
	return Func(name, func(value any) PredicateResult {
		if _, err := time.Parse(time.DateOnly, stringify(value)); err != nil {
			return RejectValue()
		}
		return AcceptValue()
	})
}

// DateTime requires the named binding to parse as RFC3339.
func DateTime(name string) Constraint {
	return Func(name, func(value any) PredicateResult {
		if _, err := time.Parse(time.RFC3339, stringify(value)); err != nil {
			return RejectValue()
		}
		return AcceptValue()
	})
}

// stringify renders a binding value as text for constraints that re-run
// against an already-converted value (e.g. two constraints on one name).
func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// evaluate runs c against bindings, returning the (possibly rewritten)
// bindings and whether the constraint is satisfied. If the named binding is
// absent, evaluate reports ok=true without modifying bindings.
func (c Constraint) evaluate(bindings Bindings) (Bindings, bool) {
	value, found := bindings.Lookup(c.name)
	if !found {
		return bindings, true
	}

	switch c.kind {
	case constraintInteger:
		n, err := strconv.Atoi(strings.TrimSpace(stringify(value)))
		if err != nil {
			return bindings, false
		}
		return bindings.replace(c.name, n), true
	case constraintFunction:
		result := c.fn(value)
		switch result.outcome {
		case Reject:
			return bindings, false
		case AcceptWith:
			return bindings.replace(c.name, result.value), true
		default:
			return bindings, true
		}
	default:
		return bindings, true
	}
}

// applyConstraints iterates constraints in declared order, short-circuiting
// on the first rejection.
func applyConstraints(constraints []Constraint, bindings Bindings) (Bindings, bool) {
	for _, c := range constraints {
		var ok bool
		bindings, ok = c.evaluate(bindings)
		if !ok {
			return bindings, false
		}
	}
	return bindings, true
}
