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
	"errors"
	"fmt"
	"net/http"
)

// Compile-time error sentinels. Wrap one of these in a *CompileError via
// errors.Is to identify the offending construct class without string
// matching.
var (
	// ErrMalformedBinding indicates an empty binding name after ':'.
	ErrMalformedBinding = errors.New("dispatch: malformed binding name")

	// ErrUnbalancedBracket indicates an unmatched '[' or ']'.
	ErrUnbalancedBracket = errors.New("dispatch: unbalanced bracket")

	// ErrMisplacedBracket indicates a '[' appearing mid-segment.
	ErrMisplacedBracket = errors.New("dispatch: misplaced bracket")

	// ErrPathNotSlashPrefixed indicates a path pattern not starting with '/'.
	ErrPathNotSlashPrefixed = errors.New("dispatch: path pattern must start with '/'")

	// ErrConstraintsOnWildcard indicates a non-empty constraint list
	// attached to an AnyPattern host or path.
	ErrConstraintsOnWildcard = errors.New("dispatch: constraints on wildcard pattern")

	// ErrRestNotTerminal indicates a "[...]" marker followed by further
	// segments in the same compiled pattern.
	ErrRestNotTerminal = errors.New("dispatch: rest marker must be the final segment")
)

// CompileError is returned by Compile for any malformed authored route. The
// router performs no partial compilation: the first error aborts the whole
// call.
type CompileError struct {
	Err     error  // one of the Err* sentinels above
	Pattern string // the offending authored pattern, if applicable
}

func (e *CompileError) Error() string {
	if e.Pattern == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %q", e.Err, e.Pattern)
}

func (e *CompileError) Unwrap() error { return e.Err }

// ErrorKind classifies a run-time match failure.
type ErrorKind uint8

const (
	// HostNotFound means no host rule accepted the host. A malformed host
	// (e.g. an empty interior label) degrades to this, never a panic.
	HostNotFound ErrorKind = iota
	// PathNotFound means a host rule accepted but no path rule under it
	// accepted.
	PathNotFound
	// PathBadRequest means the path lacked a leading '/' or contained an
	// invalid percent-escape.
	PathBadRequest
)

func (k ErrorKind) String() string {
	switch k {
	case HostNotFound:
		return "host_not_found"
	case PathNotFound:
		return "path_not_found"
	case PathBadRequest:
		return "path_bad_request"
	default:
		return "unknown"
	}
}

// MatchError is returned by Execute on any non-match. Constraint rejection
// is never surfaced this way — it silently falls through to the next
// candidate rule.
type MatchError struct {
	Kind ErrorKind
}

func (e *MatchError) Error() string { return "dispatch: " + e.Kind.String() }

// StatusCode implements the §6 HTTP mapping: HostNotFound and
// PathBadRequest both degrade to 400, PathNotFound to 404.
func (e *MatchError) StatusCode() int {
	switch e.Kind {
	case PathNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

// IsHostNotFound reports whether err is a HostNotFound MatchError.
func IsHostNotFound(err error) bool { return matchErrorKind(err) == HostNotFound }

// IsPathNotFound reports whether err is a PathNotFound MatchError.
func IsPathNotFound(err error) bool { return matchErrorKind(err) == PathNotFound }

// IsPathBadRequest reports whether err is a PathBadRequest MatchError.
func IsPathBadRequest(err error) bool { return matchErrorKind(err) == PathBadRequest }

const noMatchErrorKind ErrorKind = 255

func matchErrorKind(err error) ErrorKind {
	var me *MatchError
	if errors.As(err, &me) {
		return me.Kind
	}
	return noMatchErrorKind
}
