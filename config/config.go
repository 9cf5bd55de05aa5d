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

// Package config loads a declarative route file into the authored-route
// shape github.com/tallyhub/dispatch.Compile accepts.
//
// Routes are authored in YAML rather than Go because that is how this
// router's operators edit them without a redeploy; the handler field is a
// string identifier, resolved against an application-supplied lookup table
// via Resolve, since a YAML document cannot carry a Go function value.
package config

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/tallyhub/dispatch"
)

// Document is the top-level shape of a route file.
type Document struct {
	Routes []HostDoc `yaml:"routes"`
}

// HostDoc is one authored host entry.
type HostDoc struct {
	Host        string          `yaml:"host"` // "_" for the wildcard
	Constraints []ConstraintDoc `yaml:"constraints,omitempty"`
	Paths       []PathDoc       `yaml:"paths"`
}

// PathDoc is one authored path entry.
type PathDoc struct {
	Path        string          `yaml:"path"` // "_" for the wildcard, "*" for OPTIONS
	Constraints []ConstraintDoc `yaml:"constraints,omitempty"`
	Handler     string          `yaml:"handler"`
}

// ConstraintDoc is one authored constraint. Kind selects which
// dispatch.Constraint constructor to use; Pattern/Values are interpreted
// according to Kind.
type ConstraintDoc struct {
	Param   string   `yaml:"param"`
	Kind    string   `yaml:"kind"` // int, float, uuid, date, datetime, regexp, enum
	Pattern string   `yaml:"pattern,omitempty"`
	Values  []string `yaml:"values,omitempty"`
}

// Load parses a YAML route document from r.
func Load(r io.Reader) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("config: decode route document: %w", err)
	}
	return &doc, nil
}

// Resolve turns a parsed Document into the []dispatch.Route Compile
// expects, looking up each path's Handler string in handlers.
func Resolve(doc *Document, handlers map[string]dispatch.Handler) ([]dispatch.Route, error) {
	routes := make([]dispatch.Route, 0, len(doc.Routes))
	for _, h := range doc.Routes {
		constraints, err := resolveConstraints(h.Constraints)
		if err != nil {
			return nil, err
		}

		paths := make([]dispatch.PathRoute, 0, len(h.Paths))
		for _, p := range h.Paths {
			pathConstraints, err := resolveConstraints(p.Constraints)
			if err != nil {
				return nil, err
			}
			handler, ok := handlers[p.Handler]
			if !ok {
				return nil, fmt.Errorf("config: no handler registered for %q", p.Handler)
			}
			paths = append(paths, dispatch.PathRoute{
				Path:        hostOrPathField(p.Path),
				Constraints: pathConstraints,
				Handler:     handler,
			})
		}

		routes = append(routes, dispatch.Route{
			Host:        hostOrPathField(h.Host),
			Constraints: constraints,
			Paths:       paths,
		})
	}
	return routes, nil
}

func hostOrPathField(s string) any {
	if s == "_" {
		return dispatch.Any
	}
	return s
}

func resolveConstraints(docs []ConstraintDoc) ([]dispatch.Constraint, error) {
	out := make([]dispatch.Constraint, 0, len(docs))
	for _, c := range docs {
		switch c.Kind {
		case "int":
			out = append(out, dispatch.Integer(c.Param))
		case "float":
			out = append(out, dispatch.Float(c.Param))
		case "uuid":
			out = append(out, dispatch.UUID(c.Param))
		case "date":
			out = append(out, dispatch.Date(c.Param))
		case "datetime":
			out = append(out, dispatch.DateTime(c.Param))
		case "regexp":
			out = append(out, dispatch.Regexp(c.Param, c.Pattern))
		case "enum":
			out = append(out, dispatch.Enum(c.Param, c.Values...))
		default:
			return nil, fmt.Errorf("config: unknown constraint kind %q for param %q", c.Kind, c.Param)
		}
	}
	return out, nil
}
