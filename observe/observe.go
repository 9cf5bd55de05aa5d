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

// Package observe wraps the dispatch core's Execute with tracing, metrics,
// and structured logging. It is purely additive plumbing: the dispatch
// package has no knowledge of this package, and Recorder.Execute never
// touches the matcher's internal state, only its public result.
//
// It follows an OnRequestStart/OnRequestEnd wrapper lifecycle, adapted to
// wrap a single Execute call instead of an http.Handler invocation.
package observe

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/tallyhub/dispatch"
)

const instrumentationName = "github.com/tallyhub/dispatch/observe"

// Recorder instruments dispatch.Execute with an OpenTelemetry span, a
// Prometheus latency histogram and outcome counter, and a debug-level slog
// record. It holds no state the dispatch core depends on.
type Recorder struct {
	table  *dispatch.Table
	tracer trace.Tracer
	logger *slog.Logger

	latency  *prometheus.HistogramVec
	outcomes *prometheus.CounterVec

	otelOutcomes metric.Int64Counter
}

// Options configures a Recorder. The zero value uses the global
// OpenTelemetry tracer and meter providers, log/slog's default logger,
// and a fresh (unregistered) set of Prometheus collectors.
type Options struct {
	Logger   *slog.Logger
	Tracer   trace.Tracer
	Meter    metric.Meter
	Registry prometheus.Registerer
}

// New wraps table with observability using opts. If opts.Registry is nil,
// the returned Recorder's collectors are created but not registered —
// callers that want them scraped must register opts.Registry explicitly
// (e.g. prometheus.DefaultRegisterer).
func New(table *dispatch.Table, opts Options) *Recorder {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = otel.Tracer(instrumentationName)
	}
	meter := opts.Meter
	if meter == nil {
		meter = otel.Meter(instrumentationName)
	}

	// otel.Meter returns a no-op meter until a MeterProvider is configured,
	// and a no-op meter's Int64Counter never errors; a real error here
	// means the instrument name collided with an incompatible one, which
	// we treat as "metrics disabled" rather than fail Recorder construction.
	otelOutcomes, _ := meter.Int64Counter(
		"dispatch.match.outcomes",
		metric.WithDescription("Count of Execute calls by outcome."),
	)

	r := &Recorder{
		table:  table,
		tracer: tracer,
		logger: logger,
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dispatch",
			Name:      "match_duration_seconds",
			Help:      "Time to resolve a host/path to a route, by outcome.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dispatch",
			Name:      "match_outcomes_total",
			Help:      "Count of Execute calls by outcome.",
		}, []string{"outcome"}),
		otelOutcomes: otelOutcomes,
	}

	if opts.Registry != nil {
		opts.Registry.MustRegister(r.latency, r.outcomes)
	}
	return r
}

// Execute instruments dispatch.Execute(r.table, host, path).
func (r *Recorder) Execute(ctx context.Context, host dispatch.HostInput, path dispatch.PathInput) (*dispatch.Match, error) {
	start := time.Now()
	ctx, span := r.tracer.Start(ctx, "dispatch.Execute")
	defer span.End()

	match, err := dispatch.Execute(r.table, host, path)
	elapsed := time.Since(start)
	outcome := outcomeLabel(match, err)

	r.latency.WithLabelValues(outcome).Observe(elapsed.Seconds())
	r.outcomes.WithLabelValues(outcome).Inc()
	if r.otelOutcomes != nil {
		r.otelOutcomes.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	}

	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String("dispatch.outcome", outcome))
		r.logger.DebugContext(ctx, "dispatch execute", "outcome", outcome, "error", err)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("dispatch.outcome", outcome),
		attribute.Int("dispatch.bindings", len(match.Bindings)),
	)
	r.logger.DebugContext(ctx, "dispatch execute", "outcome", outcome, "bindings", len(match.Bindings))
	return match, nil
}

func outcomeLabel(match *dispatch.Match, err error) string {
	if err == nil {
		return "match"
	}
	switch {
	case dispatch.IsHostNotFound(err):
		return "host_not_found"
	case dispatch.IsPathNotFound(err):
		return "path_not_found"
	case dispatch.IsPathBadRequest(err):
		return "path_bad_request"
	default:
		return "error"
	}
}
