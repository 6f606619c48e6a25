// Copyright 2025 The Rivaas Authors
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

package httplog

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "rivaas.dev/httplog"

// instruments counts what happens to log lines.
type instruments struct {
	written metric.Int64Counter
	failed  metric.Int64Counter
	dropped metric.Int64Counter
}

func newInstruments(mp metric.MeterProvider) (*instruments, error) {
	meter := mp.Meter(meterName)

	var (
		inst instruments
		err  error
	)

	inst.written, err = meter.Int64Counter(
		"httplog_lines_written_total",
		metric.WithDescription("Total number of log lines written to the destination"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create lines written counter: %w", err)
	}

	inst.failed, err = meter.Int64Counter(
		"httplog_write_failures_total",
		metric.WithDescription("Total number of log lines the destination failed to accept"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create write failures counter: %w", err)
	}

	inst.dropped, err = meter.Int64Counter(
		"httplog_lines_dropped_total",
		metric.WithDescription("Total number of log lines dropped because the async queue was full"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create lines dropped counter: %w", err)
	}

	return &inst, nil
}

func (i *instruments) record(c metric.Int64Counter, dest Destination, level Level) {
	c.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("destination", dest.Kind().String()),
		attribute.String("level", level.String()),
	))
}
