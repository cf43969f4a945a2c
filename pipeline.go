// Copyright © 2026 Attestant Limited.
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

package main

import (
	"context"
	"strings"

	"github.com/attestantio/exportertls/core"
	"github.com/attestantio/exportertls/exporters"
	"github.com/attestantio/exportertls/services/customizer"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// pipeline holds the telemetry providers installed by the daemon.
type pipeline struct {
	shutdowns []func(context.Context) error
}

// Shutdown flushes and shuts down all installed providers.
func (p *pipeline) Shutdown(ctx context.Context) error {
	var firstErr error
	for i := len(p.shutdowns) - 1; i >= 0; i-- {
		if err := p.shutdowns[i](ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// startPipeline builds an exporter for each configured signal, passes it
// through the customizer and installs the matching SDK provider globally.
func startPipeline(ctx context.Context, customizer customizer.Service) (*pipeline, error) {
	res, err := resource.Merge(resource.Default(),
		resource.NewSchemaless(attribute.String("service.name", viper.GetString("service-name"))),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create telemetry resource")
	}

	props := core.NewViperProperties(nil)
	p := &pipeline{}
	for _, signal := range configuredSignals() {
		if err := p.start(ctx, customizer, signal, props, res); err != nil {
			//nolint:errcheck
			p.Shutdown(ctx)
			return nil, err
		}
		log.Info().Str("signal", string(signal)).Msg("Exporter started")
	}

	return p, nil
}

func (p *pipeline) start(ctx context.Context,
	customizer customizer.Service,
	signal exporters.Signal,
	props core.Properties,
	res *resource.Resource,
) error {
	exporter, err := exporters.FromProperties(props, signal)
	if err != nil {
		return errors.Wrapf(err, "failed to obtain %s exporter definition", signal)
	}
	log.Trace().Str("signal", string(signal)).Str("transport", string(exporter.Transport())).Msg("Obtained exporter definition")

	switch exporter := exporter.(type) {
	case exporters.SpanExporter:
		return p.startTraces(ctx, customizer, exporter, props, res)
	case exporters.MetricExporter:
		return p.startMetrics(ctx, customizer, exporter, props, res)
	case exporters.LogExporter:
		return p.startLogs(ctx, customizer, exporter, props, res)
	default:
		return errors.Errorf("unhandled exporter for %s", signal)
	}
}

func (p *pipeline) startTraces(ctx context.Context,
	customizer customizer.Service,
	exporter exporters.SpanExporter,
	props core.Properties,
	res *resource.Resource,
) error {
	exporter, err := customizer.CustomizeSpan(ctx, exporter, props)
	if err != nil {
		return errors.Wrap(err, "failed to customize span exporter")
	}
	spanExporter, err := exporter.Build(ctx)
	if err != nil {
		return err
	}
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(spanExporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)
	p.shutdowns = append(p.shutdowns, provider.Shutdown)

	return nil
}

func (p *pipeline) startMetrics(ctx context.Context,
	customizer customizer.Service,
	exporter exporters.MetricExporter,
	props core.Properties,
	res *resource.Resource,
) error {
	exporter, err := customizer.CustomizeMetric(ctx, exporter, props)
	if err != nil {
		return errors.Wrap(err, "failed to customize metric exporter")
	}
	metricExporter, err := exporter.Build(ctx)
	if err != nil {
		return err
	}
	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)
	p.shutdowns = append(p.shutdowns, provider.Shutdown)

	return nil
}

func (p *pipeline) startLogs(ctx context.Context,
	customizer customizer.Service,
	exporter exporters.LogExporter,
	props core.Properties,
	res *resource.Resource,
) error {
	exporter, err := customizer.CustomizeLog(ctx, exporter, props)
	if err != nil {
		return errors.Wrap(err, "failed to customize log exporter")
	}
	logExporter, err := exporter.Build(ctx)
	if err != nil {
		return err
	}
	provider := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(logExporter)),
		sdklog.WithResource(res),
	)
	global.SetLoggerProvider(provider)
	p.shutdowns = append(p.shutdowns, provider.Shutdown)

	return nil
}

// configuredSignals returns the signals to export, accepting either a list or
// a comma-separated string.
func configuredSignals() []exporters.Signal {
	signals := make([]exporters.Signal, 0)
	for _, item := range viper.GetStringSlice("signals") {
		for _, name := range strings.Split(item, ",") {
			if name = strings.TrimSpace(name); name != "" {
				signals = append(signals, exporters.Signal(name))
			}
		}
	}
	return signals
}
