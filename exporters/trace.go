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

package exporters

import (
	"context"

	"github.com/attestantio/exportertls/services/tlsprovider"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"google.golang.org/grpc/credentials"
)

// SpanExporter is a definition of a span exporter.
type SpanExporter interface {
	Exporter
	// Build builds the exporter.
	Build(ctx context.Context) (sdktrace.SpanExporter, error)
}

// TraceGRPC is a span exporter over gRPC.
type TraceGRPC struct {
	Settings
}

// Signal returns the signal exported.
func (*TraceGRPC) Signal() Signal { return SignalTraces }

// Transport returns the transport used.
func (*TraceGRPC) Transport() Transport { return TransportGRPC }

// WithTLS returns a copy of the definition using the TLS material.
func (e *TraceGRPC) WithTLS(provider tlsprovider.Service) Exporter {
	return &TraceGRPC{Settings: e.withTLS(provider, SignalTraces)}
}

// Build builds the exporter.
func (e *TraceGRPC) Build(ctx context.Context) (sdktrace.SpanExporter, error) {
	if err := e.checkSecure(SignalTraces); err != nil {
		return nil, err
	}

	opts := make([]otlptracegrpc.Option, 0)
	switch {
	case e.Endpoint == "":
	case e.endpointIsURL():
		opts = append(opts, otlptracegrpc.WithEndpointURL(e.Endpoint))
	default:
		opts = append(opts, otlptracegrpc.WithEndpoint(e.Endpoint))
	}
	switch {
	case e.TLS != nil:
		opts = append(opts, otlptracegrpc.WithTLSCredentials(credentials.NewTLS(e.TLS)))
	case e.Insecure:
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	if len(e.Headers) > 0 {
		opts = append(opts, otlptracegrpc.WithHeaders(e.Headers))
	}
	if e.Timeout > 0 {
		opts = append(opts, otlptracegrpc.WithTimeout(e.Timeout))
	}

	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create gRPC span exporter")
	}

	return exporter, nil
}

// TraceHTTP is a span exporter over HTTP.
type TraceHTTP struct {
	Settings
}

// Signal returns the signal exported.
func (*TraceHTTP) Signal() Signal { return SignalTraces }

// Transport returns the transport used.
func (*TraceHTTP) Transport() Transport { return TransportHTTP }

// WithTLS returns a copy of the definition using the TLS material.
func (e *TraceHTTP) WithTLS(provider tlsprovider.Service) Exporter {
	return &TraceHTTP{Settings: e.withTLS(provider, SignalTraces)}
}

// Build builds the exporter.
func (e *TraceHTTP) Build(ctx context.Context) (sdktrace.SpanExporter, error) {
	if err := e.checkSecure(SignalTraces); err != nil {
		return nil, err
	}

	opts := make([]otlptracehttp.Option, 0)
	switch {
	case e.Endpoint == "":
	case e.endpointIsURL():
		opts = append(opts, otlptracehttp.WithEndpointURL(e.Endpoint))
	default:
		opts = append(opts, otlptracehttp.WithEndpoint(e.Endpoint))
	}
	switch {
	case e.TLS != nil:
		opts = append(opts, otlptracehttp.WithTLSClientConfig(e.TLS))
	case e.Insecure:
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	if len(e.Headers) > 0 {
		opts = append(opts, otlptracehttp.WithHeaders(e.Headers))
	}
	if e.Timeout > 0 {
		opts = append(opts, otlptracehttp.WithTimeout(e.Timeout))
	}

	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create HTTP span exporter")
	}

	return exporter, nil
}
