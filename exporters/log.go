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
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"google.golang.org/grpc/credentials"
)

// LogExporter is a definition of a log exporter.
type LogExporter interface {
	Exporter
	// Build builds the exporter.
	Build(ctx context.Context) (sdklog.Exporter, error)
}

// LogGRPC is a log exporter over gRPC.
type LogGRPC struct {
	Settings
}

// Signal returns the signal exported.
func (*LogGRPC) Signal() Signal { return SignalLogs }

// Transport returns the transport used.
func (*LogGRPC) Transport() Transport { return TransportGRPC }

// WithTLS returns a copy of the definition using the TLS material.
func (e *LogGRPC) WithTLS(provider tlsprovider.Service) Exporter {
	return &LogGRPC{Settings: e.withTLS(provider, SignalLogs)}
}

// Build builds the exporter.
func (e *LogGRPC) Build(ctx context.Context) (sdklog.Exporter, error) {
	if err := e.checkSecure(SignalLogs); err != nil {
		return nil, err
	}

	opts := make([]otlploggrpc.Option, 0)
	switch {
	case e.Endpoint == "":
	case e.endpointIsURL():
		opts = append(opts, otlploggrpc.WithEndpointURL(e.Endpoint))
	default:
		opts = append(opts, otlploggrpc.WithEndpoint(e.Endpoint))
	}
	switch {
	case e.TLS != nil:
		opts = append(opts, otlploggrpc.WithTLSCredentials(credentials.NewTLS(e.TLS)))
	case e.Insecure:
		opts = append(opts, otlploggrpc.WithInsecure())
	}
	if len(e.Headers) > 0 {
		opts = append(opts, otlploggrpc.WithHeaders(e.Headers))
	}
	if e.Timeout > 0 {
		opts = append(opts, otlploggrpc.WithTimeout(e.Timeout))
	}

	exporter, err := otlploggrpc.New(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create gRPC log exporter")
	}

	return exporter, nil
}

// LogHTTP is a log exporter over HTTP.
type LogHTTP struct {
	Settings
}

// Signal returns the signal exported.
func (*LogHTTP) Signal() Signal { return SignalLogs }

// Transport returns the transport used.
func (*LogHTTP) Transport() Transport { return TransportHTTP }

// WithTLS returns a copy of the definition using the TLS material.
func (e *LogHTTP) WithTLS(provider tlsprovider.Service) Exporter {
	return &LogHTTP{Settings: e.withTLS(provider, SignalLogs)}
}

// Build builds the exporter.
func (e *LogHTTP) Build(ctx context.Context) (sdklog.Exporter, error) {
	if err := e.checkSecure(SignalLogs); err != nil {
		return nil, err
	}

	opts := make([]otlploghttp.Option, 0)
	switch {
	case e.Endpoint == "":
	case e.endpointIsURL():
		opts = append(opts, otlploghttp.WithEndpointURL(e.Endpoint))
	default:
		opts = append(opts, otlploghttp.WithEndpoint(e.Endpoint))
	}
	switch {
	case e.TLS != nil:
		opts = append(opts, otlploghttp.WithTLSClientConfig(e.TLS))
	case e.Insecure:
		opts = append(opts, otlploghttp.WithInsecure())
	}
	if len(e.Headers) > 0 {
		opts = append(opts, otlploghttp.WithHeaders(e.Headers))
	}
	if e.Timeout > 0 {
		opts = append(opts, otlploghttp.WithTimeout(e.Timeout))
	}

	exporter, err := otlploghttp.New(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create HTTP log exporter")
	}

	return exporter, nil
}
