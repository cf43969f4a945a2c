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
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"google.golang.org/grpc/credentials"
)

// MetricExporter is a definition of a metric exporter.
type MetricExporter interface {
	Exporter
	// Build builds the exporter.
	Build(ctx context.Context) (sdkmetric.Exporter, error)
}

// MetricGRPC is a metric exporter over gRPC.
type MetricGRPC struct {
	Settings
}

// Signal returns the signal exported.
func (*MetricGRPC) Signal() Signal { return SignalMetrics }

// Transport returns the transport used.
func (*MetricGRPC) Transport() Transport { return TransportGRPC }

// WithTLS returns a copy of the definition using the TLS material.
func (e *MetricGRPC) WithTLS(provider tlsprovider.Service) Exporter {
	return &MetricGRPC{Settings: e.withTLS(provider, SignalMetrics)}
}

// Build builds the exporter.
func (e *MetricGRPC) Build(ctx context.Context) (sdkmetric.Exporter, error) {
	if err := e.checkSecure(SignalMetrics); err != nil {
		return nil, err
	}

	opts := make([]otlpmetricgrpc.Option, 0)
	switch {
	case e.Endpoint == "":
	case e.endpointIsURL():
		opts = append(opts, otlpmetricgrpc.WithEndpointURL(e.Endpoint))
	default:
		opts = append(opts, otlpmetricgrpc.WithEndpoint(e.Endpoint))
	}
	switch {
	case e.TLS != nil:
		opts = append(opts, otlpmetricgrpc.WithTLSCredentials(credentials.NewTLS(e.TLS)))
	case e.Insecure:
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	if len(e.Headers) > 0 {
		opts = append(opts, otlpmetricgrpc.WithHeaders(e.Headers))
	}
	if e.Timeout > 0 {
		opts = append(opts, otlpmetricgrpc.WithTimeout(e.Timeout))
	}

	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create gRPC metric exporter")
	}

	return exporter, nil
}

// MetricHTTP is a metric exporter over HTTP.
type MetricHTTP struct {
	Settings
}

// Signal returns the signal exported.
func (*MetricHTTP) Signal() Signal { return SignalMetrics }

// Transport returns the transport used.
func (*MetricHTTP) Transport() Transport { return TransportHTTP }

// WithTLS returns a copy of the definition using the TLS material.
func (e *MetricHTTP) WithTLS(provider tlsprovider.Service) Exporter {
	return &MetricHTTP{Settings: e.withTLS(provider, SignalMetrics)}
}

// Build builds the exporter.
func (e *MetricHTTP) Build(ctx context.Context) (sdkmetric.Exporter, error) {
	if err := e.checkSecure(SignalMetrics); err != nil {
		return nil, err
	}

	opts := make([]otlpmetrichttp.Option, 0)
	switch {
	case e.Endpoint == "":
	case e.endpointIsURL():
		opts = append(opts, otlpmetrichttp.WithEndpointURL(e.Endpoint))
	default:
		opts = append(opts, otlpmetrichttp.WithEndpoint(e.Endpoint))
	}
	switch {
	case e.TLS != nil:
		opts = append(opts, otlpmetrichttp.WithTLSClientConfig(e.TLS))
	case e.Insecure:
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	if len(e.Headers) > 0 {
		opts = append(opts, otlpmetrichttp.WithHeaders(e.Headers))
	}
	if e.Timeout > 0 {
		opts = append(opts, otlpmetrichttp.WithTimeout(e.Timeout))
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create HTTP metric exporter")
	}

	return exporter, nil
}
