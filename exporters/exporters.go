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

// Package exporters defines OTLP exporter definitions that can be given TLS
// material before the underlying exporters are built.
package exporters

import (
	"crypto/tls"
	"maps"
	"time"

	"github.com/attestantio/exportertls/services/tlsprovider"
)

// Signal is a telemetry signal.
type Signal string

// Signals.
const (
	SignalTraces  Signal = "traces"
	SignalMetrics Signal = "metrics"
	SignalLogs    Signal = "logs"
)

// Transport is an OTLP transport.
type Transport string

// Transports.
const (
	TransportGRPC Transport = "grpc"
	TransportHTTP Transport = "http/protobuf"
)

// Exporter is an exporter definition.
type Exporter interface {
	// Signal returns the signal exported.
	Signal() Signal
	// Transport returns the transport used.
	Transport() Transport
}

// TLSConfigurable is an exporter definition that accepts TLS material.
type TLSConfigurable interface {
	Exporter
	// WithTLS returns a copy of the definition using the provider's TLS
	// material.  The receiver is not modified.
	WithTLS(provider tlsprovider.Service) Exporter
}

// Settings are the settings common to all exporter definitions.
type Settings struct {
	// Endpoint is either host:port or a URL.
	Endpoint string
	// Insecure disables transport security.  It is ignored if TLS is set.
	Insecure bool
	Headers  map[string]string
	Timeout  time.Duration
	// TLS is the client TLS configuration, if any.  Build fails rather than
	// export over plaintext when it is set.
	TLS *tls.Config
	// TLSProvider is the provider behind TLS, if any.  TLS reads the
	// provider's current material at each handshake.
	TLSProvider tlsprovider.Service
}

func (s Settings) withTLS(provider tlsprovider.Service, signal Signal) Settings {
	s.Headers = maps.Clone(s.Headers)
	s.TLSProvider = provider
	s.TLS = tlsprovider.DynamicConfig(provider, endpointHost(s.effectiveEndpoint(signal)))
	return s
}
