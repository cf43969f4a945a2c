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
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/attestantio/exportertls/core"
	"github.com/attestantio/exportertls/policy"
	"github.com/pkg/errors"
)

// OTLPKeyPrefix is the prefix for exporter configuration keys.
const OTLPKeyPrefix = "otel.exporter.otlp."

// New creates an exporter definition for the signal and transport.
func New(signal Signal, transport Transport, settings Settings) (Exporter, error) {
	switch transport {
	case TransportGRPC:
		switch signal {
		case SignalTraces:
			return &TraceGRPC{Settings: settings}, nil
		case SignalMetrics:
			return &MetricGRPC{Settings: settings}, nil
		case SignalLogs:
			return &LogGRPC{Settings: settings}, nil
		}
	case TransportHTTP:
		switch signal {
		case SignalTraces:
			return &TraceHTTP{Settings: settings}, nil
		case SignalMetrics:
			return &MetricHTTP{Settings: settings}, nil
		case SignalLogs:
			return &LogHTTP{Settings: settings}, nil
		}
	default:
		return nil, errors.Errorf("unsupported transport %q", transport)
	}

	return nil, errors.Errorf("unsupported signal %q", signal)
}

// FromProperties creates an exporter definition for the signal from the
// otel.exporter.otlp configuration keys.  Signal-specific keys, for example
// otel.exporter.otlp.traces.endpoint, override the general keys.
func FromProperties(props core.Properties, signal Signal) (Exporter, error) {
	if props == nil {
		return nil, errors.New("no properties supplied")
	}

	settings := Settings{
		Insecure: lookupBool(props, signal, "insecure"),
	}
	settings.Endpoint, _ = lookup(props, signal, "endpoint")

	transport := TransportHTTP
	if key, val, exists := lookupKey(props, signal, "protocol"); exists {
		switch strings.ToLower(val) {
		case "grpc":
			transport = TransportGRPC
		case "http/protobuf", "http":
			transport = TransportHTTP
		default:
			return nil, &policy.ConfigError{Key: key, Value: val, Err: errors.New("unsupported protocol")}
		}
	}

	if key, val, exists := lookupKey(props, signal, "headers"); exists {
		headers, err := parseHeaders(val)
		if err != nil {
			return nil, &policy.ConfigError{Key: key, Value: val, Err: err}
		}
		settings.Headers = headers
	}

	if key, val, exists := lookupKey(props, signal, "timeout"); exists {
		timeout, err := parseTimeout(val)
		if err != nil {
			return nil, &policy.ConfigError{Key: key, Value: val, Err: err}
		}
		settings.Timeout = timeout
	}

	return New(signal, transport, settings)
}

// lookupKey returns the signal-specific value for the key if present, else
// the general value, along with the key that supplied it.
func lookupKey(props core.Properties, signal Signal, name string) (string, string, bool) {
	for _, key := range []string{
		fmt.Sprintf("%s%s.%s", OTLPKeyPrefix, signal, name),
		OTLPKeyPrefix + name,
	} {
		if val, exists := props.String(key); exists && strings.TrimSpace(val) != "" {
			return key, strings.TrimSpace(val), true
		}
	}
	return "", "", false
}

func lookup(props core.Properties, signal Signal, name string) (string, bool) {
	_, val, exists := lookupKey(props, signal, name)
	return val, exists
}

func lookupBool(props core.Properties, signal Signal, name string) bool {
	key, _, exists := lookupKey(props, signal, name)
	if !exists {
		return false
	}
	return props.Bool(key, false)
}

// parseHeaders parses headers of the form k1=v1,k2=v2.
func parseHeaders(input string) (map[string]string, error) {
	headers := make(map[string]string)
	for _, pair := range policy.SplitList(input) {
		key, val, found := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			return nil, errors.Errorf("invalid header %q", pair)
		}
		headers[key] = strings.TrimSpace(val)
	}
	return headers, nil
}

// maxTimeoutMillis is the largest timeout in milliseconds that fits a time.Duration.
const maxTimeoutMillis = int64(math.MaxInt64 / time.Millisecond)

// parseTimeout parses a timeout given either in milliseconds or as an
// ISO-8601 duration.
func parseTimeout(input string) (time.Duration, error) {
	if ms, err := strconv.ParseInt(input, 10, 64); err == nil {
		if ms < 0 {
			return 0, errors.New("negative duration")
		}
		if ms > maxTimeoutMillis {
			return 0, errors.New("duration too large")
		}
		return time.Duration(ms) * time.Millisecond, nil
	}
	return policy.ParseDuration(input)
}
