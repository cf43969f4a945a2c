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
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrPlaintextEndpoint is returned when an exporter carrying TLS material
// would export over plaintext.
var ErrPlaintextEndpoint = errors.New("exporter endpoint does not use TLS")

// endpointIsURL returns true if the endpoint is a full URL rather than host:port.
func (s Settings) endpointIsURL() bool {
	return strings.Contains(s.Endpoint, "://")
}

// effectiveEndpoint returns the endpoint the exporter will use: the
// configured endpoint, else the OTLP environment variables, else empty for
// the exporter's default.
func (s Settings) effectiveEndpoint(signal Signal) string {
	if s.Endpoint != "" {
		return s.Endpoint
	}
	for _, name := range envNames(signal, "ENDPOINT") {
		if val := strings.TrimSpace(os.Getenv(name)); val != "" {
			return val
		}
	}
	return ""
}

// checkSecure returns an error if the settings carry TLS material but the
// exporter would connect without TLS.
func (s Settings) checkSecure(signal Signal) error {
	if s.TLS == nil {
		return nil
	}
	endpoint := s.effectiveEndpoint(signal)
	if endpointScheme(endpoint) == "http" {
		return errors.Wrapf(ErrPlaintextEndpoint, "TLS material supplied for %s exporter with endpoint %q", signal, endpoint)
	}
	if s.endpointIsURL() && endpointScheme(s.Endpoint) == "https" {
		// An explicit https URL takes precedence over the environment.
		return nil
	}
	for _, name := range envNames(signal, "INSECURE") {
		if insecure, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(name))); err == nil && insecure {
			return errors.Wrapf(ErrPlaintextEndpoint, "TLS material supplied for %s exporter but %s is set", signal, name)
		}
	}
	return nil
}

// envNames returns the signal-specific and general OTLP environment
// variable names for the setting.
func envNames(signal Signal, setting string) []string {
	return []string{
		fmt.Sprintf("OTEL_EXPORTER_OTLP_%s_%s", strings.ToUpper(string(signal)), setting),
		"OTEL_EXPORTER_OTLP_" + setting,
	}
}

// endpointScheme returns the lower-case scheme of a URL endpoint, or empty
// for host:port endpoints.
func endpointScheme(endpoint string) string {
	scheme, _, found := strings.Cut(endpoint, "://")
	if !found {
		return ""
	}
	return strings.ToLower(scheme)
}

// endpointHost returns the host the exporter dials for the endpoint.
func endpointHost(endpoint string) string {
	if endpoint == "" {
		return "localhost"
	}
	if endpointScheme(endpoint) != "" {
		u, err := url.Parse(endpoint)
		if err != nil {
			return ""
		}
		return u.Hostname()
	}
	if host, _, err := net.SplitHostPort(endpoint); err == nil {
		return host
	}
	return strings.Trim(endpoint, "[]")
}
