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

package tlsprovider

import (
	"crypto/tls"
)

// DynamicConfig returns a client TLS configuration that uses the material
// published by the provider at the time of each handshake, so connections
// made after a rotation use the new material.
//
// serverName is the host being dialled, either a DNS name or an IP address.
// The server certificate must be valid for it.
func DynamicConfig(provider Service, serverName string) *tls.Config {
	return &tls.Config{
		MinVersion: tls.VersionTLS12,
		ServerName: serverName,
		// Standard verification is replaced by VerifyConnection, which
		// verifies against the current roots.
		// #nosec G402
		InsecureSkipVerify: true,
		GetClientCertificate: func(*tls.CertificateRequestInfo) (*tls.Certificate, error) {
			if cert := provider.Context().Certificate; cert != nil {
				return cert, nil
			}
			// No certificate is sent.
			return &tls.Certificate{}, nil
		},
		VerifyConnection: func(state tls.ConnectionState) error {
			return provider.TrustManager().VerifyPeer(state, serverName)
		},
	}
}
