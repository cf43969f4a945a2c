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

package tlsprovider_test

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"net"
	"testing"
	"time"

	"github.com/attestantio/exportertls/services/tlsprovider"
	"github.com/attestantio/exportertls/testing/certs"
	"github.com/stretchr/testify/require"
)

func pemDecode(t *testing.T, data []byte) ([]byte, string) {
	t.Helper()
	block, _ := pem.Decode(data)
	require.NotNil(t, block)
	return block.Bytes, block.Type
}

func TestTrustManager(t *testing.T) {
	ca := certs.NewAuthority(t, "Test CA")
	other := certs.NewAuthority(t, "Other CA")
	revoked := ca.Issue(t, "revoked", 5, time.Now().Add(time.Hour))
	good := ca.Issue(t, "good", 6, time.Now().Add(time.Hour))
	sameSerial := other.Issue(t, "other", 5, time.Now().Add(time.Hour))
	ipOnly := ca.IssueForIP(t, "ip", 7, time.Now().Add(time.Hour), net.ParseIP("127.0.0.1"))

	der, _ := pemDecode(t, ca.RevocationList(t, 5))
	crl, err := x509.ParseRevocationList(der)
	require.NoError(t, err)

	roots := x509.NewCertPool()
	roots.AddCert(ca.Cert)
	trustManager := tlsprovider.NewTrustManager(roots, crl)
	require.Same(t, roots, trustManager.RootCAs())
	require.Same(t, crl, trustManager.CRL())

	require.True(t, trustManager.IsRevoked(revoked.Cert))
	require.False(t, trustManager.IsRevoked(good.Cert))
	// Serial numbers are only meaningful for the issuer of the list.
	require.False(t, trustManager.IsRevoked(sameSerial.Cert))
	require.False(t, trustManager.IsRevoked(nil))

	tests := []struct {
		name       string
		state      tls.ConnectionState
		serverName string
		err        string
	}{
		{
			name:       "Empty",
			serverName: "localhost",
			err:        "no server certificate presented",
		},
		{
			name:       "Good",
			state:      tls.ConnectionState{PeerCertificates: []*x509.Certificate{good.Cert}},
			serverName: "localhost",
		},
		{
			name:  "HandshakeName",
			state: tls.ConnectionState{ServerName: "localhost", PeerCertificates: []*x509.Certificate{good.Cert}},
		},
		{
			name:  "NoServerName",
			state: tls.ConnectionState{PeerCertificates: []*x509.Certificate{good.Cert}},
			err:   "no server name to verify against",
		},
		{
			name:       "DialledNameWins",
			state:      tls.ConnectionState{ServerName: "localhost", PeerCertificates: []*x509.Certificate{good.Cert}},
			serverName: "example.com",
			err:        "failed to verify server certificate",
		},
		{
			name:       "Revoked",
			state:      tls.ConnectionState{PeerCertificates: []*x509.Certificate{revoked.Cert}},
			serverName: "localhost",
			err:        "has been revoked",
		},
		{
			name:       "WrongName",
			state:      tls.ConnectionState{PeerCertificates: []*x509.Certificate{good.Cert}},
			serverName: "example.com",
			err:        "failed to verify server certificate",
		},
		{
			name:       "IPWithoutIPSAN",
			state:      tls.ConnectionState{PeerCertificates: []*x509.Certificate{good.Cert}},
			serverName: "127.0.0.1",
			err:        "doesn't contain any IP SANs",
		},
		{
			name:       "IP",
			state:      tls.ConnectionState{PeerCertificates: []*x509.Certificate{ipOnly.Cert}},
			serverName: "127.0.0.1",
		},
		{
			name:       "IPMismatch",
			state:      tls.ConnectionState{PeerCertificates: []*x509.Certificate{ipOnly.Cert}},
			serverName: "10.0.0.5",
			err:        "failed to verify server certificate",
		},
		{
			name:       "Untrusted",
			state:      tls.ConnectionState{PeerCertificates: []*x509.Certificate{sameSerial.Cert}},
			serverName: "localhost",
			err:        "failed to verify server certificate",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := trustManager.VerifyPeer(test.state, test.serverName)
			if test.err != "" {
				require.ErrorContains(t, err, test.err)
			} else {
				require.NoError(t, err)
			}
		})
	}

	// Without a revocation list nothing is revoked.
	require.NoError(t, tlsprovider.NewTrustManager(roots, nil).VerifyConnection(tls.ConnectionState{
		PeerCertificates: []*x509.Certificate{revoked.Cert},
	}))
}
