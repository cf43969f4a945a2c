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
	"bytes"
	"crypto/tls"
	"crypto/x509"

	"github.com/pkg/errors"
)

// TrustManager decides whether to trust server certificates.
// A nil root pool means the system roots are used.
type TrustManager struct {
	roots   *x509.CertPool
	crl     *x509.RevocationList
	revoked map[string]struct{}
}

// NewTrustManager creates a trust manager from a root pool and an optional
// certificate revocation list.
func NewTrustManager(roots *x509.CertPool, crl *x509.RevocationList) *TrustManager {
	t := &TrustManager{
		roots: roots,
		crl:   crl,
	}
	if crl != nil {
		t.revoked = make(map[string]struct{}, len(crl.RevokedCertificateEntries))
		for _, entry := range crl.RevokedCertificateEntries {
			if entry.SerialNumber == nil {
				continue
			}
			t.revoked[entry.SerialNumber.String()] = struct{}{}
		}
	}
	return t
}

// RootCAs returns the trusted roots.
func (t *TrustManager) RootCAs() *x509.CertPool {
	return t.roots
}

// CRL returns the certificate revocation list, if any.
func (t *TrustManager) CRL() *x509.RevocationList {
	return t.crl
}

// IsRevoked returns true if the certificate is listed in the revocation
// list and was issued by the list's issuer.
func (t *TrustManager) IsRevoked(cert *x509.Certificate) bool {
	if t.crl == nil || cert == nil || cert.SerialNumber == nil {
		return false
	}
	if !bytes.Equal(cert.RawIssuer, t.crl.RawIssuer) {
		return false
	}
	_, revoked := t.revoked[cert.SerialNumber.String()]
	return revoked
}

// VerifyConnection checks the verified chains of a connection against the
// revocation list.  It runs after standard chain verification.
func (t *TrustManager) VerifyConnection(state tls.ConnectionState) error {
	if t.crl == nil {
		return nil
	}
	certs := make([]*x509.Certificate, 0, len(state.PeerCertificates))
	certs = append(certs, state.PeerCertificates...)
	for _, chain := range state.VerifiedChains {
		certs = append(certs, chain...)
	}
	for _, cert := range certs {
		if t.IsRevoked(cert) {
			return errors.Errorf("certificate %s issued by %s has been revoked", cert.SerialNumber, cert.Issuer.CommonName)
		}
	}
	return nil
}

// VerifyPeer carries out full verification of the server certificates of a
// connection: chain to the trusted roots, server name, key usage and
// revocation.
//
// serverName is the host that was dialled; an IP address is checked against
// the certificate's IP addresses.  If it is empty the name sent in the
// handshake is used.  No server name at all is an error, as the
// connection state omits IP addresses.
func (t *TrustManager) VerifyPeer(state tls.ConnectionState, serverName string) error {
	if len(state.PeerCertificates) == 0 {
		return errors.New("no server certificate presented")
	}
	if serverName == "" {
		serverName = state.ServerName
	}
	if serverName == "" {
		return errors.New("no server name to verify against")
	}

	opts := x509.VerifyOptions{
		Roots:         t.roots,
		DNSName:       serverName,
		Intermediates: x509.NewCertPool(),
		KeyUsages:     []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}
	for _, cert := range state.PeerCertificates[1:] {
		opts.Intermediates.AddCert(cert)
	}
	chains, err := state.PeerCertificates[0].Verify(opts)
	if err != nil {
		return errors.Wrap(err, "failed to verify server certificate")
	}
	state.VerifiedChains = chains

	return t.VerifyConnection(state)
}
