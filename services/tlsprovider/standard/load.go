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

package standard

import (
	"context"
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"time"

	"github.com/attestantio/exportertls/core"
	"github.com/attestantio/exportertls/services/locator"
	"github.com/attestantio/exportertls/services/tlsprovider"
	"github.com/pkg/errors"
)

// load reads all material from the policy's resources and builds a context.
func (s *Service) load(ctx context.Context) (*tlsprovider.Context, error) {
	roots, caCerts, err := s.loadRoots(ctx)
	if err != nil {
		return nil, err
	}

	crl, err := s.loadCRL(ctx, caCerts)
	if err != nil {
		return nil, err
	}

	cert, err := s.loadCertificate(ctx)
	if err != nil {
		return nil, err
	}

	trustManager := tlsprovider.NewTrustManager(roots, crl)
	config := &tls.Config{
		MinVersion: tls.VersionTLS12,
		RootCAs:    roots,
	}
	if crl != nil {
		config.VerifyConnection = trustManager.VerifyConnection
	}

	res := &tlsprovider.Context{
		Config:       config,
		TrustManager: trustManager,
		LoadedAt:     time.Now(),
	}
	if cert != nil {
		config.Certificates = []tls.Certificate{*cert}
		res.Certificate = cert
		res.NotAfter = cert.Leaf.NotAfter
		fingerprint := sha256.Sum256(cert.Leaf.Raw)
		res.Fingerprint = hex.EncodeToString(fingerprint[:])
	}

	return res, nil
}

// loadRoots builds the root pool from the CA resources, in order.
// A nil pool is returned if no CA resources are configured.
func (s *Service) loadRoots(ctx context.Context) (*x509.CertPool, []*x509.Certificate, error) {
	if len(s.policy.CACertificates) == 0 {
		return nil, nil, nil
	}

	pool := x509.NewCertPool()
	caCerts := make([]*x509.Certificate, 0, len(s.policy.CACertificates))
	for _, resource := range s.policy.CACertificates {
		data, err := read(ctx, core.KeyCACertificate, resource)
		if err != nil {
			return nil, nil, err
		}
		certs, err := parseCertificates(data)
		if err != nil {
			return nil, nil, &tlsprovider.CredentialLoadError{Key: core.KeyCACertificate, Err: errors.Wrap(err, resource.Ref)}
		}
		for _, cert := range certs {
			pool.AddCert(cert)
		}
		caCerts = append(caCerts, certs...)
	}

	return pool, caCerts, nil
}

// loadCertificate loads the client certificate and key, if configured.
func (s *Service) loadCertificate(ctx context.Context) (*tls.Certificate, error) {
	switch {
	case s.policy.Certificate == nil && s.policy.Key == nil:
		return nil, nil
	case s.policy.Certificate == nil:
		return nil, &tlsprovider.CredentialLoadError{Key: core.KeyKey, Err: errors.New("key supplied without certificate")}
	case s.policy.Key == nil:
		return nil, &tlsprovider.CredentialLoadError{Key: core.KeyCertificate, Err: errors.New("certificate supplied without key")}
	}

	certPEM, err := read(ctx, core.KeyCertificate, s.policy.Certificate)
	if err != nil {
		return nil, err
	}
	keyPEM, err := read(ctx, core.KeyKey, s.policy.Key)
	if err != nil {
		return nil, err
	}
	keyPEM, err = decryptKey(keyPEM, s.policy.KeyPassword)
	if err != nil {
		return nil, &tlsprovider.CredentialLoadError{Key: core.KeyKey, Err: err}
	}

	cert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return nil, &tlsprovider.CredentialLoadError{Key: core.KeyCertificate, Err: err}
	}
	if len(cert.Certificate) == 0 {
		return nil, &tlsprovider.CredentialLoadError{Key: core.KeyCertificate, Err: errors.New("certificate file does not contain a certificate")}
	}
	if cert.Leaf == nil {
		cert.Leaf, err = x509.ParseCertificate(cert.Certificate[0])
		if err != nil {
			return nil, &tlsprovider.CredentialLoadError{Key: core.KeyCertificate, Err: errors.Wrap(err, "failed to parse certificate")}
		}
	}

	return &cert, nil
}

// loadCRL loads the certificate revocation list, if configured.  If the
// issuer of the list is one of the CA certificates its signature is checked.
func (s *Service) loadCRL(ctx context.Context, caCerts []*x509.Certificate) (*x509.RevocationList, error) {
	if s.policy.CertificateRevocationList == nil {
		return nil, nil
	}

	data, err := read(ctx, core.KeyCertificateRevocationList, s.policy.CertificateRevocationList)
	if err != nil {
		return nil, err
	}
	der := data
	if block, _ := pem.Decode(data); block != nil {
		if block.Type != "X509 CRL" {
			return nil, &tlsprovider.CredentialLoadError{Key: core.KeyCertificateRevocationList, Err: errors.Errorf("unexpected PEM block %q", block.Type)}
		}
		der = block.Bytes
	}
	crl, err := x509.ParseRevocationList(der)
	if err != nil {
		return nil, &tlsprovider.CredentialLoadError{Key: core.KeyCertificateRevocationList, Err: errors.Wrap(err, "failed to parse revocation list")}
	}

	for _, caCert := range caCerts {
		if string(caCert.RawSubject) != string(crl.RawIssuer) {
			continue
		}
		if err := crl.CheckSignatureFrom(caCert); err != nil {
			return nil, &tlsprovider.CredentialLoadError{Key: core.KeyCertificateRevocationList, Err: errors.Wrap(err, "invalid revocation list signature")}
		}
	}

	return crl, nil
}

func read(ctx context.Context, key string, resource *core.Resource) ([]byte, error) {
	data, err := resource.Read(ctx)
	if err != nil {
		return nil, &locator.ResolutionError{Key: key, Ref: resource.Ref, Err: err}
	}
	return data, nil
}

// parseCertificates parses all certificates in PEM data.
func parseCertificates(data []byte) ([]*x509.Certificate, error) {
	certs := make([]*x509.Certificate, 0)
	for len(data) > 0 {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" || len(block.Headers) != 0 {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse certificate")
		}
		certs = append(certs, cert)
	}
	if len(certs) == 0 {
		return nil, errors.New("no certificates found")
	}
	return certs, nil
}

// decryptKey decrypts a legacy encrypted PEM private key with the password.
// Unencrypted keys are returned unchanged.
func decryptKey(keyPEM []byte, password string) ([]byte, error) {
	block, rest := pem.Decode(keyPEM)
	if block == nil {
		// Leave it to the key pair parser to report.
		return keyPEM, nil
	}
	//nolint:staticcheck
	if !x509.IsEncryptedPEMBlock(block) {
		return keyPEM, nil
	}
	if password == "" {
		return nil, errors.New("key is encrypted but no password supplied")
	}
	//nolint:staticcheck
	der, err := x509.DecryptPEMBlock(block, []byte(password))
	if err != nil {
		return nil, errors.Wrap(err, "failed to decrypt key")
	}
	decrypted := pem.EncodeToMemory(&pem.Block{Type: block.Type, Bytes: der})
	return append(decrypted, rest...), nil
}
