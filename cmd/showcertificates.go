// Copyright © 2020 Attestant Limited.
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

// Package cmd contains commands run by the daemon in place of exporting.
package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/attestantio/exportertls/core"
	"github.com/attestantio/exportertls/policy"
	"github.com/attestantio/exportertls/services/locator"
	standardtlsprovider "github.com/attestantio/exportertls/services/tlsprovider/standard"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// ShowCertificates shows information about the TLS material configured for exporters.
func ShowCertificates(ctx context.Context, out io.Writer, props core.Properties, locator locator.Service) error {
	if !props.Bool(core.KeyEnabled, false) {
		fmt.Fprintf(out, "Exporter TLS is not enabled; set %s to enable it\n", core.KeyEnabled)
		return nil
	}

	policy, err := policy.New(ctx, props, locator)
	if err != nil {
		return errors.Wrap(err, "failed to build TLS policy")
	}
	for _, resource := range policy.CACertificates {
		fmt.Fprintf(out, "CA certificates obtained from %s\n", resource.Ref)
	}
	if policy.Certificate != nil {
		fmt.Fprintf(out, "Client certificate obtained from %s\n", policy.Certificate.Ref)
	}
	if policy.Key != nil {
		fmt.Fprintf(out, "Client key obtained from %s\n", policy.Key.Ref)
	}
	if policy.CertificateRevocationList != nil {
		fmt.Fprintf(out, "Certificate revocation list obtained from %s\n", policy.CertificateRevocationList.Ref)
	}
	fmt.Fprintln(out)

	provider, err := standardtlsprovider.New(ctx,
		standardtlsprovider.WithLogLevel(zerolog.Disabled),
		standardtlsprovider.WithPolicy(policy),
		standardtlsprovider.WithWatchFiles(false),
	)
	if err != nil {
		return errors.Wrap(err, "invalid TLS material")
	}
	defer provider.Stop()
	current := provider.Context()

	if current.Certificate == nil {
		fmt.Fprintf(out, "No client certificate configured\n")
	} else {
		cert := current.Certificate.Leaf
		fmt.Fprintf(out, "Client certificate issued by: %s\n", cert.Issuer.CommonName)
		if cert.NotAfter.Before(time.Now()) {
			fmt.Fprintf(out, "WARNING: client certificate expired at: %v\n", cert.NotAfter)
		} else {
			fmt.Fprintf(out, "Client certificate expires: %v\n", cert.NotAfter)
		}
		if policy.CertificateExpirationWarningThreshold > 0 && time.Until(cert.NotAfter) <= policy.CertificateExpirationWarningThreshold {
			fmt.Fprintf(out, "WARNING: client certificate expires within %v\n", policy.CertificateExpirationWarningThreshold)
		}
		fmt.Fprintf(out, "Client certificate issued to: %s\n", cert.Subject.CommonName)
		fmt.Fprintf(out, "Client certificate fingerprint: %s\n", current.Fingerprint)
	}

	if crl := current.TrustManager.CRL(); crl != nil {
		fmt.Fprintf(out, "\nCertificate revocation list lists %d revoked certificates\n", len(crl.RevokedCertificateEntries))
		if !crl.NextUpdate.IsZero() && crl.NextUpdate.Before(time.Now()) {
			fmt.Fprintf(out, "WARNING: certificate revocation list was due for update at: %v\n", crl.NextUpdate)
		}
		if current.Certificate != nil && current.TrustManager.IsRevoked(current.Certificate.Leaf) {
			fmt.Fprintf(out, "WARNING: client certificate has been revoked\n")
		}
	}

	for _, resource := range policy.CACertificates {
		data, err := resource.Read(ctx)
		if err != nil {
			continue
		}
		for _, cert := range parseCertificates(data) {
			fmt.Fprintf(out, "\nCertificate authority certificate is: %s\n", cert.Subject.CommonName)
			if cert.NotAfter.Before(time.Now()) {
				fmt.Fprintf(out, "WARNING: certificate authority certificate expired at: %v\n", cert.NotAfter)
			} else {
				fmt.Fprintf(out, "Certificate authority certificate expires: %v\n", cert.NotAfter)
			}
		}
	}

	return nil
}
