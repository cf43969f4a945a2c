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

package policy_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/attestantio/exportertls/core"
	"github.com/attestantio/exportertls/policy"
	"github.com/attestantio/exportertls/services/locator"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

// mapLocator resolves references from a map of contents.
type mapLocator struct {
	contents map[string][]byte
	resolved []string
}

func (l *mapLocator) Resolve(_ context.Context, ref string) (*core.Resource, error) {
	l.resolved = append(l.resolved, ref)
	content, exists := l.contents[ref]
	if !exists {
		return nil, &locator.ResolutionError{Ref: ref, Err: errors.New("not found")}
	}
	return core.NewResource(ref, ref, func(context.Context) ([]byte, error) {
		return content, nil
	}), nil
}

func newMapLocator() *mapLocator {
	return &mapLocator{
		contents: map[string][]byte{
			"a.pem":      []byte("a"),
			"b.pem":      []byte("b"),
			"c.pem":      []byte("c"),
			"k.pem":      []byte("k"),
			"crl.pem":    []byte("crl"),
			"ca.pem":     []byte("ca"),
			"direct:abc": []byte("abc"),
		},
	}
}

func refs(resources []*core.Resource) []string {
	res := make([]string, 0, len(resources))
	for _, resource := range resources {
		res = append(res, resource.Ref)
	}
	return res
}

func TestNewParameters(t *testing.T) {
	ctx := context.Background()

	_, err := policy.New(ctx, nil, newMapLocator())
	require.EqualError(t, err, "no properties supplied")

	_, err = policy.New(ctx, core.MapProperties{}, nil)
	require.EqualError(t, err, "no locator supplied")
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		props    core.MapProperties
		expected *policy.Policy
		cas      []string
		err      string
	}{
		{
			name:     "Empty",
			props:    core.MapProperties{},
			expected: &policy.Policy{},
		},
		{
			name: "BlankValues",
			props: core.MapProperties{
				core.KeyCertificate:   " ",
				core.KeyCACertificate: "",
			},
			expected: &policy.Policy{},
		},
		{
			name: "CACertificates",
			props: core.MapProperties{
				core.KeyCACertificate: "a.pem, b.pem",
			},
			cas: []string{"a.pem", "b.pem"},
		},
		{
			name: "CACertificatesTrailingComma",
			props: core.MapProperties{
				core.KeyCACertificate: " b.pem ,a.pem,, ",
			},
			cas: []string{"b.pem", "a.pem"},
		},
		{
			name: "CACertificateMissing",
			props: core.MapProperties{
				core.KeyCACertificate: "a.pem, missing.pem",
			},
			err: `failed to resolve "missing.pem" for otel.exporter.easyssl.caCertificate: not found`,
		},
		{
			name: "CertificateMissing",
			props: core.MapProperties{
				core.KeyCertificate: "missing.pem",
			},
			err: `failed to resolve "missing.pem" for otel.exporter.easyssl.certificate: not found`,
		},
		{
			name: "KeyMissing",
			props: core.MapProperties{
				core.KeyCertificate: "c.pem",
				core.KeyKey:         "missing.pem",
			},
			err: `failed to resolve "missing.pem" for otel.exporter.easyssl.key: not found`,
		},
		{
			name: "CRLMissing",
			props: core.MapProperties{
				core.KeyCertificateRevocationList: "missing.pem",
			},
			err: `failed to resolve "missing.pem" for otel.exporter.easyssl.certificateRevocationList: not found`,
		},
		{
			name: "RefreshIntervalMalformed",
			props: core.MapProperties{
				core.KeyRefreshInterval: "not-a-duration",
			},
			err: `invalid value "not-a-duration" for otel.exporter.easyssl.refreshInterval: not an ISO-8601 duration`,
		},
		{
			name: "RefreshTimeoutNegative",
			props: core.MapProperties{
				core.KeyRefreshTimeout: "-PT5S",
			},
			err: `invalid value "-PT5S" for otel.exporter.easyssl.refreshTimeout: negative duration`,
		},
		{
			name: "Full",
			props: core.MapProperties{
				core.KeyEnabled:                               "true",
				core.KeyCACertificate:                         "ca.pem",
				core.KeyCertificate:                           " c.pem",
				core.KeyKey:                                   "k.pem ",
				core.KeyKeyPassword:                           " secret ",
				core.KeyCertificateRevocationList:             "crl.pem",
				core.KeyCertificateExpirationCheckInterval:    "PT1H",
				core.KeyCertificateExpirationWarningThreshold: "P7D",
				core.KeyRefreshCommand:                        "/usr/bin/renew, --force , ,",
				core.KeyRefreshInterval:                       "PT30M",
				core.KeyRefreshTimeout:                        "PT10S",
			},
			cas: []string{"ca.pem"},
			expected: &policy.Policy{
				Enabled:                               true,
				KeyPassword:                           " secret ",
				RefreshCommand:                        []string{"/usr/bin/renew", "--force"},
				RefreshInterval:                       30 * time.Minute,
				RefreshTimeout:                        10 * time.Second,
				CertificateExpirationCheckInterval:    time.Hour,
				CertificateExpirationWarningThreshold: 7 * 24 * time.Hour,
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			res, err := policy.New(ctx, test.props, newMapLocator())
			if test.err != "" {
				require.EqualError(t, err, test.err)
				return
			}
			require.NoError(t, err)
			if test.cas != nil {
				require.True(t, res.Enabled)
				require.Equal(t, test.cas, refs(res.CACertificates))
			}
			if test.expected != nil {
				require.Equal(t, test.expected.Enabled, res.Enabled)
				require.Equal(t, test.expected.KeyPassword, res.KeyPassword)
				require.Equal(t, test.expected.RefreshCommand, res.RefreshCommand)
				require.Equal(t, test.expected.RefreshInterval, res.RefreshInterval)
				require.Equal(t, test.expected.RefreshTimeout, res.RefreshTimeout)
				require.Equal(t, test.expected.CertificateExpirationCheckInterval, res.CertificateExpirationCheckInterval)
				require.Equal(t, test.expected.CertificateExpirationWarningThreshold, res.CertificateExpirationWarningThreshold)
			}
		})
	}
}

func TestNewResources(t *testing.T) {
	ctx := context.Background()

	res, err := policy.New(ctx, core.MapProperties{
		core.KeyCertificate:               "c.pem",
		core.KeyKey:                       "k.pem",
		core.KeyCertificateRevocationList: "crl.pem",
	}, newMapLocator())
	require.NoError(t, err)
	require.True(t, res.Enabled)
	require.Empty(t, res.CACertificates)
	require.Equal(t, "c.pem", res.Certificate.Ref)
	require.Equal(t, "k.pem", res.Key.Ref)
	require.Equal(t, "crl.pem", res.CertificateRevocationList.Ref)

	content, err := res.Key.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, []byte("k"), content)
}

func TestNewErrorTypes(t *testing.T) {
	ctx := context.Background()

	for _, key := range []string{
		core.KeyCertificateExpirationCheckInterval,
		core.KeyCertificateExpirationWarningThreshold,
		core.KeyRefreshInterval,
		core.KeyRefreshTimeout,
	} {
		t.Run(key, func(t *testing.T) {
			l := newMapLocator()
			_, err := policy.New(ctx, core.MapProperties{
				core.KeyCACertificate: "a.pem",
				key:                   "not-a-duration",
			}, l)
			var configErr *policy.ConfigError
			require.True(t, errors.As(err, &configErr))
			require.Equal(t, key, configErr.Key)
			// Malformed configuration fails before any resource is touched.
			require.Empty(t, l.resolved)
		})
	}

	_, err := policy.New(ctx, core.MapProperties{
		core.KeyKey: "missing.pem",
	}, newMapLocator())
	var resolutionErr *locator.ResolutionError
	require.True(t, errors.As(err, &resolutionErr))
	require.Equal(t, core.KeyKey, resolutionErr.Key)
	require.Equal(t, "missing.pem", resolutionErr.Ref)
}
