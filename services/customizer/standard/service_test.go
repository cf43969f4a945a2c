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

package standard_test

import (
	"context"
	"crypto/tls"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/attestantio/exportertls/core"
	"github.com/attestantio/exportertls/exporters"
	"github.com/attestantio/exportertls/policy"
	"github.com/attestantio/exportertls/services/customizer/standard"
	"github.com/attestantio/exportertls/services/tlsprovider"
	"github.com/attestantio/exportertls/services/tlsprovider/cache"
	"github.com/attestantio/exportertls/testing/certs"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

// fileLocator resolves references as file paths, counting resolutions.
type fileLocator struct {
	resolved atomic.Int32
}

func (l *fileLocator) Resolve(_ context.Context, ref string) (*core.Resource, error) {
	l.resolved.Add(1)
	return core.NewResource(ref, "file://"+ref, func(_ context.Context) ([]byte, error) {
		return os.ReadFile(ref)
	}), nil
}

type provider struct {
	context *tlsprovider.Context
}

func (p *provider) Context() *tlsprovider.Context { return p.context }

func (p *provider) TLSConfig() *tls.Config { return p.context.Config.Clone() }

func (p *provider) TrustManager() *tlsprovider.TrustManager { return p.context.TrustManager }

func (*provider) State() tlsprovider.State { return tlsprovider.StateReady }

func newProvider() *provider {
	return &provider{context: &tlsprovider.Context{
		Config:       &tls.Config{MinVersion: tls.VersionTLS12},
		TrustManager: tlsprovider.NewTrustManager(nil, nil),
	}}
}

// unknownExporter is an exporter that does not accept TLS material.
type unknownExporter struct{}

func (*unknownExporter) Signal() exporters.Signal { return exporters.SignalTraces }

func (*unknownExporter) Transport() exporters.Transport { return exporters.Transport("carrier-pigeon") }

func allExporters(t *testing.T) []exporters.Exporter {
	t.Helper()
	res := make([]exporters.Exporter, 0, 6)
	for _, signal := range []exporters.Signal{exporters.SignalTraces, exporters.SignalMetrics, exporters.SignalLogs} {
		for _, transport := range []exporters.Transport{exporters.TransportGRPC, exporters.TransportHTTP} {
			exporter, err := exporters.New(signal, transport, exporters.Settings{
				Endpoint: "collector:4317",
				Headers:  map[string]string{"tenant": "a"},
			})
			require.NoError(t, err)
			res = append(res, exporter)
		}
	}
	return res
}

func enabledProps() core.MapProperties {
	return core.MapProperties{
		core.KeyEnabled:       "true",
		core.KeyCACertificate: "/etc/ca.pem",
	}
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	_, err := standard.New(ctx)
	require.EqualError(t, err, "problem with parameters: no locator specified")

	_, err = standard.New(ctx, standard.WithLocator(&fileLocator{}))
	require.NoError(t, err)
}

func TestCustomizeDisabled(t *testing.T) {
	ctx := context.Background()
	locator := &fileLocator{}
	var builds atomic.Int32
	s, err := standard.New(ctx,
		standard.WithLocator(locator),
		standard.WithProviderBuilder(func(_ context.Context, _ *policy.Policy, _ core.Properties) (tlsprovider.Service, error) {
			builds.Add(1)
			return newProvider(), nil
		}),
	)
	require.NoError(t, err)

	tests := []struct {
		name  string
		props core.MapProperties
	}{
		{
			name:  "Absent",
			props: core.MapProperties{core.KeyCACertificate: "/etc/ca.pem"},
		},
		{
			name:  "False",
			props: core.MapProperties{core.KeyEnabled: "false", core.KeyCACertificate: "/etc/ca.pem"},
		},
		{
			name:  "Invalid",
			props: core.MapProperties{core.KeyEnabled: "maybe", core.KeyCACertificate: "/etc/ca.pem"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			for _, exporter := range allExporters(t) {
				res, err := s.Customize(ctx, exporter, test.props)
				require.NoError(t, err)
				require.Same(t, exporter, res)
			}
		})
	}
	require.Zero(t, locator.resolved.Load())
	require.Zero(t, builds.Load())
	require.Nil(t, s.Provider())
	require.Nil(t, s.Policy())
}

func TestCustomizeConcurrent(t *testing.T) {
	ctx := context.Background()
	locator := &fileLocator{}
	var builds atomic.Int32
	built := newProvider()
	s, err := standard.New(ctx,
		standard.WithLocator(locator),
		standard.WithProviderBuilder(func(_ context.Context, _ *policy.Policy, _ core.Properties) (tlsprovider.Service, error) {
			builds.Add(1)
			// Widen the window for duplicate construction.
			time.Sleep(10 * time.Millisecond)
			return built, nil
		}),
	)
	require.NoError(t, err)

	props := enabledProps()
	var wg sync.WaitGroup
	errs := make(chan error, 60)
	for range 10 {
		for _, exporter := range allExporters(t) {
			wg.Add(1)
			go func() {
				defer wg.Done()
				res, err := s.Customize(ctx, exporter, props)
				if err != nil {
					errs <- err
					return
				}
				if res == exporter {
					errs <- errors.New("exporter not customized")
				}
			}()
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	require.Equal(t, int32(1), builds.Load())
	require.Equal(t, int32(1), locator.resolved.Load())
	require.Same(t, built, s.Provider())
	require.NotNil(t, s.Policy())
	require.Len(t, s.Policy().CACertificates, 1)
}

func TestCustomizeCopies(t *testing.T) {
	ctx := context.Background()
	built := newProvider()
	s, err := standard.New(ctx,
		standard.WithLocator(&fileLocator{}),
		standard.WithProviderBuilder(func(_ context.Context, _ *policy.Policy, _ core.Properties) (tlsprovider.Service, error) {
			return built, nil
		}),
	)
	require.NoError(t, err)

	original := &exporters.TraceGRPC{Settings: exporters.Settings{
		Endpoint: "collector:4317",
		Headers:  map[string]string{"tenant": "a"},
		Timeout:  time.Second,
	}}
	res, err := s.CustomizeSpan(ctx, original, enabledProps())
	require.NoError(t, err)
	customized, isTraceGRPC := res.(*exporters.TraceGRPC)
	require.True(t, isTraceGRPC)

	require.Nil(t, original.TLS)
	require.NotNil(t, customized.TLS)
	require.NotNil(t, customized.TLS.GetClientCertificate)
	require.Same(t, built, customized.TLSProvider)
	require.Equal(t, "collector", customized.TLS.ServerName)
	require.Equal(t, original.Endpoint, customized.Endpoint)
	require.Equal(t, original.Headers, customized.Headers)
	require.Equal(t, original.Timeout, customized.Timeout)

	metric, err := s.CustomizeMetric(ctx, &exporters.MetricHTTP{}, enabledProps())
	require.NoError(t, err)
	require.NotNil(t, metric.(*exporters.MetricHTTP).TLS)

	logExporter, err := s.CustomizeLog(ctx, &exporters.LogGRPC{}, enabledProps())
	require.NoError(t, err)
	require.NotNil(t, logExporter.(*exporters.LogGRPC).TLS)
}

func TestCustomizeUnknownShape(t *testing.T) {
	ctx := context.Background()
	s, err := standard.New(ctx,
		standard.WithLocator(&fileLocator{}),
		standard.WithProviderBuilder(func(_ context.Context, _ *policy.Policy, _ core.Properties) (tlsprovider.Service, error) {
			return newProvider(), nil
		}),
	)
	require.NoError(t, err)

	exporter := &unknownExporter{}
	res, err := s.Customize(ctx, exporter, enabledProps())
	require.NoError(t, err)
	require.Same(t, exporter, res)
}

func TestCustomizeFailClosed(t *testing.T) {
	ctx := context.Background()
	var fail atomic.Bool
	fail.Store(true)
	var builds atomic.Int32
	s, err := standard.New(ctx,
		standard.WithLocator(&fileLocator{}),
		standard.WithCache(cache.New()),
		standard.WithProviderBuilder(func(_ context.Context, _ *policy.Policy, _ core.Properties) (tlsprovider.Service, error) {
			builds.Add(1)
			if fail.Load() {
				return nil, errors.New("bad material")
			}
			return newProvider(), nil
		}),
	)
	require.NoError(t, err)

	exporter := &exporters.TraceHTTP{}
	_, err = s.Customize(ctx, exporter, enabledProps())
	require.EqualError(t, err, "failed to create TLS provider: bad material")
	require.Nil(t, s.Provider())
	require.Nil(t, s.Policy())

	// A later call retries.
	fail.Store(false)
	res, err := s.Customize(ctx, exporter, enabledProps())
	require.NoError(t, err)
	require.NotSame(t, exporter, res)
	require.Equal(t, int32(2), builds.Load())
}

func TestCustomizePolicyError(t *testing.T) {
	ctx := context.Background()
	locator := &fileLocator{}
	s, err := standard.New(ctx, standard.WithLocator(locator))
	require.NoError(t, err)

	props := enabledProps()
	props[core.KeyRefreshInterval] = "every minute"
	_, err = s.Customize(ctx, &exporters.LogHTTP{}, props)
	var configErr *policy.ConfigError
	require.True(t, errors.As(err, &configErr))
	require.Equal(t, core.KeyRefreshInterval, configErr.Key)
	require.Zero(t, locator.resolved.Load())
}

func TestCustomizeStandardProvider(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dir := t.TempDir()
	ca := certs.NewAuthority(t, "Test CA")
	leaf := ca.Issue(t, "client", 2, time.Now().Add(time.Hour))
	props := core.MapProperties{
		core.KeyEnabled:       "true",
		core.KeyWatchFiles:    "false",
		core.KeyCACertificate: certs.WriteFile(t, dir, "ca.pem", ca.CertPEM),
		core.KeyCertificate:   certs.WriteFile(t, dir, "c.pem", leaf.CertPEM),
		core.KeyKey:           certs.WriteFile(t, dir, "k.pem", leaf.KeyPEM),
	}

	s, err := standard.New(ctx, standard.WithLocator(&fileLocator{}))
	require.NoError(t, err)

	res, err := s.Customize(ctx, &exporters.MetricGRPC{}, props)
	require.NoError(t, err)
	customized := res.(*exporters.MetricGRPC)
	require.NotNil(t, customized.TLS)

	provider := s.Provider()
	require.NotNil(t, provider)
	require.Equal(t, tlsprovider.StateReady, provider.State())
	cert, err := customized.TLS.GetClientCertificate(&tls.CertificateRequestInfo{})
	require.NoError(t, err)
	require.Equal(t, leaf.Cert.Raw, cert.Leaf.Raw)
}

func TestCustomizeNil(t *testing.T) {
	ctx := context.Background()
	s, err := standard.New(ctx, standard.WithLocator(&fileLocator{}))
	require.NoError(t, err)

	_, err = s.Customize(ctx, nil, enabledProps())
	require.EqualError(t, err, "no exporter supplied")
	_, err = s.Customize(ctx, &exporters.TraceGRPC{}, nil)
	require.EqualError(t, err, "no properties supplied")
	_, err = s.CustomizeSpan(ctx, nil, enabledProps())
	require.EqualError(t, err, "no exporter supplied")
}
