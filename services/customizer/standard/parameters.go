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

	"github.com/attestantio/exportertls/core"
	"github.com/attestantio/exportertls/policy"
	"github.com/attestantio/exportertls/services/locator"
	"github.com/attestantio/exportertls/services/metrics"
	"github.com/attestantio/exportertls/services/tlsprovider"
	"github.com/attestantio/exportertls/services/tlsprovider/cache"
	standardtlsprovider "github.com/attestantio/exportertls/services/tlsprovider/standard"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// ProviderBuilder builds a TLS provider for a policy.
type ProviderBuilder func(ctx context.Context, policy *policy.Policy, props core.Properties) (tlsprovider.Service, error)

type parameters struct {
	logLevel        zerolog.Level
	monitor         metrics.CustomizerMonitor
	providerMonitor metrics.TLSProviderMonitor
	locator         locator.Service
	cache           *cache.Cache
	providerBuilder ProviderBuilder
}

// Parameter is the interface for service parameters.
type Parameter interface {
	apply(p *parameters)
}

type parameterFunc func(*parameters)

func (f parameterFunc) apply(p *parameters) {
	f(p)
}

// WithLogLevel sets the log level for the module.
func WithLogLevel(logLevel zerolog.Level) Parameter {
	return parameterFunc(func(p *parameters) {
		p.logLevel = logLevel
	})
}

// WithMonitor sets the monitor for this module.
func WithMonitor(monitor metrics.CustomizerMonitor) Parameter {
	return parameterFunc(func(p *parameters) {
		p.monitor = monitor
	})
}

// WithProviderMonitor sets the monitor for the TLS provider.
func WithProviderMonitor(monitor metrics.TLSProviderMonitor) Parameter {
	return parameterFunc(func(p *parameters) {
		p.providerMonitor = monitor
	})
}

// WithLocator sets the resource locator.
func WithLocator(locator locator.Service) Parameter {
	return parameterFunc(func(p *parameters) {
		p.locator = locator
	})
}

// WithCache sets the cache holding the TLS provider.
func WithCache(cache *cache.Cache) Parameter {
	return parameterFunc(func(p *parameters) {
		p.cache = cache
	})
}

// WithProviderBuilder sets the function that builds the TLS provider.
func WithProviderBuilder(builder ProviderBuilder) Parameter {
	return parameterFunc(func(p *parameters) {
		p.providerBuilder = builder
	})
}

// parseAndCheckParameters parses and checks parameters to ensure that mandatory parameters are present and correct.
func parseAndCheckParameters(params ...Parameter) (*parameters, error) {
	parameters := parameters{
		logLevel: zerolog.GlobalLevel(),
	}
	for _, p := range params {
		if params != nil {
			p.apply(&parameters)
		}
	}

	if parameters.locator == nil {
		return nil, errors.New("no locator specified")
	}
	if parameters.monitor == nil {
		// Use no-op monitor.
		parameters.monitor = &noopMonitor{}
	}
	if parameters.cache == nil {
		parameters.cache = cache.New()
	}
	if parameters.providerBuilder == nil {
		parameters.providerBuilder = standardProviderBuilder(parameters.logLevel, parameters.providerMonitor)
	}

	return &parameters, nil
}

// standardProviderBuilder builds the standard TLS provider.
func standardProviderBuilder(logLevel zerolog.Level, monitor metrics.TLSProviderMonitor) ProviderBuilder {
	return func(ctx context.Context, policy *policy.Policy, props core.Properties) (tlsprovider.Service, error) {
		provider, err := standardtlsprovider.New(ctx,
			standardtlsprovider.WithLogLevel(logLevel),
			standardtlsprovider.WithMonitor(monitor),
			standardtlsprovider.WithPolicy(policy),
			standardtlsprovider.WithWatchFiles(props.Bool(core.KeyWatchFiles, true)),
		)
		if err != nil {
			return nil, err
		}
		return provider, nil
	}
}
