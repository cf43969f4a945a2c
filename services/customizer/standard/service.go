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
	"sync/atomic"

	"github.com/attestantio/exportertls/core"
	"github.com/attestantio/exportertls/exporters"
	"github.com/attestantio/exportertls/policy"
	"github.com/attestantio/exportertls/services/locator"
	"github.com/attestantio/exportertls/services/metrics"
	"github.com/attestantio/exportertls/services/tlsprovider"
	"github.com/attestantio/exportertls/services/tlsprovider/cache"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	zerologger "github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Service is the exporter customizer.
type Service struct {
	// ctx is the lifetime of the TLS provider's background tasks.
	ctx             context.Context
	monitor         metrics.CustomizerMonitor
	locator         locator.Service
	cache           *cache.Cache
	providerBuilder ProviderBuilder
	policy          atomic.Pointer[policy.Policy]
}

// module-wide log.
var log zerolog.Logger

// New creates a new exporter customizer.  The TLS provider, once created,
// runs its background tasks until the context is done.
func New(ctx context.Context, params ...Parameter) (*Service, error) {
	parameters, err := parseAndCheckParameters(params...)
	if err != nil {
		return nil, errors.Wrap(err, "problem with parameters")
	}

	// Set logging.
	log = zerologger.With().Str("service", "customizer").Str("impl", "standard").Logger()
	if parameters.logLevel != log.GetLevel() {
		log = log.Level(parameters.logLevel)
	}

	return &Service{
		ctx:             ctx,
		monitor:         parameters.monitor,
		locator:         parameters.locator,
		cache:           parameters.cache,
		providerBuilder: parameters.providerBuilder,
	}, nil
}

// Customize returns the exporter unchanged if TLS is disabled or the
// exporter does not accept TLS material, otherwise a copy of the
// exporter carrying the current TLS material.
func (s *Service) Customize(ctx context.Context,
	exporter exporters.Exporter,
	props core.Properties,
) (
	exporters.Exporter,
	error,
) {
	if exporter == nil {
		return nil, errors.New("no exporter supplied")
	}
	if props == nil {
		return nil, errors.New("no properties supplied")
	}
	signal := string(exporter.Signal())
	transport := string(exporter.Transport())
	log := log.With().Str("signal", signal).Str("transport", transport).Logger()

	ctx, span := otel.Tracer("attestantio.exportertls.services.customizer.standard").Start(ctx, "Customize", trace.WithAttributes(
		attribute.String("signal", signal),
		attribute.String("transport", transport),
	))
	defer span.End()

	if !props.Bool(core.KeyEnabled, false) {
		log.Trace().Msg("Exporter TLS not enabled; returning exporter unchanged")
		return exporter, nil
	}

	provider, err := s.provider(ctx, props)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.monitor.ExporterCustomized(signal, transport, core.ResultFailed)
		log.Error().Err(err).Msg("Failed to obtain TLS provider")
		return nil, err
	}

	configurable, isConfigurable := exporter.(exporters.TLSConfigurable)
	if !isConfigurable {
		log.Debug().Msg("Exporter does not accept TLS material; returning exporter unchanged")
		return exporter, nil
	}

	customized := configurable.WithTLS(provider)
	s.monitor.ExporterCustomized(signal, transport, core.ResultSucceeded)
	log.Trace().Str("fingerprint", provider.Context().Fingerprint).Msg("Exporter customized")

	return customized, nil
}

// CustomizeSpan customizes a span exporter.
func (s *Service) CustomizeSpan(ctx context.Context,
	exporter exporters.SpanExporter,
	props core.Properties,
) (
	exporters.SpanExporter,
	error,
) {
	if exporter == nil {
		return nil, errors.New("no exporter supplied")
	}
	customized, err := s.Customize(ctx, exporter, props)
	if err != nil {
		return nil, err
	}
	res, isSpanExporter := customized.(exporters.SpanExporter)
	if !isSpanExporter {
		return nil, errors.New("customized exporter is not a span exporter")
	}
	return res, nil
}

// CustomizeMetric customizes a metric exporter.
func (s *Service) CustomizeMetric(ctx context.Context,
	exporter exporters.MetricExporter,
	props core.Properties,
) (
	exporters.MetricExporter,
	error,
) {
	if exporter == nil {
		return nil, errors.New("no exporter supplied")
	}
	customized, err := s.Customize(ctx, exporter, props)
	if err != nil {
		return nil, err
	}
	res, isMetricExporter := customized.(exporters.MetricExporter)
	if !isMetricExporter {
		return nil, errors.New("customized exporter is not a metric exporter")
	}
	return res, nil
}

// CustomizeLog customizes a log exporter.
func (s *Service) CustomizeLog(ctx context.Context,
	exporter exporters.LogExporter,
	props core.Properties,
) (
	exporters.LogExporter,
	error,
) {
	if exporter == nil {
		return nil, errors.New("no exporter supplied")
	}
	customized, err := s.Customize(ctx, exporter, props)
	if err != nil {
		return nil, err
	}
	res, isLogExporter := customized.(exporters.LogExporter)
	if !isLogExporter {
		return nil, errors.New("customized exporter is not a log exporter")
	}
	return res, nil
}

// Policy returns the policy the TLS provider was built with, or nil if
// there is no provider.
func (s *Service) Policy() *policy.Policy {
	return s.policy.Load()
}

// Provider returns the TLS provider, or nil if none has been built.
func (s *Service) Provider() tlsprovider.Service {
	return s.cache.Provider()
}

// provider obtains the TLS provider, building it and its policy on first use.
func (s *Service) provider(ctx context.Context, props core.Properties) (tlsprovider.Service, error) {
	return s.cache.GetOrCreate(ctx, func(ctx context.Context) (tlsprovider.Service, error) {
		p, err := policy.New(ctx, props, s.locator)
		if err != nil {
			return nil, errors.Wrap(err, "failed to build TLS policy")
		}
		provider, err := s.providerBuilder(s.ctx, p, props)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create TLS provider")
		}
		s.policy.Store(p)
		log.Info().Int("ca_certificates", len(p.CACertificates)).
			Bool("client_certificate", p.Certificate != nil).
			Bool("refresh", p.RefreshInterval > 0).
			Msg("TLS provider created")
		return provider, nil
	})
}
