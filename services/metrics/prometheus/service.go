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

package prometheus

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	zerologger "github.com/rs/zerolog/log"
)

// Service is a metrics service exposing metrics via prometheus.
type Service struct {
	registry *prometheus.Registry
	server   *http.Server

	build prometheus.Gauge
	ready prometheus.Gauge

	credentialsLoaded    prometheus.Counter
	certificateExpiry    prometheus.Gauge
	certificateRemaining prometheus.Gauge
	expirationWarnings   prometheus.Counter
	refreshProcessTimer  prometheus.Histogram
	refreshRequests      *prometheus.CounterVec
	customizerCustomized *prometheus.CounterVec
}

// module-wide log.
var log zerolog.Logger

// New creates a new prometheus metrics service.
func New(_ context.Context, params ...Parameter) (*Service, error) {
	parameters, err := parseAndCheckParameters(params...)
	if err != nil {
		return nil, errors.Wrap(err, "problem with parameters")
	}

	// Set logging.
	log = zerologger.With().Str("service", "metrics").Str("impl", "prometheus").Logger()
	if parameters.logLevel != log.GetLevel() {
		log = log.Level(parameters.logLevel)
	}

	s := &Service{
		registry: prometheus.NewRegistry(),
	}

	if err := s.setupBaseMetrics(); err != nil {
		return nil, errors.Wrap(err, "failed to set up base metrics")
	}
	if err := s.setupTLSProviderMetrics(); err != nil {
		return nil, errors.Wrap(err, "failed to set up TLS provider metrics")
	}
	if err := s.setupCustomizerMetrics(); err != nil {
		return nil, errors.Wrap(err, "failed to set up customizer metrics")
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	s.server = &http.Server{
		Addr:              parameters.address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Trace().Str("address", parameters.address).Msg("Starting metrics server")
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn().Str("metrics_address", parameters.address).Err(err).Msg("Failed to run metrics server")
		}
	}()

	return s, nil
}

// Presenter returns the presenter for the events.
func (*Service) Presenter() string {
	return "prometheus"
}

// Stop stops the metrics server.
func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
