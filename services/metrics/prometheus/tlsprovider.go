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
	"strings"
	"time"

	"github.com/attestantio/exportertls/core"
	"github.com/prometheus/client_golang/prometheus"
)

func (s *Service) setupTLSProviderMetrics() error {
	s.credentialsLoaded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "exportertls",
		Subsystem: "tlsprovider",
		Name:      "credentials_loaded_total",
		Help:      "The number of times TLS material has been loaded.",
	})
	if err := s.registry.Register(s.credentialsLoaded); err != nil {
		return err
	}

	s.certificateExpiry = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "exportertls",
		Subsystem: "tlsprovider",
		Name:      "certificate_expiry_timestamp_seconds",
		Help:      "The expiry time of the client certificate.",
	})
	if err := s.registry.Register(s.certificateExpiry); err != nil {
		return err
	}

	s.certificateRemaining = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "exportertls",
		Subsystem: "tlsprovider",
		Name:      "certificate_remaining_seconds",
		Help:      "The time remaining until the client certificate expires, as of the last check.",
	})
	if err := s.registry.Register(s.certificateRemaining); err != nil {
		return err
	}

	s.expirationWarnings = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "exportertls",
		Subsystem: "tlsprovider",
		Name:      "expiration_warnings_total",
		Help:      "The number of expiration checks that found the client certificate close to expiry.",
	})
	if err := s.registry.Register(s.expirationWarnings); err != nil {
		return err
	}

	s.refreshProcessTimer = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "exportertls",
		Subsystem: "tlsprovider_refresh",
		Name:      "duration_seconds",
		Help:      "The time spent refreshing TLS material.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
	})
	if err := s.registry.Register(s.refreshProcessTimer); err != nil {
		return err
	}

	s.refreshRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "exportertls",
		Subsystem: "tlsprovider_refresh",
		Name:      "requests_total",
		Help:      "The number of refreshes of TLS material.",
	}, []string{"result"})
	return s.registry.Register(s.refreshRequests)
}

// CredentialsLoaded is called when credentials have been loaded and published.
func (s *Service) CredentialsLoaded(notAfter time.Time) {
	s.credentialsLoaded.Inc()
	if !notAfter.IsZero() {
		s.certificateExpiry.Set(float64(notAfter.Unix()))
	}
}

// RefreshCompleted is called when a refresh attempt has completed.
func (s *Service) RefreshCompleted(started time.Time, result core.Result) {
	s.refreshProcessTimer.Observe(time.Since(started).Seconds())
	s.refreshRequests.WithLabelValues(strings.ToLower(result.String())).Inc()
}

// ExpirationChecked is called when certificate expiry has been checked.
func (s *Service) ExpirationChecked(remaining time.Duration, warning bool) {
	s.certificateRemaining.Set(remaining.Seconds())
	if warning {
		s.expirationWarnings.Inc()
	}
}
