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
	"crypto/tls"
	"sync"
	"sync/atomic"
	"time"

	"github.com/attestantio/exportertls/policy"
	"github.com/attestantio/exportertls/services/metrics"
	"github.com/attestantio/exportertls/services/tlsprovider"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	zerologger "github.com/rs/zerolog/log"
)

// Service provides TLS material loaded according to a policy, refreshing
// it in the background.
type Service struct {
	monitor       metrics.TLSProviderMonitor
	policy        *policy.Policy
	executor      Executor
	watchDebounce time.Duration

	current           atomic.Pointer[tlsprovider.Context]
	state             atomic.Int32
	reloadMu          sync.Mutex
	lastRefreshError  atomic.Pointer[tlsprovider.RefreshError]
	lastExpiryWarning atomic.Pointer[tlsprovider.ExpirationWarning]

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// module-wide log.
var log zerolog.Logger

// New creates a new TLS provider.  Material is loaded immediately; if it
// cannot be loaded the provider is not created.
// Background tasks run until the context is done or Stop() is called.
func New(ctx context.Context, params ...Parameter) (*Service, error) {
	parameters, err := parseAndCheckParameters(params...)
	if err != nil {
		return nil, errors.Wrap(err, "problem with parameters")
	}

	// Set logging.
	log = zerologger.With().Str("service", "tlsprovider").Str("impl", "standard").Logger()
	if parameters.logLevel != log.GetLevel() {
		log = log.Level(parameters.logLevel)
	}

	s := &Service{
		monitor:       parameters.monitor,
		policy:        parameters.policy,
		executor:      parameters.executor,
		watchDebounce: parameters.watchDebounce,
	}
	s.setState(tlsprovider.StateLoading)

	current, err := s.load(ctx)
	if err != nil {
		s.setState(tlsprovider.StateFailed)
		return nil, errors.Wrap(err, "failed to load initial TLS material")
	}
	s.publish(current)
	s.setState(tlsprovider.StateReady)

	bgCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	if s.policy.CertificateExpirationCheckInterval > 0 {
		s.wg.Add(1)
		go s.expirationLoop(bgCtx)
	}
	if s.policy.RefreshInterval > 0 {
		s.wg.Add(1)
		go s.refreshLoop(bgCtx)
	}
	if parameters.watchFiles {
		if err := s.startWatcher(bgCtx); err != nil {
			// Periodic refresh still applies, so this is not fatal.
			log.Warn().Err(err).Msg("Failed to watch credential files")
		}
	}

	return s, nil
}

// Context returns the latest successfully loaded TLS material.
func (s *Service) Context() *tlsprovider.Context {
	return s.current.Load()
}

// TLSConfig returns a copy of the latest client TLS configuration.
func (s *Service) TLSConfig() *tls.Config {
	return s.current.Load().Config.Clone()
}

// TrustManager returns the latest trust manager.
func (s *Service) TrustManager() *tlsprovider.TrustManager {
	return s.current.Load().TrustManager
}

// State returns the current state of the provider.
func (s *Service) State() tlsprovider.State {
	return tlsprovider.State(s.state.Load())
}

// LastRefreshError returns the error from the most recent failed refresh,
// or nil if the most recent refresh succeeded or none has run.
func (s *Service) LastRefreshError() *tlsprovider.RefreshError {
	return s.lastRefreshError.Load()
}

// LastExpirationWarning returns the most recent expiration warning, or nil if
// the most recent check raised none.
func (s *Service) LastExpirationWarning() *tlsprovider.ExpirationWarning {
	return s.lastExpiryWarning.Load()
}

// Stop stops background tasks.  The last loaded material remains available.
func (s *Service) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// publish atomically replaces the current material.
func (s *Service) publish(current *tlsprovider.Context) {
	s.current.Store(current)
	s.monitor.CredentialsLoaded(current.NotAfter)

	e := log.Info().Time("loaded_at", current.LoadedAt)
	if current.Certificate != nil {
		e = e.Str("issued_to", current.Certificate.Leaf.Subject.CommonName).
			Str("issued_by", current.Certificate.Leaf.Issuer.CommonName).
			Time("valid_until", current.NotAfter).
			Str("fingerprint", current.Fingerprint)
	}
	e.Int("ca_certificates", len(s.policy.CACertificates)).
		Bool("crl", current.TrustManager.CRL() != nil).
		Msg("TLS material loaded")
}

func (s *Service) setState(state tlsprovider.State) {
	s.state.Store(int32(state))
}
