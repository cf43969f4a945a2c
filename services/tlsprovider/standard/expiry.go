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
	"time"

	"github.com/attestantio/exportertls/services/tlsprovider"
)

func (s *Service) expirationLoop(ctx context.Context) {
	defer s.wg.Done()

	s.CheckExpiration()
	ticker := time.NewTicker(s.policy.CertificateExpirationCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Trace().Msg("Context done; expiration loop stopping")
			return
		case <-ticker.C:
			s.CheckExpiration()
		}
	}
}

// CheckExpiration checks the client certificate against the expiration
// warning threshold, returning a warning if it is within the threshold.
// It never affects the material in use.
func (s *Service) CheckExpiration() *tlsprovider.ExpirationWarning {
	current := s.current.Load()
	if current.Certificate == nil {
		s.lastExpiryWarning.Store(nil)
		return nil
	}

	remaining := time.Until(current.NotAfter)
	threshold := s.policy.CertificateExpirationWarningThreshold
	if remaining > threshold {
		s.lastExpiryWarning.Store(nil)
		s.state.CompareAndSwap(int32(tlsprovider.StateReadyStale), int32(tlsprovider.StateReady))
		s.monitor.ExpirationChecked(remaining, false)
		log.Trace().Dur("remaining", remaining).Msg("Client certificate not close to expiry")
		return nil
	}

	warning := &tlsprovider.ExpirationWarning{
		Fingerprint: current.Fingerprint,
		NotAfter:    current.NotAfter,
		Remaining:   remaining,
		Threshold:   threshold,
	}
	s.lastExpiryWarning.Store(warning)
	s.state.CompareAndSwap(int32(tlsprovider.StateReady), int32(tlsprovider.StateReadyStale))
	s.monitor.ExpirationChecked(remaining, true)
	log.Warn().
		Str("fingerprint", current.Fingerprint).
		Time("valid_until", current.NotAfter).
		Dur("remaining", remaining).
		Msg(warning.String())

	return warning
}

// freshness returns the ready state appropriate for the material.
func (s *Service) freshness(current *tlsprovider.Context) tlsprovider.State {
	if s.policy.CertificateExpirationCheckInterval == 0 || current.Certificate == nil {
		return tlsprovider.StateReady
	}
	if time.Until(current.NotAfter) <= s.policy.CertificateExpirationWarningThreshold {
		return tlsprovider.StateReadyStale
	}
	return tlsprovider.StateReady
}
