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

// Package tlsprovider provides TLS material for outbound exporters.
package tlsprovider

import (
	"crypto/tls"
	"time"
)

// State is the state of a provider.
type State int32

// Provider states.
const (
	StateLoading State = iota
	StateReady
	StateReadyStale
	StateRefreshing
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "Loading"
	case StateReady:
		return "Ready"
	case StateReadyStale:
		return "Ready(stale-warning)"
	case StateRefreshing:
		return "Ready(refreshing)"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Context is an immutable snapshot of loaded TLS material.
type Context struct {
	// Config is the client TLS configuration.
	Config *tls.Config
	// TrustManager verifies server certificates.
	TrustManager *TrustManager
	// Certificate is the client certificate, or nil if none is presented.
	Certificate *tls.Certificate
	// NotAfter is the expiry of the client certificate, or zero if there is none.
	NotAfter time.Time
	// Fingerprint is the hex-encoded SHA-256 fingerprint of the client certificate.
	Fingerprint string
	// LoadedAt is the time the material was loaded.
	LoadedAt time.Time
}

// Service is the TLS provider service.
type Service interface {
	// Context returns the latest successfully loaded TLS material.
	// It never blocks on a refresh in progress.
	Context() *Context

	// TLSConfig returns a copy of the latest client TLS configuration.
	TLSConfig() *tls.Config

	// TrustManager returns the latest trust manager.
	TrustManager() *TrustManager

	// State returns the current state of the provider.
	State() State
}
