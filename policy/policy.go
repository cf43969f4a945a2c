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

// Package policy builds the TLS policy for exporters from a flat
// configuration namespace.
package policy

import (
	"context"
	"strings"
	"time"

	"github.com/attestantio/exportertls/core"
	"github.com/attestantio/exportertls/services/locator"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Policy is the TLS policy for exporters.  It is immutable once built.
type Policy struct {
	Enabled                               bool
	CACertificates                        []*core.Resource
	Certificate                           *core.Resource
	Key                                   *core.Resource
	KeyPassword                           string
	CertificateRevocationList             *core.Resource
	RefreshCommand                        []string
	RefreshInterval                       time.Duration
	RefreshTimeout                        time.Duration
	CertificateExpirationCheckInterval    time.Duration
	CertificateExpirationWarningThreshold time.Duration
}

// New builds a policy from the supplied properties, resolving resources
// through the locator.
func New(ctx context.Context, props core.Properties, locator locator.Service) (*Policy, error) {
	if props == nil {
		return nil, errors.New("no properties supplied")
	}
	if locator == nil {
		return nil, errors.New("no locator supplied")
	}

	p := &Policy{}
	var err error

	// Durations are checked before any resource is resolved.
	durations := []struct {
		key    string
		target *time.Duration
	}{
		{key: core.KeyCertificateExpirationCheckInterval, target: &p.CertificateExpirationCheckInterval},
		{key: core.KeyCertificateExpirationWarningThreshold, target: &p.CertificateExpirationWarningThreshold},
		{key: core.KeyRefreshInterval, target: &p.RefreshInterval},
		{key: core.KeyRefreshTimeout, target: &p.RefreshTimeout},
	}
	for _, d := range durations {
		val, present := lookup(props, d.key)
		if !present {
			continue
		}
		p.Enabled = true
		parsed, err := ParseDuration(val)
		if err != nil {
			return nil, &ConfigError{Key: d.key, Value: val, Err: err}
		}
		*d.target = parsed
	}

	if val, present := lookup(props, core.KeyCACertificate); present {
		p.Enabled = true
		for _, ref := range SplitList(val) {
			resource, err := resolve(ctx, locator, core.KeyCACertificate, ref)
			if err != nil {
				return nil, err
			}
			p.CACertificates = append(p.CACertificates, resource)
		}
	}

	if p.Certificate, err = resolveKey(ctx, props, locator, core.KeyCertificate, &p.Enabled); err != nil {
		return nil, err
	}
	if p.Key, err = resolveKey(ctx, props, locator, core.KeyKey, &p.Enabled); err != nil {
		return nil, err
	}
	if p.CertificateRevocationList, err = resolveKey(ctx, props, locator, core.KeyCertificateRevocationList, &p.Enabled); err != nil {
		return nil, err
	}

	if val, present := props.String(core.KeyKeyPassword); present && val != "" {
		p.Enabled = true
		// Passwords are used verbatim.
		p.KeyPassword = val
	}

	if val, present := lookup(props, core.KeyRefreshCommand); present {
		p.Enabled = true
		p.RefreshCommand = SplitList(val)
	}

	if p.Certificate != nil && p.Key == nil {
		log.Warn().Str("certificate", p.Certificate.Ref).Msg("Certificate configured without key; it cannot be presented")
	}

	return p, nil
}

// lookup returns a trimmed value for the key if it is present and not blank.
func lookup(props core.Properties, key string) (string, bool) {
	val, present := props.String(key)
	if !present {
		return "", false
	}
	val = strings.TrimSpace(val)
	if val == "" {
		return "", false
	}
	return val, true
}

func resolveKey(ctx context.Context,
	props core.Properties,
	locator locator.Service,
	key string,
	enabled *bool,
) (
	*core.Resource,
	error,
) {
	val, present := lookup(props, key)
	if !present {
		return nil, nil
	}
	*enabled = true
	return resolve(ctx, locator, key, val)
}

func resolve(ctx context.Context, l locator.Service, key string, ref string) (*core.Resource, error) {
	resource, err := l.Resolve(ctx, ref)
	if err != nil {
		var resolutionErr *locator.ResolutionError
		if errors.As(err, &resolutionErr) {
			return nil, &locator.ResolutionError{Key: key, Ref: ref, Err: resolutionErr.Err}
		}
		return nil, &locator.ResolutionError{Key: key, Ref: ref, Err: err}
	}
	return resource, nil
}
