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
	"time"

	"github.com/attestantio/exportertls/policy"
	"github.com/attestantio/exportertls/services/metrics"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

type parameters struct {
	logLevel      zerolog.Level
	monitor       metrics.TLSProviderMonitor
	policy        *policy.Policy
	executor      Executor
	watchFiles    bool
	watchDebounce time.Duration
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
func WithMonitor(monitor metrics.TLSProviderMonitor) Parameter {
	return parameterFunc(func(p *parameters) {
		p.monitor = monitor
	})
}

// WithPolicy sets the TLS policy for this module.
func WithPolicy(policy *policy.Policy) Parameter {
	return parameterFunc(func(p *parameters) {
		p.policy = policy
	})
}

// WithExecutor sets the executor for the refresh command.
func WithExecutor(executor Executor) Parameter {
	return parameterFunc(func(p *parameters) {
		p.executor = executor
	})
}

// WithWatchFiles watches file-backed resources for changes.
func WithWatchFiles(watchFiles bool) Parameter {
	return parameterFunc(func(p *parameters) {
		p.watchFiles = watchFiles
	})
}

// WithWatchDebounce sets the quiet period after a file change before reloading.
func WithWatchDebounce(debounce time.Duration) Parameter {
	return parameterFunc(func(p *parameters) {
		p.watchDebounce = debounce
	})
}

// parseAndCheckParameters parses and checks parameters to ensure that mandatory parameters are present and correct.
func parseAndCheckParameters(params ...Parameter) (*parameters, error) {
	parameters := parameters{
		logLevel:      zerolog.GlobalLevel(),
		watchDebounce: 500 * time.Millisecond,
	}
	for _, p := range params {
		if params != nil {
			p.apply(&parameters)
		}
	}

	if parameters.policy == nil {
		return nil, errors.New("no policy specified")
	}
	if parameters.watchDebounce <= 0 {
		return nil, errors.New("watch debounce must be positive")
	}
	if parameters.monitor == nil {
		// Use no-op monitor.
		parameters.monitor = &noopMonitor{}
	}
	if parameters.executor == nil {
		parameters.executor = &execExecutor{}
	}

	return &parameters, nil
}
