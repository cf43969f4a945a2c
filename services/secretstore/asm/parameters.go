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

package asm

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

type parameters struct {
	logLevel     zerolog.Level
	scheme       string
	region       string
	endpoint     string
	id           string
	secret       string
	versionStage string
	client       Client
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

// WithScheme sets the URL scheme handled by the confidant.
func WithScheme(scheme string) Parameter {
	return parameterFunc(func(p *parameters) {
		p.scheme = scheme
	})
}

// WithRegion sets the AWS region.
func WithRegion(region string) Parameter {
	return parameterFunc(func(p *parameters) {
		p.region = region
	})
}

// WithEndpoint sets a custom endpoint, for example a local emulator.
func WithEndpoint(endpoint string) Parameter {
	return parameterFunc(func(p *parameters) {
		p.endpoint = endpoint
	})
}

// WithStaticCredentials sets static credentials.  If not supplied the
// default AWS credential chain is used.
func WithStaticCredentials(id string, secret string) Parameter {
	return parameterFunc(func(p *parameters) {
		p.id = id
		p.secret = secret
	})
}

// WithVersionStage sets the default version stage to fetch.
func WithVersionStage(versionStage string) Parameter {
	return parameterFunc(func(p *parameters) {
		p.versionStage = versionStage
	})
}

// WithClient sets the secrets manager client.
func WithClient(client Client) Parameter {
	return parameterFunc(func(p *parameters) {
		p.client = client
	})
}

// parseAndCheckParameters parses and checks parameters to ensure that mandatory parameters are present and correct.
func parseAndCheckParameters(params ...Parameter) (*parameters, error) {
	parameters := parameters{
		logLevel: zerolog.GlobalLevel(),
		scheme:   "secret-store",
	}
	for _, p := range params {
		if params != nil {
			p.apply(&parameters)
		}
	}

	if parameters.scheme == "" {
		return nil, errors.New("no scheme specified")
	}
	if (parameters.id == "") != (parameters.secret == "") {
		return nil, errors.New("static credentials require both id and secret")
	}

	return &parameters, nil
}
