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

// Package asm provides a majordomo confidant that fetches secrets from
// AWS Secrets Manager.
package asm

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	zerologger "github.com/rs/zerolog/log"
)

// Client is the subset of the secrets manager API used by the confidant.
type Client interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// Service is a confidant for AWS Secrets Manager.
type Service struct {
	scheme       string
	region       string
	endpoint     string
	id           string
	secret       string
	versionStage string

	clientMu sync.Mutex
	client   Client
}

// module-wide log.
var log zerolog.Logger

// New creates a new secret store confidant.
// The AWS client is created on first use.
func New(_ context.Context, params ...Parameter) (*Service, error) {
	parameters, err := parseAndCheckParameters(params...)
	if err != nil {
		return nil, errors.Wrap(err, "problem with parameters")
	}

	// Set logging.
	log = zerologger.With().Str("service", "secretstore").Str("impl", "asm").Logger()
	if parameters.logLevel != log.GetLevel() {
		log = log.Level(parameters.logLevel)
	}

	return &Service{
		scheme:       parameters.scheme,
		region:       parameters.region,
		endpoint:     parameters.endpoint,
		id:           parameters.id,
		secret:       parameters.secret,
		versionStage: parameters.versionStage,
		client:       parameters.client,
	}, nil
}

// SupportedURLSchemes provides the list of schemes supported by this confidant.
func (s *Service) SupportedURLSchemes(_ context.Context) ([]string, error) {
	return []string{s.scheme}, nil
}

// Fetch fetches a secret given its URL.
// The URL is of the form secret-store://name[?versionStage=stage|versionId=id].
func (s *Service) Fetch(ctx context.Context, u *url.URL) ([]byte, error) {
	if u == nil {
		return nil, errors.New("no URL supplied")
	}
	name := strings.TrimPrefix(u.Host+u.Path, "/")
	if name == "" {
		return nil, errors.New("no secret name supplied")
	}

	input := &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(name),
	}
	query := u.Query()
	switch {
	case query.Get("versionId") != "":
		input.VersionId = aws.String(query.Get("versionId"))
	case query.Get("versionStage") != "":
		input.VersionStage = aws.String(query.Get("versionStage"))
	case s.versionStage != "":
		input.VersionStage = aws.String(s.versionStage)
	}

	client, err := s.obtainClient(ctx)
	if err != nil {
		return nil, err
	}

	log.Trace().Str("name", name).Msg("Fetching secret")
	res, err := client.GetSecretValue(ctx, input)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to obtain secret %s", name)
	}

	switch {
	case res.SecretBinary != nil:
		return res.SecretBinary, nil
	case res.SecretString != nil:
		return []byte(*res.SecretString), nil
	default:
		return nil, errors.Errorf("secret %s has no value", name)
	}
}

// obtainClient creates the AWS client if it does not already exist.
// A failed creation is retried on the next call.
func (s *Service) obtainClient(ctx context.Context) (Client, error) {
	s.clientMu.Lock()
	defer s.clientMu.Unlock()
	if s.client != nil {
		return s.client, nil
	}

	opts := make([]func(*config.LoadOptions) error, 0, 2)
	if s.region != "" {
		opts = append(opts, config.WithRegion(s.region))
	}
	if s.id != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(s.id, s.secret, "")))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load AWS configuration")
	}

	clientOpts := make([]func(*secretsmanager.Options), 0, 1)
	if s.endpoint != "" {
		endpoint := s.endpoint
		clientOpts = append(clientOpts, func(o *secretsmanager.Options) {
			o.BaseEndpoint = &endpoint
		})
	}
	s.client = secretsmanager.NewFromConfig(cfg, clientOpts...)
	log.Debug().Str("region", cfg.Region).Msg("Created secrets manager client")

	return s.client, nil
}
