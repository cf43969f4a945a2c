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

package asm_test

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/attestantio/exportertls/services/secretstore/asm"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/require"
)

type mockClient struct {
	secrets map[string]*secretsmanager.GetSecretValueOutput
	inputs  []*secretsmanager.GetSecretValueInput
}

func (m *mockClient) GetSecretValue(_ context.Context, params *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	m.inputs = append(m.inputs, params)
	res, exists := m.secrets[*params.SecretId]
	if !exists {
		return nil, errors.New("ResourceNotFoundException")
	}
	return res, nil
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		params []asm.Parameter
		err    string
	}{
		{
			name: "Default",
		},
		{
			name:   "SchemeEmpty",
			params: []asm.Parameter{asm.WithScheme("")},
			err:    "problem with parameters: no scheme specified",
		},
		{
			name:   "CredentialsPartial",
			params: []asm.Parameter{asm.WithStaticCredentials("id", "")},
			err:    "problem with parameters: static credentials require both id and secret",
		},
		{
			name: "Good",
			params: []asm.Parameter{
				asm.WithRegion("eu-west-1"),
				asm.WithStaticCredentials("id", "secret"),
				asm.WithEndpoint("http://localhost:4566"),
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := asm.New(ctx, test.params...)
			if test.err == "" {
				require.NoError(t, err)
			} else {
				require.EqualError(t, err, test.err)
			}
		})
	}
}

func TestSupportedURLSchemes(t *testing.T) {
	ctx := context.Background()
	s, err := asm.New(ctx)
	require.NoError(t, err)
	schemes, err := s.SupportedURLSchemes(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"secret-store"}, schemes)
}

func TestFetch(t *testing.T) {
	ctx := context.Background()

	client := &mockClient{
		secrets: map[string]*secretsmanager.GetSecretValueOutput{
			"client-cert":  {SecretString: aws.String("cert")},
			"client/key":   {SecretBinary: []byte("key")},
			"empty-secret": {},
		},
	}
	s, err := asm.New(ctx,
		asm.WithClient(client),
		asm.WithVersionStage("AWSCURRENT"),
	)
	require.NoError(t, err)

	tests := []struct {
		name         string
		url          string
		res          []byte
		versionStage string
		versionID    string
		err          string
	}{
		{
			name: "NoName",
			url:  "secret-store://",
			err:  "no secret name supplied",
		},
		{
			name: "Missing",
			url:  "secret-store://missing",
			err:  "failed to obtain secret missing: ResourceNotFoundException",
		},
		{
			name: "Empty",
			url:  "secret-store://empty-secret",
			err:  "secret empty-secret has no value",
		},
		{
			name:         "String",
			url:          "secret-store://client-cert",
			res:          []byte("cert"),
			versionStage: "AWSCURRENT",
		},
		{
			name:         "Binary",
			url:          "secret-store://client/key",
			res:          []byte("key"),
			versionStage: "AWSCURRENT",
		},
		{
			name:         "VersionStage",
			url:          "secret-store://client-cert?versionStage=AWSPREVIOUS",
			res:          []byte("cert"),
			versionStage: "AWSPREVIOUS",
		},
		{
			name:      "VersionID",
			url:       "secret-store://client-cert?versionId=abc",
			res:       []byte("cert"),
			versionID: "abc",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			u, err := url.Parse(test.url)
			require.NoError(t, err)
			res, err := s.Fetch(ctx, u)
			if test.err != "" {
				require.EqualError(t, err, test.err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, test.res, res)
			input := client.inputs[len(client.inputs)-1]
			require.Equal(t, test.versionStage, aws.ToString(input.VersionStage))
			require.Equal(t, test.versionID, aws.ToString(input.VersionId))
		})
	}
}
