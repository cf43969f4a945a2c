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

package core_test

import (
	"context"
	"testing"

	"github.com/attestantio/exportertls/core"
	"github.com/stretchr/testify/require"
)

func TestResourceRead(t *testing.T) {
	ctx := context.Background()

	var missing *core.Resource
	_, err := missing.Read(ctx)
	require.EqualError(t, err, `resource "" is not resolved`)

	_, err = (&core.Resource{Ref: "file:///tmp/ca.pem"}).Read(ctx)
	require.EqualError(t, err, `resource "file:///tmp/ca.pem" is not resolved`)

	reads := 0
	resource := core.NewResource("direct:abc", "direct:abc", func(context.Context) ([]byte, error) {
		reads++
		return []byte("abc"), nil
	})
	for range 2 {
		data, err := resource.Read(ctx)
		require.NoError(t, err)
		require.Equal(t, []byte("abc"), data)
	}
	require.Equal(t, 2, reads)
}

func TestResourceLocalPath(t *testing.T) {
	tests := []struct {
		name     string
		location string
		path     string
		local    bool
	}{
		{
			name:     "File",
			location: "file:///etc/certs/ca.pem",
			path:     "/etc/certs/ca.pem",
			local:    true,
		},
		{
			name:     "Remote",
			location: "secret-store://client-cert",
		},
		{
			name: "Empty",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			path, local := core.NewResource("ref", test.location, nil).LocalPath()
			require.Equal(t, test.local, local)
			require.Equal(t, test.path, path)
		})
	}
}
