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

package loggers_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/attestantio/exportertls/util/loggers"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/grpclog"
)

func TestGRPCLoggerV2(t *testing.T) {
	tests := []struct {
		name  string
		log   func(l *loggers.GRPCLoggerV2)
		level string
		msg   string
	}{
		{
			name:  "Info",
			log:   func(l *loggers.GRPCLoggerV2) { l.Info("channel ", "ready") },
			level: "debug",
			msg:   "channel ready",
		},
		{
			name:  "Infoln",
			log:   func(l *loggers.GRPCLoggerV2) { l.Infoln("channel", "ready") },
			level: "debug",
			msg:   "channel ready",
		},
		{
			name:  "Warningf",
			log:   func(l *loggers.GRPCLoggerV2) { l.Warningf("retrying %d\n", 3) },
			level: "info",
			msg:   "retrying 3",
		},
		{
			name:  "Errorf",
			log:   func(l *loggers.GRPCLoggerV2) { l.Errorf("failed: %s", "refused") },
			level: "warn",
			msg:   "failed: refused",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := loggers.NewGRPCLoggerV2(zerolog.New(&buf).Level(zerolog.TraceLevel))
			test.log(l)
			entry := make(map[string]any)
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			require.Equal(t, test.level, entry["level"])
			require.Equal(t, test.msg, entry["message"])
			require.Equal(t, "grpc", entry["component"])
		})
	}
}

func TestGRPCLoggerV2Verbosity(t *testing.T) {
	var l grpclog.LoggerV2 = loggers.NewGRPCLoggerV2(zerolog.Nop().Level(zerolog.InfoLevel))
	require.False(t, l.V(0))
	require.False(t, l.V(2))

	l = loggers.NewGRPCLoggerV2(zerolog.Nop().Level(zerolog.DebugLevel))
	require.True(t, l.V(0))
	require.False(t, l.V(2))

	l = loggers.NewGRPCLoggerV2(zerolog.Nop().Level(zerolog.TraceLevel))
	require.True(t, l.V(2))
}
