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

package prometheus

import (
	"strings"

	"github.com/attestantio/exportertls/core"
	"github.com/prometheus/client_golang/prometheus"
)

func (s *Service) setupCustomizerMetrics() error {
	s.customizerCustomized = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "exportertls",
		Subsystem: "customizer",
		Name:      "exporters_total",
		Help:      "The number of exporters given TLS material.",
	}, []string{"signal", "transport", "result"})
	return s.registry.Register(s.customizerCustomized)
}

// ExporterCustomized is called when an exporter has passed through the customizer.
func (s *Service) ExporterCustomized(signal string, transport string, result core.Result) {
	s.customizerCustomized.WithLabelValues(signal, transport, strings.ToLower(result.String())).Inc()
}
