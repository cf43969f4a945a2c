// Copyright © 2020 Attestant Limited.
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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func (s *Service) setupBaseMetrics() error {
	if err := s.registry.Register(collectors.NewGoCollector()); err != nil {
		return err
	}
	if err := s.registry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return err
	}

	startTime := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "exportertls",
		Name:      "start_time_secs",
		Help:      "The timestamp at which the process started.",
	})
	if err := s.registry.Register(startTime); err != nil {
		return err
	}
	startTime.SetToCurrentTime()

	s.build = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "exportertls",
		Name:      "build",
		Help:      "The build number of this instance.",
	})
	if err := s.registry.Register(s.build); err != nil {
		return err
	}

	s.ready = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "exportertls",
		Name:      "ready",
		Help:      "1 if exporters are ready to export, otherwise 0.",
	})
	return s.registry.Register(s.ready)
}

// Build is called when the build number is established.
func (s *Service) Build(build uint64) {
	s.build.Set(float64(build))
}

// Ready is called when the service is ready to serve requests, or when it stops being so.
func (s *Service) Ready(ready bool) {
	if ready {
		s.ready.Set(1)
	} else {
		s.ready.Set(0)
	}
}
