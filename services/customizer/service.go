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

// Package customizer applies TLS material to exporter definitions.
package customizer

import (
	"context"

	"github.com/attestantio/exportertls/core"
	"github.com/attestantio/exportertls/exporters"
)

// Service is the exporter customizer service.
type Service interface {
	// Customize returns the exporter unchanged if TLS is disabled or the
	// exporter does not accept TLS material, otherwise a copy of the
	// exporter carrying the current TLS material.
	Customize(ctx context.Context, exporter exporters.Exporter, props core.Properties) (exporters.Exporter, error)

	// CustomizeSpan customizes a span exporter.
	CustomizeSpan(ctx context.Context, exporter exporters.SpanExporter, props core.Properties) (exporters.SpanExporter, error)

	// CustomizeMetric customizes a metric exporter.
	CustomizeMetric(ctx context.Context, exporter exporters.MetricExporter, props core.Properties) (exporters.MetricExporter, error)

	// CustomizeLog customizes a log exporter.
	CustomizeLog(ctx context.Context, exporter exporters.LogExporter, props core.Properties) (exporters.LogExporter, error)
}
