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

// Package metrics tracks various metrics that measure the health of exporter TLS material.
package metrics

import (
	"time"

	"github.com/attestantio/exportertls/core"
)

// Service is the generic metrics service.
type Service interface{}

// BaseMonitor provides base information about the instance.
type BaseMonitor interface {
	// Build is called when the build number is established.
	Build(build uint64)
}

// ReadyMonitor provides information about if the process is ready.
type ReadyMonitor interface {
	// Ready is called when the service is ready to serve requests, or when it stops being so.
	Ready(ready bool)
}

// TLSProviderMonitor monitors the TLS provider service.
type TLSProviderMonitor interface {
	// CredentialsLoaded is called when credentials have been loaded and published.
	CredentialsLoaded(notAfter time.Time)
	// RefreshCompleted is called when a refresh attempt has completed.
	RefreshCompleted(started time.Time, result core.Result)
	// ExpirationChecked is called when certificate expiry has been checked.
	ExpirationChecked(remaining time.Duration, warning bool)
}

// CustomizerMonitor monitors the exporter customizer service.
type CustomizerMonitor interface {
	// ExporterCustomized is called when an exporter has passed through the customizer.
	ExporterCustomized(signal string, transport string, result core.Result)
}
