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

package core

// Configuration keys for TLS material provisioning.
const (
	KeyPrefix                                = "otel.exporter.easyssl."
	KeyEnabled                               = KeyPrefix + "enabled"
	KeyCACertificate                         = KeyPrefix + "caCertificate"
	KeyCertificate                           = KeyPrefix + "certificate"
	KeyKey                                   = KeyPrefix + "key"
	KeyKeyPassword                           = KeyPrefix + "keyPassword"
	KeyCertificateRevocationList             = KeyPrefix + "certificateRevocationList"
	KeyCertificateExpirationCheckInterval    = KeyPrefix + "certificateExpirationCheckInterval"
	KeyCertificateExpirationWarningThreshold = KeyPrefix + "certificateExpirationWarningThreshold"
	KeyRefreshCommand                        = KeyPrefix + "refreshCommand"
	KeyRefreshInterval                       = KeyPrefix + "refreshInterval"
	KeyRefreshTimeout                        = KeyPrefix + "refreshTimeout"
	KeyResourceBase                          = KeyPrefix + "resourceBase"
	KeyWatchFiles                            = KeyPrefix + "watchFiles"
)
