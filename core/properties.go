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

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Properties is a flat, read-only configuration namespace.
type Properties interface {
	// String returns the value for the key, and true if the key is present.
	String(key string) (string, bool)
	// Bool returns the boolean value for the key, or defaultValue if the key
	// is absent or cannot be parsed.
	Bool(key string, defaultValue bool) bool
}

// MapProperties is a Properties backed by a map.
type MapProperties map[string]string

// String returns the value for the key, and true if the key is present.
func (p MapProperties) String(key string) (string, bool) {
	val, exists := p[key]
	return val, exists
}

// Bool returns the boolean value for the key.
func (p MapProperties) Bool(key string, defaultValue bool) bool {
	val, exists := p[key]
	if !exists {
		return defaultValue
	}
	res, err := strconv.ParseBool(strings.TrimSpace(val))
	if err != nil {
		return defaultValue
	}
	return res
}

// ViperProperties is a Properties backed by a viper instance.
type ViperProperties struct {
	v *viper.Viper
}

// NewViperProperties creates properties that read from the given viper
// instance, or from the global viper instance if v is nil.
func NewViperProperties(v *viper.Viper) *ViperProperties {
	if v == nil {
		v = viper.GetViper()
	}
	return &ViperProperties{v: v}
}

// String returns the value for the key, and true if the key is present.
func (p *ViperProperties) String(key string) (string, bool) {
	if !p.v.IsSet(key) {
		return "", false
	}
	// Lists supplied in configuration files arrive as slices.
	if vals, isSlice := p.v.Get(key).([]any); isSlice {
		strs := make([]string, 0, len(vals))
		for _, val := range vals {
			strs = append(strs, strings.TrimSpace(toString(val)))
		}
		return strings.Join(strs, ","), true
	}
	return p.v.GetString(key), true
}

// Bool returns the boolean value for the key.
func (p *ViperProperties) Bool(key string, defaultValue bool) bool {
	if !p.v.IsSet(key) {
		return defaultValue
	}
	res, err := strconv.ParseBool(strings.TrimSpace(p.v.GetString(key)))
	if err != nil {
		return defaultValue
	}
	return res
}

func toString(val any) string {
	if val == nil {
		return ""
	}
	return fmt.Sprint(val)
}
