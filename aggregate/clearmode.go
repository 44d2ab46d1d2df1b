// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package aggregate

import (
	"fmt"

	dto "github.com/prometheus/client_model/go"
)

// ClearMode decides how an incoming sample is combined with the stored one.
type ClearMode int

const (
	// ClearModeAggregate combines the stored and the incoming value.
	ClearModeAggregate ClearMode = iota
	// ClearModeReplace makes the incoming value supersede the stored one.
	ClearModeReplace
	// ClearModeFamily discards every stored sample of the family and adopts
	// the incoming batch wholesale.
	ClearModeFamily
)

func (m ClearMode) String() string {
	switch m {
	case ClearModeAggregate:
		return "aggregate"
	case ClearModeReplace:
		return "replace"
	case ClearModeFamily:
		return "family"
	default:
		return fmt.Sprintf("ClearMode(%d)", int(m))
	}
}

// ParseClearMode parses the value of a clearmode label.
func ParseClearMode(s string) (ClearMode, error) {
	switch s {
	case "aggregate":
		return ClearModeAggregate, nil
	case "replace":
		return ClearModeReplace, nil
	case "family":
		return ClearModeFamily, nil
	}
	return 0, fmt.Errorf("invalid clearmode: %q", s)
}

// DefaultClearMode returns the clear mode used when a sample does not ask for one:
// replace for gauges, aggregate for everything else.
func DefaultClearMode(t dto.MetricType) ClearMode {
	switch t {
	case dto.MetricType_GAUGE, dto.MetricType_GAUGE_HISTOGRAM:
		return ClearModeReplace
	default:
		return ClearModeAggregate
	}
}

// ResolveClearMode returns the effective clear mode of a sample in a family of the given type.
// An unrecognized clearmode label silently falls back to the type default.
func ResolveClearMode(t dto.MetricType, m *dto.Metric) ClearMode {
	v, found := labelValue(m, ClearModeLabel)
	if !found {
		return DefaultClearMode(t)
	}
	mode, err := ParseClearMode(v)
	if err != nil {
		return DefaultClearMode(t)
	}
	return mode
}
