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
	"google.golang.org/protobuf/proto"
)

// valueKind is the type tag of a sample value.
type valueKind int

const (
	kindInvalid valueKind = iota
	kindUntyped
	kindGauge
	kindCounter
	kindHistogram
	kindSummary
)

func (k valueKind) String() string {
	switch k {
	case kindUntyped:
		return "untyped"
	case kindGauge:
		return "gauge"
	case kindCounter:
		return "counter"
	case kindHistogram:
		return "histogram"
	case kindSummary:
		return "summary"
	default:
		return "invalid"
	}
}

// kindOf returns the tag of the value carried by m. A sample carrying no value,
// or more than one, is invalid.
func kindOf(m *dto.Metric) valueKind {
	kind, n := kindInvalid, 0
	if m.Untyped != nil {
		kind, n = kindUntyped, n+1
	}
	if m.Gauge != nil {
		kind, n = kindGauge, n+1
	}
	if m.Counter != nil {
		kind, n = kindCounter, n+1
	}
	if m.Histogram != nil {
		kind, n = kindHistogram, n+1
	}
	if m.Summary != nil {
		kind, n = kindSummary, n+1
	}
	if n != 1 {
		return kindInvalid
	}
	return kind
}

// kindForType returns the value tag every sample of a family of type t must carry.
func kindForType(t dto.MetricType) valueKind {
	switch t {
	case dto.MetricType_COUNTER:
		return kindCounter
	case dto.MetricType_GAUGE:
		return kindGauge
	case dto.MetricType_UNTYPED:
		return kindUntyped
	case dto.MetricType_HISTOGRAM, dto.MetricType_GAUGE_HISTOGRAM:
		return kindHistogram
	case dto.MetricType_SUMMARY:
		return kindSummary
	default:
		return kindInvalid
	}
}

// mergeMetric combines incoming into existing under the given clear mode and
// returns the result as a new sample. Neither input is modified.
// The result keeps the labels of existing and the timestamp of incoming.
func mergeMetric(existing, incoming *dto.Metric, mode ClearMode) (*dto.Metric, error) {
	if mode != ClearModeAggregate && mode != ClearModeReplace {
		return nil, fmt.Errorf("clear mode %s cannot be applied to a single sample", mode)
	}
	ek, ik := kindOf(existing), kindOf(incoming)
	if ek == kindInvalid || ek != ik {
		return nil, fmt.Errorf("%w: cannot merge %s value into %s value", ErrValueTypeMismatch, ik, ek)
	}

	merged := &dto.Metric{
		Label:       existing.Label,
		TimestampMs: incoming.TimestampMs,
	}
	switch ek {
	case kindUntyped:
		merged.Untyped = &dto.Untyped{
			Value: proto.Float64(combineFloat(existing.Untyped.GetValue(), incoming.Untyped.GetValue(), mode)),
		}
	case kindGauge:
		merged.Gauge = &dto.Gauge{
			Value: proto.Float64(combineFloat(existing.Gauge.GetValue(), incoming.Gauge.GetValue(), mode)),
		}
	case kindCounter:
		merged.Counter = mergeCounter(existing.Counter, incoming.Counter, mode)
	case kindHistogram:
		h, err := mergeHistogram(existing.Histogram, incoming.Histogram, mode)
		if err != nil {
			return nil, err
		}
		merged.Histogram = h
	case kindSummary:
		return nil, fmt.Errorf("%w: summary values cannot be merged", ErrUnsupportedMerge)
	}
	return merged, nil
}

func combineFloat(a, b float64, mode ClearMode) float64 {
	if mode == ClearModeAggregate {
		return a + b
	}
	return b
}

func combineUint(a, b uint64, mode ClearMode) uint64 {
	if mode == ClearModeAggregate {
		return a + b
	}
	return b
}

// mergeCounter always takes the exemplar and created timestamp of the incoming counter.
func mergeCounter(a, b *dto.Counter, mode ClearMode) *dto.Counter {
	return &dto.Counter{
		Value:            proto.Float64(combineFloat(a.GetValue(), b.GetValue(), mode)),
		Exemplar:         b.Exemplar,
		CreatedTimestamp: b.CreatedTimestamp,
	}
}

// mergeHistogram keeps sum and count only when both sides report them.
// The created timestamp always comes from b.
func mergeHistogram(a, b *dto.Histogram, mode ClearMode) (*dto.Histogram, error) {
	var h *dto.Histogram
	switch mode {
	case ClearModeReplace:
		h = proto.Clone(b).(*dto.Histogram)
		h.SampleSum, h.SampleCount = nil, nil
	default:
		if isNativeHistogram(a) || isNativeHistogram(b) {
			return nil, fmt.Errorf("%w: native histograms cannot be aggregated", ErrUnsupportedMerge)
		}
		h = &dto.Histogram{
			CreatedTimestamp: b.CreatedTimestamp,
			Bucket:           mergeBuckets(a.Bucket, b.Bucket),
		}
	}

	if a.SampleSum != nil && b.SampleSum != nil {
		h.SampleSum = proto.Float64(combineFloat(a.GetSampleSum(), b.GetSampleSum(), mode))
	}
	if a.SampleCount != nil && b.SampleCount != nil {
		h.SampleCount = proto.Uint64(combineUint(a.GetSampleCount(), b.GetSampleCount(), mode))
	}
	return h, nil
}

func isNativeHistogram(h *dto.Histogram) bool {
	return h.Schema != nil || h.ZeroThreshold != nil || len(h.PositiveSpan) > 0 || len(h.NegativeSpan) > 0
}
