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
	dto "github.com/prometheus/client_model/go"
	"google.golang.org/protobuf/proto"
)

func labelPairs(kv ...string) []*dto.LabelPair {
	var pairs []*dto.LabelPair
	for i := 0; i+1 < len(kv); i += 2 {
		pairs = append(pairs, &dto.LabelPair{Name: proto.String(kv[i]), Value: proto.String(kv[i+1])})
	}
	return pairs
}

func gaugeSample(v float64, kv ...string) *dto.Metric {
	return &dto.Metric{Label: labelPairs(kv...), Gauge: &dto.Gauge{Value: proto.Float64(v)}}
}

func untypedSample(v float64, kv ...string) *dto.Metric {
	return &dto.Metric{Label: labelPairs(kv...), Untyped: &dto.Untyped{Value: proto.Float64(v)}}
}

func counterSample(v float64, exemplar *dto.Exemplar, kv ...string) *dto.Metric {
	return &dto.Metric{Label: labelPairs(kv...), Counter: &dto.Counter{Value: proto.Float64(v), Exemplar: exemplar}}
}

func histogramSample(h *dto.Histogram, kv ...string) *dto.Metric {
	return &dto.Metric{Label: labelPairs(kv...), Histogram: h}
}

func exemplar(traceID string, v float64) *dto.Exemplar {
	return &dto.Exemplar{Label: labelPairs("trace_id", traceID), Value: proto.Float64(v)}
}

func bucket(upperBound float64, count uint64) *dto.Bucket {
	return &dto.Bucket{UpperBound: proto.Float64(upperBound), CumulativeCount: proto.Uint64(count)}
}

func metricFamily(name string, t dto.MetricType, metrics ...*dto.Metric) *dto.MetricFamily {
	return &dto.MetricFamily{Name: proto.String(name), Type: t.Enum(), Metric: metrics}
}
