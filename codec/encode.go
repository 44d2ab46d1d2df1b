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

package codec

import (
	"io"
	"math"
	"net/http"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"
)

// NegotiateFormat picks the scrape response format from the Accept header,
// OpenMetrics included.
func NegotiateFormat(h http.Header) expfmt.Format {
	return expfmt.NegotiateIncludingOpenMetrics(h)
}

// Encode writes the families in the given format. Families without samples
// are skipped. OpenMetrics output is terminated with "# EOF".
func Encode(w io.Writer, format expfmt.Format, families []*dto.MetricFamily) error {
	enc := expfmt.NewEncoder(w, format)
	textual := isTextual(format)
	for _, mf := range families {
		if len(mf.Metric) == 0 {
			continue
		}
		if textual {
			mf = forTextOutput(mf)
		}
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	if closer, ok := enc.(expfmt.Closer); ok {
		return closer.Close()
	}
	return nil
}

func isTextual(format expfmt.Format) bool {
	switch format.FormatType() {
	case expfmt.TypeTextPlain, expfmt.TypeOpenMetrics:
		return true
	}
	return false
}

// forTextOutput adapts a family to what the text formats can express. Neither
// has gauge histograms, and both write a missing histogram count as 0. The
// stored family is never modified: changed samples are copies.
func forTextOutput(mf *dto.MetricFamily) *dto.MetricFamily {
	typ := mf.GetType()
	if typ != dto.MetricType_HISTOGRAM && typ != dto.MetricType_GAUGE_HISTOGRAM {
		return mf
	}

	out := &dto.MetricFamily{
		Name:   mf.Name,
		Help:   mf.Help,
		Type:   dto.MetricType_HISTOGRAM.Enum(),
		Unit:   mf.Unit,
		Metric: make([]*dto.Metric, 0, len(mf.Metric)),
	}
	for _, m := range mf.Metric {
		out.Metric = append(out.Metric, withInferredCount(m))
	}
	return out
}

// withInferredCount fills a missing histogram count from the +Inf bucket.
func withInferredCount(m *dto.Metric) *dto.Metric {
	h := m.GetHistogram()
	if h == nil || h.SampleCount != nil {
		return m
	}
	count, found := infBucketCount(h)
	if !found {
		return m
	}

	hc := proto.Clone(h).(*dto.Histogram)
	hc.SampleCount = proto.Uint64(count)
	return &dto.Metric{
		Label:       m.Label,
		TimestampMs: m.TimestampMs,
		Histogram:   hc,
	}
}

func infBucketCount(h *dto.Histogram) (uint64, bool) {
	buckets := h.GetBucket()
	if len(buckets) == 0 {
		return 0, false
	}
	last := buckets[len(buckets)-1]
	if !math.IsInf(last.GetUpperBound(), +1) {
		return 0, false
	}
	return last.GetCumulativeCount(), true
}
