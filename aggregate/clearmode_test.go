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
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
)

func TestParseClearMode(t *testing.T) {
	for s, want := range map[string]ClearMode{
		"aggregate": ClearModeAggregate,
		"replace":   ClearModeReplace,
		"family":    ClearModeFamily,
	} {
		mode, err := ParseClearMode(s)
		assert.Nil(t, err)
		assert.Equal(t, want, mode)
		assert.Equal(t, s, mode.String())
	}

	_, err := ParseClearMode("Replace")
	assert.NotNil(t, err)
}

func TestDefaultClearMode(t *testing.T) {
	assert.Equal(t, ClearModeReplace, DefaultClearMode(dto.MetricType_GAUGE))
	assert.Equal(t, ClearModeReplace, DefaultClearMode(dto.MetricType_GAUGE_HISTOGRAM))
	assert.Equal(t, ClearModeAggregate, DefaultClearMode(dto.MetricType_COUNTER))
	assert.Equal(t, ClearModeAggregate, DefaultClearMode(dto.MetricType_HISTOGRAM))
	assert.Equal(t, ClearModeAggregate, DefaultClearMode(dto.MetricType_SUMMARY))
	assert.Equal(t, ClearModeAggregate, DefaultClearMode(dto.MetricType_UNTYPED))
}

func TestResolveClearMode(t *testing.T) {
	tests := []struct {
		typ    dto.MetricType
		labels []string
		want   ClearMode
	}{
		{typ: dto.MetricType_GAUGE, want: ClearModeReplace},
		{typ: dto.MetricType_GAUGE, labels: []string{"clearmode", "aggregate"}, want: ClearModeAggregate},
		{typ: dto.MetricType_COUNTER, labels: []string{"clearmode", "replace"}, want: ClearModeReplace},
		{typ: dto.MetricType_COUNTER, labels: []string{"job", "a", "clearmode", "family"}, want: ClearModeFamily},

		// unrecognized values fall back to the type default
		{typ: dto.MetricType_GAUGE, labels: []string{"clearmode", "bogus"}, want: ClearModeReplace},
		{typ: dto.MetricType_COUNTER, labels: []string{"clearmode", ""}, want: ClearModeAggregate},
		{typ: dto.MetricType_HISTOGRAM, labels: []string{"clearmode", "FAMILY"}, want: ClearModeAggregate},
	}

	for _, tt := range tests {
		m := gaugeSample(1, tt.labels...)
		assert.Equal(t, tt.want, ResolveClearMode(tt.typ, m), "%s %v", tt.typ, tt.labels)
	}
}

func TestBogusClearModeBehavesLikeNone(t *testing.T) {
	withBogus := NewAggregator()
	without := NewAggregator()

	assert.Nil(t, withBogus.Ingest("# TYPE g gauge\ng 1\n", nil))
	assert.Nil(t, withBogus.Ingest("# TYPE g gauge\ng{clearmode=\"bogus\"} 5\n", nil))
	assert.Nil(t, without.Ingest("# TYPE g gauge\ng 1\n", nil))
	assert.Nil(t, without.Ingest("# TYPE g gauge\ng 5\n", nil))

	assert.Equal(t, without.Render(), withBogus.Render())
}
