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

package metrics

import (
	"errors"
	"fmt"
	"testing"

	"github.com/pegasus-kv/pushagg/aggregate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFailureReason(t *testing.T) {
	tests := []struct {
		err    error
		reason string
	}{
		{err: &aggregate.DecodeError{Err: errors.New("bad")}, reason: ReasonDecode},
		{err: fmt.Errorf("family foo: %w", aggregate.ErrSchemaMismatch), reason: ReasonSchemaMismatch},
		{err: aggregate.ErrValueTypeMismatch, reason: ReasonValueTypeMismatch},
		{err: aggregate.ErrUnsupportedMerge, reason: ReasonUnsupported},
		{err: errors.New("boom"), reason: ReasonOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.reason, FailureReason(tt.err), tt.err.Error())
	}
}

func TestRecorderObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	ag := aggregate.NewAggregator()
	r := NewRecorder(reg, ag)
	ag.AddHookAfterPush(r.Observe)

	require.Nil(t, ag.Ingest("# TYPE a gauge\na 1\na{x=\"1\"} 2\n", nil))
	require.Nil(t, ag.Ingest("# TYPE b counter\nb 1\n", nil))
	assert.NotNil(t, ag.Ingest("# TYPE a counter\na 1\n", nil))
	assert.NotNil(t, ag.Ingest("a{", nil))

	assert.Equal(t, float64(2), testutil.ToFloat64(r.pushes.WithLabelValues("success")))
	assert.Equal(t, float64(2), testutil.ToFloat64(r.pushes.WithLabelValues("failure")))
	assert.Equal(t, float64(3), testutil.ToFloat64(r.samples))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.failures.WithLabelValues(ReasonSchemaMismatch)))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.failures.WithLabelValues(ReasonDecode)))
	assert.Equal(t, float64(2), testutil.ToFloat64(r.families))
	assert.Greater(t, testutil.ToFloat64(r.bytes), float64(0))

	families, err := reg.Gather()
	require.Nil(t, err)
	var names []string
	for _, mf := range families {
		names = append(names, mf.GetName())
	}
	assert.Contains(t, names, "pushagg_pushes_total")
	assert.Contains(t, names, "pushagg_families")
}

func TestRecorderFamiliesFollowStore(t *testing.T) {
	reg := prometheus.NewRegistry()
	ag := aggregate.NewAggregator()
	r := NewRecorder(reg, ag)

	require.Nil(t, ag.Ingest("# TYPE a gauge\na 1\n# TYPE b gauge\nb 1\n", nil))
	// a hook running late with an older record does not roll the gauge back
	r.Observe(aggregate.PushRecord{StoredFamilies: 0})
	assert.Equal(t, float64(2), testutil.ToFloat64(r.families))

	require.Nil(t, ag.Ingest("# TYPE c gauge\nc 1\n", nil))
	assert.Equal(t, float64(3), testutil.ToFloat64(r.families))
}
