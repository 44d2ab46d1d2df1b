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

// Package metrics instruments the gateway itself.
package metrics

import (
	"errors"

	"github.com/pegasus-kv/pushagg/aggregate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pushagg"

// Failure reasons of a push.
const (
	ReasonDecode            = "decode"
	ReasonSchemaMismatch    = "schema_mismatch"
	ReasonValueTypeMismatch = "value_type_mismatch"
	ReasonUnsupported       = "unsupported"
	ReasonOther             = "other"
)

// Recorder keeps the self-metrics of the gateway up to date from push records.
type Recorder struct {
	pushes   *prometheus.CounterVec
	samples  prometheus.Counter
	bytes    prometheus.Counter
	failures *prometheus.CounterVec
	families prometheus.GaugeFunc
}

// FamilyCounter reports how many metric families are currently stored.
type FamilyCounter interface {
	FamilyCount() int
}

// NewRecorder registers the gateway metrics on reg. The family gauge is read
// from store at collection time.
func NewRecorder(reg prometheus.Registerer, store FamilyCounter) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		pushes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pushes_total",
			Help:      "Number of pushes handled. Labels: result(success/failure)",
		}, []string{"result"}),
		samples: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pushed_samples_total",
			Help:      "Number of samples received by successful pushes.",
		}),
		bytes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pushed_bytes_total",
			Help:      "Number of bytes read from push bodies.",
		}),
		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "push_failures_total",
			Help:      "Number of failed pushes. Labels: reason",
		}, []string{"reason"}),
		families: factory.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "families",
			Help:      "Number of metric families currently aggregated.",
		}, func() float64 {
			return float64(store.FamilyCount())
		}),
	}
}

// Observe accounts one push. It is meant to be registered with
// Aggregator.AddHookAfterPush.
func (r *Recorder) Observe(rec aggregate.PushRecord) {
	r.bytes.Add(float64(rec.Bytes))
	if rec.Err != nil {
		r.pushes.WithLabelValues("failure").Inc()
		r.failures.WithLabelValues(FailureReason(rec.Err)).Inc()
	} else {
		r.pushes.WithLabelValues("success").Inc()
		r.samples.Add(float64(rec.Samples))
	}
}

// FailureReason classifies a push error.
func FailureReason(err error) string {
	var decodeErr *aggregate.DecodeError
	switch {
	case errors.As(err, &decodeErr):
		return ReasonDecode
	case errors.Is(err, aggregate.ErrSchemaMismatch):
		return ReasonSchemaMismatch
	case errors.Is(err, aggregate.ErrValueTypeMismatch):
		return ReasonValueTypeMismatch
	case errors.Is(err, aggregate.ErrUnsupportedMerge):
		return ReasonUnsupported
	default:
		return ReasonOther
	}
}
