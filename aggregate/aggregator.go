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
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pegasus-kv/pushagg/codec"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	log "github.com/sirupsen/logrus"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
)

// Aggregator merges pushed metric families into one running state and renders
// that state for scraping. A single reader/writer lock guards the whole state:
// a pushed batch is merged atomically with respect to other pushes and renders.
type Aggregator struct {
	lock     sync.RWMutex
	families map[string]*aggregationFamily

	hooks pushHooksManager
}

// NewAggregator returns an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		families: make(map[string]*aggregationFamily),
	}
}

// Ingest decodes a text exposition, sets extraLabels on every sample and
// merges the result.
func (ag *Aggregator) Ingest(text string, extraLabels map[string]string) error {
	return ag.IngestFrom(strings.NewReader(text), "", extraLabels)
}

// IngestFrom is like Ingest but reads the document from r, in the format named
// by contentType.
//
// A malformed document is rejected as a whole with a *DecodeError. Otherwise every
// family is merged; families failing to merge are left untouched and their errors
// are returned together, without affecting the other families of the batch.
func (ag *Aggregator) IngestFrom(r io.Reader, contentType string, extraLabels map[string]string) error {
	rec := newPushRecord(extraLabels)
	cr := &countingReader{r: r}

	families, err := codec.Decode(cr, contentType)
	rec.Bytes = cr.n
	if err != nil {
		rec.Err = &DecodeError{Err: err}
		ag.hooks.afterPush(rec)
		return rec.Err
	}
	codec.ApplyLabels(families, extraLabels)

	return ag.mergeAndRecord(families, rec)
}

// Merge merges already decoded families.
func (ag *Aggregator) Merge(families []*dto.MetricFamily) error {
	return ag.mergeAndRecord(families, newPushRecord(nil))
}

func (ag *Aggregator) mergeAndRecord(families []*dto.MetricFamily, rec PushRecord) error {
	for _, mf := range families {
		rec.Families = append(rec.Families, mf.GetName())
		rec.Samples += len(mf.Metric)
	}
	rec.StoredFamilies, rec.Err = ag.merge(families)
	ag.hooks.afterPush(rec)
	return rec.Err
}

func (ag *Aggregator) merge(families []*dto.MetricFamily) (int, error) {
	ag.lock.Lock()
	defer ag.lock.Unlock()

	var errs []error
	for _, mf := range families {
		name := mf.GetName()
		if f, found := ag.families[name]; found {
			if err := f.merge(mf); err != nil {
				errs = append(errs, err)
			}
			continue
		}

		f, err := newAggregationFamily(mf)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		ag.families[name] = f
		log.Infof("found new metric family: %s (%s)", name, f.info().Type)
	}
	return len(ag.families), utilerrors.NewAggregate(errs)
}

// Render returns the aggregated state as a text exposition.
func (ag *Aggregator) Render() string {
	var b strings.Builder
	if err := ag.WriteTo(&b, codec.FmtText); err != nil {
		log.Errorf("failed to render aggregated metrics: %s", err)
	}
	return b.String()
}

// WriteTo writes the aggregated state in the given format, families ordered by name.
func (ag *Aggregator) WriteTo(w io.Writer, format expfmt.Format) error {
	ag.lock.RLock()
	defer ag.lock.RUnlock()

	families := make([]*dto.MetricFamily, 0, len(ag.families))
	for _, name := range ag.sortedNamesLocked() {
		families = append(families, ag.families[name].render())
	}
	return codec.Encode(w, format, families)
}

// Families summarizes every stored family, ordered by name.
func (ag *Aggregator) Families() []FamilyInfo {
	ag.lock.RLock()
	defer ag.lock.RUnlock()

	infos := make([]FamilyInfo, 0, len(ag.families))
	for _, name := range ag.sortedNamesLocked() {
		infos = append(infos, ag.families[name].info())
	}
	return infos
}

// FamilyCount returns the number of stored families.
func (ag *Aggregator) FamilyCount() int {
	ag.lock.RLock()
	defer ag.lock.RUnlock()
	return len(ag.families)
}

func (ag *Aggregator) sortedNamesLocked() []string {
	names := make([]string, 0, len(ag.families))
	for name := range ag.families {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AddHookAfterPush registers a hook called after every push attempt.
func (ag *Aggregator) AddHookAfterPush(hk HookAfterPush) {
	ag.hooks.add(hk)
}

func newPushRecord(labels map[string]string) PushRecord {
	rec := PushRecord{Time: time.Now()}
	if len(labels) > 0 {
		rec.Labels = make(map[string]string, len(labels))
		for k, v := range labels {
			rec.Labels[k] = v
		}
	}
	return rec
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
