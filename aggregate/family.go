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
	"strings"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/model"
	"google.golang.org/protobuf/proto"
)

// aggregationFamily holds the merged state of one metric family.
// Stored samples are never modified in place: a merge swaps in new ones,
// so a rendered family stays valid after the lock is released.
type aggregationFamily struct {
	name string
	help string
	typ  dto.MetricType

	samples []*dto.Metric
	index   map[model.Fingerprint][]int
}

// FamilyInfo summarizes one stored family.
type FamilyInfo struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Help    string `json:"help,omitempty"`
	Samples int    `json:"samples"`
}

// newAggregationFamily creates a family from the first batch seen for its name.
// The batch goes through the same path as any later merge, so clearmode
// labels are stripped at creation time too.
func newAggregationFamily(mf *dto.MetricFamily) (*aggregationFamily, error) {
	f := &aggregationFamily{
		name:  mf.GetName(),
		typ:   mf.GetType(),
		index: make(map[model.Fingerprint][]int),
	}
	if err := f.merge(mf); err != nil {
		return nil, err
	}
	return f, nil
}

// merge applies an incoming batch of the same family. On error the stored
// samples are left exactly as they were.
func (f *aggregationFamily) merge(mf *dto.MetricFamily) error {
	if mf.GetName() != f.name {
		return fmt.Errorf("%w: tried to merge family %s into %s", ErrSchemaMismatch, mf.GetName(), f.name)
	}
	if mf.GetType() != f.typ {
		return fmt.Errorf("%w: tried to merge %s into %s for family %s",
			ErrSchemaMismatch, mf.GetType(), f.typ, f.name)
	}

	var s *stagedMerge
	var err error
	if f.shouldClearFamily(mf) {
		s, err = f.stageReplaceAll(mf.Metric)
	} else {
		s, err = f.stageMerge(mf.Metric)
	}
	if err != nil {
		return err
	}
	s.commit()

	if mf.GetHelp() != "" {
		f.help = mf.GetHelp()
	}
	return nil
}

// shouldClearFamily looks at the whole batch before anything is merged:
// one sample asking for a family clear resets the family.
func (f *aggregationFamily) shouldClearFamily(mf *dto.MetricFamily) bool {
	for _, m := range mf.Metric {
		if ResolveClearMode(f.typ, m) == ClearModeFamily {
			return true
		}
	}
	return false
}

func (f *aggregationFamily) stageReplaceAll(metrics []*dto.Metric) (*stagedMerge, error) {
	s := &stagedMerge{
		family: f,
		fresh:  true,
		added:  make(map[model.Fingerprint][]int, len(metrics)),
	}
	for _, m := range metrics {
		incoming := canonicalize(m)
		ls := identityOf(incoming)
		if err := f.checkKind(ls, incoming); err != nil {
			return nil, err
		}
		fp := ls.Fingerprint()
		if i, found := s.find(ls, fp); found {
			// a later duplicate wins
			s.samples[i] = incoming
			continue
		}
		s.add(fp, incoming)
	}
	return s, nil
}

func (f *aggregationFamily) stageMerge(metrics []*dto.Metric) (*stagedMerge, error) {
	s := &stagedMerge{
		family:  f,
		samples: append(make([]*dto.Metric, 0, len(f.samples)+len(metrics)), f.samples...),
		added:   make(map[model.Fingerprint][]int),
	}
	for _, m := range metrics {
		mode := ResolveClearMode(f.typ, m)
		incoming := canonicalize(m)
		ls := identityOf(incoming)
		fp := ls.Fingerprint()

		i, found := s.find(ls, fp)
		if !found {
			if err := f.checkKind(ls, incoming); err != nil {
				return nil, err
			}
			s.add(fp, incoming)
			continue
		}
		merged, err := mergeMetric(s.samples[i], incoming, mode)
		if err != nil {
			return nil, fmt.Errorf("failed to merge sample %s of family %s: %w", ls, f.name, err)
		}
		s.samples[i] = merged
	}
	return s, nil
}

// checkKind keeps every stored sample in line with the declared family type.
func (f *aggregationFamily) checkKind(ls model.LabelSet, m *dto.Metric) error {
	if want, got := kindForType(f.typ), kindOf(m); got != want {
		return fmt.Errorf("%w: sample %s of %s family %s carries %s value",
			ErrValueTypeMismatch, ls, f.typ, f.name, got)
	}
	return nil
}

func (f *aggregationFamily) render() *dto.MetricFamily {
	mf := &dto.MetricFamily{
		Name:   proto.String(f.name),
		Type:   f.typ.Enum(),
		Metric: append([]*dto.Metric(nil), f.samples...),
	}
	if f.help != "" {
		mf.Help = proto.String(f.help)
	}
	return mf
}

func (f *aggregationFamily) info() FamilyInfo {
	return FamilyInfo{
		Name:    f.name,
		Type:    strings.ToLower(f.typ.String()),
		Help:    f.help,
		Samples: len(f.samples),
	}
}

// stagedMerge collects the result of a merge without touching the family.
type stagedMerge struct {
	family *aggregationFamily
	// fresh drops the family's current samples on commit.
	fresh bool

	samples []*dto.Metric
	added   map[model.Fingerprint][]int
}

func (s *stagedMerge) find(ls model.LabelSet, fp model.Fingerprint) (int, bool) {
	if !s.fresh {
		for _, i := range s.family.index[fp] {
			if identityOf(s.samples[i]).Equal(ls) {
				return i, true
			}
		}
	}
	for _, i := range s.added[fp] {
		if identityOf(s.samples[i]).Equal(ls) {
			return i, true
		}
	}
	return -1, false
}

func (s *stagedMerge) add(fp model.Fingerprint, m *dto.Metric) {
	s.added[fp] = append(s.added[fp], len(s.samples))
	s.samples = append(s.samples, m)
}

func (s *stagedMerge) commit() {
	f := s.family
	if s.fresh {
		f.index = s.added
	} else {
		for fp, idx := range s.added {
			f.index[fp] = append(f.index[fp], idx...)
		}
	}
	f.samples = s.samples
}
