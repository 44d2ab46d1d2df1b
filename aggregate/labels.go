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
	"sort"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/model"
	"google.golang.org/protobuf/proto"
)

// ClearModeLabel is the reserved label carrying the merge policy of a sample.
// It is stripped at every insertion point and never appears in stored state.
const ClearModeLabel = "clearmode"

func labelValue(m *dto.Metric, name string) (string, bool) {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue(), true
		}
	}
	return "", false
}

// identityOf returns the label set identifying a sample within its family.
func identityOf(m *dto.Metric) model.LabelSet {
	ls := make(model.LabelSet, len(m.GetLabel()))
	for _, lp := range m.GetLabel() {
		if lp.GetName() == ClearModeLabel {
			continue
		}
		ls[model.LabelName(lp.GetName())] = model.LabelValue(lp.GetValue())
	}
	return ls
}

// canonicalize returns a deep copy of m without the clearmode label and with
// labels sorted by name. This is the only way samples enter stored state.
func canonicalize(m *dto.Metric) *dto.Metric {
	c := proto.Clone(m).(*dto.Metric)
	labels := c.Label[:0]
	for _, lp := range c.Label {
		if lp.GetName() != ClearModeLabel {
			labels = append(labels, lp)
		}
	}
	sort.Slice(labels, func(i, j int) bool {
		return labels[i].GetName() < labels[j].GetName()
	})
	c.Label = labels
	return c
}
