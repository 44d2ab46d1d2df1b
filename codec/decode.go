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

// Package codec converts between exposition documents and metric families.
package codec

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/prometheus/common/model"
	"google.golang.org/protobuf/proto"
)

// FmtText is the classic Prometheus text exposition format.
var FmtText = expfmt.NewFormat(expfmt.TypeTextPlain)

// Decode parses a pushed document. The content type selects delimited protobuf,
// anything else is read as text. Families are returned sorted by name.
func Decode(r io.Reader, contentType string) ([]*dto.MetricFamily, error) {
	format := expfmt.ResponseFormat(http.Header{"Content-Type": []string{contentType}})
	if format.FormatType() == expfmt.TypeProtoDelim {
		return decodeProto(r, format)
	}

	parser := expfmt.NewTextParser(model.UTF8Validation)
	byName, err := parser.TextToMetricFamilies(r)
	if err != nil {
		return nil, err
	}
	families := make([]*dto.MetricFamily, 0, len(byName))
	for _, mf := range byName {
		families = append(families, mf)
	}
	sortFamilies(families)
	return families, nil
}

// DecodeText parses a text exposition.
func DecodeText(text string) ([]*dto.MetricFamily, error) {
	return Decode(strings.NewReader(text), "")
}

func decodeProto(r io.Reader, format expfmt.Format) ([]*dto.MetricFamily, error) {
	dec := expfmt.NewDecoder(r, format)
	byName := make(map[string]*dto.MetricFamily)
	for {
		mf := &dto.MetricFamily{}
		if err := dec.Decode(mf); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		if mf.GetName() == "" {
			return nil, fmt.Errorf("metric family without a name")
		}
		if prev, found := byName[mf.GetName()]; found {
			if prev.GetType() != mf.GetType() {
				return nil, fmt.Errorf("family %s declared as both %s and %s", mf.GetName(), prev.GetType(), mf.GetType())
			}
			prev.Metric = append(prev.Metric, mf.Metric...)
			continue
		}
		byName[mf.GetName()] = mf
	}
	families := make([]*dto.MetricFamily, 0, len(byName))
	for _, mf := range byName {
		families = append(families, mf)
	}
	sortFamilies(families)
	return families, nil
}

func sortFamilies(families []*dto.MetricFamily) {
	sort.Slice(families, func(i, j int) bool {
		return families[i].GetName() < families[j].GetName()
	})
}

// ApplyLabels sets each of the extra labels on every sample, overwriting an
// existing label of the same name.
func ApplyLabels(families []*dto.MetricFamily, extra map[string]string) {
	if len(extra) == 0 {
		return
	}
	names := make([]string, 0, len(extra))
	for name := range extra {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, mf := range families {
		for _, m := range mf.Metric {
			for _, name := range names {
				setLabel(m, name, extra[name])
			}
		}
	}
}

func setLabel(m *dto.Metric, name, value string) {
	for _, lp := range m.Label {
		if lp.GetName() == name {
			lp.Value = proto.String(value)
			return
		}
	}
	m.Label = append(m.Label, &dto.LabelPair{
		Name:  proto.String(name),
		Value: proto.String(value),
	})
}
