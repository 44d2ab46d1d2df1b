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

package webui

import (
	"time"

	"github.com/kataras/iris/v12"
	"github.com/pegasus-kv/pushagg/codec"
	log "github.com/sirupsen/logrus"
)

func (s *server) scrapeHandler(ctx iris.Context) {
	format := codec.NegotiateFormat(ctx.Request().Header)
	ctx.Header("Content-Type", string(format))
	if err := s.agg.WriteTo(ctx.ResponseWriter(), format); err != nil {
		log.Errorf("failed to write scrape response: %s", err)
	}
}

func (s *server) familiesHandler(ctx iris.Context) {
	ctx.JSON(s.agg.Families())
}

type pushView struct {
	Time     time.Time         `json:"time"`
	Labels   map[string]string `json:"labels,omitempty"`
	Families []string          `json:"families"`
	Samples  int               `json:"samples"`
	Bytes    int64             `json:"bytes"`
	Error    string            `json:"error,omitempty"`
}

func (s *server) pushViews() []pushView {
	views := []pushView{}
	if s.history == nil {
		return views
	}
	for _, rec := range s.history.Snapshot() {
		v := pushView{
			Time:     rec.Time,
			Labels:   rec.Labels,
			Families: rec.Families,
			Samples:  rec.Samples,
			Bytes:    rec.Bytes,
		}
		if v.Families == nil {
			v.Families = []string{}
		}
		if rec.Err != nil {
			v.Error = rec.Err.Error()
		}
		views = append(views, v)
	}
	return views
}

func (s *server) pushesHandler(ctx iris.Context) {
	ctx.JSON(s.pushViews())
}
