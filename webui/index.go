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
	"github.com/dustin/go-humanize"
	"github.com/kataras/iris/v12"
	log "github.com/sirupsen/logrus"
)

func (s *server) indexHandler(ctx iris.Context) {
	ctx.ViewData("Families", s.agg.Families())

	type pushHTMLRow struct {
		When    string
		Labels  map[string]string
		Samples string
		Size    string
		Error   string
	}
	var pushes []pushHTMLRow
	views := s.pushViews()
	// latest first
	for i := len(views) - 1; i >= 0; i-- {
		v := views[i]
		pushes = append(pushes, pushHTMLRow{
			When:    humanize.Time(v.Time),
			Labels:  v.Labels,
			Samples: humanize.Comma(int64(v.Samples)),
			Size:    humanize.IBytes(uint64(v.Bytes)),
			Error:   v.Error,
		})
	}
	ctx.ViewData("Pushes", pushes)

	if err := ctx.View("index.html"); err != nil {
		log.Errorf("failed to render index page: %s", err)
	}
}
