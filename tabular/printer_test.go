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

package tabular

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type familyRow struct {
	Name        string `json:"name"`
	SampleCount string `json:"sample_count"`
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	Print(&buf, []interface{}{
		familyRow{Name: "http_requests_total", SampleCount: CountFormatter(12345)},
		familyRow{Name: "up", SampleCount: CountFormatter(3)},
	})

	out := buf.String()
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "SAMPLE")
	assert.Contains(t, out, "COUNT")
	assert.Contains(t, out, "http_requests_total")
	assert.Contains(t, out, "12,345")
	assert.True(t, strings.Contains(out, "| up "))
}

func TestPrintEmpty(t *testing.T) {
	var buf bytes.Buffer
	Print(&buf, nil)
	assert.Empty(t, buf.String())
}

func TestFormatColumnName(t *testing.T) {
	assert.Equal(t, "SAMPLE\nCOUNT", formatColumnName("sample_count"))
	assert.Equal(t, "NAME", formatColumnName("name"))
}

func TestByteFormatter(t *testing.T) {
	assert.Equal(t, "1.0 KiB", ByteFormatter(1024))
	assert.Equal(t, "0 B", ByteFormatter(0))
}

func TestRowOf(t *testing.T) {
	row := rowOf(familyRow{Name: "up", SampleCount: "3"})
	assert.Equal(t, []string{"up", "3"}, row)
}
