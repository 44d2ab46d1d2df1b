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

package cmd

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pegasus-kv/pushagg/aggregate"
	"github.com/pegasus-kv/pushagg/webui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGateway(t *testing.T) *httptest.Server {
	agg := aggregate.NewAggregator()
	history := aggregate.NewHistory(0)
	agg.AddHookAfterPush(history.Record)
	require.Nil(t, agg.Ingest("# HELP http_requests_total Requests.\n# TYPE http_requests_total counter\n"+
		"http_requests_total{code=\"200\"} 1\nhttp_requests_total{code=\"500\"} 1\n",
		map[string]string{"job": "api"}))

	app := webui.NewApp(agg, history, newRegistry())
	require.Nil(t, app.Build())
	srv := httptest.NewServer(app)
	t.Cleanup(srv.Close)
	return srv
}

func runCommand(t *testing.T, args ...string) (string, error) {
	var out bytes.Buffer
	Root.SetOut(&out)
	Root.SetArgs(args)
	defer Root.SetOut(nil)
	err := Root.Execute()
	return out.String(), err
}

func TestFamiliesCommand(t *testing.T) {
	srv := newGateway(t)

	out, err := runCommand(t, "families", "--server", srv.URL)
	require.Nil(t, err)
	assert.Contains(t, out, "http_requests_total")
	assert.Contains(t, out, "counter")
	assert.Contains(t, out, "Requests.")
}

func TestPushesCommand(t *testing.T) {
	srv := newGateway(t)

	out, err := runCommand(t, "pushes", "--server", srv.URL)
	require.Nil(t, err)
	assert.Contains(t, out, `job="api"`)
	assert.Contains(t, out, " B ")
}

func TestFetchJSONBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := fetchJSON(srv.URL, "/api/v1/families")
	assert.NotNil(t, err)
}

func TestFetchJSONInvalidBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	_, err := fetchJSON(srv.URL, "/")
	assert.NotNil(t, err)
}
