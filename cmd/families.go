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
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pegasus-kv/pushagg/tabular"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

var httpClient = &http.Client{Timeout: 10 * time.Second}

type familyRow struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Samples string `json:"samples"`
	Help    string `json:"help"`
}

type pushRow struct {
	When     string `json:"when"`
	Labels   string `json:"labels"`
	Families int64  `json:"families"`
	Samples  string `json:"samples"`
	Size     string `json:"size"`
	Error    string `json:"error"`
}

func familiesCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "families",
		Short: "list the metric families aggregated by a running gateway",
	}
	server := c.Flags().StringP("server", "s", "http://127.0.0.1:9091", "the address of the gateway")
	c.RunE = func(c *cobra.Command, args []string) error {
		data, err := fetchJSON(*server, "/api/v1/families")
		if err != nil {
			return err
		}
		var rows []interface{}
		for _, f := range data.Array() {
			rows = append(rows, familyRow{
				Name:    f.Get("name").String(),
				Type:    f.Get("type").String(),
				Samples: tabular.CountFormatter(f.Get("samples").Int()),
				Help:    f.Get("help").String(),
			})
		}
		tabular.Print(c.OutOrStdout(), rows)
		return nil
	}
	return c
}

func pushesCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "pushes",
		Short: "list the recent pushes received by a running gateway",
	}
	server := c.Flags().StringP("server", "s", "http://127.0.0.1:9091", "the address of the gateway")
	c.RunE = func(c *cobra.Command, args []string) error {
		data, err := fetchJSON(*server, "/api/v1/pushes")
		if err != nil {
			return err
		}
		var rows []interface{}
		for _, p := range data.Array() {
			var labels []string
			p.Get("labels").ForEach(func(k, v gjson.Result) bool {
				labels = append(labels, fmt.Sprintf("%s=%q", k.String(), v.String()))
				return true
			})
			rows = append(rows, pushRow{
				When:     humanize.Time(p.Get("time").Time()),
				Labels:   strings.Join(labels, ","),
				Families: p.Get("families.#").Int(),
				Samples:  tabular.CountFormatter(p.Get("samples").Int()),
				Size:     tabular.ByteFormatter(p.Get("bytes").Int()),
				Error:    p.Get("error").String(),
			})
		}
		tabular.Print(c.OutOrStdout(), rows)
		return nil
	}
	return c
}

func fetchJSON(server string, path string) (gjson.Result, error) {
	resp, err := httpClient.Get(strings.TrimRight(server, "/") + path)
	if err != nil {
		return gjson.Result{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return gjson.Result{}, fmt.Errorf("bad status: %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, err
	}
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, errors.New("invalid JSON response")
	}
	return gjson.ParseBytes(body), nil
}
