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

// Package cmd implements the command line of the gateway.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Root is the entrance of the command line. It serves the gateway by default.
	Root *cobra.Command

	configPath *string
)

func init() {
	Root = &cobra.Command{
		Use:           "pushagg [--config <config-file>]",
		Short:         "pushagg: a Prometheus push gateway that aggregates pushed metrics",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(c *cobra.Command, args []string) error {
			return runServe(*configPath)
		},
	}
	configPath = Root.PersistentFlags().StringP("config", "c", "config.yml", "the path of the YAML config file")

	Root.AddCommand(serveCommand(), familiesCommand(), pushesCommand())
}

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "serve the push gateway",
		RunE: func(c *cobra.Command, args []string) error {
			return runServe(*configPath)
		},
	}
}

// Execute runs the command line and exits the process on failure.
func Execute() {
	if err := Root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
