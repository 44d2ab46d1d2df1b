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
	"os"
	"os/signal"
	"syscall"

	"github.com/pegasus-kv/pushagg/aggregate"
	"github.com/pegasus-kv/pushagg/logging"
	"github.com/pegasus-kv/pushagg/metrics"
	"github.com/pegasus-kv/pushagg/webui"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/tomb.v2"
)

var errTerminated = errors.New("pushagg terminates")

// setupSignalHandler setup signal handler for the gateway
func setupSignalHandler(shutdownFunc func()) {
	closeSignalChan := make(chan os.Signal, 1)
	signal.Notify(closeSignalChan,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT)

	go func() {
		sig := <-closeSignalChan
		log.Infof("got signal %s to exit", sig.String())
		shutdownFunc()
	}()
}

func newRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry
}

func runServe(path string) error {
	v := viper.New()
	cfg, err := loadConfig(v, path)
	if err != nil {
		return err
	}
	if err := logging.Setup(cfg.Log); err != nil {
		return err
	}
	if v.ConfigFileUsed() != "" {
		if _, err := os.Stat(v.ConfigFileUsed()); err == nil {
			watchConfig(v)
		}
	}

	agg := aggregate.NewAggregator()
	history := aggregate.NewHistory(cfg.HistoryCapacity)
	agg.AddHookAfterPush(history.Record)

	registry := newRegistry()
	agg.AddHookAfterPush(metrics.NewRecorder(registry, agg).Observe)

	tom := &tomb.Tomb{}
	setupSignalHandler(func() {
		tom.Kill(errTerminated) // stop the web server
	})
	webui.StartWebServer(tom, webui.NewApp(agg, history, registry), fmt.Sprintf(":%d", cfg.Port), cfg.ShutdownTimeout)

	if err := tom.Wait(); err != nil && !errors.Is(err, errTerminated) {
		log.Error("pushagg exited abnormally: ", err)
		return err
	}
	log.Info("pushagg exited normally.")
	return nil
}
