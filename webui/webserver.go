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

// Package webui serves the push, scrape and status endpoints of the gateway.
package webui

import (
	"context"
	"embed"
	"errors"
	"time"

	"github.com/kataras/iris/v12"
	"github.com/pegasus-kv/pushagg/aggregate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"gopkg.in/tomb.v2"
)

//go:embed templates/*.html
var templatesFS embed.FS

// DefaultShutdownTimeout bounds the graceful shutdown of the web server.
const DefaultShutdownTimeout = 5 * time.Second

type server struct {
	agg     *aggregate.Aggregator
	history *aggregate.History
}

// NewApp builds the iris application of the gateway. history may be nil, in
// which case no push history is reported. gatherer provides the self-metrics.
func NewApp(agg *aggregate.Aggregator, history *aggregate.History, gatherer prometheus.Gatherer) *iris.Application {
	s := &server{agg: agg, history: history}

	app := iris.New()
	app.Logger().SetLevel("warn")

	for _, path := range []string{
		"/metrics",
		"/metrics/job/{job}",
		"/metrics/job/{job}/{labels:path}",
		"/metrics/job@base64/{job}",
		"/metrics/job@base64/{job}/{labels:path}",
	} {
		app.Post(path, s.pushHandler)
		app.Put(path, s.pushHandler)
	}
	app.Get("/metrics", s.scrapeHandler)

	api := app.Party("/api/v1")
	api.Get("/families", s.familiesHandler)
	api.Get("/pushes", s.pushesHandler)

	app.Get("/internal/metrics", func(ctx iris.Context) {
		handler := promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
		handler.ServeHTTP(ctx.ResponseWriter(), ctx.Request())
	})
	app.Get("/-/healthy", func(ctx iris.Context) {
		ctx.WriteString("OK")
	})

	app.Get("/", s.indexHandler)
	app.RegisterView(iris.HTML(templatesFS, ".html").RootDir("templates"))

	return app
}

// StartWebServer runs app on addr under tom. The server is shut down once tom
// is dying; an error of the listener kills tom.
func StartWebServer(tom *tomb.Tomb, app *iris.Application, addr string, shutdownTimeout time.Duration) {
	if shutdownTimeout <= 0 {
		shutdownTimeout = DefaultShutdownTimeout
	}

	tom.Go(func() error {
		log.Infof("web server listening on %s", addr)
		err := app.Listen(addr, iris.WithoutInterruptHandler, iris.WithoutStartupLog)
		if err != nil && !errors.Is(err, iris.ErrServerClosed) {
			return err
		}
		return nil
	})

	tom.Go(func() error {
		<-tom.Dying()
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.Shutdown(ctx); err != nil {
			log.Errorf("failed to shutdown web server: %s", err)
		}
		log.Info("web server stopped")
		return nil
	})
}
