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
	"io/fs"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pegasus-kv/pushagg/logging"
	"github.com/pegasus-kv/pushagg/webui"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const defaultPort = 9091

type config struct {
	Port            int
	Log             logging.Config
	HistoryCapacity int
	ShutdownTimeout time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", defaultPort)
	v.SetDefault("log.filename", logging.DefaultConfig.Filename)
	v.SetDefault("log.max_size", logging.DefaultConfig.MaxSize)
	v.SetDefault("log.max_age", logging.DefaultConfig.MaxAge)
	v.SetDefault("log.level", logging.DefaultConfig.Level)
	v.SetDefault("history.capacity", 10)
	v.SetDefault("shutdown_timeout", webui.DefaultShutdownTimeout)
}

// loadConfig reads the YAML file at path into v. A missing file is not an
// error, the defaults apply.
func loadConfig(v *viper.Viper, path string) (config, error) {
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		log.Warnf("config file %s not found, using defaults", path)
	}
	return configFrom(v), nil
}

func configFrom(v *viper.Viper) config {
	return config{
		Port: v.GetInt("port"),
		Log: logging.Config{
			Filename: v.GetString("log.filename"),
			MaxSize:  v.GetInt("log.max_size"),
			MaxAge:   v.GetInt("log.max_age"),
			Level:    v.GetString("log.level"),
		},
		HistoryCapacity: v.GetInt("history.capacity"),
		ShutdownTimeout: v.GetDuration("shutdown_timeout"),
	}
}

// watchConfig re-applies the log level whenever the config file changes.
func watchConfig(v *viper.Viper) {
	v.OnConfigChange(func(e fsnotify.Event) {
		onConfigChange(v, e)
	})
	v.WatchConfig()
}

func onConfigChange(v *viper.Viper, e fsnotify.Event) {
	level := v.GetString("log.level")
	if err := logging.SetLevel(level); err != nil {
		log.Errorf("config file %s changed: %s", e.Name, err)
		return
	}
	log.Infof("config file %s changed, log level is %s", e.Name, level)
}
