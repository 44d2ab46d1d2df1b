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

// Package logging configures the standard logrus logger of the gateway.
package logging

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config is used to configure the generation of log files.
type Config struct {
	// Filename is the rolling log file. Logs go to stderr if empty.
	Filename string
	MaxSize  int // megabytes
	MaxAge   int // days
	Level    string
}

// DefaultConfig is the logging configuration used when none is given.
var DefaultConfig = Config{
	Filename: "./pushagg.log",
	MaxSize:  50,
	MaxAge:   2,
	Level:    "info",
}

// Setup applies cfg to the standard logger.
func Setup(cfg Config) error {
	log.SetFormatter(&log.TextFormatter{
		DisableColors:    true,
		FullTimestamp:    true,
		CallerPrettyfier: callerPrettifier,
	})
	log.SetReportCaller(true)
	if cfg.Filename != "" {
		log.SetOutput(newRollingWriter(cfg))
	}
	return SetLevel(cfg.Level)
}

// SetLevel changes the level of the standard logger. An empty level means info.
func SetLevel(level string) error {
	if level == "" {
		level = "info"
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	log.SetLevel(lvl)
	return nil
}

func newRollingWriter(cfg Config) io.Writer {
	return &lumberjack.Logger{
		Filename:  cfg.Filename,
		MaxSize:   cfg.MaxSize,
		MaxAge:    cfg.MaxAge,
		LocalTime: true,
	}
}

// callerPrettifier simplifies the caller info
func callerPrettifier(f *runtime.Frame) (function string, file string) {
	function = f.Function[strings.LastIndex(f.Function, "/")+1:]
	file = fmt.Sprint(f.File[strings.LastIndex(f.File, "/")+1:], ":", f.Line)
	return function, file
}
