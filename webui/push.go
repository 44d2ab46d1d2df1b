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
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/kataras/iris/v12"
	"github.com/pegasus-kv/pushagg/aggregate"
	log "github.com/sirupsen/logrus"
)

const base64Suffix = "@base64"

func (s *server) pushHandler(ctx iris.Context) {
	labels, err := groupingLabels(ctx)
	if err != nil {
		writeError(ctx, iris.StatusBadRequest, err)
		return
	}

	body, err := ctx.GetBody()
	if err != nil {
		writeError(ctx, iris.StatusBadRequest, err)
		return
	}
	log.Debugf("received a push of %s from %s, grouping labels %v",
		humanize.IBytes(uint64(len(body))), ctx.RemoteAddr(), labels)

	err = s.agg.IngestFrom(bytes.NewReader(body), ctx.GetHeader("Content-Type"), labels)
	if err != nil {
		log.Warnf("push from %s rejected: %s", ctx.RemoteAddr(), err)
		writeError(ctx, statusOf(err), err)
		return
	}
	ctx.StatusCode(iris.StatusOK)
}

func groupingLabels(ctx iris.Context) (map[string]string, error) {
	path := ctx.Path()
	if !strings.HasPrefix(path, "/metrics/job") {
		return nil, nil
	}

	params := ctx.Params()
	job := params.Get("job")
	if strings.HasPrefix(path, "/metrics/job"+base64Suffix+"/") {
		decoded, err := decodeBase64(job)
		if err != nil {
			return nil, fmt.Errorf("invalid base64 encoding in job name %q: %w", job, err)
		}
		job = decoded
	}
	if job == "" {
		return nil, errors.New("job name is required")
	}

	labels, err := parseLabelPath(params.Get("labels"))
	if err != nil {
		return nil, err
	}
	labels["job"] = job
	return labels, nil
}

// parseLabelPath parses the "<name>/<value>" pairs following the job of a push
// path. A name suffixed with "@base64" carries a base64url encoded value.
func parseLabelPath(path string) (map[string]string, error) {
	labels := make(map[string]string)
	path = strings.Trim(path, "/")
	if path == "" {
		return labels, nil
	}

	segments := strings.Split(path, "/")
	if len(segments)%2 != 0 {
		return nil, fmt.Errorf("odd number of components in label string %q", path)
	}
	for i := 0; i < len(segments); i += 2 {
		name, value := segments[i], segments[i+1]
		if strings.HasSuffix(name, base64Suffix) {
			name = strings.TrimSuffix(name, base64Suffix)
			decoded, err := decodeBase64(value)
			if err != nil {
				return nil, fmt.Errorf("invalid base64 encoding for label %s=%q: %w", name, value, err)
			}
			value = decoded
		}
		if name == "" {
			return nil, fmt.Errorf("empty label name in label string %q", path)
		}
		if name == "job" {
			return nil, errors.New("job label must be given as the job path component")
		}
		labels[name] = value
	}
	return labels, nil
}

// decodeBase64 decodes base64url with optional padding. A lone "=" encodes the
// empty string.
func decodeBase64(s string) (string, error) {
	b, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func statusOf(err error) int {
	var decodeErr *aggregate.DecodeError
	switch {
	case errors.As(err, &decodeErr):
		return iris.StatusBadRequest
	case errors.Is(err, aggregate.ErrSchemaMismatch), errors.Is(err, aggregate.ErrValueTypeMismatch):
		return iris.StatusConflict
	case errors.Is(err, aggregate.ErrUnsupportedMerge):
		return iris.StatusUnprocessableEntity
	default:
		return iris.StatusInternalServerError
	}
}

func writeError(ctx iris.Context, code int, err error) {
	ctx.StatusCode(code)
	ctx.WriteString(err.Error())
}
