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

package aggregate

import (
	"errors"
	"fmt"
)

var (
	// ErrSchemaMismatch is returned when an incoming family disagrees with the
	// stored family of the same name on name or type.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrValueTypeMismatch is returned when two samples with an equal label set
	// carry values of different types.
	ErrValueTypeMismatch = errors.New("value type mismatch")

	// ErrUnsupportedMerge is returned for values that cannot be combined,
	// i.e. summaries and native histograms.
	ErrUnsupportedMerge = errors.New("unsupported merge")
)

// DecodeError reports a malformed push. The batch carrying it was rejected
// before any state was touched.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode exposition: %s", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
