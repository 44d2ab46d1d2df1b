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
	dto "github.com/prometheus/client_model/go"
	"google.golang.org/protobuf/proto"
)

// mergeBuckets merges two bucket lists sorted ascending by upper bound, summing
// the counts of buckets sharing a bound. A merged bucket takes its exemplar
// from second. The inputs are not sorted here: unsorted input yields unsorted output.
func mergeBuckets(first, second []*dto.Bucket) []*dto.Bucket {
	merged := make([]*dto.Bucket, 0, len(first)+len(second))

	i, j := 0, 0
	for i < len(first) && j < len(second) {
		b1, b2 := first[i], second[j]
		switch {
		case b1.GetUpperBound() < b2.GetUpperBound():
			merged = append(merged, b1)
			i++
		case b1.GetUpperBound() > b2.GetUpperBound():
			merged = append(merged, b2)
			j++
		default:
			merged = append(merged, &dto.Bucket{
				UpperBound:      proto.Float64(b1.GetUpperBound()),
				CumulativeCount: proto.Uint64(b1.GetCumulativeCount() + b2.GetCumulativeCount()),
				Exemplar:        b2.Exemplar,
			})
			i++
			j++
		}
	}

	// at most one of the lists has anything left
	merged = append(merged, first[i:]...)
	merged = append(merged, second[j:]...)
	return merged
}
