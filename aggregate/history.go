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
	"container/list"
	"sync"
)

const (
	historyDefaultCapacity = 10
)

// History is a time-ordered queue of the latest push records.
type History struct {
	lock sync.RWMutex

	records  *list.List
	capacity int
}

// NewHistory returns a History keeping at most capacity records.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = historyDefaultCapacity
	}
	return &History{
		records:  list.New(),
		capacity: capacity,
	}
}

// Record adds a push record, removing the oldest one when full.
// It has the signature of HookAfterPush.
func (h *History) Record(rec PushRecord) {
	h.lock.Lock()
	defer h.lock.Unlock()

	if h.records.Len() == h.capacity {
		h.records.Remove(h.records.Front())
	}
	h.records.PushBack(rec)
}

// Snapshot returns the records ordered from oldest to newest.
func (h *History) Snapshot() []PushRecord {
	h.lock.RLock()
	defer h.lock.RUnlock()

	result := make([]PushRecord, 0, h.records.Len())
	for e := h.records.Front(); e != nil; e = e.Next() {
		result = append(result, e.Value.(PushRecord))
	}
	return result
}
