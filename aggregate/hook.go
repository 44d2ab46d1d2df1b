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
	"sync"
	"time"
)

// PushRecord describes one push attempt.
type PushRecord struct {
	Time time.Time
	// Labels are the extra labels applied to every sample of the push.
	Labels   map[string]string
	Families []string
	Samples  int
	Bytes    int64
	// StoredFamilies is the number of families held after the push.
	StoredFamilies int
	Err            error
}

// HookAfterPush is a hook of event that a push was handled, successfully or not.
// Hooks run outside the aggregator lock and may query the aggregator.
type HookAfterPush func(rec PushRecord)

type pushHooksManager struct {
	lock  sync.RWMutex
	hooks []HookAfterPush
}

func (m *pushHooksManager) add(hk HookAfterPush) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.hooks = append(m.hooks, hk)
}

func (m *pushHooksManager) afterPush(rec PushRecord) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	for _, hook := range m.hooks {
		hook(rec)
	}
}
