// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package devserver

import (
	"sync"
	"time"

	"github.com/zenitalk/zenitalk-tui/internal/api"
)

const dayLayout = "2006-01-02"

// quotaBook counts chat requests per key per calendar day.
type quotaBook struct {
	// counts maps day -> key -> requests used.
	counts map[string]map[string]int

	now func() time.Time

	mu sync.Mutex
}

func newQuotaBook(now func() time.Time) *quotaBook {
	return &quotaBook{
		counts: make(map[string]map[string]int),
		now:    now,
	}
}

// take consumes one request for key. It reports false, without consuming,
// when the key has already used limit requests today.
func (q *quotaBook) take(key string, limit int) (api.Usage, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	day := q.now().Format(dayLayout)
	q.pruneLocked(day)

	byKey := q.counts[day]
	if byKey == nil {
		byKey = make(map[string]int)
		q.counts[day] = byKey
	}

	used := byKey[key]
	if used >= limit {
		return usage(used, limit), false
	}
	used++
	byKey[key] = used
	return usage(used, limit), true
}

// pruneLocked drops every day but today.
func (q *quotaBook) pruneLocked(today string) {
	for day := range q.counts {
		if day != today {
			delete(q.counts, day)
		}
	}
}

func usage(used, limit int) api.Usage {
	remaining := limit - used
	if remaining < 0 {
		remaining = 0
	}
	return api.Usage{DailyCount: used, DailyLimit: limit, Remaining: remaining}
}
