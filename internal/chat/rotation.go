// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"sync"
	"time"
)

// rotation cycles placeholder phrases on a ticker until stopped.
type rotation struct {
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// startRotation calls apply with the next phrase every interval, starting
// from phrases[1] (phrases[0] is the initial placeholder text).
func startRotation(interval time.Duration, phrases []string, apply func(string)) *rotation {
	r := &rotation{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	if interval <= 0 || len(phrases) < 2 {
		close(r.done)
		return r
	}

	go func() {
		defer close(r.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		i := 0
		for {
			select {
			case <-r.stop:
				return
			case <-ticker.C:
				i = (i + 1) % len(phrases)
				apply(phrases[i])
			}
		}
	}()
	return r
}

// Stop ends the rotation and waits until apply can no longer be called.
// Safe to call more than once. Must not be called while holding a lock
// that apply acquires.
func (r *rotation) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
	<-r.done
}
