// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package msgsync

import (
	"sync"
	"time"
)

// DefaultTypingIdle is how long the input must stay quiet before the
// typing burst is considered over.
const DefaultTypingIdle = 2 * time.Second

// =============================================================================
// TYPING DEBOUNCER
// =============================================================================

// Debouncer collapses a burst of keystrokes into one start signal and one
// stop signal. The first keystroke of a burst fires onStart; each further
// keystroke resets the idle timer without stacking a new one; onStop fires
// once the input has been quiet for the idle window.
//
// Callbacks run without the internal lock held. onStop may run on the
// timer's goroutine.
type Debouncer struct {
	idle    time.Duration
	onStart func()
	onStop  func()

	mu     sync.Mutex
	typing bool
	timer  *time.Timer
	gen    uint64
}

// NewDebouncer creates a debouncer with the given idle window. A zero or
// negative idle falls back to DefaultTypingIdle. Either callback may be
// nil.
func NewDebouncer(idle time.Duration, onStart, onStop func()) *Debouncer {
	if idle <= 0 {
		idle = DefaultTypingIdle
	}
	return &Debouncer{idle: idle, onStart: onStart, onStop: onStop}
}

// Typing reports whether a burst is in progress.
func (d *Debouncer) Typing() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.typing
}

// Keystroke records one unit of input activity.
func (d *Debouncer) Keystroke() {
	d.mu.Lock()
	started := !d.typing
	d.typing = true
	d.gen++
	gen := d.gen
	if d.timer == nil {
		d.timer = time.AfterFunc(d.idle, func() { d.expire(gen) })
	} else {
		d.timer.Stop()
		d.timer = time.AfterFunc(d.idle, func() { d.expire(gen) })
	}
	d.mu.Unlock()

	if started && d.onStart != nil {
		d.onStart()
	}
}

// expire ends the burst when the idle timer fires. A stale timer that lost
// a race with a fresh keystroke is ignored via the generation counter.
func (d *Debouncer) expire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || !d.typing {
		d.mu.Unlock()
		return
	}
	d.typing = false
	d.timer = nil
	d.mu.Unlock()

	if d.onStop != nil {
		d.onStop()
	}
}

// Flush ends the burst immediately, firing onStop if one was in progress.
// Used when the conversation switches or the message is sent.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	wasTyping := d.typing
	d.typing = false
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()

	if wasTyping && d.onStop != nil {
		d.onStop()
	}
}

// Cancel ends the burst without firing onStop. Used on teardown.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	d.typing = false
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()
}
