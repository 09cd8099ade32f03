package session

import (
	"sync"
	"time"
)

// RoomTimer is the single inactivity countdown for one room. At most one
// armed timer exists at a time; Start supersedes any prior arming. The
// callback runs asynchronously and exactly once per arming: the timer
// disarms itself before invoking it, so a Reset racing the firing either
// wins (callback suppressed via generation check) or loses cleanly.
type RoomTimer struct {
	mu       sync.Mutex
	duration time.Duration
	onFire   func()
	timer    *time.Timer
	gen      uint64
	armed    bool
}

func NewRoomTimer() *RoomTimer {
	return &RoomTimer{}
}

func (t *RoomTimer) Start(d time.Duration, onFire func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.disarmLocked()
	t.duration = d
	t.onFire = onFire
	t.armLocked()
}

// Reset rearms with the full original duration and callback. A no-op if
// Start was never called.
func (t *RoomTimer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.onFire == nil {
		return
	}
	t.disarmLocked()
	t.armLocked()
}

// Cancel disarms without firing. Safe on an already-fired or
// already-cancelled timer.
func (t *RoomTimer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.disarmLocked()
}

func (t *RoomTimer) Armed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.armed
}

func (t *RoomTimer) armLocked() {
	t.gen++
	gen := t.gen
	t.armed = true
	t.timer = time.AfterFunc(t.duration, func() { t.fire(gen) })
}

func (t *RoomTimer) disarmLocked() {
	t.armed = false
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

func (t *RoomTimer) fire(gen uint64) {
	t.mu.Lock()
	if !t.armed || gen != t.gen {
		t.mu.Unlock()
		return
	}
	t.armed = false
	fn := t.onFire
	t.mu.Unlock()
	fn()
}

// LeaveTimers tracks one grace-window countdown per departed participant,
// keyed by the participant's actual id.
type LeaveTimers struct {
	mu      sync.Mutex
	entries map[string]*time.Timer
}

func NewLeaveTimers() *LeaveTimers {
	return &LeaveTimers{entries: map[string]*time.Timer{}}
}

// UserLeft arms the grace timer for a participant, superseding any prior
// entry under the same id.
func (lt *LeaveTimers) UserLeft(userID string, d time.Duration, onFire func()) {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	if prev, ok := lt.entries[userID]; ok {
		prev.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(d, func() {
		lt.mu.Lock()
		cur, ok := lt.entries[userID]
		if !ok || cur != t {
			lt.mu.Unlock()
			return
		}
		delete(lt.entries, userID)
		lt.mu.Unlock()
		onFire()
	})
	lt.entries[userID] = t
}

// UserJoined cancels the matching entry if one is armed.
func (lt *LeaveTimers) UserJoined(userID string) {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	if t, ok := lt.entries[userID]; ok {
		t.Stop()
		delete(lt.entries, userID)
	}
}

func (lt *LeaveTimers) Armed(userID string) bool {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	_, ok := lt.entries[userID]
	return ok
}

func (lt *LeaveTimers) CancelAll() {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	for id, t := range lt.entries {
		t.Stop()
		delete(lt.entries, id)
	}
}
