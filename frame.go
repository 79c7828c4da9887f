package grove

import (
	"sort"
	"time"
)

// FrameFunc is a scheduled frame callback. now is the host clock at the
// tick that runs it.
type FrameFunc func(now time.Duration)

// FrameHandle identifies a scheduled frame. The zero handle is never issued.
type FrameHandle uint64

// FrameScheduler schedules callbacks for the next host frame.
type FrameScheduler interface {
	RequestFrame(fn FrameFunc) FrameHandle
	CancelFrame(h FrameHandle)
}

// TickScheduler is a FrameScheduler driven by explicit Tick calls, one per
// host frame. Callbacks requested during a tick run on the following tick.
type TickScheduler struct {
	pending map[FrameHandle]FrameFunc
	next    FrameHandle
	now     time.Duration
}

// NewTickScheduler returns an empty scheduler at time zero.
func NewTickScheduler() *TickScheduler {
	return &TickScheduler{pending: make(map[FrameHandle]FrameFunc)}
}

// RequestFrame schedules fn for the next tick.
func (s *TickScheduler) RequestFrame(fn FrameFunc) FrameHandle {
	s.next++
	s.pending[s.next] = fn
	return s.next
}

// CancelFrame drops a pending callback. Unknown handles are ignored.
func (s *TickScheduler) CancelFrame(h FrameHandle) {
	delete(s.pending, h)
}

// Active returns the number of pending callbacks.
func (s *TickScheduler) Active() int {
	return len(s.pending)
}

// Now returns the clock of the last tick.
func (s *TickScheduler) Now() time.Duration {
	return s.now
}

// Tick advances the clock by dt and runs every callback pending at the
// start of the tick, in request order. Returns how many ran.
func (s *TickScheduler) Tick(dt time.Duration) int {
	s.now += dt
	if len(s.pending) == 0 {
		return 0
	}
	handles := make([]FrameHandle, 0, len(s.pending))
	for h := range s.pending {
		handles = append(handles, h)
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i] < handles[j] })

	ran := 0
	for _, h := range handles {
		fn, ok := s.pending[h]
		if !ok {
			continue // cancelled by an earlier callback this tick
		}
		delete(s.pending, h)
		fn(s.now)
		ran++
	}
	return ran
}
