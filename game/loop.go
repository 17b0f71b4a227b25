package game

import (
	"context"
	"sync/atomic"
)

// Loop repeatedly schedules a frame function until stopped.
// Stop may be called from any goroutine; a frame already in progress
// finishes, and no further frame starts.
type Loop struct {
	frame   func() bool
	stopped atomic.Bool
	frames  atomic.Int64
}

// NewLoop creates a loop around frame. The loop ends when frame returns
// false, meaning no frame was run.
func NewLoop(frame func() bool) *Loop {
	return &Loop{frame: frame}
}

// Run executes frames until Stop is called, ctx is done or the frame
// function returns false. It returns the number of frames run by this call.
func (l *Loop) Run(ctx context.Context) int64 {
	var n int64
	for !l.stopped.Load() {
		if ctx.Err() != nil {
			break
		}
		if !l.frame() {
			break
		}
		n++
		l.frames.Add(1)
	}
	return n
}

// Stop cancels the pending frame. It is safe to call more than once.
func (l *Loop) Stop() {
	l.stopped.Store(true)
}

// Stopped reports whether Stop has been called.
func (l *Loop) Stopped() bool {
	return l.stopped.Load()
}

// Frames returns the total number of frames run.
func (l *Loop) Frames() int64 {
	return l.frames.Load()
}
