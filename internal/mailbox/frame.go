// Package mailbox implements every cross-thread communication channel
// named in spec.md §5: one double-buffered frame mailbox, several
// latest-value mailboxes, and a generic lock-free SPSC ring for command
// and event streams. Mailboxes are the only shared mutable state between
// the main, emulation, and render threads (spec.md §5/§9).
package mailbox

import "sync"

// FrameSize is the NES framebuffer's fixed pixel count, 256x240.
const FrameSize = 256 * 240

// Frame is one rendered frame's worth of RGBA32 pixels.
type Frame [FrameSize]uint32

// FrameMailbox double-buffers a frame between the emulation (producer) and
// render (consumer) threads. PostFrame swaps buffers under a short mutex
// and sets a "new frame" flag; HasNewFrame/Drain are lock-free on the
// check path, per spec.md §5/§8's explicit contract.
type FrameMailbox struct {
	mu       sync.Mutex
	write    *Frame
	read     *Frame
	hasFrame atomicBool
}

// NewFrameMailbox constructs a mailbox with both buffers zeroed.
func NewFrameMailbox() *FrameMailbox {
	return &FrameMailbox{write: &Frame{}, read: &Frame{}}
}

// WriteBuffer returns the buffer the producer should render into this
// frame. The pointer is stable until the next PostFrame call.
func (m *FrameMailbox) WriteBuffer() *Frame {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.write
}

// PostFrame swaps the write and read buffers and sets the new-frame flag,
// per spec.md §8's "hasNewFrame() returns true exactly once until drain()
// is called".
func (m *FrameMailbox) PostFrame() {
	m.mu.Lock()
	m.write, m.read = m.read, m.write
	m.mu.Unlock()
	m.hasFrame.Store(true)
}

// HasNewFrame reports whether a frame is waiting to be drained, without
// taking the swap mutex.
func (m *FrameMailbox) HasNewFrame() bool {
	return m.hasFrame.Load()
}

// Drain returns the most recently posted frame and clears the new-frame
// flag. Safe to call even with no new frame pending (returns the last
// frame consumed).
func (m *FrameMailbox) Drain() *Frame {
	m.hasFrame.Store(false)
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.read
}
