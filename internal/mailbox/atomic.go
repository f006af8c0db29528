package mailbox

import "sync/atomic"

// atomicBool is a thin rename of atomic.Bool kept local so call sites in
// this package read as mailbox vocabulary rather than stdlib plumbing.
type atomicBool struct {
	v atomic.Bool
}

func (b *atomicBool) Store(value bool) { b.v.Store(value) }
func (b *atomicBool) Load() bool       { return b.v.Load() }
