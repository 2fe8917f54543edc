package cstring

import (
	"fmt"
	"runtime"
)

// Owned is a Handle with a single owner. Close destroys the handle. If an
// Owned becomes unreachable before Close, the handle is destroyed by a
// runtime cleanup.
type Owned struct {
	p       *Provider
	h       Handle
	cleanup runtime.Cleanup
}

// New creates a handle and wraps it in an Owned.
func (p *Provider) New() *Owned {
	o := &Owned{p: p, h: p.Create()}
	o.cleanup = runtime.AddCleanup(o, p.Destroy, o.h)
	return o
}

// Handle returns the raw handle without transferring ownership.
func (o *Owned) Handle() Handle {
	return o.h
}

// String returns a copy of the content, or "" once closed.
func (o *Owned) String() string {
	if o.h.IsNil() {
		return ""
	}
	return o.p.String(o.h)
}

// Print writes the content to the provider's observer.
func (o *Owned) Print() {
	if o.h.IsNil() {
		panic(fmt.Errorf("%w: owned string is closed", ErrNil))
	}
	o.p.Use(o.h)
}

// Release transfers ownership of the raw handle to the caller, who must
// destroy it.
func (o *Owned) Release() Handle {
	o.cleanup.Stop()
	h := o.h
	o.h = Handle{}
	return h
}

// Close destroys the handle. Calling Close more than once is a no-op.
func (o *Owned) Close() error {
	if h := o.Release(); !h.IsNil() {
		o.p.Destroy(h)
	}
	return nil
}
