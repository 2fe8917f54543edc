// Package cstring hands out NUL-terminated strings whose storage lives
// outside the Go heap. A Handle is created by a Provider, may be used any
// number of times, and must be destroyed by the same Provider exactly once.
package cstring

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"unsafe"

	"go.uber.org/zap"

	"github.com/imgk/caddy-cstring/memory"
	"github.com/imgk/caddy-cstring/x"
)

// Literal is the content of every string made by Create.
const Literal = "C string"

// Handle is an opaque reference to a NUL-terminated string. The zero Handle
// is the null handle.
type Handle struct {
	ptr unsafe.Pointer
}

// FromPointer wraps a pointer received from the C side.
func FromPointer(ptr unsafe.Pointer) Handle {
	return Handle{ptr: ptr}
}

// Pointer returns the address of the first byte.
func (h Handle) Pointer() unsafe.Pointer {
	return h.ptr
}

// IsNil reports whether h is the null handle.
func (h Handle) IsNil() bool {
	return h.ptr == nil
}

// String formats the address, not the content.
func (h Handle) String() string {
	return fmt.Sprintf("%p", h.ptr)
}

// Stats counts lifecycle events of a Provider.
type Stats struct {
	Created   uint64 `json:"created"`
	Used      uint64 `json:"used"`
	Destroyed uint64 `json:"destroyed"`
	Live      uint64 `json:"live"`
}

// Provider creates, prints and destroys handles.
//
// A Provider does not synchronise access to the handles it hands out. A
// handle shared between goroutines must not be used and destroyed
// concurrently.
type Provider struct {
	lg      *zap.Logger
	out     io.Writer
	metrics *Metrics
	tracker *tracker

	created   atomic.Uint64
	used      atomic.Uint64
	destroyed atomic.Uint64
}

// Option configures a Provider.
type Option func(*Provider)

// WithLogger sets the logger for lifecycle events.
func WithLogger(lg *zap.Logger) Option {
	return func(p *Provider) {
		if lg != nil {
			p.lg = lg
		}
	}
}

// WithOutput sets the observer Use writes to.
func WithOutput(w io.Writer) Option {
	return func(p *Provider) {
		if w != nil {
			p.out = w
		}
	}
}

// WithDebug turns on misuse detection. Use and Destroy then panic on null,
// destroyed and foreign handles, and Destroy poisons storage before
// freeing it.
func WithDebug(on bool) Option {
	return func(p *Provider) {
		if on {
			p.tracker = newTracker()
		} else {
			p.tracker = nil
		}
	}
}

// WithMetrics reports lifecycle events to m.
func WithMetrics(m *Metrics) Option {
	return func(p *Provider) {
		p.metrics = m
	}
}

// NewProvider is ...
func NewProvider(opts ...Option) *Provider {
	p := &Provider{
		lg:  zap.NewNop(),
		out: os.Stdout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Debug reports whether misuse detection is on.
func (p *Provider) Debug() bool {
	return p.tracker != nil
}

// Create allocates a new string holding Literal and passes its ownership to
// the caller.
func (p *Provider) Create() Handle {
	b := memory.Alloc(len(Literal) + 1)
	copy(b, Literal)
	b[len(Literal)] = 0

	h := Handle{ptr: unsafe.Pointer(&b[0])}
	if p.tracker != nil {
		p.tracker.create(h)
	}
	p.created.Add(1)
	p.metrics.create()

	p.lg.Debug("creating a C string", zap.Stringer("handle", h))
	return h
}

// Bytes returns the content of h without copying. The slice must not be
// used after h is destroyed.
func (p *Provider) Bytes(h Handle) []byte {
	if p.tracker != nil {
		p.tracker.check(h)
	}
	return x.CBytes(h.ptr)
}

// String returns a copy of the content of h.
func (p *Provider) String(h Handle) string {
	return string(p.Bytes(h))
}

// Use writes the content of h to the observer. The caller keeps ownership.
func (p *Provider) Use(h Handle) {
	b := p.Bytes(h)
	if _, err := fmt.Fprintf(p.out, "The C string is: '%s'\n", x.ByteSliceToString(b)); err != nil {
		p.lg.Warn("write C string error", zap.Stringer("handle", h), zap.Error(err))
	}
	p.used.Add(1)
	p.metrics.use()
}

// Destroy releases the storage of h. h must not be used afterwards.
func (p *Provider) Destroy(h Handle) {
	if p.tracker != nil {
		p.tracker.destroy(h)
		memory.Poison(unsafe.Slice((*byte)(h.ptr), x.Strlen(h.ptr)+1))
	}
	p.lg.Debug("destroying a C string", zap.Stringer("handle", h))

	memory.Free(h.ptr)
	p.destroyed.Add(1)
	p.metrics.destroy()
}

// Stats returns a snapshot of the lifecycle counters.
func (p *Provider) Stats() Stats {
	destroyed := p.destroyed.Load()
	created := p.created.Load()
	return Stats{
		Created:   created,
		Used:      p.used.Load(),
		Destroyed: destroyed,
		Live:      created - destroyed,
	}
}
