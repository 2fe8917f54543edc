package cstring

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"unsafe"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestCreateDestroy(t *testing.T) {
	p := NewProvider(WithDebug(true))
	h := p.Create()
	if h.IsNil() {
		t.Fatal("create returned nil handle")
	}
	p.Destroy(h)

	if s := p.Stats(); s.Created != 1 || s.Destroyed != 1 || s.Live != 0 || s.Used != 0 {
		t.Errorf("stats error: %+v", s)
	}
}

func TestUse(t *testing.T) {
	for _, n := range []int{0, 1, 3} {
		buf := &bytes.Buffer{}
		p := NewProvider(WithOutput(buf), WithDebug(true))

		h := p.Create()
		for i := 0; i < n; i++ {
			p.Use(h)
		}
		if got := p.String(h); got != Literal {
			t.Errorf("content error: got %q want %q", got, Literal)
		}
		p.Destroy(h)

		want := strings.Repeat("The C string is: 'C string'\n", n)
		if buf.String() != want {
			t.Errorf("output error: got %q want %q", buf.String(), want)
		}
		if s := p.Stats(); s.Used != uint64(n) || s.Live != 0 {
			t.Errorf("stats error: %+v", s)
		}
	}
}

func TestLayout(t *testing.T) {
	p := NewProvider()
	h := p.Create()
	defer p.Destroy(h)

	b := unsafe.Slice((*byte)(h.Pointer()), len(Literal)+1)
	if string(b[:len(Literal)]) != Literal {
		t.Errorf("content error: %q", b[:len(Literal)])
	}
	if b[len(Literal)] != 0 {
		t.Errorf("missing NUL terminator")
	}
	if n := len(p.Bytes(h)); n != 8 {
		t.Errorf("length error: got %v want 8", n)
	}
}

func TestHandlesAreIndependent(t *testing.T) {
	p := NewProvider(WithDebug(true))
	h1, h2 := p.Create(), p.Create()
	if h1 == h2 {
		t.Fatal("two live handles share storage")
	}
	p.Destroy(h1)
	if got := p.String(h2); got != Literal {
		t.Errorf("content error after destroying sibling: %q", got)
	}
	p.Destroy(h2)
}

func TestFromPointer(t *testing.T) {
	p := NewProvider(WithDebug(true))
	h := p.Create()
	if FromPointer(h.Pointer()) != h {
		t.Errorf("round trip through pointer changed handle")
	}
	p.Destroy(FromPointer(h.Pointer()))
	if !(Handle{}).IsNil() {
		t.Errorf("zero handle is not nil")
	}
}

func mustPanic(t *testing.T, target error, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("expected panic with %v", target)
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, target) {
			t.Fatalf("panic error: got %v want %v", r, target)
		}
	}()
	fn()
}

func TestDebugMisuse(t *testing.T) {
	p := NewProvider(WithDebug(true), WithOutput(&bytes.Buffer{}))

	other := NewProvider(WithDebug(true))
	foreign := other.Create()
	defer other.Destroy(foreign)
	mustPanic(t, ErrForeign, func() { p.Destroy(foreign) })
	mustPanic(t, ErrForeign, func() { p.Use(foreign) })

	h := p.Create()
	p.Destroy(h)

	mustPanic(t, ErrFreed, func() { p.Destroy(h) })
	mustPanic(t, ErrFreed, func() { p.Use(h) })
	mustPanic(t, ErrNil, func() { p.Use(Handle{}) })
	mustPanic(t, ErrNil, func() { p.Destroy(Handle{}) })

	if s := p.Stats(); s.Created != 1 || s.Destroyed != 1 {
		t.Errorf("misuse changed stats: %+v", s)
	}
}

func TestDebugOption(t *testing.T) {
	if NewProvider().Debug() {
		t.Errorf("debug on by default")
	}
	if !NewProvider(WithDebug(true)).Debug() {
		t.Errorf("debug option ignored")
	}
	if NewProvider(WithDebug(true), WithDebug(false)).Debug() {
		t.Errorf("debug option not reset")
	}
}

func TestLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	p := NewProvider(WithLogger(zap.New(core)), WithOutput(&bytes.Buffer{}))

	h := p.Create()
	p.Use(h)
	p.Destroy(h)

	entries := logs.AllUntimed()
	if len(entries) != 2 {
		t.Fatalf("log entries error: got %v want 2", len(entries))
	}
	for i, msg := range []string{"creating a C string", "destroying a C string"} {
		if entries[i].Message != msg {
			t.Errorf("log message error: got %q want %q", entries[i].Message, msg)
		}
		if v := entries[i].ContextMap()["handle"]; v != h.String() {
			t.Errorf("log handle error: got %v want %v", v, h)
		}
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestUseWriteError(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	p := NewProvider(WithLogger(zap.New(core)), WithOutput(failWriter{}))

	h := p.Create()
	p.Use(h)
	p.Destroy(h)

	if n := logs.FilterMessage("write C string error").Len(); n != 1 {
		t.Errorf("warn entries error: got %v want 1", n)
	}
}
