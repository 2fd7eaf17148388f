package syscall

import (
	"bytes"
	"testing"

	"sharkos/kernel/idt"
)

func TestDispatchTestSyscallReturns42(t *testing.T) {
	Init(&bytes.Buffer{})
	frame := &idt.RegisterFrame{EAX: uint32(Test)}
	Dispatch(frame)
	if frame.EAX != 42 {
		t.Fatalf("expected EAX=42; got %d", frame.EAX)
	}
}

func TestDispatchUnknownNumberReturnsMinusOne(t *testing.T) {
	Init(&bytes.Buffer{})
	frame := &idt.RegisterFrame{EAX: 99}
	Dispatch(frame)
	if int32(frame.EAX) != -1 {
		t.Fatalf("expected EAX=-1; got %d", int32(frame.EAX))
	}
}

func TestDispatchUnimplementedSlotReturnsMinusOne(t *testing.T) {
	Init(&bytes.Buffer{})
	for _, num := range []uint32{Sbrk, Getkey, Gettick} {
		frame := &idt.RegisterFrame{EAX: num}
		Dispatch(frame)
		if int32(frame.EAX) != -1 {
			t.Fatalf("expected slot %d to return -1; got %d", num, int32(frame.EAX))
		}
	}
}

func TestDispatchWritePassesBytesToSink(t *testing.T) {
	var sink bytes.Buffer
	Init(&sink)

	msg := []byte("hi")
	frame := &idt.RegisterFrame{
		EAX: uint32(Write),
		EBX: uint32(addrOfBytes(msg)),
		ECX: uint32(len(msg)),
	}
	Dispatch(frame)

	if int32(frame.EAX) != int32(len(msg)) {
		t.Fatalf("expected EAX=%d; got %d", len(msg), int32(frame.EAX))
	}
	if sink.String() != "hi" {
		t.Fatalf("expected sink to contain %q; got %q", "hi", sink.String())
	}
}

func TestSetVideoHooksFallbackWithoutHooks(t *testing.T) {
	Init(&bytes.Buffer{})
	setVideoModeFn = nil
	swapFrontbufferFn = nil

	frame := &idt.RegisterFrame{EAX: uint32(SetVideo)}
	Dispatch(frame)
	if int32(frame.EAX) != -1 {
		t.Fatalf("expected setvideo without hooks to return -1; got %d", int32(frame.EAX))
	}
}

func addrOfBytes(b []byte) uintptr {
	return addrOf(b)
}
