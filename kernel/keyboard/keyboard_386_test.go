package keyboard

import (
	"bytes"
	"testing"

	"sharkos/kernel/kfmt"
)

func withScancode(t *testing.T, codes []uint8) *bytes.Buffer {
	t.Helper()
	saved := inbFn
	savedSink := kfmt.GetOutputSink()
	shiftHeld, capsOn = false, false
	t.Cleanup(func() {
		inbFn = saved
		kfmt.SetOutputSink(savedSink)
	})

	var buf bytes.Buffer
	kfmt.SetOutputSink(&buf)

	idx := 0
	inbFn = func(port uint16) uint8 {
		v := codes[idx]
		idx++
		return v
	}
	for range codes {
		handleKey(nil)
	}
	return &buf
}

func TestLowercaseLetter(t *testing.T) {
	buf := withScancode(t, []uint8{0x1E}) // 'a' make code
	if got := buf.String(); got != "a" {
		t.Fatalf("expected %q; got %q", "a", got)
	}
}

func TestShiftUppercases(t *testing.T) {
	buf := withScancode(t, []uint8{leftShift, 0x1E}) // shift down, then 'a'
	if got := buf.String(); got != "A" {
		t.Fatalf("expected %q; got %q", "A", got)
	}
}

func TestCapsLockTogglesWithoutShift(t *testing.T) {
	buf := withScancode(t, []uint8{capsLock, 0x1E})
	if got := buf.String(); got != "A" {
		t.Fatalf("expected caps lock to uppercase 'a'; got %q", got)
	}
}

func TestCapsLockAndShiftCancelOut(t *testing.T) {
	buf := withScancode(t, []uint8{capsLock, leftShift, 0x1E})
	if got := buf.String(); got != "a" {
		t.Fatalf("expected caps+shift to cancel back to lowercase; got %q", got)
	}
}

func TestShiftReleaseClearsState(t *testing.T) {
	buf := withScancode(t, []uint8{leftShift, leftShift | releaseBit, 0x1E})
	if got := buf.String(); got != "a" {
		t.Fatalf("expected shift release to drop back to lowercase; got %q", got)
	}
}

func TestSpecialKeyEmitsBracketedName(t *testing.T) {
	buf := withScancode(t, []uint8{0x1C}) // ENTER make code
	if got := buf.String(); got != "[ENTER]" {
		t.Fatalf("expected %q; got %q", "[ENTER]", got)
	}
}

func TestKeyReleaseIsSilent(t *testing.T) {
	buf := withScancode(t, []uint8{0x1E | releaseBit})
	if got := buf.String(); got != "" {
		t.Fatalf("expected release to print nothing; got %q", got)
	}
}
