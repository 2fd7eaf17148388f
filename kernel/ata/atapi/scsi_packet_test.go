package atapi

import (
	"testing"
	"unsafe"
)

func TestNewReadPacketWireFormat(t *testing.T) {
	p := newReadPacket(0x00112233, 0x00000004)

	want := [12]byte{
		scsiReadOpcode, 0x00,
		0x00, 0x11, 0x22, 0x33, // LBA, big-endian
		0x00, 0x00, 0x00, 0x04, // transfer length, big-endian
		0x00, 0x00,
	}

	got := bytesAt(uintptr(unsafe.Pointer(&p)), 12)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d: got %#x, want %#x (packet=% x)", i, got[i], want[i], got)
		}
	}

	words := p.words()
	if len(words) != 6 {
		t.Fatalf("expected 6 words from a 12-byte CDB; got %d", len(words))
	}
	if words[0] != uint16(scsiReadOpcode) {
		t.Fatalf("expected first word's low byte to be the opcode; got %#x", words[0])
	}
}
