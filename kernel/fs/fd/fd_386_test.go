package fd

import (
	"testing"

	"sharkos/kernel/fs/iso9660"
)

func resetTable(t *testing.T) {
	t.Helper()
	saved := table
	t.Cleanup(func() { table = saved })
	table = [maxDescriptors]descriptor{}
}

func openSlot(t *testing.T, length uint32) int {
	t.Helper()
	slot := -1
	for i := range table {
		if !table[i].inUse {
			slot = i
			break
		}
	}
	if slot == -1 {
		t.Fatal("no free slot in freshly reset table")
	}
	table[slot] = descriptor{
		inUse:  true,
		record: iso9660.DirectoryRecord{Extent: 1000, DataLength: length},
		offset: 0,
	}
	return slot
}

func TestOpenRejectsWriteFlags(t *testing.T) {
	resetTable(t)
	if _, err := Open("/FILE.TXT", 1); err == nil {
		t.Fatal("expected a non-zero flags value to be rejected")
	}
}

func TestReadPastEOFReturnsZero(t *testing.T) {
	resetTable(t)
	slot := openSlot(t, 10)
	table[slot].offset = 10

	n, err := Read(slot, make([]byte, 4), 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 bytes at EOF; got %d", n)
	}
}

func TestSeekAllowsEndOfFileButNotPast(t *testing.T) {
	resetTable(t)
	slot := openSlot(t, 5)

	out := make([]byte, 100)
	// Seek accepts an offset equal to the file size and rejects one past it.
	if _, err := Seek(slot, 5, SeekSet); err != nil {
		t.Fatalf("unexpected error seeking to end: %v", err)
	}
	if _, err := Seek(slot, 6, SeekSet); err == nil {
		t.Fatal("expected seeking past the end of file to fail")
	}
	_ = out
}

func TestSeekSetCurEnd(t *testing.T) {
	resetTable(t)
	slot := openSlot(t, 100)

	if off, err := Seek(slot, 10, SeekSet); err != nil || off != 10 {
		t.Fatalf("expected offset 10; got %d, err %v", off, err)
	}
	if off, err := Seek(slot, 5, SeekCur); err != nil || off != 15 {
		t.Fatalf("expected offset 15; got %d, err %v", off, err)
	}
	if off, err := Seek(slot, 0, SeekEnd); err != nil || off != 100 {
		t.Fatalf("expected offset 100; got %d, err %v", off, err)
	}
}

func TestSeekRejectsNegativeResult(t *testing.T) {
	resetTable(t)
	slot := openSlot(t, 100)

	if _, err := Seek(slot, -1, SeekSet); err == nil {
		t.Fatal("expected a negative offset to be rejected")
	}
}

func TestCloseClearsSlot(t *testing.T) {
	resetTable(t)
	slot := openSlot(t, 100)

	if err := Close(slot); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table[slot].inUse {
		t.Fatal("expected slot to be freed after close")
	}
	if _, err := Seek(slot, 0, SeekSet); err == nil {
		t.Fatal("expected operations on a closed descriptor to fail")
	}
}

func TestLookupRejectsOutOfRangeDescriptor(t *testing.T) {
	resetTable(t)
	if _, err := Read(maxDescriptors, make([]byte, 1), 1); err == nil {
		t.Fatal("expected an out-of-range descriptor to fail")
	}
	if _, err := Read(-1, make([]byte, 1), 1); err == nil {
		t.Fatal("expected a negative descriptor to fail")
	}
}
