package pic

import "testing"

func TestInitRemapsVectors(t *testing.T) {
	savedOutb, savedInb := outbFn, inbFn
	defer func() { outbFn = savedOutb; inbFn = savedInb }()

	var writes []struct {
		port  uint16
		value uint8
	}
	outbFn = func(port uint16, value uint8) {
		writes = append(writes, struct {
			port  uint16
			value uint8
		}{port, value})
	}

	Init()

	// ICW2 writes carry the vector offsets; confirm master->0x20, slave->0x28.
	var gotMasterOffset, gotSlaveOffset uint8
	for _, w := range writes {
		switch w.port {
		case masterData:
			if gotMasterOffset == 0 {
				gotMasterOffset = w.value
			}
		case slaveData:
			if gotSlaveOffset == 0 {
				gotSlaveOffset = w.value
			}
		}
	}

	if gotMasterOffset != MasterOffset {
		t.Errorf("expected master PIC offset %#x; got %#x", MasterOffset, gotMasterOffset)
	}
	if gotSlaveOffset != SlaveOffset {
		t.Errorf("expected slave PIC offset %#x; got %#x", SlaveOffset, gotSlaveOffset)
	}
}

func TestEOI(t *testing.T) {
	saved := outbFn
	defer func() { outbFn = saved }()

	var masterEOIs, slaveEOIs int
	outbFn = func(port uint16, value uint8) {
		if value != eoiNonSpecific {
			return
		}
		switch port {
		case masterCommand:
			masterEOIs++
		case slaveCommand:
			slaveEOIs++
		}
	}

	EOI(0)
	if masterEOIs != 1 || slaveEOIs != 0 {
		t.Fatalf("IRQ0 EOI: expected master=1 slave=0; got master=%d slave=%d", masterEOIs, slaveEOIs)
	}

	EOI(15)
	if masterEOIs != 2 || slaveEOIs != 1 {
		t.Fatalf("IRQ15 EOI: expected master=2 slave=1; got master=%d slave=%d", masterEOIs, slaveEOIs)
	}
}
