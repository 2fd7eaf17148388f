package timer

import (
	"testing"

	"sharkos/kernel/irq"
)

func TestInitProgramsPIT(t *testing.T) {
	saved := outbFn
	defer func() { outbFn = saved }()
	defer irq.Uninstall(line)

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

	if len(writes) != 3 {
		t.Fatalf("expected 3 port writes; got %d", len(writes))
	}
	if writes[0].port != controlPort || writes[0].value != rateGeneratorControl {
		t.Errorf("expected control byte %#x to port %#x first; got %+v", rateGeneratorControl, controlPort, writes[0])
	}
	if writes[1].port != channel0Data || writes[1].value != uint8(divisor&0xFF) {
		t.Errorf("expected divisor low byte %#x to port %#x; got %+v", uint8(divisor&0xFF), channel0Data, writes[1])
	}
	if writes[2].port != channel0Data || writes[2].value != uint8((divisor>>8)&0xFF) {
		t.Errorf("expected divisor high byte %#x to port %#x; got %+v", uint8((divisor>>8)&0xFF), channel0Data, writes[2])
	}
}

func TestTickCountIncrements(t *testing.T) {
	ticks = 0
	before := TickCount()
	handleTick(nil)
	handleTick(nil)
	if got := TickCount(); got != before+2 {
		t.Fatalf("expected tick count to advance by 2; got %d (was %d)", got, before)
	}
}
