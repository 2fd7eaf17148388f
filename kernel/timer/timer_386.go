// Package timer programs the 8253/8254 Programmable Interval Timer and
// maintains the tick counter driven by its IRQ0 output.
package timer

import (
	"sharkos/kernel/cpu"
	"sharkos/kernel/idt"
	"sharkos/kernel/irq"
)

const (
	channel0Data = 0x40
	controlPort  = 0x43

	// rateGeneratorControl selects channel 0, lobyte/hibyte access, mode 2
	// (rate generator), binary counting.
	rateGeneratorControl = 0x34

	// divisor yields a 100 Hz tick rate from the PIT's 1193182 Hz input
	// clock (1193182 / 100, rounded).
	divisor = 11932

	// line is the PIC IRQ line the PIT is wired to.
	line = 0
)

var outbFn = cpu.Outb

var ticks uint32

// Init programs the PIT for a 100 Hz rate and installs the IRQ0 handler.
func Init() {
	outbFn(controlPort, rateGeneratorControl)
	outbFn(channel0Data, uint8(divisor&0xFF))
	outbFn(channel0Data, uint8((divisor>>8)&0xFF))

	irq.Install(line, handleTick)
}

func handleTick(frame *idt.RegisterFrame) {
	ticks++
}

// TickCount returns the number of timer interrupts serviced since Init. The
// read is a single 32-bit word-aligned load, which is atomic with respect to
// the IRQ0 handler's store on a uniprocessor machine.
func TickCount() uint32 {
	return ticks
}
