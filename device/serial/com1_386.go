// Package serial drives the 16550-compatible UART at COM1. The kernel uses
// it as the sink for syscall 1 (write); kfmt output goes to the VGA console
// only.
package serial

import (
	"sharkos/kernel"
	"sharkos/kernel/cpu"
)

const (
	// COM1 is the standard base I/O port for the first serial port.
	COM1 = 0x3F8

	offsetData          = 0
	offsetInterruptEn   = 1
	offsetFIFOCtrl      = 2
	offsetLineCtrl      = 3
	offsetLineStatus    = 5
	offsetDivisorLow    = 0
	offsetDivisorHigh   = 1

	dlab = 0x80

	// divisor 3 against the UART's 115200 Hz base clock yields 38400 baud.
	divisor = 3

	lineCtrl8N1 = 0x03
	fifoEnable  = 0xC7

	transmitEmptyBit = 0x20
)

var (
	outbFn = cpu.Outb
	inbFn  = cpu.Inb
)

// Port drives a single UART at the given base I/O port.
type Port struct {
	base uint16
}

// NewCOM1 returns a driver for the COM1 port.
func NewCOM1() *Port {
	return &Port{base: COM1}
}

// DriverName implements device.Driver.
func (p *Port) DriverName() string { return "com1_serial" }

// DriverVersion implements device.Driver.
func (p *Port) DriverVersion() (uint16, uint16, uint16) { return 0, 1, 0 }

// DriverInit implements device.Driver. It disables UART interrupts (the
// kernel polls the line status register instead), sets the baud rate
// divisor, 8N1 framing and enables the FIFOs.
func (p *Port) DriverInit() *kernel.Error {
	outbFn(p.base+offsetInterruptEn, 0x00)

	outbFn(p.base+offsetLineCtrl, dlab)
	outbFn(p.base+offsetDivisorLow, divisor&0xFF)
	outbFn(p.base+offsetDivisorHigh, (divisor>>8)&0xFF)

	outbFn(p.base+offsetLineCtrl, lineCtrl8N1)
	outbFn(p.base+offsetFIFOCtrl, fifoEnable)
	return nil
}

// Write implements io.Writer, busy-waiting for the transmit holding register
// to empty before each byte.
func (p *Port) Write(b []byte) (int, error) {
	for _, ch := range b {
		for inbFn(p.base+offsetLineStatus)&transmitEmptyBit == 0 {
		}
		outbFn(p.base+offsetData, ch)
	}
	return len(b), nil
}
