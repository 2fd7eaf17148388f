// Package pic drives the two cascaded 8259A Programmable Interrupt
// Controllers, remapping their IRQ lines onto a vector range that doesn't
// collide with the CPU's fault vectors and acknowledging serviced IRQs.
package pic

import "sharkos/kernel/cpu"

const (
	masterCommand = 0x20
	masterData    = 0x21
	slaveCommand  = 0xA0
	slaveData     = 0xA1

	icw1Init     = 0x11 // ICW1: edge triggered, cascade mode, ICW4 needed
	icw4Mode8086 = 0x01

	eoiNonSpecific = 0x20

	// MasterOffset and SlaveOffset are the IDT vectors that IRQ0 and IRQ8
	// are remapped to.
	MasterOffset = 0x20
	SlaveOffset  = 0x28
)

var (
	outbFn = cpu.Outb
	inbFn  = cpu.Inb
)

// Init remaps the master PIC to vectors MasterOffset..MasterOffset+7 and the
// slave PIC to SlaveOffset..SlaveOffset+7 using the standard 4-ICW
// initialization sequence, then unmasks every IRQ line.
func Init() {
	// ICW1: start initialization sequence on both controllers.
	outbFn(masterCommand, icw1Init)
	outbFn(slaveCommand, icw1Init)

	// ICW2: vector offsets.
	outbFn(masterData, MasterOffset)
	outbFn(slaveData, SlaveOffset)

	// ICW3: tell master there's a slave at IRQ2 (0000 0100), tell slave
	// its cascade identity (0000 0010).
	outbFn(masterData, 0x04)
	outbFn(slaveData, 0x02)

	// ICW4: 8086 mode.
	outbFn(masterData, icw4Mode8086)
	outbFn(slaveData, icw4Mode8086)

	// Unmask every IRQ line on both controllers.
	outbFn(masterData, 0x00)
	outbFn(slaveData, 0x00)
}

// EOI issues a non-specific end-of-interrupt acknowledgment for the given
// IRQ line (0-15). Lines 8-15 additionally require an EOI to the slave PIC
// since they are cascaded through IRQ2 on the master.
func EOI(irq uint8) {
	if irq >= 8 {
		outbFn(slaveCommand, eoiNonSpecific)
	}
	outbFn(masterCommand, eoiNonSpecific)
}
