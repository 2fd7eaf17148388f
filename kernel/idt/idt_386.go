// Package idt builds the Interrupt Descriptor Table and dispatches every
// trap the CPU can deliver: the 32 reserved fault vectors, the 16 remapped
// PIC IRQ vectors and the single software vector used for syscalls.
package idt

import (
	"reflect"
	"unsafe"

	"sharkos/kernel/cpu"
	"sharkos/kernel/diag"
	"sharkos/kernel/gdt"
	"sharkos/kernel/kfmt"
	"sharkos/kernel/multiboot"
	"sharkos/kernel/pic"
)

const (
	gateCount = 256

	// gateFlags marks a gate present, ring 0, 32-bit interrupt gate
	// (type 0xE).
	gateFlags = 0x8E

	// syscallVector is the software interrupt user code traps into
	// (int 0x80).
	syscallVector = 0x80

	// irqBase and irqTop bound the vector range the PIC was remapped
	// onto by the pic package.
	irqBase = pic.MasterOffset
	irqTop  = pic.MasterOffset + 16
)

// gate is a single 8-byte IDT descriptor.
type gate struct {
	offsetLow  uint16
	selector   uint16
	zero       uint8
	flags      uint8
	offsetHigh uint16
}

func newGate(entry uintptr) gate {
	return gate{
		offsetLow:  uint16(entry),
		selector:   gdt.KernelCodeSelector,
		zero:       0,
		flags:      gateFlags,
		offsetHigh: uint16(entry >> 16),
	}
}

type pointer struct {
	limit uint16
	base  uint32
}

var table [gateCount]gate

var loadIDTFn = cpu.LoadIDT

// eoiFn is mocked by tests.
var eoiFn = pic.EOI

// The trap stubs themselves are defined in idt_386.s, one per vector. Each
// saves the register frame, calls Dispatch and restores/IRETs. They are
// declared here with no body so the Go compiler reserves the symbol and
// reflect can recover its entry address.
func isr0()
func isr1()
func isr2()
func isr3()
func isr4()
func isr5()
func isr6()
func isr7()
func isr8()
func isr9()
func isr10()
func isr11()
func isr12()
func isr13()
func isr14()
func isr15()
func isr16()
func isr17()
func isr18()
func isr19()
func isr20()
func isr21()
func isr22()
func isr23()
func isr24()
func isr25()
func isr26()
func isr27()
func isr28()
func isr29()
func isr30()
func isr31()

func irq0()
func irq1()
func irq2()
func irq3()
func irq4()
func irq5()
func irq6()
func irq7()
func irq8()
func irq9()
func irq10()
func irq11()
func irq12()
func irq13()
func irq14()
func irq15()

func isr128()

var isrStubs = [32]func(){
	isr0, isr1, isr2, isr3, isr4, isr5, isr6, isr7,
	isr8, isr9, isr10, isr11, isr12, isr13, isr14, isr15,
	isr16, isr17, isr18, isr19, isr20, isr21, isr22, isr23,
	isr24, isr25, isr26, isr27, isr28, isr29, isr30, isr31,
}

var irqStubs = [16]func(){
	irq0, irq1, irq2, irq3, irq4, irq5, irq6, irq7,
	irq8, irq9, irq10, irq11, irq12, irq13, irq14, irq15,
}

// Init builds every IDT entry and loads the table.
func Init() {
	for v := 0; v < 32; v++ {
		table[v] = newGate(stubAddr(isrStubs[v]))
	}
	for i := 0; i < 16; i++ {
		table[irqBase+i] = newGate(stubAddr(irqStubs[i]))
	}
	table[syscallVector] = newGate(stubAddr(isr128))

	ptr := pointer{
		limit: uint16(unsafe.Sizeof(table) - 1),
		base:  uint32(uintptr(unsafe.Pointer(&table[0]))),
	}
	loadIDTFn(uintptr(unsafe.Pointer(&ptr)))
}

// stubAddr recovers the entry address of a trap stub so it can be stored in
// a gate descriptor. reflect.Value.Pointer on a func value is documented to
// return the function's code pointer, which is all LGDT-style descriptor
// construction needs.
func stubAddr(fn func()) uintptr {
	return reflect.ValueOf(fn).Pointer()
}

// faultNames maps the 32 reserved vectors to a short mnemonic for fault
// dumps, falling back to "reserved" for vectors Intel hasn't assigned.
var faultNames = [32]string{
	0:  "divide-by-zero",
	1:  "debug",
	2:  "nmi",
	3:  "breakpoint",
	4:  "overflow",
	5:  "bound-range",
	6:  "invalid-opcode",
	7:  "device-not-available",
	8:  "double-fault",
	9:  "segment-overrun",
	10: "invalid-tss",
	11: "segment-not-present",
	12: "stack-fault",
	13: "general-protection",
	14: "page-fault",
	16: "x87-fpu",
	17: "alignment-check",
	18: "machine-check",
	19: "simd-fpu",
	20: "virtualization",
	21: "control-protection",
}

func faultName(vector uint32) string {
	if vector < uint32(len(faultNames)) && faultNames[vector] != "" {
		return faultNames[vector]
	}
	return "reserved"
}

// irqDispatchFn and syscallDispatchFn are set by kmain once the irq registry
// and syscall table exist; keeping the wiring indirect here avoids an import
// cycle between idt, irq and syscall.
var (
	irqDispatchFn    = func(line uint8, frame *RegisterFrame) {}
	syscallDispatchFn = func(frame *RegisterFrame) {}
)

// SetIRQDispatcher installs the function used to route IRQ vectors to their
// registered handler.
func SetIRQDispatcher(fn func(line uint8, frame *RegisterFrame)) {
	irqDispatchFn = fn
}

// SetSyscallDispatcher installs the function used to route the syscall
// vector to the syscall table.
func SetSyscallDispatcher(fn func(frame *RegisterFrame)) {
	syscallDispatchFn = fn
}

// Dispatch is invoked by the common assembly stub for every trapped vector.
// Faults halt the machine after dumping the register frame; IRQs are routed
// through the irq registry and acknowledged; the syscall vector is routed
// through the syscall table.
func Dispatch(frame *RegisterFrame) {
	switch {
	case frame.IntNo < 32:
		dispatchFault(frame)
	case frame.IntNo >= irqBase && frame.IntNo < irqTop:
		dispatchIRQ(frame)
	case frame.IntNo == syscallVector:
		syscallDispatchFn(frame)
	}
}

func dispatchFault(frame *RegisterFrame) {
	kfmt.Printf("fault: %s (vector %d)\n", faultName(frame.IntNo), frame.IntNo)
	frame.DumpTo(&kfmt.PrefixWriter{Sink: kfmt.GetOutputSink(), Prefix: []byte("  ")})
	if level, ok := multiboot.BootFlag("consoleLogLevel"); ok && level == "verbose" {
		diag.Dump(kfmt.GetOutputSink(), *frame)
	}
	kfmt.Printf("Processor halted!\n")
	cpu.DisableInterrupts()
	for {
		cpu.Halt()
	}
}

func dispatchIRQ(frame *RegisterFrame) {
	line := uint8(frame.IntNo - irqBase)
	irqDispatchFn(line, frame)
	eoiFn(line)
}
