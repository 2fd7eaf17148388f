// Package kmain wires every subsystem together in the strict order the
// kernel requires and hands control to the user ROM once setup succeeds.
package kmain

import (
	"unsafe"

	"sharkos/device/console"
	"sharkos/device/serial"
	"sharkos/kernel"
	"sharkos/kernel/ata/atapi"
	"sharkos/kernel/cpu"
	"sharkos/kernel/gdt"
	"sharkos/kernel/idt"
	"sharkos/kernel/irq"
	"sharkos/kernel/keyboard"
	"sharkos/kernel/kfmt"
	"sharkos/kernel/multiboot"
	"sharkos/kernel/pic"
	"sharkos/kernel/syscall"
	"sharkos/kernel/timer"
)

// kernelStack backs the ring-0 stack recorded in the TSS for privilege-level
// transitions. It is a static array rather than a heap allocation since the
// heap is not guaranteed to exist yet when the GDT is built.
var kernelStack [16 * 1024]byte

var errKmainReturned = &kernel.Error{Module: "kmain", Message: "Kmain returned"}

// UserEntry is the user ROM's entry point, set by the platform's bootstrap
// code before Kmain runs. It is called once setup succeeds and is not
// expected to return.
var UserEntry func()

// Kmain is the only Go symbol the assembly bootstrap code calls after
// establishing a minimal stack. magic and infoPtr are the EAX/EBX values the
// loader left at entry; beyond recording them and reading the boot command
// line, the info structure is not interpreted since the heap is a static
// arena rather than one carved out of the reported memory map.
//
//go:noinline
func Kmain(magic uint32, infoPtr uintptr) {
	multiboot.SetInfo(magic, infoPtr)
	multiboot.LoadCmdLine()

	con := console.New()
	if err := con.DriverInit(); err != nil {
		kernel.Panic(err)
	}
	kfmt.SetOutputSink(con)
	kfmt.Printf("Framebuffer initialized\n")

	com1 := serial.NewCOM1()
	if err := com1.DriverInit(); err != nil {
		kernel.Panic(err)
	}
	kfmt.Printf("Serial port initialized\n")

	stackTop := uintptr(unsafe.Pointer(&kernelStack[len(kernelStack)-1]))
	gdt.Init(stackTop)
	kfmt.Printf("GDT loaded\n")

	cpu.EnableProtectedMode()
	kfmt.Printf("Protected mode enabled\n")

	pic.Init()
	idt.Init()
	idt.SetIRQDispatcher(func(line uint8, frame *idt.RegisterFrame) { irq.Dispatch(line, frame) })
	kfmt.Printf("IDT loaded\n")

	syscall.Init(com1)
	kfmt.Printf("Syscalls initialized\n")

	timer.Init()
	kfmt.Printf("Timer initialized\n")

	keyboard.Init()
	kfmt.Printf("Keyboard initialized\n")

	if !atapi.Discover() {
		kernel.Panic(&kernel.Error{Module: "atapi", Message: "ATAPI drive not found"})
	}
	kfmt.Printf("ATAPI drive found\n")

	kfmt.Printf("Setup finished!\n")

	cpu.EnableInterrupts()

	if UserEntry != nil {
		UserEntry()
	}

	// Use kernel.Panic instead of panic so the compiler cannot treat this
	// call as dead code and eliminate it.
	kernel.Panic(errKmainReturned)
}
