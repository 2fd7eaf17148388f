// Package kernel contains types shared by every kernel subsystem.
package kernel

import (
	"sharkos/kernel/cpu"
	"sharkos/kernel/kfmt"
)

// Error describes a kernel error. All kernel errors are defined as pointers
// to this structure rather than created via errors.New since the heap
// allocator may not be available yet when the error is constructed (e.g.
// during early boot).
type Error struct {
	// The module where the error occurred.
	Module string

	// The error message.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// cpuHaltFn and cpuDisableInterruptsFn are mocked by tests.
var (
	cpuHaltFn              = cpu.Halt
	cpuDisableInterruptsFn = cpu.DisableInterrupts
)

// Panic prints err to the active console output sink, labelled with its
// originating module, and halts the CPU in an infinite loop. It never
// returns.
func Panic(err *Error) {
	kfmt.Printf("\n-----------------------------------\n")
	if err != nil {
		kfmt.Printf("[%s] unrecoverable error: %s\n", err.Module, err.Message)
	}
	kfmt.Printf("*** kernel panic: system halted ***\n")
	kfmt.Printf("-----------------------------------\n")

	cpuDisableInterruptsFn()
	for {
		cpuHaltFn()
	}
}
