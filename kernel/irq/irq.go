// Package irq maintains the table mapping PIC IRQ lines to their installed
// handlers. Registration only ever happens before interrupts are enabled,
// and handlers only ever run with interrupts disabled, so the table needs no
// synchronization (§4.5/§5).
package irq

import "sharkos/kernel/idt"

// Handler is invoked by the dispatcher when its IRQ line fires. It receives
// the trapped register frame, which it may inspect but should not mutate
// (EAX mutation is reserved for the syscall path).
type Handler func(frame *idt.RegisterFrame)

const lineCount = 16

var handlers [lineCount]Handler

// Install registers handler as the callback for irq. A line may only have
// one handler at a time; installing over an occupied slot replaces it.
func Install(line uint8, handler Handler) {
	if line >= lineCount {
		return
	}
	handlers[line] = handler
}

// Uninstall clears the handler for irq, if any.
func Uninstall(line uint8) {
	if line >= lineCount {
		return
	}
	handlers[line] = nil
}

// Dispatch invokes the handler installed for line, if any, passing it frame.
// It reports whether a handler was present.
func Dispatch(line uint8, frame *idt.RegisterFrame) bool {
	if line >= lineCount || handlers[line] == nil {
		return false
	}
	handlers[line](frame)
	return true
}
