// Package cpu exposes the IA-32 port I/O and privileged-instruction
// primitives needed by the rest of the kernel. Each function below has no Go
// body; its implementation lives in the accompanying architecture-specific
// assembly stub (cpu_386.s) since these operations require instructions
// (IN/OUT/LGDT/LTR/CLI/STI/HLT) that cannot be expressed in Go.
package cpu

// Inb reads a single byte from the given I/O port.
func Inb(port uint16) uint8

// Outb writes a single byte to the given I/O port.
func Outb(port uint16, value uint8)

// Inw reads a 16-bit word from the given I/O port.
func Inw(port uint16) uint16

// Outw writes a 16-bit word to the given I/O port.
func Outw(port uint16, value uint16)

// Insw reads count 16-bit words from the given I/O port into buf. buf must
// contain at least count entries.
func Insw(port uint16, buf []uint16, count int)

// Outsw writes count 16-bit words from buf to the given I/O port. buf must
// contain at least count entries.
func Outsw(port uint16, buf []uint16, count int)

// EnableInterrupts sets the interrupt flag (STI), allowing maskable hardware
// interrupts to be delivered.
func EnableInterrupts()

// DisableInterrupts clears the interrupt flag (CLI).
func DisableInterrupts()

// Halt stops instruction execution until the next interrupt (HLT).
func Halt()

// LoadGDT loads the processor's GDTR register with the 6-byte pointer
// (limit, base) at ptrAddr and performs the segment reload / far-return
// sequence described by the GDT component: DS/ES/FS/GS/SS are reloaded from
// the selector in dataSelector and CS is reloaded via a far return to
// codeSelector.
func LoadGDT(ptrAddr uintptr, codeSelector, dataSelector uint16)

// LoadTSS loads the task register with the given TSS selector (LTR).
func LoadTSS(selector uint16)

// LoadIDT loads the processor's IDTR register with the 6-byte pointer
// (limit, base) at ptrAddr (LIDT).
func LoadIDT(ptrAddr uintptr)

// EnableProtectedMode sets the PE bit in CR0 if it is not already set.
func EnableProtectedMode()
