// Package gdt builds and loads the IA-32 Global Descriptor Table and Task
// State Segment used to define the kernel/user code and data segments and
// the ring-0 stack used on privilege-level transitions.
package gdt

import (
	"unsafe"

	"sharkos/kernel/cpu"
)

// Segment selectors for the six static GDT slots. Each selector is the slot
// index shifted left by 3 (the size of a GDT entry).
const (
	NullSelector       = uint16(0x00)
	KernelCodeSelector = uint16(0x08)
	KernelDataSelector = uint16(0x10)
	UserCodeSelector   = uint16(0x18 | ring3)
	UserDataSelector   = uint16(0x20 | ring3)
	TSSSelector        = uint16(0x28)

	ring3 = 0x03
)

// Access byte values for each kind of descriptor, as specified by the GDT
// layout (§3/§4.2 of the component's design).
const (
	accessKernelCode = 0x9A
	accessKernelData = 0x92
	accessUserCode   = 0xFA
	accessUserData   = 0xF2
	accessTSS        = 0x89

	flagsSegment = 0xC // 4KiB granularity, 32-bit protected mode
	flagsTSS     = 0x0
)

const entryCount = 6

// entry is the packed, wire-exact layout of a single 8-byte GDT descriptor.
type entry struct {
	limitLow   uint16
	baseLow    uint16
	baseMiddle uint8
	access     uint8
	flagsLimit uint8 // high nibble: flags, low nibble: limit bits 16-19
	baseHigh   uint8
}

func newEntry(base uint32, limit uint32, access uint8, flags uint8) entry {
	return entry{
		limitLow:   uint16(limit & 0xFFFF),
		baseLow:    uint16(base & 0xFFFF),
		baseMiddle: uint8((base >> 16) & 0xFF),
		access:     access,
		flagsLimit: (flags << 4) | uint8((limit>>16)&0x0F),
		baseHigh:   uint8((base >> 24) & 0xFF),
	}
}

// tss is the IA-32 32-bit Task State Segment. Only the fields the kernel
// relies on (ss0/esp0, used for the ring-3 -> ring-0 stack switch) are
// populated; the rest exists purely to satisfy the hardware-mandated
// layout.
type tss struct {
	prevTSS    uint32
	esp0       uint32
	ss0        uint32
	esp1       uint32
	ss1        uint32
	esp2       uint32
	ss2        uint32
	cr3        uint32
	eip        uint32
	eflags     uint32
	eax, ecx   uint32
	edx, ebx   uint32
	esp, ebp   uint32
	esi, edi   uint32
	es, cs     uint32
	ss, ds     uint32
	fs, gs     uint32
	ldt        uint32
	trap       uint16
	ioMapBase  uint16
}

var (
	table [entryCount]entry
	task  tss

	loadGDTFn            = loadGDT
	loadTSSFn            = loadTSSSelector
	enableProtectedModeFn = enableProtectedMode
)

// pointer is the 6-byte structure consumed by LGDT: a 16-bit table limit
// followed by the table's 32-bit linear base address.
type pointer struct {
	limit uint16
	base  uint32
}

// Init builds the six static GDT descriptors (null, kernel code/data, user
// code/data, TSS), installs a kernel-mode stack pointer into the TSS, loads
// the GDT and TSS, and enables protected mode. It never fails: once the
// descriptor bytes are written, loading them is infallible from the caller's
// perspective (§4.2).
func Init(kernelStackTop uintptr) {
	table[0] = entry{}
	table[1] = newEntry(0, 0xFFFFF, accessKernelCode, flagsSegment)
	table[2] = newEntry(0, 0xFFFFF, accessKernelData, flagsSegment)
	table[3] = newEntry(0, 0xFFFFF, accessUserCode, flagsSegment)
	table[4] = newEntry(0, 0xFFFFF, accessUserData, flagsSegment)

	task = tss{}
	task.ss0 = uint32(KernelDataSelector)
	task.esp0 = uint32(kernelStackTop)

	tssBase := uint32(uintptr(unsafe.Pointer(&task)))
	table[5] = newEntry(tssBase, uint32(unsafe.Sizeof(task)-1), accessTSS, flagsTSS)

	ptr := pointer{
		limit: uint16(unsafe.Sizeof(table) - 1),
		base:  uint32(uintptr(unsafe.Pointer(&table))),
	}

	loadGDTFn(uintptr(unsafe.Pointer(&ptr)))
	enableProtectedModeFn()
	loadTSSFn(TSSSelector)
}

// Table returns the current contents of the GDT, primarily for tests that
// assert on the layout invariant (§8.2).
func Table() [entryCount]entry {
	return table
}

// TSSAddr returns the linear address of the static TSS storage.
func TSSAddr() uintptr {
	return uintptr(unsafe.Pointer(&task))
}

func loadGDT(ptrAddr uintptr) {
	cpu.LoadGDT(ptrAddr, KernelCodeSelector, KernelDataSelector)
}

func loadTSSSelector(selector uint16) {
	cpu.LoadTSS(selector)
}

func enableProtectedMode() {
	cpu.EnableProtectedMode()
}
