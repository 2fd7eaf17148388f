// Package syscall implements the eleven-slot int 0x80 syscall table and
// wires it into the IDT dispatcher.
package syscall

import (
	"io"
	"reflect"
	"unsafe"

	"sharkos/kernel/fs/fd"
	"sharkos/kernel/idt"
)

const slotCount = 11

// minusOne is -1 in two's complement, the error result every syscall returns.
const minusOne = ^uint32(0)

// Syscall numbers; each is the index of its handler in the table below.
const (
	Test = iota
	Write
	Sbrk
	Getkey
	Gettick
	Open
	Read
	Seek
	Close
	SetVideo
	SwapFrontbuffer
)

type handler func(frame *idt.RegisterFrame) uint32

var table [slotCount]handler

// writer is where syscall 1 (write) sends its bytes. It is nil until Init
// wires a concrete sink.
var writer io.Writer

// Init installs the syscall table into the IDT dispatcher. out is the sink
// syscall 1 (write) targets.
func Init(out io.Writer) {
	writer = out

	table[Test] = sysTest
	table[Write] = sysWrite
	table[Sbrk] = nil
	table[Getkey] = nil
	table[Gettick] = nil
	table[Open] = sysOpen
	table[Read] = sysRead
	table[Seek] = sysSeek
	table[Close] = sysClose
	table[SetVideo] = sysSetVideo
	table[SwapFrontbuffer] = sysSwapFrontbuffer

	idt.SetSyscallDispatcher(Dispatch)
}

// Dispatch is called by the IDT on vector 0x80. The syscall number is in
// EAX, arguments in EBX/ECX/EDX. A number outside [0, slotCount) or an
// unimplemented slot yields -1 (two's complement) in EAX.
func Dispatch(frame *idt.RegisterFrame) {
	num := frame.EAX
	if num >= slotCount || table[num] == nil {
		frame.EAX = minusOne
		return
	}
	frame.EAX = table[num](frame)
}

func sysTest(frame *idt.RegisterFrame) uint32 {
	return 42
}

func sysWrite(frame *idt.RegisterFrame) uint32 {
	buf := bytesAt(uintptr(frame.EBX), int(frame.ECX))
	n, err := writer.Write(buf)
	if err != nil {
		return minusOne
	}
	return uint32(n)
}

func sysOpen(frame *idt.RegisterFrame) uint32 {
	path := stringAt(uintptr(frame.EBX))
	fdNum, err := fd.Open(path, int(frame.ECX))
	if err != nil {
		return minusOne
	}
	return uint32(fdNum)
}

func sysRead(frame *idt.RegisterFrame) uint32 {
	out := bytesAt(uintptr(frame.ECX), int(frame.EDX))
	n, err := fd.Read(int(frame.EBX), out, int(frame.EDX))
	if err != nil {
		return minusOne
	}
	return uint32(n)
}

func sysSeek(frame *idt.RegisterFrame) uint32 {
	off, err := fd.Seek(int(frame.EBX), int32(frame.ECX), int(frame.EDX))
	if err != nil {
		return minusOne
	}
	return uint32(off)
}

func sysClose(frame *idt.RegisterFrame) uint32 {
	if err := fd.Close(int(frame.EBX)); err != nil {
		return minusOne
	}
	return 0
}

func sysSetVideo(frame *idt.RegisterFrame) uint32 {
	if setVideoModeFn == nil {
		return minusOne
	}
	if !setVideoModeFn(frame.EBX) {
		return minusOne
	}
	return 0
}

func sysSwapFrontbuffer(frame *idt.RegisterFrame) uint32 {
	if swapFrontbufferFn != nil {
		swapFrontbufferFn(uintptr(frame.EBX))
	}
	return 0
}

// setVideoModeFn and swapFrontbufferFn let the video console wire itself
// into syscalls 9 and 10 without this package importing it directly.
var (
	setVideoModeFn    func(mode uint32) bool
	swapFrontbufferFn func(addr uintptr)
)

// SetVideoHooks wires the setvideo/swap_frontbuffer syscalls to the video
// console's implementation.
func SetVideoHooks(setMode func(mode uint32) bool, swap func(addr uintptr)) {
	setVideoModeFn = setMode
	swapFrontbufferFn = swap
}

func bytesAt(addr uintptr, size int) []byte {
	if size <= 0 {
		return nil
	}
	return *(*[]byte)(unsafe.Pointer(&reflect.SliceHeader{
		Len:  size,
		Cap:  size,
		Data: addr,
	}))
}

func addrOf(b []byte) uintptr {
	return (*reflect.SliceHeader)(unsafe.Pointer(&b)).Data
}

func stringAt(addr uintptr) string {
	var n int
	for {
		b := *(*byte)(unsafe.Pointer(addr + uintptr(n)))
		if b == 0 {
			break
		}
		n++
	}
	return string(bytesAt(addr, n))
}
