// Package memory implements the kernel's byte-granular heap: opaque
// Reserve/Release calls used by every upper layer that needs scratch
// storage (path-table buffers, directory blocks, ATAPI sector buffers).
//
// The allocator backs onto a single static arena sized at link time and
// manages it with a first-fit, intrusive free list adapted from the frame
// allocator's bookkeeping style but operating at byte granularity, since
// callers here request odd-sized buffers (a 2048-byte sector, a few hundred
// bytes of path-table entries) rather than whole pages. Free-list nodes
// live inline in the freed bytes themselves rather than as separate
// Go-heap objects, since this package is itself what backs allocation for
// the rest of the kernel.
package memory

import (
	"unsafe"

	"sharkos/kernel"
	"sharkos/kernel/mem"
)

const (
	arenaSize = uintptr(512 * mem.Kb)

	wordSize = unsafe.Sizeof(uintptr(0))

	// Each allocated run is preceded by a one-word size header.
	allocHeaderSize = wordSize

	// Each free run is headed by a two-word (size, next-offset) node.
	freeNodeSize = 2 * wordSize

	// noNext marks the end of the free list.
	noNext = ^uintptr(0)
)

var arena [arenaSize]byte

// freeHead is the arena offset of the first free run, or noNext when the
// heap is exhausted.
var freeHead uintptr

var reserveCount, releaseCount int

func init() {
	// Defensively zero the arena rather than trusting the loader to have
	// cleared BSS; the two header words are overwritten immediately after.
	kernel.Memset(uintptr(arenaBase()), 0, arenaSize)

	freeHead = 0
	putWord(0, arenaSize)
	putWord(wordSize, noNext)
}

// Reserve returns a pointer to a newly allocated run of at least size
// bytes, or 0 if the arena has no run large enough. Callers turn a zero
// return into the error built by ReserveError and return it.
func Reserve(size uintptr) uintptr {
	if size == 0 {
		return 0
	}
	need := size + allocHeaderSize

	var prevOffset uintptr
	hasPrev := false
	offset := freeHead
	for offset != noNext {
		runSize := wordAt(offset)
		next := wordAt(offset + wordSize)

		if runSize < need {
			prevOffset = offset
			hasPrev = true
			offset = next
			continue
		}

		remaining := runSize - need
		if remaining < freeNodeSize {
			// Not enough left over for another free node; hand out
			// the whole run instead of fragmenting below the
			// minimum node size.
			need = runSize
			unlinkFree(prevOffset, hasPrev, next)
		} else {
			newFreeOffset := offset + need
			putWord(newFreeOffset, remaining)
			putWord(newFreeOffset+wordSize, next)
			unlinkFree(prevOffset, hasPrev, newFreeOffset)
		}

		putWord(offset, need-allocHeaderSize)
		reserveCount++
		return uintptr(arenaBase()) + offset + allocHeaderSize
	}
	return 0
}

func unlinkFree(prevOffset uintptr, hasPrev bool, replacement uintptr) {
	if !hasPrev {
		freeHead = replacement
		return
	}
	putWord(prevOffset+wordSize, replacement)
}

// Release returns the run starting at ptr (as returned by Reserve) to the
// free list. ptr must be a value Reserve previously returned and not
// already released; callers never race with themselves since allocation is
// never invoked re-entrantly (§5).
func Release(ptr uintptr) {
	if ptr == 0 {
		return
	}
	offset := ptr - uintptr(arenaBase()) - allocHeaderSize
	size := wordAt(offset)

	putWord(offset, size+allocHeaderSize)
	putWord(offset+wordSize, freeHead)
	freeHead = offset
	releaseCount++
}

func wordAt(offset uintptr) uintptr {
	return *(*uintptr)(unsafe.Pointer(&arena[offset]))
}

func putWord(offset uintptr, v uintptr) {
	*(*uintptr)(unsafe.Pointer(&arena[offset])) = v
}

func arenaBase() unsafe.Pointer {
	return unsafe.Pointer(&arena[0])
}

// LeakReport returns the number of Reserve calls that have not been matched
// by a Release.
func LeakReport() int {
	return reserveCount - releaseCount
}

// ReserveError builds the error value callers return when Reserve fails.
func ReserveError(module string) *kernel.Error {
	return &kernel.Error{Module: module, Message: "heap: out of memory"}
}
