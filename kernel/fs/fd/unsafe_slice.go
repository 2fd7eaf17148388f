package fd

import (
	"reflect"
	"unsafe"

	"sharkos/kernel/memory"
)

func addrOfPathTable(b []byte) uintptr {
	return (*reflect.SliceHeader)(unsafe.Pointer(&b)).Data
}

func releaseBlock(block []byte) {
	memory.Release(addrOfPathTable(block))
}
