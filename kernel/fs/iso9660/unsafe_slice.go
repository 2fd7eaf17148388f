package iso9660

import (
	"reflect"
	"unsafe"
)

func rawSlice(addr uintptr, size int) []byte {
	return *(*[]byte)(unsafe.Pointer(&reflect.SliceHeader{
		Len:  size,
		Cap:  size,
		Data: addr,
	}))
}

func addrOf(b []byte) uintptr {
	return (*reflect.SliceHeader)(unsafe.Pointer(&b)).Data
}
