// Package fd implements the ring-0 file-descriptor table: open/read/seek/close
// against the ISO 9660 reader and the ATAPI block device.
package fd

import (
	"strings"

	"sharkos/kernel"
	"sharkos/kernel/ata/atapi"
	"sharkos/kernel/fs/iso9660"
	"sharkos/kernel/memory"
)

const (
	maxDescriptors = 16
	blockSize      = 2048
)

// Whence selects the origin for Seek.
const (
	SeekSet = iota
	SeekCur
	SeekEnd
)

type descriptor struct {
	inUse  bool
	record iso9660.DirectoryRecord
	offset uint32
}

var table [maxDescriptors]descriptor

// Open resolves path (read-only; any other flag is rejected) against the
// ISO 9660 image mounted behind the ATAPI drive and stores the located
// directory record in the first free slot. Every intermediate buffer is
// released before returning. Returns the slot index, or an error if no
// slot is free or the path cannot be resolved.
func Open(path string, flags int) (int, *kernel.Error) {
	if flags != 0 {
		return -1, &kernel.Error{Module: "fd", Message: "read-only filesystem"}
	}

	slot := -1
	for i := range table {
		if !table[i].inUse {
			slot = i
			break
		}
	}
	if slot == -1 {
		return -1, &kernel.Error{Module: "fd", Message: "descriptor table full"}
	}

	path = strings.ToUpper(path)

	pvd, err := iso9660.LoadPVD()
	if err != nil {
		return -1, err
	}

	pathTable, err := iso9660.LoadPathTable(pvd.PathTableLBA, pvd.PathTableSize)
	releaseBlock(pvd.Raw)
	if err != nil {
		return -1, err
	}
	index := iso9660.BuildIndex(pathTable, pvd.PathTableSize)
	memory.Release(addrOfPathTable(pathTable))

	basename := path
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		basename = path[i+1:]
	}

	dirID, err := iso9660.Navigate(index, path, basename)
	if err != nil {
		return -1, err
	}

	dirExtent := iso9660.ExtentFor(index, dirID)
	dirBlock, err := atapi.ReadBlock(dirExtent)
	if err != nil {
		return -1, err
	}

	rec, err := iso9660.FindFile(dirBlock, basename)
	releaseBlock(dirBlock)
	if err != nil {
		return -1, err
	}

	table[slot] = descriptor{inUse: true, record: *rec, offset: 0}
	return slot, nil
}

// Read copies up to count bytes starting at the descriptor's current offset
// into out, spanning as many 2048-byte blocks as necessary, and advances the
// offset by the number of bytes copied.
func Read(fdNum int, out []byte, count int) (int, *kernel.Error) {
	slot, err := lookup(fdNum)
	if err != nil {
		return -1, err
	}

	size := slot.record.DataLength
	pos := slot.offset
	if pos >= size {
		return 0, nil
	}

	if uint32(count) > size-pos {
		count = int(size - pos)
	}
	if count <= 0 {
		return 0, nil
	}

	startBlock := slot.record.Extent + pos/blockSize
	intraStart := pos % blockSize
	blockCount := (intraStart + uint32(count) + blockSize - 1) / blockSize

	copied := 0
	for i := uint32(0); i < blockCount; i++ {
		block, err := atapi.ReadBlock(startBlock + i)
		if err != nil {
			return copied, err
		}

		from := uint32(0)
		if i == 0 {
			from = intraStart
		}
		to := uint32(blockSize)
		if i == blockCount-1 {
			to = intraStart + uint32(count) - i*blockSize
			if to > blockSize {
				to = blockSize
			}
		}

		n := copy(out[copied:], block[from:to])
		copied += n
		releaseBlock(block)
	}

	slot.offset += uint32(copied)
	return copied, nil
}

// Seek repositions the descriptor's offset relative to whence, rejecting any
// result that would be negative or past the end of the file.
func Seek(fdNum int, off int32, whence int) (int32, *kernel.Error) {
	slot, err := lookup(fdNum)
	if err != nil {
		return -1, err
	}

	var base int32
	switch whence {
	case SeekSet:
		base = 0
	case SeekCur:
		base = int32(slot.offset)
	case SeekEnd:
		base = int32(slot.record.DataLength)
	default:
		return -1, &kernel.Error{Module: "fd", Message: "invalid whence"}
	}

	newOffset := base + off
	if newOffset < 0 || newOffset > int32(slot.record.DataLength) {
		return -1, &kernel.Error{Module: "fd", Message: "seek out of range"}
	}

	slot.offset = uint32(newOffset)
	return newOffset, nil
}

// Close releases the descriptor's stored record and frees the slot.
func Close(fdNum int) *kernel.Error {
	slot, err := lookup(fdNum)
	if err != nil {
		return err
	}
	*slot = descriptor{}
	return nil
}

func lookup(fdNum int) (*descriptor, *kernel.Error) {
	if fdNum < 0 || fdNum >= maxDescriptors {
		return nil, &kernel.Error{Module: "fd", Message: "descriptor out of range"}
	}
	slot := &table[fdNum]
	if !slot.inUse {
		return nil, &kernel.Error{Module: "fd", Message: "descriptor not open"}
	}
	return slot, nil
}
