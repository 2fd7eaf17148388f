// Package iso9660 reads a Joliet-less ISO 9660 filesystem image off the
// block device exposed by the atapi package: the primary volume
// descriptor, the path table and directory records.
package iso9660

import (
	"encoding/binary"

	"sharkos/kernel"
	"sharkos/kernel/ata/atapi"
	"sharkos/kernel/memory"
)

const (
	blockSize = 2048

	// pvdLBA is the fixed logical block address of the primary volume
	// descriptor.
	pvdLBA = 16

	// Offsets into the PVD of the fields this reader consumes. Both a
	// little- and big-endian copy of the path-table extent and size are
	// present on disk; only the little-endian views are read.
	pvdOffsetPathTableSizeLE = 132
	pvdOffsetPathTableLBALE  = 140
)

// pvdOffsetVolumeID is the offset of the 32-byte, space-padded volume
// identifier field.
const pvdOffsetVolumeID = 40

// PrimaryVolumeDescriptor holds the decoded little-endian fields of the PVD
// needed to locate the path table, plus the raw 2048-byte block it was
// parsed from. Raw is owned by the caller and must be released once the PVD
// is no longer needed.
type PrimaryVolumeDescriptor struct {
	PathTableSize uint32
	PathTableLBA  uint32
	VolumeID      string
	Raw           []byte
}

// LoadPVD reads the fixed PVD block at LBA 16 and returns both its decoded
// fields and the raw block itself.
func LoadPVD() (*PrimaryVolumeDescriptor, *kernel.Error) {
	block, err := atapi.ReadBlock(pvdLBA)
	if err != nil {
		return nil, err
	}

	pvd := &PrimaryVolumeDescriptor{
		PathTableSize: binary.LittleEndian.Uint32(block[pvdOffsetPathTableSizeLE:]),
		PathTableLBA:  binary.LittleEndian.Uint32(block[pvdOffsetPathTableLBALE:]),
		VolumeID:      string(block[pvdOffsetVolumeID : pvdOffsetVolumeID+32]),
		Raw:           block,
	}
	return pvd, nil
}

// LoadPathTable reserves ceil(size/2048)*2048 bytes and reads consecutive
// blocks starting at extent into it, releasing each block once it has been
// copied. The caller owns the returned buffer and must release it.
func LoadPathTable(extent, size uint32) ([]byte, *kernel.Error) {
	blockCount := (size + blockSize - 1) / blockSize
	total := blockCount * blockSize

	ptr := memory.Reserve(uintptr(total))
	if ptr == 0 {
		return nil, memory.ReserveError("iso9660")
	}
	dest := bytesAt(ptr, int(total))

	for i := uint32(0); i < blockCount; i++ {
		block, err := atapi.ReadBlock(extent + i)
		if err != nil {
			memory.Release(ptr)
			return nil, err
		}
		kernel.Memcopy(addrOf(block), ptr+uintptr(i*blockSize), blockSize)
		releaseBlock(block)
	}

	return dest, nil
}

// PathTableEntry is a single parsed entry from the path table index.
type PathTableEntry struct {
	ID        uint32
	ParentID  uint32
	Name      string
	ExtentLBA uint32
}

// BuildIndex makes a single forward pass over the path-table buffer,
// assigning each entry the next natural number starting from 1. The first
// entry is the root and is recorded as its own parent.
func BuildIndex(buffer []byte, size uint32) []PathTableEntry {
	var index []PathTableEntry
	var offset uint32
	nextID := uint32(1)

	for offset < size {
		idLen := uint32(buffer[offset])
		if idLen == 0 {
			break
		}
		extent := binary.LittleEndian.Uint32(buffer[offset+2:])
		parentID := uint32(binary.LittleEndian.Uint16(buffer[offset+6:]))
		name := string(buffer[offset+8 : offset+8+idLen])

		id := nextID
		nextID++
		if id == 1 {
			parentID = 1
		}

		index = append(index, PathTableEntry{
			ID:        id,
			ParentID:  parentID,
			Name:      name,
			ExtentLBA: extent,
		})

		entryLen := 8 + idLen
		if idLen%2 != 0 {
			entryLen++
		}
		offset += entryLen
	}

	return index
}

// ResolveID returns the id of the first entry in index whose name matches
// name and whose parent is parentID, or 0 when no entry matches.
func ResolveID(index []PathTableEntry, parentID uint32, name string) uint32 {
	for _, e := range index {
		if e.ParentID == parentID && e.Name == name {
			return e.ID
		}
	}
	return 0
}

// ExtentFor returns the extent LBA recorded for id, or 0 if id is absent.
func ExtentFor(index []PathTableEntry, id uint32) uint32 {
	for _, e := range index {
		if e.ID == id {
			return e.ExtentLBA
		}
	}
	return 0
}

// Navigate tokenizes path on '/' and walks the index starting from the
// root (id 1), resolving every token up to but not including targetName.
// It returns the id of the directory that contains targetName.
func Navigate(index []PathTableEntry, path, targetName string) (uint32, *kernel.Error) {
	current := uint32(1)
	for _, token := range splitPath(path) {
		if token == targetName {
			break
		}
		current = ResolveID(index, current, token)
		if current == 0 {
			return 0, &kernel.Error{Module: "iso9660", Message: "path component not found"}
		}
	}
	return current, nil
}

func splitPath(path string) []string {
	var tokens []string
	start := 0
	for i := 0; i <= len(path); i++ {
		if i == len(path) || path[i] == '/' {
			if i > start {
				tokens = append(tokens, path[start:i])
			}
			start = i + 1
		}
	}
	return tokens
}

// DirectoryRecord is the subset of an ISO 9660 directory record the
// filesystem layer needs.
type DirectoryRecord struct {
	Length     uint8
	Extent     uint32
	DataLength uint32
	Identifier string
}

const (
	dirOffsetLength     = 0
	dirOffsetExtentLE   = 2
	dirOffsetSizeLE     = 10
	dirOffsetIDLen      = 32
	dirOffsetIdentifier = 33
)

// FindFile walks the variable-length directory records in a single
// 2048-byte block until it finds one whose identifier (stripped of the
// trailing ";1" ISO version suffix) matches name, hits a zero-length
// identifier marking end-of-directory, or reaches the block boundary. On a
// match, it decodes the record into a new DirectoryRecord owned by the
// caller.
func FindFile(block []byte, name string) (*DirectoryRecord, *kernel.Error) {
	var offset uint32
	size := uint32(len(block))

	for offset < size {
		length := uint32(block[offset+dirOffsetLength])
		if length == 0 {
			break
		}

		idLen := uint32(block[offset+dirOffsetIDLen])
		if idLen >= 2 {
			candidate := string(block[offset+dirOffsetIdentifier : offset+dirOffsetIdentifier+idLen-2])
			if candidate == name {
				rec := &DirectoryRecord{
					Length:     uint8(length),
					Extent:     binary.LittleEndian.Uint32(block[offset+dirOffsetExtentLE:]),
					DataLength: binary.LittleEndian.Uint32(block[offset+dirOffsetSizeLE:]),
					Identifier: candidate,
				}
				return rec, nil
			}
		}

		offset += length
	}

	return nil, &kernel.Error{Module: "iso9660", Message: "file not found"}
}

func bytesAt(addr uintptr, size int) []byte {
	return rawSlice(addr, size)
}

func releaseBlock(block []byte) {
	memory.Release(addrOf(block))
}
