// Package atapi discovers an ATAPI CD-ROM drive on the legacy IDE
// controllers and issues PIO SCSI READ(12) commands against it to pull
// 2048-byte logical blocks.
package atapi

import (
	"sharkos/kernel"
	"sharkos/kernel/cpu"
	"sharkos/kernel/memory"
)

// Channel identifies which IDE controller a drive sits on.
type Channel int

const (
	Primary Channel = iota
	Secondary
)

// Select identifies the master/slave drive on a channel.
type Select uint8

const (
	Master Select = 0xA0
	Slave  Select = 0xB0
)

const (
	primaryBase    = 0x1F0
	primaryControl = 0x3F6
	secondaryBase  = 0x170
	secondaryCtrl  = 0x376

	blockSize = 2048

	// register offsets from a channel's base port.
	regData        = 0
	regFeatures    = 1
	regSectorCount = 2
	regLBALow      = 3
	regLBAMid      = 4
	regLBAHigh     = 5
	regDrive       = 6
	regCommand     = 7
	regStatus      = 7

	statusBSY = 0x80
	statusDRQ = 0x08

	cmdPacket = 0xA0

	// sectorCountComplete is the sector-count register value ATAPI PIO
	// transfers settle on once the command has completed.
	sectorCountComplete = 0x03
)

// signature is the 4-byte ATAPI identification sequence read from
// sector-count, LBA-low, LBA-mid, LBA-high after a soft reset.
var signature = [4]uint8{0x01, 0x01, 0x14, 0xEB}

type drive struct {
	base, control uint16
	selectByte    uint8
}

var (
	outbFn  = cpu.Outb
	inbFn   = cpu.Inb
	outswFn = cpu.Outsw
	inswFn  = cpu.Insw
)

// found is the discovered drive, or nil if discovery never located one.
var found *drive

var channels = [2]struct {
	base, control uint16
}{
	{primaryBase, primaryControl},
	{secondaryBase, secondaryCtrl},
}

var selects = [2]uint8{uint8(Master), uint8(Slave)}

// Discover probes both channels for an ATAPI drive. It remembers the first
// one found and reports whether a drive was located.
func Discover() bool {
	for _, ch := range channels {
		for _, sel := range selects {
			outbFn(ch.control, 0x04) // software reset
			outbFn(ch.control, 0x02) // release reset, nIEN
			outbFn(ch.base+regDrive, sel)

			for inbFn(ch.base+regStatus)&statusBSY != 0 {
			}

			var sig [4]uint8
			sig[0] = inbFn(ch.base + regSectorCount)
			sig[1] = inbFn(ch.base + regLBALow)
			sig[2] = inbFn(ch.base + regLBAMid)
			sig[3] = inbFn(ch.base + regLBAHigh)

			if sig == signature {
				found = &drive{base: ch.base, control: ch.control, selectByte: sel}
				return true
			}
		}
	}
	return false
}

// Found reports whether Discover located a drive.
func Found() bool {
	return found != nil
}

// ReadBlock reads the 2048-byte logical block at lba from the discovered
// drive into a freshly reserved buffer owned by the caller, or returns an
// error if no drive was ever found.
func ReadBlock(lba uint32) ([]byte, *kernel.Error) {
	if found == nil {
		return nil, &kernel.Error{Module: "atapi", Message: "no drive found"}
	}
	d := found

	outbFn(d.base+regDrive, d.selectByte)
	for inbFn(d.base+regStatus)&statusBSY != 0 {
	}

	outbFn(d.base+regFeatures, 0)
	outbFn(d.base+regSectorCount, 0)
	outbFn(d.base+regLBAMid, uint8(blockSize&0xFF))
	outbFn(d.base+regLBAHigh, uint8((blockSize>>8)&0xFF))

	outbFn(d.base+regCommand, cmdPacket)

	for {
		status := inbFn(d.base + regStatus)
		if status&statusBSY == 0 && status&statusDRQ != 0 {
			break
		}
	}

	packet := newReadPacket(lba, 1)
	words := packet.words()
	outswFn(d.base+regData, words, len(words))

	for inbFn(d.base+regSectorCount) != sectorCountComplete {
	}

	ptr := memory.Reserve(blockSize)
	if ptr == 0 {
		return nil, memory.ReserveError("atapi")
	}
	buf := bytesAt(ptr, blockSize)

	words16 := make([]uint16, blockSize/2)
	inswFn(d.base+regData, words16, len(words16))
	for i, w := range words16 {
		buf[2*i] = uint8(w)
		buf[2*i+1] = uint8(w >> 8)
	}

	return buf, nil
}
