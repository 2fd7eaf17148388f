// Package keyboard decodes IBM PC/AT scancode set 1 from the 8042
// controller's data port and prints the resulting characters.
package keyboard

import (
	"sharkos/kernel/cpu"
	"sharkos/kernel/idt"
	"sharkos/kernel/irq"
	"sharkos/kernel/kfmt"
)

const (
	dataPort = 0x60

	line = 1

	leftShift  = 0x2A
	rightShift = 0x36
	capsLock   = 0x3A

	releaseBit = 0x80
)

var inbFn = cpu.Inb

var (
	shiftHeld bool
	capsOn    bool
)

// Init installs the IRQ1 handler.
func Init() {
	irq.Install(line, handleKey)
}

func handleKey(frame *idt.RegisterFrame) {
	raw := inbFn(dataPort)
	scancode := raw &^ releaseBit
	pressed := raw&releaseBit == 0

	switch scancode {
	case leftShift, rightShift:
		shiftHeld = pressed
		return
	case capsLock:
		if pressed {
			capsOn = !capsOn
		}
		return
	}

	if !pressed {
		return
	}

	if name, ok := specialNames[scancode]; ok {
		emit("[" + name + "]")
		return
	}

	ch := keyMappingQWERTY[scancode]
	if ch == 0 {
		return
	}
	if ch >= 'a' && ch <= 'z' && (shiftHeld != capsOn) {
		ch -= 0x20
	}
	emit(string(ch))
}

func emit(s string) {
	kfmt.Printf("%s", s)
}

// specialNames names the non-printable keys the component emits bracketed,
// e.g. "[ENTER]".
var specialNames = map[uint8]string{
	0x01: "ESC",
	0x0E: "BACKSPACE",
	0x0F: "TAB",
	0x1C: "ENTER",
	0x1D: "CTRL",
	0x38: "ALT",
	0x3B: "F1",
	0x3C: "F2",
	0x3D: "F3",
	0x3E: "F4",
	0x3F: "F5",
	0x40: "F6",
	0x41: "F7",
	0x42: "F8",
	0x43: "F9",
	0x44: "F10",
	0x48: "UP",
	0x4B: "LEFT",
	0x4D: "RIGHT",
	0x50: "DOWN",
}

// keyMappingQWERTY is the scancode set 1 -> lowercase ASCII table for the
// keys that produce a printable character.
var keyMappingQWERTY = [128]byte{
	0x02: '1', 0x03: '2', 0x04: '3', 0x05: '4', 0x06: '5',
	0x07: '6', 0x08: '7', 0x09: '8', 0x0A: '9', 0x0B: '0',
	0x0C: '-', 0x0D: '=',

	0x10: 'q', 0x11: 'w', 0x12: 'e', 0x13: 'r', 0x14: 't',
	0x15: 'y', 0x16: 'u', 0x17: 'i', 0x18: 'o', 0x19: 'p',
	0x1A: '[', 0x1B: ']',

	0x1E: 'a', 0x1F: 's', 0x20: 'd', 0x21: 'f', 0x22: 'g',
	0x23: 'h', 0x24: 'j', 0x25: 'k', 0x26: 'l', 0x27: ';',
	0x28: '\'', 0x29: '`',

	0x2B: '\\',
	0x2C: 'z', 0x2D: 'x', 0x2E: 'c', 0x2F: 'v', 0x30: 'b',
	0x31: 'n', 0x32: 'm', 0x33: ',', 0x34: '.', 0x35: '/',

	0x39: ' ',
}
