// Package console implements the VGA text-mode console the kernel uses for
// all boot and fault output. There is no paging in this kernel (§ Non-goals)
// so the framebuffer is addressed directly at its physical location rather
// than through a mapped virtual region.
package console

import (
	"reflect"
	"unsafe"

	"sharkos/kernel"
)

const (
	// fbPhysAddr is the fixed physical address of the VGA text-mode
	// framebuffer.
	fbPhysAddr = 0xB8000

	columns = 80
	rows    = 25

	defaultAttr = uint16(0x07) << 8 // light gray on black
	clearCell   = defaultAttr | uint16(' ')
)

// VgaTextConsole is an 80x25 VGA text-mode console. It implements io.Writer
// so it can be installed as kfmt's output sink.
type VgaTextConsole struct {
	fb []uint16

	col, row uint32
}

// New builds a console overlaying the VGA text framebuffer.
func New() *VgaTextConsole {
	c := &VgaTextConsole{}
	c.fb = *(*[]uint16)(unsafe.Pointer(&reflect.SliceHeader{
		Len:  columns * rows,
		Cap:  columns * rows,
		Data: fbPhysAddr,
	}))
	return c
}

// DriverName implements device.Driver.
func (c *VgaTextConsole) DriverName() string { return "vga_text_console" }

// DriverVersion implements device.Driver.
func (c *VgaTextConsole) DriverVersion() (uint16, uint16, uint16) { return 0, 1, 0 }

// DriverInit implements device.Driver. It clears the screen and resets the
// cursor to the top-left cell.
func (c *VgaTextConsole) DriverInit() *kernel.Error {
	c.Clear()
	return nil
}

// Clear fills the entire console with the default attribute and blanks,
// resetting the cursor.
func (c *VgaTextConsole) Clear() {
	for i := range c.fb {
		c.fb[i] = clearCell
	}
	c.col, c.row = 0, 0
}

// Write implements io.Writer, printing each byte as a character cell and
// advancing the cursor. A '\n' moves to the start of the next line; writing
// past the last row scrolls the console up by one line.
func (c *VgaTextConsole) Write(p []byte) (int, error) {
	for _, b := range p {
		c.putChar(b)
	}
	return len(p), nil
}

func (c *VgaTextConsole) putChar(ch byte) {
	if ch == '\n' {
		c.col = 0
		c.row++
	} else {
		c.fb[c.row*columns+c.col] = defaultAttr | uint16(ch)
		c.col++
		if c.col >= columns {
			c.col = 0
			c.row++
		}
	}

	if c.row >= rows {
		c.scrollUp()
		c.row = rows - 1
	}
}

func (c *VgaTextConsole) scrollUp() {
	copy(c.fb[0:(rows-1)*columns], c.fb[columns:rows*columns])
	for i := (rows - 1) * columns; i < rows*columns; i++ {
		c.fb[i] = clearCell
	}
}
