package console

import "testing"

func newTestConsole() *VgaTextConsole {
	c := &VgaTextConsole{fb: make([]uint16, columns*rows)}
	c.Clear()
	return c
}

func TestWriteAdvancesCursor(t *testing.T) {
	c := newTestConsole()
	c.Write([]byte("hi"))

	if got := c.fb[0] & 0xFF; got != 'h' {
		t.Errorf("expected 'h' at cell 0; got %q", got)
	}
	if got := c.fb[1] & 0xFF; got != 'i' {
		t.Errorf("expected 'i' at cell 1; got %q", got)
	}
	if c.col != 2 || c.row != 0 {
		t.Errorf("expected cursor at (2,0); got (%d,%d)", c.col, c.row)
	}
}

func TestNewlineMovesToNextRow(t *testing.T) {
	c := newTestConsole()
	c.Write([]byte("a\nb"))

	if got := c.fb[columns] & 0xFF; got != 'b' {
		t.Errorf("expected 'b' at the start of row 1; got %q", got)
	}
	if c.row != 1 || c.col != 1 {
		t.Errorf("expected cursor at (1,1); got (%d,%d)", c.col, c.row)
	}
}

func TestLineWrapAdvancesRow(t *testing.T) {
	c := newTestConsole()
	line := make([]byte, columns+1)
	for i := range line {
		line[i] = 'x'
	}
	c.Write(line)

	if c.row != 1 || c.col != 1 {
		t.Errorf("expected wrap to row 1, col 1; got (%d,%d)", c.col, c.row)
	}
}

func TestScrollOnOverflow(t *testing.T) {
	c := newTestConsole()
	for i := 0; i < rows; i++ {
		c.Write([]byte("x\n"))
	}

	if c.row != rows-1 {
		t.Fatalf("expected cursor pinned to the last row; got %d", c.row)
	}
	if got := c.fb[0] & 0xFF; got != 'x' {
		t.Errorf("expected the scrolled-up second line to start with 'x'; got %q", got)
	}
}

func TestClearResetsCursorAndCells(t *testing.T) {
	c := newTestConsole()
	c.Write([]byte("hello\n"))
	c.Clear()

	if c.col != 0 || c.row != 0 {
		t.Fatalf("expected cursor reset to (0,0); got (%d,%d)", c.col, c.row)
	}
	for i, cell := range c.fb {
		if cell != clearCell {
			t.Fatalf("expected cell %d to be cleared; got %#x", i, cell)
		}
	}
}
