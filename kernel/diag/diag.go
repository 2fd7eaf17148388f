// Package diag provides verbose structural dumps of kernel state for
// post-mortem debugging, on top of the concise single-line reports the
// individual components print during normal operation.
package diag

import (
	"io"

	"github.com/davecgh/go-spew/spew"
)

// config mirrors spew's defaults except for the fields that would defeat the
// purpose of a freestanding dump: no pointer-address noise, indent with two
// spaces to match the console's own indentation.
var config = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// Dump writes a field-by-field rendering of every value in v to w. It is
// meant to be called from fault and panic paths, where a plain register
// dump doesn't show enough of the surrounding state to diagnose the cause.
func Dump(w io.Writer, v ...interface{}) {
	config.Fdump(w, v...)
}
